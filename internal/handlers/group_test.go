package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"chat-api/internal/docstore"
	"chat-api/internal/logging"
	"chat-api/internal/mocks"
	"chat-api/internal/models"
)

func setupGroupRouter(handler *GroupHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", "uid-1")
		c.Next()
	})
	r.POST("/chat/:app_id/groups", handler.CreateGroup)
	r.PUT("/chat/:app_id/groups/:group_id", handler.UpdateGroup)
	r.POST("/chat/:app_id/groups/:group_id/members", handler.JoinGroup)
	r.PUT("/chat/:app_id/groups/:group_id/members", handler.SetMembersGroup)
	r.DELETE("/chat/:app_id/groups/:group_id/members/:member_id", handler.LeaveGroup)
	r.PUT("/chat/:app_id/groups/:group_id/attributes", handler.SetAttributesGroup)
	return r
}

func TestCreateGroupOwnerIsAlwaysMember(t *testing.T) {
	groups := new(mocks.GroupRepositoryMock)
	handler := NewGroupHandler(groups, nil, logging.Discard())
	router := setupGroupRouter(handler)

	groups.On("Create", mock.Anything, "app1", mock.MatchedBy(func(g models.Group) bool {
		return g.Name == "team" && g.Owner == "uid-1" && g.Members["uid-1"] == 1
	})).Return(models.Group{ID: "g1"}, nil).Once()

	body := bytes.NewBufferString(`{"group_name":"team"}`)
	req := httptest.NewRequest(http.MethodPost, "/chat/app1/groups", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, true, resp["success"])
	groups.AssertExpectations(t)
}

func TestCreateGroupCallerListedWithoutSelf(t *testing.T) {
	groups := new(mocks.GroupRepositoryMock)
	handler := NewGroupHandler(groups, nil, logging.Discard())
	router := setupGroupRouter(handler)

	groups.On("Create", mock.Anything, "app1", mock.MatchedBy(func(g models.Group) bool {
		return g.Members["uid-1"] == 1 && g.Members["uid-2"] == 1
	})).Return(models.Group{ID: "g1"}, nil).Once()

	body := bytes.NewBufferString(`{"group_name":"team","group_members":{"uid-2":1}}`)
	req := httptest.NewRequest(http.MethodPost, "/chat/app1/groups", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	groups.AssertExpectations(t)
}

func TestCreateGroupWithExplicitID(t *testing.T) {
	groups := new(mocks.GroupRepositoryMock)
	handler := NewGroupHandler(groups, nil, logging.Discard())
	router := setupGroupRouter(handler)

	groups.On("CreateWithID", mock.Anything, "app1", mock.MatchedBy(func(g models.Group) bool {
		return g.ID == "custom-id"
	})).Return(models.Group{ID: "custom-id"}, nil).Once()

	body := bytes.NewBufferString(`{"group_name":"team","group_id":"custom-id"}`)
	req := httptest.NewRequest(http.MethodPost, "/chat/app1/groups", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	groups.AssertExpectations(t)
	groups.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateGroupMissingName(t *testing.T) {
	groups := new(mocks.GroupRepositoryMock)
	handler := NewGroupHandler(groups, nil, logging.Discard())
	router := setupGroupRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/chat/app1/groups", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, "group_name is not present", resp["error"])
}

func TestUpdateGroupOnlySentFields(t *testing.T) {
	groups := new(mocks.GroupRepositoryMock)
	handler := NewGroupHandler(groups, nil, logging.Discard())
	router := setupGroupRouter(handler)

	groups.On("Update", mock.Anything, "app1", "g1", map[string]any{"group_name": "renamed"}).Return(nil).Once()

	body := bytes.NewBufferString(`{"group_name":"renamed"}`)
	req := httptest.NewRequest(http.MethodPut, "/chat/app1/groups/g1", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	groups.AssertExpectations(t)
}

func TestUpdateGroupNotFound(t *testing.T) {
	groups := new(mocks.GroupRepositoryMock)
	handler := NewGroupHandler(groups, nil, logging.Discard())
	router := setupGroupRouter(handler)

	groups.On("Update", mock.Anything, "app1", "missing", mock.Anything).Return(docstore.ErrNotFound).Once()

	body := bytes.NewBufferString(`{"group_name":"renamed"}`)
	req := httptest.NewRequest(http.MethodPut, "/chat/app1/groups/missing", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestJoinGroup(t *testing.T) {
	groups := new(mocks.GroupRepositoryMock)
	handler := NewGroupHandler(groups, nil, logging.Discard())
	router := setupGroupRouter(handler)

	groups.On("Join", mock.Anything, "app1", "g1", "uid-5").Return(nil).Once()

	body := bytes.NewBufferString(`{"member_id":"uid-5"}`)
	req := httptest.NewRequest(http.MethodPost, "/chat/app1/groups/g1/members", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	groups.AssertExpectations(t)
}

func TestJoinGroupMissingMember(t *testing.T) {
	handler := NewGroupHandler(new(mocks.GroupRepositoryMock), nil, logging.Discard())
	router := setupGroupRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/chat/app1/groups/g1/members", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, "member_id is not present", resp["error"])
}

func TestLeaveGroup(t *testing.T) {
	groups := new(mocks.GroupRepositoryMock)
	handler := NewGroupHandler(groups, nil, logging.Discard())
	router := setupGroupRouter(handler)

	groups.On("Leave", mock.Anything, "app1", "g1", "uid-5").Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/chat/app1/groups/g1/members/uid-5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	groups.AssertExpectations(t)
}

func TestSetMembersGroup(t *testing.T) {
	groups := new(mocks.GroupRepositoryMock)
	handler := NewGroupHandler(groups, nil, logging.Discard())
	router := setupGroupRouter(handler)

	groups.On("SetMembers", mock.Anything, "app1", "g1", map[string]int{"uid-1": 1, "uid-2": 0}).Return(nil).Once()

	body := bytes.NewBufferString(`{"members":{"uid-1":1,"uid-2":0}}`)
	req := httptest.NewRequest(http.MethodPut, "/chat/app1/groups/g1/members", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	groups.AssertExpectations(t)
}

func TestSetAttributesGroup(t *testing.T) {
	groups := new(mocks.GroupRepositoryMock)
	handler := NewGroupHandler(groups, nil, logging.Discard())
	router := setupGroupRouter(handler)

	groups.On("SetAttributes", mock.Anything, "app1", "g1", map[string]any{"topic": "release"}).Return(nil).Once()

	body := bytes.NewBufferString(`{"attributes":{"topic":"release"}}`)
	req := httptest.NewRequest(http.MethodPut, "/chat/app1/groups/g1/attributes", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	groups.AssertExpectations(t)
}
