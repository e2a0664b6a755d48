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

func setupChatRouter(handler *ChatHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", "uid-1")
		c.Next()
	})
	r.POST("/chat/:app_id/messages", handler.SendMessage)
	r.DELETE("/chat/:app_id/conversations/:recipient_id", handler.DeleteConversation)
	r.DELETE("/chat/:app_id/conversations/:recipient_id/messages/:message_id", handler.DeleteMessage)
	r.PUT("/chat/:app_id/typings/:recipient_id", handler.Typing)
	r.POST("/chat/:app_id/users/:user_id/settings/email", handler.SetEmailSubscription)
	return r
}

func newChatHandler(messages *mocks.MessageRepositoryMock, conversations *mocks.ConversationRepositoryMock, users *mocks.UserRepositoryMock, typingStore *mocks.TypingStoreMock) *ChatHandler {
	return NewChatHandler(messages, conversations, users, typingStore, nil, logging.Discard())
}

func TestSendMessageDirectSuccess(t *testing.T) {
	messages := new(mocks.MessageRepositoryMock)
	handler := newChatHandler(messages, new(mocks.ConversationRepositoryMock), new(mocks.UserRepositoryMock), new(mocks.TypingStoreMock))
	router := setupChatRouter(handler)

	messages.On("SendDirect", mock.Anything, "app1", mock.MatchedBy(func(msg models.Message) bool {
		return msg.SenderID == "uid-1" && msg.RecipientID == "uid-2" && msg.Text == "hello"
	})).Return(models.Message{ID: "m1", Text: "hello"}, nil).Once()

	body := bytes.NewBufferString(`{"sender_fullname":"Me","recipient_id":"uid-2","recipient_fullname":"You","text":"hello"}`)
	req := httptest.NewRequest(http.MethodPost, "/chat/app1/messages", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	messages.AssertExpectations(t)
}

func TestSendMessageGroupChannel(t *testing.T) {
	messages := new(mocks.MessageRepositoryMock)
	handler := newChatHandler(messages, new(mocks.ConversationRepositoryMock), new(mocks.UserRepositoryMock), new(mocks.TypingStoreMock))
	router := setupChatRouter(handler)

	messages.On("SendGroup", mock.Anything, "app1", mock.Anything).Return(models.Message{ID: "m2"}, nil).Once()

	body := bytes.NewBufferString(`{"sender_fullname":"Me","recipient_id":"g1","recipient_fullname":"Team","text":"hello","channel_type":"group"}`)
	req := httptest.NewRequest(http.MethodPost, "/chat/app1/messages", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	messages.AssertExpectations(t)
	messages.AssertNotCalled(t, "SendDirect", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendMessageUnknownChannel(t *testing.T) {
	messages := new(mocks.MessageRepositoryMock)
	handler := newChatHandler(messages, new(mocks.ConversationRepositoryMock), new(mocks.UserRepositoryMock), new(mocks.TypingStoreMock))
	router := setupChatRouter(handler)

	body := bytes.NewBufferString(`{"sender_fullname":"Me","recipient_id":"uid-2","recipient_fullname":"You","text":"hello","channel_type":"broadcast"}`)
	req := httptest.NewRequest(http.MethodPost, "/chat/app1/messages", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, "channel_type error", resp["error"])
}

func TestSendMessageSingleMissingFieldResponse(t *testing.T) {
	handler := newChatHandler(new(mocks.MessageRepositoryMock), new(mocks.ConversationRepositoryMock), new(mocks.UserRepositoryMock), new(mocks.TypingStoreMock))
	router := setupChatRouter(handler)

	// Everything is missing; only the first required field is reported.
	req := httptest.NewRequest(http.MethodPost, "/chat/app1/messages", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, "sender_fullname is not present", resp["error"])
	assert.Len(t, resp, 1)
}

func TestDeleteMessageDirectDefault(t *testing.T) {
	messages := new(mocks.MessageRepositoryMock)
	handler := newChatHandler(messages, new(mocks.ConversationRepositoryMock), new(mocks.UserRepositoryMock), new(mocks.TypingStoreMock))
	router := setupChatRouter(handler)

	messages.On("DeleteForRecipient", mock.Anything, "app1", "uid-2", "m1").Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/chat/app1/conversations/uid-2/messages/m1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	messages.AssertExpectations(t)
}

func TestDeleteMessageDirectAll(t *testing.T) {
	messages := new(mocks.MessageRepositoryMock)
	handler := newChatHandler(messages, new(mocks.ConversationRepositoryMock), new(mocks.UserRepositoryMock), new(mocks.TypingStoreMock))
	router := setupChatRouter(handler)

	messages.On("DeleteForAll", mock.Anything, "app1", "m1").Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/chat/app1/conversations/uid-2/messages/m1?all", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	messages.AssertExpectations(t)
	messages.AssertNotCalled(t, "DeleteForRecipient", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteMessageGroupAll(t *testing.T) {
	messages := new(mocks.MessageRepositoryMock)
	handler := newChatHandler(messages, new(mocks.ConversationRepositoryMock), new(mocks.UserRepositoryMock), new(mocks.TypingStoreMock))
	router := setupChatRouter(handler)

	messages.On("DeleteForAllGroupMembers", mock.Anything, "app1", "m1").Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/chat/app1/conversations/g1/messages/m1?all&channel_type=group", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	messages.AssertExpectations(t)
}

func TestDeleteMessageGroupSingleRecipient(t *testing.T) {
	messages := new(mocks.MessageRepositoryMock)
	handler := newChatHandler(messages, new(mocks.ConversationRepositoryMock), new(mocks.UserRepositoryMock), new(mocks.TypingStoreMock))
	router := setupChatRouter(handler)

	messages.On("DeleteForRecipient", mock.Anything, "app1", "g1", "m1").Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/chat/app1/conversations/g1/messages/m1?channel_type=group", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	messages.AssertExpectations(t)
}

func TestDeleteMessageUnknownChannel(t *testing.T) {
	handler := newChatHandler(new(mocks.MessageRepositoryMock), new(mocks.ConversationRepositoryMock), new(mocks.UserRepositoryMock), new(mocks.TypingStoreMock))
	router := setupChatRouter(handler)

	req := httptest.NewRequest(http.MethodDelete, "/chat/app1/conversations/uid-2/messages/m1?channel_type=broadcast", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestDeleteMessageNotFound(t *testing.T) {
	messages := new(mocks.MessageRepositoryMock)
	handler := newChatHandler(messages, new(mocks.ConversationRepositoryMock), new(mocks.UserRepositoryMock), new(mocks.TypingStoreMock))
	router := setupChatRouter(handler)

	messages.On("DeleteForRecipient", mock.Anything, "app1", "uid-2", "missing").Return(docstore.ErrNotFound).Once()

	req := httptest.NewRequest(http.MethodDelete, "/chat/app1/conversations/uid-2/messages/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteConversationArchivesByDefault(t *testing.T) {
	conversations := new(mocks.ConversationRepositoryMock)
	handler := newChatHandler(new(mocks.MessageRepositoryMock), conversations, new(mocks.UserRepositoryMock), new(mocks.TypingStoreMock))
	router := setupChatRouter(handler)

	conversations.On("Archive", mock.Anything, "app1", "uid-1", "uid-2").Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/chat/app1/conversations/uid-2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	conversations.AssertExpectations(t)
	conversations.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteConversationPhysicalWithFlag(t *testing.T) {
	conversations := new(mocks.ConversationRepositoryMock)
	handler := newChatHandler(new(mocks.MessageRepositoryMock), conversations, new(mocks.UserRepositoryMock), new(mocks.TypingStoreMock))
	router := setupChatRouter(handler)

	conversations.On("Delete", mock.Anything, "app1", "uid-1", "uid-2").Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/chat/app1/conversations/uid-2?delete", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	conversations.AssertExpectations(t)
}

func TestTypingSuccess(t *testing.T) {
	typingStore := new(mocks.TypingStoreMock)
	handler := newChatHandler(new(mocks.MessageRepositoryMock), new(mocks.ConversationRepositoryMock), new(mocks.UserRepositoryMock), typingStore)
	router := setupChatRouter(handler)

	typingStore.On("Set", mock.Anything, "app1", mock.MatchedBy(func(event models.TypingEvent) bool {
		return event.WriterID == "uid-1" && event.RecipientID == "uid-2"
	})).Return(nil).Once()

	body := bytes.NewBufferString(`{"text":"typ"}`)
	req := httptest.NewRequest(http.MethodPut, "/chat/app1/typings/uid-2", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	typingStore.AssertExpectations(t)
}

func TestTypingStoreError(t *testing.T) {
	typingStore := new(mocks.TypingStoreMock)
	handler := newChatHandler(new(mocks.MessageRepositoryMock), new(mocks.ConversationRepositoryMock), new(mocks.UserRepositoryMock), typingStore)
	router := setupChatRouter(handler)

	typingStore.On("Set", mock.Anything, "app1", mock.Anything).Return(assert.AnError).Once()

	req := httptest.NewRequest(http.MethodPut, "/chat/app1/typings/uid-2", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSetEmailSubscriptionSuccess(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	handler := newChatHandler(new(mocks.MessageRepositoryMock), new(mocks.ConversationRepositoryMock), users, new(mocks.TypingStoreMock))
	router := setupChatRouter(handler)

	users.On("SetEmailSubscription", mock.Anything, "uid-2", false).Return("user@example.com", nil).Once()

	body := bytes.NewBufferString(`{"is_subscribed":false}`)
	req := httptest.NewRequest(http.MethodPost, "/chat/app1/users/uid-2/settings/email", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	// The stored email address is passed through as the response body.
	assert.Equal(t, "user@example.com", rec.Body.String())
	users.AssertExpectations(t)
}

func TestSetEmailSubscriptionMissingFlag(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	handler := newChatHandler(new(mocks.MessageRepositoryMock), new(mocks.ConversationRepositoryMock), users, new(mocks.TypingStoreMock))
	router := setupChatRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/chat/app1/users/uid-2/settings/email", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, "is_subscribed is not present", resp["error"])
	users.AssertNotCalled(t, "SetEmailSubscription", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetEmailSubscriptionRepoError(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	handler := newChatHandler(new(mocks.MessageRepositoryMock), new(mocks.ConversationRepositoryMock), users, new(mocks.TypingStoreMock))
	router := setupChatRouter(handler)

	users.On("SetEmailSubscription", mock.Anything, "uid-2", true).Return("", assert.AnError).Once()

	body := bytes.NewBufferString(`{"is_subscribed":true}`)
	req := httptest.NewRequest(http.MethodPost, "/chat/app1/users/uid-2/settings/email", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, "email subscription could not be saved", resp["error"])
}
