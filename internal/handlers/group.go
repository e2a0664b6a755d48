package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"chat-api/internal/docstore"
	"chat-api/internal/models"
	"chat-api/internal/repositories"
	"chat-api/internal/telemetry"
)

// GroupHandler manages the group lifecycle endpoints.
type GroupHandler struct {
	groups repositories.GroupRepository
	audit  *telemetry.AuditEmitter
	logger *slog.Logger
}

// NewGroupHandler constructs a GroupHandler.
func NewGroupHandler(groups repositories.GroupRepository, audit *telemetry.AuditEmitter, logger *slog.Logger) *GroupHandler {
	return &GroupHandler{groups: groups, audit: audit, logger: logger}
}

// CreateGroup handles POST /chat/:app_id/groups. The acting user always
// ends up in the member mapping with flag 1, whether or not the caller
// listed them. A caller-supplied group_id selects creation under that id.
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req struct {
		GroupName      string         `json:"group_name"`
		GroupID        string         `json:"group_id"`
		CurrentUser    string         `json:"current_user"`
		GroupMembers   map[string]int `json:"group_members"`
		Attributes     map[string]any `json:"attributes"`
		InvitedMembers []string       `json:"invited_members"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	appID := c.Param("app_id")
	if !checkRequired(c,
		requiredField{"group_name", req.GroupName},
		requiredField{"app_id", appID},
	) {
		return
	}

	currentUser := currentUID(c)
	if req.CurrentUser != "" {
		currentUser = req.CurrentUser
	}

	members := req.GroupMembers
	if members == nil {
		members = map[string]int{}
	}
	members[currentUser] = 1

	group := models.Group{
		ID:             req.GroupID,
		Name:           req.GroupName,
		Owner:          currentUser,
		Members:        members,
		Attributes:     req.Attributes,
		InvitedMembers: req.InvitedMembers,
	}

	var err error
	if group.ID != "" {
		_, err = h.groups.CreateWithID(c.Request.Context(), appID, group)
	} else {
		_, err = h.groups.Create(c.Request.Context(), appID, group)
	}
	if err != nil {
		h.logger.Error("create group failed", "app_id", appID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create group"})
		return
	}

	emitAudit(c, h.audit, "INFO", "group created")
	c.JSON(http.StatusCreated, gin.H{"success": true})
}

// UpdateGroup handles PUT /chat/:app_id/groups/:group_id. Only the fields
// present in the body are written.
func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	appID := c.Param("app_id")
	groupID := c.Param("group_id")
	if !checkRequired(c,
		requiredField{"group_id", groupID},
		requiredField{"app_id", appID},
	) {
		return
	}

	var req struct {
		GroupName      *string        `json:"group_name"`
		GroupOwner     *string        `json:"group_owner"`
		GroupMembers   map[string]int `json:"group_members"`
		Attributes     map[string]any `json:"attributes"`
		InvitedMembers []string       `json:"invited_members"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	fields := map[string]any{}
	if req.GroupName != nil {
		fields["group_name"] = *req.GroupName
	}
	if req.GroupOwner != nil {
		fields["group_owner"] = *req.GroupOwner
	}
	if req.GroupMembers != nil {
		fields["group_members"] = req.GroupMembers
	}
	if req.Attributes != nil {
		fields["attributes"] = req.Attributes
	}
	if req.InvitedMembers != nil {
		fields["invited_members"] = req.InvitedMembers
	}

	if err := h.groups.Update(c.Request.Context(), appID, groupID, fields); err != nil {
		h.respondGroupError(c, appID, groupID, err)
		return
	}

	emitAudit(c, h.audit, "INFO", "group updated")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// JoinGroup handles POST /chat/:app_id/groups/:group_id/members.
func (h *GroupHandler) JoinGroup(c *gin.Context) {
	var req struct {
		MemberID string `json:"member_id"`
	}
	_ = c.ShouldBindJSON(&req)

	appID := c.Param("app_id")
	groupID := c.Param("group_id")
	if !checkRequired(c,
		requiredField{"member_id", req.MemberID},
		requiredField{"group_id", groupID},
		requiredField{"app_id", appID},
	) {
		return
	}

	if err := h.groups.Join(c.Request.Context(), appID, groupID, req.MemberID); err != nil {
		h.respondGroupError(c, appID, groupID, err)
		return
	}

	emitAudit(c, h.audit, "INFO", "member joined group")
	c.JSON(http.StatusCreated, gin.H{"success": true})
}

// LeaveGroup handles DELETE /chat/:app_id/groups/:group_id/members/:member_id.
func (h *GroupHandler) LeaveGroup(c *gin.Context) {
	appID := c.Param("app_id")
	groupID := c.Param("group_id")
	memberID := c.Param("member_id")
	if !checkRequired(c,
		requiredField{"member_id", memberID},
		requiredField{"group_id", groupID},
		requiredField{"app_id", appID},
	) {
		return
	}

	if err := h.groups.Leave(c.Request.Context(), appID, groupID, memberID); err != nil {
		h.respondGroupError(c, appID, groupID, err)
		return
	}

	emitAudit(c, h.audit, "INFO", "member left group")
	c.Status(http.StatusNoContent)
}

// SetMembersGroup handles PUT /chat/:app_id/groups/:group_id/members,
// replacing the whole membership mapping.
func (h *GroupHandler) SetMembersGroup(c *gin.Context) {
	appID := c.Param("app_id")
	groupID := c.Param("group_id")
	if !checkRequired(c,
		requiredField{"group_id", groupID},
		requiredField{"app_id", appID},
	) {
		return
	}

	var req struct {
		Members map[string]int `json:"members"`
	}
	_ = c.ShouldBindJSON(&req)

	if err := h.groups.SetMembers(c.Request.Context(), appID, groupID, req.Members); err != nil {
		h.respondGroupError(c, appID, groupID, err)
		return
	}

	emitAudit(c, h.audit, "INFO", "group members set")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SetAttributesGroup handles PUT /chat/:app_id/groups/:group_id/attributes.
func (h *GroupHandler) SetAttributesGroup(c *gin.Context) {
	appID := c.Param("app_id")
	groupID := c.Param("group_id")
	if !checkRequired(c,
		requiredField{"group_id", groupID},
		requiredField{"app_id", appID},
	) {
		return
	}

	var req struct {
		Attributes map[string]any `json:"attributes"`
	}
	_ = c.ShouldBindJSON(&req)

	if err := h.groups.SetAttributes(c.Request.Context(), appID, groupID, req.Attributes); err != nil {
		h.respondGroupError(c, appID, groupID, err)
		return
	}

	emitAudit(c, h.audit, "INFO", "group attributes set")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *GroupHandler) respondGroupError(c *gin.Context, appID, groupID string, err error) {
	if errors.Is(err, docstore.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
		return
	}
	h.logger.Error("group operation failed", "app_id", appID, "group_id", groupID, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update group"})
}
