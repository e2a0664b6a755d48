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
	"chat-api/internal/typing"
)

// ChatHandler manages message, conversation, typing and user-settings
// endpoints.
type ChatHandler struct {
	messages      repositories.MessageRepository
	conversations repositories.ConversationRepository
	users         repositories.UserRepository
	typing        typing.Store
	audit         *telemetry.AuditEmitter
	logger        *slog.Logger
}

// NewChatHandler builds a ChatHandler.
func NewChatHandler(messages repositories.MessageRepository, conversations repositories.ConversationRepository, users repositories.UserRepository, typingStore typing.Store, audit *telemetry.AuditEmitter, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		messages:      messages,
		conversations: conversations,
		users:         users,
		typing:        typingStore,
		audit:         audit,
		logger:        logger,
	}
}

// SendMessage handles POST /chat/:app_id/messages. The channel_type field
// selects the direct or group path; absent means direct.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req struct {
		SenderID          string         `json:"sender_id"`
		SenderFullname    string         `json:"sender_fullname"`
		RecipientID       string         `json:"recipient_id"`
		RecipientFullname string         `json:"recipient_fullname"`
		Text              string         `json:"text"`
		ChannelType       string         `json:"channel_type"`
		Attributes        map[string]any `json:"attributes"`
		Type              string         `json:"type"`
		Metadata          map[string]any `json:"metadata"`
		Timestamp         int64          `json:"timestamp"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	appID := c.Param("app_id")
	if !checkRequired(c,
		requiredField{"sender_fullname", req.SenderFullname},
		requiredField{"recipient_id", req.RecipientID},
		requiredField{"recipient_fullname", req.RecipientFullname},
		requiredField{"text", req.Text},
		requiredField{"app_id", appID},
	) {
		return
	}

	senderID := currentUID(c)
	if req.SenderID != "" {
		senderID = req.SenderID
	}

	msg := models.Message{
		SenderID:          senderID,
		SenderFullname:    req.SenderFullname,
		RecipientID:       req.RecipientID,
		RecipientFullname: req.RecipientFullname,
		Text:              req.Text,
		Attributes:        req.Attributes,
		Type:              req.Type,
		Metadata:          req.Metadata,
		Timestamp:         req.Timestamp,
	}

	var (
		sent models.Message
		err  error
	)
	switch req.ChannelType {
	case "", models.ChannelDirect:
		sent, err = h.messages.SendDirect(c.Request.Context(), appID, msg)
	case models.ChannelGroup:
		sent, err = h.messages.SendGroup(c.Request.Context(), appID, msg)
	default:
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "channel_type error"})
		return
	}
	if err != nil {
		h.logger.Error("send message failed", "app_id", appID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not send message"})
		return
	}

	emitAudit(c, h.audit, "INFO", "message sent")
	c.JSON(http.StatusCreated, sent)
}

// DeleteMessage handles
// DELETE /chat/:app_id/conversations/:recipient_id/messages/:message_id.
// The `all` query flag widens a single-recipient delete into a delete for
// all parties; channel_type defaults to direct.
func (h *ChatHandler) DeleteMessage(c *gin.Context) {
	appID := c.Param("app_id")
	recipientID := c.Param("recipient_id")
	messageID := c.Param("message_id")
	if !checkRequired(c,
		requiredField{"recipient_id", recipientID},
		requiredField{"message_id", messageID},
		requiredField{"app_id", appID},
	) {
		return
	}

	all := c.Request.URL.Query().Has("all")
	channelType := c.DefaultQuery("channel_type", models.ChannelDirect)

	var err error
	switch channelType {
	case models.ChannelDirect:
		if all {
			err = h.messages.DeleteForAll(c.Request.Context(), appID, messageID)
		} else {
			err = h.messages.DeleteForRecipient(c.Request.Context(), appID, recipientID, messageID)
		}
	case models.ChannelGroup:
		if all {
			err = h.messages.DeleteForAllGroupMembers(c.Request.Context(), appID, messageID)
		} else {
			err = h.messages.DeleteForRecipient(c.Request.Context(), appID, recipientID, messageID)
		}
	default:
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "channel_type error"})
		return
	}
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
			return
		}
		h.logger.Error("delete message failed", "app_id", appID, "message_id", messageID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete message"})
		return
	}

	emitAudit(c, h.audit, "INFO", "message deleted")
	c.Status(http.StatusNoContent)
}

// DeleteConversation handles DELETE /chat/:app_id/conversations/:recipient_id.
// Without the `delete` query flag the conversation is archived; with it the
// conversation is physically removed.
func (h *ChatHandler) DeleteConversation(c *gin.Context) {
	appID := c.Param("app_id")
	recipientID := c.Param("recipient_id")
	if !checkRequired(c,
		requiredField{"recipient_id", recipientID},
		requiredField{"app_id", appID},
	) {
		return
	}

	userID := currentUID(c)
	var req struct {
		UserID string `json:"user_id"`
	}
	if err := c.ShouldBindJSON(&req); err == nil && req.UserID != "" {
		userID = req.UserID
	}

	var err error
	if c.Request.URL.Query().Has("delete") {
		err = h.conversations.Delete(c.Request.Context(), appID, userID, recipientID)
	} else {
		err = h.conversations.Archive(c.Request.Context(), appID, userID, recipientID)
	}
	if err != nil {
		h.logger.Error("delete conversation failed", "app_id", appID, "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete conversation"})
		return
	}

	c.Status(http.StatusNoContent)
}

// Typing handles PUT /chat/:app_id/typings/:recipient_id.
func (h *ChatHandler) Typing(c *gin.Context) {
	appID := c.Param("app_id")
	recipientID := c.Param("recipient_id")
	if !checkRequired(c,
		requiredField{"recipient_id", recipientID},
		requiredField{"app_id", appID},
	) {
		return
	}

	var req struct {
		WriterID  string `json:"writer_id"`
		Text      string `json:"text"`
		Timestamp int64  `json:"timestamp"`
	}
	_ = c.ShouldBindJSON(&req)

	writerID := currentUID(c)
	if req.WriterID != "" {
		writerID = req.WriterID
	}

	event := models.TypingEvent{
		WriterID:    writerID,
		RecipientID: recipientID,
		Text:        req.Text,
		Timestamp:   req.Timestamp,
	}
	if err := h.typing.Set(c.Request.Context(), appID, event); err != nil {
		h.logger.Error("set typing indicator failed", "app_id", appID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not set typing indicator"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SetEmailSubscription handles POST /chat/:app_id/users/:user_id/settings/email.
// It is a set, not a flip: repeating the same value stores the same value.
func (h *ChatHandler) SetEmailSubscription(c *gin.Context) {
	appID := c.Param("app_id")
	userID := c.Param("user_id")

	var req struct {
		IsSubscribed *bool `json:"is_subscribed"`
	}
	_ = c.ShouldBindJSON(&req)

	if !checkRequired(c,
		requiredField{"app_id", appID},
		requiredField{"user_id", userID},
	) {
		return
	}
	if req.IsSubscribed == nil {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "is_subscribed is not present"})
		return
	}

	email, err := h.users.SetEmailSubscription(c.Request.Context(), userID, *req.IsSubscribed)
	if err != nil {
		h.logger.Error("email subscription update failed", "app_id", appID, "user_id", userID, "error", err)
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "email subscription could not be saved"})
		return
	}

	c.String(http.StatusCreated, email)
}

// VerifyToken handles GET /chat/verifytoken. Reaching the handler means the
// auth gate already accepted the token.
func (h *ChatHandler) VerifyToken(c *gin.Context) {
	c.Status(http.StatusOK)
}
