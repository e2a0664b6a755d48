package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"chat-api/internal/docstore"
	"chat-api/internal/models"
	"chat-api/internal/repositories"
)

// ContactHandler manages contact endpoints.
type ContactHandler struct {
	contacts repositories.ContactRepository
	logger   *slog.Logger
}

// NewContactHandler constructs a ContactHandler.
func NewContactHandler(contacts repositories.ContactRepository, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{contacts: contacts, logger: logger}
}

// CreateContact handles POST /chat/:app_id/contacts. The name fields must
// be present in the body; empty strings are accepted.
func (h *ContactHandler) CreateContact(c *gin.Context) {
	var req struct {
		Firstname   *string `json:"firstname"`
		Lastname    *string `json:"lastname"`
		Email       string  `json:"email"`
		CurrentUser string  `json:"current_user"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	appID := c.Param("app_id")
	if req.Firstname == nil {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "firstname is not present"})
		return
	}
	if req.Lastname == nil {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "lastname is not present"})
		return
	}
	if !checkRequired(c, requiredField{"app_id", appID}) {
		return
	}

	owner := currentUID(c)
	if req.CurrentUser != "" {
		owner = req.CurrentUser
	}

	contact := models.Contact{
		UID:       owner,
		Firstname: *req.Firstname,
		Lastname:  *req.Lastname,
		Email:     req.Email,
	}
	if err := h.contacts.CreateWithID(c.Request.Context(), appID, contact); err != nil {
		h.logger.Error("create contact failed", "app_id", appID, "uid", owner, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create contact"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true})
}

// GetContact handles GET /chat/:app_id/contacts/:contact_id and passes the
// stored document through as the response body.
func (h *ContactHandler) GetContact(c *gin.Context) {
	appID := c.Param("app_id")
	contactID := c.Param("contact_id")
	if !checkRequired(c,
		requiredField{"contact_id", contactID},
		requiredField{"app_id", appID},
	) {
		return
	}

	contact, err := h.contacts.Get(c.Request.Context(), appID, contactID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "contact not found"})
			return
		}
		h.logger.Error("get contact failed", "app_id", appID, "contact_id", contactID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load contact"})
		return
	}

	c.JSON(http.StatusOK, contact)
}

// UpdateMyContact handles PUT /chat/:app_id/contacts/me.
func (h *ContactHandler) UpdateMyContact(c *gin.Context) {
	var req struct {
		Firstname   *string `json:"firstname"`
		Lastname    *string `json:"lastname"`
		CurrentUser string  `json:"current_user"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	appID := c.Param("app_id")
	if req.Firstname == nil {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "firstname is not present"})
		return
	}
	if req.Lastname == nil {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "lastname is not present"})
		return
	}
	if !checkRequired(c, requiredField{"app_id", appID}) {
		return
	}

	owner := currentUID(c)
	if req.CurrentUser != "" {
		owner = req.CurrentUser
	}

	if err := h.contacts.ChangeFullname(c.Request.Context(), appID, owner, *req.Firstname, *req.Lastname); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "contact not found"})
			return
		}
		h.logger.Error("update contact failed", "app_id", appID, "uid", owner, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update contact"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeletePhoto handles DELETE /chat/:app_id/contacts/me/photo, removing the
// caller's contact photo asset.
func (h *ContactHandler) DeletePhoto(c *gin.Context) {
	appID := c.Param("app_id")
	if !checkRequired(c, requiredField{"app_id", appID}) {
		return
	}

	owner := currentUID(c)
	if err := h.contacts.DeletePhoto(c.Request.Context(), appID, owner); err != nil {
		h.logger.Error("delete contact photo failed", "app_id", appID, "uid", owner, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete photo"})
		return
	}

	c.Status(http.StatusNoContent)
}
