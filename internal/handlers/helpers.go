package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"chat-api/internal/middleware"
	"chat-api/internal/telemetry"
)

func requestIDFromContext(c *gin.Context) string {
	if val, ok := c.Get(middleware.RequestIDKey); ok {
		if id, ok := val.(string); ok && id != "" {
			return id
		}
	}

	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(middleware.RequestIDKey, requestID)
	return requestID
}

func currentUID(c *gin.Context) string {
	return c.GetString(middleware.UserIDKey)
}

func auditUserID(c *gin.Context) *string {
	if uid := currentUID(c); uid != "" {
		return &uid
	}
	return nil
}

func emitAudit(c *gin.Context, emitter *telemetry.AuditEmitter, level, text string) {
	if emitter == nil {
		return
	}
	emitter.Emit(c.Request.Context(), level, text, requestIDFromContext(c), auditUserID(c))
}

type requiredField struct {
	name  string
	value string
}

// checkRequired writes a single 405 response for the first missing field
// and reports whether the handler may continue. Later checks never run once
// one field is missing, so exactly one response is sent per request.
func checkRequired(c *gin.Context, fields ...requiredField) bool {
	for _, f := range fields {
		if f.value == "" {
			c.JSON(http.StatusMethodNotAllowed, gin.H{"error": f.name + " is not present"})
			return false
		}
	}
	return true
}
