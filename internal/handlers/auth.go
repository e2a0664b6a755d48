package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"chat-api/internal/auth"
	"chat-api/internal/identity"
	"chat-api/internal/repositories"
	"chat-api/internal/telemetry"
)

const (
	resultSuccessSignup  = "auth/success-signup"
	resultSuccessLogin   = "auth/success-login"
	resultSuccessSignout = "auth/success-signout"
)

// AuthHandler manages sign-up, login and sign-out endpoints.
type AuthHandler struct {
	provider identity.Provider
	users    repositories.UserRepository
	audit    *telemetry.AuditEmitter
	logger   *slog.Logger
}

// NewAuthHandler builds an AuthHandler.
func NewAuthHandler(provider identity.Provider, users repositories.UserRepository, audit *telemetry.AuditEmitter, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		provider: provider,
		users:    users,
		audit:    audit,
		logger:   logger,
	}
}

// SignUp handles POST /auth/signup/:provider.
func (h *AuthHandler) SignUp(c *gin.Context) {
	switch c.Param("provider") {
	case "password":
		h.signUpWithPassword(c)
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("signup type invalid: %s", c.Param("provider"))})
	}
}

func (h *AuthHandler) signUpWithPassword(c *gin.Context) {
	var req struct {
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
		Name            string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"general": "invalid request body"}})
		return
	}

	result := auth.ValidateSignup(req.Email, req.Password, req.ConfirmPassword)
	if !result.Valid {
		c.JSON(http.StatusBadRequest, gin.H{"errors": result.Errors})
		return
	}

	acct, err := h.provider.CreateAccount(c.Request.Context(), identity.NewAccount{
		Email:         req.Email,
		Password:      req.Password,
		DisplayName:   req.Name,
		EmailVerified: false,
		Disabled:      false,
	})
	if err != nil {
		status, body := auth.MapProviderError(auth.CategorySignUp, err)
		c.JSON(status, body)
		return
	}

	if err := h.users.CreateDocuments(c.Request.Context(), acct); err != nil {
		h.logger.Error("create user documents failed", "uid", acct.UID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"errors": gin.H{"general": "auth/internal-error"}})
		return
	}

	token, err := h.provider.IssueToken(c.Request.Context(), acct.UID)
	if err != nil {
		status, body := auth.MapProviderError(auth.CategorySignUp, err)
		c.JSON(status, body)
		return
	}

	emitAudit(c, h.audit, "INFO", "user signed up with password")
	h.logger.Info("user signed up", "email", acct.Email, "provider", "password")
	c.JSON(http.StatusCreated, gin.H{"result": resultSuccessSignup, "uid": acct.UID, "token": token})
}

// LogIn handles POST /auth/login/:provider.
func (h *AuthHandler) LogIn(c *gin.Context) {
	switch c.Param("provider") {
	case "password":
		h.logInWithPassword(c)
	case "facebook":
		h.logInWithFacebook(c)
	case "google":
		h.logInWithGoogle(c)
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("login type invalid: %s", c.Param("provider"))})
	}
}

func (h *AuthHandler) logInWithPassword(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"general": "invalid request body"}})
		return
	}

	result := auth.ValidateLogin(req.Email, req.Password)
	if !result.Valid {
		c.JSON(http.StatusBadRequest, gin.H{"errors": result.Errors})
		return
	}

	acct, err := h.provider.SignInWithPassword(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		status, body := auth.MapProviderError(auth.CategoryPasswordLogin, err)
		c.JSON(status, body)
		return
	}

	// The login update is best-effort: a missing or stale user document
	// must not block the login itself.
	if err := h.users.ApplyLoginUpdate(c.Request.Context(), acct, time.Now()); err != nil {
		h.logger.Warn("login update failed", "uid", acct.UID, "error", err)
	}

	token, err := h.provider.IssueToken(c.Request.Context(), acct.UID)
	if err != nil {
		status, body := auth.MapProviderError(auth.CategoryPasswordLogin, err)
		c.JSON(status, body)
		return
	}

	emitAudit(c, h.audit, "INFO", "user logged in with password")
	h.logger.Info("user logged in", "email", acct.Email, "provider", "password")
	c.JSON(http.StatusOK, gin.H{"result": resultSuccessLogin, "uid": acct.UID, "token": token})
}

func (h *AuthHandler) logInWithFacebook(c *gin.Context) {
	var req struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.AccessToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "auth/facebook/invalid-access-token"})
		return
	}

	cred := identity.Credential{Provider: "facebook.com", Token: req.AccessToken}
	h.logInWithCredential(c, cred, auth.CategoryFacebookLogin)
}

func (h *AuthHandler) logInWithGoogle(c *gin.Context) {
	var req struct {
		IDToken string `json:"id_token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.IDToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "auth/google/invalid-id-token"})
		return
	}

	cred := identity.Credential{Provider: "google.com", Token: req.IDToken}
	h.logInWithCredential(c, cred, auth.CategoryGoogleLogin)
}

func (h *AuthHandler) logInWithCredential(c *gin.Context, cred identity.Credential, category auth.Category) {
	signIn, err := h.provider.SignInWithCredential(c.Request.Context(), cred)
	if err != nil {
		status, body := auth.MapProviderError(category, err)
		c.JSON(status, body)
		return
	}

	acct := signIn.Account
	if signIn.IsNewUser {
		if err := h.users.CreateDocuments(c.Request.Context(), acct); err != nil {
			h.logger.Error("create user documents failed", "uid", acct.UID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "auth/internal-error"})
			return
		}
	} else {
		if err := h.users.ApplyLoginUpdate(c.Request.Context(), acct, time.Now()); err != nil {
			h.logger.Warn("login update failed", "uid", acct.UID, "error", err)
		}
	}

	token, err := h.provider.IssueToken(c.Request.Context(), acct.UID)
	if err != nil {
		status, body := auth.MapProviderError(category, err)
		c.JSON(status, body)
		return
	}

	status := http.StatusOK
	result := resultSuccessLogin
	if signIn.IsNewUser {
		status = http.StatusCreated
		result = resultSuccessSignup
	}

	emitAudit(c, h.audit, "INFO", "user logged in with "+cred.Provider)
	h.logger.Info("user logged in", "email", acct.Email, "provider", cred.Provider, "new_user", signIn.IsNewUser)
	c.JSON(status, gin.H{"result": result, "uid": acct.UID, "token": token})
}

// SignOut handles POST /auth/signout/:uid by revoking the account's
// refresh tokens.
func (h *AuthHandler) SignOut(c *gin.Context) {
	uid := c.Param("uid")

	if err := h.provider.RevokeTokens(c.Request.Context(), uid); err != nil {
		status, body := auth.MapProviderError(auth.CategorySignOut, err)
		c.JSON(status, body)
		return
	}

	acct, err := h.provider.GetAccount(c.Request.Context(), uid)
	if err != nil {
		status, body := auth.MapProviderError(auth.CategorySignOut, err)
		c.JSON(status, body)
		return
	}

	emitAudit(c, h.audit, "INFO", "user signed out")
	h.logger.Info("user signed out", "email", acct.Email)
	c.JSON(http.StatusOK, gin.H{"result": resultSuccessSignout})
}
