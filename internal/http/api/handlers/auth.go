package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tallyboard/tallyboard/internal/auth"
	"github.com/tallyboard/tallyboard/internal/session"
	"github.com/tallyboard/tallyboard/internal/store"

	log "github.com/sirupsen/logrus"
)

// AuthHandler manages registration, login, and logout endpoints.
type AuthHandler struct {
	auth         *auth.Service
	sessions     *session.Store
	cookieSecure bool
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authSvc *auth.Service, sessions *session.Store, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: authSvc, sessions: sessions, cookieSecure: cookieSecure}
}

// credentialsRequest defines the request body for register and login.
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates a new account. The caller must log in afterwards; no
// session is established here.
func (h *AuthHandler) Register(c *gin.Context) {
	var body credentialsRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	user, errRegister := h.auth.Register(c.Request.Context(), body.Username, body.Password)
	if errRegister != nil {
		switch {
		case errors.Is(errRegister, auth.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing username or password"})
		case errors.Is(errRegister, store.ErrDuplicateUsername):
			c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
		default:
			log.WithError(errRegister).Error("register failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":       user.ID,
		"username": user.Username,
	})
}

// Login verifies credentials and establishes a session cookie. Unknown
// usernames and wrong passwords produce the same response.
func (h *AuthHandler) Login(c *gin.Context) {
	var body credentialsRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	user, errLogin := h.auth.Login(c.Request.Context(), body.Username, body.Password)
	if errLogin != nil {
		if errors.Is(errLogin, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		log.WithError(errLogin).Error("login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	sess, errEstablish := h.sessions.Establish(c.Request.Context(), user.ID)
	if errEstablish != nil {
		log.WithError(errEstablish).Error("establish session failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	SetSessionCookie(c, sess.Token, sess.ExpiresAt, h.cookieSecure)
	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
	})
}

// Logout revokes the current session binding and clears the cookie. It always
// succeeds; revoking an already-invalid session is a no-op.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, errCookie := c.Cookie(SessionCookie); errCookie == nil && token != "" {
		if errRevoke := h.sessions.Revoke(c.Request.Context(), token); errRevoke != nil {
			log.WithError(errRevoke).Warn("revoke session failed")
		}
	}
	ClearSessionCookie(c, h.cookieSecure)
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}
