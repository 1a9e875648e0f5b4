package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tallyboard/tallyboard/internal/auth"
	"github.com/tallyboard/tallyboard/internal/http/api/handlers"
	"github.com/tallyboard/tallyboard/internal/session"
	"github.com/tallyboard/tallyboard/internal/store"
	"gorm.io/gorm"

	log "github.com/sirupsen/logrus"
)

// RegisterRoutes registers routes, middleware, and handlers.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, authSvc *auth.Service, sessions *session.Store, cookieSecure bool) {
	if r == nil || db == nil {
		return
	}

	r.Use(requestLogMiddleware())

	healthHandler := handlers.NewHealthHandler(db)
	r.GET("/healthz", healthHandler.Healthz)

	group := r.Group("/v0")

	authHandler := handlers.NewAuthHandler(authSvc, sessions, cookieSecure)
	group.POST("/auth/register", authHandler.Register)
	group.POST("/auth/login", authHandler.Login)
	group.POST("/auth/logout", authHandler.Logout)

	authed := group.Group("")
	authed.Use(sessionAuthMiddleware(sessions, cookieSecure))

	counterHandler := handlers.NewCounterHandler(store.New(db))
	authed.GET("/counters", counterHandler.Get)
	authed.POST("/counters/green/increment", counterHandler.IncrementGreen)
	authed.POST("/counters/yellow/increment", counterHandler.IncrementYellow)
	authed.POST("/counters/reset", counterHandler.Reset)
}

// sessionAuthMiddleware resolves the session cookie and loads the bound user
// ID into the request context. Requests without a valid binding are rejected
// before reaching any counter handler; stale cookies are cleared so clients
// fall back to the login entry point.
func sessionAuthMiddleware(sessions *session.Store, cookieSecure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, errCookie := c.Cookie(handlers.SessionCookie)
		if errCookie != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		userID, errResolve := sessions.Resolve(c.Request.Context(), token)
		if errResolve != nil {
			if errors.Is(errResolve, session.ErrInvalidSession) {
				handlers.ClearSessionCookie(c, cookieSecure)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				return
			}
			log.WithError(errResolve).Error("resolve session failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}

// requestLogMiddleware tags each request with an ID and logs its outcome.
// Cookies, bodies, and tokens are never logged.
func requestLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()

		log.WithFields(log.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
		}).Info("request")
	}
}
