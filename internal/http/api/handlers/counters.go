package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tallyboard/tallyboard/internal/store"

	log "github.com/sirupsen/logrus"
)

// CounterHandler serves counter reads and mutations for the session user.
type CounterHandler struct {
	store *store.Store
}

// NewCounterHandler constructs a CounterHandler.
func NewCounterHandler(st *store.Store) *CounterHandler {
	return &CounterHandler{store: st}
}

// userIDFromContext extracts the user ID set by the session middleware.
func userIDFromContext(c *gin.Context) (uint64, bool) {
	value, ok := c.Get("userID")
	if !ok {
		return 0, false
	}
	userID, ok := value.(uint64)
	return userID, ok
}

// Get returns both counter values for the session user.
func (h *CounterHandler) Get(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	green, yellow, errGet := h.store.GetCounts(c.Request.Context(), userID)
	if errGet != nil {
		if errors.Is(errGet, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		log.WithError(errGet).Error("get counters failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"green": green, "yellow": yellow})
}

// IncrementGreen adds one to the green counter and returns the new value.
func (h *CounterHandler) IncrementGreen(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	green, errIncrement := h.store.IncrementGreen(c.Request.Context(), userID)
	if errIncrement != nil {
		if errors.Is(errIncrement, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		log.WithError(errIncrement).Error("increment green failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"green": green})
}

// IncrementYellow adds one to the yellow counter and returns the new value.
func (h *CounterHandler) IncrementYellow(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	yellow, errIncrement := h.store.IncrementYellow(c.Request.Context(), userID)
	if errIncrement != nil {
		if errors.Is(errIncrement, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		log.WithError(errIncrement).Error("increment yellow failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"yellow": yellow})
}

// Reset zeroes both counters in one atomic operation.
func (h *CounterHandler) Reset(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if errReset := h.store.ResetCounts(c.Request.Context(), userID); errReset != nil {
		if errors.Is(errReset, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		log.WithError(errReset).Error("reset counters failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"green": 0, "yellow": 0})
}
