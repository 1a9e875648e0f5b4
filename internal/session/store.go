// Package session maps opaque tokens to authenticated user identities.
// Possession of a token is proof of identity, so tokens are generated from a
// cryptographically strong random source and held only server-side.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tallyboard/tallyboard/internal/models"
	"github.com/tallyboard/tallyboard/internal/security"
	"gorm.io/gorm"
)

// ErrInvalidSession indicates an unknown, expired, or malformed token, or a
// binding whose user no longer exists.
var ErrInvalidSession = errors.New("session: invalid session")

// tokenBytes is the entropy of a session token before hex encoding.
const tokenBytes = 32

// defaultTTL is used when the store is constructed without a positive TTL.
const defaultTTL = 30 * 24 * time.Hour

// Store persists session bindings keyed by opaque tokens.
type Store struct {
	db  *gorm.DB
	ttl time.Duration
}

// NewStore constructs a Store with the given session lifetime.
func NewStore(db *gorm.DB, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Store{db: db, ttl: ttl}
}

// Establish creates a new binding for the user and returns it. Existing
// bindings are unaffected; a user may hold multiple concurrent sessions.
func (s *Store) Establish(ctx context.Context, userID uint64) (*models.Session, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("session: not initialized")
	}

	token, errToken := security.GenerateRandomString(tokenBytes)
	if errToken != nil {
		return nil, fmt.Errorf("session: generate token: %w", errToken)
	}

	now := time.Now().UTC()
	sess := models.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if errCreate := s.db.WithContext(ctx).Create(&sess).Error; errCreate != nil {
		return nil, fmt.Errorf("session: create: %w", errCreate)
	}
	return &sess, nil
}

// Resolve returns the user ID bound to the token. Unknown, expired, and
// malformed tokens all resolve to ErrInvalidSession, as does a binding whose
// user has vanished.
func (s *Store) Resolve(ctx context.Context, token string) (uint64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("session: not initialized")
	}
	token = strings.TrimSpace(token)
	if len(token) != tokenBytes*2 {
		return 0, ErrInvalidSession
	}

	var sess models.Session
	errFind := s.db.WithContext(ctx).Where("token = ?", token).First(&sess).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return 0, ErrInvalidSession
		}
		return 0, fmt.Errorf("session: resolve: %w", errFind)
	}
	if !sess.ExpiresAt.After(time.Now().UTC()) {
		return 0, ErrInvalidSession
	}

	var count int64
	if errCount := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", sess.UserID).Count(&count).Error; errCount != nil {
		return 0, fmt.Errorf("session: check user: %w", errCount)
	}
	if count == 0 {
		return 0, ErrInvalidSession
	}
	return sess.UserID, nil
}

// Revoke deletes the binding. Revoking an unknown or already-revoked token is
// not an error.
func (s *Store) Revoke(ctx context.Context, token string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("session: not initialized")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	if errDelete := s.db.WithContext(ctx).Where("token = ?", token).Delete(&models.Session{}).Error; errDelete != nil {
		return fmt.Errorf("session: revoke: %w", errDelete)
	}
	return nil
}

// PurgeExpired removes expired bindings and reports how many were deleted.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("session: not initialized")
	}
	result := s.db.WithContext(ctx).Where("expires_at <= ?", time.Now().UTC()).Delete(&models.Session{})
	if result.Error != nil {
		return 0, fmt.Errorf("session: purge expired: %w", result.Error)
	}
	return result.RowsAffected, nil
}
