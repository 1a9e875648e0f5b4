package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tallyboard/tallyboard/internal/models"
	"gorm.io/gorm"
)

// Store persists user accounts and their counters via GORM.
type Store struct {
	db *gorm.DB
}

// New constructs a Store.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// NormalizeUsername trims surrounding whitespace and lowercases the name.
// The normalized form is the uniqueness key for accounts.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// CreateUser inserts a new user with the given username and password hash.
// The username is normalized before storage. Uniqueness is enforced by the
// unique index, so concurrent registrations of the same name cannot both
// succeed; the loser observes ErrDuplicateUsername.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("store: not initialized")
	}
	username = NormalizeUsername(username)
	if username == "" {
		return nil, fmt.Errorf("store: empty username")
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("store: empty password hash")
	}

	now := time.Now().UTC()
	user := models.User{
		Username:  username,
		Password:  passwordHash,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if errCreate := s.db.WithContext(ctx).Create(&user).Error; errCreate != nil {
		if errors.Is(errCreate, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("store: create user: %w", errCreate)
	}
	return &user, nil
}

// FindUserByUsername loads a user by normalized username.
func (s *Store) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("store: not initialized")
	}
	var user models.User
	errFind := s.db.WithContext(ctx).Where("username = ?", NormalizeUsername(username)).First(&user).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: find user by username: %w", errFind)
	}
	return &user, nil
}

// FindUserByID loads a user by ID.
func (s *Store) FindUserByID(ctx context.Context, id uint64) (*models.User, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("store: not initialized")
	}
	var user models.User
	errFind := s.db.WithContext(ctx).First(&user, id).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: find user by id: %w", errFind)
	}
	return &user, nil
}
