package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/tallyboard/tallyboard/internal/models"
	"github.com/tallyboard/tallyboard/internal/security"
	"github.com/tallyboard/tallyboard/internal/store"
)

var (
	// ErrInvalidInput indicates a missing username or password.
	ErrInvalidInput = errors.New("auth: missing username or password")
	// ErrInvalidCredentials covers both unknown usernames and wrong
	// passwords; callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
)

// dummyHash is verified against when the username is unknown so that both
// login failure modes cost one bcrypt comparison.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Service implements registration and login against the credential store.
type Service struct {
	store *store.Store
	cost  int
}

// New constructs a Service. cost is the bcrypt cost factor; zero or
// out-of-range values fall back to the bcrypt default.
func New(st *store.Store, cost int) *Service {
	return &Service{store: st, cost: cost}
}

// Register validates input, hashes the password, and creates the account.
// The username is normalized before storage; the created account is returned
// in an unauthenticated state and the caller must log in.
func (s *Service) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = store.NormalizeUsername(username)
	if username == "" || password == "" {
		return nil, ErrInvalidInput
	}

	hash, errHash := security.HashPassword(password, s.cost)
	if errHash != nil {
		return nil, fmt.Errorf("auth: hash password: %w", errHash)
	}
	return s.store.CreateUser(ctx, username, hash)
}

// Login verifies credentials and returns the account. Unknown usernames and
// wrong passwords both yield ErrInvalidCredentials with the same outward
// timing profile.
func (s *Service) Login(ctx context.Context, username, password string) (*models.User, error) {
	username = store.NormalizeUsername(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, errFind := s.store.FindUserByUsername(ctx, username)
	if errFind != nil {
		if errors.Is(errFind, store.ErrNotFound) {
			security.VerifyPassword(dummyHash, password)
			return nil, ErrInvalidCredentials
		}
		return nil, errFind
	}
	if !security.VerifyPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
