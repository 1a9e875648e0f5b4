package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/tallyboard/tallyboard/internal/db"
	"github.com/tallyboard/tallyboard/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// newTestService builds a Service over a migrated SQLite database, using the
// minimum bcrypt cost to keep the tests fast.
func newTestService(t *testing.T) *Service {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return New(store.New(conn), bcrypt.MinCost)
}

func TestRegisterThenLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "  Alice  ", "pw1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if registered.Username != "alice" {
		t.Fatalf("expected normalized username=alice, got %q", registered.Username)
	}
	if registered.Password == "pw1" {
		t.Fatalf("password hash must not equal the plaintext")
	}

	loggedIn, err := svc.Login(ctx, "alice", "pw1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if loggedIn.ID != registered.ID {
		t.Fatalf("expected login to resolve id=%d, got %d", registered.ID, loggedIn.ID)
	}

	// Case and whitespace variants resolve to the same account.
	variant, err := svc.Login(ctx, "  ALICE  ", "pw1")
	if err != nil {
		t.Fatalf("login variant: %v", err)
	}
	if variant.ID != registered.ID {
		t.Fatalf("expected variant login to resolve id=%d, got %d", registered.ID, variant.ID)
	}
}

func TestRegister_InvalidInput(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		username string
		password string
	}{
		{"", "pw"},
		{"alice", ""},
		{"   ", "pw"},
		{"", ""},
	}
	for _, tc := range cases {
		if _, err := svc.Register(ctx, tc.username, tc.password); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("register(%q, %q): expected ErrInvalidInput, got %v", tc.username, tc.password, err)
		}
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "pw1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, " Alice ", "pw2"); !errors.Is(err, store.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestLogin_FailureModesAreIndistinguishable(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "pw1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	wrongPassword := mustLoginError(ctx, t, svc, "alice", "wrong")
	unknownUser := mustLoginError(ctx, t, svc, "nobody", "pw1")
	if !errors.Is(wrongPassword, ErrInvalidCredentials) || !errors.Is(unknownUser, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for both modes, got %v and %v", wrongPassword, unknownUser)
	}
	if wrongPassword.Error() != unknownUser.Error() {
		t.Fatalf("failure modes must be indistinguishable, got %q vs %q", wrongPassword.Error(), unknownUser.Error())
	}
}

// mustLoginError runs a login that is expected to fail and returns the error.
func mustLoginError(ctx context.Context, t *testing.T, svc *Service, username, password string) error {
	t.Helper()
	user, err := svc.Login(ctx, username, password)
	if err == nil {
		t.Fatalf("expected login failure for %q, got user id=%d", username, user.ID)
	}
	return err
}

func TestLogin_EmptyInput(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Login(ctx, "", "pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for empty username, got %v", err)
	}
	if _, err := svc.Login(ctx, "alice", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for empty password, got %v", err)
	}
}
