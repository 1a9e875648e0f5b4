package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/tallyboard/tallyboard/internal/auth"
	"github.com/tallyboard/tallyboard/internal/store"

	log "github.com/sirupsen/logrus"
)

// BootstrapUser seeds an initial account at startup when credentials are
// configured. An already-existing account is left untouched, so restarts are
// safe.
func BootstrapUser(ctx context.Context, authSvc *auth.Service, username, password string) error {
	if username == "" && password == "" {
		return nil
	}
	if username == "" || password == "" {
		return fmt.Errorf("bootstrap user: both username and password are required")
	}

	user, errRegister := authSvc.Register(ctx, username, password)
	if errRegister != nil {
		if errors.Is(errRegister, store.ErrDuplicateUsername) {
			log.WithField("username", username).Debug("bootstrap user already exists")
			return nil
		}
		return fmt.Errorf("bootstrap user: %w", errRegister)
	}

	log.WithField("username", user.Username).Info("bootstrap user created")
	return nil
}
