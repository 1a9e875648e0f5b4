package store

import "errors"

var (
	// ErrDuplicateUsername indicates the normalized username is already taken.
	ErrDuplicateUsername = errors.New("store: duplicate username")
	// ErrNotFound indicates the referenced user does not exist.
	ErrNotFound = errors.New("store: user not found")
)
