package domain

import (
	"errors"
	"fmt"
)

// Error kinds. The HTTP layer maps each kind to exactly one status code.
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrInvalidReference = errors.New("invalid reference")
	ErrPoolExhausted    = errors.New("connection pool exhausted")
	ErrStoreUnavailable = errors.New("store unavailable")
)

var (
	ErrUserNotFound   = fmt.Errorf("user %w", ErrNotFound)
	ErrPostNotFound   = fmt.Errorf("post %w", ErrNotFound)
	ErrEmailTaken     = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrAuthorNotFound = fmt.Errorf("%w: author does not exist", ErrInvalidReference)
)
