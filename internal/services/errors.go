package services

import (
	"errors"
	"fmt"
)

// Error taxonomy recovered at the request boundary. Handlers map these to
// HTTP statuses; nothing here is process-fatal.
var (
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("already exists")
	ErrInvalidID      = errors.New("invalid id format")
	ErrValidation     = errors.New("validation failed")
	ErrBadCredentials = errors.New("email or password is not correct")
	// ErrNotOwned means the record exists but belongs to someone else. The
	// boundary reports it as not found so existence never leaks.
	ErrNotOwned = errors.New("not owned by caller")
)

func validationErr(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// PageError is the NotFound-class outcome for an exhausted or empty page
// window. It carries enough for the caller to navigate back.
type PageError struct {
	Message     string
	CurrentPage int
	TotalPages  int
}

func (e *PageError) Error() string { return e.Message }
