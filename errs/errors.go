package errs

import (
	"errors"
	"fmt"
)

// Base kinds. Handlers match these with errors.Is to pick a status code,
// so services must wrap rather than return bare fmt.Errorf strings.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalid         = errors.New("invalid request")
	ErrStore           = errors.New("store error")
)

// Conflict sub-kinds. Each one also matches ErrConflict.
var (
	ErrDuplicateName  = fmt.Errorf("duplicate name: %w", ErrConflict)
	ErrAlreadyShared  = fmt.Errorf("already shared: %w", ErrConflict)
	ErrUserNotInGroup = fmt.Errorf("user not in group: %w", ErrConflict)
)

func Unauthenticated(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrUnauthenticated)
}

func Forbidden(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrForbidden)
}

func NotFound(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotFound)
}

func Invalid(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrInvalid)
}

func Store(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, ErrStore)
}
