package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("access forbidden")
	ErrNotFound           = errors.New("not found")
	ErrMethodNotAllowed   = errors.New("method not allowed")
	ErrValidationFailed   = errors.New("validation failed")
	ErrDuplicateIdentity  = errors.New("identity already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveAccount    = errors.New("account is disabled")
	ErrSessionNotFound    = errors.New("session not found")
)

var (
	ErrAccountNotFound = fmt.Errorf("account %w", ErrNotFound)
	ErrRoleNotFound    = fmt.Errorf("role %w", ErrNotFound)
	ErrBookNotFound    = fmt.Errorf("book %w", ErrNotFound)
)

// DuplicateIdentityError reports which unique identity attribute collided on write.
type DuplicateIdentityError struct {
	Field string
}

func (e *DuplicateIdentityError) Error() string {
	if e.Field == "" {
		return ErrDuplicateIdentity.Error()
	}
	return fmt.Sprintf("%s already in use", e.Field)
}

func (e *DuplicateIdentityError) Unwrap() error { return ErrDuplicateIdentity }

// ValidationError carries field-level messages plus the rejected input so the
// caller can redisplay it.
type ValidationError struct {
	Fields map[string]string
	Input  any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %d field(s)", ErrValidationFailed, len(e.Fields))
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }
