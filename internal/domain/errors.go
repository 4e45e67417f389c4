package domain

import (
	"errors"
	"fmt"
)

// Sentinel error categories. Services wrap these so handlers can map to HTTP
// status codes without leaking infrastructure details.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrExpired    = errors.New("expired")
	ErrMismatch   = errors.New("mismatch")
	ErrDependency = errors.New("dependency failure")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
	ErrAuth       = errors.New("unauthorized")
)

// Specific errors. Each one wraps exactly one category above.
var (
	ErrUserNotFound = fmt.Errorf("user not found: %w", ErrNotFound)
	ErrCodeNotFound = fmt.Errorf("verification code not found: %w", ErrNotFound)
	ErrCodeExpired  = fmt.Errorf("verification code has expired: %w", ErrExpired)
	ErrCodeMismatch = fmt.Errorf("invalid verification code: %w", ErrMismatch)
	ErrLookupFailed = fmt.Errorf("identity lookup failed: %w", ErrDependency)
	ErrStoreFailed  = fmt.Errorf("verification store failed: %w", ErrDependency)
	ErrSendFailed   = fmt.Errorf("email delivery failed: %w", ErrDependency)
	ErrNotVerified  = fmt.Errorf("email not verified: %w", ErrForbidden)
	ErrEmailTaken   = fmt.Errorf("email already registered: %w", ErrConflict)

	// ErrBadCredentials covers both an unknown email and a wrong password.
	ErrBadCredentials = fmt.Errorf("invalid email or password: %w", ErrAuth)
)
