package errors

import (
	"errors"
	"fmt"
)

// Common error types for the UMS front end
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")

	// Gate errors
	ErrNoSession    = errors.New("no session")
	ErrRoleMismatch = errors.New("role mismatch")

	// Token errors
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")

	// Account errors
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrInvalidUser      = errors.New("invalid user")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrBackend  = errors.New("identity service error")
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
