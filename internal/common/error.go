// Package common defines the sentinel errors and wire constants shared by the
// postgate server layers. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrNotFound        = errors.New("not found")
	ErrAccountNotFound = fmt.Errorf("account %w", ErrNotFound)
	ErrPostNotFound    = fmt.Errorf("post %w", ErrNotFound)
	ErrCodeNotFound    = fmt.Errorf("verification code %w", ErrNotFound)
	ErrConflict        = errors.New("already exists")

	// Service-level errors.
	ErrInternal       = errors.New("internal error")
	ErrValidation     = errors.New("validation error")
	ErrDeliveryFailed = errors.New("mail delivery failed")

	// Account state errors.
	ErrUnverified        = errors.New("account not verified")
	ErrAlreadyVerified   = errors.New("account already verified")
	ErrInvalidCredential = errors.New("invalid credential")

	// Verification code errors.
	ErrCodeMismatch = errors.New("verification code mismatch")
	ErrCodeExpired  = errors.New("verification code expired")

	// Ownership errors.
	ErrForbidden = errors.New("forbidden")

	// Session errors.
	ErrTokenMissing     = errors.New("missing token")
	ErrTokenMalformed   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidToken     = errors.New("invalid token")
)

// IsSessionError reports whether err came out of session token verification.
func IsSessionError(err error) bool {
	return errors.Is(err, ErrTokenMissing) ||
		errors.Is(err, ErrTokenMalformed) ||
		errors.Is(err, ErrInvalidSignature) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrInvalidToken)
}
