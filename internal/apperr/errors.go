package apperr

import "errors"

// Sentinel errors for the failure classes the API surfaces. Callers wrap
// them with fmt.Errorf("...: %w", ...) and handlers classify via errors.Is.
var (
	// ErrValidation covers missing or invalid required fields on create
	// and update payloads.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound covers operations referencing a nonexistent item, order
	// or cart line.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials is returned on a login mismatch.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken is returned when signup reuses an existing email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrEmptyCart is returned when checkout runs against an empty cart.
	ErrEmptyCart = errors.New("cart is empty")
)
