package services

import "errors"

// Sentinel errors returned by services; controllers map them onto HTTP
// statuses in one place.
var (
	// ErrUnauthenticated means no actor was supplied for an operation
	// that requires one.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden means the actor exists but fails the ownership
	// predicate for the target resource.
	ErrForbidden = errors.New("permission denied")
	// ErrNotFound means the target record does not exist. It is always
	// evaluated before ErrForbidden so a 403 never leaks existence of
	// a missing record.
	ErrNotFound = errors.New("record not found")
)

// ValidationError carries a user-facing message for malformed or
// missing input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Invalid builds a ValidationError.
func Invalid(message string) error {
	return &ValidationError{Message: message}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
