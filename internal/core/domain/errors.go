package domain

import "errors"

// Sentinel errors returned by services and repositories. The API layer maps
// each to an HTTP status code in one place.
var (
	// ErrInvalidCredentials is returned for both unknown usernames and wrong
	// passwords, so callers cannot tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrDuplicateUsername = errors.New("username already taken")
	ErrUserNotFound      = errors.New("user not found")

	ErrLocationNotFound = errors.New("location not found")
	ErrForbidden        = errors.New("operation not permitted")

	ErrNoSession      = errors.New("no active session")
	ErrSessionExpired = errors.New("session expired")
	ErrBadToken       = errors.New("token invalid or expired")
)

// FieldError reports a validation failure on a single input field.
type FieldError struct {
	Field   string
	Message string
}

func NewFieldError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}

func (e *FieldError) Error() string {
	return e.Message
}

// IsValidation reports whether err is a field validation failure.
func IsValidation(err error) bool {
	var fe *FieldError
	return errors.As(err, &fe)
}
