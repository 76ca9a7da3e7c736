package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrUnauthorized = errors.New("login required")
	ErrForbidden    = errors.New("only the organizer can change this event")
)

// ValidationError marks a client error that should be reported as 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func ErrValidation(msg string) error {
	return &ValidationError{Message: msg}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
