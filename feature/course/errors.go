package course

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks input the client must fix. Handlers answer 400.
	ErrValidation = errors.New("validation failed")
	// ErrMalformedStructure is returned when modulos is not a list of module objects.
	ErrMalformedStructure = fmt.Errorf("%w: malformed module structure", ErrValidation)
	// ErrOwnershipMismatch is returned when the caller's email is not the course owner's.
	ErrOwnershipMismatch = errors.New("email does not match course owner")
	// ErrNotFound is returned for unknown course ids.
	ErrNotFound = errors.New("course not found")
	// ErrTooLarge is returned when an uploaded file exceeds the size limit.
	ErrTooLarge = errors.New("file exceeds size limit")
)

// validationError carries a message safe to show to the client.
type validationError struct{ msg string }

func (e *validationError) Error() string { return e.msg }
func (e *validationError) Unwrap() error { return ErrValidation }

func validation(msg string) error {
	return &validationError{msg: msg}
}
