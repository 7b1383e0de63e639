package learner

import "errors"

// ErrValidation marks a request missing a required field.
var ErrValidation = errors.New("validation failed")

type validationError struct{ msg string }

func (e *validationError) Error() string { return e.msg }
func (e *validationError) Unwrap() error { return ErrValidation }

func validation(msg string) error {
	return &validationError{msg: msg}
}
