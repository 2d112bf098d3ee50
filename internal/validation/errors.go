package validation

import (
	"errors"
	"fmt"
)

// ErrInvalidJSON is returned when the notification payload is not a JSON object.
var ErrInvalidJSON = errors.New("invalid JSON in SNS message")

// MissingFieldError reports a required payload field that is absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing key %q", e.Field)
}

// InvalidFieldError reports a payload field that is present but unusable.
type InvalidFieldError struct {
	Field string
	Err   error
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid value for %q: %v", e.Field, e.Err)
}

func (e *InvalidFieldError) Unwrap() error { return e.Err }
