package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNotFound reports an update or delete referencing a missing id.
var ErrNotFound = errors.New("record not found")

// ValidationError reports malformed user input. Operations abort with no
// partial state change when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
