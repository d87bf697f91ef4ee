package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested metadata record or blob is
// absent. Most callers treat it as a normal "absent" result rather than a
// failure; check with errors.Is.
var ErrNotFound = errors.New("not found")

// ValidationError reports a caller-supplied field that violates the record
// constraints. It is raised before any store call is attempted, so a failed
// validation is never partially applied.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
