package domain

import (
	"errors"
	"strings"
)

var ErrValidation = errors.New("validation failed")

// ErrIdempotencyConflict means the Idempotency-Key is bound to a shipment that
// is not visible yet, usually because the first request is still in flight.
var ErrIdempotencyConflict = errors.New("request with this idempotency key is still in progress")

// ValidationError lists the form fields that blocked a mutation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	return strings.Join(e.Fields, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
