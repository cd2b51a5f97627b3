package linear

import (
	"errors"
	"fmt"
)

// ErrNotSuccessful is returned when a mutation reports success=false.
var ErrNotSuccessful = errors.New("mutation was not successful")

// APIError is any failure of a Linear operation: transport errors, non-200
// responses and GraphQL errors. Error returns the underlying message
// unchanged so it can be shown to the caller verbatim.
type APIError struct {
	Operation string
	Err       error
}

func (e *APIError) Error() string {
	return e.Err.Error()
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func newAPIError(op string, err error) *APIError {
	return &APIError{Operation: op, Err: err}
}

func unsuccessful(mutation string) error {
	return fmt.Errorf("%s: %w", mutation, ErrNotSuccessful)
}
