package services

import (
	"errors"
	"fmt"
)

// ErrNotFoundOrForbidden is returned when a mutation targets a notification
// that does not exist or is addressed to a different user.
var ErrNotFoundOrForbidden = errors.New("notification not found or not accessible")

// ErrDegradedSchema signals that the backing schema has no hide column and the
// read-only fallback is in effect.
var ErrDegradedSchema = errors.New("hide support unavailable in backing schema")

// StoreError wraps a failure of the backing persistence layer. Callers must
// not silently drop it for create operations.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
