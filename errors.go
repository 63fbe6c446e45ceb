package dues

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAmount    = errors.New("invalid amount (must be > 0)")
	ErrInvalidUnit      = errors.New("invalid unit (must contain a letter or a digit)")
	ErrInvalidPolicy    = errors.New("invalid billing policy")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError reports a record rejected before it reaches a store.
//
// It matches its cause with errors.Is, for instance ErrInvalidAmount.
type ValidationError struct {
	Field string // Field is the name of the rejected field.
	Value any    // Value is the raw rejected value.
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// StoreError reports an I/O failure of a store collaborator.
//
// It matches both ErrStoreUnavailable and its cause with errors.Is.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrStoreUnavailable, e.Err)
}

func (e *StoreError) Unwrap() []error { return []error{ErrStoreUnavailable, e.Err} }

// Unavailable wraps err as a StoreError for the operation op.
// A nil err returns nil, and an err that already is a StoreError is returned as is.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
