package types

import (
	"errors"
	"fmt"
)

// ErrorKind tags a store failure.
type ErrorKind int

const (
	// KindOther covers transport, auth and server faults.
	KindOther ErrorKind = iota
	// KindNotFound means the requested type or object does not exist.
	KindNotFound
)

func (k ErrorKind) String() string {
	if k == KindNotFound {
		return "not found"
	}
	return "other"
}

// StoreError is the only error shape returned across the ObjectStore
// boundary. Callers branch on Kind, never on the wrapped cause.
type StoreError struct {
	Kind ErrorKind
	Err  error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return "store: " + e.Kind.String()
	}
	return fmt.Sprintf("store: %s: %v", e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrNotFound) hold for NotFound store errors.
func (e *StoreError) Is(target error) bool {
	return target == ErrNotFound && e.Kind == KindNotFound
}

// NotFound returns a NotFound store error with the given cause.
func NotFound(cause error) error {
	return &StoreError{Kind: KindNotFound, Err: cause}
}

// Other returns an Other store error wrapping cause. A cause that already
// is a *StoreError is returned unchanged.
func Other(cause error) error {
	var se *StoreError
	if errors.As(cause, &se) {
		return cause
	}
	return &StoreError{Kind: KindOther, Err: cause}
}

// IsNotFound reports whether err is a NotFound store error.
func IsNotFound(err error) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Kind == KindNotFound
}

// Store and object errors.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidID    = errors.New("invalid object ID")
	ErrInvalidType  = errors.New("invalid content type")
	ErrInvalidData  = errors.New("invalid object data")
	ErrMissingField = errors.New("required field missing")
	ErrNoWriteKey   = errors.New("write key not configured")
)

// FieldError reports a required form field that is absent or empty.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingField, e.Field)
}

func (e *FieldError) Unwrap() error { return ErrMissingField }
