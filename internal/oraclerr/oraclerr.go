// Package oraclerr defines the error-kind taxonomy every component reports
// against: invalid input, missing or corrupt state, I/O, parse failures,
// unavailable models, transient external failures, cancellation, and
// violated internal invariants.
package oraclerr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	InvalidInput      Kind = "invalid-input"
	NotFound          Kind = "not-found"
	Corrupt           Kind = "corrupt"
	IO                Kind = "io"
	ParseError        Kind = "parse-error"
	ModelUnavailable  Kind = "model-unavailable"
	TransientExternal Kind = "transient-external"
	Cancelled         Kind = "cancelled"
	InternalInvariant Kind = "internal-invariant"
)

// Error wraps an underlying cause with the kind of failure and the
// operation during which it occurred, forming a caused-by chain via Unwrap.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs an Error for op, classified as kind, wrapping err.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Is reports whether err (or anything in its chain) carries the given kind.
func Is(err error, kind Kind) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Err
	}
	return false
}
