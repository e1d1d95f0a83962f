// Package coreerr defines the small closed taxonomy of errors the
// state-transition engine and fork-choice raise, so a caller can branch on
// error class (missing precondition vs. invalid signature vs. invalid
// operation) without string-matching messages.
package coreerr

import "github.com/pkg/errors"

// Class identifies which of the closed set of failure categories an error
// belongs to.
type Class int

const (
	// ClassPreconditionMissing means the operation requires state or
	// context that was never supplied, e.g. a missing parent block.
	ClassPreconditionMissing Class = iota
	// ClassInvalidSignature means a BLS signature failed verification.
	ClassInvalidSignature
	// ClassInvalidOperation means an included operation (slashing, exit,
	// deposit, attestation) violates its own admissibility rules.
	ClassInvalidOperation
	// ClassStateRootMismatch means a block's declared post-state root
	// does not match the root produced by applying it.
	ClassStateRootMismatch
	// ClassExecutionUnavailable means the execution engine could not be
	// reached to validate a payload.
	ClassExecutionUnavailable
	// ClassExecutionInvalid means the execution engine rejected a
	// payload as invalid.
	ClassExecutionInvalid
)

// Error wraps an underlying cause with a Class so callers can type-switch on
// failure category.
type Error struct {
	class Class
	cause error
}

func (e *Error) Error() string { return e.cause.Error() }
func (e *Error) Unwrap() error { return e.cause }
func (e *Error) Class() Class  { return e.class }

func newf(class Class, format string, args ...interface{}) *Error {
	return &Error{class: class, cause: errors.Errorf(format, args...)}
}

func wrap(class Class, err error, msg string) *Error {
	return &Error{class: class, cause: errors.Wrap(err, msg)}
}

// PreconditionMissingf constructs a ClassPreconditionMissing error.
func PreconditionMissingf(format string, args ...interface{}) *Error {
	return newf(ClassPreconditionMissing, format, args...)
}

// InvalidSignaturef constructs a ClassInvalidSignature error.
func InvalidSignaturef(format string, args ...interface{}) *Error {
	return newf(ClassInvalidSignature, format, args...)
}

// WrapInvalidSignature wraps err as a ClassInvalidSignature error.
func WrapInvalidSignature(err error, msg string) *Error {
	return wrap(ClassInvalidSignature, err, msg)
}

// InvalidOperationf constructs a ClassInvalidOperation error.
func InvalidOperationf(format string, args ...interface{}) *Error {
	return newf(ClassInvalidOperation, format, args...)
}

// WrapInvalidOperation wraps err as a ClassInvalidOperation error.
func WrapInvalidOperation(err error, msg string) *Error {
	return wrap(ClassInvalidOperation, err, msg)
}

// StateRootMismatchf constructs a ClassStateRootMismatch error.
func StateRootMismatchf(format string, args ...interface{}) *Error {
	return newf(ClassStateRootMismatch, format, args...)
}

// ExecutionUnavailablef constructs a ClassExecutionUnavailable error.
func ExecutionUnavailablef(format string, args ...interface{}) *Error {
	return newf(ClassExecutionUnavailable, format, args...)
}

// ExecutionInvalidf constructs a ClassExecutionInvalid error.
func ExecutionInvalidf(format string, args ...interface{}) *Error {
	return newf(ClassExecutionInvalid, format, args...)
}

// Is reports whether err is a *Error of class c, unwrapping through
// wrapped causes.
func Is(err error, c Class) bool {
	var e *Error
	for err != nil {
		if as, ok := err.(*Error); ok {
			e = as
			break
		}
		err = errors.Unwrap(err)
	}
	return e != nil && e.class == c
}
