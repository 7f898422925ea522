package glfx

import (
	"errors"
	"fmt"
)

// Sentinel errors. Precondition failures wrap one of these, so callers can
// match the cause with errors.Is.
var (
	// ErrVersionUnsupported is returned when an operation needs a newer
	// context version than the one the Context was created for.
	ErrVersionUnsupported = errors.New("glfx: operation not supported by context version")

	// ErrIndexOutOfRange is returned when an index exceeds the bound the
	// context reported for it.
	ErrIndexOutOfRange = errors.New("glfx: index out of range")

	// ErrInvalidFilter is returned for an inconsistent debug message filter.
	ErrInvalidFilter = errors.New("glfx: invalid debug message filter")

	// ErrInvalidEnum is returned when a symbolic argument is not accepted by
	// the operation.
	ErrInvalidEnum = errors.New("glfx: invalid enum")

	// ErrInvalidArgument is returned for out-of-domain scalar arguments and
	// nil or foreign resources.
	ErrInvalidArgument = errors.New("glfx: invalid argument")

	// ErrReleased is returned when a released handle is used.
	ErrReleased = errors.New("glfx: handle already released")

	// ErrQueryActive is returned when beginning a query on a target/index
	// pair that already has an active query.
	ErrQueryActive = errors.New("glfx: query already active")

	// ErrQueryInactive is returned when ending a query that was not begun.
	ErrQueryInactive = errors.New("glfx: no active query")

	// ErrNoBinaryFormats is returned when the native layer reports no
	// program binary for a linked program.
	ErrNoBinaryFormats = errors.New("glfx: no program binary formats available")

	// ErrContextClosed is returned by operations on a closed Context.
	ErrContextClosed = errors.New("glfx: context closed")

	// ErrCompileFailed is returned when a shader fails to compile.
	ErrCompileFailed = errors.New("glfx: shader compilation failed")

	// ErrLinkFailed is returned when a program fails to link.
	ErrLinkFailed = errors.New("glfx: program link failed")

	// ErrMalformedDebugLog is returned when a debug message log response
	// cannot be decoded.
	ErrMalformedDebugLog = errors.New("glfx: malformed debug message log")

	// ErrStackOverflow is returned by MatrixStack.Push at maximum depth.
	ErrStackOverflow = errors.New("glfx: matrix stack overflow")

	// ErrStackUnderflow is returned by MatrixStack.Pop at the bottom.
	ErrStackUnderflow = errors.New("glfx: matrix stack underflow")
)

// AllocationError reports a failed native allocation. The handle stays
// unallocated, so the allocation may be retried.
type AllocationError struct {
	Kind ObjectKind
	Code ErrorCode
}

func (e *AllocationError) Error() string {
	if e.Code == NoError {
		return fmt.Sprintf("glfx: allocate %s: native layer returned no object", e.Kind)
	}
	return fmt.Sprintf("glfx: allocate %s: %s", e.Kind, e.Code)
}

// ProgramStateError reports an operation that needs a linked program.
type ProgramStateError struct {
	Op    string
	State ProgramState
}

func (e *ProgramStateError) Error() string {
	return fmt.Sprintf("glfx: %s: program is %s, want %s", e.Op, e.State, ProgramLinked)
}

// PreconditionError reports a violated capability, index or argument
// constraint detected before any native call was issued.
type PreconditionError struct {
	Op     string
	Err    error
	Detail string
}

func (e *PreconditionError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%v (%s)", e.Err, e.Op)
	}
	return fmt.Sprintf("%v (%s): %s", e.Err, e.Op, e.Detail)
}

func (e *PreconditionError) Unwrap() error { return e.Err }

// precondition is shorthand for building a PreconditionError.
func precondition(op string, err error, format string, args ...any) *PreconditionError {
	return &PreconditionError{Op: op, Err: err, Detail: fmt.Sprintf(format, args...)}
}

// NumericDomainError reports degenerate geometry passed to a projection
// or view builder.
type NumericDomainError struct {
	Op     string
	Reason string
}

func (e *NumericDomainError) Error() string {
	return fmt.Sprintf("glfx: %s: %s", e.Op, e.Reason)
}

// GraphicsError carries an error code the native layer reported after a
// state-mutating call.
type GraphicsError struct {
	Op   string
	Code ErrorCode
}

func (e *GraphicsError) Error() string {
	return fmt.Sprintf("glfx: %s: native error %s", e.Op, e.Code)
}
