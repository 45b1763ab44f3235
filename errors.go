package textweave

import (
	"errors"
	"fmt"

	"github.com/dshills/textweave/internal/geom"
)

// Arena errors.
var (
	// ErrArenaExhausted indicates an allocation would exceed a configured
	// arena budget. The failed operation leaves the arena untouched.
	ErrArenaExhausted = errors.New("arena budget exhausted")

	// ErrOverflow indicates a signed offset with a negative coordinate was
	// converted to a position. It surfaces at the conversion boundary and
	// is never silently clamped.
	ErrOverflow = geom.ErrOverflow
)

// OpError represents an error that occurred during an arena operation.
type OpError struct {
	Op      string // Operation name (e.g., "alloc", "unify", "write")
	Context string // Additional context
	Err     error  // Underlying error
}

// NewOpError creates a new OpError.
func NewOpError(op string, err error) *OpError {
	return &OpError{
		Op:  op,
		Err: err,
	}
}

// WithContext adds context to the error.
// Safe to call on nil receiver - returns nil.
func (e *OpError) WithContext(ctx string) *OpError {
	if e == nil {
		return nil
	}
	e.Context = ctx
	return e
}

func (e *OpError) Error() string {
	if e == nil {
		return ""
	}

	msg := e.Op
	if e.Context != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Context)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is implements errors.Is for OpError.
// Matches both the wrapper itself and the wrapped error.
func (e *OpError) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*OpError); ok {
		return e == t
	}
	return errors.Is(e.Err, target)
}
