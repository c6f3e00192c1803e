package pdfcompose

import (
	"errors"
	"fmt"
)

// Sentinel errors for common composition failure conditions.
var (
	ErrEmptyContent = errors.New("pdfcompose: empty template and no fragments")
	ErrInvalidPage  = errors.New("pdfcompose: invalid page configuration")
)

// ComposeError represents an error that occurred during a specific composition
// step. It wraps an underlying error and includes the operation name for context.
type ComposeError struct {
	Op  string // operation name, e.g. "Build", "Render"
	Err error  // underlying error
}

func (e *ComposeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pdfcompose.%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("pdfcompose.%s: unknown error", e.Op)
}

func (e *ComposeError) Unwrap() error {
	return e.Err
}

// newComposeError creates a new ComposeError wrapping the given error with operation context.
func newComposeError(op string, err error) *ComposeError {
	return &ComposeError{Op: op, Err: err}
}
