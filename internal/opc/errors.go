package opc

import (
	"errors"
	"fmt"
)

// ErrPartNotFound indicates a part path is absent from the container index.
var ErrPartNotFound = errors.New("part not found")

// ErrSheetNotFound indicates the requested worksheet name is not declared
// in the workbook.
var ErrSheetNotFound = errors.New("sheet not found")

// PartError wraps a failure tied to a specific part inside the container.
type PartError struct {
	Part string
	Err  error
}

func (e *PartError) Error() string {
	return fmt.Sprintf("part %q: %v", e.Part, e.Err)
}

func (e *PartError) Unwrap() error {
	return e.Err
}

// NewPartError creates a PartError for the given part path.
func NewPartError(part string, err error) *PartError {
	return &PartError{Part: part, Err: err}
}
