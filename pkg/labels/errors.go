package labels

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every *ValidationError through errors.Is.
	ErrValidation = errors.New("validation failed")
	// ErrNothingToExport is returned by ExportRecords on an empty store.
	ErrNothingToExport = errors.New("no data to export")
)

// ValidationError describes input rejected by Store.Add. The store is left unchanged.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ExportError reports why an export could not be produced.
type ExportError struct {
	Err error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export refused: %v", e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
