package grid

import (
	"errors"
	"fmt"
	"strings"
)

// Validation causes. Match them with errors.Is on a returned *ValidationError.
var (
	ErrRequiredField   = errors.New("value is required")
	ErrInvalidNumber   = errors.New("value must be a finite number")
	ErrInvalidType     = errors.New("value has an unsupported type")
	ErrUnknownField    = errors.New("unknown field")
	ErrUnknownRow      = errors.New("unknown row id")
	ErrReadOnlyField   = errors.New("field is read-only")
	ErrDuplicateRow    = errors.New("row id already exists")
	ErrUnsortableField = errors.New("field is not sortable")
	ErrInvalidPageSize = errors.New("page size must be positive")
	ErrSchemaViolation = errors.New("row violates table schema")
	ErrInvalidSchema   = errors.New("invalid table schema")
)

var (
	ErrUnknownTable = errors.New("grid: unknown table")
	ErrNoSnapshot   = errors.New("grid: no stored snapshot")
	errMissingCode  = errors.New("grid: table code is required")
)

// ValidationError is the only error kind returned by engine mutations.
// The engine is left unchanged whenever one is returned.
type ValidationError struct {
	Op    string
	RowID string
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("grid: ")
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.RowID != "" {
		fmt.Fprintf(&b, "row %q: ", e.RowID)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, "field %q: ", e.Field)
	}
	if e.Err != nil {
		b.WriteString(e.Err.Error())
	} else {
		b.WriteString("validation failed")
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// IsValidationError reports whether err carries a *ValidationError.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

func invalid(op, rowID, field string, cause error) *ValidationError {
	return &ValidationError{Op: op, RowID: rowID, Field: field, Err: cause}
}
