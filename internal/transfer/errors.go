package transfer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tiendastreet/catalog-service/internal/catalog"
)

// ErrMissingSKU rejects a data row with a blank SKU cell.
var ErrMissingSKU = errors.New("SKU is required")

// CodecError wraps any failure to open or read the spreadsheet itself, as
// opposed to a failure in one of its rows.
type CodecError struct {
	Err error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("unreadable spreadsheet: %v", e.Err)
}

func (e *CodecError) Unwrap() error { return e.Err }

// MissingColumnsError lists every required header absent from the file.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
}

// UnknownReferenceError reports a reference name no catalog row matches.
type UnknownReferenceError struct {
	Kind catalog.Kind
	Name string
}

func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// RowError ties a failure to the 1-indexed spreadsheet row it came from
// (the header is row 1).
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
