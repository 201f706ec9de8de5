// backend-go/internal/domain/errors.go
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error taxonomy for the confirm/export core. Precondition failures abort a
// batch before any write; per-row enrichment misses never do.
var (
	ErrBadRequest      = errors.New("bad request")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrInvalidTemplate = errors.New("template has no column order")
	ErrNoData          = errors.New("no rows matched the export selection")
)

// DuplicateFilenamesError reports every staged file whose name already exists
// among the company's permanent uploads. Raised before any row is written.
type DuplicateFilenamesError struct {
	Names []string
}

func (e *DuplicateFilenamesError) Error() string {
	return fmt.Sprintf("already confirmed file names: %s", strings.Join(e.Names, ", "))
}

// CorruptTemplateError wraps the decode failure of a template's original
// workbook so the underlying parser error stays available for diagnostics.
type CorruptTemplateError struct {
	Err error
}

func (e *CorruptTemplateError) Error() string {
	return fmt.Sprintf("template original workbook is not decodable: %v", e.Err)
}

func (e *CorruptTemplateError) Unwrap() error { return e.Err }
