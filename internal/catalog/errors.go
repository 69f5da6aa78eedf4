package catalog

import (
	"errors"
	"fmt"

	"github.com/dshills/colorname/internal/color"
	"github.com/dshills/colorname/internal/finder"
)

// Errors returned by catalog operations.
var (
	// ErrUnknownCatalog indicates a catalog name that was never built.
	ErrUnknownCatalog = errors.New("unknown catalog")

	// ErrCatalogEmpty indicates a catalog built with zero entries.
	ErrCatalogEmpty = finder.ErrCatalogEmpty

	// ErrInvalidColorFormat indicates a malformed hex value.
	ErrInvalidColorFormat = color.ErrInvalidColorFormat

	// ErrColorsExhausted indicates a unique batch asked for more colors
	// than the catalog holds.
	ErrColorsExhausted = finder.ErrColorsExhausted
)

// EntryError describes a catalog entry that could not be parsed.
type EntryError struct {
	Catalog string
	Index   int
	Name    string
	Err     error
}

// Error implements the error interface.
func (e *EntryError) Error() string {
	return fmt.Sprintf("catalog %s: entry %d (%q): %v", e.Catalog, e.Index, e.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e *EntryError) Unwrap() error {
	return e.Err
}

// BatchExhaustionError reports a unique batch that could not be served in
// full. Batches fail as a whole rather than returning a short list.
type BatchExhaustionError struct {
	// Catalog is the catalog name.
	Catalog string
	// Requested is the number of values in the batch.
	Requested int
	// AvailableCount is the number of distinct colors the batch could draw on.
	AvailableCount int
	// TotalCount is the catalog size.
	TotalCount int
}

// Error implements the error interface.
func (e *BatchExhaustionError) Error() string {
	return fmt.Sprintf("catalog %s: only %d distinct colors available, %d requested",
		e.Catalog, e.AvailableCount, e.Requested)
}

// Is reports whether target is ErrColorsExhausted.
func (e *BatchExhaustionError) Is(target error) bool {
	return target == ErrColorsExhausted
}

func unknownCatalog(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownCatalog, name)
}
