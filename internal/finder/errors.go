package finder

import (
	"errors"
	"fmt"
)

// Errors returned by finder operations.
var (
	// ErrCatalogEmpty indicates a finder was built over zero colors.
	ErrCatalogEmpty = errors.New("catalog is empty")

	// ErrColorsExhausted indicates a unique session has returned every color.
	ErrColorsExhausted = errors.New("colors exhausted")
)

// ExhaustionError is returned when a unique session cannot produce another
// distinct color. It is an expected outcome, not a failure of the finder.
type ExhaustionError struct {
	// Message describes the condition for the end user.
	Message string
	// AvailableCount is the number of colors the session could still return.
	AvailableCount int
	// TotalCount is the number of colors in the catalog.
	TotalCount int
}

func newExhaustionError(available, total int) *ExhaustionError {
	return &ExhaustionError{
		Message:        fmt.Sprintf("all %d colors have been used; no distinct color left to return", total),
		AvailableCount: available,
		TotalCount:     total,
	}
}

// Error implements the error interface.
func (e *ExhaustionError) Error() string {
	return e.Message
}

// Is reports whether target is ErrColorsExhausted.
func (e *ExhaustionError) Is(target error) bool {
	return target == ErrColorsExhausted
}
