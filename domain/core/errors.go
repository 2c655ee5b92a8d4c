package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Fatal input errors: these abort a run with full artifact cleanup.
	ErrEmptyInput   = errors.New("input table has no rows or columns")
	ErrDecode       = errors.New("input could not be decoded as CSV text")
	ErrEmptySummary = errors.New("cannot summarize a table with no rows")

	// Validation errors
	ErrDuplicateColumn = errors.New("duplicate column name")
	ErrRaggedColumns   = errors.New("columns have unequal row counts")
)

// NewColumnError attaches the offending column name to a validation error
func NewColumnError(column string, err error) error {
	return fmt.Errorf("column %q: %w", column, err)
}

// IsFatalInputError reports whether an ingestion error cannot be recovered
// from and must abort the run
func IsFatalInputError(err error) bool {
	return errors.Is(err, ErrEmptyInput) || errors.Is(err, ErrDecode)
}
