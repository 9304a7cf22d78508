/*
errors.go - Centralized error types for the case ledger

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers (controllers) map these onto their own surfaces.

ERROR CATEGORIES:
  1. Validation errors - a replacement sub-collection violates an invariant;
     the whole mutation is rejected before any persistence.
  2. Conflict errors - a concurrent writer won; the caller may retry.
  3. Not-found errors - the case id is unknown to the store.

  Recomputation itself has NO error category: once inputs are valid the
  totals builder is a total function, so "the cache failed to build" is not
  a reachable state.

USAGE:
  if ledger.IsClientError(err) { respond 422 }
  if ledger.IsRetryable(err)   { respond 409 }
  if ledger.IsNotFound(err)    { respond 404 }
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is the root of all input validation failures.
	ErrValidation = errors.New("invalid input")

	// ErrConflict is returned when optimistic locking detects a concurrent
	// write. The losing mutation is never silently merged or dropped.
	ErrConflict = errors.New("concurrent modification detected")

	// ErrCaseNotFound is returned when a case id is unknown to the store.
	ErrCaseNotFound = errors.New("case not found")

	// ErrCaseExists is returned when creating a case with a taken id.
	ErrCaseExists = errors.New("case already exists")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError identifies the offending field and, for list
// sub-collections, the offending item's index.
type ValidationError struct {
	Field string
	Index int // -1 when the error is not tied to a list item
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("validation failed: %s[%d]: %s", e.Field, e.Index, e.Msg)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Msg)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func newValidationError(field string, index int, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Index: index, Msg: fmt.Sprintf(format, args...)}
}

// DuplicateSeqError reports two installments sharing a sequence number.
// Duplicates are rejected, never silently deduped.
type DuplicateSeqError struct {
	Seq        int
	FirstIndex int
	DupIndex   int
}

func (e *DuplicateSeqError) Error() string {
	return fmt.Sprintf("validation failed: installments[%d]: duplicate seq %d (first at index %d)",
		e.DupIndex, e.Seq, e.FirstIndex)
}

func (e *DuplicateSeqError) Unwrap() error { return ErrValidation }

// ConflictError reports which case lost an optimistic write race and at
// which version, so callers can log/retry meaningfully.
type ConflictError struct {
	CaseID  string
	Version int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("case %s: write conflict at version %d", e.CaseID, e.Version)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsRetryable returns true if the error might succeed on retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrCaseExists)
}

// IsNotFound returns true if the error indicates a missing case.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCaseNotFound)
}
