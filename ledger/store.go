/*
store.go - Persistence interface for cases

PURPOSE:
  Defines the interface between the ledger core and the database. The core
  does not persist anything itself; it computes, and hands the whole case
  (sub-collections plus rebuilt cache) to a CaseStore as one unit.

OPTIMISTIC CONCURRENCY CONTRACT:
  Save must be conditional on Case.Version being unchanged since the case
  was loaded, and must bump the version on success. A stale save fails with
  ErrConflict - it never silently overwrites. This is what lets two
  independent mutation endpoints share one aggregate without last-write-wins
  data loss.

IMPLEMENTATIONS:
  - ledger/store/memory.go: in-memory, for tests and dev
  - store/sqlite/sqlite.go: production SQLite
*/
package ledger

import "context"

// CaseStore persists case aggregates. The case and its totals cache are
// always written together; there is no API to write the cache alone.
type CaseStore interface {
	// Create inserts a new case at version 1.
	// Returns ErrCaseExists if the id is taken.
	Create(ctx context.Context, c *Case) error

	// Load returns the case or ErrCaseNotFound.
	Load(ctx context.Context, id string) (*Case, error)

	// Save writes the case conditioned on c.Version matching the stored
	// version, then bumps it. Returns ErrConflict on a stale version and
	// ErrCaseNotFound if the case was deleted underneath.
	Save(ctx context.Context, c *Case) error

	// Delete removes the case and, with it, its cache. No orphaned caches.
	Delete(ctx context.Context, id string) error

	// List returns all cases, ordered by id.
	List(ctx context.Context) ([]*Case, error)
}
