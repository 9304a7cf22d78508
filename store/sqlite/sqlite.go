/*
Package sqlite provides a SQLite-backed implementation of ledger.CaseStore.

PURPOSE:
  Production persistence for case aggregates. The same patterns apply to
  PostgreSQL - only minor SQL dialect differences.

SCHEMA:
  One row per case. Sub-collections and the totals cache are stored as JSON
  columns: the case is always read and written whole (the consistency
  contract requires it), so normalizing the sub-collections into child
  tables would add join plumbing without ever enabling partial writes.

OPTIMISTIC CONCURRENCY:
  The row carries a version column. Save runs
    UPDATE cases SET ..., version = version + 1
    WHERE id = ? AND version = ?
  and checks RowsAffected: zero rows means either a concurrent writer bumped
  the version (ConflictError) or the case is gone (ErrCaseNotFound); a
  follow-up existence check distinguishes the two.

WAL MODE:
  SQLite is opened with WAL for better concurrency: readers don't block,
  single writer at a time, better crash recovery.

USAGE:
  store, err := sqlite.New("./data/cases.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()
  svc := ledger.NewService(store)

SEE ALSO:
  - ledger/store.go: interface definition and the Save contract
  - ledger/store/memory.go: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/iconic-inc/cube-erp-sub000/ledger"
)

// Store implements ledger.CaseStore using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a SQLite store at the given path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS cases (
		id TEXT PRIMARY KEY,
		pricing_json TEXT NOT NULL,
		participants_json TEXT NOT NULL,
		installments_json TEXT NOT NULL,
		incurred_costs_json TEXT NOT NULL,
		totals_json TEXT NOT NULL,
		version INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CASE STORE (ledger.CaseStore interface)
// =============================================================================

func (s *Store) Create(ctx context.Context, c *ledger.Case) error {
	row, err := encodeCase(c)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO cases
		(id, pricing_json, participants_json, installments_json, incurred_costs_json,
		 totals_json, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		c.ID, row.pricing, row.participants, row.installments, row.costs,
		row.totals, c.Version,
		c.CreatedAt.UTC().Format(time.RFC3339Nano),
		c.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ledger.ErrCaseExists
		}
		return fmt.Errorf("failed to insert case: %w", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context, id string) (*ledger.Case, error) {
	query := `
		SELECT id, pricing_json, participants_json, installments_json,
		       incurred_costs_json, totals_json, version, created_at, updated_at
		FROM cases WHERE id = ?
	`
	c, err := scanCase(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ledger.ErrCaseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load case %s: %w", id, err)
	}
	return c, nil
}

// Save writes conditioned on the version the caller loaded, then bumps it.
func (s *Store) Save(ctx context.Context, c *ledger.Case) error {
	row, err := encodeCase(c)
	if err != nil {
		return err
	}

	query := `
		UPDATE cases SET
			pricing_json = ?,
			participants_json = ?,
			installments_json = ?,
			incurred_costs_json = ?,
			totals_json = ?,
			version = version + 1,
			updated_at = ?
		WHERE id = ? AND version = ?
	`
	res, err := s.db.ExecContext(ctx, query,
		row.pricing, row.participants, row.installments, row.costs, row.totals,
		c.UpdatedAt.UTC().Format(time.RFC3339Nano),
		c.ID, c.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to save case %s: %w", c.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to save case %s: %w", c.ID, err)
	}
	if affected == 0 {
		var exists int
		if err := s.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM cases WHERE id = ?", c.ID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("failed to save case %s: %w", c.ID, err)
		}
		if exists == 0 {
			return ledger.ErrCaseNotFound
		}
		return &ledger.ConflictError{CaseID: c.ID, Version: c.Version}
	}

	c.Version++
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM cases WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete case %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ledger.ErrCaseNotFound
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]*ledger.Case, error) {
	query := `
		SELECT id, pricing_json, participants_json, installments_json,
		       incurred_costs_json, totals_json, version, created_at, updated_at
		FROM cases ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	defer rows.Close()

	var cases []*ledger.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

// =============================================================================
// ROW ENCODING
// =============================================================================

type caseRow struct {
	pricing      string
	participants string
	installments string
	costs        string
	totals       string
}

func encodeCase(c *ledger.Case) (caseRow, error) {
	var row caseRow
	var err error

	if row.pricing, err = marshalField("pricing", c.Pricing); err != nil {
		return row, err
	}
	if row.participants, err = marshalField("participants", c.Participants); err != nil {
		return row, err
	}
	if row.installments, err = marshalField("installments", c.Installments); err != nil {
		return row, err
	}
	if row.costs, err = marshalField("incurred costs", c.IncurredCosts); err != nil {
		return row, err
	}
	if row.totals, err = marshalField("totals", c.Totals); err != nil {
		return row, err
	}
	return row, nil
}

func marshalField(name string, v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return string(b), nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanCase(row scannable) (*ledger.Case, error) {
	var (
		c                    ledger.Case
		pricingJSON          string
		participantsJSON     string
		installmentsJSON     string
		costsJSON            string
		totalsJSON           string
		createdAt, updatedAt string
	)

	err := row.Scan(&c.ID, &pricingJSON, &participantsJSON, &installmentsJSON,
		&costsJSON, &totalsJSON, &c.Version, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(pricingJSON), &c.Pricing); err != nil {
		return nil, fmt.Errorf("failed to decode pricing: %w", err)
	}
	if err := json.Unmarshal([]byte(participantsJSON), &c.Participants); err != nil {
		return nil, fmt.Errorf("failed to decode participants: %w", err)
	}
	if err := json.Unmarshal([]byte(installmentsJSON), &c.Installments); err != nil {
		return nil, fmt.Errorf("failed to decode installments: %w", err)
	}
	if err := json.Unmarshal([]byte(costsJSON), &c.IncurredCosts); err != nil {
		return nil, fmt.Errorf("failed to decode incurred costs: %w", err)
	}
	if err := json.Unmarshal([]byte(totalsJSON), &c.Totals); err != nil {
		return nil, fmt.Errorf("failed to decode totals: %w", err)
	}

	c.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	c.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &c, nil
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}
