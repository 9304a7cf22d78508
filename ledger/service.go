/*
service.go - Case ledger orchestration

PURPOSE:
  The only writer in the system. Each mutation entry point replaces exactly
  one sub-collection, then reloads nothing and recomputes everything: the
  full totals cache is rebuilt from the case's current state and persisted
  atomically with the mutation. Callers never observe a case whose cache
  disagrees with its sub-collections.

MUTATION SEQUENCE (per entry point):
  1. Validate the replacement sub-collection in full. A failure rejects the
     whole mutation before any read or write.
  2. Load the case.
  3. Replace the one sub-collection.
  4. Rebuild the totals cache via BuildTotals.
  5. Save case + cache as one unit, conditioned on the loaded version.
  6. On version conflict, re-read and re-apply from the winner's state, up
     to maxRetries; then surface the conflict to the caller.

CONCURRENCY:
  No internal goroutines; each operation runs synchronously in the calling
  request. Cases are independent units of concurrency - there is no
  cross-case coordination. The bounded retry loop means a conflict fails
  fast rather than spinning.
*/
package ledger

import (
	"context"
	"fmt"
	"time"
)

// maxRetries bounds the re-read/re-apply loop on version conflicts.
const maxRetries = 3

// Service orchestrates case mutations and cache rebuilds.
type Service struct {
	store         CaseStore
	clock         Clock
	dueSoonWindow time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithClock injects a time source. Defaults to SystemClock.
func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithDueSoonWindow sets the lookahead within which unpaid installments are
// reported DUE instead of PLANNED. Defaults to DefaultDueSoonWindow.
func WithDueSoonWindow(d time.Duration) Option {
	return func(s *Service) { s.dueSoonWindow = d }
}

// NewService creates a case ledger service on top of a store.
func NewService(store CaseStore, opts ...Option) *Service {
	s := &Service{
		store:         store,
		clock:         SystemClock{},
		dueSoonWindow: DefaultDueSoonWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// CreateCase creates a case with an initial pricing quote and empty
// sub-collections. The cache is built immediately so the invariant "cache
// matches sub-collections" holds from the first observation.
func (s *Service) CreateCase(ctx context.Context, id string, pricing Pricing) (*Case, error) {
	if id == "" {
		return nil, newValidationError("id", -1, "case id is required")
	}
	if err := ValidatePricing(pricing); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	c := &Case{
		ID:        id,
		Pricing:   pricing,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.rebuild(c, now)

	if err := s.store.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create case %s: %w", id, err)
	}
	return c, nil
}

// GetCase returns the case including its cache.
func (s *Service) GetCase(ctx context.Context, id string) (*Case, error) {
	return s.store.Load(ctx, id)
}

// ListCases returns all cases.
func (s *Service) ListCases(ctx context.Context) ([]*Case, error) {
	return s.store.List(ctx)
}

// DeleteCase destroys the case and everything it owns, cache included.
func (s *Service) DeleteCase(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// =============================================================================
// MUTATION ENTRY POINTS - One per sub-collection
// =============================================================================

// UpdatePricing replaces the case's pricing quote.
func (s *Service) UpdatePricing(ctx context.Context, caseID string, pricing Pricing) (*Case, error) {
	if err := ValidatePricing(pricing); err != nil {
		return nil, err
	}
	return s.mutate(ctx, caseID, func(c *Case) {
		c.Pricing = pricing
	})
}

// UpdateParticipants replaces the case's participant list.
func (s *Service) UpdateParticipants(ctx context.Context, caseID string, participants []Participant) (*Case, error) {
	if err := ValidateParticipants(participants); err != nil {
		return nil, err
	}
	return s.mutate(ctx, caseID, func(c *Case) {
		c.Participants = participants
	})
}

// UpdateInstallments replaces the case's payment schedule.
func (s *Service) UpdateInstallments(ctx context.Context, caseID string, installments []Installment) (*Case, error) {
	if err := ValidateInstallments(installments); err != nil {
		return nil, err
	}
	return s.mutate(ctx, caseID, func(c *Case) {
		c.Installments = installments
	})
}

// UpdateIncurredCosts replaces the case's incurred-cost list.
func (s *Service) UpdateIncurredCosts(ctx context.Context, caseID string, costs []IncurredCost) (*Case, error) {
	if err := ValidateIncurredCosts(costs); err != nil {
		return nil, err
	}
	return s.mutate(ctx, caseID, func(c *Case) {
		c.IncurredCosts = costs
	})
}

// =============================================================================
// READ-RECOMPUTE-WRITE
// =============================================================================

// mutate runs the read-recompute-write sequence with bounded conflict
// retries. apply replaces exactly one sub-collection; everything derived is
// then rebuilt from the full case so the losing side of a race still ends
// up with a cache reflecting both mutations.
func (s *Service) mutate(ctx context.Context, caseID string, apply func(*Case)) (*Case, error) {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		c, err := s.store.Load(ctx, caseID)
		if err != nil {
			return nil, err
		}

		apply(c)
		now := s.clock.Now()
		s.rebuild(c, now)
		c.UpdatedAt = now

		err = s.store.Save(ctx, c)
		if err == nil {
			return c, nil
		}
		if !IsRetryable(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("case %s: gave up after %d attempts: %w", caseID, maxRetries, lastErr)
}

// rebuild recomputes the cache and derived installment statuses in place.
func (s *Service) rebuild(c *Case, now time.Time) {
	built := BuildTotals(c.Pricing, c.Participants, c.Installments, c.IncurredCosts, now, s.dueSoonWindow)
	c.Totals = built.Totals
	c.Installments = built.Installments
}
