// Package store provides CaseStore implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/iconic-inc/cube-erp-sub000/ledger"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory is an in-memory CaseStore with the same optimistic-versioning
// contract as the SQLite store. Cases are deep-copied in and out so callers
// can never mutate stored state without going through Save.
type Memory struct {
	mu    sync.RWMutex
	cases map[string]*ledger.Case
}

func NewMemory() *Memory {
	return &Memory{cases: make(map[string]*ledger.Case)}
}

func (m *Memory) Create(_ context.Context, c *ledger.Case) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.cases[c.ID]; ok {
		return ledger.ErrCaseExists
	}
	m.cases[c.ID] = clone(c)
	return nil
}

func (m *Memory) Load(_ context.Context, id string) (*ledger.Case, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.cases[id]
	if !ok {
		return nil, ledger.ErrCaseNotFound
	}
	return clone(c), nil
}

// Save writes conditioned on the version the caller loaded, then bumps it.
func (m *Memory) Save(_ context.Context, c *ledger.Case) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.cases[c.ID]
	if !ok {
		return ledger.ErrCaseNotFound
	}
	if current.Version != c.Version {
		return &ledger.ConflictError{CaseID: c.ID, Version: c.Version}
	}

	stored := clone(c)
	stored.Version = c.Version + 1
	m.cases[c.ID] = stored
	c.Version = stored.Version
	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.cases[id]; !ok {
		return ledger.ErrCaseNotFound
	}
	delete(m.cases, id)
	return nil
}

func (m *Memory) List(_ context.Context) ([]*ledger.Case, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*ledger.Case, 0, len(m.cases))
	for _, c := range m.cases {
		result = append(result, clone(c))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// clone deep-copies a case. Decimals are immutable values; only slices,
// pointers, and the cache's due-date pointer need fresh memory.
func clone(c *ledger.Case) *ledger.Case {
	out := *c

	out.Pricing.Taxes = append([]ledger.Tax(nil), c.Pricing.Taxes...)

	out.Participants = append([]ledger.Participant(nil), c.Participants...)
	for i, p := range out.Participants {
		if p.Commission.CapAmount != nil {
			v := *p.Commission.CapAmount
			out.Participants[i].Commission.CapAmount = &v
		}
		if p.Commission.FloorAmount != nil {
			v := *p.Commission.FloorAmount
			out.Participants[i].Commission.FloorAmount = &v
		}
	}

	out.Installments = append([]ledger.Installment(nil), c.Installments...)
	out.IncurredCosts = append([]ledger.IncurredCost(nil), c.IncurredCosts...)

	if c.Totals.NextDueDate != nil {
		due := *c.Totals.NextDueDate
		out.Totals.NextDueDate = &due
	}
	return &out
}
