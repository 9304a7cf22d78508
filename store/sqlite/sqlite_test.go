package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iconic-inc/cube-erp-sub000/ledger"
	"github.com/iconic-inc/cube-erp-sub000/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func fullCase(id string) *ledger.Case {
	capAmount := decimal.NewFromInt(300)
	due := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)
	return &ledger.Case{
		ID: id,
		Pricing: ledger.Pricing{
			BaseAmount: ledger.MustDecimal("1000.50"),
			Discounts:  decimal.NewFromInt(50),
			AddOns:     decimal.NewFromInt(25),
			Taxes: []ledger.Tax{
				{Name: "VAT", Mode: ledger.TaxPercent, Value: decimal.NewFromInt(10), Scope: ledger.TaxOnBase},
			},
		},
		Participants: []ledger.Participant{
			{
				EmployeeID: "emp-7",
				Role:       "attorney",
				Commission: ledger.CommissionRule{
					Type:       ledger.PercentOfNet,
					Value:      decimal.NewFromInt(10),
					CapAmount:  &capAmount,
					EligibleOn: ledger.OnPayment,
				},
			},
		},
		Installments: []ledger.Installment{
			{Seq: 1, DueDate: due, Amount: decimal.NewFromInt(500),
				PaidAmount: decimal.NewFromInt(100), Status: ledger.StatusPartiallyPaid, Notes: "retainer"},
		},
		IncurredCosts: []ledger.IncurredCost{
			{Date: due, Category: "filing_fee", Description: "district court",
				Amount: ledger.MustDecimal("42.42")},
		},
		Totals: ledger.TotalsCache{
			Scheduled:   decimal.NewFromInt(500),
			Paid:        decimal.NewFromInt(100),
			Outstanding: decimal.NewFromInt(400),
			NextDueDate: &due,
		},
		Version:   1,
		CreatedAt: time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC),
	}
}

// =============================================================================
// ROUND TRIP
// =============================================================================

func TestSQLite_CreateLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, fullCase("case-1")))

	loaded, err := store.Load(ctx, "case-1")
	require.NoError(t, err)

	assert.Equal(t, "case-1", loaded.ID)
	assert.True(t, loaded.Pricing.BaseAmount.Equal(ledger.MustDecimal("1000.50")))
	require.Len(t, loaded.Pricing.Taxes, 1)
	assert.Equal(t, ledger.TaxPercent, loaded.Pricing.Taxes[0].Mode)

	require.Len(t, loaded.Participants, 1)
	require.NotNil(t, loaded.Participants[0].Commission.CapAmount)
	assert.True(t, loaded.Participants[0].Commission.CapAmount.Equal(decimal.NewFromInt(300)))
	assert.Nil(t, loaded.Participants[0].Commission.FloorAmount)

	require.Len(t, loaded.Installments, 1)
	assert.Equal(t, ledger.StatusPartiallyPaid, loaded.Installments[0].Status)
	assert.Equal(t, "retainer", loaded.Installments[0].Notes)

	require.Len(t, loaded.IncurredCosts, 1)
	assert.True(t, loaded.IncurredCosts[0].Amount.Equal(ledger.MustDecimal("42.42")))

	assert.True(t, loaded.Totals.Outstanding.Equal(decimal.NewFromInt(400)))
	require.NotNil(t, loaded.Totals.NextDueDate)
	assert.Equal(t, int64(1), loaded.Version)
}

func TestSQLite_CreateDuplicate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, fullCase("case-1")))
	assert.ErrorIs(t, store.Create(ctx, fullCase("case-1")), ledger.ErrCaseExists)
}

func TestSQLite_LoadMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load(context.Background(), "ghost")
	assert.ErrorIs(t, err, ledger.ErrCaseNotFound)
}

// =============================================================================
// OPTIMISTIC CONCURRENCY
// =============================================================================

func TestSQLite_SaveBumpsVersion(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, fullCase("case-1")))

	c, err := store.Load(ctx, "case-1")
	require.NoError(t, err)
	c.IncurredCosts = append(c.IncurredCosts, ledger.IncurredCost{
		Date: time.Now().UTC(), Category: "courier", Amount: decimal.NewFromInt(15),
	})

	require.NoError(t, store.Save(ctx, c))
	assert.Equal(t, int64(2), c.Version)

	stored, err := store.Load(ctx, "case-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.Version)
	assert.Len(t, stored.IncurredCosts, 2)
}

func TestSQLite_StaleSaveConflicts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, fullCase("case-1")))

	first, err := store.Load(ctx, "case-1")
	require.NoError(t, err)
	second, err := store.Load(ctx, "case-1")
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, first))

	err = store.Save(ctx, second)
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrConflict, "stale version must conflict, not overwrite")
}

func TestSQLite_SaveDeletedCase(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, fullCase("case-1")))

	c, err := store.Load(ctx, "case-1")
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, "case-1"))

	err = store.Save(ctx, c)
	assert.ErrorIs(t, err, ledger.ErrCaseNotFound,
		"saving a deleted case reports not-found, not a conflict")
}

// =============================================================================
// DELETE / LIST
// =============================================================================

func TestSQLite_DeleteAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, fullCase("case-b")))
	require.NoError(t, store.Create(ctx, fullCase("case-a")))

	cases, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, "case-a", cases[0].ID, "list is ordered by id")

	require.NoError(t, store.Delete(ctx, "case-b"))
	assert.ErrorIs(t, store.Delete(ctx, "case-b"), ledger.ErrCaseNotFound)
}

// =============================================================================
// END TO END WITH THE SERVICE
// =============================================================================

func TestSQLite_ServiceMutationsPersist(t *testing.T) {
	// Full stack minus HTTP: service on SQLite, mutation, reload.

	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	svc := ledger.NewService(store, ledger.WithClock(ledger.FixedClock{At: now}))

	_, err := svc.CreateCase(ctx, "case-1", ledger.Pricing{
		BaseAmount: decimal.NewFromInt(1000),
		Taxes: []ledger.Tax{
			{Name: "VAT", Mode: ledger.TaxPercent, Value: decimal.NewFromInt(10), Scope: ledger.TaxOnBase},
		},
	})
	require.NoError(t, err)

	_, err = svc.UpdateInstallments(ctx, "case-1", []ledger.Installment{
		{Seq: 1, DueDate: now.AddDate(0, 0, -5), Amount: decimal.NewFromInt(400), PaidAmount: decimal.Zero},
	})
	require.NoError(t, err)

	reloaded, err := svc.GetCase(ctx, "case-1")
	require.NoError(t, err)
	assert.True(t, reloaded.Totals.Scheduled.Equal(decimal.NewFromInt(400)))
	assert.Equal(t, 1, reloaded.Totals.OverdueCount)
	assert.Equal(t, ledger.StatusOverdue, reloaded.Installments[0].Status)
	assert.True(t, reloaded.Totals.NetFinal.Equal(decimal.NewFromInt(900)))
}
