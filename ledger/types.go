/*
Package ledger implements the case financial ledger.

PURPOSE:
  For each legal case the ledger tracks a pricing quote, a set of
  participant commission rules, a payment installment schedule, and a list
  of incurred costs. From those four independently-edited sub-collections
  it derives a single consistent summary (the totals cache).

KEY CONCEPTS IN THIS FILE (types.go):
  - Case: the aggregate root owning all four sub-collections plus the cache
  - Pricing/Tax: the quote and its tax lines
  - Participant/CommissionRule: who works the case and how they are paid
  - Installment: one scheduled payment within the case's payment plan
  - IncurredCost: an expense charged against the case
  - TotalsCache: the derived financial summary

DESIGN PRINCIPLES:
  1. Derived, never patched: the cache is a pure function of the four
     sub-collections plus the clock. It is rebuilt wholesale on every
     mutation, never incrementally adjusted.
  2. Precision: uses decimal.Decimal to avoid floating-point errors.
  3. Closed enums: status and rule types are typed constants so a new
     variant is an exhaustive, compile-checked change.
  4. Replacement semantics: callers submit the full new sub-collection,
     not a delta.

SEE ALSO:
  - totals.go: the cache builder
  - service.go: the mutation entry points
  - errors.go: validation/conflict/not-found errors
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CASE - Aggregate root
// =============================================================================

// Case is the aggregate root. It owns its sub-collections by composition:
// they are created empty with the case and destroyed with it.
//
// Version implements optimistic concurrency: every successful save bumps it,
// and a save conditioned on a stale version fails with ErrConflict.
type Case struct {
	ID            string
	Pricing       Pricing
	Participants  []Participant
	Installments  []Installment
	IncurredCosts []IncurredCost
	Totals        TotalsCache
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// =============================================================================
// PRICING - The quote and its tax lines
// =============================================================================

type TaxMode string

const (
	TaxPercent TaxMode = "percent"
	TaxFixed   TaxMode = "fixed"
)

type TaxScope string

const (
	// TaxOnBase applies a percent tax to the quote's base amount only.
	TaxOnBase TaxScope = "on_base"
	// TaxOnBasePlusIncidentals applies a percent tax to the base amount
	// plus the incurred-cost total.
	TaxOnBasePlusIncidentals TaxScope = "on_base_plus_incidentals"
)

// Tax is one tax line on a pricing quote.
type Tax struct {
	Name  string
	Mode  TaxMode
	Value decimal.Decimal // percent points for TaxPercent, amount for TaxFixed
	Scope TaxScope
}

// Pricing is the case's quote. Discounts may be negative or positive and is
// always interpreted as a reduction of the base.
type Pricing struct {
	BaseAmount decimal.Decimal
	Discounts  decimal.Decimal
	AddOns     decimal.Decimal
	Taxes      []Tax
}

// PreTaxBase returns baseAmount - discounts + addOns, floored at zero.
// A quote that nets negative is rejected by validation before any
// calculator runs; the floor here is only a guard.
func (p Pricing) PreTaxBase() decimal.Decimal {
	base := p.BaseAmount.Sub(p.Discounts).Add(p.AddOns)
	if base.IsNegative() {
		return decimal.Zero
	}
	return base
}

// =============================================================================
// PARTICIPANT - Employee assigned to a case with a commission rule
// =============================================================================

type CommissionType string

const (
	// PercentOfGross pays a percentage of the pre-tax net base.
	PercentOfGross CommissionType = "percent_of_gross"
	// PercentOfNet pays a percentage of net base minus tax and incurred costs.
	PercentOfNet CommissionType = "percent_of_net"
	// FlatCommission pays a fixed amount regardless of case figures.
	FlatCommission CommissionType = "flat"
)

// EligibleOn says when a commission becomes payable. It is metadata for the
// settlement collaborator and never affects the computed amount.
type EligibleOn string

const (
	AtClosure EligibleOn = "at_closure"
	OnPayment EligibleOn = "on_payment"
)

// CommissionRule describes how a participant's commission is computed.
// Floor raises the raw amount; Cap lowers it. Floor is applied before Cap
// so a floor can never push the result back above the cap.
type CommissionRule struct {
	Type        CommissionType
	Value       decimal.Decimal
	CapAmount   *decimal.Decimal
	FloorAmount *decimal.Decimal
	EligibleOn  EligibleOn
}

// Participant links an employee (by reference, not owned) to a case.
type Participant struct {
	EmployeeID string
	Role       string
	Commission CommissionRule
}

// =============================================================================
// INSTALLMENT - One scheduled payment in the case's payment plan
// =============================================================================

type InstallmentStatus string

const (
	StatusPaid          InstallmentStatus = "paid"
	StatusPartiallyPaid InstallmentStatus = "partially_paid"
	StatusOverdue       InstallmentStatus = "overdue"
	StatusDue           InstallmentStatus = "due"
	StatusPlanned       InstallmentStatus = "planned"
)

// Installment is one row of the payment schedule. Seq is a positive integer
// unique within a case. Status is derived by the scheduler, never set by
// callers. Invariant: PaidAmount <= Amount.
type Installment struct {
	Seq        int
	DueDate    time.Time
	Amount     decimal.Decimal
	PaidAmount decimal.Decimal
	Status     InstallmentStatus
	Notes      string
}

// =============================================================================
// INCURRED COST - An expense charged against the case
// =============================================================================

// IncurredCost is an immutable fact once recorded; edits happen by
// replacing the full list, same as every other sub-collection.
type IncurredCost struct {
	Date        time.Time
	Category    string
	Description string
	Amount      decimal.Decimal
}

// =============================================================================
// TOTALS CACHE - Derived summary, never independently mutated
// =============================================================================

// TotalsCache is the case's financial summary. At any observation point it
// equals BuildTotals over the current sub-collections and clock; it is
// persisted together with the mutation that invalidated it, as one unit.
//
// NetFinal may be negative: a loss-making case is valid data, not an error.
type TotalsCache struct {
	Scheduled         decimal.Decimal
	Paid              decimal.Decimal
	Outstanding       decimal.Decimal
	TaxComputed       decimal.Decimal
	IncurredCostTotal decimal.Decimal
	CommissionTotal   decimal.Decimal
	NetFinal          decimal.Decimal
	NextDueDate       *time.Time
	OverdueCount      int
}

// =============================================================================
// MONEY HELPERS
// =============================================================================

// minorUnitPlaces is the currency's minor unit (cents).
const minorUnitPlaces = 2

// roundMoney rounds to the currency's minor unit, half up. Applied once at
// the end of each aggregate sum, not per line, to avoid compounding
// rounding error.
func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(minorUnitPlaces)
}

// percentOf returns value/100 * base without intermediate rounding.
func percentOf(value, base decimal.Decimal) decimal.Decimal {
	return value.Mul(base).Div(decimal.NewFromInt(100))
}

// MustDecimal parses a decimal literal, panicking on malformed input.
// Intended for constants and tests.
func MustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
