/*
schedule.go - Installment status derivation and schedule aggregates

PURPOSE:
  Derives each installment's status from its amounts and due date, and
  aggregates the schedule into scheduled/paid/outstanding figures plus the
  next due date and overdue count.

STATUS PRIORITY (first match wins):
  1. paidAmount >= amount            -> PAID
  2. 0 < paidAmount < amount         -> PARTIALLY_PAID
  3. dueDate < now                   -> OVERDUE
  4. dueDate within lookahead window -> DUE
  5. otherwise                       -> PLANNED

  Because payment state is checked before time, a PAID installment never
  reverts to OVERDUE purely from the clock advancing.

LOOKAHEAD:
  The DUE window is a parameter (default 3 days), not a constant: callers
  want different reminder horizons.
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultDueSoonWindow is the lookahead within which an unpaid installment
// is reported as DUE rather than PLANNED.
const DefaultDueSoonWindow = 3 * 24 * time.Hour

// ScheduleResult is the output of ScheduleInstallments.
type ScheduleResult struct {
	// Installments is the input list with Status populated. Order preserved.
	Installments []Installment

	Scheduled    decimal.Decimal
	Paid         decimal.Decimal
	Outstanding  decimal.Decimal
	NextDueDate  *time.Time // earliest due date among non-PAID rows, nil if none
	OverdueCount int
}

// ScheduleInstallments derives statuses and aggregates for a payment
// schedule. Inputs are assumed validated (ValidateInstallments), which
// guarantees unique seq values and paidAmount <= amount; the latter keeps
// Outstanding non-negative.
func ScheduleInstallments(installments []Installment, now time.Time, dueSoonWindow time.Duration) ScheduleResult {
	if dueSoonWindow <= 0 {
		dueSoonWindow = DefaultDueSoonWindow
	}

	result := ScheduleResult{
		Installments: make([]Installment, len(installments)),
		Scheduled:    decimal.Zero,
		Paid:         decimal.Zero,
	}

	for i, inst := range installments {
		inst.Status = deriveStatus(inst, now, dueSoonWindow)
		result.Installments[i] = inst

		result.Scheduled = result.Scheduled.Add(inst.Amount)
		result.Paid = result.Paid.Add(inst.PaidAmount)

		if inst.Status == StatusOverdue {
			result.OverdueCount++
		}
		if inst.Status != StatusPaid {
			if result.NextDueDate == nil || inst.DueDate.Before(*result.NextDueDate) {
				due := inst.DueDate
				result.NextDueDate = &due
			}
		}
	}

	result.Outstanding = result.Scheduled.Sub(result.Paid)
	return result
}

func deriveStatus(inst Installment, now time.Time, dueSoonWindow time.Duration) InstallmentStatus {
	switch {
	case inst.PaidAmount.GreaterThanOrEqual(inst.Amount):
		return StatusPaid
	case inst.PaidAmount.IsPositive():
		return StatusPartiallyPaid
	case inst.DueDate.Before(now):
		return StatusOverdue
	case !inst.DueDate.After(now.Add(dueSoonWindow)):
		return StatusDue
	default:
		return StatusPlanned
	}
}
