/*
totals.go - Totals cache builder

PURPOSE:
  Merges the four calculators into one consistent summary. This is the
  single place the cache is produced; nothing in the system patches a cache
  field incrementally, which removes the whole class of "cache drifted from
  source data" bugs.

EXECUTION ORDER:
  1. SumIncurredCosts        (feeds the incidentals-scoped tax base)
  2. CalculatePricing        -> netBase, taxComputed
  3. ScheduleInstallments    -> scheduled/paid/outstanding, statuses
  4. CalculateCommissions    -> commissionTotal
  5. netFinal = netBase - taxComputed - incurredCostTotal - commissionTotal

PROPERTIES:
  - Total: given validated inputs there is no error path.
  - Idempotent: identical sub-collections and identical now yield
    bit-identical output.
  - netFinal may be negative and is surfaced as-is, never clamped.
*/
package ledger

import "time"

// BuildResult carries the rebuilt cache together with the installments
// whose statuses were derived during the build.
type BuildResult struct {
	Totals       TotalsCache
	Installments []Installment
	Commissions  []ParticipantCommission
}

// BuildTotals recomputes the full totals cache from the four
// sub-collections and the supplied clock reading. Inputs must already be
// validated; the function is total over its valid domain.
func BuildTotals(pricing Pricing, participants []Participant, installments []Installment,
	costs []IncurredCost, now time.Time, dueSoonWindow time.Duration) BuildResult {

	costTotal := SumIncurredCosts(costs)
	priced := CalculatePricing(pricing, costTotal)
	schedule := ScheduleInstallments(installments, now, dueSoonWindow)
	commissions := CalculateCommissions(participants, priced.NetBase, priced.TaxComputed, costTotal)

	netFinal := priced.NetBase.
		Sub(priced.TaxComputed).
		Sub(costTotal).
		Sub(commissions.Total)

	return BuildResult{
		Totals: TotalsCache{
			Scheduled:         schedule.Scheduled,
			Paid:              schedule.Paid,
			Outstanding:       schedule.Outstanding,
			TaxComputed:       priced.TaxComputed,
			IncurredCostTotal: costTotal,
			CommissionTotal:   commissions.Total,
			NetFinal:          netFinal,
			NextDueDate:       schedule.NextDueDate,
			OverdueCount:      schedule.OverdueCount,
		},
		Installments: schedule.Installments,
		Commissions:  commissions.Participants,
	}
}
