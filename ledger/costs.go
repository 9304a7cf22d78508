package ledger

import "github.com/shopspring/decimal"

// SumIncurredCosts totals the incurred-cost list. Costs are immutable facts
// once recorded, so there is nothing to derive beyond the sum.
func SumIncurredCosts(costs []IncurredCost) decimal.Decimal {
	total := decimal.Zero
	for _, c := range costs {
		total = total.Add(c.Amount)
	}
	return total
}
