/*
pricing.go - Net base and tax computation

PURPOSE:
  Computes the pre-tax net base and the total tax amount from a pricing
  quote. Percent taxes scoped to incidentals need the incurred-cost total,
  which the caller obtains from SumIncurredCosts first; the builder in
  totals.go sequences that dependency.

ROUNDING:
  Tax is rounded to the currency's minor unit once, after summing every
  line, so per-line rounding error cannot compound.
*/
package ledger

import "github.com/shopspring/decimal"

// PricingResult is the output of CalculatePricing.
type PricingResult struct {
	// NetBase is base - discounts + addOns, before tax and costs.
	NetBase decimal.Decimal
	// TaxComputed is the sum of all tax lines, rounded half-up.
	TaxComputed decimal.Decimal
}

// CalculatePricing derives the net base and total tax for a quote.
// Inputs are assumed validated (ValidatePricing); a quote netting negative
// is floored at zero rather than propagated.
func CalculatePricing(p Pricing, incurredCostTotal decimal.Decimal) PricingResult {
	tax := decimal.Zero
	for _, line := range p.Taxes {
		switch line.Mode {
		case TaxFixed:
			tax = tax.Add(line.Value)
		case TaxPercent:
			// Percent taxes apply to the raw base amount, not the net base.
			base := p.BaseAmount
			if line.Scope == TaxOnBasePlusIncidentals {
				base = base.Add(incurredCostTotal)
			}
			tax = tax.Add(percentOf(line.Value, base))
		}
	}

	return PricingResult{
		NetBase:     p.PreTaxBase(),
		TaxComputed: roundMoney(tax),
	}
}
