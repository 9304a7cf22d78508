/*
validate.go - Sub-collection validation

PURPOSE:
  Every mutation entry point validates its replacement sub-collection in
  full before anything is written. A failed validation rejects the entire
  mutation; partial application of a replacement is not permitted.

CHECKED INVARIANTS:
  Pricing:       baseAmount >= 0, addOns >= 0, pre-tax base >= 0, tax
                 value >= 0, known tax mode/scope
  Participants:  commission value >= 0, known type/eligibility, cap/floor
                 non-negative when present
  Installments:  seq > 0 and unique, amount >= 0, 0 <= paidAmount <= amount
  IncurredCosts: amount >= 0

  Enum checks exist because sub-collections arrive from untyped edges
  (JSON, DB rows); inside the package the constants are the closed set.
*/
package ledger

// ValidatePricing checks a pricing quote.
func ValidatePricing(p Pricing) error {
	if p.BaseAmount.IsNegative() {
		return newValidationError("pricing.baseAmount", -1, "must not be negative, got %s", p.BaseAmount)
	}
	if p.AddOns.IsNegative() {
		return newValidationError("pricing.addOns", -1, "must not be negative, got %s", p.AddOns)
	}
	if p.BaseAmount.Sub(p.Discounts).Add(p.AddOns).IsNegative() {
		return newValidationError("pricing.discounts", -1,
			"quote nets negative: base %s - discounts %s + addOns %s", p.BaseAmount, p.Discounts, p.AddOns)
	}
	for i, tax := range p.Taxes {
		if tax.Value.IsNegative() {
			return newValidationError("pricing.taxes", i, "value must not be negative, got %s", tax.Value)
		}
		switch tax.Mode {
		case TaxPercent, TaxFixed:
		default:
			return newValidationError("pricing.taxes", i, "unknown tax mode %q", tax.Mode)
		}
		switch tax.Scope {
		case TaxOnBase, TaxOnBasePlusIncidentals:
		default:
			return newValidationError("pricing.taxes", i, "unknown tax scope %q", tax.Scope)
		}
	}
	return nil
}

// ValidateParticipants checks a participant list.
func ValidateParticipants(participants []Participant) error {
	for i, p := range participants {
		if p.EmployeeID == "" {
			return newValidationError("participants", i, "employeeId is required")
		}
		rule := p.Commission
		if rule.Value.IsNegative() {
			return newValidationError("participants", i, "commission value must not be negative, got %s", rule.Value)
		}
		switch rule.Type {
		case PercentOfGross, PercentOfNet, FlatCommission:
		default:
			return newValidationError("participants", i, "unknown commission type %q", rule.Type)
		}
		switch rule.EligibleOn {
		case AtClosure, OnPayment:
		default:
			return newValidationError("participants", i, "unknown eligibleOn %q", rule.EligibleOn)
		}
		if rule.CapAmount != nil && rule.CapAmount.IsNegative() {
			return newValidationError("participants", i, "capAmount must not be negative, got %s", rule.CapAmount)
		}
		if rule.FloorAmount != nil && rule.FloorAmount.IsNegative() {
			return newValidationError("participants", i, "floorAmount must not be negative, got %s", rule.FloorAmount)
		}
	}
	return nil
}

// ValidateInstallments checks a payment schedule.
func ValidateInstallments(installments []Installment) error {
	seen := make(map[int]int, len(installments))
	for i, inst := range installments {
		if inst.Seq <= 0 {
			return newValidationError("installments", i, "seq must be a positive integer, got %d", inst.Seq)
		}
		if first, ok := seen[inst.Seq]; ok {
			return &DuplicateSeqError{Seq: inst.Seq, FirstIndex: first, DupIndex: i}
		}
		seen[inst.Seq] = i
		if inst.Amount.IsNegative() {
			return newValidationError("installments", i, "amount must not be negative, got %s", inst.Amount)
		}
		if inst.PaidAmount.IsNegative() {
			return newValidationError("installments", i, "paidAmount must not be negative, got %s", inst.PaidAmount)
		}
		if inst.PaidAmount.GreaterThan(inst.Amount) {
			return newValidationError("installments", i, "paidAmount %s exceeds amount %s", inst.PaidAmount, inst.Amount)
		}
	}
	return nil
}

// ValidateIncurredCosts checks an incurred-cost list.
func ValidateIncurredCosts(costs []IncurredCost) error {
	for i, c := range costs {
		if c.Amount.IsNegative() {
			return newValidationError("incurredCosts", i, "amount must not be negative, got %s", c.Amount)
		}
		if c.Category == "" {
			return newValidationError("incurredCosts", i, "category is required")
		}
	}
	return nil
}
