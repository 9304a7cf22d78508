/*
commission.go - Participant commission computation

PURPOSE:
  Computes each participant's commission amount from the case figures and
  the participant's rule, plus the total across participants.

RULE BASES:
  PERCENT_OF_GROSS: net base (pricing net of discounts/add-ons, before tax
                    and costs)
  PERCENT_OF_NET:   net base - tax - incurred costs, floored at 0
  FLAT:             the rule value itself

  Floor is applied before cap, so a floor can never defeat a cap.
  EligibleOn never affects the amount; it only tells the settlement
  collaborator when the commission becomes payable.
*/
package ledger

import "github.com/shopspring/decimal"

// ParticipantCommission pairs a participant with their computed amount.
type ParticipantCommission struct {
	EmployeeID string
	Role       string
	Amount     decimal.Decimal
	EligibleOn EligibleOn
}

// CommissionResult is the output of CalculateCommissions.
type CommissionResult struct {
	Participants []ParticipantCommission
	// Total is the sum across participants, rounded half-up once at the end.
	Total decimal.Decimal
}

// CalculateCommissions computes every participant's commission. Inputs are
// assumed validated (ValidateParticipants).
func CalculateCommissions(participants []Participant, netBase, taxComputed, incurredCostTotal decimal.Decimal) CommissionResult {
	result := CommissionResult{
		Participants: make([]ParticipantCommission, len(participants)),
		Total:        decimal.Zero,
	}

	for i, p := range participants {
		amount := commissionAmount(p.Commission, netBase, taxComputed, incurredCostTotal)
		result.Participants[i] = ParticipantCommission{
			EmployeeID: p.EmployeeID,
			Role:       p.Role,
			Amount:     amount,
			EligibleOn: p.Commission.EligibleOn,
		}
		result.Total = result.Total.Add(amount)
	}

	result.Total = roundMoney(result.Total)
	return result
}

func commissionAmount(rule CommissionRule, netBase, taxComputed, incurredCostTotal decimal.Decimal) decimal.Decimal {
	var amount decimal.Decimal
	switch rule.Type {
	case PercentOfGross:
		amount = percentOf(rule.Value, netBase)
	case PercentOfNet:
		base := netBase.Sub(taxComputed).Sub(incurredCostTotal)
		if base.IsNegative() {
			base = decimal.Zero
		}
		amount = percentOf(rule.Value, base)
	case FlatCommission:
		amount = rule.Value
	}

	// Floor first, then cap.
	if rule.FloorAmount != nil && amount.LessThan(*rule.FloorAmount) {
		amount = *rule.FloorAmount
	}
	if rule.CapAmount != nil && amount.GreaterThan(*rule.CapAmount) {
		amount = *rule.CapAmount
	}
	return amount
}
