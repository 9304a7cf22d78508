package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iconic-inc/cube-erp-sub000/ledger"
)

func participant(ruleType ledger.CommissionType, value int64) ledger.Participant {
	return ledger.Participant{
		EmployeeID: "emp-1",
		Role:       "attorney",
		Commission: ledger.CommissionRule{
			Type:       ruleType,
			Value:      decimal.NewFromInt(value),
			EligibleOn: ledger.AtClosure,
		},
	}
}

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// =============================================================================
// RULE BASES
// =============================================================================

func TestCalculateCommissions_PercentOfGross(t *testing.T) {
	// GIVEN: 10% of gross with netBase 1000
	// THEN:  commission 100, regardless of tax/costs

	result := ledger.CalculateCommissions(
		[]ledger.Participant{participant(ledger.PercentOfGross, 10)},
		decimal.NewFromInt(1000), decimal.NewFromInt(300), decimal.NewFromInt(300),
	)

	require.Len(t, result.Participants, 1)
	assert.True(t, result.Participants[0].Amount.Equal(decimal.NewFromInt(100)))
	assert.True(t, result.Total.Equal(decimal.NewFromInt(100)))
}

func TestCalculateCommissions_PercentOfNet(t *testing.T) {
	// GIVEN: netBase 1000, tax 100, costs 100, rule 10% of net
	// THEN:  base 800, commission 80

	result := ledger.CalculateCommissions(
		[]ledger.Participant{participant(ledger.PercentOfNet, 10)},
		decimal.NewFromInt(1000), decimal.NewFromInt(100), decimal.NewFromInt(100),
	)

	require.Len(t, result.Participants, 1)
	assert.True(t, result.Participants[0].Amount.Equal(decimal.NewFromInt(80)),
		"commission should be 80, got %s", result.Participants[0].Amount)
}

func TestCalculateCommissions_PercentOfNet_FloorsNegativeBaseAtZero(t *testing.T) {
	// Tax + costs exceeding the net base must not produce a negative
	// commission.

	result := ledger.CalculateCommissions(
		[]ledger.Participant{participant(ledger.PercentOfNet, 10)},
		decimal.NewFromInt(1000), decimal.NewFromInt(800), decimal.NewFromInt(500),
	)

	assert.True(t, result.Total.IsZero())
}

func TestCalculateCommissions_Flat(t *testing.T) {
	result := ledger.CalculateCommissions(
		[]ledger.Participant{participant(ledger.FlatCommission, 500)},
		decimal.Zero, decimal.Zero, decimal.Zero,
	)

	assert.True(t, result.Total.Equal(decimal.NewFromInt(500)))
}

// =============================================================================
// FLOOR AND CAP
// =============================================================================

func TestCalculateCommissions_CapLowersFlat(t *testing.T) {
	// GIVEN: flat 500 with cap 300
	// THEN:  capped to 300

	p := participant(ledger.FlatCommission, 500)
	p.Commission.CapAmount = decPtr(300)

	result := ledger.CalculateCommissions([]ledger.Participant{p},
		decimal.Zero, decimal.Zero, decimal.Zero)

	assert.True(t, result.Total.Equal(decimal.NewFromInt(300)),
		"raw 500 should cap to 300, got %s", result.Total)
}

func TestCalculateCommissions_FloorRaises(t *testing.T) {
	p := participant(ledger.PercentOfGross, 1) // 1% of 1000 = 10
	p.Commission.FloorAmount = decPtr(50)

	result := ledger.CalculateCommissions([]ledger.Participant{p},
		decimal.NewFromInt(1000), decimal.Zero, decimal.Zero)

	assert.True(t, result.Total.Equal(decimal.NewFromInt(50)))
}

func TestCalculateCommissions_FloorAppliedBeforeCap(t *testing.T) {
	// A floor above the cap must not defeat the cap.

	p := participant(ledger.PercentOfGross, 1) // raw 10
	p.Commission.FloorAmount = decPtr(400)
	p.Commission.CapAmount = decPtr(300)

	result := ledger.CalculateCommissions([]ledger.Participant{p},
		decimal.NewFromInt(1000), decimal.Zero, decimal.Zero)

	assert.True(t, result.Total.Equal(decimal.NewFromInt(300)),
		"cap must win over floor, got %s", result.Total)
}

// =============================================================================
// TOTALS AND METADATA
// =============================================================================

func TestCalculateCommissions_SumsAcrossParticipants(t *testing.T) {
	result := ledger.CalculateCommissions(
		[]ledger.Participant{
			participant(ledger.PercentOfGross, 10), // 100
			participant(ledger.FlatCommission, 250),
		},
		decimal.NewFromInt(1000), decimal.Zero, decimal.Zero,
	)

	assert.True(t, result.Total.Equal(decimal.NewFromInt(350)))
}

func TestCalculateCommissions_RoundsTotalOnce(t *testing.T) {
	// Two participants each earning 0.125: per-line rounding would yield
	// 0.26, summing first yields 0.25.

	a := ledger.Participant{
		EmployeeID: "emp-1",
		Commission: ledger.CommissionRule{
			Type: ledger.FlatCommission, Value: ledger.MustDecimal("0.125"), EligibleOn: ledger.AtClosure,
		},
	}
	b := a
	b.EmployeeID = "emp-2"

	result := ledger.CalculateCommissions([]ledger.Participant{a, b},
		decimal.Zero, decimal.Zero, decimal.Zero)

	assert.True(t, result.Total.Equal(ledger.MustDecimal("0.25")),
		"total should round once at the end, got %s", result.Total)
}

func TestCalculateCommissions_EligibleOnPassesThrough(t *testing.T) {
	// eligibleOn is settlement metadata; it must survive untouched and
	// never change the amount.

	p := participant(ledger.FlatCommission, 100)
	p.Commission.EligibleOn = ledger.OnPayment

	result := ledger.CalculateCommissions([]ledger.Participant{p},
		decimal.Zero, decimal.Zero, decimal.Zero)

	require.Len(t, result.Participants, 1)
	assert.Equal(t, ledger.OnPayment, result.Participants[0].EligibleOn)
	assert.True(t, result.Participants[0].Amount.Equal(decimal.NewFromInt(100)))
}

func TestCalculateCommissions_Empty(t *testing.T) {
	result := ledger.CalculateCommissions(nil,
		decimal.NewFromInt(1000), decimal.Zero, decimal.Zero)

	assert.Empty(t, result.Participants)
	assert.True(t, result.Total.IsZero())
}
