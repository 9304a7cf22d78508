/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY ENCODING:
  All money fields travel as decimal strings ("1234.50"), never as JSON
  floats, so no precision is lost crossing the wire. Malformed decimals are
  a 400 at the parse step.

SEE ALSO:
  - handlers.go: Uses these types
  - ledger/types.go: Domain model these map onto
*/
package api

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iconic-inc/cube-erp-sub000/ledger"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// CaseDTO is a full case, cache included, as returned by every endpoint.
type CaseDTO struct {
	ID            string            `json:"id"`
	Pricing       PricingDTO        `json:"pricing"`
	Participants  []ParticipantDTO  `json:"participants"`
	Installments  []InstallmentDTO  `json:"installments"`
	IncurredCosts []IncurredCostDTO `json:"incurred_costs"`
	Totals        TotalsDTO         `json:"totals"`
	Version       int64             `json:"version"`
	CreatedAt     string            `json:"created_at"`
	UpdatedAt     string            `json:"updated_at"`
}

type PricingDTO struct {
	BaseAmount string   `json:"base_amount"`
	Discounts  string   `json:"discounts"`
	AddOns     string   `json:"add_ons"`
	Taxes      []TaxDTO `json:"taxes"`
}

type TaxDTO struct {
	Name  string `json:"name"`
	Mode  string `json:"mode"`
	Value string `json:"value"`
	Scope string `json:"scope"`
}

type ParticipantDTO struct {
	EmployeeID string        `json:"employee_id"`
	Role       string        `json:"role"`
	Commission CommissionDTO `json:"commission"`
}

type CommissionDTO struct {
	Type        string  `json:"type"`
	Value       string  `json:"value"`
	CapAmount   *string `json:"cap_amount,omitempty"`
	FloorAmount *string `json:"floor_amount,omitempty"`
	EligibleOn  string  `json:"eligible_on"`
}

type InstallmentDTO struct {
	Seq        int    `json:"seq"`
	DueDate    string `json:"due_date"`
	Amount     string `json:"amount"`
	PaidAmount string `json:"paid_amount"`
	Status     string `json:"status,omitempty"` // derived, ignored on input
	Notes      string `json:"notes,omitempty"`
}

type IncurredCostDTO struct {
	Date        string `json:"date"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	Amount      string `json:"amount"`
}

type TotalsDTO struct {
	Scheduled         string  `json:"scheduled"`
	Paid              string  `json:"paid"`
	Outstanding       string  `json:"outstanding"`
	TaxComputed       string  `json:"tax_computed"`
	IncurredCostTotal string  `json:"incurred_cost_total"`
	CommissionTotal   string  `json:"commission_total"`
	NetFinal          string  `json:"net_final"`
	NextDueDate       *string `json:"next_due_date,omitempty"`
	OverdueCount      int     `json:"overdue_count"`
}

// CreateCaseRequest opens a case with its initial quote.
type CreateCaseRequest struct {
	ID      string     `json:"id"`
	Pricing PricingDTO `json:"pricing"`
}

// UpdateParticipantsRequest replaces the full participant list.
type UpdateParticipantsRequest struct {
	Participants []ParticipantDTO `json:"participants"`
}

// UpdateInstallmentsRequest replaces the full payment schedule.
type UpdateInstallmentsRequest struct {
	Installments []InstallmentDTO `json:"installments"`
}

// UpdateIncurredCostsRequest replaces the full incurred-cost list.
type UpdateIncurredCostsRequest struct {
	Costs []IncurredCostDTO `json:"costs"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS - domain -> DTO
// =============================================================================

func toCaseDTO(c *ledger.Case) CaseDTO {
	dto := CaseDTO{
		ID:            c.ID,
		Pricing:       toPricingDTO(c.Pricing),
		Participants:  make([]ParticipantDTO, len(c.Participants)),
		Installments:  make([]InstallmentDTO, len(c.Installments)),
		IncurredCosts: make([]IncurredCostDTO, len(c.IncurredCosts)),
		Totals:        toTotalsDTO(c.Totals),
		Version:       c.Version,
		CreatedAt:     c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     c.UpdatedAt.Format(time.RFC3339),
	}
	for i, p := range c.Participants {
		dto.Participants[i] = toParticipantDTO(p)
	}
	for i, inst := range c.Installments {
		dto.Installments[i] = InstallmentDTO{
			Seq:        inst.Seq,
			DueDate:    inst.DueDate.Format(time.RFC3339),
			Amount:     inst.Amount.String(),
			PaidAmount: inst.PaidAmount.String(),
			Status:     string(inst.Status),
			Notes:      inst.Notes,
		}
	}
	for i, cost := range c.IncurredCosts {
		dto.IncurredCosts[i] = IncurredCostDTO{
			Date:        cost.Date.Format(time.RFC3339),
			Category:    cost.Category,
			Description: cost.Description,
			Amount:      cost.Amount.String(),
		}
	}
	return dto
}

func toPricingDTO(p ledger.Pricing) PricingDTO {
	dto := PricingDTO{
		BaseAmount: p.BaseAmount.String(),
		Discounts:  p.Discounts.String(),
		AddOns:     p.AddOns.String(),
		Taxes:      make([]TaxDTO, len(p.Taxes)),
	}
	for i, tax := range p.Taxes {
		dto.Taxes[i] = TaxDTO{
			Name:  tax.Name,
			Mode:  string(tax.Mode),
			Value: tax.Value.String(),
			Scope: string(tax.Scope),
		}
	}
	return dto
}

func toParticipantDTO(p ledger.Participant) ParticipantDTO {
	dto := ParticipantDTO{
		EmployeeID: p.EmployeeID,
		Role:       p.Role,
		Commission: CommissionDTO{
			Type:       string(p.Commission.Type),
			Value:      p.Commission.Value.String(),
			EligibleOn: string(p.Commission.EligibleOn),
		},
	}
	if p.Commission.CapAmount != nil {
		s := p.Commission.CapAmount.String()
		dto.Commission.CapAmount = &s
	}
	if p.Commission.FloorAmount != nil {
		s := p.Commission.FloorAmount.String()
		dto.Commission.FloorAmount = &s
	}
	return dto
}

func toTotalsDTO(t ledger.TotalsCache) TotalsDTO {
	dto := TotalsDTO{
		Scheduled:         t.Scheduled.String(),
		Paid:              t.Paid.String(),
		Outstanding:       t.Outstanding.String(),
		TaxComputed:       t.TaxComputed.String(),
		IncurredCostTotal: t.IncurredCostTotal.String(),
		CommissionTotal:   t.CommissionTotal.String(),
		NetFinal:          t.NetFinal.String(),
		OverdueCount:      t.OverdueCount,
	}
	if t.NextDueDate != nil {
		s := t.NextDueDate.Format(time.RFC3339)
		dto.NextDueDate = &s
	}
	return dto
}

// =============================================================================
// CONVERSION HELPERS - DTO -> domain
// =============================================================================

func parsePricing(dto PricingDTO) (ledger.Pricing, error) {
	var p ledger.Pricing
	var err error

	if p.BaseAmount, err = parseMoney("pricing.base_amount", dto.BaseAmount); err != nil {
		return p, err
	}
	if p.Discounts, err = parseMoney("pricing.discounts", dto.Discounts); err != nil {
		return p, err
	}
	if p.AddOns, err = parseMoney("pricing.add_ons", dto.AddOns); err != nil {
		return p, err
	}

	p.Taxes = make([]ledger.Tax, len(dto.Taxes))
	for i, tax := range dto.Taxes {
		value, err := parseMoney(fmt.Sprintf("pricing.taxes[%d].value", i), tax.Value)
		if err != nil {
			return p, err
		}
		p.Taxes[i] = ledger.Tax{
			Name:  tax.Name,
			Mode:  ledger.TaxMode(tax.Mode),
			Value: value,
			Scope: ledger.TaxScope(tax.Scope),
		}
	}
	return p, nil
}

func parseParticipants(dtos []ParticipantDTO) ([]ledger.Participant, error) {
	participants := make([]ledger.Participant, len(dtos))
	for i, dto := range dtos {
		value, err := parseMoney(fmt.Sprintf("participants[%d].commission.value", i), dto.Commission.Value)
		if err != nil {
			return nil, err
		}
		rule := ledger.CommissionRule{
			Type:       ledger.CommissionType(dto.Commission.Type),
			Value:      value,
			EligibleOn: ledger.EligibleOn(dto.Commission.EligibleOn),
		}
		if dto.Commission.CapAmount != nil {
			capAmount, err := parseMoney(fmt.Sprintf("participants[%d].commission.cap_amount", i), *dto.Commission.CapAmount)
			if err != nil {
				return nil, err
			}
			rule.CapAmount = &capAmount
		}
		if dto.Commission.FloorAmount != nil {
			floorAmount, err := parseMoney(fmt.Sprintf("participants[%d].commission.floor_amount", i), *dto.Commission.FloorAmount)
			if err != nil {
				return nil, err
			}
			rule.FloorAmount = &floorAmount
		}
		participants[i] = ledger.Participant{
			EmployeeID: dto.EmployeeID,
			Role:       dto.Role,
			Commission: rule,
		}
	}
	return participants, nil
}

func parseInstallments(dtos []InstallmentDTO) ([]ledger.Installment, error) {
	installments := make([]ledger.Installment, len(dtos))
	for i, dto := range dtos {
		dueDate, err := parseDate(fmt.Sprintf("installments[%d].due_date", i), dto.DueDate)
		if err != nil {
			return nil, err
		}
		amount, err := parseMoney(fmt.Sprintf("installments[%d].amount", i), dto.Amount)
		if err != nil {
			return nil, err
		}
		paid, err := parseMoney(fmt.Sprintf("installments[%d].paid_amount", i), dto.PaidAmount)
		if err != nil {
			return nil, err
		}
		installments[i] = ledger.Installment{
			Seq:        dto.Seq,
			DueDate:    dueDate,
			Amount:     amount,
			PaidAmount: paid,
			Notes:      dto.Notes,
		}
	}
	return installments, nil
}

func parseIncurredCosts(dtos []IncurredCostDTO) ([]ledger.IncurredCost, error) {
	costs := make([]ledger.IncurredCost, len(dtos))
	for i, dto := range dtos {
		date, err := parseDate(fmt.Sprintf("costs[%d].date", i), dto.Date)
		if err != nil {
			return nil, err
		}
		amount, err := parseMoney(fmt.Sprintf("costs[%d].amount", i), dto.Amount)
		if err != nil {
			return nil, err
		}
		costs[i] = ledger.IncurredCost{
			Date:        date,
			Category:    dto.Category,
			Description: dto.Description,
			Amount:      amount,
		}
	}
	return costs, nil
}

func parseMoney(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: invalid decimal %q", field, s)
	}
	return d, nil
}

func parseDate(field, s string) (time.Time, error) {
	// Accept full timestamps and bare dates.
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%s: invalid date %q", field, s)
}
