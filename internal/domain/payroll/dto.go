package payroll

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payment"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type AdjustmentRequest struct {
	Kind   ComponentKind   `json:"kind" validate:"required,oneof=overtime bonus"`
	Label  string          `json:"label" validate:"required,max=100"`
	Amount decimal.Decimal `json:"amount"`
}

type ComposeRequest struct {
	EmployeeID  string              `json:"employee_id" validate:"required,uuid"`
	Period      string              `json:"period" validate:"required,period"`
	Adjustments []AdjustmentRequest `json:"adjustments,omitempty" validate:"omitempty,dive"`
	CreatedBy   string              `json:"-"`
}

func (r *ComposeRequest) Validate() error {
	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = append(errs, verrs...)
	}

	for i, a := range r.Adjustments {
		field := fmt.Sprintf("adjustments[%d].amount", i)
		if a.Amount.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be non-negative"})
		} else if !a.Amount.Equal(a.Amount.Truncate(MoneyScale)) {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must have at most 2 decimal places"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *ComposeRequest) ToAdjustments() []Adjustment {
	out := make([]Adjustment, 0, len(r.Adjustments))
	for _, a := range r.Adjustments {
		out = append(out, Adjustment{Kind: a.Kind, Label: a.Label, Amount: a.Amount})
	}
	return out
}

type FinalizeRequest struct {
	ID          string `json:"-"`
	FinalizedBy string `json:"-"`
}

type ComponentResponse struct {
	ID           string `json:"id"`
	Kind         string `json:"kind"`
	Label        string `json:"label"`
	Amount       string `json:"amount"`
	SignedAmount string `json:"signed_amount"`
}

type PayrollResponse struct {
	ID             string                   `json:"id"`
	EmployeeID     string                   `json:"employee_id"`
	Period         string                   `json:"period"`
	Status         string                   `json:"status"`
	WorkingDays    int                      `json:"working_days"`
	LeaveDays      int                      `json:"leave_days"`
	DeductibleDays int                      `json:"deductible_days"`
	DailyRate      string                   `json:"daily_rate"`
	LeaveDeduction string                   `json:"leave_deduction"`
	Total          string                   `json:"total"`
	CreatedBy      string                   `json:"created_by"`
	FinalizedBy    *string                  `json:"finalized_by,omitempty"`
	FinalizedAt    *string                  `json:"finalized_at,omitempty"`
	Components     []ComponentResponse      `json:"components"`
	Payment        *payment.PaymentResponse `json:"payment,omitempty"`
	UpdatedAt      string                   `json:"updated_at"`
}

// NewPayrollResponse renders p. pay may be nil.
func NewPayrollResponse(p Payroll, pay *payment.Payment) PayrollResponse {
	resp := PayrollResponse{
		ID:             p.ID,
		EmployeeID:     p.EmployeeID,
		Period:         p.Period.String(),
		Status:         string(p.Status),
		WorkingDays:    p.WorkingDays,
		LeaveDays:      p.LeaveDays,
		DeductibleDays: p.DeductibleDays,
		DailyRate:      p.DailyRate.StringFixed(MoneyScale),
		LeaveDeduction: p.LeaveDeduction.StringFixed(MoneyScale),
		Total:          p.Total.StringFixed(MoneyScale),
		CreatedBy:      p.CreatedBy,
		FinalizedBy:    p.FinalizedBy,
		Components:     make([]ComponentResponse, 0, len(p.Components)),
		UpdatedAt:      p.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if p.FinalizedAt != nil {
		s := p.FinalizedAt.UTC().Format(time.RFC3339)
		resp.FinalizedAt = &s
	}
	for _, c := range p.Components {
		resp.Components = append(resp.Components, ComponentResponse{
			ID:           c.ID,
			Kind:         string(c.Kind),
			Label:        c.Label,
			Amount:       c.Amount.StringFixed(MoneyScale),
			SignedAmount: c.SignedAmount().StringFixed(MoneyScale),
		})
	}
	if pay != nil {
		pr := payment.NewPaymentResponse(*pay)
		resp.Payment = &pr
	}
	return resp
}
