package payroll

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/period"
	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits stored for money.
const MoneyScale = 2

type Status string

const (
	StatusDraft  Status = "draft"
	StatusFinal  Status = "final"
	StatusLocked Status = "locked"
)

type ComponentKind string

const (
	KindBasePay       ComponentKind = "base-pay"
	KindSessionIncome ComponentKind = "session-income"
	KindOvertime      ComponentKind = "overtime"
	KindDeduction     ComponentKind = "deduction"
	KindBonus         ComponentKind = "bonus"
)

// ComponentKinds lists every kind in register column order.
var ComponentKinds = []ComponentKind{
	KindBasePay,
	KindSessionIncome,
	KindOvertime,
	KindBonus,
	KindDeduction,
}

// SalaryComponent is one line of a payroll. Amount is always a non-negative
// magnitude; deductions are subtracted in totals.
type SalaryComponent struct {
	ID        string
	PayrollID string
	Kind      ComponentKind
	Label     string
	Amount    decimal.Decimal
	Position  int
	CreatedAt time.Time
}

func (c SalaryComponent) SignedAmount() decimal.Decimal {
	if c.Kind == KindDeduction {
		return c.Amount.Neg()
	}
	return c.Amount
}

// SumComponents is the signed sum of components.
func SumComponents(components []SalaryComponent) decimal.Decimal {
	total := decimal.Zero
	for _, c := range components {
		total = total.Add(c.SignedAmount())
	}
	return total
}

// Payroll is the composed salary of one employee in one period. Components
// are always loaded with it.
type Payroll struct {
	ID             string
	EmployeeID     string
	Period         period.Period
	Status         Status
	WorkingDays    int
	LeaveDays      int
	DeductibleDays int
	DailyRate      decimal.Decimal
	LeaveDeduction decimal.Decimal
	Total          decimal.Decimal
	CreatedBy      string
	FinalizedBy    *string
	FinalizedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Components []SalaryComponent
}

func (p Payroll) IsDraft() bool {
	return p.Status == StatusDraft
}

// TotalMatches reports whether Total equals the signed sum of Components.
func (p Payroll) TotalMatches() bool {
	return p.Total.Equal(SumComponents(p.Components))
}

// ComponentTotal sums the magnitudes of the components of kind k.
func (p Payroll) ComponentTotal(k ComponentKind) decimal.Decimal {
	total := decimal.Zero
	for _, c := range p.Components {
		if c.Kind == k {
			total = total.Add(c.Amount)
		}
	}
	return total
}

// Adjustment is a caller supplied overtime or bonus line.
type Adjustment struct {
	Kind   ComponentKind
	Label  string
	Amount decimal.Decimal
}

// Policy holds the organisation wide composition settings.
type Policy struct {
	Calendar period.Calendar

	// SessionBasedDailyDeduction applies to session-based employees without
	// their own rate. Zero disables the deduction.
	SessionBasedDailyDeduction decimal.Decimal

	// UnpaidLeaveKinds are approved leave kinds that still count as
	// deductible days.
	UnpaidLeaveKinds []leave.Kind
}

func DefaultPolicy() Policy {
	return Policy{
		Calendar:                   period.DefaultCalendar(),
		SessionBasedDailyDeduction: decimal.Zero,
	}
}
