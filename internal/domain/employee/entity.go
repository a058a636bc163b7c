package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is owned by the HR directory and read-only here.
type Employee struct {
	ID           string
	EmployeeCode string
	FullName     string
	Category     string
	SalaryType   SalaryType
	BaseSalary   decimal.Decimal

	// DailyDeductionRate overrides the derived per-day deduction rate.
	DailyDeductionRate *decimal.Decimal

	SiteID    *string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

type SalaryType string

const (
	SalaryTypeFixed        SalaryType = "fixed"
	SalaryTypeSessionBased SalaryType = "session-based"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (e Employee) IsActive() bool {
	return e.Status == StatusActive
}
