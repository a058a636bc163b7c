package payroll

import (
	"context"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/period"
)

// PayrollRepository loads payrolls together with their components.
type PayrollRepository interface {
	// LockEmployeePeriod serializes composers of one (employee, period)
	// until the surrounding transaction ends.
	LockEmployeePeriod(ctx context.Context, employeeID string, p period.Period) error

	GetByEmployeePeriod(ctx context.Context, employeeID string, p period.Period) (Payroll, error)
	GetByID(ctx context.Context, id string) (Payroll, error)
	// GetByIDForUpdate row-locks the payroll until the transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (Payroll, error)
	ListByPeriod(ctx context.Context, p period.Period) ([]Payroll, error)

	// UpsertDraft writes the header keyed by (employee, period) and keeps
	// the existing id. Components are not touched.
	UpsertDraft(ctx context.Context, p Payroll) (Payroll, error)
	// ReplaceComponents deletes the payroll's components and inserts cs.
	ReplaceComponents(ctx context.Context, payrollID string, cs []SalaryComponent) error

	UpdateStatus(ctx context.Context, id string, status Status, finalizedBy *string, at time.Time) (Payroll, error)
}
