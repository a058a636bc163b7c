package reconciliation

import (
	"context"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/period"
)

type AggregateRepository interface {
	// LockEmployeePeriod serializes rebuilds of one (employee, period) until
	// the surrounding transaction ends.
	LockEmployeePeriod(ctx context.Context, employeeID string, p period.Period) error
	// Upsert writes every derived field of a in one statement keyed by
	// (employee, period). UpdatedAt only moves when a value changed.
	Upsert(ctx context.Context, a MonthlyAggregate) (MonthlyAggregate, error)
	Get(ctx context.Context, employeeID string, p period.Period) (MonthlyAggregate, error)
	ListByPeriod(ctx context.Context, p period.Period) ([]MonthlyAggregate, error)
}
