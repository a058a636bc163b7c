package reconciliation

import (
	"context"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/period"
)

type ReconciliationService interface {
	// Reconcile builds and upserts one aggregate per active employee in
	// employeeIDs, or in the whole active directory when employeeIDs is
	// empty. Per-employee failures are reported in the result.
	Reconcile(ctx context.Context, p period.Period, employeeIDs []string) (BatchResult, error)

	GetAggregate(ctx context.Context, employeeID string, p period.Period) (MonthlyAggregate, error)
	ListAggregates(ctx context.Context, p period.Period) ([]MonthlyAggregate, error)
}
