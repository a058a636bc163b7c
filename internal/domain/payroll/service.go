package payroll

import (
	"context"
	"io"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/period"
)

type PayrollService interface {
	// Compose derives the payroll of an employee from the reconciled
	// aggregate and replaces any previous draft with it.
	Compose(ctx context.Context, req ComposeRequest) (PayrollResponse, error)

	// Finalize moves a draft payroll to final.
	Finalize(ctx context.Context, req FinalizeRequest) (PayrollResponse, error)

	Get(ctx context.Context, id string) (PayrollResponse, error)
	ListByPeriod(ctx context.Context, p period.Period) ([]PayrollResponse, error)

	// ExportRegister writes the period's payroll register as an XLSX workbook.
	ExportRegister(ctx context.Context, p period.Period, w io.Writer) error
}
