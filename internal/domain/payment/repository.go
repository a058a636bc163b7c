package payment

import "context"

type PaymentRepository interface {
	GetByID(ctx context.Context, id string) (Payment, error)
	GetByPayrollID(ctx context.Context, payrollID string) (Payment, error)
	// Upsert writes the payment keyed by payroll.
	Upsert(ctx context.Context, p Payment) (Payment, error)
	SetProofReference(ctx context.Context, id string, ref string) (Payment, error)
}
