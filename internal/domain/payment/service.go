package payment

import "context"

type PaymentService interface {
	// Record applies a status transition to the payment of a final payroll.
	// A succeeded payment locks the payroll.
	Record(ctx context.Context, req RecordRequest) (PaymentResponse, error)

	AttachProof(ctx context.Context, req AttachProofRequest) (PaymentResponse, error)
}
