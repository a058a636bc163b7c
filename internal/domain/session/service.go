package session

import (
	"context"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/period"
)

type SessionService interface {
	SubmitRealization(ctx context.Context, req SubmitRealizationRequest) (RealizationResponse, error)
	Review(ctx context.Context, req ReviewRequest) (RealizationResponse, error)
}

// Ledger is the read model the reconciler consumes.
type Ledger interface {
	ApprovedRealizations(ctx context.Context, employeeID string, p period.Period) ([]Compensable, error)
}
