package leave

import (
	"context"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/period"
)

type LeaveService interface {
	Submit(ctx context.Context, req SubmitRequest) (LeaveRequestResponse, error)

	// Review approves or rejects a pending request once. Approval projects
	// the request onto the employee's attendance day.
	Review(ctx context.Context, req ReviewRequest) (LeaveRequestResponse, error)
}

// Ledger is the read model the reconciler consumes.
type Ledger interface {
	ApprovedLeaveDays(ctx context.Context, employeeID string, p period.Period) (Breakdown, error)
}
