package leave

import (
	"context"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/period"
)

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (LeaveRequest, error)
	UpdateStatus(ctx context.Context, id string, status LeaveRequestStatus, approvedBy *string, reviewedAt time.Time, rejectionReason *string) (LeaveRequest, error)
	ListApproved(ctx context.Context, employeeID string, p period.Period) ([]LeaveRequest, error)
}
