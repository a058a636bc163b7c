package leave

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
)

type SubmitRequest struct {
	EmployeeID string  `json:"employee_id" validate:"required,uuid"`
	Date       string  `json:"date" validate:"required,date"`
	Kind       Kind    `json:"kind" validate:"required,oneof=leave permission sick"`
	Reason     *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

func (r *SubmitRequest) Validate() error {
	return validator.Struct(r)
}

type ReviewRequest struct {
	ID              string  `json:"-" validate:"required"`
	ReviewerID      string  `json:"-" validate:"required"`
	Action          string  `json:"action" validate:"required,oneof=approve reject"`
	RejectionReason *string `json:"rejection_reason,omitempty" validate:"omitempty,max=500"`
}

func (r *ReviewRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	if r.Action == "reject" && (r.RejectionReason == nil || validator.IsEmpty(*r.RejectionReason)) {
		return ErrRejectionReasonRequired
	}
	return nil
}

type LeaveRequestResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	Date            string  `json:"date"`
	Kind            string  `json:"kind"`
	Reason          *string `json:"reason,omitempty"`
	Status          string  `json:"status"`
	ApprovedBy      *string `json:"approved_by,omitempty"`
	ReviewedAt      *string `json:"reviewed_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
}

func NewLeaveRequestResponse(r LeaveRequest) LeaveRequestResponse {
	var reviewedAt *string
	if r.ReviewedAt != nil {
		s := r.ReviewedAt.UTC().Format(time.RFC3339)
		reviewedAt = &s
	}
	return LeaveRequestResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		Date:            r.Date.Format("2006-01-02"),
		Kind:            string(r.Kind),
		Reason:          r.Reason,
		Status:          string(r.Status),
		ApprovedBy:      r.ApprovedBy,
		ReviewedAt:      reviewedAt,
		RejectionReason: r.RejectionReason,
	}
}
