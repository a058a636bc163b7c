package reconciliation

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
)

type ReconcileRequest struct {
	Period      string   `json:"period" validate:"required,period"`
	EmployeeIDs []string `json:"employee_ids,omitempty" validate:"omitempty,dive,uuid"` // Empty = all active employees
}

func (r *ReconcileRequest) Validate() error {
	return validator.Struct(r)
}

type AggregateResponse struct {
	ID                   string `json:"id"`
	EmployeeID           string `json:"employee_id"`
	Period               string `json:"period"`
	PresentDays          int    `json:"present_days"`
	PermittedAbsenceDays int    `json:"permitted_absence_days"`
	SickDays             int    `json:"sick_days"`
	OnLeaveDays          int    `json:"on_leave_days"`
	UnexcusedAbsenceDays int    `json:"unexcused_absence_days"`
	RecordedDays         int    `json:"recorded_days"`
	WorkedMinutes        int    `json:"worked_minutes"`

	LeaveBreakdown LeaveBreakdownResponse `json:"leave_breakdown"`

	CodingSessions    int    `json:"coding_sessions"`
	NonCodingSessions int    `json:"non_coding_sessions"`
	CodingAmount      string `json:"coding_amount"`
	NonCodingAmount   string `json:"non_coding_amount"`
	Subtotal          string `json:"subtotal"`
	UpdatedAt         string `json:"updated_at"`
}

type LeaveBreakdownResponse struct {
	Leave      int `json:"leave"`
	Permission int `json:"permission"`
	Sick       int `json:"sick"`
}

func NewAggregateResponse(a MonthlyAggregate) AggregateResponse {
	resp := AggregateResponse{
		ID:                   a.ID,
		EmployeeID:           a.EmployeeID,
		Period:               a.Period.String(),
		PresentDays:          a.PresentDays,
		PermittedAbsenceDays: a.PermittedAbsenceDays,
		SickDays:             a.SickDays,
		OnLeaveDays:          a.OnLeaveDays,
		UnexcusedAbsenceDays: a.UnexcusedAbsenceDays,
		RecordedDays:         a.RecordedDays,
		WorkedMinutes:        a.WorkedMinutes,
		CodingSessions:       a.CodingSessions,
		NonCodingSessions:    a.NonCodingSessions,
		CodingAmount:         a.CodingAmount.StringFixed(2),
		NonCodingAmount:      a.NonCodingAmount.StringFixed(2),
		Subtotal:             a.Subtotal.StringFixed(2),
		UpdatedAt:            a.UpdatedAt.UTC().Format(time.RFC3339),
	}
	resp.LeaveBreakdown = LeaveBreakdownResponse{
		Leave:      a.LeaveDays,
		Permission: a.PermissionDays,
		Sick:       a.SickLeaveDays,
	}
	return resp
}

type FailureResponse struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
	Retryable  bool   `json:"retryable"`
}

type BatchResponse struct {
	Period         string              `json:"period"`
	SucceededCount int                 `json:"succeeded_count"`
	FailedCount    int                 `json:"failed_count"`
	Succeeded      []AggregateResponse `json:"succeeded"`
	Failed         []FailureResponse   `json:"failed"`
	Skipped        []string            `json:"skipped"`
}

func NewBatchResponse(r BatchResult) BatchResponse {
	resp := BatchResponse{
		Period:         r.Period.String(),
		SucceededCount: len(r.Succeeded),
		FailedCount:    len(r.Failed),
		Succeeded:      make([]AggregateResponse, 0, len(r.Succeeded)),
		Failed:         make([]FailureResponse, 0, len(r.Failed)),
		Skipped:        r.Skipped,
	}
	if resp.Skipped == nil {
		resp.Skipped = []string{}
	}
	for _, a := range r.Succeeded {
		resp.Succeeded = append(resp.Succeeded, NewAggregateResponse(a))
	}
	for _, f := range r.Failed {
		resp.Failed = append(resp.Failed, FailureResponse{EmployeeID: f.EmployeeID, Reason: f.Reason, Retryable: f.Retryable})
	}
	return resp
}
