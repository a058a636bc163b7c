package session

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
)

type SubmitRealizationRequest struct {
	EmployeeID string `json:"employee_id" validate:"required,uuid"`
	SessionID  string `json:"session_id" validate:"required,uuid"`
	Date       string `json:"date" validate:"required,date"`
	Origin     Origin `json:"origin" validate:"required,oneof=manual self-reported"`
}

func (r *SubmitRealizationRequest) Validate() error {
	return validator.Struct(r)
}

type ReviewRequest struct {
	ID         string `json:"-" validate:"required"`
	ReviewerID string `json:"-" validate:"required"`
	Action     string `json:"action" validate:"required,oneof=approve reject"`
}

func (r *ReviewRequest) Validate() error {
	return validator.Struct(r)
}

type RealizationResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	SessionID  string  `json:"session_id"`
	Date       string  `json:"date"`
	Status     string  `json:"status"`
	Origin     string  `json:"origin"`
	Rate       *string `json:"rate,omitempty"`
	ReviewedBy *string `json:"reviewed_by,omitempty"`
	ReviewedAt *string `json:"reviewed_at,omitempty"`
}

func NewRealizationResponse(r Realization) RealizationResponse {
	resp := RealizationResponse{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		SessionID:  r.SessionID,
		Date:       r.Date.Format("2006-01-02"),
		Status:     string(r.Status),
		Origin:     string(r.Origin),
		ReviewedBy: r.ReviewedBy,
	}
	if r.Rate != nil {
		s := r.Rate.StringFixed(2)
		resp.Rate = &s
	}
	if r.ReviewedAt != nil {
		s := r.ReviewedAt.UTC().Format(time.RFC3339)
		resp.ReviewedAt = &s
	}
	return resp
}
