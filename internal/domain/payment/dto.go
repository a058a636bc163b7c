package payment

import (
	"io"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
)

type RecordRequest struct {
	PayrollID    string  `json:"-" validate:"required"`
	Status       Status  `json:"status" validate:"required,oneof=pending succeeded failed"`
	TransferDate *string `json:"transfer_date,omitempty" validate:"omitempty,date"`
	Note         *string `json:"note,omitempty" validate:"omitempty,max=500"`

	// ApproverID is set by the API layer when the caller may approve payments.
	ApproverID *string `json:"-"`
}

func (r *RecordRequest) Validate() error {
	return validator.Struct(r)
}

// Transition converts the request into a state machine input.
func (r *RecordRequest) Transition() Transition {
	t := Transition{To: r.Status, ApproverID: r.ApproverID, Note: r.Note}
	if r.TransferDate != nil {
		if d, ok := validator.IsValidDate(*r.TransferDate); ok {
			t.TransferDate = &d
		}
	}
	return t
}

type AttachProofRequest struct {
	PaymentID   string
	File        io.Reader
	Filename    string
	ContentType string
}

type PaymentResponse struct {
	ID             string  `json:"id"`
	PayrollID      string  `json:"payroll_id"`
	Status         string  `json:"status"`
	Attempt        int     `json:"attempt"`
	TransferDate   *string `json:"transfer_date,omitempty"`
	ProofReference *string `json:"proof_reference,omitempty"`
	ApprovedBy     *string `json:"approved_by,omitempty"`
	ApprovedAt     *string `json:"approved_at,omitempty"`
	Note           *string `json:"note,omitempty"`
	UpdatedAt      string  `json:"updated_at"`
}

func NewPaymentResponse(p Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:             p.ID,
		PayrollID:      p.PayrollID,
		Status:         string(p.Status),
		Attempt:        p.Attempt,
		ProofReference: p.ProofReference,
		ApprovedBy:     p.ApprovedBy,
		Note:           p.Note,
		UpdatedAt:      p.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if p.TransferDate != nil {
		s := p.TransferDate.Format("2006-01-02")
		resp.TransferDate = &s
	}
	if p.ApprovedAt != nil {
		s := p.ApprovedAt.UTC().Format(time.RFC3339)
		resp.ApprovedAt = &s
	}
	return resp
}
