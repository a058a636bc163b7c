package payment

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Payment tracks the transfer of one payroll. A payroll has at most one
// Payment; retries after a failure reuse it and bump Attempt.
type Payment struct {
	ID             string
	PayrollID      string
	Status         Status
	Attempt        int
	TransferDate   *time.Time
	ProofReference *string
	ApprovedBy     *string
	ApprovedAt     *time.Time
	Note           *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Transition is a requested status change.
type Transition struct {
	To           Status
	ApproverID   *string
	TransferDate *time.Time
	Note         *string
}

// Apply returns the payment that results from t. current is nil when the
// payroll has no payment yet.
//
//	none      -> pending
//	pending   -> succeeded | failed
//	failed    -> pending (new attempt)
//	succeeded is terminal
func Apply(current *Payment, t Transition, now time.Time) (Payment, error) {
	var from Status
	if current != nil {
		from = current.Status
	}

	if !allowed(from, t.To) {
		name := string(from)
		if name == "" {
			name = "none"
		}
		return Payment{}, fmt.Errorf("%w: %s -> %s", ErrInvalidPaymentTransition, name, t.To)
	}
	if t.To == StatusSucceeded && (t.ApproverID == nil || *t.ApproverID == "") {
		return Payment{}, ErrApproverRequired
	}

	var next Payment
	if current != nil {
		next = *current
	} else {
		next = Payment{Attempt: 1, CreatedAt: now}
	}

	next.Status = t.To
	next.UpdatedAt = now
	if t.Note != nil {
		next.Note = t.Note
	}

	switch t.To {
	case StatusPending:
		if from == StatusFailed {
			next.Attempt++
		}
		next.ApprovedBy = nil
		next.ApprovedAt = nil
		next.TransferDate = nil
	case StatusSucceeded:
		approver := *t.ApproverID
		next.ApprovedBy = &approver
		next.ApprovedAt = &now
		if t.TransferDate != nil {
			next.TransferDate = t.TransferDate
		} else {
			d := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
			next.TransferDate = &d
		}
	case StatusFailed:
		next.TransferDate = nil
	}

	return next, nil
}

func allowed(from, to Status) bool {
	switch from {
	case "":
		return to == StatusPending
	case StatusPending:
		return to == StatusSucceeded || to == StatusFailed
	case StatusFailed:
		return to == StatusPending
	}
	return false
}
