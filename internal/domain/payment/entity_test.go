package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 4, 5, 9, 30, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func TestApply_Transitions(t *testing.T) {
	pending := &Payment{ID: "p1", PayrollID: "pr1", Status: StatusPending, Attempt: 1}
	failed := &Payment{ID: "p1", PayrollID: "pr1", Status: StatusFailed, Attempt: 1}
	succeeded := &Payment{ID: "p1", PayrollID: "pr1", Status: StatusSucceeded, Attempt: 1, ApprovedBy: strPtr("u1")}

	tests := []struct {
		name    string
		current *Payment
		to      Status
		wantErr error
	}{
		{name: "none to pending", current: nil, to: StatusPending},
		{name: "none to succeeded", current: nil, to: StatusSucceeded, wantErr: ErrInvalidPaymentTransition},
		{name: "none to failed", current: nil, to: StatusFailed, wantErr: ErrInvalidPaymentTransition},
		{name: "pending to succeeded", current: pending, to: StatusSucceeded},
		{name: "pending to failed", current: pending, to: StatusFailed},
		{name: "pending to pending", current: pending, to: StatusPending, wantErr: ErrInvalidPaymentTransition},
		{name: "failed to pending", current: failed, to: StatusPending},
		{name: "failed to succeeded", current: failed, to: StatusSucceeded, wantErr: ErrInvalidPaymentTransition},
		{name: "succeeded is terminal", current: succeeded, to: StatusPending, wantErr: ErrInvalidPaymentTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Apply(tt.current, Transition{To: tt.to, ApproverID: strPtr("approver")}, now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestApply_SucceededRequiresApprover(t *testing.T) {
	pending := &Payment{ID: "p1", Status: StatusPending, Attempt: 1}

	_, err := Apply(pending, Transition{To: StatusSucceeded}, now)
	assert.ErrorIs(t, err, ErrApproverRequired)

	_, err = Apply(pending, Transition{To: StatusSucceeded, ApproverID: strPtr("")}, now)
	assert.ErrorIs(t, err, ErrApproverRequired)

	got, err := Apply(pending, Transition{To: StatusSucceeded, ApproverID: strPtr("u9")}, now)
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, got.Status)
	require.NotNil(t, got.ApprovedBy)
	assert.Equal(t, "u9", *got.ApprovedBy)
	require.NotNil(t, got.TransferDate)
	assert.Equal(t, time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC), *got.TransferDate)
}

func TestApply_RetryReusesPayment(t *testing.T) {
	first, err := Apply(nil, Transition{To: StatusPending}, now)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Attempt)
	first.ID = "p1"

	failed, err := Apply(&first, Transition{To: StatusFailed, Note: strPtr("bank rejected")}, now)
	require.NoError(t, err)

	retry, err := Apply(&failed, Transition{To: StatusPending}, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "p1", retry.ID)
	assert.Equal(t, 2, retry.Attempt)
	assert.Equal(t, StatusPending, retry.Status)
	assert.Equal(t, "bank rejected", *retry.Note)
}

func TestApply_DoesNotMutateCurrent(t *testing.T) {
	current := &Payment{ID: "p1", Status: StatusPending, Attempt: 1}
	_, err := Apply(current, Transition{To: StatusFailed}, now)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, current.Status)
}

func TestRecordRequest_Validate(t *testing.T) {
	ok := RecordRequest{PayrollID: "pr1", Status: StatusSucceeded, TransferDate: strPtr("2025-04-05")}
	assert.NoError(t, ok.Validate())

	bad := RecordRequest{PayrollID: "pr1", Status: "refunded", TransferDate: strPtr("05/04/2025")}
	assert.Error(t, bad.Validate())

	tr := ok.Transition()
	require.NotNil(t, tr.TransferDate)
	assert.Equal(t, 5, tr.TransferDate.Day())
}
