package leave

import "errors"

var (
	ErrLeaveRequestNotFound         = errors.New("leave request not found")
	ErrLeaveRequestAlreadyProcessed = errors.New("leave request already processed")
	ErrLeaveRequestExists           = errors.New("leave request already exists for this date")
	ErrRejectionReasonRequired      = errors.New("rejection reason is required")
)
