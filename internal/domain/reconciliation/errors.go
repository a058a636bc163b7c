package reconciliation

import "errors"

var (
	ErrAggregateMissing = errors.New("monthly aggregate missing, reconcile the period first")
	ErrBatchCancelled   = errors.New("reconciliation cancelled before employee was processed")
)
