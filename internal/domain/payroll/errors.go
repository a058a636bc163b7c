package payroll

import "errors"

var (
	ErrPayrollNotFound       = errors.New("payroll not found")
	ErrPayrollLocked         = errors.New("payroll is final or locked and cannot be recomposed")
	ErrPayrollNotDraft       = errors.New("only a draft payroll can be finalized")
	ErrInvalidAdjustment     = errors.New("invalid payroll adjustment")
	ErrNoStandardWorkingDays = errors.New("period has no standard working days")
	ErrTotalMismatch         = errors.New("payroll total does not match its components")
)
