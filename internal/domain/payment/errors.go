package payment

import "errors"

var (
	ErrPaymentNotFound          = errors.New("payment not found")
	ErrApproverRequired         = errors.New("an approver is required to mark a payment succeeded")
	ErrPayrollNotFinal          = errors.New("payroll must be final before recording a payment")
	ErrInvalidPaymentTransition = errors.New("invalid payment status transition")
	ErrInvalidProofFile         = errors.New("invalid proof file: only pdf, jpg, jpeg, png allowed")
	ErrProofTooLarge            = errors.New("proof file exceeds the maximum upload size")
)
