package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payment"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/reconciliation"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/session"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/period"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/storage"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrEmployeeIDRequired):
		Forbidden(w, err.Error())

	// Not found
	case errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, attendance.ErrAttendanceDayNotFound),
		errors.Is(err, leave.ErrLeaveRequestNotFound),
		errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, session.ErrRealizationNotFound),
		errors.Is(err, payroll.ErrPayrollNotFound),
		errors.Is(err, payment.ErrPaymentNotFound),
		errors.Is(err, storage.ErrFileNotFound):
		NotFound(w, err.Error())

	// State conflicts
	case errors.Is(err, database.ErrConcurrentUpdateConflict):
		ConcurrentUpdate(w)
	case errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrAlreadyCheckedOut),
		errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed),
		errors.Is(err, leave.ErrLeaveRequestExists),
		errors.Is(err, session.ErrRealizationExists),
		errors.Is(err, session.ErrRealizationAlreadyProcessed),
		errors.Is(err, payroll.ErrPayrollLocked),
		errors.Is(err, payroll.ErrPayrollNotDraft):
		Conflict(w, err.Error())

	// Business rule violations
	case errors.Is(err, attendance.ErrOutsideAllowedRadius),
		errors.Is(err, attendance.ErrNotCheckedIn),
		errors.Is(err, attendance.ErrSiteNotAssigned),
		errors.Is(err, attendance.ErrInvalidAbsenceStatus),
		errors.Is(err, employee.ErrEmployeeInactive),
		errors.Is(err, leave.ErrRejectionReasonRequired),
		errors.Is(err, session.ErrSessionInactive),
		errors.Is(err, session.ErrSessionWeekdayMismatch),
		errors.Is(err, reconciliation.ErrAggregateMissing),
		errors.Is(err, payroll.ErrInvalidAdjustment),
		errors.Is(err, payroll.ErrNoStandardWorkingDays),
		errors.Is(err, payroll.ErrTotalMismatch),
		errors.Is(err, payment.ErrApproverRequired),
		errors.Is(err, payment.ErrPayrollNotFinal),
		errors.Is(err, payment.ErrInvalidPaymentTransition),
		errors.Is(err, payment.ErrProofTooLarge):
		UnprocessableEntity(w, err.Error())

	// Malformed input
	case errors.Is(err, period.ErrInvalidPeriod),
		errors.Is(err, payment.ErrInvalidProofFile),
		errors.Is(err, storage.ErrInvalidPath):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
