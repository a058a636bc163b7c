package attendance

import (
	"context"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/period"
)

// AttendanceService records check-ins, check-outs and absences.
type AttendanceService interface {
	// CheckIn validates the fix against the employee's site and appends an
	// event. A valid fix marks the day present.
	CheckIn(ctx context.Context, req RecordRequest) (RecordResponse, error)

	// CheckOut closes the day opened by CheckIn.
	CheckOut(ctx context.Context, req RecordRequest) (RecordResponse, error)

	// MarkAbsence records a non-present status for a day.
	MarkAbsence(ctx context.Context, req MarkAbsenceRequest) (DayResponse, error)
}

// Ledger is the read model the reconciler consumes.
type Ledger interface {
	// DailyStatuses returns the recorded days of p ordered by date.
	DailyStatuses(ctx context.Context, employeeID string, p period.Period) ([]Day, error)
}
