package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/period"
)

type AttendanceRepository interface {
	GetSiteByEmployeeID(ctx context.Context, employeeID string) (Site, error)

	CreateEvent(ctx context.Context, event Event) (Event, error)

	// LockDay serializes writers of one (employee, date) until the
	// surrounding transaction ends.
	LockDay(ctx context.Context, employeeID string, date time.Time) error
	GetDay(ctx context.Context, employeeID string, date time.Time) (Day, error)
	UpsertDay(ctx context.Context, day Day) (Day, error)

	// ListDays returns the days of p ordered by date.
	ListDays(ctx context.Context, employeeID string, p period.Period) ([]Day, error)
}
