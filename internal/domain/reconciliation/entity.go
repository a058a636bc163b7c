package reconciliation

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/period"
	"github.com/shopspring/decimal"
)

// MonthlyAggregate is the reconciled summary of one employee in one period.
// There is exactly one per (EmployeeID, Period).
type MonthlyAggregate struct {
	ID         string
	EmployeeID string
	Period     period.Period

	// Attendance day counts by status.
	PresentDays          int
	PermittedAbsenceDays int
	SickDays             int
	OnLeaveDays          int
	UnexcusedAbsenceDays int
	RecordedDays         int
	WorkedMinutes        int

	// Approved leave breakdown, informational only.
	LeaveDays      int
	PermissionDays int
	SickLeaveDays  int

	// Approved session realizations.
	CodingSessions    int
	NonCodingSessions int
	CodingAmount      decimal.Decimal
	NonCodingAmount   decimal.Decimal
	Subtotal          decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StatusCount returns the number of days recorded with status s.
func (a MonthlyAggregate) StatusCount(s attendance.DayStatus) int {
	switch s {
	case attendance.StatusPresent:
		return a.PresentDays
	case attendance.StatusPermittedAbsence:
		return a.PermittedAbsenceDays
	case attendance.StatusSick:
		return a.SickDays
	case attendance.StatusOnLeave:
		return a.OnLeaveDays
	case attendance.StatusUnexcusedAbsence:
		return a.UnexcusedAbsenceDays
	}
	return 0
}

// StatusTotal is the sum of all status counts. It always equals RecordedDays.
func (a MonthlyAggregate) StatusTotal() int {
	return a.PresentDays + a.PermittedAbsenceDays + a.SickDays + a.OnLeaveDays + a.UnexcusedAbsenceDays
}

// SameValues reports whether two aggregates carry identical derived values.
func (a MonthlyAggregate) SameValues(b MonthlyAggregate) bool {
	return a.EmployeeID == b.EmployeeID &&
		a.Period == b.Period &&
		a.PresentDays == b.PresentDays &&
		a.PermittedAbsenceDays == b.PermittedAbsenceDays &&
		a.SickDays == b.SickDays &&
		a.OnLeaveDays == b.OnLeaveDays &&
		a.UnexcusedAbsenceDays == b.UnexcusedAbsenceDays &&
		a.RecordedDays == b.RecordedDays &&
		a.WorkedMinutes == b.WorkedMinutes &&
		a.LeaveDays == b.LeaveDays &&
		a.PermissionDays == b.PermissionDays &&
		a.SickLeaveDays == b.SickLeaveDays &&
		a.CodingSessions == b.CodingSessions &&
		a.NonCodingSessions == b.NonCodingSessions &&
		a.CodingAmount.Equal(b.CodingAmount) &&
		a.NonCodingAmount.Equal(b.NonCodingAmount) &&
		a.Subtotal.Equal(b.Subtotal)
}

// Failure is one employee a batch could not reconcile.
type Failure struct {
	EmployeeID string
	Reason     string
	Retryable  bool
}

// BatchResult separates reconciled employees from failed and skipped ones.
// Succeeded and Failed follow the order of the requested employee set.
type BatchResult struct {
	Period    period.Period
	Succeeded []MonthlyAggregate
	Failed    []Failure
	Skipped   []string
}
