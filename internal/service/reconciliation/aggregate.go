package reconciliation

import (
	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/reconciliation"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/session"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/period"
	"github.com/shopspring/decimal"
)

// buildAggregate folds the ledger rows of one employee into an aggregate.
// Each date and each realization is counted once.
func buildAggregate(employeeID string, p period.Period, days []attendance.Day, leaves leave.Breakdown, sessions []session.Compensable) reconciliation.MonthlyAggregate {
	a := reconciliation.MonthlyAggregate{
		EmployeeID:      employeeID,
		Period:          p,
		LeaveDays:       leaves.Leave,
		PermissionDays:  leaves.Permission,
		SickLeaveDays:   leaves.Sick,
		CodingAmount:    decimal.Zero,
		NonCodingAmount: decimal.Zero,
		Subtotal:        decimal.Zero,
	}

	seenDates := make(map[string]bool, len(days))
	for _, d := range days {
		key := d.Date.Format("2006-01-02")
		if seenDates[key] || !p.Contains(d.Date) {
			continue
		}
		seenDates[key] = true

		switch d.Status {
		case attendance.StatusPresent:
			a.PresentDays++
		case attendance.StatusPermittedAbsence:
			a.PermittedAbsenceDays++
		case attendance.StatusSick:
			a.SickDays++
		case attendance.StatusOnLeave:
			a.OnLeaveDays++
		case attendance.StatusUnexcusedAbsence:
			a.UnexcusedAbsenceDays++
		default:
			continue
		}
		a.RecordedDays++
		if d.WorkedMinutes != nil {
			a.WorkedMinutes += *d.WorkedMinutes
		}
	}

	seenRealizations := make(map[string]bool, len(sessions))
	for _, s := range sessions {
		if seenRealizations[s.RealizationID] {
			continue
		}
		seenRealizations[s.RealizationID] = true

		switch s.Category {
		case session.CategoryCoding:
			a.CodingSessions++
			a.CodingAmount = a.CodingAmount.Add(s.Rate)
		case session.CategoryNonCoding:
			a.NonCodingSessions++
			a.NonCodingAmount = a.NonCodingAmount.Add(s.Rate)
		}
	}
	a.Subtotal = a.CodingAmount.Add(a.NonCodingAmount)

	return a
}
