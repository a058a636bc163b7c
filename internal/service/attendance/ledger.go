package attendance

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/ledger"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/period"
)

type ledgerImpl struct {
	attendanceRepo attendance.AttendanceRepository
}

func NewLedger(attendanceRepo attendance.AttendanceRepository) attendance.Ledger {
	return &ledgerImpl{attendanceRepo: attendanceRepo}
}

func (l *ledgerImpl) DailyStatuses(ctx context.Context, employeeID string, p period.Period) ([]attendance.Day, error) {
	days, err := l.attendanceRepo.ListDays(ctx, employeeID, p)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance days: %w", err)
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("attendance %s: %w", p, ledger.ErrDataUnavailable)
	}
	return days, nil
}
