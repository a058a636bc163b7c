package leave

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/ledger"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/period"
)

type ledgerImpl struct {
	leaveRepo leave.LeaveRequestRepository
}

func NewLedger(leaveRepo leave.LeaveRequestRepository) leave.Ledger {
	return &ledgerImpl{leaveRepo: leaveRepo}
}

// ApprovedLeaveDays counts distinct approved dates per kind.
func (l *ledgerImpl) ApprovedLeaveDays(ctx context.Context, employeeID string, p period.Period) (leave.Breakdown, error) {
	requests, err := l.leaveRepo.ListApproved(ctx, employeeID, p)
	if err != nil {
		return leave.Breakdown{}, fmt.Errorf("failed to list approved leave: %w", err)
	}
	if len(requests) == 0 {
		return leave.Breakdown{}, fmt.Errorf("leave %s: %w", p, ledger.ErrDataUnavailable)
	}

	var b leave.Breakdown
	seen := make(map[string]bool, len(requests))
	for _, r := range requests {
		key := r.Date.Format("2006-01-02")
		if seen[key] {
			continue
		}
		seen[key] = true
		b.Add(r.Kind)
	}
	return b, nil
}
