package session

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/ledger"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/session"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/period"
)

type ledgerImpl struct {
	sessionRepo session.SessionRepository
}

func NewLedger(sessionRepo session.SessionRepository) session.Ledger {
	return &ledgerImpl{sessionRepo: sessionRepo}
}

func (l *ledgerImpl) ApprovedRealizations(ctx context.Context, employeeID string, p period.Period) ([]session.Compensable, error) {
	items, err := l.sessionRepo.ListApproved(ctx, employeeID, p)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved realizations: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("sessions %s: %w", p, ledger.ErrDataUnavailable)
	}
	return items, nil
}
