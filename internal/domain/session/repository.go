package session

import (
	"context"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/period"
	"github.com/shopspring/decimal"
)

type SessionRepository interface {
	GetSession(ctx context.Context, id string) (WorkSession, error)

	CreateRealization(ctx context.Context, r Realization) (Realization, error)
	GetRealizationForUpdate(ctx context.Context, id string) (Realization, error)
	UpdateRealizationStatus(ctx context.Context, id string, status RealizationStatus, rate *decimal.Decimal, reviewedBy string, reviewedAt time.Time) (Realization, error)

	// ListApproved joins approved realizations of p with their session
	// category, ordered by date.
	ListApproved(ctx context.Context, employeeID string, p period.Period) ([]Compensable, error)
}
