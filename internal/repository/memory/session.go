package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/session"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/period"
	"github.com/shopspring/decimal"
)

type sessionRepository struct {
	s *Store
}

func NewSessionRepository(s *Store) session.SessionRepository {
	return &sessionRepository{s: s}
}

func (r *sessionRepository) GetSession(ctx context.Context, id string) (session.WorkSession, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ws, ok := r.s.data.sessions[id]
	if !ok {
		return session.WorkSession{}, notFound(session.ErrSessionNotFound, id)
	}
	return ws, nil
}

func (r *sessionRepository) CreateRealization(ctx context.Context, rz session.Realization) (session.Realization, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.data.realizations {
		if existing.EmployeeID == rz.EmployeeID &&
			existing.SessionID == rz.SessionID &&
			existing.Date.Equal(rz.Date) {
			return session.Realization{}, session.ErrRealizationExists
		}
	}
	now := r.s.now()
	rz.CreatedAt = now
	rz.UpdatedAt = now
	r.s.data.realizations[rz.ID] = rz
	return rz, nil
}

func (r *sessionRepository) GetRealizationForUpdate(ctx context.Context, id string) (session.Realization, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rz, ok := r.s.data.realizations[id]
	if !ok {
		return session.Realization{}, notFound(session.ErrRealizationNotFound, id)
	}
	return rz, nil
}

func (r *sessionRepository) UpdateRealizationStatus(ctx context.Context, id string, status session.RealizationStatus, rate *decimal.Decimal, reviewedBy string, reviewedAt time.Time) (session.Realization, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rz, ok := r.s.data.realizations[id]
	if !ok {
		return session.Realization{}, notFound(session.ErrRealizationNotFound, id)
	}
	rz.Status = status
	rz.Rate = rate
	rz.ReviewedBy = &reviewedBy
	rz.ReviewedAt = &reviewedAt
	rz.UpdatedAt = r.s.now()
	r.s.data.realizations[id] = rz
	return rz, nil
}

func (r *sessionRepository) ListApproved(ctx context.Context, employeeID string, p period.Period) ([]session.Compensable, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []session.Compensable
	for _, rz := range r.s.data.realizations {
		if rz.EmployeeID != employeeID ||
			rz.Status != session.RealizationStatusApproved ||
			!p.Contains(rz.Date) {
			continue
		}
		ws := r.s.data.sessions[rz.SessionID]
		rate := ws.Rate
		if rz.Rate != nil {
			rate = *rz.Rate
		}
		out = append(out, session.Compensable{
			RealizationID: rz.ID,
			Date:          rz.Date,
			Category:      ws.Category,
			Rate:          rate,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].RealizationID < out[j].RealizationID
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}
