package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/reconciliation"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/period"
)

type aggregateRepository struct {
	s *Store
}

func NewAggregateRepository(s *Store) reconciliation.AggregateRepository {
	return &aggregateRepository{s: s}
}

// LockEmployeePeriod is a no-op; Store transactions are already exclusive.
func (r *aggregateRepository) LockEmployeePeriod(ctx context.Context, employeeID string, p period.Period) error {
	return nil
}

func (r *aggregateRepository) Upsert(ctx context.Context, a reconciliation.MonthlyAggregate) (reconciliation.MonthlyAggregate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := periodKey{employeeID: a.EmployeeID, period: a.Period}
	now := r.s.now()
	if existing, ok := r.s.data.aggregates[key]; ok {
		if existing.SameValues(a) {
			return existing, nil
		}
		a.ID = existing.ID
		a.CreatedAt = existing.CreatedAt
	} else {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	r.s.data.aggregates[key] = a
	return a, nil
}

func (r *aggregateRepository) Get(ctx context.Context, employeeID string, p period.Period) (reconciliation.MonthlyAggregate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.data.aggregates[periodKey{employeeID: employeeID, period: p}]
	if !ok {
		return reconciliation.MonthlyAggregate{}, reconciliation.ErrAggregateMissing
	}
	return a, nil
}

func (r *aggregateRepository) ListByPeriod(ctx context.Context, p period.Period) ([]reconciliation.MonthlyAggregate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []reconciliation.MonthlyAggregate
	for key, a := range r.s.data.aggregates {
		if key.period == p {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}
