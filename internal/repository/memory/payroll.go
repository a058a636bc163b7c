package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/period"
)

type payrollRepository struct {
	s *Store
}

func NewPayrollRepository(s *Store) payroll.PayrollRepository {
	return &payrollRepository{s: s}
}

// LockEmployeePeriod is a no-op; Store transactions are already exclusive.
func (r *payrollRepository) LockEmployeePeriod(ctx context.Context, employeeID string, p period.Period) error {
	return nil
}

func (r *payrollRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, p period.Period) (payroll.Payroll, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, pr := range r.s.data.payrolls {
		if pr.EmployeeID == employeeID && pr.Period == p {
			return r.withComponents(pr), nil
		}
	}
	return payroll.Payroll{}, payroll.ErrPayrollNotFound
}

func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.Payroll, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	pr, ok := r.s.data.payrolls[id]
	if !ok {
		return payroll.Payroll{}, notFound(payroll.ErrPayrollNotFound, id)
	}
	return r.withComponents(pr), nil
}

func (r *payrollRepository) GetByIDForUpdate(ctx context.Context, id string) (payroll.Payroll, error) {
	return r.GetByID(ctx, id)
}

func (r *payrollRepository) ListByPeriod(ctx context.Context, p period.Period) ([]payroll.Payroll, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []payroll.Payroll
	for _, pr := range r.s.data.payrolls {
		if pr.Period == p {
			out = append(out, r.withComponents(pr))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func (r *payrollRepository) UpsertDraft(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	p.Components = nil
	p.CreatedAt = now
	for id, existing := range r.s.data.payrolls {
		if existing.EmployeeID == p.EmployeeID && existing.Period == p.Period {
			if !existing.IsDraft() {
				return payroll.Payroll{}, fmt.Errorf("%w: %s %s", payroll.ErrPayrollLocked, p.EmployeeID, p.Period)
			}
			p.ID = id
			p.CreatedAt = existing.CreatedAt
			break
		}
	}
	p.Status = payroll.StatusDraft
	p.FinalizedBy = nil
	p.FinalizedAt = nil
	p.UpdatedAt = now
	r.s.data.payrolls[p.ID] = p
	return r.withComponents(p), nil
}

func (r *payrollRepository) ReplaceComponents(ctx context.Context, payrollID string, cs []payroll.SalaryComponent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.payrolls[payrollID]; !ok {
		return notFound(payroll.ErrPayrollNotFound, payrollID)
	}
	now := r.s.now()
	stored := make([]payroll.SalaryComponent, len(cs))
	for i, c := range cs {
		c.PayrollID = payrollID
		c.CreatedAt = now
		stored[i] = c
	}
	r.s.data.components[payrollID] = stored
	return nil
}

func (r *payrollRepository) UpdateStatus(ctx context.Context, id string, status payroll.Status, finalizedBy *string, at time.Time) (payroll.Payroll, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	pr, ok := r.s.data.payrolls[id]
	if !ok {
		return payroll.Payroll{}, notFound(payroll.ErrPayrollNotFound, id)
	}
	pr.Status = status
	if status == payroll.StatusFinal {
		pr.FinalizedBy = finalizedBy
		pr.FinalizedAt = &at
	}
	pr.UpdatedAt = at
	r.s.data.payrolls[id] = pr
	return r.withComponents(pr), nil
}

func (r *payrollRepository) withComponents(p payroll.Payroll) payroll.Payroll {
	cs := r.s.data.components[p.ID]
	p.Components = make([]payroll.SalaryComponent, len(cs))
	copy(p.Components, cs)
	sort.SliceStable(p.Components, func(i, j int) bool { return p.Components[i].Position < p.Components[j].Position })
	return p
}
