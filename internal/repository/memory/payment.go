package memory

import (
	"context"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payment"
)

type paymentRepository struct {
	s *Store
}

func NewPaymentRepository(s *Store) payment.PaymentRepository {
	return &paymentRepository{s: s}
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (payment.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.data.payments[id]
	if !ok {
		return payment.Payment{}, notFound(payment.ErrPaymentNotFound, id)
	}
	return p, nil
}

func (r *paymentRepository) GetByPayrollID(ctx context.Context, payrollID string) (payment.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.data.payments {
		if p.PayrollID == payrollID {
			return p, nil
		}
	}
	return payment.Payment{}, payment.ErrPaymentNotFound
}

func (r *paymentRepository) Upsert(ctx context.Context, p payment.Payment) (payment.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, existing := range r.s.data.payments {
		if existing.PayrollID == p.PayrollID {
			p.ID = id
			p.CreatedAt = existing.CreatedAt
			break
		}
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = r.s.now()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = r.s.now()
	}
	r.s.data.payments[p.ID] = p
	return p, nil
}

func (r *paymentRepository) SetProofReference(ctx context.Context, id string, ref string) (payment.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.data.payments[id]
	if !ok {
		return payment.Payment{}, notFound(payment.ErrPaymentNotFound, id)
	}
	p.ProofReference = &ref
	p.UpdatedAt = r.s.now()
	r.s.data.payments[id] = p
	return p, nil
}
