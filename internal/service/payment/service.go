package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payment"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/cache"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine/internal/service/file"
	payrollsvc "github.com/cmlabs-hris/payroll-engine/internal/service/payroll"
	"github.com/google/uuid"
)

type PaymentServiceImpl struct {
	db          database.Transactor
	paymentRepo payment.PaymentRepository
	payrollRepo payroll.PayrollRepository
	files       file.FileService
	payrolls    cache.Cache[payroll.PayrollResponse]
	now         func() time.Time
}

func NewPaymentService(
	db database.Transactor,
	paymentRepo payment.PaymentRepository,
	payrollRepo payroll.PayrollRepository,
	files file.FileService,
	payrolls cache.Cache[payroll.PayrollResponse],
) payment.PaymentService {
	if payrolls == nil {
		payrolls = cache.Disabled[payroll.PayrollResponse]{}
	}
	return &PaymentServiceImpl{
		db:          db,
		paymentRepo: paymentRepo,
		payrollRepo: payrollRepo,
		files:       files,
		payrolls:    payrolls,
		now:         time.Now,
	}
}

// Record implements payment.PaymentService.
func (s *PaymentServiceImpl) Record(ctx context.Context, req payment.RecordRequest) (payment.PaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return payment.PaymentResponse{}, err
	}

	var saved payment.Payment
	err := s.db.WithTransaction(ctx, func(ctx context.Context) error {
		pr, err := s.payrollRepo.GetByIDForUpdate(ctx, req.PayrollID)
		if err != nil {
			return err
		}
		if pr.Status == payroll.StatusDraft {
			return payment.ErrPayrollNotFinal
		}

		var current *payment.Payment
		existing, err := s.paymentRepo.GetByPayrollID(ctx, pr.ID)
		switch {
		case err == nil:
			current = &existing
		case !errors.Is(err, payment.ErrPaymentNotFound):
			return fmt.Errorf("failed to get payment: %w", err)
		}

		next, err := payment.Apply(current, req.Transition(), s.now().UTC())
		if err != nil {
			return err
		}
		if next.ID == "" {
			next.ID = uuid.Must(uuid.NewV7()).String()
			next.PayrollID = pr.ID
		}

		saved, err = s.paymentRepo.Upsert(ctx, next)
		if err != nil {
			return fmt.Errorf("failed to save payment: %w", err)
		}

		if saved.Status == payment.StatusSucceeded && pr.Status == payroll.StatusFinal {
			if _, err := s.payrollRepo.UpdateStatus(ctx, pr.ID, payroll.StatusLocked, nil, saved.UpdatedAt); err != nil {
				return fmt.Errorf("failed to lock payroll: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return payment.PaymentResponse{}, err
	}

	s.payrolls.Invalidate(payrollsvc.PayrollCacheKey(saved.PayrollID))
	return payment.NewPaymentResponse(saved), nil
}

// AttachProof implements payment.PaymentService.
func (s *PaymentServiceImpl) AttachProof(ctx context.Context, req payment.AttachProofRequest) (payment.PaymentResponse, error) {
	if req.File == nil {
		return payment.PaymentResponse{}, payment.ErrInvalidProofFile
	}

	existing, err := s.paymentRepo.GetByID(ctx, req.PaymentID)
	if err != nil {
		return payment.PaymentResponse{}, err
	}

	key, err := s.files.UploadPaymentProof(ctx, existing.ID, req.File, req.Filename)
	if err != nil {
		return payment.PaymentResponse{}, err
	}

	updated, err := s.paymentRepo.SetProofReference(ctx, existing.ID, key)
	if err != nil {
		_ = s.files.DeleteFile(context.WithoutCancel(ctx), key)
		return payment.PaymentResponse{}, fmt.Errorf("failed to save proof reference: %w", err)
	}

	if existing.ProofReference != nil && *existing.ProofReference != key {
		_ = s.files.DeleteFile(ctx, *existing.ProofReference)
	}

	s.payrolls.Invalidate(payrollsvc.PayrollCacheKey(updated.PayrollID))
	return payment.NewPaymentResponse(updated), nil
}
