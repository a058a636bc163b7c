package payroll

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payment"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/reconciliation"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/cache"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/export"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/period"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PayrollServiceImpl struct {
	db            database.Transactor
	payrollRepo   payroll.PayrollRepository
	employeeRepo  employee.EmployeeRepository
	aggregateRepo reconciliation.AggregateRepository
	paymentRepo   payment.PaymentRepository
	policy        payroll.Policy
	cache         cache.Cache[payroll.PayrollResponse]
	now           func() time.Time
}

func NewPayrollService(
	db database.Transactor,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	aggregateRepo reconciliation.AggregateRepository,
	paymentRepo payment.PaymentRepository,
	policy payroll.Policy,
	payrolls cache.Cache[payroll.PayrollResponse],
) payroll.PayrollService {
	if payrolls == nil {
		payrolls = cache.Disabled[payroll.PayrollResponse]{}
	}
	return &PayrollServiceImpl{
		db:            db,
		payrollRepo:   payrollRepo,
		employeeRepo:  employeeRepo,
		aggregateRepo: aggregateRepo,
		paymentRepo:   paymentRepo,
		policy:        policy,
		cache:         payrolls,
		now:           time.Now,
	}
}

// PayrollCacheKey is the cache key of one payroll view.
func PayrollCacheKey(payrollID string) string {
	return "payroll:" + payrollID
}

// Compose implements payroll.PayrollService.
func (s *PayrollServiceImpl) Compose(ctx context.Context, req payroll.ComposeRequest) (payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}
	p, err := period.Parse(req.Period)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	agg, err := s.aggregateRepo.Get(ctx, emp.ID, p)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	// Fail fast before computing; the check is repeated under the lock.
	if err := s.ensureRecomposable(ctx, emp.ID, p); err != nil {
		return payroll.PayrollResponse{}, err
	}

	calc, err := Calculate(emp, agg, s.policy, req.ToAdjustments())
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	var saved payroll.Payroll
	err = s.db.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.payrollRepo.LockEmployeePeriod(ctx, emp.ID, p); err != nil {
			return err
		}
		if err := s.ensureRecomposable(ctx, emp.ID, p); err != nil {
			return err
		}

		header, err := s.payrollRepo.UpsertDraft(ctx, payroll.Payroll{
			ID:             uuid.Must(uuid.NewV7()).String(),
			EmployeeID:     emp.ID,
			Period:         p,
			Status:         payroll.StatusDraft,
			WorkingDays:    calc.WorkingDays,
			LeaveDays:      calc.LeaveDays,
			DeductibleDays: calc.DeductibleDays,
			DailyRate:      calc.DailyRate,
			LeaveDeduction: calc.LeaveDeduction,
			Total:          calc.Total,
			CreatedBy:      req.CreatedBy,
		})
		if err != nil {
			return fmt.Errorf("failed to save payroll: %w", err)
		}

		components := make([]payroll.SalaryComponent, len(calc.Components))
		for i, c := range calc.Components {
			c.ID = uuid.Must(uuid.NewV7()).String()
			c.PayrollID = header.ID
			components[i] = c
		}
		if err := s.payrollRepo.ReplaceComponents(ctx, header.ID, components); err != nil {
			return fmt.Errorf("failed to replace salary components: %w", err)
		}

		header.Components = components
		saved = header
		return nil
	})
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	s.cache.Invalidate(PayrollCacheKey(saved.ID))
	return payroll.NewPayrollResponse(saved, nil), nil
}

func (s *PayrollServiceImpl) ensureRecomposable(ctx context.Context, employeeID string, p period.Period) error {
	existing, err := s.payrollRepo.GetByEmployeePeriod(ctx, employeeID, p)
	if errors.Is(err, payroll.ErrPayrollNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get payroll: %w", err)
	}
	if !existing.IsDraft() {
		return payroll.ErrPayrollLocked
	}
	return nil
}

// Finalize implements payroll.PayrollService.
func (s *PayrollServiceImpl) Finalize(ctx context.Context, req payroll.FinalizeRequest) (payroll.PayrollResponse, error) {
	var finalized payroll.Payroll
	err := s.db.WithTransaction(ctx, func(ctx context.Context) error {
		current, err := s.payrollRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		// Same lock as Compose, so a recompose cannot slip between the
		// status check and the update.
		if err := s.payrollRepo.LockEmployeePeriod(ctx, current.EmployeeID, current.Period); err != nil {
			return err
		}
		p, err := s.payrollRepo.GetByIDForUpdate(ctx, req.ID)
		if err != nil {
			return err
		}
		if !p.IsDraft() {
			return payroll.ErrPayrollNotDraft
		}
		if !p.TotalMatches() {
			return fmt.Errorf("%w: total %s, components %s", payroll.ErrTotalMismatch,
				p.Total.StringFixed(payroll.MoneyScale), payroll.SumComponents(p.Components).StringFixed(payroll.MoneyScale))
		}

		by := req.FinalizedBy
		finalized, err = s.payrollRepo.UpdateStatus(ctx, p.ID, payroll.StatusFinal, &by, s.now().UTC())
		if err != nil {
			return fmt.Errorf("failed to finalize payroll: %w", err)
		}
		return nil
	})
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	s.cache.Invalidate(PayrollCacheKey(finalized.ID))
	return payroll.NewPayrollResponse(finalized, nil), nil
}

// Get implements payroll.PayrollService. The payroll is returned with its
// components and payment.
func (s *PayrollServiceImpl) Get(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	return s.cache.Load(ctx, PayrollCacheKey(id), func(ctx context.Context) (payroll.PayrollResponse, error) {
		p, err := s.payrollRepo.GetByID(ctx, id)
		if err != nil {
			return payroll.PayrollResponse{}, err
		}
		pay, err := s.paymentOf(ctx, p.ID)
		if err != nil {
			return payroll.PayrollResponse{}, err
		}
		return payroll.NewPayrollResponse(p, pay), nil
	})
}

// ListByPeriod implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListByPeriod(ctx context.Context, p period.Period) ([]payroll.PayrollResponse, error) {
	payrolls, err := s.payrollRepo.ListByPeriod(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to list payrolls: %w", err)
	}

	resp := make([]payroll.PayrollResponse, 0, len(payrolls))
	for _, pr := range payrolls {
		pay, err := s.paymentOf(ctx, pr.ID)
		if err != nil {
			return nil, err
		}
		resp = append(resp, payroll.NewPayrollResponse(pr, pay))
	}
	return resp, nil
}

func (s *PayrollServiceImpl) paymentOf(ctx context.Context, payrollID string) (*payment.Payment, error) {
	pay, err := s.paymentRepo.GetByPayrollID(ctx, payrollID)
	if errors.Is(err, payment.ErrPaymentNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return &pay, nil
}

// ExportRegister implements payroll.PayrollService.
func (s *PayrollServiceImpl) ExportRegister(ctx context.Context, p period.Period, w io.Writer) error {
	payrolls, err := s.payrollRepo.ListByPeriod(ctx, p)
	if err != nil {
		return fmt.Errorf("failed to list payrolls: %w", err)
	}

	ids := make([]string, len(payrolls))
	for i, pr := range payrolls {
		ids[i] = pr.EmployeeID
	}
	employees, err := s.employeeRepo.ListByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to list employees: %w", err)
	}
	byID := make(map[string]employee.Employee, len(employees))
	for _, e := range employees {
		byID[e.ID] = e
	}

	columns := make([]string, len(payroll.ComponentKinds))
	for i, k := range payroll.ComponentKinds {
		columns[i] = string(k)
	}

	rows := make([]export.RegisterRow, 0, len(payrolls))
	for _, pr := range payrolls {
		emp := byID[pr.EmployeeID]
		amounts := make(map[string]decimal.Decimal, len(columns))
		for _, k := range payroll.ComponentKinds {
			amounts[string(k)] = pr.ComponentTotal(k)
		}
		rows = append(rows, export.RegisterRow{
			EmployeeCode:   emp.EmployeeCode,
			EmployeeName:   emp.FullName,
			Status:         string(pr.Status),
			WorkingDays:    pr.WorkingDays,
			DeductibleDays: pr.DeductibleDays,
			Amounts:        amounts,
			Total:          pr.Total,
		})
	}

	return export.WriteRegister(w, p.String(), columns, rows)
}
