package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/ledger"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/reconciliation"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/session"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/cache"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/period"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Ledgers are the read models an aggregate is built from.
type Ledgers struct {
	Attendance attendance.Ledger
	Leave      leave.Ledger
	Session    session.Ledger
}

type ReconciliationServiceImpl struct {
	db            database.Transactor
	employeeRepo  employee.EmployeeRepository
	aggregateRepo reconciliation.AggregateRepository
	ledgers       Ledgers
	cache         cache.Cache[reconciliation.MonthlyAggregate]
	workers       int
	logger        *slog.Logger
}

func NewReconciliationService(
	db database.Transactor,
	employeeRepo employee.EmployeeRepository,
	aggregateRepo reconciliation.AggregateRepository,
	ledgers Ledgers,
	aggregates cache.Cache[reconciliation.MonthlyAggregate],
	workers int,
	logger *slog.Logger,
) reconciliation.ReconciliationService {
	if workers < 1 {
		workers = 1
	}
	if aggregates == nil {
		aggregates = cache.Disabled[reconciliation.MonthlyAggregate]{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReconciliationServiceImpl{
		db:            db,
		employeeRepo:  employeeRepo,
		aggregateRepo: aggregateRepo,
		ledgers:       ledgers,
		cache:         aggregates,
		workers:       workers,
		logger:        logger,
	}
}

// AggregateCacheKey is the cache key of one aggregate.
func AggregateCacheKey(employeeID string, p period.Period) string {
	return "aggregate:" + employeeID + ":" + p.String()
}

// slot is one requested employee. Exactly one of emp, failure or skipped is
// meaningful.
type slot struct {
	emp     *employee.Employee
	failure *reconciliation.Failure
	skipped bool
	id      string

	aggregate *reconciliation.MonthlyAggregate
}

// Reconcile implements reconciliation.ReconciliationService.
func (s *ReconciliationServiceImpl) Reconcile(ctx context.Context, p period.Period, employeeIDs []string) (reconciliation.BatchResult, error) {
	if p.IsZero() {
		return reconciliation.BatchResult{}, period.ErrInvalidPeriod
	}

	slots, err := s.resolve(ctx, employeeIDs)
	if err != nil {
		return reconciliation.BatchResult{}, err
	}

	started := time.Now()
	s.logger.InfoContext(ctx, "reconciliation started",
		slog.String("period", p.String()),
		slog.Int("employees", len(slots)),
		slog.Int("workers", s.workers),
	)

	var g errgroup.Group
	g.SetLimit(s.workers)

	for i := range slots {
		sl := &slots[i]
		if sl.emp == nil {
			continue
		}
		// Cancellation is honoured between employees only.
		if ctx.Err() != nil {
			sl.failure = cancelled(sl.id)
			continue
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				sl.failure = cancelled(sl.id)
				return nil
			}
			agg, err := s.reconcileOne(context.WithoutCancel(ctx), sl.id, p)
			if err != nil {
				sl.failure = &reconciliation.Failure{
					EmployeeID: sl.id,
					Reason:     err.Error(),
					Retryable:  errors.Is(err, database.ErrConcurrentUpdateConflict),
				}
				s.logger.WarnContext(ctx, "employee reconciliation failed",
					slog.String("period", p.String()),
					slog.String("employee_id", sl.id),
					slog.String("error", err.Error()),
				)
				return nil
			}
			sl.aggregate = &agg
			return nil
		})
	}
	_ = g.Wait()

	result := reconciliation.BatchResult{
		Period:    p,
		Succeeded: []reconciliation.MonthlyAggregate{},
		Failed:    []reconciliation.Failure{},
		Skipped:   []string{},
	}
	for _, sl := range slots {
		switch {
		case sl.skipped:
			result.Skipped = append(result.Skipped, sl.id)
		case sl.failure != nil:
			result.Failed = append(result.Failed, *sl.failure)
		case sl.aggregate != nil:
			result.Succeeded = append(result.Succeeded, *sl.aggregate)
		}
	}

	s.logger.InfoContext(ctx, "reconciliation finished",
		slog.String("period", p.String()),
		slog.Int("succeeded", len(result.Succeeded)),
		slog.Int("failed", len(result.Failed)),
		slog.Int("skipped", len(result.Skipped)),
		slog.Duration("elapsed", time.Since(started)),
	)

	return result, nil
}

func cancelled(employeeID string) *reconciliation.Failure {
	return &reconciliation.Failure{
		EmployeeID: employeeID,
		Reason:     reconciliation.ErrBatchCancelled.Error(),
		Retryable:  true,
	}
}

// resolve turns the requested ids into slots in request order. An empty
// request means every active employee.
func (s *ReconciliationServiceImpl) resolve(ctx context.Context, employeeIDs []string) ([]slot, error) {
	if len(employeeIDs) == 0 {
		employees, err := s.employeeRepo.ListActive(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list active employees: %w", err)
		}
		slots := make([]slot, len(employees))
		for i := range employees {
			slots[i] = slot{emp: &employees[i], id: employees[i].ID}
		}
		return slots, nil
	}

	employees, err := s.employeeRepo.ListByIDs(ctx, employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	byID := make(map[string]*employee.Employee, len(employees))
	for i := range employees {
		byID[employees[i].ID] = &employees[i]
	}

	seen := make(map[string]bool, len(employeeIDs))
	slots := make([]slot, 0, len(employeeIDs))
	for _, id := range employeeIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		emp, ok := byID[id]
		switch {
		case !ok:
			slots = append(slots, slot{id: id, failure: &reconciliation.Failure{
				EmployeeID: id,
				Reason:     employee.ErrEmployeeNotFound.Error(),
			}})
		case !emp.IsActive():
			slots = append(slots, slot{id: id, skipped: true})
		default:
			slots = append(slots, slot{id: id, emp: emp})
		}
	}
	return slots, nil
}

// reconcileOne rebuilds and upserts the aggregate of one employee. The
// ledgers are read under the (employee, period) lock, so overlapping runs
// commit in lock order and the last one reflects the newest ledger rows.
func (s *ReconciliationServiceImpl) reconcileOne(ctx context.Context, employeeID string, p period.Period) (reconciliation.MonthlyAggregate, error) {
	var saved reconciliation.MonthlyAggregate
	err := s.db.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.aggregateRepo.LockEmployeePeriod(ctx, employeeID, p); err != nil {
			return err
		}

		days, err := s.ledgers.Attendance.DailyStatuses(ctx, employeeID, p)
		if err = absorb(err); err != nil {
			return err
		}
		leaves, err := s.ledgers.Leave.ApprovedLeaveDays(ctx, employeeID, p)
		if err = absorb(err); err != nil {
			return err
		}
		sessions, err := s.ledgers.Session.ApprovedRealizations(ctx, employeeID, p)
		if err = absorb(err); err != nil {
			return err
		}

		agg := buildAggregate(employeeID, p, days, leaves, sessions)
		agg.ID = uuid.Must(uuid.NewV7()).String()

		saved, err = s.aggregateRepo.Upsert(ctx, agg)
		if err != nil {
			return fmt.Errorf("failed to upsert aggregate: %w", err)
		}
		return nil
	})
	if err != nil {
		return reconciliation.MonthlyAggregate{}, err
	}

	s.cache.Invalidate(AggregateCacheKey(employeeID, p))
	return saved, nil
}

// absorb treats a ledger without rows as an empty ledger.
func absorb(err error) error {
	if errors.Is(err, ledger.ErrDataUnavailable) {
		return nil
	}
	return err
}

// GetAggregate implements reconciliation.ReconciliationService.
func (s *ReconciliationServiceImpl) GetAggregate(ctx context.Context, employeeID string, p period.Period) (reconciliation.MonthlyAggregate, error) {
	return s.cache.Load(ctx, AggregateCacheKey(employeeID, p), func(ctx context.Context) (reconciliation.MonthlyAggregate, error) {
		return s.aggregateRepo.Get(ctx, employeeID, p)
	})
}

// ListAggregates implements reconciliation.ReconciliationService.
func (s *ReconciliationServiceImpl) ListAggregates(ctx context.Context, p period.Period) ([]reconciliation.MonthlyAggregate, error) {
	aggregates, err := s.aggregateRepo.ListByPeriod(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to list aggregates: %w", err)
	}
	return aggregates, nil
}
