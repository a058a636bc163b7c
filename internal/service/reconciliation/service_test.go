package reconciliation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/reconciliation"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/session"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/cache"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/period"
	"github.com/cmlabs-hris/payroll-engine/internal/repository/memory"
	attendancesvc "github.com/cmlabs-hris/payroll-engine/internal/service/attendance"
	leavesvc "github.com/cmlabs-hris/payroll-engine/internal/service/leave"
	sessionsvc "github.com/cmlabs-hris/payroll-engine/internal/service/session"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var march = period.New(2025, time.March)

func date(day int) time.Time {
	return time.Date(2025, time.March, day, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	store         *memory.Store
	attendance    attendance.AttendanceRepository
	leaves        leave.LeaveRequestRepository
	sessions      session.SessionRepository
	aggregateRepo reconciliation.AggregateRepository
	cache         *cache.Memory[reconciliation.MonthlyAggregate]
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		store:         store,
		attendance:    memory.NewAttendanceRepository(store),
		leaves:        memory.NewLeaveRequestRepository(store),
		sessions:      memory.NewSessionRepository(store),
		aggregateRepo: memory.NewAggregateRepository(store),
		cache:         cache.NewMemory[reconciliation.MonthlyAggregate](0),
	}
	store.AddSession(session.WorkSession{ID: "coding", Category: session.CategoryCoding, Rate: decimal.NewFromInt(50000), Active: true})
	store.AddSession(session.WorkSession{ID: "mentoring", Category: session.CategoryNonCoding, Rate: decimal.NewFromInt(20000), Active: true})
	return f
}

func (f *fixture) service(workers int) reconciliation.ReconciliationService {
	return f.serviceWith(f.aggregateRepo, workers)
}

func (f *fixture) serviceWith(repo reconciliation.AggregateRepository, workers int) reconciliation.ReconciliationService {
	ledgers := Ledgers{
		Attendance: attendancesvc.NewLedger(f.attendance),
		Leave:      leavesvc.NewLedger(f.leaves),
		Session:    sessionsvc.NewLedger(f.sessions),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewReconciliationService(f.store, memory.NewEmployeeRepository(f.store), repo, ledgers, f.cache, workers, logger)
}

func (f *fixture) addEmployee(id string, status employee.Status) {
	f.store.AddEmployee(employee.Employee{ID: id, EmployeeCode: id, Status: status, SalaryType: employee.SalaryTypeSessionBased})
}

func (f *fixture) addDay(t *testing.T, employeeID string, day int, status attendance.DayStatus) {
	t.Helper()
	_, err := f.attendance.UpsertDay(context.Background(), attendance.Day{
		ID:         fmt.Sprintf("%s-%d", employeeID, day),
		EmployeeID: employeeID,
		Date:       date(day),
		Status:     status,
	})
	require.NoError(t, err)
}

func (f *fixture) addRealization(t *testing.T, employeeID, sessionID string, day int, status session.RealizationStatus) {
	t.Helper()
	ctx := context.Background()
	rz, err := f.sessions.CreateRealization(ctx, session.Realization{
		ID:         fmt.Sprintf("%s-%s-%d", employeeID, sessionID, day),
		EmployeeID: employeeID,
		SessionID:  sessionID,
		Date:       date(day),
		Status:     session.RealizationStatusPending,
		Origin:     session.OriginManual,
	})
	require.NoError(t, err)
	if status != session.RealizationStatusPending {
		ws, err := f.sessions.GetSession(ctx, sessionID)
		require.NoError(t, err)
		_, err = f.sessions.UpdateRealizationStatus(ctx, rz.ID, status, &ws.Rate, "manager", date(28))
		require.NoError(t, err)
	}
}

func (f *fixture) addApprovedLeave(t *testing.T, employeeID string, day int, kind leave.Kind) {
	t.Helper()
	ctx := context.Background()
	req, err := f.leaves.Create(ctx, leave.LeaveRequest{
		ID:         fmt.Sprintf("%s-leave-%d", employeeID, day),
		EmployeeID: employeeID,
		Date:       date(day),
		Kind:       kind,
		Status:     leave.LeaveRequestStatusPending,
	})
	require.NoError(t, err)
	approver := "manager"
	_, err = f.leaves.UpdateStatus(ctx, req.ID, leave.LeaveRequestStatusApproved, &approver, date(28), nil)
	require.NoError(t, err)
}

// seedScenario records the March 2025 month of a session-based employee:
// eight coding and eleven non-coding sessions, one unexcused absence.
func (f *fixture) seedScenario(t *testing.T, employeeID string) {
	t.Helper()
	f.addEmployee(employeeID, employee.StatusActive)

	workdays := []int{3, 4, 5, 6, 7, 10, 11, 12, 13, 14, 17, 18, 19, 20, 21, 24, 25, 26, 27, 28, 31}
	for i, d := range workdays {
		status := attendance.StatusPresent
		if i == len(workdays)-1 {
			status = attendance.StatusUnexcusedAbsence
		}
		f.addDay(t, employeeID, d, status)
	}
	for _, d := range workdays[:8] {
		f.addRealization(t, employeeID, "coding", d, session.RealizationStatusApproved)
	}
	for _, d := range workdays[8:19] {
		f.addRealization(t, employeeID, "mentoring", d, session.RealizationStatusApproved)
	}
	// Pending and rejected realizations never count.
	f.addRealization(t, employeeID, "coding", 19, session.RealizationStatusPending)
	f.addRealization(t, employeeID, "coding", 20, session.RealizationStatusRejected)
}

func TestReconcile_Scenario(t *testing.T) {
	f := newFixture(t)
	f.seedScenario(t, "emp-1")

	res, err := f.service(4).Reconcile(context.Background(), march, nil)
	require.NoError(t, err)
	require.Len(t, res.Succeeded, 1)
	assert.Empty(t, res.Failed)

	a := res.Succeeded[0]
	assert.Equal(t, 20, a.PresentDays)
	assert.Equal(t, 1, a.UnexcusedAbsenceDays)
	assert.Equal(t, 21, a.RecordedDays)
	assert.Equal(t, a.RecordedDays, a.StatusTotal())
	assert.Equal(t, 8, a.CodingSessions)
	assert.Equal(t, 11, a.NonCodingSessions)
	assert.Equal(t, "400000", a.CodingAmount.String())
	assert.Equal(t, "220000", a.NonCodingAmount.String())
	assert.Equal(t, "620000", a.Subtotal.String())
}

func TestReconcile_Idempotent(t *testing.T) {
	f := newFixture(t)
	f.seedScenario(t, "emp-1")
	clock := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	f.store.Now = func() time.Time { return clock }
	svc := f.service(2)
	ctx := context.Background()

	first, err := svc.Reconcile(ctx, march, nil)
	require.NoError(t, err)

	clock = clock.Add(time.Hour)
	second, err := svc.Reconcile(ctx, march, nil)
	require.NoError(t, err)

	require.Len(t, second.Succeeded, 1)
	assert.Equal(t, first.Succeeded[0], second.Succeeded[0])

	all, err := svc.ListAggregates(ctx, march)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestReconcile_ZeroSourceRows(t *testing.T) {
	f := newFixture(t)
	f.addEmployee("emp-empty", employee.StatusActive)

	res, err := f.service(1).Reconcile(context.Background(), march, []string{"emp-empty"})
	require.NoError(t, err)
	require.Len(t, res.Succeeded, 1)

	a := res.Succeeded[0]
	assert.Zero(t, a.RecordedDays)
	assert.Zero(t, a.CodingSessions)
	assert.True(t, a.Subtotal.IsZero())
}

func TestReconcile_LeaveBreakdownIsInformational(t *testing.T) {
	f := newFixture(t)
	f.addEmployee("emp-2", employee.StatusActive)
	f.addDay(t, "emp-2", 3, attendance.StatusOnLeave)
	f.addApprovedLeave(t, "emp-2", 3, leave.KindLeave)
	f.addApprovedLeave(t, "emp-2", 4, leave.KindSick) // no attendance day recorded

	res, err := f.service(1).Reconcile(context.Background(), march, []string{"emp-2"})
	require.NoError(t, err)
	require.Len(t, res.Succeeded, 1)

	a := res.Succeeded[0]
	assert.Equal(t, 1, a.OnLeaveDays)
	assert.Zero(t, a.SickDays)
	assert.Equal(t, 1, a.RecordedDays)
	assert.Equal(t, 1, a.LeaveDays)
	assert.Equal(t, 1, a.SickLeaveDays)
}

func TestReconcile_ExplicitSet(t *testing.T) {
	f := newFixture(t)
	f.addEmployee("emp-a", employee.StatusActive)
	f.addEmployee("emp-b", employee.StatusInactive)
	f.addEmployee("emp-c", employee.StatusActive)

	res, err := f.service(3).Reconcile(context.Background(), march, []string{"emp-c", "ghost", "emp-b", "emp-a", "emp-c"})
	require.NoError(t, err)

	require.Len(t, res.Succeeded, 2)
	assert.Equal(t, "emp-c", res.Succeeded[0].EmployeeID)
	assert.Equal(t, "emp-a", res.Succeeded[1].EmployeeID)

	require.Len(t, res.Failed, 1)
	assert.Equal(t, "ghost", res.Failed[0].EmployeeID)
	assert.False(t, res.Failed[0].Retryable)

	assert.Equal(t, []string{"emp-b"}, res.Skipped)
}

type conflictingRepo struct {
	reconciliation.AggregateRepository
	employeeID string
}

func (r conflictingRepo) Upsert(ctx context.Context, a reconciliation.MonthlyAggregate) (reconciliation.MonthlyAggregate, error) {
	if a.EmployeeID == r.employeeID {
		return reconciliation.MonthlyAggregate{}, fmt.Errorf("%w: lock timeout", database.ErrConcurrentUpdateConflict)
	}
	return r.AggregateRepository.Upsert(ctx, a)
}

func TestReconcile_ContinuesPastFailures(t *testing.T) {
	f := newFixture(t)
	for _, id := range []string{"emp-1", "emp-2", "emp-3"} {
		f.addEmployee(id, employee.StatusActive)
	}
	svc := f.serviceWith(conflictingRepo{AggregateRepository: f.aggregateRepo, employeeID: "emp-2"}, 2)

	res, err := svc.Reconcile(context.Background(), march, nil)
	require.NoError(t, err)

	require.Len(t, res.Succeeded, 2)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "emp-2", res.Failed[0].EmployeeID)
	assert.True(t, res.Failed[0].Retryable)

	_, err = f.aggregateRepo.Get(context.Background(), "emp-2", march)
	assert.ErrorIs(t, err, reconciliation.ErrAggregateMissing)
}

func TestReconcile_CancelledBeforeStart(t *testing.T) {
	f := newFixture(t)
	f.addEmployee("emp-1", employee.StatusActive)
	f.addEmployee("emp-2", employee.StatusActive)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := f.service(1).Reconcile(ctx, march, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Succeeded)
	require.Len(t, res.Failed, 2)
	for _, fl := range res.Failed {
		assert.True(t, fl.Retryable)
		assert.Equal(t, reconciliation.ErrBatchCancelled.Error(), fl.Reason)
	}
}

func TestGetAggregate_CacheInvalidatedOnReconcile(t *testing.T) {
	f := newFixture(t)
	f.addEmployee("emp-1", employee.StatusActive)
	svc := f.service(1)
	ctx := context.Background()

	_, err := svc.GetAggregate(ctx, "emp-1", march)
	require.ErrorIs(t, err, reconciliation.ErrAggregateMissing)

	_, err = svc.Reconcile(ctx, march, nil)
	require.NoError(t, err)

	a, err := svc.GetAggregate(ctx, "emp-1", march)
	require.NoError(t, err)
	assert.Zero(t, a.PresentDays)
	_, cached := f.cache.Get(AggregateCacheKey("emp-1", march))
	assert.True(t, cached)

	f.addDay(t, "emp-1", 3, attendance.StatusPresent)
	_, err = svc.Reconcile(ctx, march, []string{"emp-1"})
	require.NoError(t, err)
	_, cached = f.cache.Get(AggregateCacheKey("emp-1", march))
	assert.False(t, cached)

	a, err = svc.GetAggregate(ctx, "emp-1", march)
	require.NoError(t, err)
	assert.Equal(t, 1, a.PresentDays)
}

func TestReconcile_InvalidPeriod(t *testing.T) {
	f := newFixture(t)
	_, err := f.service(1).Reconcile(context.Background(), period.Period{}, nil)
	assert.ErrorIs(t, err, period.ErrInvalidPeriod)
}
