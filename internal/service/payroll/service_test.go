package payroll

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payment"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/reconciliation"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/cache"
	"github.com/cmlabs-hris/payroll-engine/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const (
	sessionEmpID = "0195a1b2-0000-7000-8000-000000000001"
	fixedEmpID   = "0195a1b2-0000-7000-8000-000000000002"
	managerID    = "0195a1b2-0000-7000-8000-0000000000aa"
)

type fixture struct {
	store       *memory.Store
	payrollRepo payroll.PayrollRepository
	paymentRepo payment.PaymentRepository
	cache       *cache.Memory[payroll.PayrollResponse]
	service     payroll.PayrollService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.AddEmployee(employee.Employee{
		ID:           sessionEmpID,
		EmployeeCode: "EMP-001",
		FullName:     "Ayu Lestari",
		SalaryType:   employee.SalaryTypeSessionBased,
		Status:       employee.StatusActive,
	})
	store.AddEmployee(employee.Employee{
		ID:           fixedEmpID,
		EmployeeCode: "EMP-002",
		FullName:     "Budi Santoso",
		SalaryType:   employee.SalaryTypeFixed,
		BaseSalary:   dec("5000000"),
		Status:       employee.StatusActive,
	})

	aggregates := memory.NewAggregateRepository(store)
	ctx := context.Background()
	_, err := aggregates.Upsert(ctx, reconciliation.MonthlyAggregate{
		ID:                   "agg-1",
		EmployeeID:           sessionEmpID,
		Period:               march,
		PresentDays:          20,
		UnexcusedAbsenceDays: 1,
		RecordedDays:         21,
		CodingSessions:       8,
		NonCodingSessions:    11,
		CodingAmount:         dec("400000"),
		NonCodingAmount:      dec("220000"),
		Subtotal:             dec("620000"),
	})
	require.NoError(t, err)
	_, err = aggregates.Upsert(ctx, reconciliation.MonthlyAggregate{
		ID:           "agg-2",
		EmployeeID:   fixedEmpID,
		Period:       march,
		PresentDays:  21,
		RecordedDays: 21,
	})
	require.NoError(t, err)

	policy := payroll.DefaultPolicy()
	policy.SessionBasedDailyDeduction = dec("25000")

	f := &fixture{
		store:       store,
		payrollRepo: memory.NewPayrollRepository(store),
		paymentRepo: memory.NewPaymentRepository(store),
		cache:       cache.NewMemory[payroll.PayrollResponse](time.Minute),
	}
	f.service = NewPayrollService(store, f.payrollRepo, memory.NewEmployeeRepository(store), aggregates, f.paymentRepo, policy, f.cache)
	return f
}

func compose(employeeID string) payroll.ComposeRequest {
	return payroll.ComposeRequest{EmployeeID: employeeID, Period: "2025-03", CreatedBy: managerID}
}

func TestCompose_MarchScenario(t *testing.T) {
	f := newFixture(t)

	resp, err := f.service.Compose(context.Background(), compose(sessionEmpID))
	require.NoError(t, err)

	assert.Equal(t, string(payroll.StatusDraft), resp.Status)
	require.Len(t, resp.Components, 2)
	assert.Equal(t, string(payroll.KindSessionIncome), resp.Components[0].Kind)
	assert.Equal(t, "620000.00", resp.Components[0].Amount)
	assert.Equal(t, string(payroll.KindDeduction), resp.Components[1].Kind)
	assert.Equal(t, "25000.00", resp.Components[1].Amount)
	assert.Equal(t, "-25000.00", resp.Components[1].SignedAmount)
	assert.Equal(t, "595000.00", resp.Total)
	assert.Equal(t, 1, resp.DeductibleDays)
	assert.Equal(t, 21, resp.WorkingDays)
}

func TestCompose_AggregateMissing(t *testing.T) {
	f := newFixture(t)
	req := compose(fixedEmpID)
	req.Period = "2025-04"

	_, err := f.service.Compose(context.Background(), req)
	assert.ErrorIs(t, err, reconciliation.ErrAggregateMissing)
}

func TestCompose_RecomposeReplacesComponents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := compose(fixedEmpID)
	req.Adjustments = []payroll.AdjustmentRequest{{Kind: payroll.KindBonus, Label: "Q1 bonus", Amount: dec("250000")}}
	first, err := f.service.Compose(ctx, req)
	require.NoError(t, err)
	require.Len(t, first.Components, 2)

	second, err := f.service.Compose(ctx, compose(fixedEmpID))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	require.Len(t, second.Components, 1)
	assert.Equal(t, "5000000.00", second.Total)

	stored, err := f.payrollRepo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Components, 1)
	assert.True(t, stored.TotalMatches())
}

type failingComponents struct {
	payroll.PayrollRepository
}

func (failingComponents) ReplaceComponents(context.Context, string, []payroll.SalaryComponent) error {
	return errors.New("disk full")
}

func TestCompose_AtomicOnComponentFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	before, err := f.service.Compose(ctx, compose(fixedEmpID))
	require.NoError(t, err)

	broken := NewPayrollService(f.store, failingComponents{f.payrollRepo}, memory.NewEmployeeRepository(f.store),
		memory.NewAggregateRepository(f.store), f.paymentRepo, payroll.DefaultPolicy(), nil)
	req := compose(fixedEmpID)
	req.Adjustments = []payroll.AdjustmentRequest{{Kind: payroll.KindOvertime, Label: "Release", Amount: dec("100000")}}
	_, err = broken.Compose(ctx, req)
	require.Error(t, err)

	stored, err := f.payrollRepo.GetByID(ctx, before.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Total, stored.Total.StringFixed(payroll.MoneyScale))
	assert.Len(t, stored.Components, 1)
}

func TestFinalize_ThenRecomposeIsLocked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft, err := f.service.Compose(ctx, compose(fixedEmpID))
	require.NoError(t, err)

	final, err := f.service.Finalize(ctx, payroll.FinalizeRequest{ID: draft.ID, FinalizedBy: managerID})
	require.NoError(t, err)
	assert.Equal(t, string(payroll.StatusFinal), final.Status)
	require.NotNil(t, final.FinalizedBy)
	assert.Equal(t, managerID, *final.FinalizedBy)

	_, err = f.service.Finalize(ctx, payroll.FinalizeRequest{ID: draft.ID, FinalizedBy: managerID})
	assert.ErrorIs(t, err, payroll.ErrPayrollNotDraft)

	_, err = f.service.Compose(ctx, compose(fixedEmpID))
	assert.ErrorIs(t, err, payroll.ErrPayrollLocked)
}

// finalizeBeforeUpsert finalizes the stored row right before the draft is
// written, the interleaving a concurrent Finalize can produce.
type finalizeBeforeUpsert struct {
	payroll.PayrollRepository
}

func (r finalizeBeforeUpsert) UpsertDraft(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	existing, err := r.GetByEmployeePeriod(ctx, p.EmployeeID, p.Period)
	if err != nil {
		return payroll.Payroll{}, err
	}
	by := managerID
	if _, err := r.UpdateStatus(ctx, existing.ID, payroll.StatusFinal, &by, time.Now()); err != nil {
		return payroll.Payroll{}, err
	}
	return r.PayrollRepository.UpsertDraft(ctx, p)
}

func TestCompose_DoesNotReopenConcurrentlyFinalized(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft, err := f.service.Compose(ctx, compose(fixedEmpID))
	require.NoError(t, err)

	racing := NewPayrollService(f.store, finalizeBeforeUpsert{f.payrollRepo}, memory.NewEmployeeRepository(f.store),
		memory.NewAggregateRepository(f.store), f.paymentRepo, payroll.DefaultPolicy(), nil)
	_, err = racing.Compose(ctx, compose(fixedEmpID))
	assert.ErrorIs(t, err, payroll.ErrPayrollLocked)

	stored, err := f.payrollRepo.GetByID(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.Total, stored.Total.StringFixed(payroll.MoneyScale))
}

func TestFinalize_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.Finalize(context.Background(), payroll.FinalizeRequest{ID: "missing", FinalizedBy: managerID})
	assert.ErrorIs(t, err, payroll.ErrPayrollNotFound)
}

func TestGet_CachedUntilRecompose(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft, err := f.service.Compose(ctx, compose(fixedEmpID))
	require.NoError(t, err)

	got, err := f.service.Get(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.Total, got.Total)
	assert.Nil(t, got.Payment)
	_, cached := f.cache.Get(PayrollCacheKey(draft.ID))
	assert.True(t, cached)

	_, err = f.service.Finalize(ctx, payroll.FinalizeRequest{ID: draft.ID, FinalizedBy: managerID})
	require.NoError(t, err)
	_, cached = f.cache.Get(PayrollCacheKey(draft.ID))
	assert.False(t, cached)

	got, err = f.service.Get(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, string(payroll.StatusFinal), got.Status)
}

func TestListByPeriodAndExport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Compose(ctx, compose(sessionEmpID))
	require.NoError(t, err)
	_, err = f.service.Compose(ctx, compose(fixedEmpID))
	require.NoError(t, err)

	list, err := f.service.ListByPeriod(ctx, march)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	var buf bytes.Buffer
	require.NoError(t, f.service.ExportRegister(ctx, march, &buf))

	wb, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("2025-03", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "base-pay", rows[0][5])
	assert.Equal(t, "EMP-001", rows[1][0])
	assert.Equal(t, "620000", rows[1][6])
	assert.Equal(t, "25000", rows[1][9])
	assert.Equal(t, "595000", rows[1][10])
	assert.Equal(t, "EMP-002", rows[2][0])
}
