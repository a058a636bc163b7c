package reconciliation

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/session"
	"github.com/cmlabs-hris/payroll-engine/internal/repository/memory"
	payrollsvc "github.com/cmlabs-hris/payroll-engine/internal/service/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioEmpID = "0195a1b2-0000-7000-8000-000000000101"

// A session-based month: 20 present days, 2 days of approved leave, one
// unexcused absence, 10 coding sessions at 50,000 and 4 non-coding at 30,000.
func TestReconcileThenCompose_SessionBasedMonth(t *testing.T) {
	f := newFixture(t)
	f.store.AddSession(session.WorkSession{ID: "review", Category: session.CategoryNonCoding, Rate: decimal.NewFromInt(30000), Active: true})
	f.addEmployee(scenarioEmpID, employee.StatusActive)

	for d := 1; d <= 20; d++ {
		f.addDay(t, scenarioEmpID, d, attendance.StatusPresent)
	}
	for _, d := range []int{21, 24} {
		f.addDay(t, scenarioEmpID, d, attendance.StatusOnLeave)
		f.addApprovedLeave(t, scenarioEmpID, d, leave.KindLeave)
	}
	f.addDay(t, scenarioEmpID, 25, attendance.StatusUnexcusedAbsence)

	for d := 1; d <= 10; d++ {
		f.addRealization(t, scenarioEmpID, "coding", d, session.RealizationStatusApproved)
	}
	for d := 11; d <= 14; d++ {
		f.addRealization(t, scenarioEmpID, "review", d, session.RealizationStatusApproved)
	}

	ctx := context.Background()
	res, err := f.service(2).Reconcile(ctx, march, []string{scenarioEmpID})
	require.NoError(t, err)
	require.Len(t, res.Succeeded, 1)

	a := res.Succeeded[0]
	assert.Equal(t, 20, a.PresentDays)
	assert.Equal(t, 2, a.OnLeaveDays)
	assert.Equal(t, 1, a.UnexcusedAbsenceDays)
	assert.Equal(t, 23, a.RecordedDays)
	assert.Equal(t, 10, a.CodingSessions)
	assert.Equal(t, 4, a.NonCodingSessions)
	assert.True(t, a.CodingAmount.Equal(decimal.NewFromInt(500000)))
	assert.True(t, a.NonCodingAmount.Equal(decimal.NewFromInt(120000)))
	assert.True(t, a.Subtotal.Equal(decimal.NewFromInt(620000)))

	policy := payroll.DefaultPolicy()
	policy.SessionBasedDailyDeduction = decimal.NewFromInt(25000)
	payrolls := payrollsvc.NewPayrollService(
		f.store,
		memory.NewPayrollRepository(f.store),
		memory.NewEmployeeRepository(f.store),
		f.aggregateRepo,
		memory.NewPaymentRepository(f.store),
		policy,
		nil,
	)

	draft, err := payrolls.Compose(ctx, payroll.ComposeRequest{EmployeeID: scenarioEmpID, Period: march.String(), CreatedBy: "manager"})
	require.NoError(t, err)

	var income, deductions []payroll.ComponentResponse
	for _, c := range draft.Components {
		switch c.Kind {
		case string(payroll.KindSessionIncome):
			income = append(income, c)
		case string(payroll.KindDeduction):
			deductions = append(deductions, c)
		}
	}
	require.Len(t, income, 1)
	assert.Equal(t, "620000.00", income[0].Amount)
	require.Len(t, deductions, 1)
	assert.Equal(t, "25000.00", deductions[0].Amount)

	// Approved leave days are not deducted.
	assert.Equal(t, 1, draft.DeductibleDays)
	assert.Equal(t, "595000.00", draft.Total)
}
