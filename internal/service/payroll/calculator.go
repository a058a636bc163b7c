package payroll

import (
	"fmt"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/reconciliation"
	"github.com/shopspring/decimal"
)

// Calculation is a composed payroll before it is persisted. Components carry
// kind, label, amount and position only.
type Calculation struct {
	WorkingDays    int
	LeaveDays      int
	DeductibleDays int
	DailyRate      decimal.Decimal
	LeaveDeduction decimal.Decimal
	Components     []payroll.SalaryComponent
	Total          decimal.Decimal
}

// Calculate derives the components of emp's payroll from its aggregate.
// Amounts are rounded half-up to MoneyScale only where a component is
// stored; the daily rate is kept exact.
func Calculate(emp employee.Employee, agg reconciliation.MonthlyAggregate, policy payroll.Policy, adjustments []payroll.Adjustment) (Calculation, error) {
	calc := Calculation{
		WorkingDays:    policy.Calendar.WorkingDays(agg.Period),
		LeaveDays:      agg.OnLeaveDays + agg.PermittedAbsenceDays + agg.SickDays,
		DeductibleDays: deductibleDays(agg, policy.UnpaidLeaveKinds),
		DailyRate:      decimal.Zero,
		LeaveDeduction: decimal.Zero,
	}

	add := func(kind payroll.ComponentKind, label string, amount decimal.Decimal) {
		calc.Components = append(calc.Components, payroll.SalaryComponent{
			Kind:     kind,
			Label:    label,
			Amount:   amount,
			Position: len(calc.Components),
		})
	}

	switch emp.SalaryType {
	case employee.SalaryTypeFixed:
		add(payroll.KindBasePay, "Base pay", emp.BaseSalary.Round(payroll.MoneyScale))
	case employee.SalaryTypeSessionBased:
		add(payroll.KindSessionIncome, sessionLabel(agg), agg.Subtotal.Round(payroll.MoneyScale))
	default:
		return Calculation{}, fmt.Errorf("unsupported salary type %q", emp.SalaryType)
	}

	for _, adj := range adjustments {
		if adj.Kind != payroll.KindOvertime && adj.Kind != payroll.KindBonus {
			return Calculation{}, fmt.Errorf("%w: kind %q", payroll.ErrInvalidAdjustment, adj.Kind)
		}
		if adj.Amount.IsNegative() {
			return Calculation{}, fmt.Errorf("%w: negative amount", payroll.ErrInvalidAdjustment)
		}
		add(adj.Kind, adj.Label, adj.Amount.Round(payroll.MoneyScale))
	}

	rate, err := dailyRate(emp, policy, calc.WorkingDays, calc.DeductibleDays)
	if err != nil {
		return Calculation{}, err
	}
	calc.DailyRate = rate

	deduction := rate.Mul(decimal.NewFromInt(int64(calc.DeductibleDays))).Round(payroll.MoneyScale)
	if deduction.IsPositive() {
		calc.LeaveDeduction = deduction
		add(payroll.KindDeduction, fmt.Sprintf("Absence deduction (%d days)", calc.DeductibleDays), deduction)
	}

	calc.Total = payroll.SumComponents(calc.Components)
	return calc, nil
}

// deductibleDays is unexcused absences plus approved leave of unpaid kinds.
// Each unpaid kind is capped by the attendance days recorded with its status.
func deductibleDays(agg reconciliation.MonthlyAggregate, unpaid []leave.Kind) int {
	days := agg.UnexcusedAbsenceDays
	approved := leave.Breakdown{
		Leave:      agg.LeaveDays,
		Permission: agg.PermissionDays,
		Sick:       agg.SickLeaveDays,
	}

	seen := make(map[leave.Kind]bool, len(unpaid))
	for _, k := range unpaid {
		if seen[k] {
			continue
		}
		seen[k] = true
		days += min(approved.Count(k), agg.StatusCount(k.DayStatus()))
	}
	return days
}

func dailyRate(emp employee.Employee, policy payroll.Policy, workingDays, deductible int) (decimal.Decimal, error) {
	if emp.DailyDeductionRate != nil {
		return *emp.DailyDeductionRate, nil
	}

	if emp.SalaryType == employee.SalaryTypeSessionBased {
		return policy.SessionBasedDailyDeduction, nil
	}

	if workingDays == 0 {
		if deductible > 0 {
			return decimal.Zero, payroll.ErrNoStandardWorkingDays
		}
		return decimal.Zero, nil
	}
	return emp.BaseSalary.Div(decimal.NewFromInt(int64(workingDays))), nil
}

func sessionLabel(agg reconciliation.MonthlyAggregate) string {
	return fmt.Sprintf("Session income (%d coding, %d non-coding)", agg.CodingSessions, agg.NonCodingSessions)
}
