package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/reconciliation"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/period"
	"github.com/jackc/pgx/v5"
)

type aggregateRepository struct {
	db *database.DB
}

func NewAggregateRepository(db *database.DB) reconciliation.AggregateRepository {
	return &aggregateRepository{db: db}
}

// LockEmployeePeriod implements reconciliation.AggregateRepository.
func (r *aggregateRepository) LockEmployeePeriod(ctx context.Context, employeeID string, p period.Period) error {
	key := fmt.Sprintf("aggregate:%s:%s", employeeID, p)
	if err := advisoryLock(ctx, GetQuerier(ctx, r.db), key); err != nil {
		return fmt.Errorf("failed to lock aggregate period: %w", err)
	}
	return nil
}

const aggregateColumns = `
	id, employee_id, period,
	present_days, permitted_absence_days, sick_days, on_leave_days, unexcused_absence_days,
	recorded_days, worked_minutes,
	leave_days, permission_days, sick_leave_days,
	coding_sessions, non_coding_sessions, coding_amount, non_coding_amount, subtotal,
	created_at, updated_at
`

func scanAggregate(row pgx.Row) (reconciliation.MonthlyAggregate, error) {
	var a reconciliation.MonthlyAggregate
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.Period,
		&a.PresentDays, &a.PermittedAbsenceDays, &a.SickDays, &a.OnLeaveDays, &a.UnexcusedAbsenceDays,
		&a.RecordedDays, &a.WorkedMinutes,
		&a.LeaveDays, &a.PermissionDays, &a.SickLeaveDays,
		&a.CodingSessions, &a.NonCodingSessions, &a.CodingAmount, &a.NonCodingAmount, &a.Subtotal,
		&a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// Upsert implements reconciliation.AggregateRepository. The row keeps its id
// and updated_at when every derived value matches what is stored.
func (r *aggregateRepository) Upsert(ctx context.Context, a reconciliation.MonthlyAggregate) (reconciliation.MonthlyAggregate, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO monthly_aggregates AS m (
			id, employee_id, period,
			present_days, permitted_absence_days, sick_days, on_leave_days, unexcused_absence_days,
			recorded_days, worked_minutes,
			leave_days, permission_days, sick_leave_days,
			coding_sessions, non_coding_sessions, coding_amount, non_coding_amount, subtotal
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18
		)
		ON CONFLICT ON CONSTRAINT monthly_aggregates_employee_period_key DO UPDATE SET
			present_days = EXCLUDED.present_days,
			permitted_absence_days = EXCLUDED.permitted_absence_days,
			sick_days = EXCLUDED.sick_days,
			on_leave_days = EXCLUDED.on_leave_days,
			unexcused_absence_days = EXCLUDED.unexcused_absence_days,
			recorded_days = EXCLUDED.recorded_days,
			worked_minutes = EXCLUDED.worked_minutes,
			leave_days = EXCLUDED.leave_days,
			permission_days = EXCLUDED.permission_days,
			sick_leave_days = EXCLUDED.sick_leave_days,
			coding_sessions = EXCLUDED.coding_sessions,
			non_coding_sessions = EXCLUDED.non_coding_sessions,
			coding_amount = EXCLUDED.coding_amount,
			non_coding_amount = EXCLUDED.non_coding_amount,
			subtotal = EXCLUDED.subtotal,
			updated_at = CASE
				WHEN (
					m.present_days, m.permitted_absence_days, m.sick_days, m.on_leave_days, m.unexcused_absence_days,
					m.recorded_days, m.worked_minutes, m.leave_days, m.permission_days, m.sick_leave_days,
					m.coding_sessions, m.non_coding_sessions, m.coding_amount, m.non_coding_amount, m.subtotal
				) IS DISTINCT FROM (
					EXCLUDED.present_days, EXCLUDED.permitted_absence_days, EXCLUDED.sick_days, EXCLUDED.on_leave_days, EXCLUDED.unexcused_absence_days,
					EXCLUDED.recorded_days, EXCLUDED.worked_minutes, EXCLUDED.leave_days, EXCLUDED.permission_days, EXCLUDED.sick_leave_days,
					EXCLUDED.coding_sessions, EXCLUDED.non_coding_sessions, EXCLUDED.coding_amount, EXCLUDED.non_coding_amount, EXCLUDED.subtotal
				) THEN NOW()
				ELSE m.updated_at
			END
		RETURNING ` + aggregateColumns

	saved, err := scanAggregate(q.QueryRow(ctx, query,
		a.ID, a.EmployeeID, a.Period,
		a.PresentDays, a.PermittedAbsenceDays, a.SickDays, a.OnLeaveDays, a.UnexcusedAbsenceDays,
		a.RecordedDays, a.WorkedMinutes,
		a.LeaveDays, a.PermissionDays, a.SickLeaveDays,
		a.CodingSessions, a.NonCodingSessions, a.CodingAmount, a.NonCodingAmount, a.Subtotal,
	))
	if err != nil {
		return reconciliation.MonthlyAggregate{}, fmt.Errorf("failed to upsert monthly aggregate: %w", err)
	}
	return saved, nil
}

func (r *aggregateRepository) Get(ctx context.Context, employeeID string, p period.Period) (reconciliation.MonthlyAggregate, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + aggregateColumns + ` FROM monthly_aggregates WHERE employee_id = $1 AND period = $2`

	a, err := scanAggregate(q.QueryRow(ctx, query, employeeID, p))
	if err != nil {
		if isNoRows(err) {
			return reconciliation.MonthlyAggregate{}, fmt.Errorf("%w: %s %s", reconciliation.ErrAggregateMissing, employeeID, p)
		}
		return reconciliation.MonthlyAggregate{}, fmt.Errorf("failed to get monthly aggregate: %w", err)
	}
	return a, nil
}

func (r *aggregateRepository) ListByPeriod(ctx context.Context, p period.Period) ([]reconciliation.MonthlyAggregate, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + aggregateColumns + `
		FROM monthly_aggregates
		WHERE period = $1
		ORDER BY employee_id
	`

	rows, err := q.Query(ctx, query, p)
	if err != nil {
		return nil, fmt.Errorf("failed to list monthly aggregates: %w", err)
	}
	defer rows.Close()

	var out []reconciliation.MonthlyAggregate
	for rows.Next() {
		a, err := scanAggregate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
