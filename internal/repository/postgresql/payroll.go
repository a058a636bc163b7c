package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/period"
	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// LockEmployeePeriod implements payroll.PayrollRepository.
func (r *payrollRepository) LockEmployeePeriod(ctx context.Context, employeeID string, p period.Period) error {
	key := fmt.Sprintf("payroll:%s:%s", employeeID, p)
	if err := advisoryLock(ctx, GetQuerier(ctx, r.db), key); err != nil {
		return fmt.Errorf("failed to lock payroll period: %w", err)
	}
	return nil
}

// ========== PAYROLL ==========

const payrollColumns = `
	id, employee_id, period, status, working_days, leave_days, deductible_days,
	daily_rate, leave_deduction, total, created_by, finalized_by, finalized_at,
	created_at, updated_at
`

func scanPayroll(row pgx.Row) (payroll.Payroll, error) {
	var p payroll.Payroll
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.Period, &p.Status, &p.WorkingDays, &p.LeaveDays, &p.DeductibleDays,
		&p.DailyRate, &p.LeaveDeduction, &p.Total, &p.CreatedBy, &p.FinalizedBy, &p.FinalizedAt,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *payrollRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, p period.Period) (payroll.Payroll, error) {
	query := `SELECT ` + payrollColumns + ` FROM payrolls WHERE employee_id = $1 AND period = $2`
	return r.getOne(ctx, query, fmt.Sprintf("%s %s", employeeID, p), employeeID, p)
}

func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.Payroll, error) {
	query := `SELECT ` + payrollColumns + ` FROM payrolls WHERE id = $1`
	return r.getOne(ctx, query, id, id)
}

func (r *payrollRepository) GetByIDForUpdate(ctx context.Context, id string) (payroll.Payroll, error) {
	query := `SELECT ` + payrollColumns + ` FROM payrolls WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id, id)
}

func (r *payrollRepository) getOne(ctx context.Context, query string, ref string, args ...interface{}) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanPayroll(q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return payroll.Payroll{}, fmt.Errorf("%w: %s", payroll.ErrPayrollNotFound, ref)
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get payroll: %w", err)
	}

	components, err := r.listComponents(ctx, []string{p.ID})
	if err != nil {
		return payroll.Payroll{}, err
	}
	p.Components = components[p.ID]
	return p, nil
}

func (r *payrollRepository) ListByPeriod(ctx context.Context, p period.Period) ([]payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `
		FROM payrolls
		WHERE period = $1
		ORDER BY employee_id
	`

	rows, err := q.Query(ctx, query, p)
	if err != nil {
		return nil, fmt.Errorf("failed to list payrolls: %w", err)
	}
	defer rows.Close()

	var payrolls []payroll.Payroll
	var ids []string
	for rows.Next() {
		pr, err := scanPayroll(rows)
		if err != nil {
			return nil, err
		}
		payrolls = append(payrolls, pr)
		ids = append(ids, pr.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	components, err := r.listComponents(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range payrolls {
		payrolls[i].Components = components[payrolls[i].ID]
	}
	return payrolls, nil
}

// UpsertDraft implements payroll.PayrollRepository. An existing draft keeps
// its id and creation time; an existing final or locked row is left alone
// and reported as payroll.ErrPayrollLocked.
func (r *payrollRepository) UpsertDraft(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payrolls (
			id, employee_id, period, status, working_days, leave_days, deductible_days,
			daily_rate, leave_deduction, total, created_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
		ON CONFLICT ON CONSTRAINT payrolls_employee_period_key DO UPDATE SET
			status = EXCLUDED.status,
			working_days = EXCLUDED.working_days,
			leave_days = EXCLUDED.leave_days,
			deductible_days = EXCLUDED.deductible_days,
			daily_rate = EXCLUDED.daily_rate,
			leave_deduction = EXCLUDED.leave_deduction,
			total = EXCLUDED.total,
			created_by = EXCLUDED.created_by,
			finalized_by = NULL,
			finalized_at = NULL,
			updated_at = NOW()
		WHERE payrolls.status = 'draft'
		RETURNING ` + payrollColumns

	saved, err := scanPayroll(q.QueryRow(ctx, query,
		p.ID, p.EmployeeID, p.Period, payroll.StatusDraft, p.WorkingDays, p.LeaveDays, p.DeductibleDays,
		p.DailyRate, p.LeaveDeduction, p.Total, p.CreatedBy,
	))
	if err != nil {
		if isNoRows(err) {
			return payroll.Payroll{}, fmt.Errorf("%w: %s %s", payroll.ErrPayrollLocked, p.EmployeeID, p.Period)
		}
		return payroll.Payroll{}, fmt.Errorf("failed to upsert payroll: %w", err)
	}

	components, err := r.listComponents(ctx, []string{saved.ID})
	if err != nil {
		return payroll.Payroll{}, err
	}
	saved.Components = components[saved.ID]
	return saved, nil
}

func (r *payrollRepository) UpdateStatus(ctx context.Context, id string, status payroll.Status, finalizedBy *string, at time.Time) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payrolls
		SET status = $2,
			finalized_by = CASE WHEN $2 = 'final' THEN $3 ELSE finalized_by END,
			finalized_at = CASE WHEN $2 = 'final' THEN $4::timestamptz ELSE finalized_at END,
			updated_at = $4
		WHERE id = $1
		RETURNING ` + payrollColumns

	saved, err := scanPayroll(q.QueryRow(ctx, query, id, string(status), finalizedBy, at))
	if err != nil {
		if isNoRows(err) {
			return payroll.Payroll{}, fmt.Errorf("%w: %s", payroll.ErrPayrollNotFound, id)
		}
		return payroll.Payroll{}, fmt.Errorf("failed to update payroll status: %w", err)
	}

	components, err := r.listComponents(ctx, []string{saved.ID})
	if err != nil {
		return payroll.Payroll{}, err
	}
	saved.Components = components[saved.ID]
	return saved, nil
}

// ========== COMPONENTS ==========

func (r *payrollRepository) ReplaceComponents(ctx context.Context, payrollID string, cs []payroll.SalaryComponent) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM salary_components WHERE payroll_id = $1`, payrollID); err != nil {
		return fmt.Errorf("failed to delete salary components: %w", err)
	}
	if len(cs) == 0 {
		return nil
	}

	valueStrings := make([]string, 0, len(cs))
	valueArgs := make([]interface{}, 0, len(cs)*6)

	for i, c := range cs {
		base := i * 6
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6,
		))
		valueArgs = append(valueArgs,
			c.ID,
			payrollID,
			string(c.Kind),
			c.Label,
			c.Amount,
			c.Position,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO salary_components (id, payroll_id, kind, label, amount, position)
		VALUES %s
	`, strings.Join(valueStrings, ", "))

	if _, err := q.Exec(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("failed to insert salary components: %w", err)
	}
	return nil
}

// listComponents loads the components of payrollIDs keyed by payroll id, in
// position order.
func (r *payrollRepository) listComponents(ctx context.Context, payrollIDs []string) (map[string][]payroll.SalaryComponent, error) {
	out := make(map[string][]payroll.SalaryComponent, len(payrollIDs))
	if len(payrollIDs) == 0 {
		return out, nil
	}
	for _, id := range payrollIDs {
		out[id] = []payroll.SalaryComponent{}
	}

	ids := canonicalIDs(payrollIDs)
	if len(ids) == 0 {
		return out, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, payroll_id, kind, label, amount, position, created_at
		FROM salary_components
		WHERE payroll_id = ANY($1::uuid[])
		ORDER BY payroll_id, position
	`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary components: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c payroll.SalaryComponent
		if err := rows.Scan(&c.ID, &c.PayrollID, &c.Kind, &c.Label, &c.Amount, &c.Position, &c.CreatedAt); err != nil {
			return nil, err
		}
		out[c.PayrollID] = append(out[c.PayrollID], c)
	}
	return out, rows.Err()
}
