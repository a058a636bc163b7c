package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/session"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/period"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type sessionRepository struct {
	db *database.DB
}

func NewSessionRepository(db *database.DB) session.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) GetSession(ctx context.Context, id string) (session.WorkSession, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, category, subject, weekday, sequence, start_time, end_time, rate, active, created_at, updated_at
		FROM work_sessions
		WHERE id = $1
	`

	var ws session.WorkSession
	err := q.QueryRow(ctx, query, id).Scan(
		&ws.ID, &ws.Category, &ws.Subject, &ws.Weekday, &ws.Sequence,
		&ws.StartTime, &ws.EndTime, &ws.Rate, &ws.Active, &ws.CreatedAt, &ws.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return session.WorkSession{}, fmt.Errorf("%w: %s", session.ErrSessionNotFound, id)
		}
		return session.WorkSession{}, fmt.Errorf("failed to get work session %s: %w", id, err)
	}
	return ws, nil
}

const realizationColumns = `
	id, employee_id, session_id, date, status, origin, rate, reviewed_by, reviewed_at, created_at, updated_at
`

func scanRealization(row pgx.Row) (session.Realization, error) {
	var rz session.Realization
	err := row.Scan(
		&rz.ID, &rz.EmployeeID, &rz.SessionID, &rz.Date, &rz.Status, &rz.Origin,
		&rz.Rate, &rz.ReviewedBy, &rz.ReviewedAt, &rz.CreatedAt, &rz.UpdatedAt,
	)
	return rz, err
}

func (r *sessionRepository) CreateRealization(ctx context.Context, rz session.Realization) (session.Realization, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO session_realizations (
			id, employee_id, session_id, date, status, origin
		) VALUES (
			$1, $2, $3, $4, $5, $6
		) RETURNING ` + realizationColumns

	created, err := scanRealization(q.QueryRow(ctx, query,
		rz.ID, rz.EmployeeID, rz.SessionID, rz.Date, rz.Status, rz.Origin,
	))
	if err != nil {
		if database.IsUniqueViolation(err, "session_realizations_employee_session_date_key") {
			return session.Realization{}, session.ErrRealizationExists
		}
		return session.Realization{}, fmt.Errorf("failed to create session realization: %w", err)
	}
	return created, nil
}

func (r *sessionRepository) GetRealizationForUpdate(ctx context.Context, id string) (session.Realization, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + realizationColumns + ` FROM session_realizations WHERE id = $1 FOR UPDATE`

	rz, err := scanRealization(q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return session.Realization{}, fmt.Errorf("%w: %s", session.ErrRealizationNotFound, id)
		}
		return session.Realization{}, fmt.Errorf("failed to get session realization %s: %w", id, err)
	}
	return rz, nil
}

func (r *sessionRepository) UpdateRealizationStatus(ctx context.Context, id string, status session.RealizationStatus, rate *decimal.Decimal, reviewedBy string, reviewedAt time.Time) (session.Realization, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE session_realizations
		SET status = $2, rate = $3, reviewed_by = $4, reviewed_at = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + realizationColumns

	rz, err := scanRealization(q.QueryRow(ctx, query, id, status, rate, reviewedBy, reviewedAt))
	if err != nil {
		if isNoRows(err) {
			return session.Realization{}, fmt.Errorf("%w: %s", session.ErrRealizationNotFound, id)
		}
		return session.Realization{}, fmt.Errorf("failed to update session realization %s: %w", id, err)
	}
	return rz, nil
}

// ListApproved implements session.SessionRepository. The rate snapshot taken
// at approval wins over the current session rate.
func (r *sessionRepository) ListApproved(ctx context.Context, employeeID string, p period.Period) ([]session.Compensable, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT sr.id, sr.date, ws.category, COALESCE(sr.rate, ws.rate)
		FROM session_realizations sr
		INNER JOIN work_sessions ws ON ws.id = sr.session_id
		WHERE sr.employee_id = $1 AND sr.status = $2 AND sr.date >= $3 AND sr.date < $4
		ORDER BY sr.date, ws.sequence
	`

	rows, err := q.Query(ctx, query, employeeID, session.RealizationStatusApproved, p.Start(), p.End())
	if err != nil {
		return nil, fmt.Errorf("failed to list approved realizations: %w", err)
	}
	defer rows.Close()

	var out []session.Compensable
	for rows.Next() {
		var c session.Compensable
		if err := rows.Scan(&c.RealizationID, &c.Date, &c.Category, &c.Rate); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
