package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/period"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// GetSiteByEmployeeID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetSiteByEmployeeID(ctx context.Context, employeeID string) (attendance.Site, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT s.id, s.name, s.latitude, s.longitude, s.radius_min_meters, s.radius_max_meters, s.timezone
		FROM employees e
		INNER JOIN attendance_sites s ON s.id = e.site_id
		WHERE e.id = $1
	`

	var site attendance.Site
	err := q.QueryRow(ctx, query, employeeID).Scan(
		&site.ID, &site.Name, &site.Latitude, &site.Longitude,
		&site.RadiusMinMeters, &site.RadiusMaxMeters, &site.Timezone,
	)
	if err != nil {
		if isNoRows(err) {
			return attendance.Site{}, attendance.ErrSiteNotAssigned
		}
		return attendance.Site{}, fmt.Errorf("failed to get attendance site: %w", err)
	}
	return site, nil
}

// CreateEvent implements attendance.AttendanceRepository.
func (a *attendanceRepository) CreateEvent(ctx context.Context, event attendance.Event) (attendance.Event, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_events (
			id, employee_id, site_id, kind, recorded_at,
			latitude, longitude, accuracy_meters, source,
			reference_latitude, reference_longitude, radius_min_meters, radius_max_meters,
			valid, distance_meters
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		) RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		event.ID, event.EmployeeID, event.SiteID, event.Kind, event.RecordedAt,
		event.Fix.Latitude, event.Fix.Longitude, event.Fix.AccuracyMeters, event.Source,
		event.Reference.Latitude, event.Reference.Longitude, event.RadiusMin, event.RadiusMax,
		event.Valid, event.DistanceMeters,
	).Scan(&event.CreatedAt)
	if err != nil {
		return attendance.Event{}, fmt.Errorf("failed to create attendance event: %w", err)
	}
	return event, nil
}

// LockDay implements attendance.AttendanceRepository.
func (a *attendanceRepository) LockDay(ctx context.Context, employeeID string, date time.Time) error {
	key := fmt.Sprintf("attendance_day:%s:%s", employeeID, date.Format("2006-01-02"))
	if err := advisoryLock(ctx, GetQuerier(ctx, a.db), key); err != nil {
		return fmt.Errorf("failed to lock attendance day: %w", err)
	}
	return nil
}

const dayColumns = `
	id, employee_id, date, status, check_in_at, check_out_at, worked_minutes, note, created_at, updated_at
`

func scanDay(row pgx.Row) (attendance.Day, error) {
	var d attendance.Day
	err := row.Scan(
		&d.ID, &d.EmployeeID, &d.Date, &d.Status, &d.CheckInAt, &d.CheckOutAt,
		&d.WorkedMinutes, &d.Note, &d.CreatedAt, &d.UpdatedAt,
	)
	return d, err
}

// GetDay implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetDay(ctx context.Context, employeeID string, date time.Time) (attendance.Day, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + dayColumns + ` FROM attendance_days WHERE employee_id = $1 AND date = $2`

	d, err := scanDay(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if isNoRows(err) {
			return attendance.Day{}, attendance.ErrAttendanceDayNotFound
		}
		return attendance.Day{}, fmt.Errorf("failed to get attendance day: %w", err)
	}
	return d, nil
}

// UpsertDay implements attendance.AttendanceRepository.
func (a *attendanceRepository) UpsertDay(ctx context.Context, day attendance.Day) (attendance.Day, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_days (
			id, employee_id, date, status, check_in_at, check_out_at, worked_minutes, note
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
		ON CONFLICT ON CONSTRAINT attendance_days_employee_date_key DO UPDATE SET
			status = EXCLUDED.status,
			check_in_at = EXCLUDED.check_in_at,
			check_out_at = EXCLUDED.check_out_at,
			worked_minutes = EXCLUDED.worked_minutes,
			note = EXCLUDED.note,
			updated_at = NOW()
		RETURNING ` + dayColumns

	saved, err := scanDay(q.QueryRow(ctx, query,
		day.ID, day.EmployeeID, day.Date, day.Status, day.CheckInAt, day.CheckOutAt, day.WorkedMinutes, day.Note,
	))
	if err != nil {
		return attendance.Day{}, fmt.Errorf("failed to upsert attendance day: %w", err)
	}
	return saved, nil
}

// ListDays implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListDays(ctx context.Context, employeeID string, p period.Period) ([]attendance.Day, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + dayColumns + `
		FROM attendance_days
		WHERE employee_id = $1 AND date >= $2 AND date < $3
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, employeeID, p.Start(), p.End())
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance days: %w", err)
	}
	defer rows.Close()

	var days []attendance.Day
	for rows.Next() {
		d, err := scanDay(rows)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}
