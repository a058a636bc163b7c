package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/period"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestColumns = `
	id, employee_id, date, kind, reason, status, approved_by, reviewed_at, rejection_reason, created_at, updated_at
`

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	err := row.Scan(
		&lr.ID,
		&lr.EmployeeID,
		&lr.Date,
		&lr.Kind,
		&lr.Reason,
		&lr.Status,
		&lr.ApprovedBy,
		&lr.ReviewedAt,
		&lr.RejectionReason,
		&lr.CreatedAt,
		&lr.UpdatedAt,
	)
	return lr, err
}

func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, employee_id, date, kind, reason, status
		) VALUES (
			$1, $2, $3, $4, $5, $6
		) RETURNING ` + leaveRequestColumns

	created, err := scanLeaveRequest(q.QueryRow(ctx, query,
		request.ID, request.EmployeeID, request.Date, request.Kind, request.Reason, request.Status,
	))
	if err != nil {
		if database.IsUniqueViolation(err, "leave_requests_employee_date_active_key") {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestExists
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return created, nil
}

func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return r.get(ctx, id, "")
}

func (r *leaveRequestRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return r.get(ctx, id, "FOR UPDATE")
}

func (r *leaveRequestRepositoryImpl) get(ctx context.Context, id string, lock string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE id = $1 ` + lock

	lr, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return leave.LeaveRequest{}, fmt.Errorf("%w: %s", leave.ErrLeaveRequestNotFound, id)
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request %s: %w", id, err)
	}
	return lr, nil
}

func (r *leaveRequestRepositoryImpl) UpdateStatus(ctx context.Context, id string, status leave.LeaveRequestStatus, approvedBy *string, reviewedAt time.Time, rejectionReason *string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $2, approved_by = $3, reviewed_at = $4, rejection_reason = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + leaveRequestColumns

	lr, err := scanLeaveRequest(q.QueryRow(ctx, query, id, status, approvedBy, reviewedAt, rejectionReason))
	if err != nil {
		if isNoRows(err) {
			return leave.LeaveRequest{}, fmt.Errorf("%w: %s", leave.ErrLeaveRequestNotFound, id)
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to update leave request %s: %w", id, err)
	}
	return lr, nil
}

func (r *leaveRequestRepositoryImpl) ListApproved(ctx context.Context, employeeID string, p period.Period) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE employee_id = $1 AND status = $2 AND date >= $3 AND date < $4
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, employeeID, leave.LeaveRequestStatusApproved, p.Start(), p.End())
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave: %w", err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, lr)
	}
	return requests, rows.Err()
}
