package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/google/uuid"
)

type LeaveServiceImpl struct {
	db             database.Transactor
	leaveRepo      leave.LeaveRequestRepository
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	now            func() time.Time
}

func NewLeaveService(
	db database.Transactor,
	leaveRepo leave.LeaveRequestRepository,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
) leave.LeaveService {
	return &LeaveServiceImpl{
		db:             db,
		leaveRepo:      leaveRepo,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		now:            time.Now,
	}
}

// Submit implements leave.LeaveService.
func (s *LeaveServiceImpl) Submit(ctx context.Context, req leave.SubmitRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !emp.IsActive() {
		return leave.LeaveRequestResponse{}, employee.ErrEmployeeInactive
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to parse date: %w", err)
	}

	created, err := s.leaveRepo.Create(ctx, leave.LeaveRequest{
		ID:         uuid.Must(uuid.NewV7()).String(),
		EmployeeID: emp.ID,
		Date:       date,
		Kind:       req.Kind,
		Reason:     req.Reason,
		Status:     leave.LeaveRequestStatusPending,
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return leave.NewLeaveRequestResponse(created), nil
}

// Review implements leave.LeaveService.
func (s *LeaveServiceImpl) Review(ctx context.Context, req leave.ReviewRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	var updated leave.LeaveRequest
	err := s.db.WithTransaction(ctx, func(ctx context.Context) error {
		request, err := s.leaveRepo.GetByIDForUpdate(ctx, req.ID)
		if err != nil {
			return err
		}
		if !request.IsPending() {
			return leave.ErrLeaveRequestAlreadyProcessed
		}

		reviewedAt := s.now().UTC()
		if req.Action == "reject" {
			updated, err = s.leaveRepo.UpdateStatus(ctx, request.ID, leave.LeaveRequestStatusRejected, nil, reviewedAt, req.RejectionReason)
			if err != nil {
				return fmt.Errorf("failed to update leave request: %w", err)
			}
			return nil
		}

		reviewer := req.ReviewerID
		updated, err = s.leaveRepo.UpdateStatus(ctx, request.ID, leave.LeaveRequestStatusApproved, &reviewer, reviewedAt, nil)
		if err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}

		return s.projectOntoDay(ctx, updated)
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return leave.NewLeaveRequestResponse(updated), nil
}

// projectOntoDay sets the attendance status of an approved request's date.
// Check-in times already recorded for the day are kept.
func (s *LeaveServiceImpl) projectOntoDay(ctx context.Context, r leave.LeaveRequest) error {
	if err := s.attendanceRepo.LockDay(ctx, r.EmployeeID, r.Date); err != nil {
		return err
	}

	day, err := s.attendanceRepo.GetDay(ctx, r.EmployeeID, r.Date)
	if errors.Is(err, attendance.ErrAttendanceDayNotFound) {
		day = attendance.Day{
			ID:         uuid.Must(uuid.NewV7()).String(),
			EmployeeID: r.EmployeeID,
			Date:       r.Date,
		}
	} else if err != nil {
		return fmt.Errorf("failed to get attendance day: %w", err)
	}

	day.Status = r.Kind.DayStatus()
	if _, err := s.attendanceRepo.UpsertDay(ctx, day); err != nil {
		return fmt.Errorf("failed to project leave onto attendance: %w", err)
	}
	return nil
}
