package session

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/session"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SessionServiceImpl struct {
	db           database.Transactor
	sessionRepo  session.SessionRepository
	employeeRepo employee.EmployeeRepository
	now          func() time.Time
}

func NewSessionService(
	db database.Transactor,
	sessionRepo session.SessionRepository,
	employeeRepo employee.EmployeeRepository,
) session.SessionService {
	return &SessionServiceImpl{
		db:           db,
		sessionRepo:  sessionRepo,
		employeeRepo: employeeRepo,
		now:          time.Now,
	}
}

// SubmitRealization implements session.SessionService.
func (s *SessionServiceImpl) SubmitRealization(ctx context.Context, req session.SubmitRealizationRequest) (session.RealizationResponse, error) {
	if err := req.Validate(); err != nil {
		return session.RealizationResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return session.RealizationResponse{}, err
	}
	if !emp.IsActive() {
		return session.RealizationResponse{}, employee.ErrEmployeeInactive
	}

	ws, err := s.sessionRepo.GetSession(ctx, req.SessionID)
	if err != nil {
		return session.RealizationResponse{}, err
	}
	if !ws.Active {
		return session.RealizationResponse{}, session.ErrSessionInactive
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return session.RealizationResponse{}, fmt.Errorf("failed to parse date: %w", err)
	}
	if date.Weekday() != ws.Weekday {
		return session.RealizationResponse{}, fmt.Errorf("%w: %s is a %s, session runs on %s",
			session.ErrSessionWeekdayMismatch, req.Date, date.Weekday(), ws.Weekday)
	}

	created, err := s.sessionRepo.CreateRealization(ctx, session.Realization{
		ID:         uuid.Must(uuid.NewV7()).String(),
		EmployeeID: emp.ID,
		SessionID:  ws.ID,
		Date:       date,
		Status:     session.RealizationStatusPending,
		Origin:     req.Origin,
	})
	if err != nil {
		return session.RealizationResponse{}, fmt.Errorf("failed to create session realization: %w", err)
	}

	return session.NewRealizationResponse(created), nil
}

// Review implements session.SessionService. Approval copies the session's
// current rate onto the realization.
func (s *SessionServiceImpl) Review(ctx context.Context, req session.ReviewRequest) (session.RealizationResponse, error) {
	if err := req.Validate(); err != nil {
		return session.RealizationResponse{}, err
	}

	var updated session.Realization
	err := s.db.WithTransaction(ctx, func(ctx context.Context) error {
		rz, err := s.sessionRepo.GetRealizationForUpdate(ctx, req.ID)
		if err != nil {
			return err
		}
		if !rz.IsPending() {
			return session.ErrRealizationAlreadyProcessed
		}

		status := session.RealizationStatusRejected
		var rate *decimal.Decimal
		if req.Action == "approve" {
			ws, err := s.sessionRepo.GetSession(ctx, rz.SessionID)
			if err != nil {
				return err
			}
			status = session.RealizationStatusApproved
			r := ws.Rate
			rate = &r
		}

		updated, err = s.sessionRepo.UpdateRealizationStatus(ctx, rz.ID, status, rate, req.ReviewerID, s.now().UTC())
		if err != nil {
			return fmt.Errorf("failed to update session realization: %w", err)
		}
		return nil
	})
	if err != nil {
		return session.RealizationResponse{}, err
	}

	return session.NewRealizationResponse(updated), nil
}
