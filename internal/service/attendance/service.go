package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/geo"
	"github.com/google/uuid"
)

type AttendanceServiceImpl struct {
	db             database.Transactor
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	now            func() time.Time
}

func NewAttendanceService(
	db database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
) attendance.AttendanceService {
	return newAttendanceService(db, attendanceRepo, employeeRepo)
}

func newAttendanceService(
	db database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		db:             db,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		now:            time.Now,
	}
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.RecordRequest) (attendance.RecordResponse, error) {
	return a.record(ctx, attendance.EventCheckIn, req)
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.RecordRequest) (attendance.RecordResponse, error) {
	return a.record(ctx, attendance.EventCheckOut, req)
}

func (a *AttendanceServiceImpl) record(ctx context.Context, kind attendance.EventKind, req attendance.RecordRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	if err := a.requireActive(ctx, req.EmployeeID); err != nil {
		return attendance.RecordResponse{}, err
	}

	site, err := a.attendanceRepo.GetSiteByEmployeeID(ctx, req.EmployeeID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	nowUTC := a.now().UTC()
	date := attendance.DateOf(nowUTC, site.Location())

	fix := geo.Fix{Latitude: req.Latitude, Longitude: req.Longitude, AccuracyMeters: req.AccuracyMeters}
	outcome := geo.Validate(fix, site.Reference(), site.RadiusMinMeters, site.RadiusMaxMeters)

	var resp attendance.RecordResponse
	err = a.db.WithTransaction(ctx, func(ctx context.Context) error {
		if err := a.attendanceRepo.LockDay(ctx, req.EmployeeID, date); err != nil {
			return err
		}

		day, found, err := a.getDay(ctx, req.EmployeeID, date)
		if err != nil {
			return err
		}

		switch kind {
		case attendance.EventCheckIn:
			if found && day.CheckInAt != nil {
				return attendance.ErrAlreadyCheckedIn
			}
		case attendance.EventCheckOut:
			if !found || day.CheckInAt == nil {
				return attendance.ErrNotCheckedIn
			}
			if day.CheckOutAt != nil {
				return attendance.ErrAlreadyCheckedOut
			}
		}

		event, err := a.attendanceRepo.CreateEvent(ctx, attendance.Event{
			ID:             uuid.Must(uuid.NewV7()).String(),
			EmployeeID:     req.EmployeeID,
			SiteID:         site.ID,
			Kind:           kind,
			RecordedAt:     nowUTC,
			Fix:            fix,
			Source:         req.Source,
			Reference:      site.Reference(),
			RadiusMin:      site.RadiusMinMeters,
			RadiusMax:      site.RadiusMaxMeters,
			Valid:          outcome.Valid,
			DistanceMeters: outcome.DistanceMeters,
		})
		if err != nil {
			return fmt.Errorf("failed to create attendance event: %w", err)
		}
		resp.Event = attendance.NewEventResponse(event)

		// The event is kept even when the fix is rejected; the day is not.
		if !outcome.Valid {
			return nil
		}

		if !found {
			day = attendance.Day{
				ID:         uuid.Must(uuid.NewV7()).String(),
				EmployeeID: req.EmployeeID,
				Date:       date,
			}
		}
		if kind == attendance.EventCheckIn {
			day.Status = attendance.StatusPresent
			day.CheckInAt = &nowUTC
		} else {
			day.CheckOutAt = &nowUTC
		}
		day.WorkedMinutes = attendance.WorkedMinutes(day.CheckInAt, day.CheckOutAt)

		saved, err := a.attendanceRepo.UpsertDay(ctx, day)
		if err != nil {
			return fmt.Errorf("failed to save attendance day: %w", err)
		}
		dayResp := attendance.NewDayResponse(saved)
		resp.Day = &dayResp
		return nil
	})
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	if !outcome.Valid {
		return resp, attendance.ErrOutsideAllowedRadius
	}
	return resp, nil
}

// MarkAbsence implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) MarkAbsence(ctx context.Context, req attendance.MarkAbsenceRequest) (attendance.DayResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.DayResponse{}, err
	}
	if !req.Status.Valid() || req.Status == attendance.StatusPresent {
		return attendance.DayResponse{}, attendance.ErrInvalidAbsenceStatus
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("invalid date: %w", err)
	}

	if _, err := a.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return attendance.DayResponse{}, err
	}

	var saved attendance.Day
	err = a.db.WithTransaction(ctx, func(ctx context.Context) error {
		if err := a.attendanceRepo.LockDay(ctx, req.EmployeeID, date); err != nil {
			return err
		}

		day, found, err := a.getDay(ctx, req.EmployeeID, date)
		if err != nil {
			return err
		}
		if found && day.CheckInAt != nil {
			return attendance.ErrAlreadyCheckedIn
		}
		if !found {
			day = attendance.Day{
				ID:         uuid.Must(uuid.NewV7()).String(),
				EmployeeID: req.EmployeeID,
				Date:       date,
			}
		}
		day.Status = req.Status
		day.Note = req.Note

		saved, err = a.attendanceRepo.UpsertDay(ctx, day)
		return err
	})
	if err != nil {
		return attendance.DayResponse{}, err
	}

	return attendance.NewDayResponse(saved), nil
}

func (a *AttendanceServiceImpl) requireActive(ctx context.Context, employeeID string) error {
	emp, err := a.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return err
	}
	if !emp.IsActive() {
		return employee.ErrEmployeeInactive
	}
	return nil
}

func (a *AttendanceServiceImpl) getDay(ctx context.Context, employeeID string, date time.Time) (attendance.Day, bool, error) {
	day, err := a.attendanceRepo.GetDay(ctx, employeeID, date)
	if errors.Is(err, attendance.ErrAttendanceDayNotFound) {
		return attendance.Day{}, false, nil
	}
	if err != nil {
		return attendance.Day{}, false, fmt.Errorf("failed to get attendance day: %w", err)
	}
	return day, true, nil
}
