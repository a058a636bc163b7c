package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/period"
)

type attendanceRepository struct {
	s *Store
}

func NewAttendanceRepository(s *Store) attendance.AttendanceRepository {
	return &attendanceRepository{s: s}
}

func (r *attendanceRepository) GetSiteByEmployeeID(ctx context.Context, employeeID string) (attendance.Site, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	site, ok := r.s.data.sites[employeeID]
	if !ok {
		return attendance.Site{}, attendance.ErrSiteNotAssigned
	}
	return site, nil
}

func (r *attendanceRepository) CreateEvent(ctx context.Context, event attendance.Event) (attendance.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	event.CreatedAt = r.s.now()
	r.s.data.events = append(r.s.data.events, event)
	return event, nil
}

// LockDay is a no-op; Store transactions are already exclusive.
func (r *attendanceRepository) LockDay(ctx context.Context, employeeID string, date time.Time) error {
	return nil
}

func (r *attendanceRepository) GetDay(ctx context.Context, employeeID string, date time.Time) (attendance.Day, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	day, ok := r.s.data.days[dateKey(employeeID, date)]
	if !ok {
		return attendance.Day{}, attendance.ErrAttendanceDayNotFound
	}
	return day, nil
}

func (r *attendanceRepository) UpsertDay(ctx context.Context, day attendance.Day) (attendance.Day, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := dateKey(day.EmployeeID, day.Date)
	now := r.s.now()
	if existing, ok := r.s.data.days[key]; ok {
		day.ID = existing.ID
		day.CreatedAt = existing.CreatedAt
	} else {
		day.CreatedAt = now
	}
	day.UpdatedAt = now
	r.s.data.days[key] = day
	return day, nil
}

func (r *attendanceRepository) ListDays(ctx context.Context, employeeID string, p period.Period) ([]attendance.Day, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []attendance.Day
	for _, d := range r.s.data.days {
		if d.EmployeeID == employeeID && p.Contains(d.Date) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
