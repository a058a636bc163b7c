package attendance

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/geo"
)

type DayStatus string

const (
	StatusPresent          DayStatus = "present"
	StatusPermittedAbsence DayStatus = "permitted-absence"
	StatusSick             DayStatus = "sick"
	StatusOnLeave          DayStatus = "on-leave"
	StatusUnexcusedAbsence DayStatus = "unexcused-absence"
)

// DayStatuses lists every status in reporting order.
var DayStatuses = []DayStatus{
	StatusPresent,
	StatusPermittedAbsence,
	StatusSick,
	StatusOnLeave,
	StatusUnexcusedAbsence,
}

func (s DayStatus) Valid() bool {
	for _, st := range DayStatuses {
		if s == st {
			return true
		}
	}
	return false
}

type EventKind string

const (
	EventCheckIn  EventKind = "check-in"
	EventCheckOut EventKind = "check-out"
)

type Source string

const (
	SourceMobile Source = "mobile"
	SourceWeb    Source = "web"
)

// Site is the geofence an employee checks in against.
type Site struct {
	ID              string
	Name            string
	Latitude        float64
	Longitude       float64
	RadiusMinMeters float64
	RadiusMaxMeters float64
	Timezone        string
}

func (s Site) Reference() geo.Point {
	return geo.Point{Latitude: s.Latitude, Longitude: s.Longitude}
}

// Location falls back to UTC when the site timezone is unknown.
func (s Site) Location() *time.Location {
	if s.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Event is one check-in or check-out. Events are append-only and keep the
// geofence inputs and outcome they were judged with.
type Event struct {
	ID             string
	EmployeeID     string
	SiteID         string
	Kind           EventKind
	RecordedAt     time.Time
	Fix            geo.Fix
	Source         Source
	Reference      geo.Point
	RadiusMin      float64
	RadiusMax      float64
	Valid          bool
	DistanceMeters float64
	CreatedAt      time.Time
}

// Day is the per employee, per calendar date projection.
type Day struct {
	ID            string
	EmployeeID    string
	Date          time.Time
	Status        DayStatus
	CheckInAt     *time.Time
	CheckOutAt    *time.Time
	WorkedMinutes *int
	Note          *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// WorkedMinutes is out minus in in whole minutes, clamped at zero. It is nil
// until both ends are known.
func WorkedMinutes(checkIn, checkOut *time.Time) *int {
	if checkIn == nil || checkOut == nil {
		return nil
	}
	m := int(checkOut.Sub(*checkIn) / time.Minute)
	if m < 0 {
		m = 0
	}
	return &m
}

// DateOf returns the calendar date of t in loc as midnight UTC.
func DateOf(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}
