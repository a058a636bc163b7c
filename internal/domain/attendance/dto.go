package attendance

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
)

type RecordRequest struct {
	EmployeeID     string  `json:"-" validate:"required"`
	Latitude       float64 `json:"latitude" validate:"latitude"`
	Longitude      float64 `json:"longitude" validate:"longitude"`
	AccuracyMeters float64 `json:"accuracy_meters" validate:"gte=0"`
	Source         Source  `json:"source" validate:"required,oneof=mobile web"`
}

func (r *RecordRequest) Validate() error {
	return validator.Struct(r)
}

type MarkAbsenceRequest struct {
	EmployeeID string    `json:"employee_id" validate:"required,uuid"`
	Date       string    `json:"date" validate:"required,date"`
	Status     DayStatus `json:"status" validate:"required"`
	Note       *string   `json:"note,omitempty" validate:"omitempty,max=500"`
}

func (r *MarkAbsenceRequest) Validate() error {
	return validator.Struct(r)
}

type EventResponse struct {
	ID             string  `json:"id"`
	Kind           string  `json:"kind"`
	RecordedAt     string  `json:"recorded_at"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	AccuracyMeters float64 `json:"accuracy_meters"`
	Source         string  `json:"source"`
	Valid          bool    `json:"valid"`
	DistanceMeters float64 `json:"distance_meters"`
	RadiusMin      float64 `json:"radius_min_meters"`
	RadiusMax      float64 `json:"radius_max_meters"`
}

type DayResponse struct {
	EmployeeID    string  `json:"employee_id"`
	Date          string  `json:"date"`
	Status        string  `json:"status"`
	CheckInAt     *string `json:"check_in_at,omitempty"`
	CheckOutAt    *string `json:"check_out_at,omitempty"`
	WorkedMinutes *int    `json:"worked_minutes,omitempty"`
	Note          *string `json:"note,omitempty"`
}

type RecordResponse struct {
	Event EventResponse `json:"event"`
	Day   *DayResponse  `json:"day,omitempty"`
}

func NewEventResponse(e Event) EventResponse {
	return EventResponse{
		ID:             e.ID,
		Kind:           string(e.Kind),
		RecordedAt:     e.RecordedAt.UTC().Format(time.RFC3339),
		Latitude:       e.Fix.Latitude,
		Longitude:      e.Fix.Longitude,
		AccuracyMeters: e.Fix.AccuracyMeters,
		Source:         string(e.Source),
		Valid:          e.Valid,
		DistanceMeters: e.DistanceMeters,
		RadiusMin:      e.RadiusMin,
		RadiusMax:      e.RadiusMax,
	}
}

func NewDayResponse(d Day) DayResponse {
	return DayResponse{
		EmployeeID:    d.EmployeeID,
		Date:          d.Date.Format("2006-01-02"),
		Status:        string(d.Status),
		CheckInAt:     formatTime(d.CheckInAt),
		CheckOutAt:    formatTime(d.CheckOutAt),
		WorkedMinutes: d.WorkedMinutes,
		Note:          d.Note,
	}
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
