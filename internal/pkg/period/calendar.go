package period

import "time"

// Calendar decides which days count as standard working days.
type Calendar struct {
	Workdays map[time.Weekday]bool
	Holidays map[string]bool // keyed by "2006-01-02"
}

// DefaultCalendar is Monday to Friday with no holidays.
func DefaultCalendar() Calendar {
	return Calendar{
		Workdays: map[time.Weekday]bool{
			time.Monday:    true,
			time.Tuesday:   true,
			time.Wednesday: true,
			time.Thursday:  true,
			time.Friday:    true,
		},
		Holidays: map[string]bool{},
	}
}

func (c Calendar) IsWorkingDay(d time.Time) bool {
	return c.Workdays[d.Weekday()] && !c.Holidays[d.Format("2006-01-02")]
}

// WorkingDays counts the standard working days of p.
func (c Calendar) WorkingDays(p Period) int {
	n := 0
	for d := p.Start(); d.Before(p.End()); d = d.AddDate(0, 0, 1) {
		if c.IsWorkingDay(d) {
			n++
		}
	}
	return n
}
