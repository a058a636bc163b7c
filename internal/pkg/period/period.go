package period

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

const layout = "2006-01"

var ErrInvalidPeriod = errors.New("invalid period, expected YYYY-MM")

// Period is a calendar month. The zero value is not a valid period.
type Period struct {
	Year  int
	Month time.Month
}

func New(year int, month time.Month) Period {
	return Period{Year: year, Month: month}
}

// Parse reads a "YYYY-MM" string.
func Parse(s string) (Period, error) {
	if len(s) != len(layout) {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	return Period{Year: t.Year(), Month: t.Month()}, nil
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

// Start is midnight UTC of the first day.
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End is midnight UTC of the first day of the next month (exclusive bound).
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}

// Days returns the number of calendar days.
func (p Period) Days() int {
	return p.End().AddDate(0, 0, -1).Day()
}

// Contains reports whether the calendar date of t falls in the period.
func (p Period) Contains(t time.Time) bool {
	return t.Year() == p.Year && t.Month() == p.Month
}

func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Period) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Value stores the period as its "YYYY-MM" text.
func (p Period) Value() (driver.Value, error) {
	return p.String(), nil
}

func (p *Period) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		return p.UnmarshalText([]byte(v))
	case []byte:
		return p.UnmarshalText(v)
	case nil:
		*p = Period{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into period", src)
	}
}
