package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/period"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// PolicyFile is the on-disk shape of the payroll policy.
//
//	workdays: [monday, tuesday, wednesday, thursday, friday]
//	holidays: ["2025-03-31"]
//	session_based_daily_deduction: "25000"
//	unpaid_leave_types: [leave]
type PolicyFile struct {
	Workdays                   []string `yaml:"workdays"`
	Holidays                   []string `yaml:"holidays"`
	SessionBasedDailyDeduction string   `yaml:"session_based_daily_deduction"`
	UnpaidLeaveTypes           []string `yaml:"unpaid_leave_types"`
}

// Policy is the parsed payroll policy.
type Policy struct {
	Calendar                   period.Calendar
	SessionBasedDailyDeduction decimal.Decimal
	UnpaidLeaveTypes           []string
}

// DefaultPolicy is Monday to Friday, no holidays, no session-based deduction
// and no unpaid leave types.
func DefaultPolicy() Policy {
	return Policy{
		Calendar:                   period.DefaultCalendar(),
		SessionBasedDailyDeduction: decimal.Zero,
	}
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

var leaveTypes = map[string]bool{"leave": true, "permission": true, "sick": true}

// LoadPolicy reads the policy file at path. An empty path yields DefaultPolicy.
func LoadPolicy(path string) (Policy, error) {
	if path == "" {
		return DefaultPolicy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read payroll policy: %w", err)
	}
	return ParsePolicy(data)
}

func ParsePolicy(data []byte) (Policy, error) {
	var f PolicyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Policy{}, fmt.Errorf("parse payroll policy: %w", err)
	}

	p := DefaultPolicy()

	if len(f.Workdays) > 0 {
		p.Calendar.Workdays = make(map[time.Weekday]bool, len(f.Workdays))
		for _, d := range f.Workdays {
			wd, ok := weekdays[strings.ToLower(strings.TrimSpace(d))]
			if !ok {
				return Policy{}, fmt.Errorf("payroll policy: unknown weekday %q", d)
			}
			p.Calendar.Workdays[wd] = true
		}
	}

	for _, h := range f.Holidays {
		day, err := time.Parse("2006-01-02", h)
		if err != nil {
			return Policy{}, fmt.Errorf("payroll policy: invalid holiday %q", h)
		}
		p.Calendar.Holidays[day.Format("2006-01-02")] = true
	}

	if f.SessionBasedDailyDeduction != "" {
		rate, err := decimal.NewFromString(f.SessionBasedDailyDeduction)
		if err != nil || rate.IsNegative() {
			return Policy{}, fmt.Errorf("payroll policy: invalid session_based_daily_deduction %q", f.SessionBasedDailyDeduction)
		}
		p.SessionBasedDailyDeduction = rate
	}

	for _, t := range f.UnpaidLeaveTypes {
		t = strings.ToLower(strings.TrimSpace(t))
		if !leaveTypes[t] {
			return Policy{}, fmt.Errorf("payroll policy: unknown leave type %q", t)
		}
		p.UnpaidLeaveTypes = append(p.UnpaidLeaveTypes, t)
	}

	return p, nil
}

// Payroll converts the parsed file into the composer's policy.
func (p Policy) Payroll() payroll.Policy {
	kinds := make([]leave.Kind, 0, len(p.UnpaidLeaveTypes))
	for _, t := range p.UnpaidLeaveTypes {
		kinds = append(kinds, leave.Kind(t))
	}
	return payroll.Policy{
		Calendar:                   p.Calendar,
		SessionBasedDailyDeduction: p.SessionBasedDailyDeduction,
		UnpaidLeaveKinds:           kinds,
	}
}
