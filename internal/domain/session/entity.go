package session

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryCoding    Category = "coding"
	CategoryNonCoding Category = "non-coding"
)

// WorkSession is a recurring schedule slot paid per occurrence.
type WorkSession struct {
	ID        string
	Category  Category
	Subject   string
	Weekday   time.Weekday
	Sequence  int
	StartTime string // "15:04"
	EndTime   string
	Rate      decimal.Decimal
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type RealizationStatus string

const (
	RealizationStatusPending  RealizationStatus = "pending"
	RealizationStatusApproved RealizationStatus = "approved"
	RealizationStatusRejected RealizationStatus = "rejected"
)

type Origin string

const (
	OriginManual       Origin = "manual"
	OriginSelfReported Origin = "self-reported"
)

// Realization is an employee attending a WorkSession on a date. The session
// rate is copied onto the realization when it is approved, so later rate
// edits do not change months already worked.
type Realization struct {
	ID         string
	EmployeeID string
	SessionID  string
	Date       time.Time
	Status     RealizationStatus
	Origin     Origin
	Rate       *decimal.Decimal
	ReviewedBy *string
	ReviewedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (r Realization) IsPending() bool {
	return r.Status == RealizationStatusPending
}

// Compensable is an approved realization as the reconciler sees it.
type Compensable struct {
	RealizationID string
	Date          time.Time
	Category      Category
	Rate          decimal.Decimal
}
