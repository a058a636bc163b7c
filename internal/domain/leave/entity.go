package leave

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
)

// Kind is the leave type of a request.
type Kind string

const (
	KindLeave      Kind = "leave"
	KindPermission Kind = "permission"
	KindSick       Kind = "sick"
)

// DayStatus is the attendance status an approved request of this kind
// projects onto its day.
func (k Kind) DayStatus() attendance.DayStatus {
	switch k {
	case KindSick:
		return attendance.StatusSick
	case KindPermission:
		return attendance.StatusPermittedAbsence
	default:
		return attendance.StatusOnLeave
	}
}

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending  LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected LeaveRequestStatus = "rejected"
)

// LeaveRequest covers a single calendar date.
type LeaveRequest struct {
	ID              string
	EmployeeID      string
	Date            time.Time
	Kind            Kind
	Reason          *string
	Status          LeaveRequestStatus
	ApprovedBy      *string
	ReviewedAt      *time.Time
	RejectionReason *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (r LeaveRequest) IsPending() bool {
	return r.Status == LeaveRequestStatusPending
}

// Breakdown counts approved leave days by kind.
type Breakdown struct {
	Leave      int
	Permission int
	Sick       int
}

func (b *Breakdown) Add(k Kind) {
	switch k {
	case KindLeave:
		b.Leave++
	case KindPermission:
		b.Permission++
	case KindSick:
		b.Sick++
	}
}

func (b Breakdown) Count(k Kind) int {
	switch k {
	case KindLeave:
		return b.Leave
	case KindPermission:
		return b.Permission
	case KindSick:
		return b.Sick
	}
	return 0
}

func (b Breakdown) Total() int {
	return b.Leave + b.Permission + b.Sick
}
