package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in errors
	ErrAlreadyCheckedIn     = errors.New("you have already checked in today")
	ErrOutsideAllowedRadius = errors.New("you are outside the allowed radius")
	ErrNotCheckedIn         = errors.New("you have not checked in yet")
	ErrAlreadyCheckedOut    = errors.New("you have already checked out")
	ErrSiteNotAssigned      = errors.New("no attendance site assigned to employee")

	// General errors
	ErrAttendanceDayNotFound = errors.New("attendance day not found")
	ErrInvalidAbsenceStatus  = errors.New("absence status must not be present")
)
