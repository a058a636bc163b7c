package session

import "errors"

var (
	ErrSessionNotFound             = errors.New("work session not found")
	ErrSessionInactive             = errors.New("work session is inactive")
	ErrSessionWeekdayMismatch      = errors.New("date does not fall on the session weekday")
	ErrRealizationNotFound         = errors.New("session realization not found")
	ErrRealizationExists           = errors.New("session realization already exists for this date")
	ErrRealizationAlreadyProcessed = errors.New("session realization already processed")
)
