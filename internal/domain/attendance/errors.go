package attendance

import "errors"

// Attendance domain errors
var (
	ErrSessionNotFound          = errors.New("attendance session not found")
	ErrSessionAlreadyClosed     = errors.New("attendance session is already closed")
	ErrClockOutBeforeShiftStart = errors.New("cannot clock out before the shift starts")
	ErrOpenSessionExists        = errors.New("employee already has an open attendance session")
)
