package attendance

import (
	"context"
	"time"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// ClockIn closes any open session at now and opens a new one.
	ClockIn(ctx context.Context, employeeID string, now time.Time) (Session, error)

	ClockOut(ctx context.Context, employeeID string, sessionID string, now time.Time) (Session, error)

	// CurrentSession returns nil when the employee is clocked out.
	CurrentSession(ctx context.Context, employeeID string) (*Session, error)

	DailySummary(ctx context.Context, employeeID string, shiftDay time.Time) (DailySummary, error)

	// DailyRoster summarises one shift day for every active employee, or only
	// for the direct reports of managerEmployeeID when it is set.
	DailyRoster(ctx context.Context, shiftDay time.Time, managerEmployeeID *string) ([]RosterEntry, error)

	MonthlySummary(ctx context.Context, employeeID string, year int, month time.Month) (MonthlySummary, error)
}
