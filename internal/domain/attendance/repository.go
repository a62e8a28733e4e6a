package attendance

import (
	"context"
	"time"
)

// SessionRepository defines data access methods for attendance sessions.
// Sessions are never deleted.
type SessionRepository interface {
	// Create inserts a new open session. A second open session for the same
	// employee fails with ErrOpenSessionExists.
	Create(ctx context.Context, session Session) (Session, error)

	GetByID(ctx context.Context, id string) (Session, error)

	// GetOpenByEmployee returns nil when the employee has no open session.
	GetOpenByEmployee(ctx context.Context, employeeID string) (*Session, error)

	// MaxSequence returns 0 when the employee has no session on that shift day.
	MaxSequence(ctx context.Context, employeeID string, shiftDay time.Time) (int, error)

	// Close persists the clock-out of an open session. It fails with
	// ErrSessionAlreadyClosed when the stored row is already closed.
	Close(ctx context.Context, session Session) error

	ListByEmployeeAndDay(ctx context.Context, employeeID string, shiftDay time.Time) ([]Session, error)

	// ListByDay returns the sessions of every employee on one shift day.
	ListByDay(ctx context.Context, shiftDay time.Time) ([]Session, error)

	// ListByEmployeeBetween returns sessions whose shift day is within [from, to].
	ListByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]Session, error)

	// ListOpenEndedBetween returns open sessions whose shift window ended in
	// (from, to].
	ListOpenEndedBetween(ctx context.Context, from, to time.Time) ([]Session, error)
}
