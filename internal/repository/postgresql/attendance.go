package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atikes/hr-backend-go/internal/domain/attendance"
	"github.com/atikes/hr-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.SessionRepository {
	return &attendanceRepository{db: db}
}

const sessionColumns = `id, employee_id, sequence, shift_day, clock_in, clock_out, duration_seconds,
	shift_start, shift_end, created_at, updated_at`

func scanSession(row pgx.Row) (attendance.Session, error) {
	var s attendance.Session
	err := row.Scan(
		&s.ID, &s.EmployeeID, &s.Sequence, &s.ShiftDay, &s.ClockIn, &s.ClockOut, &s.DurationSeconds,
		&s.ShiftStart, &s.ShiftEnd, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func (a *attendanceRepository) list(ctx context.Context, query string, args ...interface{}) ([]attendance.Session, error) {
	q := GetQuerier(ctx, a.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance sessions: %w", err)
	}
	defer rows.Close()

	sessions := []attendance.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// Create implements attendance.SessionRepository.
func (a *attendanceRepository) Create(ctx context.Context, session attendance.Session) (attendance.Session, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_sessions (
			id, employee_id, sequence, shift_day, clock_in, shift_start, shift_end
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		session.ID,
		session.EmployeeID,
		session.Sequence,
		session.ShiftDay,
		session.ClockIn,
		session.ShiftStart,
		session.ShiftEnd,
	).Scan(&session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "uq_attendance_open_session") {
			return attendance.Session{}, attendance.ErrOpenSessionExists
		}
		return attendance.Session{}, fmt.Errorf("failed to create attendance session: %w", err)
	}

	return session, nil
}

// GetByID implements attendance.SessionRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Session, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + sessionColumns + ` FROM attendance_sessions WHERE id = $1`
	s, err := scanSession(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Session{}, attendance.ErrSessionNotFound
		}
		return attendance.Session{}, fmt.Errorf("failed to get attendance session: %w", err)
	}
	return s, nil
}

// GetOpenByEmployee implements attendance.SessionRepository.
func (a *attendanceRepository) GetOpenByEmployee(ctx context.Context, employeeID string) (*attendance.Session, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE employee_id = $1 AND clock_out IS NULL
		LIMIT 1
	`
	s, err := scanSession(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open session: %w", err)
	}
	return &s, nil
}

// MaxSequence implements attendance.SessionRepository.
func (a *attendanceRepository) MaxSequence(ctx context.Context, employeeID string, shiftDay time.Time) (int, error) {
	q := GetQuerier(ctx, a.db)

	var max int
	err := q.QueryRow(ctx, `
		SELECT COALESCE(MAX(sequence), 0)
		FROM attendance_sessions
		WHERE employee_id = $1 AND shift_day = $2
	`, employeeID, shiftDay).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("failed to get max sequence: %w", err)
	}
	return max, nil
}

// Close implements attendance.SessionRepository.
func (a *attendanceRepository) Close(ctx context.Context, session attendance.Session) error {
	q := GetQuerier(ctx, a.db)

	tag, err := q.Exec(ctx, `
		UPDATE attendance_sessions
		SET clock_out = $2, duration_seconds = $3, updated_at = NOW()
		WHERE id = $1 AND clock_out IS NULL
	`, session.ID, session.ClockOut, session.DurationSeconds)
	if err != nil {
		return fmt.Errorf("failed to close attendance session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrSessionAlreadyClosed
	}
	return nil
}

// ListByEmployeeAndDay implements attendance.SessionRepository.
func (a *attendanceRepository) ListByEmployeeAndDay(ctx context.Context, employeeID string, shiftDay time.Time) ([]attendance.Session, error) {
	return a.list(ctx, `
		SELECT `+sessionColumns+`
		FROM attendance_sessions
		WHERE employee_id = $1 AND shift_day = $2
		ORDER BY sequence
	`, employeeID, shiftDay)
}

// ListByDay implements attendance.SessionRepository.
func (a *attendanceRepository) ListByDay(ctx context.Context, shiftDay time.Time) ([]attendance.Session, error) {
	return a.list(ctx, `
		SELECT `+sessionColumns+`
		FROM attendance_sessions
		WHERE shift_day = $1
		ORDER BY employee_id, sequence
	`, shiftDay)
}

// ListByEmployeeBetween implements attendance.SessionRepository.
func (a *attendanceRepository) ListByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Session, error) {
	return a.list(ctx, `
		SELECT `+sessionColumns+`
		FROM attendance_sessions
		WHERE employee_id = $1 AND shift_day BETWEEN $2 AND $3
		ORDER BY shift_day, sequence
	`, employeeID, from, to)
}

// ListOpenEndedBetween implements attendance.SessionRepository.
func (a *attendanceRepository) ListOpenEndedBetween(ctx context.Context, from, to time.Time) ([]attendance.Session, error) {
	return a.list(ctx, `
		SELECT `+sessionColumns+`
		FROM attendance_sessions
		WHERE clock_out IS NULL AND shift_end > $1 AND shift_end <= $2
		ORDER BY shift_end, employee_id
	`, from, to)
}
