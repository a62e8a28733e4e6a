package memory

import (
	"context"
	"sort"
	"time"

	"github.com/atikes/hr-backend-go/internal/domain/attendance"
)

type attendanceRepository struct {
	s *Store
}

func NewAttendanceRepository(s *Store) attendance.SessionRepository {
	return &attendanceRepository{s: s}
}

// Create enforces the one-open-session rule the database enforces with
// uq_attendance_open_session.
func (r *attendanceRepository) Create(ctx context.Context, session attendance.Session) (attendance.Session, error) {
	defer r.s.lockWrite(ctx)()

	for _, existing := range r.s.d.sessions {
		if existing.EmployeeID == session.EmployeeID && existing.IsOpen() {
			return attendance.Session{}, attendance.ErrOpenSessionExists
		}
	}

	now := r.s.now()
	session.CreatedAt = now
	session.UpdatedAt = now
	r.s.d.sessions[session.ID] = session
	return session, nil
}

func (r *attendanceRepository) GetByID(_ context.Context, id string) (attendance.Session, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	s, ok := r.s.d.sessions[id]
	if !ok {
		return attendance.Session{}, attendance.ErrSessionNotFound
	}
	return s, nil
}

func (r *attendanceRepository) GetOpenByEmployee(_ context.Context, employeeID string) (*attendance.Session, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, s := range r.s.d.sessions {
		if s.EmployeeID == employeeID && s.IsOpen() {
			open := s
			return &open, nil
		}
	}
	return nil, nil
}

func (r *attendanceRepository) MaxSequence(_ context.Context, employeeID string, shiftDay time.Time) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	max := 0
	for _, s := range r.s.d.sessions {
		if s.EmployeeID == employeeID && s.ShiftDay.Equal(shiftDay) && s.Sequence > max {
			max = s.Sequence
		}
	}
	return max, nil
}

func (r *attendanceRepository) Close(ctx context.Context, session attendance.Session) error {
	defer r.s.lockWrite(ctx)()

	stored, ok := r.s.d.sessions[session.ID]
	if !ok {
		return attendance.ErrSessionNotFound
	}
	if !stored.IsOpen() {
		return attendance.ErrSessionAlreadyClosed
	}
	stored.ClockOut = session.ClockOut
	stored.DurationSeconds = session.DurationSeconds
	stored.UpdatedAt = r.s.now()
	r.s.d.sessions[session.ID] = stored
	return nil
}

func (r *attendanceRepository) filter(match func(attendance.Session) bool) []attendance.Session {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := []attendance.Session{}
	for _, s := range r.s.d.sessions {
		if match(s) {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].ShiftDay.Equal(result[j].ShiftDay) {
			return result[i].ShiftDay.Before(result[j].ShiftDay)
		}
		return result[i].Sequence < result[j].Sequence
	})
	return result
}

func (r *attendanceRepository) ListByEmployeeAndDay(_ context.Context, employeeID string, shiftDay time.Time) ([]attendance.Session, error) {
	return r.filter(func(s attendance.Session) bool {
		return s.EmployeeID == employeeID && s.ShiftDay.Equal(shiftDay)
	}), nil
}

func (r *attendanceRepository) ListByDay(_ context.Context, shiftDay time.Time) ([]attendance.Session, error) {
	return r.filter(func(s attendance.Session) bool {
		return s.ShiftDay.Equal(shiftDay)
	}), nil
}

func (r *attendanceRepository) ListByEmployeeBetween(_ context.Context, employeeID string, from, to time.Time) ([]attendance.Session, error) {
	return r.filter(func(s attendance.Session) bool {
		return s.EmployeeID == employeeID && !s.ShiftDay.Before(from) && !s.ShiftDay.After(to)
	}), nil
}

func (r *attendanceRepository) ListOpenEndedBetween(_ context.Context, from, to time.Time) ([]attendance.Session, error) {
	return r.filter(func(s attendance.Session) bool {
		return s.IsOpen() && s.ShiftEnd.After(from) && !s.ShiftEnd.After(to)
	}), nil
}

// OpenSessionCount reports how many sessions of the employee are open.
func (s *Store) OpenSessionCount(employeeID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, session := range s.d.sessions {
		if session.EmployeeID == employeeID && session.IsOpen() {
			count++
		}
	}
	return count
}
