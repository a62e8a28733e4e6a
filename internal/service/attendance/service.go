package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/atikes/hr-backend-go/internal/domain/attendance"
	"github.com/atikes/hr-backend-go/internal/domain/employee"
	"github.com/atikes/hr-backend-go/internal/domain/notification"
	"github.com/atikes/hr-backend-go/internal/pkg/database"
	"github.com/atikes/hr-backend-go/internal/pkg/shift"
	"github.com/google/uuid"
)

type Options struct {
	Calendar shift.Calendar
	Policy   attendance.MonthlyPolicy

	// EnforceShiftStart rejects clock-outs earlier than the session's shift start.
	EnforceShiftStart bool
}

type AttendanceServiceImpl struct {
	tx database.Transactor
	attendance.SessionRepository
	employee.EmployeeRepository
	notifier notification.Notifier
	opts     Options
}

func NewAttendanceService(
	tx database.Transactor,
	sessionRepo attendance.SessionRepository,
	employeeRepo employee.EmployeeRepository,
	notifier notification.Notifier,
	opts Options,
) attendance.AttendanceService {
	if notifier == nil {
		notifier = notification.Nop{}
	}
	return &AttendanceServiceImpl{
		tx:                 tx,
		SessionRepository:  sessionRepo,
		EmployeeRepository: employeeRepo,
		notifier:           notifier,
		opts:               opts,
	}
}

// ClockIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockIn(ctx context.Context, employeeID string, now time.Time) (attendance.Session, error) {
	now = now.UTC()

	var (
		created    attendance.Session
		autoClosed *attendance.Session
		emp        employee.Employee
	)
	err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		emp, err = s.EmployeeRepository.GetByIDForUpdate(txCtx, employeeID)
		if err != nil {
			return err
		}
		if !emp.IsActive {
			return employee.ErrEmployeeInactive
		}

		open, err := s.SessionRepository.GetOpenByEmployee(txCtx, employeeID)
		if err != nil {
			return fmt.Errorf("failed to get open session: %w", err)
		}
		if open != nil {
			if err := open.Close(now); err != nil {
				return err
			}
			if err := s.SessionRepository.Close(txCtx, *open); err != nil {
				return fmt.Errorf("failed to auto-close session: %w", err)
			}
			autoClosed = open
		}

		shiftDay := s.opts.Calendar.ShiftDay(now)
		start, end := s.opts.Calendar.Window(now)

		seq, err := s.SessionRepository.MaxSequence(txCtx, employeeID, shiftDay)
		if err != nil {
			return fmt.Errorf("failed to get session sequence: %w", err)
		}

		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate session id: %w", err)
		}

		created, err = s.SessionRepository.Create(txCtx, attendance.Session{
			ID:         id.String(),
			EmployeeID: employeeID,
			Sequence:   seq + 1,
			ShiftDay:   shiftDay,
			ClockIn:    now,
			ShiftStart: start,
			ShiftEnd:   end,
		})
		if err != nil {
			if errors.Is(err, attendance.ErrOpenSessionExists) {
				return err
			}
			return fmt.Errorf("failed to create session: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.Session{}, err
	}

	if autoClosed != nil {
		slog.Info("Auto-closed open session on clock-in",
			"employee_id", employeeID,
			"session_id", autoClosed.ID,
			"duration_seconds", *autoClosed.DurationSeconds,
		)
		s.notify(ctx, notification.Event{
			Type:        notification.TypeSessionClosed,
			RecipientID: emp.UserID,
			Title:       "Your previous session was closed automatically",
			Data: map[string]interface{}{
				"session_id":       autoClosed.ID,
				"duration_seconds": *autoClosed.DurationSeconds,
			},
			CreatedAt: now,
		})
	}
	return created, nil
}

// ClockOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockOut(ctx context.Context, employeeID string, sessionID string, now time.Time) (attendance.Session, error) {
	now = now.UTC()

	var closed attendance.Session
	err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		session, err := s.SessionRepository.GetByID(txCtx, sessionID)
		if err != nil {
			return err
		}
		if session.EmployeeID != employeeID {
			return attendance.ErrSessionNotFound
		}
		if !session.IsOpen() {
			return attendance.ErrSessionAlreadyClosed
		}
		if s.opts.EnforceShiftStart && now.Before(session.ShiftStart) {
			return attendance.ErrClockOutBeforeShiftStart
		}

		if err := session.Close(now); err != nil {
			return err
		}
		if err := s.SessionRepository.Close(txCtx, session); err != nil {
			if errors.Is(err, attendance.ErrSessionAlreadyClosed) {
				return err
			}
			return fmt.Errorf("failed to close session: %w", err)
		}
		closed = session
		return nil
	})
	if err != nil {
		return attendance.Session{}, err
	}
	return closed, nil
}

// CurrentSession implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CurrentSession(ctx context.Context, employeeID string) (*attendance.Session, error) {
	if _, err := s.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}
	open, err := s.SessionRepository.GetOpenByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get open session: %w", err)
	}
	return open, nil
}

// DailySummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DailySummary(ctx context.Context, employeeID string, shiftDay time.Time) (attendance.DailySummary, error) {
	if _, err := s.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
		return attendance.DailySummary{}, err
	}

	day := shift.CivilDate(shiftDay)
	sessions, err := s.SessionRepository.ListByEmployeeAndDay(ctx, employeeID, day)
	if err != nil {
		return attendance.DailySummary{}, fmt.Errorf("failed to list sessions: %w", err)
	}
	return attendance.SummarizeDay(employeeID, day, sessions), nil
}

// DailyRoster implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DailyRoster(ctx context.Context, shiftDay time.Time, managerEmployeeID *string) ([]attendance.RosterEntry, error) {
	employees, err := s.EmployeeRepository.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	day := shift.CivilDate(shiftDay)
	sessions, err := s.SessionRepository.ListByDay(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	byEmployee := make(map[string][]attendance.Session)
	for _, session := range sessions {
		byEmployee[session.EmployeeID] = append(byEmployee[session.EmployeeID], session)
	}

	roster := make([]attendance.RosterEntry, 0, len(employees))
	for _, emp := range employees {
		if managerEmployeeID != nil && (!emp.HasManager() || *emp.ManagerID != *managerEmployeeID) {
			continue
		}
		roster = append(roster, attendance.RosterEntry{
			EmployeeCode: emp.Code,
			EmployeeName: emp.FullName,
			DailySummary: attendance.SummarizeDay(emp.ID, day, byEmployee[emp.ID]),
		})
	}
	return roster, nil
}

// MonthlySummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MonthlySummary(ctx context.Context, employeeID string, year int, month time.Month) (attendance.MonthlySummary, error) {
	if _, err := s.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
		return attendance.MonthlySummary{}, err
	}

	first, last := shift.MonthRange(year, month)
	sessions, err := s.SessionRepository.ListByEmployeeBetween(ctx, employeeID, first, last)
	if err != nil {
		return attendance.MonthlySummary{}, fmt.Errorf("failed to list sessions: %w", err)
	}

	policy := s.opts.Policy
	if policy.Location == nil {
		policy.Location = s.opts.Calendar.Location
	}
	return attendance.SummarizeMonth(employeeID, year, month, shift.DaysIn(year, month), sessions, policy), nil
}

func (s *AttendanceServiceImpl) notify(ctx context.Context, event notification.Event) {
	if err := s.notifier.Notify(ctx, event); err != nil {
		slog.Warn("Failed to send notification", "type", event.Type, "recipient_id", event.RecipientID, "error", err)
	}
}
