package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/atikes/hr-backend-go/internal/domain/attendance"
	"github.com/atikes/hr-backend-go/internal/domain/employee"
	"github.com/atikes/hr-backend-go/internal/domain/notification"
)

// AttendanceJobs reminds employees who are still clocked in after their
// shift window ended. Sessions are left open; they close on the next
// clock-in or clock-out.
type AttendanceJobs struct {
	sessionRepo  attendance.SessionRepository
	employeeRepo employee.EmployeeRepository
	notifier     notification.Notifier
	interval     time.Duration
	now          func() time.Time
}

func NewAttendanceJobs(
	sessionRepo attendance.SessionRepository,
	employeeRepo employee.EmployeeRepository,
	notifier notification.Notifier,
	interval time.Duration,
	now func() time.Time,
) *AttendanceJobs {
	if now == nil {
		now = time.Now
	}
	return &AttendanceJobs{
		sessionRepo:  sessionRepo,
		employeeRepo: employeeRepo,
		notifier:     notifier,
		interval:     interval,
		now:          now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("remind_open_sessions", j.interval, j.RemindOpenSessions)
}

// RemindOpenSessions notifies once per session: only windows that ended
// during the last interval are considered.
func (j *AttendanceJobs) RemindOpenSessions(ctx context.Context) error {
	now := j.now().UTC()
	sessions, err := j.sessionRepo.ListOpenEndedBetween(ctx, now.Add(-j.interval), now)
	if err != nil {
		return fmt.Errorf("failed to list open sessions: %w", err)
	}

	reminded := 0
	for _, session := range sessions {
		emp, err := j.employeeRepo.GetByID(ctx, session.EmployeeID)
		if err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				continue
			}
			return fmt.Errorf("failed to get employee: %w", err)
		}

		err = j.notifier.Notify(ctx, notification.Event{
			Type:        notification.TypeSessionOpen,
			RecipientID: emp.UserID,
			Title:       "You are still clocked in",
			Data: map[string]interface{}{
				"session_id": session.ID,
				"shift_day":  session.ShiftDay.Format("2006-01-02"),
				"shift_end":  session.ShiftEnd,
			},
			CreatedAt: now,
		})
		if err != nil {
			slog.Warn("Failed to send open session reminder", "session_id", session.ID, "error", err)
			continue
		}
		reminded++
	}

	if reminded > 0 {
		slog.Info("Cron: Reminded employees with open sessions", "count", reminded)
	}
	return nil
}
