package attendance

import (
	"time"
)

// Session is one clock-in/clock-out pair. ShiftDay, ShiftStart and ShiftEnd
// are resolved once at clock-in and never change afterwards.
type Session struct {
	ID              string
	EmployeeID      string
	Sequence        int
	ShiftDay        time.Time
	ClockIn         time.Time
	ClockOut        *time.Time
	DurationSeconds *int64
	ShiftStart      time.Time
	ShiftEnd        time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (s Session) IsOpen() bool {
	return s.ClockOut == nil
}

// Close sets the clock-out and the whole-second duration. A clock-out earlier
// than the clock-in yields a zero duration.
func (s *Session) Close(now time.Time) error {
	if !s.IsOpen() {
		return ErrSessionAlreadyClosed
	}
	duration := DurationSeconds(s.ClockIn, now)
	s.ClockOut = &now
	s.DurationSeconds = &duration
	s.UpdatedAt = now
	return nil
}

func DurationSeconds(from, to time.Time) int64 {
	d := to.Sub(from)
	if d <= 0 {
		return 0
	}
	return int64(d / time.Second)
}

type DayStatus string

const (
	DayStatusActive     DayStatus = "Active"
	DayStatusCompleted  DayStatus = "Completed"
	DayStatusNoActivity DayStatus = "No Activity"
)

type DailySummary struct {
	EmployeeID   string
	ShiftDay     time.Time
	TotalSeconds int64
	FirstIn      *time.Time
	LastOut      *time.Time
	Status       DayStatus
	Sessions     []Session
}

// RosterEntry is one employee's line in a daily roster.
type RosterEntry struct {
	EmployeeCode string
	EmployeeName string
	DailySummary
}

// SummarizeDay folds the sessions of one shift day. LastOut stays nil while
// any session of the day is still open.
func SummarizeDay(employeeID string, shiftDay time.Time, sessions []Session) DailySummary {
	summary := DailySummary{
		EmployeeID: employeeID,
		ShiftDay:   shiftDay,
		Status:     DayStatusNoActivity,
		Sessions:   sessions,
	}
	if len(sessions) == 0 {
		summary.Sessions = []Session{}
		return summary
	}

	open := false
	for i := range sessions {
		s := sessions[i]
		if summary.FirstIn == nil || s.ClockIn.Before(*summary.FirstIn) {
			in := s.ClockIn
			summary.FirstIn = &in
		}
		if s.IsOpen() {
			open = true
			continue
		}
		if s.DurationSeconds != nil {
			summary.TotalSeconds += *s.DurationSeconds
		}
		if summary.LastOut == nil || s.ClockOut.After(*summary.LastOut) {
			out := *s.ClockOut
			summary.LastOut = &out
		}
	}

	if open {
		summary.Status = DayStatusActive
		summary.LastOut = nil
	} else {
		summary.Status = DayStatusCompleted
	}
	return summary
}

// TimeOfDay is a wall-clock time such as the office start "09:30".
type TimeOfDay struct {
	Hour   int
	Minute int
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, err
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) On(day time.Time, loc *time.Location) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, 0, 0, loc)
}

func (t TimeOfDay) String() string {
	return time.Date(0, 1, 1, t.Hour, t.Minute, 0, 0, time.UTC).Format("15:04")
}

// MonthlyPolicy carries the thresholds used to classify a month of sessions.
type MonthlyPolicy struct {
	MinPresenceSeconds int64
	OfficeStart        TimeOfDay
	OfficeEnd          TimeOfDay
	Location           *time.Location
}

type MonthlySummary struct {
	EmployeeID          string
	Year                int
	Month               time.Month
	DaysInMonth         int
	PresentDays         int
	AbsentDays          int
	TotalWorkedSeconds  int64
	AverageDailySeconds int64
	LateDays            int
	EarlyLeaveDays      int
}

// AttendedDays returns the distinct shift days that have at least one closed
// session lasting minSeconds or more.
func AttendedDays(sessions []Session, minSeconds int64) map[time.Time]struct{} {
	days := make(map[time.Time]struct{})
	for _, s := range sessions {
		if s.DurationSeconds == nil || *s.DurationSeconds < minSeconds {
			continue
		}
		days[s.ShiftDay] = struct{}{}
	}
	return days
}

func CountAttendedDays(sessions []Session, minSeconds int64) int {
	return len(AttendedDays(sessions, minSeconds))
}

// SummarizeMonth expects the sessions whose shift day falls inside the month.
// Late and early-leave days are only counted on attended days.
func SummarizeMonth(employeeID string, year int, month time.Month, daysInMonth int, sessions []Session, policy MonthlyPolicy) MonthlySummary {
	summary := MonthlySummary{
		EmployeeID:  employeeID,
		Year:        year,
		Month:       month,
		DaysInMonth: daysInMonth,
	}

	attended := AttendedDays(sessions, policy.MinPresenceSeconds)
	byDay := make(map[time.Time][]Session)
	for _, s := range sessions {
		if s.DurationSeconds != nil {
			summary.TotalWorkedSeconds += *s.DurationSeconds
		}
		byDay[s.ShiftDay] = append(byDay[s.ShiftDay], s)
	}

	loc := policy.Location
	if loc == nil {
		loc = time.UTC
	}
	for day := range attended {
		daily := SummarizeDay(employeeID, day, byDay[day])
		if daily.FirstIn != nil && daily.FirstIn.After(policy.OfficeStart.On(day, loc)) {
			summary.LateDays++
		}
		if daily.LastOut != nil && daily.LastOut.Before(policy.OfficeEnd.On(day, loc)) {
			summary.EarlyLeaveDays++
		}
	}

	summary.PresentDays = len(attended)
	summary.AbsentDays = daysInMonth - summary.PresentDays
	if summary.AbsentDays < 0 {
		summary.AbsentDays = 0
	}
	if summary.PresentDays > 0 {
		summary.AverageDailySeconds = summary.TotalWorkedSeconds / int64(summary.PresentDays)
	}
	return summary
}
