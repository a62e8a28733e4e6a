package attendance

import (
	"strconv"
	"time"

	"github.com/atikes/hr-backend-go/internal/pkg/validator"
)

// ========================================
// QUERY DTOs
// ========================================

type DailySummaryQuery struct {
	Date string `json:"date"`
}

func (q *DailySummaryQuery) Validate() (time.Time, error) {
	date, ok := validator.IsValidDate(q.Date)
	if !ok {
		return time.Time{}, validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		}}
	}
	return date, nil
}

type MonthlySummaryQuery struct {
	Year  string `json:"year"`
	Month string `json:"month"`
}

func (q *MonthlySummaryQuery) Validate() (int, time.Month, error) {
	var errs validator.ValidationErrors

	year, err := strconv.Atoi(q.Year)
	if !validator.IsNumeric(q.Year) || err != nil || year < 1970 || year > 9999 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be a four digit number",
		})
	}

	month, err := strconv.Atoi(q.Month)
	if !validator.IsNumeric(q.Month) || err != nil || month < 1 || month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	if len(errs) > 0 {
		return 0, 0, errs
	}
	return year, time.Month(month), nil
}

// ========================================
// RESPONSE DTOs
// ========================================

type SessionResponse struct {
	ID              string     `json:"id"`
	EmployeeID      string     `json:"employee_id"`
	Sequence        int        `json:"sequence"`
	ShiftDay        string     `json:"shift_day"`
	ClockIn         time.Time  `json:"clock_in"`
	ClockOut        *time.Time `json:"clock_out"`
	DurationSeconds *int64     `json:"duration_seconds"`
	ShiftStart      time.Time  `json:"shift_start"`
	ShiftEnd        time.Time  `json:"shift_end"`
}

func NewSessionResponse(s Session) SessionResponse {
	return SessionResponse{
		ID:              s.ID,
		EmployeeID:      s.EmployeeID,
		Sequence:        s.Sequence,
		ShiftDay:        s.ShiftDay.Format("2006-01-02"),
		ClockIn:         s.ClockIn,
		ClockOut:        s.ClockOut,
		DurationSeconds: s.DurationSeconds,
		ShiftStart:      s.ShiftStart,
		ShiftEnd:        s.ShiftEnd,
	}
}

type CurrentSessionResponse struct {
	ClockedIn bool             `json:"clocked_in"`
	Session   *SessionResponse `json:"session"`
}

func NewCurrentSessionResponse(s *Session) CurrentSessionResponse {
	if s == nil {
		return CurrentSessionResponse{}
	}
	resp := NewSessionResponse(*s)
	return CurrentSessionResponse{ClockedIn: true, Session: &resp}
}

type DailySummaryResponse struct {
	EmployeeID   string            `json:"employee_id"`
	Date         string            `json:"date"`
	TotalSeconds int64             `json:"total_seconds"`
	FirstIn      *time.Time        `json:"first_in"`
	LastOut      *time.Time        `json:"last_out"`
	Status       DayStatus         `json:"status"`
	Sessions     []SessionResponse `json:"sessions"`
}

type RosterEntryResponse struct {
	EmployeeCode string `json:"employee_code"`
	EmployeeName string `json:"employee_name"`
	DailySummaryResponse
}

type DailyRosterResponse struct {
	Date      string                `json:"date"`
	Employees []RosterEntryResponse `json:"employees"`
}

func NewDailyRosterResponse(shiftDay time.Time, roster []RosterEntry) DailyRosterResponse {
	resp := DailyRosterResponse{
		Date:      shiftDay.Format("2006-01-02"),
		Employees: make([]RosterEntryResponse, 0, len(roster)),
	}
	for _, e := range roster {
		resp.Employees = append(resp.Employees, RosterEntryResponse{
			EmployeeCode:         e.EmployeeCode,
			EmployeeName:         e.EmployeeName,
			DailySummaryResponse: NewDailySummaryResponse(e.DailySummary),
		})
	}
	return resp
}

func NewDailySummaryResponse(d DailySummary) DailySummaryResponse {
	sessions := make([]SessionResponse, 0, len(d.Sessions))
	for _, s := range d.Sessions {
		sessions = append(sessions, NewSessionResponse(s))
	}
	return DailySummaryResponse{
		EmployeeID:   d.EmployeeID,
		Date:         d.ShiftDay.Format("2006-01-02"),
		TotalSeconds: d.TotalSeconds,
		FirstIn:      d.FirstIn,
		LastOut:      d.LastOut,
		Status:       d.Status,
		Sessions:     sessions,
	}
}

type MonthlySummaryResponse struct {
	EmployeeID          string `json:"employee_id"`
	Year                int    `json:"year"`
	Month               int    `json:"month"`
	DaysInMonth         int    `json:"days_in_month"`
	PresentDays         int    `json:"present_days"`
	AbsentDays          int    `json:"absent_days"`
	TotalWorkedSeconds  int64  `json:"total_worked_seconds"`
	AverageDailySeconds int64  `json:"average_daily_seconds"`
	LateDays            int    `json:"late_days"`
	EarlyLeaveDays      int    `json:"early_leave_days"`
}

func NewMonthlySummaryResponse(m MonthlySummary) MonthlySummaryResponse {
	return MonthlySummaryResponse{
		EmployeeID:          m.EmployeeID,
		Year:                m.Year,
		Month:               int(m.Month),
		DaysInMonth:         m.DaysInMonth,
		PresentDays:         m.PresentDays,
		AbsentDays:          m.AbsentDays,
		TotalWorkedSeconds:  m.TotalWorkedSeconds,
		AverageDailySeconds: m.AverageDailySeconds,
		LateDays:            m.LateDays,
		EarlyLeaveDays:      m.EarlyLeaveDays,
	}
}
