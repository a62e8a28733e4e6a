package payroll

import (
	"time"

	"github.com/atikes/hr-backend-go/internal/pkg/shift"
	"github.com/shopspring/decimal"
)

// WorkingDays is the month length minus Sundays and holidays. A holiday on a
// Sunday or listed twice is only subtracted once.
func WorkingDays(year int, month time.Month, holidays []time.Time) int {
	distinct := make(map[time.Time]struct{}, len(holidays))
	for _, h := range holidays {
		d := shift.CivilDate(h)
		if d.Year() != year || d.Month() != month || d.Weekday() == time.Sunday {
			continue
		}
		distinct[d] = struct{}{}
	}
	return shift.DaysIn(year, month) - shift.SundaysIn(year, month) - len(distinct)
}

// Compute derives the monthly figures. Money is rounded to two places at
// each step, half away from zero.
func Compute(in Inputs) (Figures, error) {
	if in.TotalWorkingDays <= 0 {
		return Figures{}, ErrNoWorkingDays
	}

	present := in.AttendanceDays + in.PaidLeaveDays
	absent := in.TotalWorkingDays - present - in.LWPDays
	if absent < 0 {
		absent = 0
	}

	gross := in.GrossSalary.Round(2)
	perDay := in.GrossSalary.Div(decimal.NewFromInt(int64(in.TotalWorkingDays))).Round(2)
	net := perDay.Mul(decimal.NewFromInt(int64(present))).Round(2)
	deduction := in.GrossSalary.Sub(net).Round(2)

	return Figures{
		TotalWorkingDays: in.TotalWorkingDays,
		AttendanceDays:   in.AttendanceDays,
		PaidLeaveDays:    in.PaidLeaveDays,
		PresentDays:      present,
		LWPDays:          in.LWPDays,
		AbsentDays:       absent,
		GrossSalary:      gross,
		SalaryPerDay:     perDay,
		NetSalary:        net,
		Deduction:        deduction,
	}, nil
}
