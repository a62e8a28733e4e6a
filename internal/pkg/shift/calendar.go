package shift

import (
	"fmt"
	"time"
)

// Calendar maps timestamps to the shift day they belong to. A shift starts at
// StartHour on the shift day and runs until EndHour on the following calendar
// day, so anything before EndHour is attributed to the previous day's shift.
type Calendar struct {
	StartHour int
	EndHour   int
	Location  *time.Location
}

func NewCalendar(startHour, endHour int, loc *time.Location) (Calendar, error) {
	if startHour < 0 || startHour > 23 {
		return Calendar{}, fmt.Errorf("invalid shift start hour %d", startHour)
	}
	if endHour < 0 || endHour > 23 {
		return Calendar{}, fmt.Errorf("invalid shift end hour %d", endHour)
	}
	if loc == nil {
		return Calendar{}, fmt.Errorf("shift location is required")
	}
	return Calendar{StartHour: startHour, EndHour: endHour, Location: loc}, nil
}

// ShiftDay returns the civil date (midnight UTC) of the shift t belongs to.
func (c Calendar) ShiftDay(t time.Time) time.Time {
	local := t.In(c.Location)
	y, m, d := local.Date()
	if local.Hour() < c.EndHour {
		d--
	}
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Window returns the start and end of the shift t belongs to.
func (c Calendar) Window(t time.Time) (start, end time.Time) {
	day := c.ShiftDay(t)
	y, m, d := day.Date()
	start = time.Date(y, m, d, c.StartHour, 0, 0, 0, c.Location)
	end = time.Date(y, m, d+1, c.EndHour, 0, 0, 0, c.Location)
	return start, end
}

// CivilDate truncates t to its date in t's own location, expressed as midnight UTC.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthRange returns the first and last civil dates of the month.
func MonthRange(year int, month time.Month) (first, last time.Time) {
	first = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last = first.AddDate(0, 1, -1)
	return first, last
}

func DaysIn(year int, month time.Month) int {
	_, last := MonthRange(year, month)
	return last.Day()
}

func SundaysIn(year int, month time.Month) int {
	first, last := MonthRange(year, month)
	count := 0
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Sunday {
			count++
		}
	}
	return count
}
