package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func closedSession(shiftDay time.Time, in, out time.Time) Session {
	s := Session{ShiftDay: shiftDay, ClockIn: in}
	_ = s.Close(out)
	return s
}

func TestSessionClose(t *testing.T) {
	in := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("full working day", func(t *testing.T) {
		s := Session{ClockIn: in}
		require.NoError(t, s.Close(time.Date(2024, 3, 1, 17, 30, 0, 0, time.UTC)))
		require.NotNil(t, s.DurationSeconds)
		assert.Equal(t, int64(30600), *s.DurationSeconds)
		assert.False(t, s.IsOpen())
	})

	t.Run("sub-second remainder is floored", func(t *testing.T) {
		s := Session{ClockIn: in}
		require.NoError(t, s.Close(in.Add(1999*time.Millisecond)))
		assert.Equal(t, int64(1), *s.DurationSeconds)
	})

	t.Run("clock skew clamps to zero", func(t *testing.T) {
		s := Session{ClockIn: in}
		require.NoError(t, s.Close(in.Add(-5*time.Minute)))
		assert.Equal(t, int64(0), *s.DurationSeconds)
	})

	t.Run("closing twice fails", func(t *testing.T) {
		s := Session{ClockIn: in}
		require.NoError(t, s.Close(in.Add(time.Hour)))
		err := s.Close(in.Add(2 * time.Hour))
		assert.ErrorIs(t, err, ErrSessionAlreadyClosed)
		assert.Equal(t, int64(3600), *s.DurationSeconds)
	})
}

func TestSummarizeDay(t *testing.T) {
	d := day(2024, 3, 1)
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("no sessions", func(t *testing.T) {
		summary := SummarizeDay("emp-1", d, nil)
		assert.Equal(t, DayStatusNoActivity, summary.Status)
		assert.Nil(t, summary.FirstIn)
		assert.Nil(t, summary.LastOut)
		assert.Empty(t, summary.Sessions)
	})

	t.Run("completed day", func(t *testing.T) {
		sessions := []Session{
			closedSession(d, base, base.Add(2*time.Hour)),
			closedSession(d, base.Add(3*time.Hour), base.Add(5*time.Hour)),
		}
		summary := SummarizeDay("emp-1", d, sessions)
		assert.Equal(t, DayStatusCompleted, summary.Status)
		assert.Equal(t, int64(4*3600), summary.TotalSeconds)
		assert.True(t, summary.FirstIn.Equal(base))
		assert.True(t, summary.LastOut.Equal(base.Add(5*time.Hour)))
	})

	t.Run("open session makes the day active", func(t *testing.T) {
		sessions := []Session{
			closedSession(d, base, base.Add(time.Hour)),
			{ShiftDay: d, ClockIn: base.Add(2 * time.Hour)},
		}
		summary := SummarizeDay("emp-1", d, sessions)
		assert.Equal(t, DayStatusActive, summary.Status)
		assert.Equal(t, int64(3600), summary.TotalSeconds)
		assert.Nil(t, summary.LastOut)
	})
}

func TestCountAttendedDays(t *testing.T) {
	d1, d2, d3 := day(2024, 3, 1), day(2024, 3, 2), day(2024, 3, 3)
	at := func(d time.Time) time.Time { return d.Add(10 * time.Hour) }

	sessions := []Session{
		closedSession(d1, at(d1), at(d1).Add(time.Hour)),
		closedSession(d1, at(d1).Add(2*time.Hour), at(d1).Add(3*time.Hour)),
		closedSession(d2, at(d2), at(d2)),
		{ShiftDay: d3, ClockIn: at(d3)},
	}

	assert.Equal(t, 1, CountAttendedDays(sessions, 1))
	assert.Equal(t, 2, CountAttendedDays(sessions, 0))
}

func TestSummarizeMonth(t *testing.T) {
	policy := MonthlyPolicy{
		MinPresenceSeconds: 1,
		OfficeStart:        TimeOfDay{Hour: 9, Minute: 30},
		OfficeEnd:          TimeOfDay{Hour: 17, Minute: 30},
		Location:           time.UTC,
	}

	d1, d2, d3 := day(2024, 3, 4), day(2024, 3, 5), day(2024, 3, 6)
	sessions := []Session{
		// on time, full day
		closedSession(d1, d1.Add(9*time.Hour), d1.Add(18*time.Hour)),
		// late and leaves early
		closedSession(d2, d2.Add(10*time.Hour), d2.Add(17*time.Hour)),
		// zero duration does not count as attended
		closedSession(d3, d3.Add(9*time.Hour), d3.Add(9*time.Hour)),
	}

	summary := SummarizeMonth("emp-1", 2024, time.March, 31, sessions, policy)
	assert.Equal(t, 2, summary.PresentDays)
	assert.Equal(t, 29, summary.AbsentDays)
	assert.Equal(t, int64(9*3600+7*3600), summary.TotalWorkedSeconds)
	assert.Equal(t, int64(8*3600), summary.AverageDailySeconds)
	assert.Equal(t, 1, summary.LateDays)
	assert.Equal(t, 1, summary.EarlyLeaveDays)
}

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 9, Minute: 30}, tod)
	assert.Equal(t, "09:30", tod.String())

	_, err = ParseTimeOfDay("9.30")
	assert.Error(t, err)
}
