package attendance

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/atikes/hr-backend-go/internal/domain/attendance"
	"github.com/atikes/hr-backend-go/internal/domain/employee"
	"github.com/atikes/hr-backend-go/internal/domain/notification"
	"github.com/atikes/hr-backend-go/internal/pkg/shift"
	"github.com/atikes/hr-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ist = time.FixedZone("IST", 5*3600+1800)

type recordingNotifier struct {
	mu     sync.Mutex
	events []notification.Event
}

func (r *recordingNotifier) Notify(_ context.Context, event notification.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

type fixture struct {
	store    *memory.Store
	service  attendance.AttendanceService
	notifier *recordingNotifier
}

func newFixture(t *testing.T, enforceShiftStart bool) fixture {
	t.Helper()

	cal, err := shift.NewCalendar(10, 6, ist)
	require.NoError(t, err)
	officeStart, err := attendance.ParseTimeOfDay("09:30")
	require.NoError(t, err)
	officeEnd, err := attendance.ParseTimeOfDay("17:30")
	require.NoError(t, err)

	store := memory.NewStore()
	store.PutEmployee(employee.Employee{ID: "emp-1", Code: "EMP001", FullName: "Asha Rao", UserID: "user-1", IsActive: true})
	store.PutEmployee(employee.Employee{ID: "emp-2", Code: "EMP002", FullName: "Ravi Kumar", UserID: "user-2", IsActive: true})

	notifier := &recordingNotifier{}
	svc := NewAttendanceService(
		store.Transactor(),
		memory.NewAttendanceRepository(store),
		memory.NewEmployeeRepository(store),
		notifier,
		Options{
			Calendar: cal,
			Policy: attendance.MonthlyPolicy{
				MinPresenceSeconds: 1,
				OfficeStart:        officeStart,
				OfficeEnd:          officeEnd,
			},
			EnforceShiftStart: enforceShiftStart,
		},
	)
	return fixture{store: store, service: svc, notifier: notifier}
}

func TestClockIn_ResolvesShiftDayAndWindow(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	// 05:30 local belongs to the previous shift day.
	now := time.Date(2024, 3, 6, 5, 30, 0, 0, ist)
	session, err := f.service.ClockIn(ctx, "emp-1", now)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), session.ShiftDay)
	assert.Equal(t, 1, session.Sequence)
	assert.True(t, session.IsOpen())
	assert.True(t, session.ShiftStart.Equal(time.Date(2024, 3, 5, 10, 0, 0, 0, ist)))
	assert.True(t, session.ShiftEnd.Equal(time.Date(2024, 3, 6, 6, 0, 0, 0, ist)))
}

func TestClockIn_AutoClosesOpenSession(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	first, err := f.service.ClockIn(ctx, "emp-1", time.Date(2024, 3, 5, 10, 0, 0, 0, ist))
	require.NoError(t, err)

	second, err := f.service.ClockIn(ctx, "emp-1", time.Date(2024, 3, 5, 14, 0, 0, 0, ist))
	require.NoError(t, err)
	assert.Equal(t, 2, second.Sequence)

	closed, err := memory.NewAttendanceRepository(f.store).GetByID(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, closed.DurationSeconds)
	assert.Equal(t, int64(4*3600), *closed.DurationSeconds)
	assert.Equal(t, 1, f.store.OpenSessionCount("emp-1"))

	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, notification.TypeSessionClosed, f.notifier.events[0].Type)
	assert.Equal(t, "user-1", f.notifier.events[0].RecipientID)
}

func TestClockIn_ConcurrentKeepsOneOpenSession(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	now := time.Date(2024, 3, 5, 11, 0, 0, 0, ist)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.ClockIn(ctx, "emp-1", now)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, f.store.OpenSessionCount("emp-1"))

	summary, err := f.service.DailySummary(ctx, "emp-1", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, summary.Sessions, 10)
	for i, s := range summary.Sessions {
		assert.Equal(t, i+1, s.Sequence)
	}
}

func TestClockOut(t *testing.T) {
	ctx := context.Background()
	clockIn := time.Date(2024, 3, 5, 10, 0, 0, 0, ist)

	t.Run("records whole seconds", func(t *testing.T) {
		f := newFixture(t, false)
		session, err := f.service.ClockIn(ctx, "emp-1", clockIn)
		require.NoError(t, err)

		closed, err := f.service.ClockOut(ctx, "emp-1", session.ID, clockIn.Add(8*time.Hour+30*time.Minute+900*time.Millisecond))
		require.NoError(t, err)
		require.NotNil(t, closed.DurationSeconds)
		assert.Equal(t, int64(30600), *closed.DurationSeconds)
	})

	t.Run("clamps negative duration", func(t *testing.T) {
		f := newFixture(t, false)
		session, err := f.service.ClockIn(ctx, "emp-1", clockIn)
		require.NoError(t, err)

		closed, err := f.service.ClockOut(ctx, "emp-1", session.ID, clockIn.Add(-time.Minute))
		require.NoError(t, err)
		assert.Equal(t, int64(0), *closed.DurationSeconds)
	})

	t.Run("already closed", func(t *testing.T) {
		f := newFixture(t, false)
		session, err := f.service.ClockIn(ctx, "emp-1", clockIn)
		require.NoError(t, err)
		_, err = f.service.ClockOut(ctx, "emp-1", session.ID, clockIn.Add(time.Hour))
		require.NoError(t, err)

		_, err = f.service.ClockOut(ctx, "emp-1", session.ID, clockIn.Add(2*time.Hour))
		assert.ErrorIs(t, err, attendance.ErrSessionAlreadyClosed)
	})

	t.Run("unknown session", func(t *testing.T) {
		f := newFixture(t, false)
		_, err := f.service.ClockOut(ctx, "emp-1", "missing", clockIn)
		assert.ErrorIs(t, err, attendance.ErrSessionNotFound)
	})

	t.Run("session of another employee", func(t *testing.T) {
		f := newFixture(t, false)
		session, err := f.service.ClockIn(ctx, "emp-1", clockIn)
		require.NoError(t, err)

		_, err = f.service.ClockOut(ctx, "emp-2", session.ID, clockIn.Add(time.Hour))
		assert.ErrorIs(t, err, attendance.ErrSessionNotFound)
	})

	t.Run("before shift start when enforced", func(t *testing.T) {
		f := newFixture(t, true)
		// 07:00 local is inside shift day Mar 5 and before its 10:00 start.
		early := time.Date(2024, 3, 5, 7, 0, 0, 0, ist)
		session, err := f.service.ClockIn(ctx, "emp-1", early)
		require.NoError(t, err)

		_, err = f.service.ClockOut(ctx, "emp-1", session.ID, early.Add(time.Hour))
		assert.ErrorIs(t, err, attendance.ErrClockOutBeforeShiftStart)

		_, err = f.service.ClockOut(ctx, "emp-1", session.ID, early.Add(4*time.Hour))
		assert.NoError(t, err)
	})
}

func TestUnknownEmployee(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	now := time.Date(2024, 3, 5, 10, 0, 0, 0, ist)

	_, err := f.service.ClockIn(ctx, "ghost", now)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = f.service.CurrentSession(ctx, "ghost")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = f.service.DailySummary(ctx, "ghost", now)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = f.service.MonthlySummary(ctx, "ghost", 2024, time.March)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestCurrentSessionAndSummaries(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	current, err := f.service.CurrentSession(ctx, "emp-1")
	require.NoError(t, err)
	assert.Nil(t, current)

	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	summary, err := f.service.DailySummary(ctx, "emp-1", day)
	require.NoError(t, err)
	assert.Equal(t, attendance.DayStatusNoActivity, summary.Status)

	// Late arrival, left on time.
	in := time.Date(2024, 3, 5, 10, 15, 0, 0, ist)
	session, err := f.service.ClockIn(ctx, "emp-1", in)
	require.NoError(t, err)

	current, err = f.service.CurrentSession(ctx, "emp-1")
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, session.ID, current.ID)

	_, err = f.service.ClockOut(ctx, "emp-1", session.ID, time.Date(2024, 3, 5, 18, 15, 0, 0, ist))
	require.NoError(t, err)

	summary, err = f.service.DailySummary(ctx, "emp-1", day)
	require.NoError(t, err)
	assert.Equal(t, attendance.DayStatusCompleted, summary.Status)
	assert.Equal(t, int64(8*3600), summary.TotalSeconds)

	monthly, err := f.service.MonthlySummary(ctx, "emp-1", 2024, time.March)
	require.NoError(t, err)
	assert.Equal(t, 31, monthly.DaysInMonth)
	assert.Equal(t, 1, monthly.PresentDays)
	assert.Equal(t, 30, monthly.AbsentDays)
	assert.Equal(t, 1, monthly.LateDays)
	assert.Equal(t, 0, monthly.EarlyLeaveDays)
}

func TestClockIn_InactiveEmployee(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	f.store.PutEmployee(employee.Employee{ID: "emp-off", Code: "OFF001", FullName: "Meera Das", UserID: "user-off", IsActive: false})

	_, err := f.service.ClockIn(ctx, "emp-off", time.Date(2024, 3, 5, 10, 0, 0, 0, ist))
	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)
	assert.Equal(t, 0, f.store.OpenSessionCount("emp-off"))
}

func TestDailyRoster(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	lead := "emp-2"
	f.store.PutEmployee(employee.Employee{ID: "emp-3", Code: "EMP003", FullName: "Kiran Shah", UserID: "user-3", ManagerID: &lead, IsActive: true})
	f.store.PutEmployee(employee.Employee{ID: "emp-off", Code: "OFF001", FullName: "Meera Das", UserID: "user-off", IsActive: false})

	first, err := f.service.ClockIn(ctx, "emp-1", time.Date(2024, 3, 5, 9, 30, 0, 0, ist))
	require.NoError(t, err)
	_, err = f.service.ClockOut(ctx, "emp-1", first.ID, time.Date(2024, 3, 5, 17, 30, 0, 0, ist))
	require.NoError(t, err)
	_, err = f.service.ClockIn(ctx, "emp-3", time.Date(2024, 3, 5, 11, 0, 0, 0, ist))
	require.NoError(t, err)
	// Next shift day, must not show up.
	_, err = f.service.ClockIn(ctx, "emp-2", time.Date(2024, 3, 6, 10, 0, 0, 0, ist))
	require.NoError(t, err)

	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	t.Run("all employees", func(t *testing.T) {
		roster, err := f.service.DailyRoster(ctx, day, nil)
		require.NoError(t, err)
		require.Len(t, roster, 3)

		assert.Equal(t, "EMP001", roster[0].EmployeeCode)
		assert.Equal(t, "Asha Rao", roster[0].EmployeeName)
		assert.Equal(t, attendance.DayStatusCompleted, roster[0].Status)
		assert.Equal(t, int64(8*3600), roster[0].TotalSeconds)

		assert.Equal(t, "EMP002", roster[1].EmployeeCode)
		assert.Equal(t, attendance.DayStatusNoActivity, roster[1].Status)
		assert.Empty(t, roster[1].Sessions)

		assert.Equal(t, "EMP003", roster[2].EmployeeCode)
		assert.Equal(t, attendance.DayStatusActive, roster[2].Status)
		assert.Nil(t, roster[2].LastOut)
	})

	t.Run("manager team", func(t *testing.T) {
		roster, err := f.service.DailyRoster(ctx, day, &lead)
		require.NoError(t, err)
		require.Len(t, roster, 1)
		assert.Equal(t, "EMP003", roster[0].EmployeeCode)
		assert.Equal(t, "emp-3", roster[0].EmployeeID)
	})

	t.Run("manager without reports", func(t *testing.T) {
		nobody := "emp-1"
		roster, err := f.service.DailyRoster(ctx, day, &nobody)
		require.NoError(t, err)
		assert.Empty(t, roster)
	})
}
