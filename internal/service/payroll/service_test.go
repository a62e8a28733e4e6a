package payroll

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/atikes/hr-backend-go/internal/domain/attendance"
	"github.com/atikes/hr-backend-go/internal/domain/employee"
	"github.com/atikes/hr-backend-go/internal/domain/holiday"
	"github.com/atikes/hr-backend-go/internal/domain/leave"
	"github.com/atikes/hr-backend-go/internal/domain/notification"
	"github.com/atikes/hr-backend-go/internal/domain/payroll"
	"github.com/atikes/hr-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

func date(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
}

func closedSession(id, employeeID string, day time.Time, seconds int64) attendance.Session {
	in := day.Add(10 * time.Hour)
	out := in.Add(time.Duration(seconds) * time.Second)
	return attendance.Session{
		ID:              id,
		EmployeeID:      employeeID,
		Sequence:        1,
		ShiftDay:        day,
		ClockIn:         in,
		ClockOut:        &out,
		DurationSeconds: &seconds,
	}
}

func approvedLeave(id, employeeID string, start time.Time, days int, category leave.Category) leave.LeaveRequest {
	return leave.LeaveRequest{
		ID:           id,
		EmployeeID:   employeeID,
		EmployeeCode: "EMP001",
		StartDate:    start,
		EndDate:      start.AddDate(0, 0, days-1),
		TotalDays:    days,
		Category:     category,
		Status:       leave.StatusApproved,
	}
}

func memoryRepositories(store *memory.Store) Repositories {
	return Repositories{
		Employees:    memory.NewEmployeeRepository(store),
		Holidays:     memory.NewHolidayRepository(store),
		Sessions:     memory.NewAttendanceRepository(store),
		Leaves:       memory.NewLeaveRequestRepository(store),
		Compensation: memory.NewCompensationRepository(store),
		Runs:         memory.NewPayrollRunRepository(store),
		Lines:        memory.NewPayrollLineRepository(store),
	}
}

type fixture struct {
	store    *memory.Store
	service  payroll.PayrollService
	notifier *recordingNotifier
}

// newFixture seeds EMP001 for March 2024 with 20 attended days, 2 paid
// leave days and 1 day of leave without pay.
func newFixture(t *testing.T) fixture {
	t.Helper()

	store := memory.NewStore()
	store.PutEmployee(employee.Employee{ID: "emp-1", Code: "EMP001", FullName: "Asha Rao", UserID: "user-1", IsActive: true})
	store.PutEmployee(employee.Employee{ID: "emp-2", Code: "EMP002", FullName: "Ravi Kumar", UserID: "user-2", IsActive: true})
	store.PutEmployee(employee.Employee{ID: "emp-3", Code: "EMP003", FullName: "Former Staff", UserID: "user-3", IsActive: false})

	store.PutCompensation(payroll.CompensationProfile{
		EmployeeID:          "emp-1",
		GrossSalary:         decimal.NewFromInt(26000),
		BasicPercent:        decimal.NewFromInt(50),
		HRAPercent:          decimal.NewFromInt(40),
		FixedAllowance:      decimal.NewFromInt(4000),
		MedicalFixed:        decimal.NewFromInt(1250),
		DriverReimbursement: decimal.NewFromInt(1500),
		EPFPercent:          decimal.NewFromInt(12),
	})
	store.PutCompensation(payroll.CompensationProfile{EmployeeID: "emp-3", GrossSalary: decimal.NewFromInt(10000)})

	attended := 0
	for d := 1; attended < 20; d++ {
		if date(d).Weekday() == time.Sunday {
			continue
		}
		store.PutSession(closedSession(fmt.Sprintf("s-%d", d), "emp-1", date(d), 8*3600))
		attended++
	}
	// Neither a zero-length nor an open session marks a day attended.
	store.PutSession(closedSession("s-zero", "emp-1", date(29), 0))
	store.PutSession(attendance.Session{ID: "s-open", EmployeeID: "emp-1", Sequence: 1, ShiftDay: date(30), ClockIn: date(30).Add(10 * time.Hour)})

	store.PutLeaveRequest(approvedLeave("l-casual", "emp-1", date(26), 2, leave.CategoryCasual))
	store.PutLeaveRequest(approvedLeave("l-lwp", "emp-1", date(28), 1, leave.CategoryLWP))
	pending := approvedLeave("l-pending", "emp-1", date(27), 1, leave.CategorySick)
	pending.Status = leave.StatusPendingL2
	store.PutLeaveRequest(pending)

	notifier := &recordingNotifier{}
	svc := NewPayrollService(store.Transactor(), memoryRepositories(store), notifier, Options{
		MinPresenceSeconds: 1,
		PaidCategories:     []leave.Category{leave.CategoryCasual, leave.CategorySick},
	})
	return fixture{store: store, service: svc, notifier: notifier}
}

func TestComputeMonth(t *testing.T) {
	f := newFixture(t)

	line, err := f.service.ComputeMonth(context.Background(), "emp-1", 2024, time.March)
	require.NoError(t, err)

	assert.Equal(t, "EMP001", line.EmployeeCode)
	assert.Equal(t, 26, line.TotalWorkingDays)
	assert.Equal(t, 20, line.AttendanceDays)
	assert.Equal(t, 2, line.PaidLeaveDays)
	assert.Equal(t, 22, line.PresentDays)
	assert.Equal(t, 1, line.LWPDays)
	assert.Equal(t, 3, line.AbsentDays)
	assert.Equal(t, line.TotalWorkingDays, line.PresentDays+line.AbsentDays+line.LWPDays)
	assert.Equal(t, "1000", line.SalaryPerDay.StringFixed(0))
	assert.Equal(t, "22000.00", line.NetSalary.StringFixed(2))
	assert.Equal(t, "4000.00", line.Deduction.StringFixed(2))
}

func TestComputeMonth_LeaveWithoutPayIsNeverPaid(t *testing.T) {
	f := newFixture(t)
	svc := NewPayrollService(f.store.Transactor(), memoryRepositories(f.store), nil, Options{
		MinPresenceSeconds: 1,
		PaidCategories:     []leave.Category{leave.CategoryCasual, leave.CategorySick, leave.CategoryLWP},
	})

	line, err := svc.ComputeMonth(context.Background(), "emp-1", 2024, time.March)
	require.NoError(t, err)
	assert.Equal(t, 26, line.TotalWorkingDays)
	assert.Equal(t, 2, line.PaidLeaveDays)
	assert.Equal(t, 22, line.PresentDays)
	assert.Equal(t, 1, line.LWPDays)
	assert.Equal(t, 3, line.AbsentDays)
	assert.Equal(t, "22000.00", line.NetSalary.StringFixed(2))
}

func TestComputeMonth_Holiday(t *testing.T) {
	f := newFixture(t)
	f.store.PutHoliday(holiday.Holiday{Date: date(25), Name: "Holi"})
	// Sunday holiday is not subtracted again.
	f.store.PutHoliday(holiday.Holiday{Date: date(31), Name: "Easter"})

	line, err := f.service.ComputeMonth(context.Background(), "emp-1", 2024, time.March)
	require.NoError(t, err)
	assert.Equal(t, 25, line.TotalWorkingDays)
	assert.Equal(t, 2, line.AbsentDays)
	assert.Equal(t, "1040.00", line.SalaryPerDay.StringFixed(2))
}

func TestComputeMonth_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.ComputeMonth(ctx, "ghost", 2024, time.March)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = f.service.ComputeMonth(ctx, "emp-2", 2024, time.March)
	assert.ErrorIs(t, err, payroll.ErrCompensationProfileNotFound)
}

func TestComputeAll_IsReadOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	preview, err := f.service.ComputeAll(ctx, 2024, time.March)
	require.NoError(t, err)
	assert.False(t, preview.Run.Approved)
	require.Len(t, preview.Lines, 1)
	assert.Equal(t, "emp-1", preview.Lines[0].EmployeeID)

	_, err = f.service.Payslip(ctx, "emp-1", 2024, time.March)
	assert.ErrorIs(t, err, payroll.ErrPayrollNotApproved)
}

func TestApproveRunAndPayslip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	approvedAt := time.Date(2024, 4, 2, 12, 0, 0, 0, time.UTC)

	run, err := f.service.ApproveRun(ctx, 2024, time.March, approvedAt)
	require.NoError(t, err)
	assert.True(t, run.Approved)
	require.NotNil(t, run.ApprovedAt)

	got, err := f.service.GetRun(ctx, 2024, time.March)
	require.NoError(t, err)
	assert.True(t, got.Approved)

	slip, err := f.service.Payslip(ctx, "emp-1", 2024, time.March)
	require.NoError(t, err)
	assert.True(t, slip.ApprovedAt.Equal(approvedAt))
	assert.Equal(t, "22000.00", slip.Line.NetSalary.StringFixed(2))
	require.Len(t, slip.Earnings, 5)
	assert.Equal(t, "13000.00", slip.Earnings[0].Amount.StringFixed(2))
	assert.Equal(t, "5200.00", slip.Earnings[1].Amount.StringFixed(2))
	require.Len(t, slip.Deductions, 1)
	assert.Equal(t, "1560.00", slip.Deductions[0].Amount.StringFixed(2))

	_, err = f.service.Payslip(ctx, "emp-2", 2024, time.March)
	assert.ErrorIs(t, err, payroll.ErrPayrollLineNotFound)

	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, notification.TypePayrollClosed, f.notifier.events[0].Type)
	assert.Equal(t, "user-1", f.notifier.events[0].RecipientID)
}

func TestApproveRun_SnapshotIsStable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.ApproveRun(ctx, 2024, time.March, time.Now())
	require.NoError(t, err)

	// Later attendance changes do not alter the approved payslip.
	f.store.PutSession(closedSession("s-late", "emp-1", date(29), 3600))

	slip, err := f.service.Payslip(ctx, "emp-1", 2024, time.March)
	require.NoError(t, err)
	assert.Equal(t, 20, slip.Line.AttendanceDays)

	preview, err := f.service.ComputeAll(ctx, 2024, time.March)
	require.NoError(t, err)
	assert.True(t, preview.Run.Approved)
	assert.Equal(t, 21, preview.Lines[0].AttendanceDays)
}
