package postgresqltest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/atikes/hr-backend-go/internal/domain/attendance"
	"github.com/atikes/hr-backend-go/internal/domain/employee"
	"github.com/atikes/hr-backend-go/internal/domain/leave"
	"github.com/atikes/hr-backend-go/internal/domain/payroll"
	"github.com/atikes/hr-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestEmployeeRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	require.NoError(t, setup.InsertEmployee(ctx, "emp-mgr", "MGR001", "user-mgr", nil))
	managerID := "emp-mgr"
	require.NoError(t, setup.InsertEmployee(ctx, "emp-1", "EMP001", "user-1", &managerID))

	repo := postgresql.NewEmployeeRepository(setup.DB)

	emp, err := repo.GetByCode(ctx, "EMP001")
	require.NoError(t, err)
	assert.Equal(t, "emp-1", emp.ID)
	require.True(t, emp.HasManager())
	assert.Equal(t, "emp-mgr", *emp.ManagerID)

	emp, err = repo.GetByUserID(ctx, "user-mgr")
	require.NoError(t, err)
	assert.Equal(t, "MGR001", emp.Code)

	_, err = repo.GetByID(ctx, "ghost")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestAttendanceRepository_OpenSessionGuard(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	require.NoError(t, setup.InsertEmployee(ctx, "emp-1", "EMP001", "user-1", nil))

	repo := postgresql.NewAttendanceRepository(setup.DB)
	in := day(5).Add(10 * time.Hour)
	open := attendance.Session{
		ID:         "s-1",
		EmployeeID: "emp-1",
		Sequence:   1,
		ShiftDay:   day(5),
		ClockIn:    in,
		ShiftStart: in,
		ShiftEnd:   in.Add(20 * time.Hour),
	}
	_, err := repo.Create(ctx, open)
	require.NoError(t, err)

	second := open
	second.ID = "s-2"
	second.Sequence = 2
	_, err = repo.Create(ctx, second)
	assert.ErrorIs(t, err, attendance.ErrOpenSessionExists)

	current, err := repo.GetOpenByEmployee(ctx, "emp-1")
	require.NoError(t, err)
	require.NotNil(t, current)
	require.NoError(t, current.Close(in.Add(90*time.Minute)))
	require.NoError(t, repo.Close(ctx, *current))
	assert.ErrorIs(t, repo.Close(ctx, *current), attendance.ErrSessionAlreadyClosed)

	_, err = repo.Create(ctx, second)
	require.NoError(t, err)

	seq, err := repo.MaxSequence(ctx, "emp-1", day(5))
	require.NoError(t, err)
	assert.Equal(t, 2, seq)

	sessions, err := repo.ListByEmployeeAndDay(ctx, "emp-1", day(5))
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "s-1", sessions[0].ID)
	require.NotNil(t, sessions[0].DurationSeconds)
	assert.Equal(t, int64(5400), *sessions[0].DurationSeconds)
	assert.True(t, sessions[0].ShiftDay.Equal(day(5)))

	byDay, err := repo.ListByDay(ctx, day(5))
	require.NoError(t, err)
	require.Len(t, byDay, 2)
	assert.Equal(t, "s-2", byDay[1].ID)

	byDay, err = repo.ListByDay(ctx, day(6))
	require.NoError(t, err)
	assert.Empty(t, byDay)
}

func TestLeaveRepositories(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	require.NoError(t, setup.InsertEmployee(ctx, "emp-1", "EMP001", "user-1", nil))

	tx := postgresql.NewTransactor(setup.DB)
	requests := postgresql.NewLeaveRequestRepository(setup.DB)
	configs := postgresql.NewApprovalConfigRepository(setup.DB)

	require.NoError(t, configs.Ensure(ctx))
	require.NoError(t, configs.Ensure(ctx))
	level2 := "user-hr"
	cfg, err := configs.Update(ctx, leave.ApprovalConfig{UseManagerL1: true, Level2ApproverID: &level2})
	require.NoError(t, err)
	assert.True(t, cfg.UseManagerL1)
	assert.Nil(t, cfg.Level1ApproverID)

	current := "user-mgr"
	_, err = requests.Create(ctx, leave.LeaveRequest{
		ID:                "l-1",
		EmployeeID:        "emp-1",
		EmployeeCode:      "EMP001",
		StartDate:         day(11),
		EndDate:           day(12),
		TotalDays:         2,
		Category:          leave.CategoryCasual,
		Status:            leave.StatusPendingL1,
		Level1ApproverID:  "user-mgr",
		Level2ApproverID:  "user-hr",
		CurrentApproverID: &current,
		CreatedAt:         day(1),
		UpdatedAt:         day(1),
	})
	require.NoError(t, err)

	err = tx.WithinTx(ctx, func(txCtx context.Context) error {
		pending, err := requests.ListPendingByApproverForUpdate(txCtx, "user-mgr")
		if err != nil {
			return err
		}
		require.Len(t, pending, 1)

		r := pending[0]
		if err := r.Approve("user-mgr", day(2)); err != nil {
			return err
		}
		if err := requests.UpdateDecision(txCtx, r); err != nil {
			return err
		}

		locked, err := requests.GetByIDForUpdate(txCtx, "l-1")
		if err != nil {
			return err
		}
		require.Equal(t, leave.StatusPendingL2, locked.Status)
		if err := locked.Approve("user-hr", day(3)); err != nil {
			return err
		}
		return requests.UpdateDecision(txCtx, locked)
	})
	require.NoError(t, err)

	got, err := requests.GetByID(ctx, "l-1")
	require.NoError(t, err)
	require.NotNil(t, got.EmployeeName)
	assert.Equal(t, "Employee EMP001", *got.EmployeeName)
	assert.Equal(t, leave.StatusApproved, got.Status)
	assert.Nil(t, got.CurrentApproverID)
	require.NotNil(t, got.Level2DecidedAt)

	days, err := requests.SumApprovedDays(ctx, "emp-1", []leave.Category{leave.CategoryCasual, leave.CategorySick}, day(1), day(31))
	require.NoError(t, err)
	assert.Equal(t, 2, days)

	history, err := requests.ListByEmployeeCode(ctx, "EMP001")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestTransactor_RollsBack(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	require.NoError(t, setup.InsertEmployee(ctx, "emp-1", "EMP001", "user-1", nil))

	tx := postgresql.NewTransactor(setup.DB)
	repo := postgresql.NewAttendanceRepository(setup.DB)
	boom := errors.New("boom")

	err := tx.WithinTx(ctx, func(txCtx context.Context) error {
		in := day(5).Add(10 * time.Hour)
		if _, err := repo.Create(txCtx, attendance.Session{
			ID: "s-1", EmployeeID: "emp-1", Sequence: 1, ShiftDay: day(5),
			ClockIn: in, ShiftStart: in, ShiftEnd: in.Add(20 * time.Hour),
		}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	open, err := repo.GetOpenByEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Nil(t, open)
}

func TestPayrollRepositories(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	require.NoError(t, setup.InsertEmployee(ctx, "emp-1", "EMP001", "user-1", nil))
	_, err := setup.DB.Exec(ctx, `
		INSERT INTO compensation_profiles (employee_id, gross_salary, basic_percent, hra_percent, epf_percent)
		VALUES ('emp-1', 26000.50, 50, 40, 12)
	`)
	require.NoError(t, err)

	profile, err := postgresql.NewCompensationRepository(setup.DB).GetByEmployeeID(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "26000.50", profile.GrossSalary.StringFixed(2))

	_, err = postgresql.NewCompensationRepository(setup.DB).GetByEmployeeID(ctx, "ghost")
	assert.ErrorIs(t, err, payroll.ErrCompensationProfileNotFound)

	runs := postgresql.NewPayrollRunRepository(setup.DB)
	lines := postgresql.NewPayrollLineRepository(setup.DB)
	tx := postgresql.NewTransactor(setup.DB)

	_, err = runs.Get(ctx, 2024, time.March)
	assert.ErrorIs(t, err, payroll.ErrPayrollRunNotFound)

	line := payroll.PayrollLine{
		EmployeeID:   "emp-1",
		EmployeeCode: "EMP001",
		EmployeeName: "Employee EMP001",
		Year:         2024,
		Month:        time.March,
		Figures: payroll.Figures{
			TotalWorkingDays: 26,
			AttendanceDays:   20,
			PaidLeaveDays:    2,
			PresentDays:      22,
			LWPDays:          1,
			AbsentDays:       3,
			GrossSalary:      decimal.NewFromInt(26000),
			SalaryPerDay:     decimal.NewFromInt(1000),
			NetSalary:        decimal.NewFromInt(22000),
			Deduction:        decimal.NewFromInt(4000),
		},
	}
	approvedAt := time.Date(2024, 4, 2, 12, 0, 0, 0, time.UTC)
	err = tx.WithinTx(ctx, func(txCtx context.Context) error {
		if _, err := runs.Approve(txCtx, 2024, time.March, approvedAt); err != nil {
			return err
		}
		return lines.ReplaceForPeriod(txCtx, 2024, time.March, []payroll.PayrollLine{line})
	})
	require.NoError(t, err)

	run, err := runs.Get(ctx, 2024, time.March)
	require.NoError(t, err)
	assert.True(t, run.Approved)
	require.NotNil(t, run.ApprovedAt)
	assert.True(t, run.ApprovedAt.Equal(approvedAt))

	got, err := lines.GetByEmployee(ctx, "emp-1", 2024, time.March)
	require.NoError(t, err)
	assert.Equal(t, 22, got.PresentDays)
	assert.Equal(t, "22000.00", got.NetSalary.StringFixed(2))

	// Replacing drops lines that are no longer part of the run.
	require.NoError(t, lines.ReplaceForPeriod(ctx, 2024, time.March, nil))
	_, err = lines.GetByEmployee(ctx, "emp-1", 2024, time.March)
	assert.ErrorIs(t, err, payroll.ErrPayrollLineNotFound)
}
