package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/atikes/hr-backend-go/internal/domain/attendance"
	"github.com/atikes/hr-backend-go/internal/domain/employee"
	"github.com/atikes/hr-backend-go/internal/domain/holiday"
	"github.com/atikes/hr-backend-go/internal/domain/leave"
	"github.com/atikes/hr-backend-go/internal/domain/notification"
	"github.com/atikes/hr-backend-go/internal/domain/payroll"
	"github.com/atikes/hr-backend-go/internal/pkg/database"
	"github.com/atikes/hr-backend-go/internal/pkg/shift"
)

type Options struct {
	// MinPresenceSeconds is the shortest closed session that marks a day attended.
	MinPresenceSeconds int64

	// PaidCategories count as paid leave. Leave without pay is never paid and
	// is dropped from the list.
	PaidCategories []leave.Category
}

type Repositories struct {
	Employees    employee.EmployeeRepository
	Holidays     holiday.HolidayRepository
	Sessions     attendance.SessionRepository
	Leaves       leave.LeaveRequestRepository
	Compensation payroll.CompensationRepository
	Runs         payroll.PayrollRunRepository
	Lines        payroll.PayrollLineRepository
}

type PayrollServiceImpl struct {
	tx       database.Transactor
	repos    Repositories
	notifier notification.Notifier
	opts     Options
}

func NewPayrollService(tx database.Transactor, repos Repositories, notifier notification.Notifier, opts Options) payroll.PayrollService {
	if notifier == nil {
		notifier = notification.Nop{}
	}
	opts.PaidCategories = slices.DeleteFunc(slices.Clone(opts.PaidCategories), func(c leave.Category) bool {
		return c == leave.CategoryLWP
	})
	return &PayrollServiceImpl{
		tx:       tx,
		repos:    repos,
		notifier: notifier,
		opts:     opts,
	}
}

// ComputeMonth implements payroll.PayrollService.
func (s *PayrollServiceImpl) ComputeMonth(ctx context.Context, employeeID string, year int, month time.Month) (payroll.PayrollLine, error) {
	emp, err := s.repos.Employees.GetByID(ctx, employeeID)
	if err != nil {
		return payroll.PayrollLine{}, err
	}

	profile, err := s.repos.Compensation.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		return payroll.PayrollLine{}, err
	}

	workingDays, err := s.workingDays(ctx, year, month)
	if err != nil {
		return payroll.PayrollLine{}, err
	}
	return s.computeLine(ctx, emp, profile, workingDays, year, month)
}

// ComputeAll implements payroll.PayrollService.
func (s *PayrollServiceImpl) ComputeAll(ctx context.Context, year int, month time.Month) (payroll.PayRunPreview, error) {
	lines, err := s.computeAll(ctx, year, month)
	if err != nil {
		return payroll.PayRunPreview{}, err
	}

	run, err := s.GetRun(ctx, year, month)
	if err != nil {
		return payroll.PayRunPreview{}, err
	}
	return payroll.PayRunPreview{Run: run, Lines: lines}, nil
}

// ApproveRun implements payroll.PayrollService.
func (s *PayrollServiceImpl) ApproveRun(ctx context.Context, year int, month time.Month, now time.Time) (payroll.PayrollRun, error) {
	now = now.UTC()

	var (
		run   payroll.PayrollRun
		lines []payroll.PayrollLine
	)
	err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		lines, err = s.computeAll(txCtx, year, month)
		if err != nil {
			return err
		}

		run, err = s.repos.Runs.Approve(txCtx, year, month, now)
		if err != nil {
			return fmt.Errorf("failed to approve payroll run: %w", err)
		}

		if err := s.repos.Lines.ReplaceForPeriod(txCtx, year, month, lines); err != nil {
			return fmt.Errorf("failed to store payroll lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return payroll.PayrollRun{}, err
	}

	slog.Info("Payroll run approved", "year", year, "month", int(month), "lines", len(lines))

	period := fmt.Sprintf("%s %d", month, year)
	for _, line := range lines {
		emp, err := s.repos.Employees.GetByID(ctx, line.EmployeeID)
		if err != nil {
			slog.Warn("Failed to resolve employee for payroll notification", "employee_id", line.EmployeeID, "error", err)
			continue
		}
		if err := s.notifier.Notify(ctx, notification.Event{
			Type:        notification.TypePayrollClosed,
			RecipientID: emp.UserID,
			Title:       "Your payslip for " + period + " is available",
			Data: map[string]interface{}{
				"year":  year,
				"month": int(month),
			},
			CreatedAt: now,
		}); err != nil {
			slog.Warn("Failed to send notification", "type", notification.TypePayrollClosed, "recipient_id", emp.UserID, "error", err)
		}
	}
	return run, nil
}

// GetRun implements payroll.PayrollService. A month that was never approved
// is reported as an unapproved run.
func (s *PayrollServiceImpl) GetRun(ctx context.Context, year int, month time.Month) (payroll.PayrollRun, error) {
	run, err := s.repos.Runs.Get(ctx, year, month)
	if err != nil {
		if errors.Is(err, payroll.ErrPayrollRunNotFound) {
			return payroll.PayrollRun{Year: year, Month: month}, nil
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to get payroll run: %w", err)
	}
	return run, nil
}

// Payslip implements payroll.PayrollService.
func (s *PayrollServiceImpl) Payslip(ctx context.Context, employeeID string, year int, month time.Month) (payroll.Payslip, error) {
	run, err := s.GetRun(ctx, year, month)
	if err != nil {
		return payroll.Payslip{}, err
	}
	if !run.Approved || run.ApprovedAt == nil {
		return payroll.Payslip{}, payroll.ErrPayrollNotApproved
	}

	line, err := s.repos.Lines.GetByEmployee(ctx, employeeID, year, month)
	if err != nil {
		return payroll.Payslip{}, err
	}

	slip := payroll.Payslip{Line: line, ApprovedAt: *run.ApprovedAt}
	profile, err := s.repos.Compensation.GetByEmployeeID(ctx, employeeID)
	switch {
	case err == nil:
		slip.Earnings = profile.Earnings()
		slip.Deductions = profile.Deductions()
	case !errors.Is(err, payroll.ErrCompensationProfileNotFound):
		return payroll.Payslip{}, fmt.Errorf("failed to get compensation profile: %w", err)
	}
	return slip, nil
}

func (s *PayrollServiceImpl) computeAll(ctx context.Context, year int, month time.Month) ([]payroll.PayrollLine, error) {
	employees, err := s.repos.Employees.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	workingDays, err := s.workingDays(ctx, year, month)
	if err != nil {
		return nil, err
	}

	lines := make([]payroll.PayrollLine, 0, len(employees))
	for _, emp := range employees {
		profile, err := s.repos.Compensation.GetByEmployeeID(ctx, emp.ID)
		if err != nil {
			if errors.Is(err, payroll.ErrCompensationProfileNotFound) {
				slog.Debug("Skipping employee without compensation profile", "employee_id", emp.ID)
				continue
			}
			return nil, fmt.Errorf("failed to get compensation profile: %w", err)
		}

		line, err := s.computeLine(ctx, emp, profile, workingDays, year, month)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (s *PayrollServiceImpl) workingDays(ctx context.Context, year int, month time.Month) (int, error) {
	holidays, err := s.repos.Holidays.ListByMonth(ctx, year, month)
	if err != nil {
		return 0, fmt.Errorf("failed to list holidays: %w", err)
	}
	dates := make([]time.Time, 0, len(holidays))
	for _, h := range holidays {
		dates = append(dates, h.Date)
	}
	return payroll.WorkingDays(year, month, dates), nil
}

func (s *PayrollServiceImpl) computeLine(ctx context.Context, emp employee.Employee, profile payroll.CompensationProfile, workingDays, year int, month time.Month) (payroll.PayrollLine, error) {
	first, last := shift.MonthRange(year, month)

	sessions, err := s.repos.Sessions.ListByEmployeeBetween(ctx, emp.ID, first, last)
	if err != nil {
		return payroll.PayrollLine{}, fmt.Errorf("failed to list sessions: %w", err)
	}

	paid, err := s.repos.Leaves.SumApprovedDays(ctx, emp.ID, s.opts.PaidCategories, first, last)
	if err != nil {
		return payroll.PayrollLine{}, fmt.Errorf("failed to sum paid leave: %w", err)
	}

	lwp, err := s.repos.Leaves.SumApprovedDays(ctx, emp.ID, []leave.Category{leave.CategoryLWP}, first, last)
	if err != nil {
		return payroll.PayrollLine{}, fmt.Errorf("failed to sum leave without pay: %w", err)
	}

	figures, err := payroll.Compute(payroll.Inputs{
		GrossSalary:      profile.GrossSalary,
		TotalWorkingDays: workingDays,
		AttendanceDays:   attendance.CountAttendedDays(sessions, s.opts.MinPresenceSeconds),
		PaidLeaveDays:    paid,
		LWPDays:          lwp,
	})
	if err != nil {
		return payroll.PayrollLine{}, err
	}

	return payroll.PayrollLine{
		EmployeeID:   emp.ID,
		EmployeeCode: emp.Code,
		EmployeeName: emp.FullName,
		Year:         year,
		Month:        month,
		Figures:      figures,
	}, nil
}
