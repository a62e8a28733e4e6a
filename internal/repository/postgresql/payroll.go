package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atikes/hr-backend-go/internal/domain/payroll"
	"github.com/atikes/hr-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// ========== COMPENSATION ==========

type compensationRepository struct {
	db *database.DB
}

func NewCompensationRepository(db *database.DB) payroll.CompensationRepository {
	return &compensationRepository{db: db}
}

func (r *compensationRepository) GetByEmployeeID(ctx context.Context, employeeID string) (payroll.CompensationProfile, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, gross_salary, basic_percent, hra_percent, fixed_allowance,
			   medical_fixed, driver_reimbursement, epf_percent, updated_at
		FROM compensation_profiles
		WHERE employee_id = $1
	`

	var p payroll.CompensationProfile
	err := q.QueryRow(ctx, query, employeeID).Scan(
		&p.EmployeeID, &p.GrossSalary, &p.BasicPercent, &p.HRAPercent, &p.FixedAllowance,
		&p.MedicalFixed, &p.DriverReimbursement, &p.EPFPercent, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.CompensationProfile{}, payroll.ErrCompensationProfileNotFound
		}
		return payroll.CompensationProfile{}, fmt.Errorf("failed to get compensation profile: %w", err)
	}
	return p, nil
}

// ========== RUNS ==========

type payrollRunRepository struct {
	db *database.DB
}

func NewPayrollRunRepository(db *database.DB) payroll.PayrollRunRepository {
	return &payrollRunRepository{db: db}
}

func (r *payrollRunRepository) Get(ctx context.Context, year int, month time.Month) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	run := payroll.PayrollRun{Year: year, Month: month}
	err := q.QueryRow(ctx, `
		SELECT approved, approved_at FROM payroll_runs WHERE year = $1 AND month = $2
	`, year, int(month)).Scan(&run.Approved, &run.ApprovedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRun{}, payroll.ErrPayrollRunNotFound
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to get payroll run: %w", err)
	}
	return run, nil
}

func (r *payrollRunRepository) Approve(ctx context.Context, year int, month time.Month, at time.Time) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	run := payroll.PayrollRun{Year: year, Month: month}
	err := q.QueryRow(ctx, `
		INSERT INTO payroll_runs (year, month, approved, approved_at)
		VALUES ($1, $2, TRUE, $3)
		ON CONFLICT (year, month) DO UPDATE SET
			approved = TRUE,
			approved_at = EXCLUDED.approved_at
		RETURNING approved, approved_at
	`, year, int(month), at).Scan(&run.Approved, &run.ApprovedAt)
	if err != nil {
		return payroll.PayrollRun{}, fmt.Errorf("failed to approve payroll run: %w", err)
	}
	return run, nil
}

// ========== LINES ==========

type payrollLineRepository struct {
	db *database.DB
}

func NewPayrollLineRepository(db *database.DB) payroll.PayrollLineRepository {
	return &payrollLineRepository{db: db}
}

const payrollLineColumns = `employee_id, employee_code, employee_name, year, month,
	total_working_days, attendance_days, paid_leave_days, present_days, lwp_days, absent_days,
	gross_salary, salary_per_day, net_salary, deduction`

func scanPayrollLine(row pgx.Row) (payroll.PayrollLine, error) {
	var l payroll.PayrollLine
	var month int
	err := row.Scan(
		&l.EmployeeID, &l.EmployeeCode, &l.EmployeeName, &l.Year, &month,
		&l.TotalWorkingDays, &l.AttendanceDays, &l.PaidLeaveDays, &l.PresentDays, &l.LWPDays, &l.AbsentDays,
		&l.GrossSalary, &l.SalaryPerDay, &l.NetSalary, &l.Deduction,
	)
	l.Month = time.Month(month)
	return l, err
}

func (r *payrollLineRepository) ReplaceForPeriod(ctx context.Context, year int, month time.Month, lines []payroll.PayrollLine) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM payroll_lines WHERE year = $1 AND month = $2`, year, int(month)); err != nil {
		return fmt.Errorf("failed to clear payroll lines: %w", err)
	}

	query := `
		INSERT INTO payroll_lines (` + payrollLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	for _, l := range lines {
		_, err := q.Exec(ctx, query,
			l.EmployeeID, l.EmployeeCode, l.EmployeeName, year, int(month),
			l.TotalWorkingDays, l.AttendanceDays, l.PaidLeaveDays, l.PresentDays, l.LWPDays, l.AbsentDays,
			l.GrossSalary, l.SalaryPerDay, l.NetSalary, l.Deduction,
		)
		if err != nil {
			return fmt.Errorf("failed to insert payroll line for employee %s: %w", l.EmployeeID, err)
		}
	}
	return nil
}

func (r *payrollLineRepository) GetByEmployee(ctx context.Context, employeeID string, year int, month time.Month) (payroll.PayrollLine, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollLineColumns + ` FROM payroll_lines WHERE employee_id = $1 AND year = $2 AND month = $3`
	l, err := scanPayrollLine(q.QueryRow(ctx, query, employeeID, year, int(month)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollLine{}, payroll.ErrPayrollLineNotFound
		}
		return payroll.PayrollLine{}, fmt.Errorf("failed to get payroll line: %w", err)
	}
	return l, nil
}

func (r *payrollLineRepository) ListByPeriod(ctx context.Context, year int, month time.Month) ([]payroll.PayrollLine, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+payrollLineColumns+`
		FROM payroll_lines WHERE year = $1 AND month = $2 ORDER BY employee_code
	`, year, int(month))
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll lines: %w", err)
	}
	defer rows.Close()

	lines := []payroll.PayrollLine{}
	for rows.Next() {
		l, err := scanPayrollLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
