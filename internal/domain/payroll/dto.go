package payroll

import (
	"strconv"
	"time"

	"github.com/atikes/hr-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type PeriodRequest struct {
	Year  string
	Month string
}

func (r *PeriodRequest) Validate() (int, time.Month, error) {
	var errs validator.ValidationErrors

	year, err := strconv.Atoi(r.Year)
	if !validator.IsNumeric(r.Year) || err != nil || year < 1970 || year > 9999 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be a four digit number",
		})
	}

	month, err := strconv.Atoi(r.Month)
	if !validator.IsNumeric(r.Month) || err != nil || month < 1 || month > 12 {
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

type PayrollLineResponse struct {
	EmployeeID       string          `json:"employee_id"`
	EmployeeCode     string          `json:"employee_code"`
	EmployeeName     string          `json:"employee_name"`
	SalaryMonth      string          `json:"salary_month"`
	TotalWorkingDays int             `json:"total_working_days"`
	AttendanceDays   int             `json:"attendance_days"`
	PaidLeaveDays    int             `json:"paid_leave_days"`
	PresentDays      int             `json:"present_days"`
	LWPDays          int             `json:"lwp_days"`
	AbsentDays       int             `json:"absent_days"`
	GrossSalary      decimal.Decimal `json:"gross_salary"`
	SalaryPerDay     decimal.Decimal `json:"salary_per_day"`
	Deduction        decimal.Decimal `json:"deduction"`
	NetSalary        decimal.Decimal `json:"net_salary"`
}

func NewPayrollLineResponse(l PayrollLine) PayrollLineResponse {
	return PayrollLineResponse{
		EmployeeID:       l.EmployeeID,
		EmployeeCode:     l.EmployeeCode,
		EmployeeName:     l.EmployeeName,
		SalaryMonth:      l.Month.String() + " " + strconv.Itoa(l.Year),
		TotalWorkingDays: l.TotalWorkingDays,
		AttendanceDays:   l.AttendanceDays,
		PaidLeaveDays:    l.PaidLeaveDays,
		PresentDays:      l.PresentDays,
		LWPDays:          l.LWPDays,
		AbsentDays:       l.AbsentDays,
		GrossSalary:      l.GrossSalary,
		SalaryPerDay:     l.SalaryPerDay,
		Deduction:        l.Deduction,
		NetSalary:        l.NetSalary,
	}
}

type PayrollRunResponse struct {
	Year       int        `json:"year"`
	Month      int        `json:"month"`
	Approved   bool       `json:"approved"`
	ApprovedAt *time.Time `json:"approved_at"`
}

func NewPayrollRunResponse(r PayrollRun) PayrollRunResponse {
	return PayrollRunResponse{
		Year:       r.Year,
		Month:      int(r.Month),
		Approved:   r.Approved,
		ApprovedAt: r.ApprovedAt,
	}
}

type PayRunPreviewResponse struct {
	Run   PayrollRunResponse    `json:"run"`
	Lines []PayrollLineResponse `json:"lines"`
}

func NewPayRunPreviewResponse(p PayRunPreview) PayRunPreviewResponse {
	lines := make([]PayrollLineResponse, 0, len(p.Lines))
	for _, l := range p.Lines {
		lines = append(lines, NewPayrollLineResponse(l))
	}
	return PayRunPreviewResponse{
		Run:   NewPayrollRunResponse(p.Run),
		Lines: lines,
	}
}

type AmountResponse struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

type PayslipResponse struct {
	PayrollLineResponse
	ApprovedAt time.Time        `json:"approved_at"`
	Earnings   []AmountResponse `json:"earnings"`
	Deductions []AmountResponse `json:"deductions"`
}

func NewPayslipResponse(p Payslip) PayslipResponse {
	return PayslipResponse{
		PayrollLineResponse: NewPayrollLineResponse(p.Line),
		ApprovedAt:          p.ApprovedAt,
		Earnings:            toAmounts(p.Earnings),
		Deductions:          toAmounts(p.Deductions),
	}
}

func toAmounts(lines []EarningsLine) []AmountResponse {
	result := make([]AmountResponse, 0, len(lines))
	for _, l := range lines {
		result = append(result, AmountResponse{Name: l.Name, Amount: l.Amount})
	}
	return result
}
