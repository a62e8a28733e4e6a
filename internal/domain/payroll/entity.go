package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CompensationProfile holds the monthly gross salary. The percentage and
// fixed components only feed the payslip earnings breakdown.
type CompensationProfile struct {
	EmployeeID          string
	GrossSalary         decimal.Decimal
	BasicPercent        decimal.Decimal
	HRAPercent          decimal.Decimal
	FixedAllowance      decimal.Decimal
	MedicalFixed        decimal.Decimal
	DriverReimbursement decimal.Decimal
	EPFPercent          decimal.Decimal
	UpdatedAt           time.Time
}

type EarningsLine struct {
	Name   string
	Amount decimal.Decimal
}

// Earnings splits the gross salary for display. Basic is a share of gross,
// HRA a share of basic, the rest are fixed amounts.
func (p CompensationProfile) Earnings() []EarningsLine {
	basic := p.GrossSalary.Mul(p.BasicPercent).Div(hundred).Round(2)
	hra := basic.Mul(p.HRAPercent).Div(hundred).Round(2)
	return []EarningsLine{
		{Name: "Basic", Amount: basic},
		{Name: "HRA", Amount: hra},
		{Name: "Fixed Allowance", Amount: p.FixedAllowance.Round(2)},
		{Name: "Medical Reimbursement", Amount: p.MedicalFixed.Round(2)},
		{Name: "Driver Reimbursement", Amount: p.DriverReimbursement.Round(2)},
	}
}

// Deductions lists the statutory deductions shown on the payslip.
func (p CompensationProfile) Deductions() []EarningsLine {
	basic := p.GrossSalary.Mul(p.BasicPercent).Div(hundred).Round(2)
	return []EarningsLine{
		{Name: "EPF", Amount: basic.Mul(p.EPFPercent).Div(hundred).Round(2)},
	}
}

// Inputs are the day counts and salary the monthly figures derive from.
type Inputs struct {
	GrossSalary      decimal.Decimal
	TotalWorkingDays int
	AttendanceDays   int
	PaidLeaveDays    int
	LWPDays          int
}

type Figures struct {
	TotalWorkingDays int
	AttendanceDays   int
	PaidLeaveDays    int
	PresentDays      int
	LWPDays          int
	AbsentDays       int
	GrossSalary      decimal.Decimal
	SalaryPerDay     decimal.Decimal
	NetSalary        decimal.Decimal
	Deduction        decimal.Decimal
}

type PayrollLine struct {
	EmployeeID   string
	EmployeeCode string
	EmployeeName string
	Year         int
	Month        time.Month
	Figures
}

// PayrollRun is the monthly approval gate for payslips.
type PayrollRun struct {
	Year       int
	Month      time.Month
	Approved   bool
	ApprovedAt *time.Time
}

type PayRunPreview struct {
	Run   PayrollRun
	Lines []PayrollLine
}

type Payslip struct {
	Line       PayrollLine
	ApprovedAt time.Time
	Earnings   []EarningsLine
	Deductions []EarningsLine
}
