package payroll

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkingDays(t *testing.T) {
	// March 2024: 31 days, 5 Sundays.
	assert.Equal(t, 26, WorkingDays(2024, time.March, nil))

	holidays := []time.Time{
		time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC),  // duplicate
		time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), // Sunday
		time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),  // other month
	}
	assert.Equal(t, 25, WorkingDays(2024, time.March, holidays))
}

func TestCompute_Scenario(t *testing.T) {
	figures, err := Compute(Inputs{
		GrossSalary:      decimal.NewFromInt(26000),
		TotalWorkingDays: 26,
		AttendanceDays:   20,
		PaidLeaveDays:    2,
		LWPDays:          1,
	})
	require.NoError(t, err)

	assert.Equal(t, 22, figures.PresentDays)
	assert.Equal(t, 3, figures.AbsentDays)
	assert.Equal(t, figures.TotalWorkingDays, figures.PresentDays+figures.AbsentDays+figures.LWPDays)
	assert.True(t, decimal.NewFromInt(1000).Equal(figures.SalaryPerDay))
	assert.True(t, decimal.NewFromInt(22000).Equal(figures.NetSalary))
	assert.True(t, decimal.NewFromInt(4000).Equal(figures.Deduction))
}

func TestCompute_Rounding(t *testing.T) {
	figures, err := Compute(Inputs{
		GrossSalary:      decimal.RequireFromString("30000"),
		TotalWorkingDays: 26,
		AttendanceDays:   25,
	})
	require.NoError(t, err)

	// 30000 / 26 = 1153.846... rounds to 1153.85
	assert.Equal(t, "1153.85", figures.SalaryPerDay.StringFixed(2))
	assert.Equal(t, "28846.25", figures.NetSalary.StringFixed(2))
	assert.Equal(t, "1153.75", figures.Deduction.StringFixed(2))
}

func TestCompute_AbsentClampedAtZero(t *testing.T) {
	figures, err := Compute(Inputs{
		GrossSalary:      decimal.NewFromInt(10000),
		TotalWorkingDays: 20,
		AttendanceDays:   21,
		LWPDays:          1,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, figures.AbsentDays)
}

func TestCompute_NoWorkingDays(t *testing.T) {
	_, err := Compute(Inputs{GrossSalary: decimal.NewFromInt(1000)})
	assert.ErrorIs(t, err, ErrNoWorkingDays)
}

func TestCompute_Idempotent(t *testing.T) {
	in := Inputs{
		GrossSalary:      decimal.RequireFromString("45250.50"),
		TotalWorkingDays: 25,
		AttendanceDays:   18,
		PaidLeaveDays:    3,
		LWPDays:          2,
	}
	first, err := Compute(in)
	require.NoError(t, err)
	second, err := Compute(in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEarnings(t *testing.T) {
	profile := CompensationProfile{
		GrossSalary:         decimal.NewFromInt(40000),
		BasicPercent:        decimal.NewFromInt(50),
		HRAPercent:          decimal.NewFromInt(20),
		FixedAllowance:      decimal.NewFromInt(4532),
		MedicalFixed:        decimal.NewFromInt(1000),
		DriverReimbursement: decimal.NewFromInt(1000),
		EPFPercent:          decimal.NewFromInt(12),
	}

	earnings := profile.Earnings()
	require.Len(t, earnings, 5)
	assert.Equal(t, "Basic", earnings[0].Name)
	assert.Equal(t, "20000.00", earnings[0].Amount.StringFixed(2))
	assert.Equal(t, "4000.00", earnings[1].Amount.StringFixed(2))

	deductions := profile.Deductions()
	require.Len(t, deductions, 1)
	assert.Equal(t, "2400.00", deductions[0].Amount.StringFixed(2))
}
