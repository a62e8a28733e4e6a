package payroll

import (
	"context"
	"time"
)

type PayrollService interface {
	// ComputeMonth and ComputeAll are read only.
	ComputeMonth(ctx context.Context, employeeID string, year int, month time.Month) (PayrollLine, error)
	ComputeAll(ctx context.Context, year int, month time.Month) (PayRunPreview, error)

	// ApproveRun stores the month's lines and marks the run approved.
	ApproveRun(ctx context.Context, year int, month time.Month, now time.Time) (PayrollRun, error)

	GetRun(ctx context.Context, year int, month time.Month) (PayrollRun, error)
	Payslip(ctx context.Context, employeeID string, year int, month time.Month) (Payslip, error)
}
