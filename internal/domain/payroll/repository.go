package payroll

import (
	"context"
	"time"
)

type CompensationRepository interface {
	GetByEmployeeID(ctx context.Context, employeeID string) (CompensationProfile, error)
}

type PayrollRunRepository interface {
	// Get returns ErrPayrollRunNotFound when the month was never approved.
	Get(ctx context.Context, year int, month time.Month) (PayrollRun, error)

	// Approve inserts or updates the run as approved at the given time.
	Approve(ctx context.Context, year int, month time.Month, at time.Time) (PayrollRun, error)
}

type PayrollLineRepository interface {
	// ReplaceForPeriod swaps the stored snapshot of a month for lines.
	ReplaceForPeriod(ctx context.Context, year int, month time.Month, lines []PayrollLine) error

	// GetByEmployee returns ErrPayrollLineNotFound when the snapshot has no line.
	GetByEmployee(ctx context.Context, employeeID string, year int, month time.Month) (PayrollLine, error)

	ListByPeriod(ctx context.Context, year int, month time.Month) ([]PayrollLine, error)
}
