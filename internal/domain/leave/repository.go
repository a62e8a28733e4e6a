package leave

import (
	"context"
	"time"
)

type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)

	// GetByIDForUpdate locks the request row for the surrounding transaction.
	GetByIDForUpdate(ctx context.Context, id string) (LeaveRequest, error)

	// UpdateDecision persists status, current approver and decision timestamps.
	UpdateDecision(ctx context.Context, request LeaveRequest) error

	// ListPendingByApproverForUpdate locks and returns the pending requests
	// whose current approver is approverID, oldest first.
	ListPendingByApproverForUpdate(ctx context.Context, approverID string) ([]LeaveRequest, error)

	// ListByEmployeeCode returns every request of the employee in submission order.
	ListByEmployeeCode(ctx context.Context, employeeCode string) ([]LeaveRequest, error)

	// SumApprovedDays totals approved day counts whose start date is within [from, to].
	SumApprovedDays(ctx context.Context, employeeID string, categories []Category, from, to time.Time) (int, error)
}

type ApprovalConfigRepository interface {
	// Ensure creates the configuration record with unset approvers if missing.
	Ensure(ctx context.Context) error
	Get(ctx context.Context) (ApprovalConfig, error)
	Update(ctx context.Context, cfg ApprovalConfig) (ApprovalConfig, error)
}
