package leave

import (
	"context"
	"time"
)

type LeaveService interface {
	Submit(ctx context.Context, req SubmitLeaveRequest, now time.Time) (LeaveRequest, error)
	Approve(ctx context.Context, leaveID string, actorID string, now time.Time) (LeaveRequest, error)
	Reject(ctx context.Context, leaveID string, actorID string, now time.Time) (LeaveRequest, error)

	// PendingFor returns the approver's queue after routing their own
	// requests past them.
	PendingFor(ctx context.Context, approverID string, now time.Time) ([]LeaveRequest, error)

	HistoryFor(ctx context.Context, employeeCode string) ([]LeaveRequest, error)
	Balance(ctx context.Context, employeeCode string, year int) ([]Balance, error)
	// BalanceSummary returns the balances of every active employee, ordered
	// by employee code.
	BalanceSummary(ctx context.Context, year int) ([]EmployeeBalance, error)

	// EmployeeCode resolves the code HistoryFor and Balance are keyed by.
	EmployeeCode(ctx context.Context, employeeID string) (string, error)

	EnsureApprovalConfig(ctx context.Context) error
	GetApprovalConfig(ctx context.Context) (ApprovalConfig, error)
	UpdateApprovalConfig(ctx context.Context, req UpdateApprovalConfigRequest) (ApprovalConfig, error)
}
