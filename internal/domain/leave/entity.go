package leave

import (
	"time"
)

type Status string

const (
	StatusPendingL1  Status = "PENDING_L1"
	StatusPendingL2  Status = "PENDING_L2"
	StatusApproved   Status = "APPROVED"
	StatusRejectedL1 Status = "REJECTED_L1"
	StatusRejectedL2 Status = "REJECTED_L2"
)

func (s Status) IsPending() bool {
	return s == StatusPendingL1 || s == StatusPendingL2
}

func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejectedL1 || s == StatusRejectedL2
}

type Category string

const (
	CategoryCasual Category = "casual"
	CategorySick   Category = "sick"
	// CategoryLWP is leave without pay.
	CategoryLWP Category = "lwp"
)

func AllCategories() []Category {
	return []Category{CategoryCasual, CategorySick, CategoryLWP}
}

func (c Category) IsValid() bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// LeaveRequest is a two-level approval record. CurrentApproverID is set while
// the request is pending and equals the approver of the pending level.
type LeaveRequest struct {
	ID                string
	EmployeeID        string
	EmployeeCode      string
	StartDate         time.Time
	EndDate           time.Time
	TotalDays         int
	Category          Category
	Reason            string
	Status            Status
	Level1ApproverID  string
	Level2ApproverID  string
	CurrentApproverID *string
	Level1DecidedAt   *time.Time
	Level2DecidedAt   *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// Joined fields
	EmployeeName *string
}

// ApprovalConfig is the single approval routing record. When UseManagerL1 is
// set the level-1 approver is the requester's manager and Level1ApproverID is
// ignored.
type ApprovalConfig struct {
	UseManagerL1     bool
	Level1ApproverID *string
	Level2ApproverID *string
	UpdatedAt        time.Time
}

type Balance struct {
	Category  Category
	Quota     *int
	Consumed  int
	Remaining *int
}

// EmployeeBalance is one row of the organisation-wide balance summary.
type EmployeeBalance struct {
	EmployeeID   string
	EmployeeCode string
	EmployeeName string
	Balances     []Balance
}
