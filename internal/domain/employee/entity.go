package employee

import (
	"time"
)

// Employee is the directory record the time and leave core reads.
// UserID is the linked account identity used for approvals.
type Employee struct {
	ID        string
	Code      string
	FullName  string
	UserID    string
	ManagerID *string
	JobTitle  *string
	IsActive  bool
	JoinedAt  time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e Employee) HasManager() bool {
	return e.ManagerID != nil && *e.ManagerID != ""
}
