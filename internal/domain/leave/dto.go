package leave

import (
	"strings"
	"time"

	"github.com/atikes/hr-backend-go/internal/pkg/validator"
)

// ManagerApproverKeyword selects the requester's manager as level-1 approver.
const ManagerApproverKeyword = "MANAGER"

// ========================================
// LEAVE REQUEST DTOs
// ========================================

type SubmitLeaveRequest struct {
	EmployeeID string `json:"-"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Category   string `json:"category"`
	Reason     string `json:"reason"`
}

func (r *SubmitLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	if _, ok := validator.IsValidDate(r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if !Category(strings.ToLower(r.Category)).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "category",
			Message: "category must be one of casual, sick, lwp",
		})
	}

	if len(r.Reason) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Dates returns the parsed start and end dates. Call after Validate.
func (r *SubmitLeaveRequest) Dates() (start, end time.Time) {
	start, _ = validator.IsValidDate(r.StartDate)
	end, _ = validator.IsValidDate(r.EndDate)
	return start, end
}

type LeaveRequestResponse struct {
	ID                string     `json:"id"`
	EmployeeID        string     `json:"employee_id"`
	EmployeeCode      string     `json:"employee_code"`
	EmployeeName      *string    `json:"employee_name,omitempty"`
	StartDate         string     `json:"start_date"`
	EndDate           string     `json:"end_date"`
	TotalDays         int        `json:"total_days"`
	Category          Category   `json:"category"`
	Reason            string     `json:"reason"`
	Status            Status     `json:"status"`
	Level1ApproverID  string     `json:"level1_approver_id"`
	Level2ApproverID  string     `json:"level2_approver_id"`
	CurrentApproverID *string    `json:"current_approver_id"`
	Level1DecidedAt   *time.Time `json:"level1_decided_at"`
	Level2DecidedAt   *time.Time `json:"level2_decided_at"`
	CreatedAt         time.Time  `json:"created_at"`
}

func NewLeaveRequestResponse(r LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:                r.ID,
		EmployeeID:        r.EmployeeID,
		EmployeeCode:      r.EmployeeCode,
		EmployeeName:      r.EmployeeName,
		StartDate:         r.StartDate.Format("2006-01-02"),
		EndDate:           r.EndDate.Format("2006-01-02"),
		TotalDays:         r.TotalDays,
		Category:          r.Category,
		Reason:            r.Reason,
		Status:            r.Status,
		Level1ApproverID:  r.Level1ApproverID,
		Level2ApproverID:  r.Level2ApproverID,
		CurrentApproverID: r.CurrentApproverID,
		Level1DecidedAt:   r.Level1DecidedAt,
		Level2DecidedAt:   r.Level2DecidedAt,
		CreatedAt:         r.CreatedAt,
	}
}

func NewLeaveRequestResponses(requests []LeaveRequest) []LeaveRequestResponse {
	result := make([]LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		result = append(result, NewLeaveRequestResponse(r))
	}
	return result
}

// ========================================
// APPROVAL CONFIG DTOs
// ========================================

// UpdateApprovalConfigRequest sets the approver identities. Level1 takes
// either an account identity or ManagerApproverKeyword.
type UpdateApprovalConfigRequest struct {
	Level1 string `json:"level1"`
	Level2 string `json:"level2"`
}

func (r *UpdateApprovalConfigRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Level1) {
		errs = append(errs, validator.ValidationError{
			Field:   "level1",
			Message: "level1 is required",
		})
	}

	if validator.IsEmpty(r.Level2) {
		errs = append(errs, validator.ValidationError{
			Field:   "level2",
			Message: "level2 is required",
		})
	} else if strings.EqualFold(strings.TrimSpace(r.Level2), ManagerApproverKeyword) {
		errs = append(errs, validator.ValidationError{
			Field:   "level2",
			Message: "level2 must be a fixed approver",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToConfig converts the request. Choosing the manager clears the fixed
// level-1 identity.
func (r *UpdateApprovalConfigRequest) ToConfig() ApprovalConfig {
	level2 := strings.TrimSpace(r.Level2)
	cfg := ApprovalConfig{Level2ApproverID: &level2}

	level1 := strings.TrimSpace(r.Level1)
	if strings.EqualFold(level1, ManagerApproverKeyword) {
		cfg.UseManagerL1 = true
		return cfg
	}
	cfg.Level1ApproverID = &level1
	return cfg
}

type ApprovalConfigResponse struct {
	UseManagerL1     bool      `json:"use_manager_l1"`
	Level1ApproverID *string   `json:"level1_approver_id"`
	Level2ApproverID *string   `json:"level2_approver_id"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func NewApprovalConfigResponse(c ApprovalConfig) ApprovalConfigResponse {
	return ApprovalConfigResponse{
		UseManagerL1:     c.UseManagerL1,
		Level1ApproverID: c.Level1ApproverID,
		Level2ApproverID: c.Level2ApproverID,
		UpdatedAt:        c.UpdatedAt,
	}
}

// ========================================
// BALANCE DTOs
// ========================================

type BalanceResponse struct {
	Category  Category `json:"category"`
	Quota     *int     `json:"quota"`
	Consumed  int      `json:"consumed"`
	Remaining *int     `json:"remaining"`
}

type LeaveBalanceResponse struct {
	EmployeeCode string            `json:"employee_code"`
	Year         int               `json:"year"`
	Balances     []BalanceResponse `json:"balances"`
}

func NewLeaveBalanceResponse(employeeCode string, year int, balances []Balance) LeaveBalanceResponse {
	return LeaveBalanceResponse{
		EmployeeCode: employeeCode,
		Year:         year,
		Balances:     newBalanceResponses(balances),
	}
}

func newBalanceResponses(balances []Balance) []BalanceResponse {
	result := make([]BalanceResponse, 0, len(balances))
	for _, b := range balances {
		result = append(result, BalanceResponse{
			Category:  b.Category,
			Quota:     b.Quota,
			Consumed:  b.Consumed,
			Remaining: b.Remaining,
		})
	}
	return result
}

type EmployeeBalanceResponse struct {
	EmployeeID   string            `json:"employee_id"`
	EmployeeCode string            `json:"employee_code"`
	EmployeeName string            `json:"employee_name"`
	Balances     []BalanceResponse `json:"balances"`
}

type BalanceSummaryResponse struct {
	Year      int                       `json:"year"`
	Employees []EmployeeBalanceResponse `json:"employees"`
}

func NewBalanceSummaryResponse(year int, summary []EmployeeBalance) BalanceSummaryResponse {
	resp := BalanceSummaryResponse{
		Year:      year,
		Employees: make([]EmployeeBalanceResponse, 0, len(summary)),
	}
	for _, e := range summary {
		resp.Employees = append(resp.Employees, EmployeeBalanceResponse{
			EmployeeID:   e.EmployeeID,
			EmployeeCode: e.EmployeeCode,
			EmployeeName: e.EmployeeName,
			Balances:     newBalanceResponses(e.Balances),
		})
	}
	return resp
}
