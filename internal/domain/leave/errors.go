package leave

import "errors"

var (
	ErrLeaveRequestNotFound   = errors.New("leave request not found")
	ErrApprovalConfigNotFound = errors.New("leave approval configuration has not been initialised")
	ErrInvalidDateRange       = errors.New("end date must not be before start date")

	// Approval errors
	ErrNotCurrentApprover = errors.New("only the current approver can act on this leave request")
	ErrInvalidState       = errors.New("leave request is not awaiting a decision")

	// Configuration errors
	ErrManagerNotAssigned    = errors.New("employee has no manager assigned for level 1 approval")
	ErrApproverNotConfigured = errors.New("leave approver is not configured")
)

// IsConfigurationError reports whether err is caused by missing approval routing.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrManagerNotAssigned) || errors.Is(err, ErrApproverNotConfigured)
}
