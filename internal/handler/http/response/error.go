package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/atikes/hr-backend-go/internal/domain/attendance"
	"github.com/atikes/hr-backend-go/internal/domain/auth"
	"github.com/atikes/hr-backend-go/internal/domain/employee"
	"github.com/atikes/hr-backend-go/internal/domain/leave"
	"github.com/atikes/hr-backend-go/internal/domain/payroll"
	"github.com/atikes/hr-backend-go/internal/domain/user"
	"github.com/atikes/hr-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, user.ErrAdminPrivilegeRequired),
		errors.Is(err, user.ErrManagerAccessRequired),
		errors.Is(err, user.ErrInsufficientPermissions),
		errors.Is(err, user.ErrEmployeeLinkRequired):
		Forbidden(w, err.Error())

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		Forbidden(w, "Employee is inactive")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrSessionNotFound):
		NotFound(w, "Attendance session not found")
	case errors.Is(err, attendance.ErrSessionAlreadyClosed):
		Conflict(w, "Attendance session already closed")
	case errors.Is(err, attendance.ErrOpenSessionExists):
		Conflict(w, "Employee already has an open session")
	case errors.Is(err, attendance.ErrClockOutBeforeShiftStart):
		BadRequest(w, "Cannot clock out before the shift starts", nil)

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrApprovalConfigNotFound):
		NotFound(w, "Leave approval configuration not found")
	case errors.Is(err, leave.ErrInvalidDateRange):
		BadRequest(w, err.Error(), map[string]string{"end_date": err.Error()})
	case errors.Is(err, leave.ErrNotCurrentApprover):
		Forbidden(w, err.Error())
	case errors.Is(err, leave.ErrInvalidState):
		Conflict(w, err.Error())
	case leave.IsConfigurationError(err):
		UnprocessableEntity(w, "CONFIGURATION_ERROR", err.Error())

	// Payroll domain errors
	case errors.Is(err, payroll.ErrCompensationProfileNotFound):
		NotFound(w, "Compensation profile not found")
	case errors.Is(err, payroll.ErrPayrollRunNotFound):
		NotFound(w, "Payroll run not found")
	case errors.Is(err, payroll.ErrPayrollLineNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, payroll.ErrPayrollNotApproved):
		Forbidden(w, err.Error())
	case errors.Is(err, payroll.ErrNoWorkingDays):
		UnprocessableEntity(w, "NO_WORKING_DAYS", err.Error())

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
