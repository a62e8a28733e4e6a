package user

type Permission string

const (
	// Attendance
	PermissionAttendanceClock   Permission = "attendance.clock"
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceViewAll Permission = "attendance.view_all"

	// Leave Management
	PermissionLeaveCreate    Permission = "leave.create"
	PermissionLeaveViewOwn   Permission = "leave.view_own"
	PermissionLeaveViewAll   Permission = "leave.view_all"
	PermissionLeaveApprove   Permission = "leave.approve"
	PermissionLeaveConfigure Permission = "leave.configure"

	// Payroll
	PermissionPayrollViewOwn Permission = "payroll.view_own"
	PermissionPayrollViewAll Permission = "payroll.view_all"
	PermissionPayrollApprove Permission = "payroll.approve"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		// Admin has all permissions
		PermissionAttendanceClock,
		PermissionAttendanceViewOwn,
		PermissionAttendanceViewAll,
		PermissionLeaveCreate,
		PermissionLeaveViewOwn,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionLeaveConfigure,
		PermissionPayrollViewOwn,
		PermissionPayrollViewAll,
		PermissionPayrollApprove,
	},
	RoleManager: {
		PermissionAttendanceClock,
		PermissionAttendanceViewOwn,
		PermissionAttendanceViewAll,
		PermissionLeaveCreate,
		PermissionLeaveViewOwn,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionPayrollViewOwn,
	},
	RoleEmployee: {
		PermissionAttendanceClock,
		PermissionAttendanceViewOwn,
		PermissionLeaveCreate,
		PermissionLeaveViewOwn,
		PermissionLeaveApprove, // fixed approvers may hold the employee role
		PermissionPayrollViewOwn,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
