package user

import "errors"

var (
	ErrAdminPrivilegeRequired  = errors.New("admin privilege required")
	ErrManagerAccessRequired   = errors.New("manager access required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrEmployeeLinkRequired    = errors.New("account is not linked to an employee")
)
