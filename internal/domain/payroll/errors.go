package payroll

import "errors"

var (
	ErrNoWorkingDays               = errors.New("month has no working days")
	ErrCompensationProfileNotFound = errors.New("compensation profile not found")
	ErrPayrollRunNotFound          = errors.New("payroll run not found")
	ErrPayrollNotApproved          = errors.New("payroll for this month has not been approved")
	ErrPayrollLineNotFound         = errors.New("no payroll entry for this employee in the approved run")
)
