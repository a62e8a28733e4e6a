package employee

import "context"

// EmployeeRepository is the read side of the employee directory.
// Every lookup returns ErrEmployeeNotFound when nothing matches.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)

	// GetByIDForUpdate locks the employee row for the surrounding transaction.
	// Clock-in uses it to serialise concurrent calls for the same employee.
	GetByIDForUpdate(ctx context.Context, id string) (Employee, error)

	GetByUserID(ctx context.Context, userID string) (Employee, error)
	GetByCode(ctx context.Context, code string) (Employee, error)
	ListActive(ctx context.Context) ([]Employee, error)
}
