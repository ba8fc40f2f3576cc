package partner

import "context"

// EmployeeRepository defines persistence operations for employees
type EmployeeRepository interface {
	FindByNaturalKey(ctx context.Context, naturalKey string) (*Employee, error)
	FindByEmployeeNumber(ctx context.Context, employeeNumber string) (*Employee, error)
	Save(ctx context.Context, employee *Employee) error
	Update(ctx context.Context, employee *Employee) error
}
