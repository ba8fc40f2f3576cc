package partner

import "context"

// CustomerRepository defines persistence operations for customers
type CustomerRepository interface {
	FindByNaturalKey(ctx context.Context, naturalKey string) (*Customer, error)
	Save(ctx context.Context, customer *Customer) error
	Update(ctx context.Context, customer *Customer) error
}
