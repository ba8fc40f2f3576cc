package partner

import "context"

// VehicleRepository defines persistence operations for vehicles
type VehicleRepository interface {
	FindByNaturalKey(ctx context.Context, naturalKey string) (*Vehicle, error)
	Save(ctx context.Context, vehicle *Vehicle) error
	Update(ctx context.Context, vehicle *Vehicle) error
}
