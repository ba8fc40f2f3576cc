package catalog

import "context"

// ProductRepository defines persistence operations for products
type ProductRepository interface {
	FindByNaturalKey(ctx context.Context, naturalKey string) (*Product, error)
	Save(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
}

// CategoryRepository defines persistence operations for categories
type CategoryRepository interface {
	FindByNaturalKey(ctx context.Context, naturalKey string) (*Category, error)
	Save(ctx context.Context, category *Category) error
	Update(ctx context.Context, category *Category) error
}

// BrandRepository defines persistence operations for brands
type BrandRepository interface {
	FindByNaturalKey(ctx context.Context, naturalKey string) (*Brand, error)
	Save(ctx context.Context, brand *Brand) error
	Update(ctx context.Context, brand *Brand) error
}

// StockLevelRepository defines persistence operations for stock levels
type StockLevelRepository interface {
	FindByNaturalKey(ctx context.Context, naturalKey string) (*StockLevel, error)
	Save(ctx context.Context, level *StockLevel) error
	Update(ctx context.Context, level *StockLevel) error
}
