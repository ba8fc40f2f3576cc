package persistence

import (
	"context"
	"errors"

	"github.com/erp/syncbridge/internal/domain/catalog"
	"github.com/erp/syncbridge/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByNaturalKey finds a product by its natural key
func (r *GormProductRepository) FindByNaturalKey(ctx context.Context, naturalKey string) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).Where("natural_key = ?", naturalKey).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// Save creates a new product row
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// Update persists changes to an existing product row
func (r *GormProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// GormCategoryRepository implements catalog.CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByNaturalKey finds a category by its natural key
func (r *GormCategoryRepository) FindByNaturalKey(ctx context.Context, naturalKey string) (*catalog.Category, error) {
	var category catalog.Category
	if err := r.db.WithContext(ctx).Where("natural_key = ?", naturalKey).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// Save creates a new category row
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// Update persists changes to an existing category row
func (r *GormCategoryRepository) Update(ctx context.Context, category *catalog.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// GormBrandRepository implements catalog.BrandRepository using GORM
type GormBrandRepository struct {
	db *gorm.DB
}

// NewGormBrandRepository creates a new GormBrandRepository
func NewGormBrandRepository(db *gorm.DB) *GormBrandRepository {
	return &GormBrandRepository{db: db}
}

// FindByNaturalKey finds a brand by its natural key
func (r *GormBrandRepository) FindByNaturalKey(ctx context.Context, naturalKey string) (*catalog.Brand, error) {
	var brand catalog.Brand
	if err := r.db.WithContext(ctx).Where("natural_key = ?", naturalKey).First(&brand).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &brand, nil
}

// Save creates a new brand row
func (r *GormBrandRepository) Save(ctx context.Context, brand *catalog.Brand) error {
	return r.db.WithContext(ctx).Create(brand).Error
}

// Update persists changes to an existing brand row
func (r *GormBrandRepository) Update(ctx context.Context, brand *catalog.Brand) error {
	return r.db.WithContext(ctx).Save(brand).Error
}

// GormStockLevelRepository implements catalog.StockLevelRepository using GORM
type GormStockLevelRepository struct {
	db *gorm.DB
}

// NewGormStockLevelRepository creates a new GormStockLevelRepository
func NewGormStockLevelRepository(db *gorm.DB) *GormStockLevelRepository {
	return &GormStockLevelRepository{db: db}
}

// FindByNaturalKey finds a stock level by its natural key
func (r *GormStockLevelRepository) FindByNaturalKey(ctx context.Context, naturalKey string) (*catalog.StockLevel, error) {
	var level catalog.StockLevel
	if err := r.db.WithContext(ctx).Where("natural_key = ?", naturalKey).First(&level).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &level, nil
}

// Save creates a new stock level row
func (r *GormStockLevelRepository) Save(ctx context.Context, level *catalog.StockLevel) error {
	return r.db.WithContext(ctx).Create(level).Error
}

// Update persists changes to an existing stock level row
func (r *GormStockLevelRepository) Update(ctx context.Context, level *catalog.StockLevel) error {
	return r.db.WithContext(ctx).Save(level).Error
}
