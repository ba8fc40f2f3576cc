package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/syncbridge/internal/domain/partner"
	"github.com/erp/syncbridge/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCustomerRepository implements partner.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByNaturalKey finds a customer by its natural key
func (r *GormCustomerRepository) FindByNaturalKey(ctx context.Context, naturalKey string) (*partner.Customer, error) {
	var customer partner.Customer
	if err := r.db.WithContext(ctx).Where("natural_key = ?", naturalKey).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// Save creates a new customer row
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

// Update persists changes to an existing customer row
func (r *GormCustomerRepository) Update(ctx context.Context, customer *partner.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

// GormVehicleRepository implements partner.VehicleRepository using GORM
type GormVehicleRepository struct {
	db *gorm.DB
}

// NewGormVehicleRepository creates a new GormVehicleRepository
func NewGormVehicleRepository(db *gorm.DB) *GormVehicleRepository {
	return &GormVehicleRepository{db: db}
}

// FindByNaturalKey finds a vehicle by its natural key
func (r *GormVehicleRepository) FindByNaturalKey(ctx context.Context, naturalKey string) (*partner.Vehicle, error) {
	var vehicle partner.Vehicle
	if err := r.db.WithContext(ctx).Where("natural_key = ?", naturalKey).First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

// Save creates a new vehicle row
func (r *GormVehicleRepository) Save(ctx context.Context, vehicle *partner.Vehicle) error {
	return r.db.WithContext(ctx).Create(vehicle).Error
}

// Update persists changes to an existing vehicle row
func (r *GormVehicleRepository) Update(ctx context.Context, vehicle *partner.Vehicle) error {
	return r.db.WithContext(ctx).Save(vehicle).Error
}

// GormEmployeeRepository implements partner.EmployeeRepository using GORM
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewGormEmployeeRepository creates a new GormEmployeeRepository
func NewGormEmployeeRepository(db *gorm.DB) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

// FindByNaturalKey finds an employee by its natural key
func (r *GormEmployeeRepository) FindByNaturalKey(ctx context.Context, naturalKey string) (*partner.Employee, error) {
	var employee partner.Employee
	if err := r.db.WithContext(ctx).Where("natural_key = ?", naturalKey).First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &employee, nil
}

// FindByEmployeeNumber finds an employee by the legacy roster number
func (r *GormEmployeeRepository) FindByEmployeeNumber(ctx context.Context, employeeNumber string) (*partner.Employee, error) {
	var employee partner.Employee
	if err := r.db.WithContext(ctx).
		Where("employee_number = ?", strings.ToUpper(strings.TrimSpace(employeeNumber))).
		First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &employee, nil
}

// Save creates a new employee row
func (r *GormEmployeeRepository) Save(ctx context.Context, employee *partner.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

// Update persists changes to an existing employee row
func (r *GormEmployeeRepository) Update(ctx context.Context, employee *partner.Employee) error {
	return r.db.WithContext(ctx).Save(employee).Error
}
