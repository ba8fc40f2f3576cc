package persistence

import (
	"context"
	"errors"

	"github.com/erp/syncbridge/internal/domain/shared"
	"github.com/erp/syncbridge/internal/domain/trade"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements trade.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByNaturalKey finds an invoice header by its natural key
func (r *GormInvoiceRepository) FindByNaturalKey(ctx context.Context, naturalKey string) (*trade.Invoice, error) {
	var invoice trade.Invoice
	if err := r.db.WithContext(ctx).Where("natural_key = ?", naturalKey).First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// Save creates a new invoice row
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *trade.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

// Update persists changes to an existing invoice row
func (r *GormInvoiceRepository) Update(ctx context.Context, invoice *trade.Invoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

// GormInvoiceLineRepository implements trade.InvoiceLineRepository using GORM
type GormInvoiceLineRepository struct {
	db *gorm.DB
}

// NewGormInvoiceLineRepository creates a new GormInvoiceLineRepository
func NewGormInvoiceLineRepository(db *gorm.DB) *GormInvoiceLineRepository {
	return &GormInvoiceLineRepository{db: db}
}

// FindByNaturalKey finds a line by its natural key
func (r *GormInvoiceLineRepository) FindByNaturalKey(ctx context.Context, naturalKey string) (*trade.InvoiceLine, error) {
	var line trade.InvoiceLine
	if err := r.db.WithContext(ctx).Where("natural_key = ?", naturalKey).First(&line).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &line, nil
}

// FindByInvoiceKey returns the full current set of lines for a header,
// ordered by line number so recomputed aggregates are deterministic.
func (r *GormInvoiceLineRepository) FindByInvoiceKey(ctx context.Context, invoiceKey string) ([]trade.InvoiceLine, error) {
	var lines []trade.InvoiceLine
	if err := r.db.WithContext(ctx).
		Where("invoice_key = ?", invoiceKey).
		Order("line_number").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// Save creates a new line row
func (r *GormInvoiceLineRepository) Save(ctx context.Context, line *trade.InvoiceLine) error {
	return r.db.WithContext(ctx).Create(line).Error
}

// Update persists changes to an existing line row
func (r *GormInvoiceLineRepository) Update(ctx context.Context, line *trade.InvoiceLine) error {
	return r.db.WithContext(ctx).Save(line).Error
}
