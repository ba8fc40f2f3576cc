package catalog

import (
	"strings"

	"github.com/erp/syncbridge/internal/domain/shared"
	"github.com/erp/syncbridge/internal/domain/syncrec"
	"github.com/shopspring/decimal"
)

// Product is the canonical representation of a legacy inventory item.
// Category and QualityTier are resolved during ingestion by the external
// classification function; CategoryKey/BrandKey reference the name-keyed
// category and brand rows (placeholders until their authoritative sync).
type Product struct {
	shared.SyncedEntity
	PartNumber   string          `gorm:"type:varchar(60);not null;index"`
	Description  string          `gorm:"type:varchar(300)"`
	Size         string          `gorm:"type:varchar(60)"`
	CategoryKey  string          `gorm:"type:varchar(160);index"`
	BrandKey     string          `gorm:"type:varchar(160);index"`
	QualityTier  string          `gorm:"type:varchar(30)"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCost     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LocationCode string          `gorm:"type:varchar(20)"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProductFromRecord creates a materialized product from a source record.
func NewProductFromRecord(naturalKey string, rec syncrec.Product) (*Product, error) {
	if strings.TrimSpace(rec.PartNumber) == "" {
		return nil, shared.NewDomainError("INVALID_PART_NUMBER", "Part number cannot be empty")
	}
	p := &Product{SyncedEntity: shared.NewSyncedEntity(naturalKey, rec.LegacyID)}
	p.applyFields(rec)
	return p, nil
}

// NewPlaceholderProduct creates a minimal product row referenced by an
// invoice line before the inventory extraction has run. Only the fields
// available at the reference site are populated.
func NewPlaceholderProduct(naturalKey, partNumber, description string) *Product {
	return &Product{
		SyncedEntity: shared.NewPlaceholderEntity(naturalKey),
		PartNumber:   strings.ToUpper(strings.TrimSpace(partNumber)),
		Description:  strings.TrimSpace(description),
		UnitPrice:    decimal.Zero,
		UnitCost:     decimal.Zero,
	}
}

// ApplyRecord overwrites the product's fields with the authoritative record.
func (p *Product) ApplyRecord(rec syncrec.Product) error {
	if strings.TrimSpace(rec.PartNumber) == "" {
		return shared.NewDomainError("INVALID_PART_NUMBER", "Part number cannot be empty")
	}
	p.applyFields(rec)
	p.MarkSynced(rec.LegacyID)
	return nil
}

// Classify stores the result of the external classification function.
func (p *Product) Classify(categoryKey, qualityTier string) {
	if categoryKey != "" {
		p.CategoryKey = categoryKey
	}
	p.QualityTier = qualityTier
}

func (p *Product) applyFields(rec syncrec.Product) {
	p.PartNumber = strings.ToUpper(strings.TrimSpace(rec.PartNumber))
	p.Description = strings.TrimSpace(rec.Description)
	p.Size = rec.Size
	p.UnitPrice = rec.UnitPrice
	p.UnitCost = rec.UnitCost
	p.LocationCode = rec.LocationCode
}
