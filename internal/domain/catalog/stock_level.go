package catalog

import (
	"strings"

	"github.com/erp/syncbridge/internal/domain/shared"
	"github.com/erp/syncbridge/internal/domain/syncrec"
	"github.com/shopspring/decimal"
)

// StockLevel is the canonical on-hand quantity for a product at a location.
type StockLevel struct {
	shared.SyncedEntity
	ProductKey       string          `gorm:"type:varchar(160);not null;index"`
	LocationCode     string          `gorm:"type:varchar(20)"`
	QuantityOnHand   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	QuantityReserved decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (StockLevel) TableName() string {
	return "stock_levels"
}

// NewStockLevelFromRecord creates a stock level row from a source record.
func NewStockLevelFromRecord(naturalKey, productKey string, rec syncrec.StockLevel) (*StockLevel, error) {
	if strings.TrimSpace(rec.PartNumber) == "" {
		return nil, shared.NewDomainError("INVALID_PART_NUMBER", "Part number cannot be empty")
	}
	s := &StockLevel{
		SyncedEntity: shared.NewSyncedEntity(naturalKey, ""),
		ProductKey:   productKey,
	}
	s.applyFields(rec)
	return s, nil
}

// ApplyRecord overwrites the quantities with the authoritative record.
func (s *StockLevel) ApplyRecord(rec syncrec.StockLevel) error {
	s.applyFields(rec)
	s.MarkSynced("")
	return nil
}

func (s *StockLevel) applyFields(rec syncrec.StockLevel) {
	s.LocationCode = strings.ToUpper(strings.TrimSpace(rec.LocationCode))
	s.QuantityOnHand = rec.QuantityOnHand
	s.QuantityReserved = rec.QuantityReserved
}
