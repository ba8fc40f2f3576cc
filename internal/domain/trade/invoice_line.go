package trade

import (
	"strings"

	"github.com/erp/syncbridge/internal/domain/shared"
	"github.com/erp/syncbridge/internal/domain/syncrec"
	"github.com/shopspring/decimal"
)

// InvoiceLine is the canonical representation of a legacy invoice detail
// row. InvoiceKey references the owning header; ProductKey references the
// canonical product (both possibly placeholders at ingestion time).
type InvoiceLine struct {
	shared.SyncedEntity
	InvoiceKey  string `gorm:"type:varchar(160);not null;index"`
	ProductKey  string `gorm:"type:varchar(160);index"`
	LineNumber  int    `gorm:"not null"`
	Description string `gorm:"type:varchar(300)"`
	LineType    string `gorm:"type:varchar(10);not null;default:'part'"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Taxable     bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (InvoiceLine) TableName() string {
	return "invoice_lines"
}

// NewInvoiceLineFromRecord creates a line from a source record.
func NewInvoiceLineFromRecord(naturalKey, invoiceKey, productKey string, rec syncrec.InvoiceLine) (*InvoiceLine, error) {
	if strings.TrimSpace(rec.InvoiceNumber) == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if rec.LineNumber <= 0 {
		return nil, shared.NewDomainError("INVALID_LINE_NUMBER", "Line number must be positive")
	}
	l := &InvoiceLine{
		SyncedEntity: shared.NewSyncedEntity(naturalKey, rec.LegacyID),
		InvoiceKey:   invoiceKey,
		ProductKey:   productKey,
	}
	l.applyFields(rec)
	return l, nil
}

// ApplyRecord overwrites the line's fields with the authoritative record.
func (l *InvoiceLine) ApplyRecord(productKey string, rec syncrec.InvoiceLine) error {
	if rec.LineNumber <= 0 {
		return shared.NewDomainError("INVALID_LINE_NUMBER", "Line number must be positive")
	}
	l.ProductKey = productKey
	l.applyFields(rec)
	l.MarkSynced(rec.LegacyID)
	return nil
}

// ExtendedPrice returns quantity * unit price.
func (l *InvoiceLine) ExtendedPrice() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// ExtendedCost returns quantity * unit cost.
func (l *InvoiceLine) ExtendedCost() decimal.Decimal {
	return l.Quantity.Mul(l.UnitCost)
}

// IsLabor reports whether the line is a labor charge.
func (l *InvoiceLine) IsLabor() bool {
	return l.LineType == string(syncrec.LineTypeLabor)
}

func (l *InvoiceLine) applyFields(rec syncrec.InvoiceLine) {
	l.LineNumber = rec.LineNumber
	l.Description = strings.TrimSpace(rec.Description)
	l.LineType = string(rec.LineType)
	if l.LineType == "" {
		l.LineType = string(syncrec.LineTypePart)
	}
	l.Quantity = rec.Quantity
	l.UnitPrice = rec.UnitPrice
	l.UnitCost = rec.UnitCost
	l.Taxable = rec.Taxable
}
