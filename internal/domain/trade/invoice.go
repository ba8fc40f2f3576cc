package trade

import (
	"strings"
	"time"

	"github.com/erp/syncbridge/internal/domain/shared"
	"github.com/erp/syncbridge/internal/domain/syncrec"
	"github.com/shopspring/decimal"
)

// Invoice is the canonical representation of a legacy invoice header.
// CustomerKey and VehicleKey reference canonical rows that may be
// placeholders when the invoice arrives before its parents. The monetary
// aggregates start from the legacy-stored values and are overwritten by the
// reconciliation engine from the invoice's own line items.
type Invoice struct {
	shared.SyncedEntity
	InvoiceNumber string `gorm:"type:varchar(60);not null;index"`
	LocationCode  string `gorm:"type:varchar(20)"`
	CustomerKey   string `gorm:"type:varchar(160);index"`
	VehicleKey    string `gorm:"type:varchar(160);index"`
	SalesRepCode  string `gorm:"type:varchar(60)"`
	SalesRepName  string `gorm:"type:varchar(200)"`
	IssuedAt      *time.Time
	Subtotal      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxTotal      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PartsTotal    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LaborTotal    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CostTotal     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	GrossProfit   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Total         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoiceFromRecord creates a materialized invoice from a source record.
func NewInvoiceFromRecord(naturalKey string, rec syncrec.Invoice) (*Invoice, error) {
	if strings.TrimSpace(rec.InvoiceNumber) == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	inv := &Invoice{SyncedEntity: shared.NewSyncedEntity(naturalKey, rec.LegacyID)}
	inv.applyFields(rec)
	return inv, nil
}

// NewPlaceholderInvoice creates a minimal header row referenced by a line
// item before the invoice extraction has run.
func NewPlaceholderInvoice(naturalKey, invoiceNumber, locationCode string) *Invoice {
	return &Invoice{
		SyncedEntity:  shared.NewPlaceholderEntity(naturalKey),
		InvoiceNumber: strings.ToUpper(strings.TrimSpace(invoiceNumber)),
		LocationCode:  strings.ToUpper(strings.TrimSpace(locationCode)),
		Subtotal:      decimal.Zero,
		TaxTotal:      decimal.Zero,
		PartsTotal:    decimal.Zero,
		LaborTotal:    decimal.Zero,
		CostTotal:     decimal.Zero,
		GrossProfit:   decimal.Zero,
		Total:         decimal.Zero,
	}
}

// ApplyRecord overwrites header fields with the authoritative record. The
// aggregates a previous reconciliation computed are kept when the incoming
// legacy totals are zero, so a header resync cannot wipe reconciled values.
func (i *Invoice) ApplyRecord(rec syncrec.Invoice) error {
	if strings.TrimSpace(rec.InvoiceNumber) == "" {
		return shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	reconciled := Totals{
		Subtotal:    i.Subtotal,
		TaxTotal:    i.TaxTotal,
		PartsTotal:  i.PartsTotal,
		LaborTotal:  i.LaborTotal,
		CostTotal:   i.CostTotal,
		GrossProfit: i.GrossProfit,
		Total:       i.Total,
	}
	i.applyFields(rec)
	if i.Total.IsZero() && reconciled.Total.IsPositive() {
		i.SetTotals(reconciled)
	}
	i.MarkSynced(rec.LegacyID)
	return nil
}

// SetTotals overwrites the aggregate fields.
func (i *Invoice) SetTotals(t Totals) {
	i.Subtotal = t.Subtotal
	i.TaxTotal = t.TaxTotal
	i.PartsTotal = t.PartsTotal
	i.LaborTotal = t.LaborTotal
	i.CostTotal = t.CostTotal
	i.GrossProfit = t.GrossProfit
	i.Total = t.Total
	i.UpdatedAt = time.Now()
}

// CurrentTotals returns the stored aggregate fields.
func (i *Invoice) CurrentTotals() Totals {
	return Totals{
		Subtotal:    i.Subtotal,
		TaxTotal:    i.TaxTotal,
		PartsTotal:  i.PartsTotal,
		LaborTotal:  i.LaborTotal,
		CostTotal:   i.CostTotal,
		GrossProfit: i.GrossProfit,
		Total:       i.Total,
	}
}

func (i *Invoice) applyFields(rec syncrec.Invoice) {
	i.InvoiceNumber = strings.ToUpper(strings.TrimSpace(rec.InvoiceNumber))
	i.LocationCode = strings.ToUpper(strings.TrimSpace(rec.LocationCode))
	i.SalesRepCode = strings.TrimSpace(rec.SalesRepCode)
	i.Subtotal = rec.Subtotal
	i.TaxTotal = rec.TaxTotal
	i.Total = rec.Total
	if rec.IssuedAt != "" {
		if ts, err := time.Parse(time.RFC3339, rec.IssuedAt); err == nil {
			i.IssuedAt = &ts
		}
	}
}
