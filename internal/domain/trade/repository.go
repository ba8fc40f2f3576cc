package trade

import "context"

// InvoiceRepository defines persistence operations for invoice headers
type InvoiceRepository interface {
	FindByNaturalKey(ctx context.Context, naturalKey string) (*Invoice, error)
	Save(ctx context.Context, invoice *Invoice) error
	Update(ctx context.Context, invoice *Invoice) error
}

// InvoiceLineRepository defines persistence operations for invoice lines
type InvoiceLineRepository interface {
	FindByNaturalKey(ctx context.Context, naturalKey string) (*InvoiceLine, error)
	FindByInvoiceKey(ctx context.Context, invoiceKey string) ([]InvoiceLine, error)
	Save(ctx context.Context, line *InvoiceLine) error
	Update(ctx context.Context, line *InvoiceLine) error
}
