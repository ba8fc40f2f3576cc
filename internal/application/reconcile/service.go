// Package reconcile recomputes invoice header aggregates from the stored
// line items. The legacy system's own totals drift (voided lines, manual
// edits, partial extractions), so the canonical store treats line items as
// the source of truth for money.
package reconcile

import (
	"context"
	"fmt"

	"github.com/erp/syncbridge/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service reconciles invoice totals.
type Service struct {
	invoices trade.InvoiceRepository
	lines    trade.InvoiceLineRepository
	taxRate  decimal.Decimal
	logger   *zap.Logger
}

// NewService creates a reconciliation Service with the configured tax rate.
func NewService(invoices trade.InvoiceRepository, lines trade.InvoiceLineRepository, taxRate decimal.Decimal, logger *zap.Logger) *Service {
	return &Service{
		invoices: invoices,
		lines:    lines,
		taxRate:  taxRate,
		logger:   logger.Named("reconcile"),
	}
}

// ReconcileInvoice recomputes one invoice's aggregates from its lines.
//
// Zero guard: when the recomputation yields a zero total but the header
// already carries a positive one, the stored totals stand. A zero result
// against a positive header means the line extraction for this invoice has
// not arrived or was only partially applied, and overwriting real money
// with zeros is worse than being briefly stale.
func (s *Service) ReconcileInvoice(ctx context.Context, invoiceKey string) error {
	invoice, err := s.invoices.FindByNaturalKey(ctx, invoiceKey)
	if err != nil {
		return fmt.Errorf("load invoice %s: %w", invoiceKey, err)
	}

	lines, err := s.lines.FindByInvoiceKey(ctx, invoiceKey)
	if err != nil {
		return fmt.Errorf("load lines for %s: %w", invoiceKey, err)
	}

	computed := trade.ComputeTotals(lines, s.taxRate)
	current := invoice.CurrentTotals()

	if computed.Total.IsZero() && current.Total.IsPositive() {
		s.logger.Debug("keeping stored totals over zero recomputation",
			zap.String("invoice_key", invoiceKey),
			zap.String("stored_total", current.Total.String()),
		)
		return nil
	}
	if computed.Equal(current) {
		return nil
	}

	invoice.SetTotals(computed)
	if err := s.invoices.Update(ctx, invoice); err != nil {
		return fmt.Errorf("update invoice %s: %w", invoiceKey, err)
	}
	s.logger.Info("reconciled invoice totals",
		zap.String("invoice_key", invoiceKey),
		zap.Int("line_count", len(lines)),
		zap.String("total", computed.Total.String()),
	)
	return nil
}
