package ingest

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/syncbridge/internal/domain/catalog"
	"github.com/erp/syncbridge/internal/domain/shared"
	"github.com/erp/syncbridge/internal/domain/synckey"
	"github.com/erp/syncbridge/internal/domain/syncrec"
	"github.com/erp/syncbridge/internal/domain/trade"
	"go.uber.org/zap"
)

// Reconciler recomputes an invoice's monetary aggregates from its stored
// line items.
type Reconciler interface {
	ReconcileInvoice(ctx context.Context, invoiceKey string) error
}

// InvoiceLineService upserts invoice line items. A line arriving before its
// header or its product creates placeholder parents; after each batch the
// affected invoices are reconciled exactly once.
type InvoiceLineService struct {
	lines      trade.InvoiceLineRepository
	invoices   trade.InvoiceRepository
	products   catalog.ProductRepository
	reconciler Reconciler
	logger     *zap.Logger
}

// NewInvoiceLineService creates an InvoiceLineService.
func NewInvoiceLineService(
	lines trade.InvoiceLineRepository,
	invoices trade.InvoiceRepository,
	products catalog.ProductRepository,
	reconciler Reconciler,
	logger *zap.Logger,
) *InvoiceLineService {
	return &InvoiceLineService{
		lines:      lines,
		invoices:   invoices,
		products:   products,
		reconciler: reconciler,
		logger:     logger.Named("ingest.invoice-lines"),
	}
}

// IngestBatch applies one chunk of line records and reconciles every
// invoice the batch touched.
func (s *InvoiceLineService) IngestBatch(ctx context.Context, records []syncrec.InvoiceLine) (int, error) {
	applied := 0
	touched := make(map[string]struct{})
	for _, rec := range records {
		if err := s.upsert(ctx, rec); err != nil {
			skipRecord(s.logger, string(syncrec.CollectionInvoiceLines), rec.NaturalKey(), err)
			continue
		}
		applied++
		touched[rec.InvoiceKey()] = struct{}{}
	}

	for invoiceKey := range touched {
		if err := s.reconciler.ReconcileInvoice(ctx, invoiceKey); err != nil {
			s.logger.Warn("reconciliation failed",
				zap.String("invoice_key", invoiceKey),
				zap.Error(err),
			)
		}
	}
	return applied, nil
}

func (s *InvoiceLineService) upsert(ctx context.Context, rec syncrec.InvoiceLine) error {
	invoiceKey := rec.InvoiceKey()
	if err := s.ensureInvoice(ctx, invoiceKey, rec.InvoiceNumber, rec.LocationCode); err != nil {
		return err
	}

	productKey := ""
	if part := strings.TrimSpace(rec.PartNumber); part != "" && rec.LineType != syncrec.LineTypeLabor {
		productKey = synckey.Product(part, rec.LocationCode)
		if err := s.ensureProduct(ctx, productKey, part, rec.Description); err != nil {
			return err
		}
	}

	key := rec.NaturalKey()
	existing, err := s.lines.FindByNaturalKey(ctx, key)
	switch {
	case err == nil:
		return s.applyExisting(ctx, existing, productKey, rec)
	case errors.Is(err, shared.ErrNotFound):
		line, err := trade.NewInvoiceLineFromRecord(key, invoiceKey, productKey, rec)
		if err != nil {
			return err
		}
		return s.lines.Save(ctx, line)
	default:
		return err
	}
}

func (s *InvoiceLineService) applyExisting(ctx context.Context, existing *trade.InvoiceLine, productKey string, rec syncrec.InvoiceLine) error {
	if collides(existing.LegacyID, existing.IsPlaceholder, rec.LegacyID) {
		// line keys embed the invoice key and line number, so two distinct
		// legacy rows on the same key are the same line re-extracted under a
		// new internal id; the newest extraction wins
		s.logger.Debug("line re-keyed by legacy source",
			zap.String("natural_key", existing.NaturalKey),
			zap.String("old_legacy_id", existing.LegacyID),
			zap.String("new_legacy_id", rec.LegacyID),
		)
	}
	if err := existing.ApplyRecord(productKey, rec); err != nil {
		return err
	}
	return s.lines.Update(ctx, existing)
}

func (s *InvoiceLineService) ensureInvoice(ctx context.Context, key, invoiceNumber, locationCode string) error {
	_, err := s.invoices.FindByNaturalKey(ctx, key)
	if errors.Is(err, shared.ErrNotFound) {
		return s.invoices.Save(ctx, trade.NewPlaceholderInvoice(key, invoiceNumber, locationCode))
	}
	return err
}

func (s *InvoiceLineService) ensureProduct(ctx context.Context, key, partNumber, description string) error {
	_, err := s.products.FindByNaturalKey(ctx, key)
	if errors.Is(err, shared.ErrNotFound) {
		return s.products.Save(ctx, catalog.NewPlaceholderProduct(key, partNumber, description))
	}
	return err
}
