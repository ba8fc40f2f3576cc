package ingest

import (
	"context"
	"errors"

	"github.com/erp/syncbridge/internal/domain/catalog"
	"github.com/erp/syncbridge/internal/domain/shared"
	"github.com/erp/syncbridge/internal/domain/synckey"
	"github.com/erp/syncbridge/internal/domain/syncrec"
	"go.uber.org/zap"
)

// StockService upserts inventory quantity records. A quantity arriving
// before its product creates a placeholder product row, so quantities are
// never dropped on ordering grounds.
type StockService struct {
	levels   catalog.StockLevelRepository
	products catalog.ProductRepository
	logger   *zap.Logger
}

// NewStockService creates a StockService.
func NewStockService(levels catalog.StockLevelRepository, products catalog.ProductRepository, logger *zap.Logger) *StockService {
	return &StockService{
		levels:   levels,
		products: products,
		logger:   logger.Named("ingest.quantities"),
	}
}

// IngestBatch applies one chunk of inventory quantity records.
func (s *StockService) IngestBatch(ctx context.Context, records []syncrec.StockLevel) (int, error) {
	applied := 0
	for _, rec := range records {
		if err := s.upsert(ctx, rec); err != nil {
			skipRecord(s.logger, string(syncrec.CollectionStockLevels), rec.NaturalKey(), err)
			continue
		}
		applied++
	}
	return applied, nil
}

func (s *StockService) upsert(ctx context.Context, rec syncrec.StockLevel) error {
	productKey := synckey.Product(rec.PartNumber, rec.LocationCode)
	if err := s.ensureProduct(ctx, productKey, rec.PartNumber); err != nil {
		return err
	}

	key := rec.NaturalKey()
	existing, err := s.levels.FindByNaturalKey(ctx, key)
	switch {
	case err == nil:
		if err := existing.ApplyRecord(rec); err != nil {
			return err
		}
		return s.levels.Update(ctx, existing)
	case errors.Is(err, shared.ErrNotFound):
		level, err := catalog.NewStockLevelFromRecord(key, productKey, rec)
		if err != nil {
			return err
		}
		return s.levels.Save(ctx, level)
	default:
		return err
	}
}

func (s *StockService) ensureProduct(ctx context.Context, key, partNumber string) error {
	_, err := s.products.FindByNaturalKey(ctx, key)
	if errors.Is(err, shared.ErrNotFound) {
		return s.products.Save(ctx, catalog.NewPlaceholderProduct(key, partNumber, ""))
	}
	return err
}
