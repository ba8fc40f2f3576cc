package ingest

import (
	"context"
	"errors"

	"github.com/erp/syncbridge/internal/domain/catalog"
	"github.com/erp/syncbridge/internal/domain/shared"
	"github.com/erp/syncbridge/internal/domain/syncrec"
	"go.uber.org/zap"
)

// TaxonomyService upserts the name-keyed category and brand collections.
// These are derived collections the agent splits out of inventory records,
// so the authoritative sync mostly materializes placeholders created by
// product ingestion.
type TaxonomyService struct {
	categories catalog.CategoryRepository
	brands     catalog.BrandRepository
	logger     *zap.Logger
}

// NewTaxonomyService creates a TaxonomyService.
func NewTaxonomyService(categories catalog.CategoryRepository, brands catalog.BrandRepository, logger *zap.Logger) *TaxonomyService {
	return &TaxonomyService{
		categories: categories,
		brands:     brands,
		logger:     logger.Named("ingest.taxonomy"),
	}
}

// IngestCategories applies one chunk of category records.
func (s *TaxonomyService) IngestCategories(ctx context.Context, records []syncrec.Category) (int, error) {
	applied := 0
	for _, rec := range records {
		if err := s.upsertCategory(ctx, rec); err != nil {
			skipRecord(s.logger, string(syncrec.CollectionCategories), rec.NaturalKey(), err)
			continue
		}
		applied++
	}
	return applied, nil
}

// IngestBrands applies one chunk of brand records.
func (s *TaxonomyService) IngestBrands(ctx context.Context, records []syncrec.Brand) (int, error) {
	applied := 0
	for _, rec := range records {
		if err := s.upsertBrand(ctx, rec); err != nil {
			skipRecord(s.logger, string(syncrec.CollectionBrands), rec.NaturalKey(), err)
			continue
		}
		applied++
	}
	return applied, nil
}

func (s *TaxonomyService) upsertCategory(ctx context.Context, rec syncrec.Category) error {
	key := rec.NaturalKey()
	existing, err := s.categories.FindByNaturalKey(ctx, key)
	switch {
	case err == nil:
		existing.Materialize(rec.Name)
		return s.categories.Update(ctx, existing)
	case errors.Is(err, shared.ErrNotFound):
		category, err := catalog.NewCategory(key, rec.Name)
		if err != nil {
			return err
		}
		return s.categories.Save(ctx, category)
	default:
		return err
	}
}

func (s *TaxonomyService) upsertBrand(ctx context.Context, rec syncrec.Brand) error {
	key := rec.NaturalKey()
	existing, err := s.brands.FindByNaturalKey(ctx, key)
	switch {
	case err == nil:
		existing.Materialize(rec.Name)
		return s.brands.Update(ctx, existing)
	case errors.Is(err, shared.ErrNotFound):
		brand, err := catalog.NewBrand(key, rec.Name)
		if err != nil {
			return err
		}
		return s.brands.Save(ctx, brand)
	default:
		return err
	}
}
