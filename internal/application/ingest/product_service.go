package ingest

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/syncbridge/internal/domain/catalog"
	"github.com/erp/syncbridge/internal/domain/shared"
	"github.com/erp/syncbridge/internal/domain/synckey"
	"github.com/erp/syncbridge/internal/domain/syncrec"
	"github.com/erp/syncbridge/internal/infrastructure/classification"
	"go.uber.org/zap"
)

// ProductService upserts inventory records. Each applied product is run
// through the classifier, and any category or brand it names gets a
// placeholder row if the authoritative taxonomy sync has not created one.
type ProductService struct {
	products   catalog.ProductRepository
	categories catalog.CategoryRepository
	brands     catalog.BrandRepository
	classifier classification.Classifier
	logger     *zap.Logger
}

// NewProductService creates a ProductService.
func NewProductService(
	products catalog.ProductRepository,
	categories catalog.CategoryRepository,
	brands catalog.BrandRepository,
	classifier classification.Classifier,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		brands:     brands,
		classifier: classifier,
		logger:     logger.Named("ingest.inventory"),
	}
}

// IngestBatch applies one chunk of inventory records.
func (s *ProductService) IngestBatch(ctx context.Context, records []syncrec.Product) (int, error) {
	applied := 0
	for _, rec := range records {
		if err := s.upsertAt(ctx, rec.NaturalKey(), rec, true); err != nil {
			skipRecord(s.logger, string(syncrec.CollectionInventory), rec.NaturalKey(), err)
			continue
		}
		applied++
	}
	return applied, nil
}

func (s *ProductService) upsertAt(ctx context.Context, key string, rec syncrec.Product, allowMangle bool) error {
	existing, err := s.products.FindByNaturalKey(ctx, key)
	switch {
	case err == nil:
		if collides(existing.LegacyID, existing.IsPlaceholder, rec.LegacyID) {
			if !allowMangle {
				return shared.ErrAlreadyExists
			}
			mangled := mangleKey(s.logger, string(syncrec.CollectionInventory), key, existing.LegacyID, rec.LegacyID)
			return s.upsertAt(ctx, mangled, rec, false)
		}
		if err := existing.ApplyRecord(rec); err != nil {
			return err
		}
		if err := s.classify(ctx, existing, rec); err != nil {
			return err
		}
		return s.products.Update(ctx, existing)
	case errors.Is(err, shared.ErrNotFound):
		product, err := catalog.NewProductFromRecord(key, rec)
		if err != nil {
			return err
		}
		if err := s.classify(ctx, product, rec); err != nil {
			return err
		}
		return s.products.Save(ctx, product)
	default:
		return err
	}
}

// classify resolves the product's category, brand and quality tier, creating
// placeholder taxonomy rows for names the product introduces.
func (s *ProductService) classify(ctx context.Context, product *catalog.Product, rec syncrec.Product) error {
	result := s.classifier.Classify(rec)
	product.Classify(result.CategoryKey, result.QualityTier)

	if product.CategoryKey != "" {
		name := strings.TrimSpace(rec.CategoryName)
		if name == "" {
			name = product.CategoryKey
		}
		if err := s.ensureCategory(ctx, product.CategoryKey, name); err != nil {
			return err
		}
	}
	if brand := strings.TrimSpace(rec.BrandName); brand != "" {
		product.BrandKey = synckey.Brand(brand)
		if err := s.ensureBrand(ctx, product.BrandKey, brand); err != nil {
			return err
		}
	}
	return nil
}

func (s *ProductService) ensureCategory(ctx context.Context, key, name string) error {
	_, err := s.categories.FindByNaturalKey(ctx, key)
	if errors.Is(err, shared.ErrNotFound) {
		return s.categories.Save(ctx, catalog.NewPlaceholderCategory(key, name))
	}
	return err
}

func (s *ProductService) ensureBrand(ctx context.Context, key, name string) error {
	_, err := s.brands.FindByNaturalKey(ctx, key)
	if errors.Is(err, shared.ErrNotFound) {
		return s.brands.Save(ctx, catalog.NewPlaceholderBrand(key, name))
	}
	return err
}
