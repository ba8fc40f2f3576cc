package ingest

import (
	"context"
	"errors"

	"github.com/erp/syncbridge/internal/domain/partner"
	"github.com/erp/syncbridge/internal/domain/shared"
	"github.com/erp/syncbridge/internal/domain/syncrec"
	"go.uber.org/zap"
)

// CustomerService upserts customer records.
type CustomerService struct {
	customers partner.CustomerRepository
	logger    *zap.Logger
}

// NewCustomerService creates a CustomerService.
func NewCustomerService(customers partner.CustomerRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{customers: customers, logger: logger.Named("ingest.customers")}
}

// IngestBatch applies one chunk of customer records and returns how many
// were applied. Failed records are skipped, not fatal.
func (s *CustomerService) IngestBatch(ctx context.Context, records []syncrec.Customer) (int, error) {
	applied := 0
	for _, rec := range records {
		if err := s.upsert(ctx, rec); err != nil {
			skipRecord(s.logger, string(syncrec.CollectionCustomers), rec.NaturalKey(), err)
			continue
		}
		applied++
	}
	return applied, nil
}

func (s *CustomerService) upsert(ctx context.Context, rec syncrec.Customer) error {
	return s.upsertAt(ctx, rec.NaturalKey(), rec, true)
}

// upsertAt writes the record under key. On a legacy-id collision it retries
// once under the mangled key, which is deterministic, so reruns of the same
// record land on the same row.
func (s *CustomerService) upsertAt(ctx context.Context, key string, rec syncrec.Customer, allowMangle bool) error {
	existing, err := s.customers.FindByNaturalKey(ctx, key)
	switch {
	case err == nil:
		if collides(existing.LegacyID, existing.IsPlaceholder, rec.LegacyID) {
			if !allowMangle {
				return shared.ErrAlreadyExists
			}
			mangled := mangleKey(s.logger, string(syncrec.CollectionCustomers), key, existing.LegacyID, rec.LegacyID)
			return s.upsertAt(ctx, mangled, rec, false)
		}
		if err := existing.ApplyRecord(rec); err != nil {
			return err
		}
		return s.customers.Update(ctx, existing)
	case errors.Is(err, shared.ErrNotFound):
		customer, err := partner.NewCustomerFromRecord(key, rec)
		if err != nil {
			return err
		}
		return s.customers.Save(ctx, customer)
	default:
		return err
	}
}
