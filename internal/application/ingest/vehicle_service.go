package ingest

import (
	"context"
	"errors"

	"github.com/erp/syncbridge/internal/domain/partner"
	"github.com/erp/syncbridge/internal/domain/shared"
	"github.com/erp/syncbridge/internal/domain/syncrec"
	"go.uber.org/zap"
)

// VehicleService upserts vehicle records split out of invoice headers.
type VehicleService struct {
	vehicles partner.VehicleRepository
	logger   *zap.Logger
}

// NewVehicleService creates a VehicleService.
func NewVehicleService(vehicles partner.VehicleRepository, logger *zap.Logger) *VehicleService {
	return &VehicleService{vehicles: vehicles, logger: logger.Named("ingest.vehicles")}
}

// IngestBatch applies one chunk of vehicle records.
func (s *VehicleService) IngestBatch(ctx context.Context, records []syncrec.Vehicle) (int, error) {
	applied := 0
	for _, rec := range records {
		if err := s.upsertAt(ctx, rec.NaturalKey(), rec, true); err != nil {
			skipRecord(s.logger, string(syncrec.CollectionVehicles), rec.NaturalKey(), err)
			continue
		}
		applied++
	}
	return applied, nil
}

func (s *VehicleService) upsertAt(ctx context.Context, key string, rec syncrec.Vehicle, allowMangle bool) error {
	existing, err := s.vehicles.FindByNaturalKey(ctx, key)
	switch {
	case err == nil:
		if collides(existing.LegacyID, existing.IsPlaceholder, rec.LegacyID) {
			if !allowMangle {
				return shared.ErrAlreadyExists
			}
			mangled := mangleKey(s.logger, string(syncrec.CollectionVehicles), key, existing.LegacyID, rec.LegacyID)
			return s.upsertAt(ctx, mangled, rec, false)
		}
		if err := existing.ApplyRecord(rec); err != nil {
			return err
		}
		return s.vehicles.Update(ctx, existing)
	case errors.Is(err, shared.ErrNotFound):
		vehicle, err := partner.NewVehicleFromRecord(key, rec)
		if err != nil {
			return err
		}
		return s.vehicles.Save(ctx, vehicle)
	default:
		return err
	}
}
