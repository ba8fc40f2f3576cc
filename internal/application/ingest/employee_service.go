package ingest

import (
	"context"
	"errors"

	"github.com/erp/syncbridge/internal/domain/partner"
	"github.com/erp/syncbridge/internal/domain/shared"
	"github.com/erp/syncbridge/internal/domain/syncrec"
	"go.uber.org/zap"
)

// EmployeeService upserts the legacy employee roster.
type EmployeeService struct {
	employees partner.EmployeeRepository
	logger    *zap.Logger
}

// NewEmployeeService creates an EmployeeService.
func NewEmployeeService(employees partner.EmployeeRepository, logger *zap.Logger) *EmployeeService {
	return &EmployeeService{employees: employees, logger: logger.Named("ingest.employees")}
}

// IngestBatch applies one chunk of employee records.
func (s *EmployeeService) IngestBatch(ctx context.Context, records []syncrec.Employee) (int, error) {
	applied := 0
	for _, rec := range records {
		if err := s.upsertAt(ctx, rec.NaturalKey(), rec, true); err != nil {
			skipRecord(s.logger, string(syncrec.CollectionEmployees), rec.NaturalKey(), err)
			continue
		}
		applied++
	}
	return applied, nil
}

func (s *EmployeeService) upsertAt(ctx context.Context, key string, rec syncrec.Employee, allowMangle bool) error {
	existing, err := s.employees.FindByNaturalKey(ctx, key)
	switch {
	case err == nil:
		if collides(existing.LegacyID, existing.IsPlaceholder, rec.LegacyID) {
			if !allowMangle {
				return shared.ErrAlreadyExists
			}
			mangled := mangleKey(s.logger, string(syncrec.CollectionEmployees), key, existing.LegacyID, rec.LegacyID)
			return s.upsertAt(ctx, mangled, rec, false)
		}
		if err := existing.ApplyRecord(rec); err != nil {
			return err
		}
		return s.employees.Update(ctx, existing)
	case errors.Is(err, shared.ErrNotFound):
		employee, err := partner.NewEmployeeFromRecord(key, rec)
		if err != nil {
			return err
		}
		return s.employees.Save(ctx, employee)
	default:
		return err
	}
}
