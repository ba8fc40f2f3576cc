package ingest

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/syncbridge/internal/domain/partner"
	"github.com/erp/syncbridge/internal/domain/shared"
	"github.com/erp/syncbridge/internal/domain/synckey"
	"github.com/erp/syncbridge/internal/domain/syncrec"
	"github.com/erp/syncbridge/internal/domain/trade"
	"go.uber.org/zap"
)

// InvoiceService upserts invoice headers. A header referencing a customer or
// vehicle that has not been synced yet gets placeholder parents, and its
// sales-rep short code is resolved to a display name from the employee
// roster when possible.
type InvoiceService struct {
	invoices  trade.InvoiceRepository
	customers partner.CustomerRepository
	vehicles  partner.VehicleRepository
	employees partner.EmployeeRepository
	logger    *zap.Logger
}

// NewInvoiceService creates an InvoiceService.
func NewInvoiceService(
	invoices trade.InvoiceRepository,
	customers partner.CustomerRepository,
	vehicles partner.VehicleRepository,
	employees partner.EmployeeRepository,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoices:  invoices,
		customers: customers,
		vehicles:  vehicles,
		employees: employees,
		logger:    logger.Named("ingest.invoices"),
	}
}

// IngestBatch applies one chunk of invoice header records.
func (s *InvoiceService) IngestBatch(ctx context.Context, records []syncrec.Invoice) (int, error) {
	applied := 0
	for _, rec := range records {
		if err := s.upsertAt(ctx, rec.NaturalKey(), rec, true); err != nil {
			skipRecord(s.logger, string(syncrec.CollectionInvoices), rec.NaturalKey(), err)
			continue
		}
		applied++
	}
	return applied, nil
}

func (s *InvoiceService) upsertAt(ctx context.Context, key string, rec syncrec.Invoice, allowMangle bool) error {
	existing, err := s.invoices.FindByNaturalKey(ctx, key)
	switch {
	case err == nil:
		if collides(existing.LegacyID, existing.IsPlaceholder, rec.LegacyID) {
			if !allowMangle {
				return shared.ErrAlreadyExists
			}
			mangled := mangleKey(s.logger, string(syncrec.CollectionInvoices), key, existing.LegacyID, rec.LegacyID)
			return s.upsertAt(ctx, mangled, rec, false)
		}
		if err := existing.ApplyRecord(rec); err != nil {
			return err
		}
		if err := s.linkReferences(ctx, existing, rec); err != nil {
			return err
		}
		return s.invoices.Update(ctx, existing)
	case errors.Is(err, shared.ErrNotFound):
		invoice, err := trade.NewInvoiceFromRecord(key, rec)
		if err != nil {
			return err
		}
		if err := s.linkReferences(ctx, invoice, rec); err != nil {
			return err
		}
		return s.invoices.Save(ctx, invoice)
	default:
		return err
	}
}

// linkReferences resolves the header's customer, vehicle and sales rep,
// creating placeholder parents where the reference points at a key that
// does not exist yet.
func (s *InvoiceService) linkReferences(ctx context.Context, invoice *trade.Invoice, rec syncrec.Invoice) error {
	if number := strings.TrimSpace(rec.CustomerNumber); number != "" {
		customerKey := synckey.Customer(number)
		if err := s.ensureCustomer(ctx, customerKey, number); err != nil {
			return err
		}
		invoice.CustomerKey = customerKey
	}

	if vin := strings.TrimSpace(rec.VehicleVIN); vin != "" {
		vehicleKey := synckey.Vehicle(vin, "")
		if err := s.ensureVehicle(ctx, vehicleKey, vin); err != nil {
			return err
		}
		invoice.VehicleKey = vehicleKey
	}

	if code := strings.TrimSpace(rec.SalesRepCode); code != "" {
		employee, err := s.employees.FindByEmployeeNumber(ctx, code)
		switch {
		case err == nil:
			invoice.SalesRepName = employee.DisplayName()
		case errors.Is(err, shared.ErrNotFound):
			// roster sync has not seen this code; the raw code stands in
			invoice.SalesRepName = code
		default:
			return err
		}
	}
	return nil
}

func (s *InvoiceService) ensureCustomer(ctx context.Context, key, customerNumber string) error {
	_, err := s.customers.FindByNaturalKey(ctx, key)
	if errors.Is(err, shared.ErrNotFound) {
		return s.customers.Save(ctx, partner.NewPlaceholderCustomer(key, customerNumber))
	}
	return err
}

func (s *InvoiceService) ensureVehicle(ctx context.Context, key, vin string) error {
	_, err := s.vehicles.FindByNaturalKey(ctx, key)
	if errors.Is(err, shared.ErrNotFound) {
		return s.vehicles.Save(ctx, partner.NewPlaceholderVehicle(key, vin))
	}
	return err
}
