package ingest

import (
	"context"
	"testing"

	"github.com/erp/syncbridge/internal/domain/synckey"
	"github.com/erp/syncbridge/internal/domain/syncrec"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newInvoiceFixture() (*InvoiceService, *fakeInvoiceRepo, *fakeCustomerRepo, *fakeVehicleRepo, *fakeEmployeeRepo) {
	invoices := newFakeInvoiceRepo()
	customers := newFakeCustomerRepo()
	vehicles := newFakeVehicleRepo()
	employees := newFakeEmployeeRepo()
	svc := NewInvoiceService(invoices, customers, vehicles, employees, zap.NewNop())
	return svc, invoices, customers, vehicles, employees
}

func TestInvoiceService_IngestBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("invoice before customer creates a placeholder and links it", func(t *testing.T) {
		svc, invoices, customers, _, _ := newInvoiceFixture()

		rec := syncrec.Invoice{
			LegacyID:       "7001",
			InvoiceNumber:  "INV-1",
			CustomerNumber: "500",
			Total:          decimal.NewFromInt(25),
		}
		applied, err := svc.IngestBatch(ctx, []syncrec.Invoice{rec})
		require.NoError(t, err)
		assert.Equal(t, 1, applied)

		customerKey := synckey.Customer("500")
		placeholder, err := customers.FindByNaturalKey(ctx, customerKey)
		require.NoError(t, err)
		assert.True(t, placeholder.IsPlaceholder)
		assert.Equal(t, "500", placeholder.CustomerNumber)

		invoice, err := invoices.FindByNaturalKey(ctx, synckey.Invoice("INV-1", ""))
		require.NoError(t, err)
		assert.Equal(t, customerKey, invoice.CustomerKey)
		assert.True(t, invoice.Total.Equal(decimal.NewFromInt(25)))
	})

	t.Run("later customer sync materializes the placeholder the invoice links", func(t *testing.T) {
		svc, invoices, customers, _, _ := newInvoiceFixture()
		customerSvc := NewCustomerService(customers, zap.NewNop())

		_, err := svc.IngestBatch(ctx, []syncrec.Invoice{
			{LegacyID: "7001", InvoiceNumber: "INV-1", CustomerNumber: "500"},
		})
		require.NoError(t, err)

		_, err = customerSvc.IngestBatch(ctx, []syncrec.Customer{
			{LegacyID: "12", CustomerNumber: "500", Name: "ACME Towing"},
		})
		require.NoError(t, err)

		invoice, err := invoices.FindByNaturalKey(ctx, synckey.Invoice("INV-1", ""))
		require.NoError(t, err)
		customer, err := customers.FindByNaturalKey(ctx, invoice.CustomerKey)
		require.NoError(t, err)
		assert.False(t, customer.IsPlaceholder)
		assert.Equal(t, "ACME Towing", customer.Name)
		assert.Len(t, customers.rows, 1)
	})

	t.Run("vehicle reference creates a placeholder keyed by VIN", func(t *testing.T) {
		svc, invoices, _, vehicles, _ := newInvoiceFixture()

		_, err := svc.IngestBatch(ctx, []syncrec.Invoice{
			{LegacyID: "7002", InvoiceNumber: "INV-2", VehicleVIN: "1hgcm82633a004352"},
		})
		require.NoError(t, err)

		invoice, err := invoices.FindByNaturalKey(ctx, synckey.Invoice("INV-2", ""))
		require.NoError(t, err)
		assert.Equal(t, "1HGCM82633A004352", invoice.VehicleKey)

		vehicle, err := vehicles.FindByNaturalKey(ctx, invoice.VehicleKey)
		require.NoError(t, err)
		assert.True(t, vehicle.IsPlaceholder)
		assert.Equal(t, "1HGCM82633A004352", vehicle.VIN)
	})

	t.Run("sales rep code resolves against the roster", func(t *testing.T) {
		svc, invoices, _, _, employees := newInvoiceFixture()
		employeeSvc := NewEmployeeService(employees, zap.NewNop())

		_, err := employeeSvc.IngestBatch(ctx, []syncrec.Employee{
			{LegacyID: "3", EmployeeNumber: "JD", FirstName: "Jordan", LastName: "Doyle"},
		})
		require.NoError(t, err)

		_, err = svc.IngestBatch(ctx, []syncrec.Invoice{
			{LegacyID: "7003", InvoiceNumber: "INV-3", SalesRepCode: "jd"},
		})
		require.NoError(t, err)

		invoice, err := invoices.FindByNaturalKey(ctx, synckey.Invoice("INV-3", ""))
		require.NoError(t, err)
		assert.Equal(t, "Jordan Doyle", invoice.SalesRepName)
	})

	t.Run("unknown sales rep code stands in as the name", func(t *testing.T) {
		svc, invoices, _, _, _ := newInvoiceFixture()

		_, err := svc.IngestBatch(ctx, []syncrec.Invoice{
			{LegacyID: "7004", InvoiceNumber: "INV-4", SalesRepCode: "ZZ"},
		})
		require.NoError(t, err)

		invoice, err := invoices.FindByNaturalKey(ctx, synckey.Invoice("INV-4", ""))
		require.NoError(t, err)
		assert.Equal(t, "ZZ", invoice.SalesRepName)
	})
}
