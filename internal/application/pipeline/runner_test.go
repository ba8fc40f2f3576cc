package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/erp/syncbridge/internal/domain/syncrec"
	"github.com/erp/syncbridge/internal/infrastructure/legacy"
	"github.com/erp/syncbridge/internal/infrastructure/synccache"
	"github.com/erp/syncbridge/internal/infrastructure/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeExtractor struct {
	customers []legacy.CustomerRow
	products  []legacy.ProductRow
	invoices  []legacy.InvoiceRow
	lines     []legacy.LineRow
	employees []legacy.EmployeeRow
	linesErr  error
}

func (f *fakeExtractor) ReadCustomers(context.Context, []string) ([]legacy.CustomerRow, error) {
	return f.customers, nil
}

func (f *fakeExtractor) ReadProducts(context.Context, []string) ([]legacy.ProductRow, error) {
	return f.products, nil
}

func (f *fakeExtractor) ReadInvoices(context.Context, []string) ([]legacy.InvoiceRow, error) {
	return f.invoices, nil
}

func (f *fakeExtractor) ReadInvoiceLines(context.Context, []string) ([]legacy.LineRow, error) {
	return f.lines, f.linesErr
}

func (f *fakeExtractor) ReadEmployees(context.Context, []string) ([]legacy.EmployeeRow, error) {
	return f.employees, nil
}

type fakeTransmitter struct {
	mu       sync.Mutex
	pushes   map[syncrec.Collection]int
	failPush map[syncrec.Collection]bool
	opened   int
	summary  transport.RunSummary
}

func newFakeTransmitter() *fakeTransmitter {
	return &fakeTransmitter{
		pushes:   make(map[syncrec.Collection]int),
		failPush: make(map[syncrec.Collection]bool),
	}
}

func (f *fakeTransmitter) Push(_ context.Context, collection syncrec.Collection, records []syncrec.Record) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPush[collection] {
		return 0, errors.New("service unavailable")
	}
	f.pushes[collection] += len(records)
	return len(records), nil
}

func (f *fakeTransmitter) OpenRun(context.Context, string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened++
	return "run-1", nil
}

func (f *fakeTransmitter) CompleteRun(_ context.Context, _ string, summary transport.RunSummary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summary = summary
	return nil
}

func (f *fakeTransmitter) pushed(collection syncrec.Collection) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pushes[collection]
}

func testExtractor() *fakeExtractor {
	return &fakeExtractor{
		customers: []legacy.CustomerRow{
			{ID: "12", CustNo: "500", Name: "ACME Towing"},
		},
		products: []legacy.ProductRow{
			{ID: "200", PartNo: "MS-225", Descr: sql.NullString{String: "P225/60R16", Valid: true},
				Brand: sql.NullString{String: "Michelin", Valid: true},
				Group: sql.NullString{String: "Tires", Valid: true},
				Price: sql.NullFloat64{Float64: 110, Valid: true},
				QtyOnHand: sql.NullFloat64{Float64: 8, Valid: true}},
		},
		invoices: []legacy.InvoiceRow{
			{ID: "7001", InvNo: "INV-1", CustNo: sql.NullString{String: "500", Valid: true},
				VIN: sql.NullString{String: "1HGCM82633A004352", Valid: true}},
		},
		lines: []legacy.LineRow{
			{ID: "9001", InvNo: "INV-1", LineNo: 1,
				PartNo: sql.NullString{String: "MS-225", Valid: true},
				Qty:    sql.NullFloat64{Float64: 2, Valid: true},
				Price:  sql.NullFloat64{Float64: 110, Valid: true}},
		},
		employees: []legacy.EmployeeRow{
			{ID: "3", EmpNo: "JD", FirstName: sql.NullString{String: "Jordan", Valid: true}},
		},
	}
}

func newTestRunner(t *testing.T, extractor Extractor, client Transmitter) *Runner {
	t.Helper()
	store := synccache.NewFileStore(filepath.Join(t.TempDir(), "cache.json"), zap.NewNop())
	cache := synccache.NewCache(store)
	return NewRunner(extractor, cache, client, Options{
		BatchSize:     50,
		MaxConcurrent: 4,
		AgentHost:     "shop-pc-01",
	}, zap.NewNop())
}

func TestRunner_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("first run transmits every collection", func(t *testing.T) {
		client := newFakeTransmitter()
		runner := newTestRunner(t, testExtractor(), client)

		summary, err := runner.Run(ctx)
		require.NoError(t, err)

		// 1 employee, 1 customer, 1 product + 1 category + 1 brand +
		// 1 quantity, 1 invoice + 1 vehicle, 1 line
		assert.Equal(t, 9, summary.RecordsExtracted)
		assert.Equal(t, 0, summary.RecordsFiltered)
		assert.Equal(t, 9, summary.RecordsApplied)
		assert.Equal(t, 0, summary.BatchesFailed)

		assert.Equal(t, 1, client.pushed(syncrec.CollectionCustomers))
		assert.Equal(t, 1, client.pushed(syncrec.CollectionVehicles))
		assert.Equal(t, 1, client.pushed(syncrec.CollectionCategories))
		assert.Equal(t, 1, client.pushed(syncrec.CollectionStockLevels))
		assert.Equal(t, 1, client.opened)
		assert.Equal(t, 9, client.summary.RecordsApplied)
	})

	t.Run("second run over unchanged data transmits nothing", func(t *testing.T) {
		client := newFakeTransmitter()
		runner := newTestRunner(t, testExtractor(), client)

		_, err := runner.Run(ctx)
		require.NoError(t, err)

		summary, err := runner.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, 9, summary.RecordsExtracted)
		assert.Equal(t, 9, summary.RecordsFiltered)
		assert.Equal(t, 0, summary.RecordsApplied)
	})

	t.Run("failed batch is retransmitted on the next run", func(t *testing.T) {
		client := newFakeTransmitter()
		client.failPush[syncrec.CollectionInvoices] = true
		runner := newTestRunner(t, testExtractor(), client)

		summary, err := runner.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.BatchesFailed)
		assert.Equal(t, 8, summary.RecordsApplied)

		client.mu.Lock()
		client.failPush[syncrec.CollectionInvoices] = false
		client.mu.Unlock()

		summary, err = runner.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, summary.BatchesFailed)
		assert.Equal(t, 1, summary.RecordsApplied)
		assert.Equal(t, 8, summary.RecordsFiltered)
		assert.Equal(t, 1, client.pushed(syncrec.CollectionInvoices))
	})

	t.Run("one failed extraction does not stop the others", func(t *testing.T) {
		extractor := testExtractor()
		extractor.linesErr = errors.New("legacy table locked")
		client := newFakeTransmitter()
		runner := newTestRunner(t, extractor, client)

		summary, err := runner.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, 8, summary.RecordsExtracted)
		assert.Equal(t, 0, client.pushed(syncrec.CollectionInvoiceLines))
		assert.Equal(t, 1, client.pushed(syncrec.CollectionCustomers))
	})
}

func TestChunk(t *testing.T) {
	records := []int{1, 2, 3, 4, 5}

	chunks := chunk(records, 2)
	require.Len(t, chunks, 3)
	assert.Equal(t, []int{1, 2}, chunks[0])
	assert.Equal(t, []int{5}, chunks[2])

	assert.Nil(t, chunk([]int{}, 2))
	assert.Len(t, chunk(records, 100), 1)
}
