package reconcile

import (
	"context"
	"testing"

	"github.com/erp/syncbridge/internal/domain/shared"
	"github.com/erp/syncbridge/internal/domain/syncrec"
	"github.com/erp/syncbridge/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeInvoiceRepo struct {
	rows    map[string]*trade.Invoice
	updates int
}

func (r *fakeInvoiceRepo) FindByNaturalKey(_ context.Context, key string) (*trade.Invoice, error) {
	if i, ok := r.rows[key]; ok {
		copied := *i
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeInvoiceRepo) Save(_ context.Context, i *trade.Invoice) error {
	copied := *i
	r.rows[i.NaturalKey] = &copied
	return nil
}

func (r *fakeInvoiceRepo) Update(ctx context.Context, i *trade.Invoice) error {
	r.updates++
	return r.Save(ctx, i)
}

type fakeLineRepo struct {
	lines map[string][]trade.InvoiceLine
}

func (r *fakeLineRepo) FindByNaturalKey(_ context.Context, key string) (*trade.InvoiceLine, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeLineRepo) FindByInvoiceKey(_ context.Context, invoiceKey string) ([]trade.InvoiceLine, error) {
	return r.lines[invoiceKey], nil
}

func (r *fakeLineRepo) Save(_ context.Context, l *trade.InvoiceLine) error {
	r.lines[l.InvoiceKey] = append(r.lines[l.InvoiceKey], *l)
	return nil
}

func (r *fakeLineRepo) Update(ctx context.Context, l *trade.InvoiceLine) error {
	return r.Save(ctx, l)
}

func newFixture(t *testing.T) (*Service, *fakeInvoiceRepo, *fakeLineRepo) {
	t.Helper()
	invoices := &fakeInvoiceRepo{rows: make(map[string]*trade.Invoice)}
	lines := &fakeLineRepo{lines: make(map[string][]trade.InvoiceLine)}
	svc := NewService(invoices, lines, decimal.NewFromFloat(0.05), zap.NewNop())
	return svc, invoices, lines
}

func storedInvoice(t *testing.T, invoices *fakeInvoiceRepo, total int64) *trade.Invoice {
	t.Helper()
	inv, err := trade.NewInvoiceFromRecord("INV-1", syncrec.Invoice{
		LegacyID:      "7001",
		InvoiceNumber: "INV-1",
		Total:         decimal.NewFromInt(total),
	})
	require.NoError(t, err)
	require.NoError(t, invoices.Save(context.Background(), inv))
	return inv
}

func storedLine(t *testing.T, lines *fakeLineRepo, lineNo int, lineType syncrec.LineType, qty, price, cost int64, taxable bool) {
	t.Helper()
	line, err := trade.NewInvoiceLineFromRecord("INV-1#"+string(rune('0'+lineNo)), "INV-1", "", syncrec.InvoiceLine{
		LegacyID:      "9000",
		InvoiceNumber: "INV-1",
		LineNumber:    lineNo,
		LineType:      lineType,
		Quantity:      decimal.NewFromInt(qty),
		UnitPrice:     decimal.NewFromInt(price),
		UnitCost:      decimal.NewFromInt(cost),
		Taxable:       taxable,
	})
	require.NoError(t, err)
	require.NoError(t, lines.Save(context.Background(), line))
}

func TestService_ReconcileInvoice(t *testing.T) {
	ctx := context.Background()

	t.Run("recomputes aggregates from lines", func(t *testing.T) {
		svc, invoices, lines := newFixture(t)
		storedInvoice(t, invoices, 25)
		storedLine(t, lines, 1, syncrec.LineTypePart, 2, 110, 70, true)
		storedLine(t, lines, 2, syncrec.LineTypeLabor, 1, 40, 0, false)

		require.NoError(t, svc.ReconcileInvoice(ctx, "INV-1"))

		inv, err := invoices.FindByNaturalKey(ctx, "INV-1")
		require.NoError(t, err)
		assert.True(t, inv.Subtotal.Equal(decimal.NewFromInt(260)))
		assert.True(t, inv.PartsTotal.Equal(decimal.NewFromInt(220)))
		assert.True(t, inv.LaborTotal.Equal(decimal.NewFromInt(40)))
		assert.True(t, inv.CostTotal.Equal(decimal.NewFromInt(140)))
		assert.True(t, inv.GrossProfit.Equal(decimal.NewFromInt(120)))
		assert.True(t, inv.TaxTotal.Equal(decimal.NewFromInt(11)))
		assert.True(t, inv.Total.Equal(decimal.NewFromInt(271)))
	})

	t.Run("zero recomputation never wipes a positive stored total", func(t *testing.T) {
		svc, invoices, _ := newFixture(t)
		storedInvoice(t, invoices, 25)

		require.NoError(t, svc.ReconcileInvoice(ctx, "INV-1"))

		inv, err := invoices.FindByNaturalKey(ctx, "INV-1")
		require.NoError(t, err)
		assert.True(t, inv.Total.Equal(decimal.NewFromInt(25)))
		assert.Zero(t, invoices.updates)
	})

	t.Run("second run over unchanged lines is a no-op", func(t *testing.T) {
		svc, invoices, lines := newFixture(t)
		storedInvoice(t, invoices, 0)
		storedLine(t, lines, 1, syncrec.LineTypePart, 1, 100, 60, false)

		require.NoError(t, svc.ReconcileInvoice(ctx, "INV-1"))
		assert.Equal(t, 1, invoices.updates)

		require.NoError(t, svc.ReconcileInvoice(ctx, "INV-1"))
		assert.Equal(t, 1, invoices.updates)
	})

	t.Run("missing invoice is an error", func(t *testing.T) {
		svc, _, _ := newFixture(t)
		assert.Error(t, svc.ReconcileInvoice(ctx, "INV-404"))
	})
}
