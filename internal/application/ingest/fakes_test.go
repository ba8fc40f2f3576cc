package ingest

import (
	"context"
	"strings"
	"sync"

	"github.com/erp/syncbridge/internal/domain/catalog"
	"github.com/erp/syncbridge/internal/domain/partner"
	"github.com/erp/syncbridge/internal/domain/shared"
	"github.com/erp/syncbridge/internal/domain/trade"
)

// map-backed fake repositories, keyed by natural key

type fakeCustomerRepo struct {
	mu   sync.Mutex
	rows map[string]*partner.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{rows: make(map[string]*partner.Customer)}
}

func (r *fakeCustomerRepo) FindByNaturalKey(_ context.Context, key string) (*partner.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.rows[key]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeCustomerRepo) Save(_ context.Context, c *partner.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[c.NaturalKey]; ok {
		return shared.ErrAlreadyExists
	}
	copied := *c
	r.rows[c.NaturalKey] = &copied
	return nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, c *partner.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *c
	r.rows[c.NaturalKey] = &copied
	return nil
}

type fakeVehicleRepo struct {
	rows map[string]*partner.Vehicle
}

func newFakeVehicleRepo() *fakeVehicleRepo {
	return &fakeVehicleRepo{rows: make(map[string]*partner.Vehicle)}
}

func (r *fakeVehicleRepo) FindByNaturalKey(_ context.Context, key string) (*partner.Vehicle, error) {
	if v, ok := r.rows[key]; ok {
		copied := *v
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeVehicleRepo) Save(_ context.Context, v *partner.Vehicle) error {
	copied := *v
	r.rows[v.NaturalKey] = &copied
	return nil
}

func (r *fakeVehicleRepo) Update(_ context.Context, v *partner.Vehicle) error {
	return r.Save(context.Background(), v)
}

type fakeEmployeeRepo struct {
	rows map[string]*partner.Employee
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{rows: make(map[string]*partner.Employee)}
}

func (r *fakeEmployeeRepo) FindByNaturalKey(_ context.Context, key string) (*partner.Employee, error) {
	if e, ok := r.rows[key]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeEmployeeRepo) FindByEmployeeNumber(ctx context.Context, number string) (*partner.Employee, error) {
	number = strings.ToUpper(strings.TrimSpace(number))
	for _, e := range r.rows {
		if e.EmployeeNumber == number {
			copied := *e
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeEmployeeRepo) Save(_ context.Context, e *partner.Employee) error {
	copied := *e
	r.rows[e.NaturalKey] = &copied
	return nil
}

func (r *fakeEmployeeRepo) Update(_ context.Context, e *partner.Employee) error {
	return r.Save(context.Background(), e)
}

type fakeProductRepo struct {
	rows map[string]*catalog.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{rows: make(map[string]*catalog.Product)}
}

func (r *fakeProductRepo) FindByNaturalKey(_ context.Context, key string) (*catalog.Product, error) {
	if p, ok := r.rows[key]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) Save(_ context.Context, p *catalog.Product) error {
	copied := *p
	r.rows[p.NaturalKey] = &copied
	return nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *catalog.Product) error {
	return r.Save(context.Background(), p)
}

type fakeCategoryRepo struct {
	rows map[string]*catalog.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{rows: make(map[string]*catalog.Category)}
}

func (r *fakeCategoryRepo) FindByNaturalKey(_ context.Context, key string) (*catalog.Category, error) {
	if c, ok := r.rows[key]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeCategoryRepo) Save(_ context.Context, c *catalog.Category) error {
	copied := *c
	r.rows[c.NaturalKey] = &copied
	return nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, c *catalog.Category) error {
	return r.Save(context.Background(), c)
}

type fakeBrandRepo struct {
	rows map[string]*catalog.Brand
}

func newFakeBrandRepo() *fakeBrandRepo {
	return &fakeBrandRepo{rows: make(map[string]*catalog.Brand)}
}

func (r *fakeBrandRepo) FindByNaturalKey(_ context.Context, key string) (*catalog.Brand, error) {
	if b, ok := r.rows[key]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeBrandRepo) Save(_ context.Context, b *catalog.Brand) error {
	copied := *b
	r.rows[b.NaturalKey] = &copied
	return nil
}

func (r *fakeBrandRepo) Update(_ context.Context, b *catalog.Brand) error {
	return r.Save(context.Background(), b)
}

type fakeStockRepo struct {
	rows map[string]*catalog.StockLevel
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{rows: make(map[string]*catalog.StockLevel)}
}

func (r *fakeStockRepo) FindByNaturalKey(_ context.Context, key string) (*catalog.StockLevel, error) {
	if s, ok := r.rows[key]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeStockRepo) Save(_ context.Context, s *catalog.StockLevel) error {
	copied := *s
	r.rows[s.NaturalKey] = &copied
	return nil
}

func (r *fakeStockRepo) Update(_ context.Context, s *catalog.StockLevel) error {
	return r.Save(context.Background(), s)
}

type fakeInvoiceRepo struct {
	rows map[string]*trade.Invoice
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{rows: make(map[string]*trade.Invoice)}
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

func (r *fakeInvoiceRepo) Update(_ context.Context, i *trade.Invoice) error {
	return r.Save(context.Background(), i)
}

type fakeLineRepo struct {
	rows map[string]*trade.InvoiceLine
}

func newFakeLineRepo() *fakeLineRepo {
	return &fakeLineRepo{rows: make(map[string]*trade.InvoiceLine)}
}

func (r *fakeLineRepo) FindByNaturalKey(_ context.Context, key string) (*trade.InvoiceLine, error) {
	if l, ok := r.rows[key]; ok {
		copied := *l
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeLineRepo) FindByInvoiceKey(_ context.Context, invoiceKey string) ([]trade.InvoiceLine, error) {
	var out []trade.InvoiceLine
	for _, l := range r.rows {
		if l.InvoiceKey == invoiceKey {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeLineRepo) Save(_ context.Context, l *trade.InvoiceLine) error {
	copied := *l
	r.rows[l.NaturalKey] = &copied
	return nil
}

func (r *fakeLineRepo) Update(_ context.Context, l *trade.InvoiceLine) error {
	return r.Save(context.Background(), l)
}

// fakeReconciler records which invoices were reconciled.
type fakeReconciler struct {
	calls []string
}

func (f *fakeReconciler) ReconcileInvoice(_ context.Context, invoiceKey string) error {
	f.calls = append(f.calls, invoiceKey)
	return nil
}
