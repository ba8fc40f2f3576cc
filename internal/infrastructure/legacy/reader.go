// Package legacy reads the external, independently-operated relational
// source. The column lists below are a contract with the legacy system and
// are preserved field-for-field; nothing here ever writes.
package legacy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Table names vary across legacy deployments; each collection has a primary
// name and a documented fallback tried when the primary query errors.
const (
	customerTable         = "customer"
	customerTableFallback = "customers"
	productTable          = "inventory"
	productTableFallback  = "parts"
	invoiceTable          = "invoice"
	invoiceTableFallback  = "invoices"
	lineTable             = "invoice_detail"
	lineTableFallback     = "invoice_lines"
	employeeTable         = "employee"
	employeeTableFallback = "employees"
)

// CustomerRow mirrors the legacy customer roster columns consumed here.
type CustomerRow struct {
	ID         string
	CustNo     string
	Name       string
	Contact    sql.NullString
	Phone      sql.NullString
	Email      sql.NullString
	Address    sql.NullString
	City       sql.NullString
	State      sql.NullString
	Zip        sql.NullString
	SiteCode   sql.NullString
}

// ProductRow mirrors the legacy inventory roster columns consumed here.
type ProductRow struct {
	ID        string
	PartNo    string
	Descr     sql.NullString
	Size      sql.NullString
	Brand     sql.NullString
	Group     sql.NullString
	Price     sql.NullFloat64
	Cost      sql.NullFloat64
	SiteCode  sql.NullString
	QtyOnHand sql.NullFloat64
	QtyRsvd   sql.NullFloat64
}

// InvoiceRow mirrors the legacy invoice header columns consumed here,
// including the vehicle fields the agent splits into vehicle records.
type InvoiceRow struct {
	ID         string
	InvNo      string
	SiteCode   sql.NullString
	CustNo     sql.NullString
	SalesRep   sql.NullString
	InvDate    sql.NullTime
	SubTotal   sql.NullFloat64
	TaxAmt     sql.NullFloat64
	TotalAmt   sql.NullFloat64
	VehicleID  sql.NullString
	VIN        sql.NullString
	VehMake    sql.NullString
	VehModel   sql.NullString
	VehYear    sql.NullInt64
	PlateNo    sql.NullString
}

// LineRow mirrors the legacy invoice detail columns consumed here.
type LineRow struct {
	ID       string
	InvNo    string
	SiteCode sql.NullString
	LineNo   int
	PartNo   sql.NullString
	Descr    sql.NullString
	Size     sql.NullString
	LineType sql.NullString
	Qty      sql.NullFloat64
	Price    sql.NullFloat64
	Cost     sql.NullFloat64
	Taxable  sql.NullBool
}

// EmployeeRow mirrors the legacy employee roster columns consumed here.
type EmployeeRow struct {
	ID        string
	EmpNo     string
	FirstName sql.NullString
	LastName  sql.NullString
	Role      sql.NullString
}

// Reader issues read-only queries against the legacy source. Each query
// carries its own timeout; exceeding it fails only that query's unit of
// work and never blocks concurrent queries.
type Reader struct {
	db           *sql.DB
	queryTimeout time.Duration
	logger       *zap.Logger
}

// NewReader creates a Reader over an open legacy connection.
func NewReader(db *sql.DB, queryTimeout time.Duration, logger *zap.Logger) *Reader {
	return &Reader{
		db:           db,
		queryTimeout: queryTimeout,
		logger:       logger.Named("legacy"),
	}
}

// Open connects to the legacy source via database/sql.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open legacy source: %w", err)
	}
	return db, nil
}

// ReadCustomers returns the customer roster, optionally filtered to custNos.
func (r *Reader) ReadCustomers(ctx context.Context, custNos []string) ([]CustomerRow, error) {
	const cols = "cust_id, cust_no, cust_name, contact, phone, email, address, city, state, zip, site_code"
	scan := func(rows *sql.Rows) (CustomerRow, error) {
		var c CustomerRow
		err := rows.Scan(&c.ID, &c.CustNo, &c.Name, &c.Contact, &c.Phone, &c.Email,
			&c.Address, &c.City, &c.State, &c.Zip, &c.SiteCode)
		return c, err
	}
	return readRows(ctx, r, cols, customerTable, customerTableFallback, "cust_no", custNos, scan)
}

// ReadProducts returns the inventory roster, optionally filtered to partNos.
func (r *Reader) ReadProducts(ctx context.Context, partNos []string) ([]ProductRow, error) {
	const cols = "item_id, part_no, descr, size, brand, grp, price, cost, site_code, qty_on_hand, qty_reserved"
	scan := func(rows *sql.Rows) (ProductRow, error) {
		var p ProductRow
		err := rows.Scan(&p.ID, &p.PartNo, &p.Descr, &p.Size, &p.Brand, &p.Group,
			&p.Price, &p.Cost, &p.SiteCode, &p.QtyOnHand, &p.QtyRsvd)
		return p, err
	}
	return readRows(ctx, r, cols, productTable, productTableFallback, "part_no", partNos, scan)
}

// ReadInvoices returns invoice headers, optionally filtered to invNos.
func (r *Reader) ReadInvoices(ctx context.Context, invNos []string) ([]InvoiceRow, error) {
	const cols = "inv_id, inv_no, site_code, cust_no, sales_rep, inv_date, sub_total, tax_amt, total_amt, " +
		"vehicle_id, vin, veh_make, veh_model, veh_year, plate_no"
	scan := func(rows *sql.Rows) (InvoiceRow, error) {
		var i InvoiceRow
		err := rows.Scan(&i.ID, &i.InvNo, &i.SiteCode, &i.CustNo, &i.SalesRep, &i.InvDate,
			&i.SubTotal, &i.TaxAmt, &i.TotalAmt,
			&i.VehicleID, &i.VIN, &i.VehMake, &i.VehModel, &i.VehYear, &i.PlateNo)
		return i, err
	}
	return readRows(ctx, r, cols, invoiceTable, invoiceTableFallback, "inv_no", invNos, scan)
}

// ReadInvoiceLines returns invoice details, optionally filtered to invNos.
func (r *Reader) ReadInvoiceLines(ctx context.Context, invNos []string) ([]LineRow, error) {
	const cols = "line_id, inv_no, site_code, line_no, part_no, descr, size, line_type, qty, price, cost, taxable"
	scan := func(rows *sql.Rows) (LineRow, error) {
		var l LineRow
		err := rows.Scan(&l.ID, &l.InvNo, &l.SiteCode, &l.LineNo, &l.PartNo, &l.Descr,
			&l.Size, &l.LineType, &l.Qty, &l.Price, &l.Cost, &l.Taxable)
		return l, err
	}
	return readRows(ctx, r, cols, lineTable, lineTableFallback, "inv_no", invNos, scan)
}

// ReadEmployees returns the employee roster, optionally filtered to empNos.
func (r *Reader) ReadEmployees(ctx context.Context, empNos []string) ([]EmployeeRow, error) {
	const cols = "emp_id, emp_no, first_name, last_name, role"
	scan := func(rows *sql.Rows) (EmployeeRow, error) {
		var e EmployeeRow
		err := rows.Scan(&e.ID, &e.EmpNo, &e.FirstName, &e.LastName, &e.Role)
		return e, err
	}
	return readRows(ctx, r, cols, employeeTable, employeeTableFallback, "emp_no", empNos, scan)
}

// readRows runs one extraction query with a timeout, trying the fallback
// table when the primary errors for a reason other than cancellation.
func readRows[T any](ctx context.Context, r *Reader, cols, table, fallback, keyCol string, keys []string, scan func(*sql.Rows) (T, error)) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	out, err := queryTable(ctx, r.db, cols, table, keyCol, keys, scan)
	if err == nil {
		return out, nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}

	r.logger.Warn("primary table query failed, trying fallback",
		zap.String("table", table),
		zap.String("fallback", fallback),
		zap.Error(err),
	)
	out, ferr := queryTable(ctx, r.db, cols, fallback, keyCol, keys, scan)
	if ferr != nil {
		return nil, fmt.Errorf("read %s (fallback %s): %w", table, fallback, ferr)
	}
	return out, nil
}

func queryTable[T any](ctx context.Context, db *sql.DB, cols, table, keyCol string, keys []string, scan func(*sql.Rows) (T, error)) ([]T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", cols, table)
	var args []any
	if len(keys) > 0 {
		query += fmt.Sprintf(" WHERE %s = ANY($1)", keyCol)
		args = append(args, pq.Array(keys))
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		rec, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
