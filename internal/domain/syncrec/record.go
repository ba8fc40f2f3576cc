// Package syncrec defines the typed source records exchanged between the
// extraction agent and the ingestion service. Each collection has an explicit
// struct, so the transmitted field set is a compile-time contract rather than
// a runtime allow-list.
package syncrec

import (
	"github.com/erp/syncbridge/internal/domain/synckey"
	"github.com/shopspring/decimal"
)

// Collection names a record collection. The name doubles as the entity-type
// namespace in the change-detection cache and as the JSON envelope key on the
// wire: every chunk is transmitted as { <collection>: [records] }.
type Collection string

const (
	CollectionCustomers       Collection = "customers"
	CollectionInventory       Collection = "inventory"
	CollectionVehicles        Collection = "vehicles"
	CollectionInvoices        Collection = "invoices"
	CollectionInvoiceLines    Collection = "invoiceLineItems"
	CollectionCategories      Collection = "categories"
	CollectionBrands          Collection = "brands"
	CollectionStockLevels     Collection = "inventoryQuantities"
	CollectionEmployees       Collection = "employees"
)

// Record is a source record identified by a natural key.
type Record interface {
	NaturalKey() string
}

// Customer mirrors the legacy customer roster row.
type Customer struct {
	LegacyID       string `json:"legacy_id"`
	CustomerNumber string `json:"customer_number"`
	Name           string `json:"name"`
	ContactName    string `json:"contact_name,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"`
	Address        string `json:"address,omitempty"`
	City           string `json:"city,omitempty"`
	Province       string `json:"province,omitempty"`
	PostalCode     string `json:"postal_code,omitempty"`
	LocationCode   string `json:"location_code,omitempty"`
}

// NaturalKey implements Record
func (c Customer) NaturalKey() string {
	return synckey.Customer(c.CustomerNumber)
}

// Product mirrors the legacy inventory roster row, minus quantities, which
// travel as StockLevel records.
type Product struct {
	LegacyID     string          `json:"legacy_id"`
	PartNumber   string          `json:"part_number"`
	Description  string          `json:"description"`
	Size         string          `json:"size,omitempty"`
	BrandName    string          `json:"brand_name,omitempty"`
	CategoryName string          `json:"category_name,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	LocationCode string          `json:"location_code,omitempty"`
}

// NaturalKey implements Record
func (p Product) NaturalKey() string {
	return synckey.Product(p.PartNumber, p.LocationCode)
}

// Vehicle is split out of the invoice-header extraction by the agent.
type Vehicle struct {
	LegacyID       string `json:"legacy_id"`
	VIN            string `json:"vin,omitempty"`
	CustomerNumber string `json:"customer_number,omitempty"`
	Make           string `json:"make,omitempty"`
	Model          string `json:"model,omitempty"`
	Year           int    `json:"year,omitempty"`
	PlateNumber    string `json:"plate_number,omitempty"`
}

// NaturalKey implements Record
func (v Vehicle) NaturalKey() string {
	return synckey.Vehicle(v.VIN, v.LegacyID)
}

// Invoice mirrors the legacy invoice header row. The monetary fields are the
// legacy-stored values; the reconciliation engine recomputes them from line
// items after ingestion.
type Invoice struct {
	LegacyID       string          `json:"legacy_id"`
	InvoiceNumber  string          `json:"invoice_number"`
	LocationCode   string          `json:"location_code,omitempty"`
	CustomerNumber string          `json:"customer_number,omitempty"`
	VehicleVIN     string          `json:"vehicle_vin,omitempty"`
	SalesRepCode   string          `json:"sales_rep_code,omitempty"`
	IssuedAt       string          `json:"issued_at,omitempty"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxTotal       decimal.Decimal `json:"tax_total"`
	Total          decimal.Decimal `json:"total"`
}

// NaturalKey implements Record
func (i Invoice) NaturalKey() string {
	return synckey.Invoice(i.InvoiceNumber, i.LocationCode)
}

// LineType distinguishes parts from labor on an invoice line.
type LineType string

const (
	LineTypePart  LineType = "part"
	LineTypeLabor LineType = "labor"
)

// InvoiceLine mirrors the legacy invoice detail row.
type InvoiceLine struct {
	LegacyID      string          `json:"legacy_id"`
	InvoiceNumber string          `json:"invoice_number"`
	LocationCode  string          `json:"location_code,omitempty"`
	LineNumber    int             `json:"line_number"`
	PartNumber    string          `json:"part_number,omitempty"`
	Description   string          `json:"description,omitempty"`
	Size          string          `json:"size,omitempty"`
	LineType      LineType        `json:"line_type"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	Taxable       bool            `json:"taxable"`
}

// InvoiceKey returns the natural key of the owning header.
func (l InvoiceLine) InvoiceKey() string {
	return synckey.Invoice(l.InvoiceNumber, l.LocationCode)
}

// NaturalKey implements Record
func (l InvoiceLine) NaturalKey() string {
	return synckey.InvoiceLine(l.InvoiceKey(), l.LineNumber)
}

// Category is derived from product category names by the agent.
type Category struct {
	Name string `json:"name"`
}

// NaturalKey implements Record
func (c Category) NaturalKey() string {
	return synckey.Category(c.Name)
}

// Brand is derived from product brand names by the agent.
type Brand struct {
	Name string `json:"name"`
}

// NaturalKey implements Record
func (b Brand) NaturalKey() string {
	return synckey.Brand(b.Name)
}

// StockLevel carries the on-hand quantity for a product at a location.
type StockLevel struct {
	PartNumber       string          `json:"part_number"`
	LocationCode     string          `json:"location_code,omitempty"`
	QuantityOnHand   decimal.Decimal `json:"quantity_on_hand"`
	QuantityReserved decimal.Decimal `json:"quantity_reserved"`
}

// NaturalKey implements Record
func (s StockLevel) NaturalKey() string {
	return synckey.StockLevel(synckey.Product(s.PartNumber, s.LocationCode), s.LocationCode)
}

// Employee mirrors the legacy employee roster row. The ingestion service
// uses the roster to resolve sales-rep short codes to display names.
type Employee struct {
	LegacyID       string `json:"legacy_id"`
	EmployeeNumber string `json:"employee_number"`
	FirstName      string `json:"first_name,omitempty"`
	LastName       string `json:"last_name,omitempty"`
	Role           string `json:"role,omitempty"`
}

// NaturalKey implements Record
func (e Employee) NaturalKey() string {
	return synckey.Employee(e.EmployeeNumber)
}
