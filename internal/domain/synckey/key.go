// Package synckey derives the natural keys used by both sides of the sync
// pipeline. The agent computes keys when filtering and transmitting records;
// the ingestion service computes them again when upserting and when creating
// placeholder parents. Convergence depends on both paths producing
// byte-identical keys for the same source fields, so every derivation lives
// here and nowhere else.
package synckey

import (
	"strconv"
	"strings"
)

// Mangle join rune. It does not occur in any legacy identifier column
// consumed by the reader, so mangled keys never collide with organic ones.
const mangleSep = "~"

func norm(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Customer derives the key for a customer from its legacy customer number.
func Customer(customerNumber string) string {
	return norm(customerNumber)
}

// Product derives the key for a product. Part numbers are only unique per
// site at some deployments, so the location code scopes the key when present.
func Product(partNumber, locationCode string) string {
	key := norm(partNumber)
	if loc := norm(locationCode); loc != "" {
		key += "@" + loc
	}
	return key
}

// Vehicle derives the key for a vehicle, preferring the VIN.
func Vehicle(vin, legacyID string) string {
	if v := norm(vin); v != "" {
		return v
	}
	return "VEH-" + norm(legacyID)
}

// Invoice derives the key for an invoice header, scoped by location code.
func Invoice(invoiceNumber, locationCode string) string {
	key := norm(invoiceNumber)
	if loc := norm(locationCode); loc != "" {
		key += "@" + loc
	}
	return key
}

// InvoiceLine derives the key for a line item within its invoice.
func InvoiceLine(invoiceKey string, lineNumber int) string {
	return invoiceKey + "#" + strconv.Itoa(lineNumber)
}

// Category derives the key for a product category from its display name.
func Category(name string) string {
	return squash(name)
}

// Brand derives the key for a brand from its display name.
func Brand(name string) string {
	return squash(name)
}

// StockLevel derives the key for an inventory quantity row.
func StockLevel(productKey, locationCode string) string {
	key := productKey
	if loc := norm(locationCode); loc != "" && !strings.HasSuffix(key, "@"+loc) {
		key += "@" + loc
	}
	return key
}

// Employee derives the key for an employee from the legacy employee number.
func Employee(employeeNumber string) string {
	return norm(employeeNumber)
}

// Mangle disambiguates a natural key that is already taken by a record with
// a different legacy internal id. The result is stable across runs: the same
// (key, legacyID) pair always mangles to the same value.
func Mangle(key, legacyID string) string {
	return key + mangleSep + norm(legacyID)
}

// IsMangled reports whether key carries a collision suffix.
func IsMangled(key string) bool {
	return strings.Contains(key, mangleSep)
}

// squash upper-cases a display name and collapses interior whitespace runs
// to single hyphens, yielding a stable code for name-keyed entities.
func squash(name string) string {
	fields := strings.Fields(strings.ToUpper(name))
	return strings.Join(fields, "-")
}
