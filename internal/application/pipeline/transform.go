package pipeline

import (
	"strings"
	"time"

	"github.com/erp/syncbridge/internal/domain/syncrec"
	"github.com/erp/syncbridge/internal/infrastructure/legacy"
	"github.com/shopspring/decimal"
)

// The transform step turns raw legacy rows into typed source records. The
// derived collections (vehicles, categories, brands, inventory quantities)
// do not exist as legacy tables; they are split out of the rows that carry
// their fields, deduplicated by natural key so each derived entity is
// transmitted once per run.

// TransformCustomers maps customer roster rows.
func TransformCustomers(rows []legacy.CustomerRow) []syncrec.Customer {
	out := make([]syncrec.Customer, 0, len(rows))
	for _, row := range rows {
		out = append(out, syncrec.Customer{
			LegacyID:       row.ID,
			CustomerNumber: row.CustNo,
			Name:           row.Name,
			ContactName:    row.Contact.String,
			Phone:          row.Phone.String,
			Email:          row.Email.String,
			Address:        row.Address.String,
			City:           row.City.String,
			Province:       row.State.String,
			PostalCode:     row.Zip.String,
			LocationCode:   row.SiteCode.String,
		})
	}
	return out
}

// TransformProducts maps inventory roster rows and splits out the derived
// category, brand and quantity collections.
func TransformProducts(rows []legacy.ProductRow) ([]syncrec.Product, []syncrec.Category, []syncrec.Brand, []syncrec.StockLevel) {
	products := make([]syncrec.Product, 0, len(rows))
	var categories []syncrec.Category
	var brands []syncrec.Brand
	var levels []syncrec.StockLevel
	seenCategories := make(map[string]struct{})
	seenBrands := make(map[string]struct{})

	for _, row := range rows {
		products = append(products, syncrec.Product{
			LegacyID:     row.ID,
			PartNumber:   row.PartNo,
			Description:  row.Descr.String,
			Size:         row.Size.String,
			BrandName:    row.Brand.String,
			CategoryName: row.Group.String,
			UnitPrice:    decimal.NewFromFloat(row.Price.Float64),
			UnitCost:     decimal.NewFromFloat(row.Cost.Float64),
			LocationCode: row.SiteCode.String,
		})

		if name := strings.TrimSpace(row.Group.String); name != "" {
			rec := syncrec.Category{Name: name}
			if _, ok := seenCategories[rec.NaturalKey()]; !ok {
				seenCategories[rec.NaturalKey()] = struct{}{}
				categories = append(categories, rec)
			}
		}
		if name := strings.TrimSpace(row.Brand.String); name != "" {
			rec := syncrec.Brand{Name: name}
			if _, ok := seenBrands[rec.NaturalKey()]; !ok {
				seenBrands[rec.NaturalKey()] = struct{}{}
				brands = append(brands, rec)
			}
		}
		if row.QtyOnHand.Valid || row.QtyRsvd.Valid {
			levels = append(levels, syncrec.StockLevel{
				PartNumber:       row.PartNo,
				LocationCode:     row.SiteCode.String,
				QuantityOnHand:   decimal.NewFromFloat(row.QtyOnHand.Float64),
				QuantityReserved: decimal.NewFromFloat(row.QtyRsvd.Float64),
			})
		}
	}
	return products, categories, brands, levels
}

// TransformInvoices maps invoice header rows and splits out the derived
// vehicle collection.
func TransformInvoices(rows []legacy.InvoiceRow) ([]syncrec.Invoice, []syncrec.Vehicle) {
	invoices := make([]syncrec.Invoice, 0, len(rows))
	var vehicles []syncrec.Vehicle
	seenVehicles := make(map[string]struct{})

	for _, row := range rows {
		issuedAt := ""
		if row.InvDate.Valid {
			issuedAt = row.InvDate.Time.Format(time.RFC3339)
		}
		invoices = append(invoices, syncrec.Invoice{
			LegacyID:       row.ID,
			InvoiceNumber:  row.InvNo,
			LocationCode:   row.SiteCode.String,
			CustomerNumber: row.CustNo.String,
			VehicleVIN:     row.VIN.String,
			SalesRepCode:   row.SalesRep.String,
			IssuedAt:       issuedAt,
			Subtotal:       decimal.NewFromFloat(row.SubTotal.Float64),
			TaxTotal:       decimal.NewFromFloat(row.TaxAmt.Float64),
			Total:          decimal.NewFromFloat(row.TotalAmt.Float64),
		})

		if row.VIN.String == "" && row.VehicleID.String == "" {
			continue
		}
		rec := syncrec.Vehicle{
			LegacyID:       row.VehicleID.String,
			VIN:            row.VIN.String,
			CustomerNumber: row.CustNo.String,
			Make:           row.VehMake.String,
			Model:          row.VehModel.String,
			Year:           int(row.VehYear.Int64),
			PlateNumber:    row.PlateNo.String,
		}
		if _, ok := seenVehicles[rec.NaturalKey()]; ok {
			continue
		}
		seenVehicles[rec.NaturalKey()] = struct{}{}
		vehicles = append(vehicles, rec)
	}
	return invoices, vehicles
}

// TransformLines maps invoice detail rows.
func TransformLines(rows []legacy.LineRow) []syncrec.InvoiceLine {
	out := make([]syncrec.InvoiceLine, 0, len(rows))
	for _, row := range rows {
		out = append(out, syncrec.InvoiceLine{
			LegacyID:      row.ID,
			InvoiceNumber: row.InvNo,
			LocationCode:  row.SiteCode.String,
			LineNumber:    row.LineNo,
			PartNumber:    row.PartNo.String,
			Description:   row.Descr.String,
			Size:          row.Size.String,
			LineType:      lineType(row.LineType.String),
			Quantity:      decimal.NewFromFloat(row.Qty.Float64),
			UnitPrice:     decimal.NewFromFloat(row.Price.Float64),
			UnitCost:      decimal.NewFromFloat(row.Cost.Float64),
			Taxable:       row.Taxable.Bool,
		})
	}
	return out
}

// TransformEmployees maps employee roster rows.
func TransformEmployees(rows []legacy.EmployeeRow) []syncrec.Employee {
	out := make([]syncrec.Employee, 0, len(rows))
	for _, row := range rows {
		out = append(out, syncrec.Employee{
			LegacyID:       row.ID,
			EmployeeNumber: row.EmpNo,
			FirstName:      row.FirstName.String,
			LastName:       row.LastName.String,
			Role:           row.Role.String,
		})
	}
	return out
}

// lineType normalizes the legacy line-type flag. The legacy column stores
// "L" or "LABOR" for labor charges and anything else for parts.
func lineType(raw string) syncrec.LineType {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "L", "LABOR", "LAB":
		return syncrec.LineTypeLabor
	default:
		return syncrec.LineTypePart
	}
}
