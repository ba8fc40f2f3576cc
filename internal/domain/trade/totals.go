package trade

import "github.com/shopspring/decimal"

// Totals holds the aggregate fields recomputed from an invoice's lines.
type Totals struct {
	Subtotal    decimal.Decimal
	TaxTotal    decimal.Decimal
	PartsTotal  decimal.Decimal
	LaborTotal  decimal.Decimal
	CostTotal   decimal.Decimal
	GrossProfit decimal.Decimal
	Total       decimal.Decimal
}

// ComputeTotals derives header aggregates strictly from the stored line
// values. The legacy source stores tax per header only, so the tax is
// re-derived from the taxable base at the configured rate. It is a pure
// function: the same lines always yield the same totals, which is what
// makes reconciliation safe to run repeatedly and in any order relative to
// line arrival.
func ComputeTotals(lines []InvoiceLine, taxRate decimal.Decimal) Totals {
	t := Totals{
		Subtotal:    decimal.Zero,
		TaxTotal:    decimal.Zero,
		PartsTotal:  decimal.Zero,
		LaborTotal:  decimal.Zero,
		CostTotal:   decimal.Zero,
		GrossProfit: decimal.Zero,
		Total:       decimal.Zero,
	}
	taxable := decimal.Zero
	for i := range lines {
		l := &lines[i]
		ext := l.ExtendedPrice()
		t.Subtotal = t.Subtotal.Add(ext)
		t.CostTotal = t.CostTotal.Add(l.ExtendedCost())
		if l.IsLabor() {
			t.LaborTotal = t.LaborTotal.Add(ext)
		} else {
			t.PartsTotal = t.PartsTotal.Add(ext)
		}
		if l.Taxable {
			taxable = taxable.Add(ext)
		}
	}
	t.TaxTotal = taxable.Mul(taxRate).Round(4)
	t.GrossProfit = t.Subtotal.Sub(t.CostTotal)
	t.Total = t.Subtotal.Add(t.TaxTotal)
	return t
}

// Equal reports whether two totals are identical field-for-field.
func (t Totals) Equal(o Totals) bool {
	return t.Subtotal.Equal(o.Subtotal) &&
		t.TaxTotal.Equal(o.TaxTotal) &&
		t.PartsTotal.Equal(o.PartsTotal) &&
		t.LaborTotal.Equal(o.LaborTotal) &&
		t.CostTotal.Equal(o.CostTotal) &&
		t.GrossProfit.Equal(o.GrossProfit) &&
		t.Total.Equal(o.Total)
}
