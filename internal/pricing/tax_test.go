package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestComputeTaxExclusive(t *testing.T) {
	res := ComputeTax(TaxInput{
		UnitPrice: decimal.NewFromInt(90),
		Qty:       1,
		Taxable:   true,
		Country:   "Australia",
		Rate:      decimal.NewFromInt(10),
	})
	if !res.Subtotal.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("expected subtotal 90, got %s", res.Subtotal)
	}
	if !res.Tax.Equal(decimal.NewFromInt(9)) {
		t.Fatalf("expected tax 9, got %s", res.Tax)
	}
}

func TestComputeTaxInclusiveBacksOutTax(t *testing.T) {
	res := ComputeTax(TaxInput{
		UnitPrice: decimal.NewFromInt(110),
		Qty:       2,
		Taxable:   true,
		Country:   "Australia",
		Rate:      decimal.NewFromInt(10),
		Inclusive: true,
	})
	if !res.Subtotal.Round(2).Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected subtotal 200, got %s", res.Subtotal)
	}
	if !res.Tax.Round(2).Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected tax 20, got %s", res.Tax)
	}
}

func TestComputeTaxInclusiveExclusiveEquivalence(t *testing.T) {
	rate := decimal.NewFromInt(10)
	exPrice := decimal.RequireFromString("49.95")
	incPrice := exPrice.Mul(one.Add(rate.Div(hundred)))

	exclusive := ComputeTax(TaxInput{UnitPrice: exPrice, Qty: 3, Taxable: true, Country: "Australia", Rate: rate})
	inclusive := ComputeTax(TaxInput{UnitPrice: incPrice, Qty: 3, Taxable: true, Country: "Australia", Rate: rate, Inclusive: true})

	if !exclusive.Subtotal.Round(2).Equal(inclusive.Subtotal.Round(2)) {
		t.Fatalf("subtotals diverge: exclusive %s inclusive %s", exclusive.Subtotal, inclusive.Subtotal)
	}
	if !exclusive.Tax.Round(2).Equal(inclusive.Tax.Round(2)) {
		t.Fatalf("taxes diverge: exclusive %s inclusive %s", exclusive.Tax, inclusive.Tax)
	}
}

func TestComputeTaxNonTaxableItem(t *testing.T) {
	res := ComputeTax(TaxInput{
		UnitPrice: decimal.NewFromInt(50),
		Qty:       4,
		Taxable:   false,
		Country:   "Australia",
		Rate:      decimal.NewFromInt(25),
	})
	if !res.Tax.IsZero() {
		t.Fatalf("expected zero tax, got %s", res.Tax)
	}
	if !res.Subtotal.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected subtotal 200, got %s", res.Subtotal)
	}
}

func TestComputeTaxForeignDestination(t *testing.T) {
	res := ComputeTax(TaxInput{
		UnitPrice: decimal.NewFromInt(90),
		Qty:       1,
		Taxable:   true,
		Country:   "New Zealand",
		Rate:      decimal.NewFromInt(10),
		Inclusive: true,
	})
	if !res.Tax.IsZero() {
		t.Fatalf("expected zero tax outside Australia, got %s", res.Tax)
	}
	if !res.Subtotal.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("expected full price in subtotal, got %s", res.Subtotal)
	}
}

func TestComputeTaxZeroRateShortCircuits(t *testing.T) {
	res := ComputeTax(TaxInput{
		UnitPrice: decimal.NewFromInt(90),
		Qty:       1,
		Taxable:   true,
		Country:   "Australia",
		Rate:      decimal.Zero,
		Inclusive: true,
	})
	if !res.Tax.IsZero() {
		t.Fatalf("expected zero tax, got %s", res.Tax)
	}
	if !res.Subtotal.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("expected subtotal 90, got %s", res.Subtotal)
	}
}
