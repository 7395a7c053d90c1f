package pricing

import "github.com/shopspring/decimal"

// taxableCountry is the only destination where tax currently applies.
const taxableCountry = "Australia"

// TaxInput carries everything needed to tax one line.
type TaxInput struct {
	UnitPrice decimal.Decimal
	Qty       int
	Taxable   bool
	Country   string
	Rate      decimal.Decimal
	Inclusive bool
}

// TaxResult is a line's contribution to the seller subtotal and tax.
type TaxResult struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
}

// TaxApplies reports whether the destination country is taxed at all.
func TaxApplies(country string) bool {
	return country == taxableCountry
}

// ComputeTax determines one line's subtotal and tax contributions. In
// inclusive mode the listed price already contains tax, so the tax-free price
// is backed out; the subtotal never carries tax in either mode.
func ComputeTax(in TaxInput) TaxResult {
	qty := decimal.NewFromInt(int64(in.Qty))
	gross := in.UnitPrice.Mul(qty)

	if !in.Taxable || !TaxApplies(in.Country) || in.Rate.IsZero() {
		return TaxResult{Subtotal: gross, Tax: zero}
	}

	if !in.Inclusive {
		tax := gross.Mul(in.Rate.Div(hundred))
		return TaxResult{Subtotal: gross, Tax: clampMoney(tax)}
	}

	exTax := in.UnitPrice.Div(one.Add(in.Rate.Div(hundred)))
	included := in.UnitPrice.Sub(exTax)
	return TaxResult{
		Subtotal: clampMoney(exTax.Mul(qty)),
		Tax:      clampMoney(included.Mul(qty)),
	}
}
