package pricing

import "github.com/shopspring/decimal"

// ApplyDiscount returns the effective unit price after the product's discount.
// The result is clamped at zero and feeds every downstream step.
func ApplyDiscount(price decimal.Decimal, kind DiscountType, value decimal.Decimal) decimal.Decimal {
	switch kind {
	case DiscountPercentage:
		price = price.Mul(one.Sub(value.Div(hundred)))
	case DiscountFlatAmount:
		price = price.Sub(value)
	}
	return clampMoney(price)
}
