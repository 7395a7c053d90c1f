package pricing

import "github.com/shopspring/decimal"

// FreightBasis accumulates the non-shipping-exempt portion of a seller group.
type FreightBasis struct {
	Subtotal decimal.Decimal
	Qty      int
}

// ComputeFreight charges freight once per seller over the non-exempt basis.
// An empty basis means every line in the group was shipping-exempt, so the
// seller ships nothing and pays nothing regardless of rule.
func ComputeFreight(rule FreightRule, basis FreightBasis) decimal.Decimal {
	if basis.Qty <= 0 {
		return zero
	}
	switch rule.Kind {
	case FreightFlatRate:
		return clampMoney(rule.Cost)
	case FreightPerItem:
		return clampMoney(rule.Cost.Mul(decimal.NewFromInt(int64(basis.Qty))))
	case FreightFreeOverThreshold:
		if basis.Subtotal.Cmp(rule.Threshold) >= 0 {
			return zero
		}
		return clampMoney(rule.Cost)
	}
	return zero
}
