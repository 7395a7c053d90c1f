package pricing

import "github.com/shopspring/decimal"

// Resolved is the effective tax and freight baseline for one seller group,
// computed once per seller rather than per line.
type Resolved struct {
	TaxRate      decimal.Decimal
	Freight      FreightRule
	TaxInclusive bool
}

// ResolveSeller merges a seller's override record with the platform defaults.
// A nil settings pointer behaves as an all-default record.
func ResolveSeller(settings *SellerSettings, global GlobalSettings) Resolved {
	out := Resolved{
		TaxRate: global.DefaultTaxRate,
		Freight: FreightRule{Kind: FreightFlatRate, Cost: global.DefaultShippingCost},
	}
	if settings == nil {
		return out
	}
	if settings.OverridesGlobalTax {
		out.TaxRate = settings.TaxRate
	}
	if settings.OverridesGlobalShipping {
		out.Freight = settings.Freight
	}
	out.TaxInclusive = settings.TaxInclusivePricing
	return out
}

// LineTaxRate applies the product-level override on top of the seller
// baseline. Only tax has a product-level override point; freight does not.
// The asymmetry is inherited from the settings model and is intentional here;
// do not add a product freight hook without revisiting that model.
func LineTaxRate(p Product, baseline Resolved) decimal.Decimal {
	if p.OverridesGlobal && p.CustomTaxRate != nil {
		return *p.CustomTaxRate
	}
	return baseline.TaxRate
}
