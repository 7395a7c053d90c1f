package pricing

import "github.com/shopspring/decimal"

// DiscountType enumerates the discount shapes a product can carry.
type DiscountType string

const (
	DiscountNone       DiscountType = "none"
	DiscountPercentage DiscountType = "percentage"
	DiscountFlatAmount DiscountType = "flatAmount"
)

// FreightKind enumerates seller freight policies.
type FreightKind string

const (
	FreightNone              FreightKind = "none"
	FreightFlatRate          FreightKind = "flat_rate"
	FreightPerItem           FreightKind = "per_item"
	FreightFreeOverThreshold FreightKind = "free_over_threshold"
)

// FreightRule is a tagged freight policy. Cost doubles as the flat rate,
// per-item rate, or below-threshold fallback depending on Kind; Threshold is
// only meaningful for FreightFreeOverThreshold.
type FreightRule struct {
	Kind      FreightKind
	Cost      decimal.Decimal
	Threshold decimal.Decimal
}

// CartLine is one requested line of a quote. Ephemeral input, never persisted.
type CartLine struct {
	ProductID string
	VariantID *string
	Qty       int
}

// Product carries the pricing-relevant subset of a catalog product.
type Product struct {
	ID                 string
	SellerID           string
	BasePrice          decimal.Decimal
	DiscountType       DiscountType
	DiscountValue      decimal.Decimal
	IsTaxable          bool
	IsShippingExempt   bool
	OverridesGlobal    bool
	CustomTaxRate      *decimal.Decimal
	CustomShippingCost *decimal.Decimal
}

// Variant overrides a product's base price for a specific line.
type Variant struct {
	ID        string
	ProductID string
	Price     decimal.Decimal
}

// SellerSettings holds a seller's override record. Absence of a record means
// the seller runs entirely on platform defaults.
type SellerSettings struct {
	SellerID                string
	TaxRate                 decimal.Decimal
	Freight                 FreightRule
	OverridesGlobalTax      bool
	OverridesGlobalShipping bool
	TaxInclusivePricing     bool
}

// GlobalSettings is the platform-wide defaults record, loaded once per quote
// and treated as an immutable snapshot for the whole calculation.
type GlobalSettings struct {
	DefaultTaxRate        decimal.Decimal
	DefaultShippingCost   decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	ApplyTaxToShipping    bool
}

// ShippingAddress is the destination for a quote. Only Country gates tax.
type ShippingAddress struct {
	Country  string
	State    string
	Postcode string
}

// LineBreakdown reports per-line amounts for auditing. Values are rounded to
// two decimal places.
type LineBreakdown struct {
	ProductID string          `json:"productId"`
	SellerID  string          `json:"sellerId"`
	Qty       int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
}

// Totals is the aggregate result of a quote. All values are rounded to two
// decimal places and GrandTotal is exactly Subtotal + TotalTax + TotalFreight.
type Totals struct {
	Subtotal     decimal.Decimal
	TotalTax     decimal.Decimal
	TotalFreight decimal.Decimal
	GrandTotal   decimal.Decimal
	Lines        []LineBreakdown
}

var (
	zero    = decimal.Zero
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// clampMoney guards against negative money values produced by pathological
// discounts or rates. Silent correction, not an error.
func clampMoney(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return zero
	}
	return d
}
