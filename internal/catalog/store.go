package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-pasar/internal/pricing"
)

// ErrGlobalSettingsMissing indicates the platform defaults row is absent.
var ErrGlobalSettingsMissing = errors.New("global settings not configured")

// Store is a read-only pgx-backed lookup for the records the pricing engine
// consumes. All product and variant lookups are batched; nothing is written.
type Store struct {
	Pool *pgxpool.Pool
}

const productColumns = `
	id::text,
	seller_id::text,
	base_price::text,
	discount_type,
	COALESCE(discount_value, 0)::text,
	is_taxable,
	is_shipping_exempt,
	overrides_global,
	custom_tax_rate::text,
	custom_shipping_cost::text
`

// ProductsByIDs returns the pricing view of every requested product that
// exists, keyed by id. Absent ids are simply missing from the map.
func (s *Store) ProductsByIDs(ctx context.Context, ids []string) (map[string]pricing.Product, error) {
	out := make(map[string]pricing.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := s.Pool.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			p                        pricing.Product
			basePrice, discountValue string
			discountType             string
			customTaxRate            *string
			customShippingCost       *string
		)
		if err := rows.Scan(
			&p.ID, &p.SellerID, &basePrice, &discountType, &discountValue,
			&p.IsTaxable, &p.IsShippingExempt, &p.OverridesGlobal,
			&customTaxRate, &customShippingCost,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if p.BasePrice, err = decimal.NewFromString(basePrice); err != nil {
			return nil, fmt.Errorf("product %s: parse base price: %w", p.ID, err)
		}
		if p.DiscountValue, err = decimal.NewFromString(discountValue); err != nil {
			return nil, fmt.Errorf("product %s: parse discount value: %w", p.ID, err)
		}
		p.DiscountType = pricing.DiscountType(discountType)
		if p.CustomTaxRate, err = parseOptionalDecimal(customTaxRate); err != nil {
			return nil, fmt.Errorf("product %s: parse custom tax rate: %w", p.ID, err)
		}
		if p.CustomShippingCost, err = parseOptionalDecimal(customShippingCost); err != nil {
			return nil, fmt.Errorf("product %s: parse custom shipping cost: %w", p.ID, err)
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

// VariantsByIDs returns the requested variants keyed by id.
func (s *Store) VariantsByIDs(ctx context.Context, ids []string) (map[string]pricing.Variant, error) {
	out := make(map[string]pricing.Variant, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := s.Pool.Query(ctx,
		`SELECT id::text, product_id::text, price::text FROM product_variants WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return nil, fmt.Errorf("query variants: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			v     pricing.Variant
			price string
		)
		if err := rows.Scan(&v.ID, &v.ProductID, &price); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		if v.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("variant %s: parse price: %w", v.ID, err)
		}
		out[v.ID] = v
	}
	return out, rows.Err()
}

// SellerSettings returns the override records that exist for the given
// sellers, keyed by seller id. Sellers without a record run on defaults.
func (s *Store) SellerSettings(ctx context.Context, sellerIDs []string) (map[string]pricing.SellerSettings, error) {
	out := make(map[string]pricing.SellerSettings, len(sellerIDs))
	if len(sellerIDs) == 0 {
		return out, nil
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT
			seller_id::text,
			tax_rate::text,
			freight_kind,
			COALESCE(freight_cost, 0)::text,
			COALESCE(free_shipping_threshold, 0)::text,
			overrides_global_tax,
			overrides_global_shipping,
			tax_inclusive_pricing
		FROM seller_settings
		WHERE seller_id = ANY($1::uuid[])`, sellerIDs)
	if err != nil {
		return nil, fmt.Errorf("query seller settings: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			ss                       pricing.SellerSettings
			taxRate, cost, threshold string
			kind                     string
		)
		if err := rows.Scan(
			&ss.SellerID, &taxRate, &kind, &cost, &threshold,
			&ss.OverridesGlobalTax, &ss.OverridesGlobalShipping, &ss.TaxInclusivePricing,
		); err != nil {
			return nil, fmt.Errorf("scan seller settings: %w", err)
		}
		if ss.TaxRate, err = decimal.NewFromString(taxRate); err != nil {
			return nil, fmt.Errorf("seller %s: parse tax rate: %w", ss.SellerID, err)
		}
		rule := pricing.FreightRule{Kind: pricing.FreightKind(kind)}
		if rule.Cost, err = decimal.NewFromString(cost); err != nil {
			return nil, fmt.Errorf("seller %s: parse freight cost: %w", ss.SellerID, err)
		}
		if rule.Threshold, err = decimal.NewFromString(threshold); err != nil {
			return nil, fmt.Errorf("seller %s: parse freight threshold: %w", ss.SellerID, err)
		}
		ss.Freight = rule
		out[ss.SellerID] = ss
	}
	return out, rows.Err()
}

// GlobalSettings loads the platform defaults singleton. The engine treats the
// returned value as an immutable snapshot for one calculation.
func (s *Store) GlobalSettings(ctx context.Context) (pricing.GlobalSettings, error) {
	var (
		g                            pricing.GlobalSettings
		taxRate, shipping, threshold string
	)
	err := s.Pool.QueryRow(ctx, `
		SELECT
			default_tax_rate::text,
			default_shipping_cost::text,
			COALESCE(free_shipping_threshold, 0)::text,
			apply_tax_to_shipping
		FROM global_settings
		ORDER BY updated_at DESC
		LIMIT 1`).Scan(&taxRate, &shipping, &threshold, &g.ApplyTaxToShipping)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return g, ErrGlobalSettingsMissing
		}
		return g, fmt.Errorf("query global settings: %w", err)
	}
	if g.DefaultTaxRate, err = decimal.NewFromString(taxRate); err != nil {
		return g, fmt.Errorf("parse default tax rate: %w", err)
	}
	if g.DefaultShippingCost, err = decimal.NewFromString(shipping); err != nil {
		return g, fmt.Errorf("parse default shipping cost: %w", err)
	}
	if g.FreeShippingThreshold, err = decimal.NewFromString(threshold); err != nil {
		return g, fmt.Errorf("parse free shipping threshold: %w", err)
	}
	return g, nil
}

func parseOptionalDecimal(value *string) (*decimal.Decimal, error) {
	if value == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
