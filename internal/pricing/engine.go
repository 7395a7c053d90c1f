package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidInput is returned when the quote request itself is malformed.
var ErrInvalidInput = errors.New("invalid input")

// ErrProductNotFound indicates a cart line references an unknown product.
var ErrProductNotFound = errors.New("product not found")

// ErrVariantNotFound indicates a cart line references an unknown variant.
var ErrVariantNotFound = errors.New("variant not found")

// Store is the read-only catalog lookup the engine depends on. Lookups may be
// batched or parallelized freely; nothing is ever written.
type Store interface {
	ProductsByIDs(ctx context.Context, ids []string) (map[string]Product, error)
	VariantsByIDs(ctx context.Context, ids []string) (map[string]Variant, error)
	SellerSettings(ctx context.Context, sellerIDs []string) (map[string]SellerSettings, error)
	GlobalSettings(ctx context.Context) (GlobalSettings, error)
}

// QuoteRequest is the input to a totals calculation.
type QuoteRequest struct {
	Lines   []CartLine
	Address ShippingAddress
}

// Engine computes order totals across seller groups. It holds no state
// between invocations; every quote is a pure function of the request plus the
// snapshot it fetches.
type Engine struct {
	Store Store
}

// sellerGroup accumulates one seller's share of the cart.
type sellerGroup struct {
	sellerID string
	lines    []CartLine
}

// Quote validates the request, batch-fetches the backing records, and drives
// the resolver, discount, tax, and freight steps per seller group. Any
// missing product or failed lookup aborts the whole calculation; partial
// totals are never returned.
func (e *Engine) Quote(ctx context.Context, req QuoteRequest) (Totals, error) {
	if e == nil || e.Store == nil {
		return Totals{}, errors.New("pricing engine not configured")
	}
	if err := validate(req); err != nil {
		return Totals{}, err
	}

	snap, err := e.fetch(ctx, req)
	if err != nil {
		return Totals{}, err
	}

	groups := groupBySeller(req.Lines, snap.products)

	var subtotal, totalTax, totalFreight decimal.Decimal
	lines := make([]LineBreakdown, 0, len(req.Lines))

	for _, group := range groups {
		var settings *SellerSettings
		if s, ok := snap.sellers[group.sellerID]; ok {
			sCopy := s
			settings = &sCopy
		}
		baseline := ResolveSeller(settings, snap.global)
		if baseline.TaxRate.IsNegative() {
			return Totals{}, fmt.Errorf("seller %s: negative tax rate: %w", group.sellerID, ErrInvalidInput)
		}

		var groupSubtotal, groupTax decimal.Decimal
		var basis FreightBasis

		for _, line := range group.lines {
			product := snap.products[line.ProductID]
			unitPrice, err := resolveUnitPrice(line, product, snap.variants)
			if err != nil {
				return Totals{}, err
			}
			effective := ApplyDiscount(unitPrice, product.DiscountType, product.DiscountValue)

			rate := LineTaxRate(product, baseline)
			if rate.IsNegative() {
				return Totals{}, fmt.Errorf("product %s: negative tax rate: %w", product.ID, ErrInvalidInput)
			}
			res := ComputeTax(TaxInput{
				UnitPrice: effective,
				Qty:       line.Qty,
				Taxable:   product.IsTaxable,
				Country:   req.Address.Country,
				Rate:      rate,
				Inclusive: baseline.TaxInclusive,
			})
			groupSubtotal = groupSubtotal.Add(res.Subtotal)
			groupTax = groupTax.Add(res.Tax)

			if !product.IsShippingExempt {
				basis.Subtotal = basis.Subtotal.Add(res.Subtotal)
				basis.Qty += line.Qty
			}

			lines = append(lines, LineBreakdown{
				ProductID: product.ID,
				SellerID:  group.sellerID,
				Qty:       line.Qty,
				UnitPrice: effective.Round(2),
				Subtotal:  res.Subtotal.Round(2),
				Tax:       res.Tax.Round(2),
			})
		}

		freight := ComputeFreight(baseline.Freight, basis)
		if snap.global.ApplyTaxToShipping && freight.IsPositive() && TaxApplies(req.Address.Country) {
			// Freight tax joins totalTax, never totalFreight.
			groupTax = groupTax.Add(freight.Mul(baseline.TaxRate.Div(hundred)))
		}

		subtotal = subtotal.Add(groupSubtotal)
		totalTax = totalTax.Add(groupTax)
		totalFreight = totalFreight.Add(freight)
	}

	// Intermediate arithmetic runs at full precision; rounding happens once
	// here, and the grand total sums the rounded components so the
	// subtotal+tax+freight invariant holds exactly.
	out := Totals{
		Subtotal:     subtotal.Round(2),
		TotalTax:     totalTax.Round(2),
		TotalFreight: totalFreight.Round(2),
		Lines:        lines,
	}
	out.GrandTotal = out.Subtotal.Add(out.TotalTax).Add(out.TotalFreight)
	return out, nil
}

func validate(req QuoteRequest) error {
	if len(req.Lines) == 0 {
		return fmt.Errorf("cart is empty: %w", ErrInvalidInput)
	}
	for _, line := range req.Lines {
		if line.ProductID == "" {
			return fmt.Errorf("product id required: %w", ErrInvalidInput)
		}
		if line.Qty < 1 {
			return fmt.Errorf("product %s: quantity must be positive: %w", line.ProductID, ErrInvalidInput)
		}
	}
	if req.Address.Country == "" {
		return fmt.Errorf("shipping country required: %w", ErrInvalidInput)
	}
	return nil
}

// snapshot is the read-only data a single quote runs against.
type snapshot struct {
	products map[string]Product
	variants map[string]Variant
	sellers  map[string]SellerSettings
	global   GlobalSettings
}

// fetch batch-loads every referenced record up front. Products, variants, and
// global settings load in parallel; seller settings need the product rows
// first to know which sellers are involved.
func (e *Engine) fetch(ctx context.Context, req QuoteRequest) (snapshot, error) {
	productIDs := make([]string, 0, len(req.Lines))
	var variantIDs []string
	seenProducts := map[string]bool{}
	seenVariants := map[string]bool{}
	for _, line := range req.Lines {
		if !seenProducts[line.ProductID] {
			seenProducts[line.ProductID] = true
			productIDs = append(productIDs, line.ProductID)
		}
		if line.VariantID != nil && *line.VariantID != "" && !seenVariants[*line.VariantID] {
			seenVariants[*line.VariantID] = true
			variantIDs = append(variantIDs, *line.VariantID)
		}
	}

	var snap snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products, err := e.Store.ProductsByIDs(gctx, productIDs)
		if err != nil {
			return fmt.Errorf("load products: %w", err)
		}
		snap.products = products
		return nil
	})
	g.Go(func() error {
		if len(variantIDs) == 0 {
			snap.variants = map[string]Variant{}
			return nil
		}
		variants, err := e.Store.VariantsByIDs(gctx, variantIDs)
		if err != nil {
			return fmt.Errorf("load variants: %w", err)
		}
		snap.variants = variants
		return nil
	})
	g.Go(func() error {
		global, err := e.Store.GlobalSettings(gctx)
		if err != nil {
			return fmt.Errorf("load global settings: %w", err)
		}
		snap.global = global
		return nil
	})
	if err := g.Wait(); err != nil {
		return snapshot{}, err
	}

	for _, id := range productIDs {
		if _, ok := snap.products[id]; !ok {
			return snapshot{}, fmt.Errorf("product %s: %w", id, ErrProductNotFound)
		}
	}

	sellerIDs := make([]string, 0, len(snap.products))
	seenSellers := map[string]bool{}
	for _, id := range productIDs {
		sellerID := snap.products[id].SellerID
		if sellerID == "" {
			return snapshot{}, fmt.Errorf("product %s has no seller", id)
		}
		if !seenSellers[sellerID] {
			seenSellers[sellerID] = true
			sellerIDs = append(sellerIDs, sellerID)
		}
	}
	sellers, err := e.Store.SellerSettings(ctx, sellerIDs)
	if err != nil {
		return snapshot{}, fmt.Errorf("load seller settings: %w", err)
	}
	snap.sellers = sellers
	return snap, nil
}

// groupBySeller partitions cart lines into seller groups, preserving the
// order sellers first appear in the cart.
func groupBySeller(cartLines []CartLine, products map[string]Product) []sellerGroup {
	index := map[string]int{}
	groups := make([]sellerGroup, 0, 4)
	for _, line := range cartLines {
		sellerID := products[line.ProductID].SellerID
		i, ok := index[sellerID]
		if !ok {
			i = len(groups)
			index[sellerID] = i
			groups = append(groups, sellerGroup{sellerID: sellerID})
		}
		groups[i].lines = append(groups[i].lines, line)
	}
	return groups
}

func resolveUnitPrice(line CartLine, product Product, variants map[string]Variant) (decimal.Decimal, error) {
	if line.VariantID == nil || *line.VariantID == "" {
		return product.BasePrice, nil
	}
	variant, ok := variants[*line.VariantID]
	if !ok {
		return zero, fmt.Errorf("variant %s: %w", *line.VariantID, ErrVariantNotFound)
	}
	if variant.ProductID != product.ID {
		return zero, fmt.Errorf("variant %s does not belong to product %s: %w", variant.ID, product.ID, ErrInvalidInput)
	}
	return variant.Price, nil
}
