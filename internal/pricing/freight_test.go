package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestComputeFreightEmptyBasis(t *testing.T) {
	rule := FreightRule{Kind: FreightFlatRate, Cost: decimal.RequireFromString("9.95")}
	got := ComputeFreight(rule, FreightBasis{})
	if !got.IsZero() {
		t.Fatalf("expected zero freight for all-exempt group, got %s", got)
	}
}

func TestComputeFreightNone(t *testing.T) {
	got := ComputeFreight(FreightRule{Kind: FreightNone}, FreightBasis{Subtotal: decimal.NewFromInt(50), Qty: 2})
	if !got.IsZero() {
		t.Fatalf("expected zero freight, got %s", got)
	}
}

func TestComputeFreightFlatRate(t *testing.T) {
	rule := FreightRule{Kind: FreightFlatRate, Cost: decimal.RequireFromString("9.95")}
	got := ComputeFreight(rule, FreightBasis{Subtotal: decimal.NewFromInt(500), Qty: 7})
	if !got.Equal(decimal.RequireFromString("9.95")) {
		t.Fatalf("expected flat 9.95 regardless of quantity, got %s", got)
	}
}

func TestComputeFreightPerItem(t *testing.T) {
	rule := FreightRule{Kind: FreightPerItem, Cost: decimal.RequireFromString("2.50")}
	got := ComputeFreight(rule, FreightBasis{Subtotal: decimal.NewFromInt(100), Qty: 4})
	if !got.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected 10, got %s", got)
	}
}

func TestComputeFreightFreeOverThreshold(t *testing.T) {
	rule := FreightRule{
		Kind:      FreightFreeOverThreshold,
		Cost:      decimal.NewFromInt(10),
		Threshold: decimal.NewFromInt(99),
	}
	below := ComputeFreight(rule, FreightBasis{Subtotal: decimal.NewFromInt(50), Qty: 1})
	if !below.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected fallback 10 below threshold, got %s", below)
	}
	at := ComputeFreight(rule, FreightBasis{Subtotal: decimal.NewFromInt(99), Qty: 1})
	if !at.IsZero() {
		t.Fatalf("expected free shipping at threshold, got %s", at)
	}
	above := ComputeFreight(rule, FreightBasis{Subtotal: decimal.NewFromInt(150), Qty: 1})
	if !above.IsZero() {
		t.Fatalf("expected free shipping above threshold, got %s", above)
	}
}
