package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestApplyDiscountPercentage(t *testing.T) {
	got := ApplyDiscount(decimal.NewFromInt(100), DiscountPercentage, decimal.NewFromInt(10))
	if !got.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("expected 90, got %s", got)
	}
}

func TestApplyDiscountFlatAmount(t *testing.T) {
	got := ApplyDiscount(decimal.NewFromInt(100), DiscountFlatAmount, decimal.RequireFromString("12.50"))
	if !got.Equal(decimal.RequireFromString("87.5")) {
		t.Fatalf("expected 87.5, got %s", got)
	}
}

func TestApplyDiscountNone(t *testing.T) {
	price := decimal.RequireFromString("49.99")
	got := ApplyDiscount(price, DiscountNone, decimal.NewFromInt(50))
	if !got.Equal(price) {
		t.Fatalf("expected price unchanged, got %s", got)
	}
}

func TestApplyDiscountClampsAtZero(t *testing.T) {
	got := ApplyDiscount(decimal.NewFromInt(10), DiscountFlatAmount, decimal.NewFromInt(25))
	if !got.IsZero() {
		t.Fatalf("expected 0, got %s", got)
	}
	got = ApplyDiscount(decimal.NewFromInt(10), DiscountPercentage, decimal.NewFromInt(150))
	if !got.IsZero() {
		t.Fatalf("expected 0 for >100%% discount, got %s", got)
	}
}
