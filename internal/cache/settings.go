package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-pasar/internal/pricing"
)

const globalSettingsKey = "settings:global"

// Settings caches the platform defaults row in Redis so each quote does not
// re-read it from Postgres. The wrapped store stays the source of truth; any
// cache failure falls through to it.
type Settings struct {
	pricing.Store
	R   *redis.Client
	TTL time.Duration
}

type cachedGlobal struct {
	DefaultTaxRate        decimal.Decimal `json:"defaultTaxRate"`
	DefaultShippingCost   decimal.Decimal `json:"defaultShippingCost"`
	FreeShippingThreshold decimal.Decimal `json:"freeShippingThreshold"`
	ApplyTaxToShipping    bool            `json:"applyTaxToShipping"`
}

// GlobalSettings serves the defaults from Redis when present, refilling the
// cache after a database read.
func (s Settings) GlobalSettings(ctx context.Context) (pricing.GlobalSettings, error) {
	if s.R != nil {
		if raw, err := s.R.Get(ctx, globalSettingsKey).Bytes(); err == nil {
			var c cachedGlobal
			if json.Unmarshal(raw, &c) == nil {
				return pricing.GlobalSettings{
					DefaultTaxRate:        c.DefaultTaxRate,
					DefaultShippingCost:   c.DefaultShippingCost,
					FreeShippingThreshold: c.FreeShippingThreshold,
					ApplyTaxToShipping:    c.ApplyTaxToShipping,
				}, nil
			}
			// corrupt entry: drop it and fall through
			_ = s.R.Del(ctx, globalSettingsKey).Err()
		}
	}

	global, err := s.Store.GlobalSettings(ctx)
	if err != nil {
		return global, err
	}

	if s.R != nil {
		raw, err := json.Marshal(cachedGlobal{
			DefaultTaxRate:        global.DefaultTaxRate,
			DefaultShippingCost:   global.DefaultShippingCost,
			FreeShippingThreshold: global.FreeShippingThreshold,
			ApplyTaxToShipping:    global.ApplyTaxToShipping,
		})
		if err == nil {
			_ = s.R.Set(ctx, globalSettingsKey, raw, s.ttl()).Err()
		}
	}
	return global, nil
}

// Invalidate drops the cached defaults, forcing the next quote to re-read.
func (s Settings) Invalidate(ctx context.Context) error {
	if s.R == nil {
		return nil
	}
	return s.R.Del(ctx, globalSettingsKey).Err()
}

func (s Settings) ttl() time.Duration {
	if s.TTL <= 0 {
		return time.Minute
	}
	return s.TTL
}
