package config

import (
	"time"

	"barter_market/internal/domain/entity"
)

type Sync struct {
	BatchSize   int           `env:"SYNC_BATCH_SIZE" envDefault:"10" validate:"min=1"`
	Interval    time.Duration `env:"SYNC_INTERVAL" envDefault:"15m" validate:"gt=0"`
	PricePolicy string        `env:"SYNC_PRICE_POLICY" envDefault:"replace" validate:"oneof=replace append"`
	LockTTL     time.Duration `env:"SYNC_LOCK_TTL" envDefault:"30m" validate:"gt=0"`
}

func (s Sync) Policy() entity.PricePolicy {
	policy, err := entity.ParsePricePolicy(s.PricePolicy)
	if err != nil {
		return entity.PricePolicyReplace
	}
	return policy
}

type Profit struct {
	ExcludedVendor        string `env:"PROFIT_EXCLUDED_VENDOR" envDefault:"Flea Market"`
	RequireCompletePrices bool   `env:"PROFIT_REQUIRE_COMPLETE_PRICES" envDefault:"false"`
}
