package bootstrap

import (
	"fmt"
	"time"

	"github.com/Domenick1991/paraglide/config"
	"github.com/Domenick1991/paraglide/internal/catalog"
	"github.com/Domenick1991/paraglide/internal/flow"
	"github.com/Domenick1991/paraglide/internal/pricing"
)

// Engine is the pricing and flow core built from configuration.
type Engine struct {
	Catalog    *catalog.Catalog
	Calculator *pricing.Calculator
	Gates      *flow.Gates
}

func NewEngine(cfg *config.Config, now func() time.Time) (*Engine, error) {
	cat, err := catalog.FromConfig(cfg.Catalog)
	if err != nil {
		return nil, err
	}
	discounts, err := pricing.DiscountTableFromConfig(cfg.Catalog.Discounts)
	if err != nil {
		return nil, err
	}
	converter, err := pricing.NewConverter(cfg.Catalog.VNDPerUSD)
	if err != nil {
		return nil, err
	}

	tz := cfg.Booking.Timezone
	if tz == "" {
		tz = "Asia/Ho_Chi_Minh"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", tz, err)
	}

	return &Engine{
		Catalog:    cat,
		Calculator: pricing.NewCalculator(cat, discounts, converter),
		Gates:      flow.NewGates(cat, loc, now),
	}, nil
}
