package quotes

import (
	"github.com/speedyvan/speedyvan-backend/internal/pricing"
	"github.com/speedyvan/speedyvan-backend/pkg/config"
)

// ParamsFromConfig maps the configured rate-card policy onto engine params.
// The pricing package stays config-free so its arithmetic can be tested and
// reused without an environment.
func ParamsFromConfig(cfg config.PricingConfig) pricing.Params {
	return pricing.Params{
		BasePrice:            cfg.BasePrice,
		DistanceRatePerKm:    cfg.DistanceRatePerKm,
		TwoWorkerSurcharge:   cfg.TwoWorkerSurcharge,
		FlexibleTimeDiscount: cfg.FlexibleTimeDiscount,
		TierQtyThreshold:     cfg.TierQtyThreshold,
	}
}
