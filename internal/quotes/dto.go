package quotes

import (
	"github.com/speedyvan/speedyvan-backend/internal/coupons"
	"github.com/speedyvan/speedyvan-backend/pkg/db/models"
)

// ItemInput is one cargo line as submitted by a caller. Rows with an empty
// type or size are tolerated and priced at zero, mirroring a half-filled
// booking form.
type ItemInput struct {
	Type       string
	Size       string
	Quantity   int
	IsCustom   bool
	CustomName string
}

// CreateQuoteInput carries everything needed to price and persist a quote.
// DistanceKm, when set, bypasses address resolution; otherwise both addresses
// are required and the distance comes from the route provider.
type CreateQuoteInput struct {
	PickupAddress  string
	DropoffAddress string
	DistanceKm     *float64
	Items          []ItemInput
	ServiceTier    string
	FlexibleTime   bool
	CouponCode     string
}

// QuoteResult pairs the persisted record with the coupon resolution so the
// API can report why a submitted code did or did not discount the price.
type QuoteResult struct {
	Quote  *models.Quote
	Coupon coupons.Resolution
}
