package pricing

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/speedyvan/speedyvan-backend/pkg/enums"
	pkgerrors "github.com/speedyvan/speedyvan-backend/pkg/errors"
)

const maxCustomNameLen = 50

// ItemSelection is one line of cargo to move. Lines missing either the type
// or the size are treated as incomplete form rows: they price at zero and do
// not fail the quote.
type ItemSelection struct {
	ItemType   enums.ItemType
	Size       enums.ItemSize
	Quantity   int
	IsCustom   bool
	CustomName string
}

func (i ItemSelection) complete() bool {
	return i.ItemType != "" && i.Size != ""
}

// QuoteRequest is the full input to a price computation. CouponFraction is
// resolved by the coupons service before the engine runs; zero means no
// coupon.
type QuoteRequest struct {
	DistanceKm     float64
	Items          []ItemSelection
	ServiceTier    enums.ServiceTier
	FlexibleTime   bool
	CouponFraction decimal.Decimal
}

// QuoteBreakdown itemizes a computed price. Total carries the only rounding
// in the pipeline (2 dp, half up) so displayed and charged amounts cannot
// drift; the other components are exact.
type QuoteBreakdown struct {
	BasePrice       decimal.Decimal
	DistanceCost    decimal.Decimal
	ItemCost        decimal.Decimal
	WorkerCost      decimal.Decimal
	Subtotal        decimal.Decimal
	DiscountApplied decimal.Decimal
	Total           decimal.Decimal
}

// Params are the policy constants of the rate card that sit outside the
// per-item table.
type Params struct {
	BasePrice            decimal.Decimal
	DistanceRatePerKm    decimal.Decimal
	TwoWorkerSurcharge   decimal.Decimal
	FlexibleTimeDiscount decimal.Decimal
	TierQtyThreshold     int
}

// DefaultParams returns the production policy constants.
func DefaultParams() Params {
	return Params{
		BasePrice:            decimal.NewFromInt(20),
		DistanceRatePerKm:    decimal.RequireFromString("0.5"),
		TwoWorkerSurcharge:   decimal.NewFromInt(20),
		FlexibleTimeDiscount: decimal.RequireFromString("0.05"),
		TierQtyThreshold:     5,
	}
}

// Engine computes quotes from a rate table and policy params. It holds no
// mutable state and performs no I/O, so a single instance may be shared by
// any number of goroutines.
type Engine struct {
	table  RateTable
	params Params
}

// NewEngine builds an engine. The table and params are injected so the same
// arithmetic serves the web form, the chat flow and any future channel.
func NewEngine(table RateTable, params Params) (*Engine, error) {
	if params.DistanceRatePerKm.Sign() <= 0 {
		return nil, fmt.Errorf("distance rate per km must be positive")
	}
	if params.FlexibleTimeDiscount.Sign() < 0 || params.FlexibleTimeDiscount.Cmp(one) >= 0 {
		return nil, fmt.Errorf("flexible time discount must be in [0, 1)")
	}
	if params.TierQtyThreshold < 1 {
		return nil, fmt.Errorf("tier quantity threshold must be at least 1")
	}
	return &Engine{table: table, params: params}, nil
}

// Table exposes the rate table in use.
func (e *Engine) Table() RateTable {
	return e.table
}

var one = decimal.NewFromInt(1)

// ComputeQuote prices a delivery request. It is deterministic and free of
// side effects; repeated calls with the same request return identical
// breakdowns.
//
// Discount composition is sequential-multiplicative: the flexible-time
// discount is applied to the subtotal first, the coupon fraction second.
// total = subtotal × (1 − flex) × (1 − coupon), which is NOT the same as
// subtotal × (1 − flex − coupon); the combined effective fraction is
// reported in DiscountApplied.
func (e *Engine) ComputeQuote(req QuoteRequest) (QuoteBreakdown, error) {
	if math.IsNaN(req.DistanceKm) || math.IsInf(req.DistanceKm, 0) {
		return QuoteBreakdown{}, pkgerrors.New(pkgerrors.CodeInvalidDistance, "distance must be a finite number").
			WithDetails(map[string]any{"distance_km": fmt.Sprint(req.DistanceKm)})
	}
	if req.DistanceKm <= 0 {
		return QuoteBreakdown{}, pkgerrors.New(pkgerrors.CodeInvalidDistance, "distance must be greater than zero").
			WithDetails(map[string]any{"distance_km": req.DistanceKm})
	}

	coupon := req.CouponFraction
	if coupon.Sign() < 0 || coupon.Cmp(one) >= 0 {
		return QuoteBreakdown{}, pkgerrors.New(pkgerrors.CodeInvalidCouponFraction, "coupon fraction must be in [0, 1)").
			WithDetails(map[string]any{"fraction": coupon.String()})
	}

	tier := req.ServiceTier
	if tier == "" {
		tier = enums.ServiceTierSingleWorker
	}
	if !tier.IsValid() {
		return QuoteBreakdown{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid service tier %q", req.ServiceTier))
	}

	itemCost := decimal.Zero
	for _, item := range req.Items {
		if !item.complete() {
			continue
		}
		if item.Quantity < 1 {
			return QuoteBreakdown{}, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
		if item.IsCustom && !validCustomName(item.CustomName) {
			return QuoteBreakdown{}, pkgerrors.New(pkgerrors.CodeValidation, "custom items need a name of at most 50 characters")
		}
		rate := e.table.UnitRate(item.ItemType, item.Size, item.IsCustom)
		itemCost = itemCost.Add(rate.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	basePrice := e.params.BasePrice
	distanceCost := decimal.NewFromFloat(req.DistanceKm).Mul(e.params.DistanceRatePerKm)

	workerCost := decimal.Zero
	if tier == enums.ServiceTierTwoWorker {
		workerCost = e.params.TwoWorkerSurcharge
	}

	subtotal := basePrice.Add(distanceCost).Add(itemCost).Add(workerCost)

	flex := decimal.Zero
	if req.FlexibleTime {
		flex = e.params.FlexibleTimeDiscount
	}

	remaining := one.Sub(flex).Mul(one.Sub(coupon))
	total := subtotal.Mul(remaining).Round(2)

	if total.Sign() <= 0 {
		return QuoteBreakdown{}, pkgerrors.New(pkgerrors.CodeInvalidQuote, "computed total is not chargeable").
			WithDetails(map[string]any{"total": total.String()})
	}

	return QuoteBreakdown{
		BasePrice:       basePrice,
		DistanceCost:    distanceCost,
		ItemCost:        itemCost,
		WorkerCost:      workerCost,
		Subtotal:        subtotal,
		DiscountApplied: one.Sub(remaining),
		Total:           total,
	}, nil
}

func validCustomName(name string) bool {
	return name != "" && len(name) <= maxCustomNameLen
}
