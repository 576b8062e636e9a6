package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/speedyvan/speedyvan-backend/api/responses"
	"github.com/speedyvan/speedyvan-backend/api/validators"
	"github.com/speedyvan/speedyvan-backend/internal/quotes"
	"github.com/speedyvan/speedyvan-backend/pkg/db/models"
	pkgerrors "github.com/speedyvan/speedyvan-backend/pkg/errors"
	"github.com/speedyvan/speedyvan-backend/pkg/logger"
)

type quoteItemRequest struct {
	Type       string `json:"type"`
	Size       string `json:"size"`
	Quantity   int    `json:"quantity" validate:"omitempty,min=1"`
	IsCustom   bool   `json:"is_custom"`
	CustomName string `json:"custom_name,omitempty"`
}

type createQuoteRequest struct {
	PickupAddress  string             `json:"pickup_address"`
	DropoffAddress string             `json:"dropoff_address"`
	DistanceKm     *float64           `json:"distance_km,omitempty"`
	Items          []quoteItemRequest `json:"items"`
	ServiceTier    string             `json:"service_tier"`
	FlexibleTime   bool               `json:"flexible_time"`
	CouponCode     string             `json:"coupon_code,omitempty"`
}

type quoteItemResponse struct {
	Type       string          `json:"type"`
	Size       string          `json:"size"`
	Quantity   int             `json:"quantity"`
	IsCustom   bool            `json:"is_custom"`
	CustomName *string         `json:"custom_name,omitempty"`
	UnitRate   decimal.Decimal `json:"unit_rate"`
	LineCost   decimal.Decimal `json:"line_cost"`
}

type quoteCouponResponse struct {
	Code     string          `json:"code"`
	Valid    bool            `json:"valid"`
	Fraction decimal.Decimal `json:"fraction"`
	Reason   string          `json:"reason,omitempty"`
}

type quoteResponse struct {
	ID               uuid.UUID            `json:"id"`
	PickupAddress    string               `json:"pickup_address"`
	DropoffAddress   string               `json:"dropoff_address"`
	DistanceKm       float64              `json:"distance_km"`
	ServiceTier      string               `json:"service_tier"`
	FlexibleTime     bool                 `json:"flexible_time"`
	CouponCode       *string              `json:"coupon_code,omitempty"`
	RateTableVersion string               `json:"rate_table_version"`
	Currency         string               `json:"currency"`
	BasePrice        decimal.Decimal      `json:"base_price"`
	DistanceCost     decimal.Decimal      `json:"distance_cost"`
	ItemCost         decimal.Decimal      `json:"item_cost"`
	WorkerCost       decimal.Decimal      `json:"worker_cost"`
	Subtotal         decimal.Decimal      `json:"subtotal"`
	DiscountApplied  decimal.Decimal      `json:"discount_applied"`
	Total            decimal.Decimal      `json:"total"`
	Items            []quoteItemResponse  `json:"items"`
	Coupon           *quoteCouponResponse `json:"coupon,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
}

func newQuoteResponse(quote *models.Quote) quoteResponse {
	resp := quoteResponse{
		ID:               quote.ID,
		PickupAddress:    quote.PickupAddress,
		DropoffAddress:   quote.DropoffAddress,
		DistanceKm:       quote.DistanceKm,
		ServiceTier:      quote.ServiceTier.String(),
		FlexibleTime:     quote.FlexibleTime,
		CouponCode:       quote.CouponCode,
		RateTableVersion: quote.RateTableVersion,
		Currency:         quote.Currency.String(),
		BasePrice:        quote.BasePrice,
		DistanceCost:     quote.DistanceCost,
		ItemCost:         quote.ItemCost,
		WorkerCost:       quote.WorkerCost,
		Subtotal:         quote.Subtotal,
		DiscountApplied:  quote.DiscountApplied,
		Total:            quote.Total,
		Items:            make([]quoteItemResponse, 0, len(quote.Items)),
		CreatedAt:        quote.CreatedAt,
	}
	for _, item := range quote.Items {
		resp.Items = append(resp.Items, quoteItemResponse{
			Type:       item.ItemType.String(),
			Size:       item.Size.String(),
			Quantity:   item.Quantity,
			IsCustom:   item.IsCustom,
			CustomName: item.CustomName,
			UnitRate:   item.UnitRate,
			LineCost:   item.LineCost,
		})
	}
	return resp
}

func mapItemInputs(items []quoteItemRequest) []quotes.ItemInput {
	inputs := make([]quotes.ItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, quotes.ItemInput{
			Type:       item.Type,
			Size:       item.Size,
			Quantity:   item.Quantity,
			IsCustom:   item.IsCustom,
			CustomName: item.CustomName,
		})
	}
	return inputs
}

// QuoteCreate prices a delivery request and persists the accepted figures.
func QuoteCreate(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		var payload createQuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.CreateQuote(ctx, quotes.CreateQuoteInput{
			PickupAddress:  payload.PickupAddress,
			DropoffAddress: payload.DropoffAddress,
			DistanceKm:     payload.DistanceKm,
			Items:          mapItemInputs(payload.Items),
			ServiceTier:    payload.ServiceTier,
			FlexibleTime:   payload.FlexibleTime,
			CouponCode:     payload.CouponCode,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		resp := newQuoteResponse(result.Quote)
		if result.Coupon.Code != "" {
			resp.Coupon = &quoteCouponResponse{
				Code:     result.Coupon.Code,
				Valid:    result.Coupon.Valid,
				Fraction: result.Coupon.Fraction,
				Reason:   result.Coupon.Reason,
			}
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, resp)
	}
}

// QuoteDetail returns a previously persisted quote by id.
func QuoteDetail(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "quoteId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid quote id"))
			return
		}

		quote, err := svc.GetQuote(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, newQuoteResponse(quote))
	}
}

type suggestTierRequest struct {
	Items []quoteItemRequest `json:"items" validate:"required,min=1"`
}

// QuoteSuggestTier recommends a service tier for the submitted cargo.
func QuoteSuggestTier(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		var payload suggestTierRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		tier, err := svc.SuggestTier(mapItemInputs(payload.Items))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"service_tier": tier.String()})
	}
}
