package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/speedyvan/speedyvan-backend/api/responses"
	"github.com/speedyvan/speedyvan-backend/api/validators"
	"github.com/speedyvan/speedyvan-backend/internal/coupons"
	pkgerrors "github.com/speedyvan/speedyvan-backend/pkg/errors"
	"github.com/speedyvan/speedyvan-backend/pkg/logger"
)

type validateCouponRequest struct {
	Code string `json:"code" validate:"required"`
}

type validateCouponResponse struct {
	Code     string          `json:"code"`
	Valid    bool            `json:"valid"`
	Fraction decimal.Decimal `json:"fraction"`
	Reason   string          `json:"reason,omitempty"`
}

// CouponValidate resolves a coupon code to a discount fraction. Unknown or
// exhausted codes come back valid=false rather than an error so the booking
// form can show why the discount did not apply.
func CouponValidate(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		var payload validateCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		resolution, err := svc.Validate(ctx, payload.Code)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, validateCouponResponse{
			Code:     resolution.Code,
			Valid:    resolution.Valid,
			Fraction: resolution.Fraction,
			Reason:   resolution.Reason,
		})
	}
}
