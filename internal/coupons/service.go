package coupons

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	pkgerrors "github.com/speedyvan/speedyvan-backend/pkg/errors"
)

// Resolution is the outcome of checking a coupon code. An unknown, inactive,
// or exhausted coupon is a valid "no discount" answer, not an error; only a
// stored fraction outside [0, 1) is an error.
type Resolution struct {
	Code     string
	Valid    bool
	Fraction decimal.Decimal
	Reason   string
}

// Service resolves coupon codes to discount fractions.
type Service interface {
	Validate(ctx context.Context, code string) (Resolution, error)
	Redeem(ctx context.Context, tx *gorm.DB, code string) error
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds the coupon service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupons repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

var one = decimal.NewFromInt(1)

func (s *service) Validate(ctx context.Context, code string) (Resolution, error) {
	normalized := normalizeCode(code)
	if normalized == "" {
		return Resolution{}, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}

	coupon, err := s.repo.FindByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Resolution{Code: normalized, Reason: "unknown code"}, nil
		}
		return Resolution{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}

	if coupon.DiscountFraction.Sign() < 0 || coupon.DiscountFraction.Cmp(one) >= 0 {
		return Resolution{}, pkgerrors.New(pkgerrors.CodeInvalidCouponFraction, "coupon discount out of range").
			WithDetails(map[string]any{"code": normalized})
	}

	now := s.now()
	switch {
	case !coupon.Active:
		return Resolution{Code: normalized, Reason: "inactive"}, nil
	case coupon.ValidFrom != nil && now.Before(*coupon.ValidFrom):
		return Resolution{Code: normalized, Reason: "not yet valid"}, nil
	case coupon.ValidUntil != nil && now.After(*coupon.ValidUntil):
		return Resolution{Code: normalized, Reason: "expired"}, nil
	case coupon.MaxRedemptions != nil && coupon.Redemptions >= *coupon.MaxRedemptions:
		return Resolution{Code: normalized, Reason: "redemption limit reached"}, nil
	}

	return Resolution{
		Code:     normalized,
		Valid:    true,
		Fraction: coupon.DiscountFraction,
	}, nil
}

// Redeem bumps the redemption counter inside the caller's transaction. The
// cap is re-checked at the UPDATE itself, not just at quote time: a booking
// confirmed long after quoting, or two bookings racing for the last slot,
// must not push past the limit. An exhausted cap is a conflict so the
// caller's transaction rolls back; an unknown code stays a no-op.
func (s *service) Redeem(ctx context.Context, tx *gorm.DB, code string) error {
	normalized := normalizeCode(code)
	if normalized == "" {
		return nil
	}
	repo := s.repo
	if tx != nil {
		repo = s.repo.WithTx(tx)
	}
	affected, err := repo.IncrementRedemptions(ctx, normalized)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redeem coupon")
	}
	if affected == 0 {
		if _, findErr := repo.FindByCode(ctx, normalized); findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, findErr, "redeem coupon")
		}
		return pkgerrors.New(pkgerrors.CodeConflict, "coupon redemption limit reached").
			WithDetails(map[string]any{"code": normalized})
	}
	return nil
}
