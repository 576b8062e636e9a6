package coupons

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/speedyvan/speedyvan-backend/pkg/db/models"
	pkgerrors "github.com/speedyvan/speedyvan-backend/pkg/errors"
)

type stubCouponRepo struct {
	coupons   map[string]*models.Coupon
	findErr   error
	redeemed  []string
	redeemErr error
}

func (s *stubCouponRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubCouponRepo) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	coupon, ok := s.coupons[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return coupon, nil
}

func (s *stubCouponRepo) IncrementRedemptions(ctx context.Context, code string) (int64, error) {
	if s.redeemErr != nil {
		return 0, s.redeemErr
	}
	coupon, ok := s.coupons[code]
	if !ok {
		return 0, nil
	}
	if coupon.MaxRedemptions != nil && coupon.Redemptions >= *coupon.MaxRedemptions {
		return 0, nil
	}
	coupon.Redemptions++
	s.redeemed = append(s.redeemed, code)
	return 1, nil
}

func newCouponService(t *testing.T, repo Repository, at time.Time) *service {
	t.Helper()
	svc, err := NewService(repo)
	require.NoError(t, err)
	impl := svc.(*service)
	impl.now = func() time.Time { return at }
	return impl
}

func TestValidateReturnsFractionForActiveCoupon(t *testing.T) {
	repo := &stubCouponRepo{coupons: map[string]*models.Coupon{
		"WELCOME10": {Code: "WELCOME10", DiscountFraction: decimal.RequireFromString("0.1"), Active: true},
	}}
	svc := newCouponService(t, repo, time.Now())

	res, err := svc.Validate(context.Background(), "welcome10")
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.True(t, res.Fraction.Equal(decimal.RequireFromString("0.1")))
	assert.Equal(t, "WELCOME10", res.Code)
}

func TestValidateUnknownCodeIsNotAnError(t *testing.T) {
	svc := newCouponService(t, &stubCouponRepo{coupons: map[string]*models.Coupon{}}, time.Now())

	res, err := svc.Validate(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, "unknown code", res.Reason)
	assert.True(t, res.Fraction.IsZero())
}

func TestValidateEmptyCodeRejected(t *testing.T) {
	svc := newCouponService(t, &stubCouponRepo{}, time.Now())

	_, err := svc.Validate(context.Background(), "   ")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestValidateOutOfRangeFractionIsAnError(t *testing.T) {
	repo := &stubCouponRepo{coupons: map[string]*models.Coupon{
		"BROKEN": {Code: "BROKEN", DiscountFraction: decimal.NewFromInt(1), Active: true},
	}}
	svc := newCouponService(t, repo, time.Now())

	_, err := svc.Validate(context.Background(), "BROKEN")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInvalidCouponFraction))
}

func TestValidateLifecycleReasons(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)
	limit := 3

	tests := []struct {
		name   string
		coupon *models.Coupon
		reason string
	}{
		{
			name:   "inactive",
			coupon: &models.Coupon{Code: "A", DiscountFraction: decimal.RequireFromString("0.1")},
			reason: "inactive",
		},
		{
			name:   "not yet valid",
			coupon: &models.Coupon{Code: "A", DiscountFraction: decimal.RequireFromString("0.1"), Active: true, ValidFrom: &future},
			reason: "not yet valid",
		},
		{
			name:   "expired",
			coupon: &models.Coupon{Code: "A", DiscountFraction: decimal.RequireFromString("0.1"), Active: true, ValidUntil: &past},
			reason: "expired",
		},
		{
			name:   "redemption cap",
			coupon: &models.Coupon{Code: "A", DiscountFraction: decimal.RequireFromString("0.1"), Active: true, MaxRedemptions: &limit, Redemptions: 3},
			reason: "redemption limit reached",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &stubCouponRepo{coupons: map[string]*models.Coupon{"A": tc.coupon}}
			svc := newCouponService(t, repo, now)

			res, err := svc.Validate(context.Background(), "A")
			require.NoError(t, err)
			assert.False(t, res.Valid)
			assert.Equal(t, tc.reason, res.Reason)
		})
	}
}

func TestRedeemNormalizesAndDelegates(t *testing.T) {
	repo := &stubCouponRepo{coupons: map[string]*models.Coupon{
		"WELCOME10": {Code: "WELCOME10", DiscountFraction: decimal.RequireFromString("0.1"), Active: true},
	}}
	svc := newCouponService(t, repo, time.Now())

	require.NoError(t, svc.Redeem(context.Background(), nil, " welcome10 "))
	assert.Equal(t, []string{"WELCOME10"}, repo.redeemed)

	require.NoError(t, svc.Redeem(context.Background(), nil, ""))
	assert.Len(t, repo.redeemed, 1)
}

func TestRedeemUnknownCodeIsNoOp(t *testing.T) {
	repo := &stubCouponRepo{coupons: map[string]*models.Coupon{}}
	svc := newCouponService(t, repo, time.Now())

	require.NoError(t, svc.Redeem(context.Background(), nil, "NOPE"))
	assert.Empty(t, repo.redeemed)
}

func TestRedeemExhaustedCapConflicts(t *testing.T) {
	limit := 1
	repo := &stubCouponRepo{coupons: map[string]*models.Coupon{
		"LAST1": {Code: "LAST1", DiscountFraction: decimal.RequireFromString("0.1"), Active: true, MaxRedemptions: &limit, Redemptions: 1},
	}}
	svc := newCouponService(t, repo, time.Now())

	err := svc.Redeem(context.Background(), nil, "LAST1")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict), "got %v", err)
	assert.Equal(t, 1, repo.coupons["LAST1"].Redemptions)
}

func TestRedeemTakesLastCapSlotOnce(t *testing.T) {
	limit := 1
	repo := &stubCouponRepo{coupons: map[string]*models.Coupon{
		"LAST1": {Code: "LAST1", DiscountFraction: decimal.RequireFromString("0.1"), Active: true, MaxRedemptions: &limit},
	}}
	svc := newCouponService(t, repo, time.Now())

	require.NoError(t, svc.Redeem(context.Background(), nil, "LAST1"))
	err := svc.Redeem(context.Background(), nil, "LAST1")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict), "got %v", err)
	assert.Equal(t, 1, repo.coupons["LAST1"].Redemptions)
}
