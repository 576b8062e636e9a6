package coupons

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/speedyvan/speedyvan-backend/pkg/db/models"
)

// Repository defines persistence operations for promotional coupons.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	IncrementRedemptions(ctx context.Context, code string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a coupons repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).
		Where("code = ?", normalizeCode(code)).
		First(&coupon).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// IncrementRedemptions bumps the counter only while the cap has room, so two
// transactions racing for the last slot cannot both land. Returns the number
// of rows updated; 0 means the code is unknown or the cap is exhausted.
func (r *repository) IncrementRedemptions(ctx context.Context, code string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("code = ? AND (max_redemptions IS NULL OR redemptions < max_redemptions)", normalizeCode(code)).
		UpdateColumn("redemptions", gorm.Expr("redemptions + 1"))
	return res.RowsAffected, res.Error
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
