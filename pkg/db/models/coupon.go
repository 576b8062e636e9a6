package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Coupon is a promotional code resolving to a discount fraction in [0, 1).
type Coupon struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code             string          `gorm:"column:code;not null;uniqueIndex"`
	DiscountFraction decimal.Decimal `gorm:"column:discount_fraction;type:numeric(6,4);not null"`
	Active           bool            `gorm:"column:active;not null;default:true"`
	ValidFrom        *time.Time      `gorm:"column:valid_from"`
	ValidUntil       *time.Time      `gorm:"column:valid_until"`
	MaxRedemptions   *int            `gorm:"column:max_redemptions"`
	Redemptions      int             `gorm:"column:redemptions;not null;default:0"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
