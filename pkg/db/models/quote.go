package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/speedyvan/speedyvan-backend/pkg/enums"
)

// Quote is a priced estimate persisted so a booking can reference the
// exact figures the customer accepted. Records are immutable once written; a
// changed input produces a fresh record.
type Quote struct {
	ID               uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PickupAddress    string            `gorm:"column:pickup_address;not null"`
	DropoffAddress   string            `gorm:"column:dropoff_address;not null"`
	DistanceKm       float64           `gorm:"column:distance_km;not null"`
	ServiceTier      enums.ServiceTier `gorm:"column:service_tier;not null"`
	FlexibleTime     bool              `gorm:"column:flexible_time;not null;default:false"`
	CouponCode       *string           `gorm:"column:coupon_code"`
	RateTableVersion string            `gorm:"column:rate_table_version;not null"`
	Currency         enums.Currency    `gorm:"column:currency;not null;default:'GBP'"`

	BasePrice       decimal.Decimal `gorm:"column:base_price;type:numeric(12,2);not null"`
	DistanceCost    decimal.Decimal `gorm:"column:distance_cost;type:numeric(12,4);not null"`
	ItemCost        decimal.Decimal `gorm:"column:item_cost;type:numeric(12,2);not null"`
	WorkerCost      decimal.Decimal `gorm:"column:worker_cost;type:numeric(12,2);not null"`
	Subtotal        decimal.Decimal `gorm:"column:subtotal;type:numeric(12,4);not null"`
	DiscountApplied decimal.Decimal `gorm:"column:discount_applied;type:numeric(6,4);not null;default:0"`
	Total           decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null"`

	Items     []QuoteItem `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

// QuoteItem is one priced cargo line on a quote record.
type QuoteItem struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	QuoteID    uuid.UUID       `gorm:"column:quote_id;type:uuid;not null;index"`
	ItemType   enums.ItemType  `gorm:"column:item_type;not null"`
	Size       enums.ItemSize  `gorm:"column:size;not null"`
	Quantity   int             `gorm:"column:quantity;not null"`
	IsCustom   bool            `gorm:"column:is_custom;not null;default:false"`
	CustomName *string         `gorm:"column:custom_name"`
	UnitRate   decimal.Decimal `gorm:"column:unit_rate;type:numeric(12,2);not null"`
	LineCost   decimal.Decimal `gorm:"column:line_cost;type:numeric(12,2);not null"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}
