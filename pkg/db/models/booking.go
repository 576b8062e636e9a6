package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/speedyvan/speedyvan-backend/pkg/enums"
)

// Booking is a confirmed order referencing the quote the customer accepted.
type Booking struct {
	ID      uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	QuoteID uuid.UUID `gorm:"column:quote_id;type:uuid;not null;index"`
	Quote   *Quote

	CustomerName  string `gorm:"column:customer_name;not null"`
	CustomerEmail string `gorm:"column:customer_email;not null"`
	CustomerPhone string `gorm:"column:customer_phone;not null"`

	PickupAt time.Time           `gorm:"column:pickup_at;not null"`
	Status   enums.BookingStatus `gorm:"column:status;not null;default:'pending'"`

	// TotalPence snapshots the charged amount in the smallest currency unit
	// at booking time, matching what is sent to the payment provider.
	TotalPence        int64   `gorm:"column:total_pence;not null"`
	CheckoutSessionID *string `gorm:"column:checkout_session_id"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
