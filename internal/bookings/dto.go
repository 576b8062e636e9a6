package bookings

import (
	"time"

	"github.com/google/uuid"
)

// CreateBookingInput carries the customer details confirming a quote.
type CreateBookingInput struct {
	QuoteID       uuid.UUID
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	PickupAt      time.Time
}

// CheckoutSession is the payment handoff returned to the caller.
type CheckoutSession struct {
	SessionID string
	URL       string
}
