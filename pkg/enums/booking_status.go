package enums

import "fmt"

// BookingStatus tracks a booking from creation through payment.
type BookingStatus string

const (
	BookingStatusPending         BookingStatus = "pending"
	BookingStatusAwaitingPayment BookingStatus = "awaiting_payment"
	BookingStatusPaid            BookingStatus = "paid"
	BookingStatusCancelled       BookingStatus = "cancelled"
)

var validBookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusAwaitingPayment,
	BookingStatusPaid,
	BookingStatusCancelled,
}

// String implements fmt.Stringer.
func (b BookingStatus) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BookingStatus.
func (b BookingStatus) IsValid() bool {
	for _, candidate := range validBookingStatuses {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBookingStatus converts raw input into a BookingStatus.
func ParseBookingStatus(value string) (BookingStatus, error) {
	for _, candidate := range validBookingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid booking status %q", value)
}

// CanTransitionTo enforces the booking lifecycle ordering.
func (b BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch b {
	case BookingStatusPending:
		return next == BookingStatusAwaitingPayment || next == BookingStatusCancelled
	case BookingStatusAwaitingPayment:
		return next == BookingStatusPaid || next == BookingStatusCancelled
	default:
		return false
	}
}
