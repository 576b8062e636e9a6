package bookings

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/speedyvan/speedyvan-backend/pkg/db/models"
	"github.com/speedyvan/speedyvan-backend/pkg/enums"
)

// Repository defines persistence operations for bookings.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	ActiveBookingExists(ctx context.Context, quoteID uuid.UUID) (bool, error)
	FindBookingByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	FindBookingByCheckoutSession(ctx context.Context, sessionID string) (*models.Booking, error)
	UpdateBooking(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a bookings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	if err := r.db.WithContext(ctx).Create(booking).Error; err != nil {
		return nil, err
	}
	return booking, nil
}

var activeStatuses = []enums.BookingStatus{
	enums.BookingStatusPending,
	enums.BookingStatusAwaitingPayment,
}

// ActiveBookingExists reports whether the quote already has a booking that
// has not been paid or cancelled.
func (r *repository) ActiveBookingExists(ctx context.Context, quoteID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("quote_id = ? AND status IN ?", quoteID, activeStatuses).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindBookingByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Preload("Quote.Items").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) FindBookingByCheckoutSession(ctx context.Context, sessionID string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Where("checkout_session_id = ?", sessionID).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) UpdateBooking(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Updates(updates).Error
}
