package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/speedyvan/speedyvan-backend/pkg/db/models"
	"github.com/speedyvan/speedyvan-backend/pkg/enums"
)

func setupBookingsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS bookings (
  id TEXT PRIMARY KEY,
  quote_id TEXT NOT NULL,
  customer_name TEXT NOT NULL,
  customer_email TEXT NOT NULL,
  customer_phone TEXT NOT NULL,
  pickup_at DATETIME NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  total_pence INTEGER NOT NULL,
  checkout_session_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	quotes := `
CREATE TABLE IF NOT EXISTS quotes (
  id TEXT PRIMARY KEY,
  pickup_address TEXT NOT NULL DEFAULT '',
  dropoff_address TEXT NOT NULL DEFAULT '',
  distance_km REAL NOT NULL DEFAULT 0,
  service_tier TEXT NOT NULL DEFAULT 'single-worker',
  flexible_time INTEGER NOT NULL DEFAULT 0,
  coupon_code TEXT,
  rate_table_version TEXT NOT NULL DEFAULT '',
  currency TEXT NOT NULL DEFAULT 'GBP',
  base_price NUMERIC NOT NULL DEFAULT 0,
  distance_cost NUMERIC NOT NULL DEFAULT 0,
  item_cost NUMERIC NOT NULL DEFAULT 0,
  worker_cost NUMERIC NOT NULL DEFAULT 0,
  subtotal NUMERIC NOT NULL DEFAULT 0,
  discount_applied NUMERIC NOT NULL DEFAULT 0,
  total NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	items := `
CREATE TABLE IF NOT EXISTS quote_items (
  id TEXT PRIMARY KEY,
  quote_id TEXT NOT NULL,
  item_type TEXT NOT NULL,
  size TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  is_custom INTEGER NOT NULL DEFAULT 0,
  custom_name TEXT,
  unit_rate NUMERIC NOT NULL,
  line_cost NUMERIC NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	require.NoError(t, db.Exec(quotes).Error)
	require.NoError(t, db.Exec(items).Error)

	return db
}

func newTestBooking() *models.Booking {
	return &models.Booking{
		ID:            uuid.New(),
		QuoteID:       uuid.New(),
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
		CustomerPhone: "07700900000",
		PickupAt:      time.Now().Add(48 * time.Hour),
		Status:        enums.BookingStatusPending,
		TotalPence:    9550,
	}
}

func TestRepositoryCreateAndFindBooking(t *testing.T) {
	db := setupBookingsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	saved, err := repo.CreateBooking(ctx, newTestBooking())
	require.NoError(t, err)

	found, err := repo.FindBookingByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, found.ID)
	assert.Equal(t, int64(9550), found.TotalPence)
	assert.Equal(t, enums.BookingStatusPending, found.Status)
}

func TestRepositoryUpdateBookingAndFindBySession(t *testing.T) {
	db := setupBookingsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	saved, err := repo.CreateBooking(ctx, newTestBooking())
	require.NoError(t, err)

	updates := map[string]any{
		"checkout_session_id": "cs_123",
		"status":              enums.BookingStatusAwaitingPayment,
	}
	require.NoError(t, repo.UpdateBooking(ctx, saved.ID, updates))

	found, err := repo.FindBookingByCheckoutSession(ctx, "cs_123")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, found.ID)
	assert.Equal(t, enums.BookingStatusAwaitingPayment, found.Status)
}

func TestRepositoryActiveBookingExists(t *testing.T) {
	db := setupBookingsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	booking := newTestBooking()
	_, err := repo.CreateBooking(ctx, booking)
	require.NoError(t, err)

	exists, err := repo.ActiveBookingExists(ctx, booking.QuoteID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ActiveBookingExists(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.UpdateBooking(ctx, booking.ID, map[string]any{"status": enums.BookingStatusPaid}))

	exists, err = repo.ActiveBookingExists(ctx, booking.QuoteID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepositoryFindBookingNotFound(t *testing.T) {
	db := setupBookingsTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindBookingByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.FindBookingByCheckoutSession(context.Background(), "cs_none")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
