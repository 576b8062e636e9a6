package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/speedyvan/speedyvan-backend/pkg/db/models"
	"github.com/speedyvan/speedyvan-backend/pkg/enums"
	pkgerrors "github.com/speedyvan/speedyvan-backend/pkg/errors"
	"github.com/speedyvan/speedyvan-backend/pkg/logger"
)

type quoteLoader interface {
	GetQuote(ctx context.Context, id uuid.UUID) (*models.Quote, error)
}

type couponRedeemer interface {
	Redeem(ctx context.Context, tx *gorm.DB, code string) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service manages the booking lifecycle from confirmed quote to payment.
type Service interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*models.Booking, error)
	GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	StartCheckout(ctx context.Context, bookingID uuid.UUID) (*CheckoutSession, error)
	CompleteCheckout(ctx context.Context, sessionID string) error
	ExpireCheckout(ctx context.Context, sessionID string) error
}

type service struct {
	repo    Repository
	quotes  quoteLoader
	coupons couponRedeemer
	stripe  StripeCheckoutClient
	tx      txRunner
	logg    *logger.Logger
	now     func() time.Time
}

// NewService builds the booking service.
func NewService(repo Repository, quotes quoteLoader, coupons couponRedeemer, stripeClient StripeCheckoutClient, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("bookings repository required")
	}
	if quotes == nil {
		return nil, fmt.Errorf("quote loader required")
	}
	if coupons == nil {
		return nil, fmt.Errorf("coupon redeemer required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:    repo,
		quotes:  quotes,
		coupons: coupons,
		stripe:  stripeClient,
		tx:      tx,
		logg:    logg,
		now:     time.Now,
	}, nil
}

var pencePerPound = decimal.NewFromInt(100)

func (s *service) CreateBooking(ctx context.Context, input CreateBookingInput) (*models.Booking, error) {
	if input.QuoteID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quote id required")
	}
	if strings.TrimSpace(input.CustomerName) == "" ||
		strings.TrimSpace(input.CustomerEmail) == "" ||
		strings.TrimSpace(input.CustomerPhone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name, email and phone are required")
	}
	if input.PickupAt.Before(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pickup time must be in the future")
	}

	quote, err := s.quotes.GetQuote(ctx, input.QuoteID)
	if err != nil {
		return nil, err
	}

	totalPence := quote.Total.Mul(pencePerPound).IntPart()
	if totalPence <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidQuote, "quoted total is not chargeable").
			WithDetails(map[string]any{"quote_id": quote.ID.String()})
	}

	booking := &models.Booking{
		QuoteID:       quote.ID,
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerEmail: strings.TrimSpace(input.CustomerEmail),
		CustomerPhone: strings.TrimSpace(input.CustomerPhone),
		PickupAt:      input.PickupAt,
		Status:        enums.BookingStatusPending,
		TotalPence:    totalPence,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		taken, err := repo.ActiveBookingExists(ctx, quote.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing booking")
		}
		if taken {
			return pkgerrors.New(pkgerrors.CodeConflict, "quote already has an active booking").
				WithDetails(map[string]any{"quote_id": quote.ID.String()})
		}
		if _, err := repo.CreateBooking(ctx, booking); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist booking")
		}
		if quote.CouponCode != nil {
			return s.coupons.Redeem(ctx, tx, *quote.CouponCode)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		ctx = s.logg.WithBookingID(ctx, booking.ID.String())
		s.logg.Info(ctx, fmt.Sprintf("booking created for quote %s (%dp)", quote.ID, totalPence))
	}

	return booking, nil
}

func (s *service) GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id required")
	}
	booking, err := s.repo.FindBookingByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
	}
	return booking, nil
}

// StartCheckout opens a Stripe Checkout session for a pending booking and
// moves it to awaiting_payment. The charged amount is the pence snapshot
// taken at booking time, never a recomputation.
func (s *service) StartCheckout(ctx context.Context, bookingID uuid.UUID) (*CheckoutSession, error) {
	if s.stripe == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "payments are not configured")
	}

	booking, err := s.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.Status.CanTransitionTo(enums.BookingStatusAwaitingPayment) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("booking is %s and cannot start checkout", booking.Status))
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(s.stripe.SuccessURL()),
		CancelURL:          stripe.String(s.stripe.CancelURL()),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(strings.ToLower(enums.CurrencyGBP.String())),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(fmt.Sprintf("Speedy Van delivery (%s)", booking.ID)),
						Description: stripe.String("Your delivery booking with Speedy Van"),
					},
					UnitAmount: stripe.Int64(booking.TotalPence),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.AddMetadata("booking_id", booking.ID.String())
	params.AddMetadata("customer_email", booking.CustomerEmail)

	checkout, err := s.stripe.CreateSession(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create checkout session")
	}

	updates := map[string]any{
		"checkout_session_id": checkout.ID,
		"status":              enums.BookingStatusAwaitingPayment,
	}
	if err := s.repo.UpdateBooking(ctx, booking.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save checkout session")
	}

	if s.logg != nil {
		ctx = s.logg.WithBookingID(ctx, booking.ID.String())
		s.logg.Info(ctx, fmt.Sprintf("checkout session %s opened", checkout.ID))
	}

	return &CheckoutSession{SessionID: checkout.ID, URL: checkout.URL}, nil
}

// CompleteCheckout marks the booking behind a finished Checkout session as
// paid. Stripe retries webhooks, so an already-paid booking is a no-op.
func (s *service) CompleteCheckout(ctx context.Context, sessionID string) error {
	booking, err := s.findBySession(ctx, sessionID)
	if err != nil {
		return err
	}
	if booking.Status == enums.BookingStatusPaid {
		return nil
	}
	return s.transition(ctx, booking, enums.BookingStatusPaid)
}

// ExpireCheckout cancels the booking behind an abandoned Checkout session.
func (s *service) ExpireCheckout(ctx context.Context, sessionID string) error {
	booking, err := s.findBySession(ctx, sessionID)
	if err != nil {
		return err
	}
	if booking.Status == enums.BookingStatusCancelled {
		return nil
	}
	return s.transition(ctx, booking, enums.BookingStatusCancelled)
}

func (s *service) findBySession(ctx context.Context, sessionID string) (*models.Booking, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout session id required")
	}
	booking, err := s.repo.FindBookingByCheckoutSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no booking for checkout session")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking by session")
	}
	return booking, nil
}

func (s *service) transition(ctx context.Context, booking *models.Booking, next enums.BookingStatus) error {
	if !booking.Status.CanTransitionTo(next) {
		return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("booking cannot move from %s to %s", booking.Status, next))
	}
	if err := s.repo.UpdateBooking(ctx, booking.ID, map[string]any{"status": next}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update booking status")
	}
	if s.logg != nil {
		ctx = s.logg.WithBookingID(ctx, booking.ID.String())
		s.logg.Info(ctx, fmt.Sprintf("booking %s -> %s", booking.Status, next))
	}
	return nil
}
