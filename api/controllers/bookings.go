package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/speedyvan/speedyvan-backend/api/responses"
	"github.com/speedyvan/speedyvan-backend/api/validators"
	"github.com/speedyvan/speedyvan-backend/internal/bookings"
	"github.com/speedyvan/speedyvan-backend/pkg/db/models"
	pkgerrors "github.com/speedyvan/speedyvan-backend/pkg/errors"
	"github.com/speedyvan/speedyvan-backend/pkg/logger"
)

type createBookingRequest struct {
	QuoteID       uuid.UUID `json:"quote_id" validate:"required"`
	CustomerName  string    `json:"customer_name" validate:"required"`
	CustomerEmail string    `json:"customer_email" validate:"required,email"`
	CustomerPhone string    `json:"customer_phone" validate:"required"`
	PickupAt      time.Time `json:"pickup_at" validate:"required"`
}

type bookingResponse struct {
	ID                uuid.UUID      `json:"id"`
	QuoteID           uuid.UUID      `json:"quote_id"`
	CustomerName      string         `json:"customer_name"`
	CustomerEmail     string         `json:"customer_email"`
	CustomerPhone     string         `json:"customer_phone"`
	PickupAt          time.Time      `json:"pickup_at"`
	Status            string         `json:"status"`
	TotalPence        int64          `json:"total_pence"`
	CheckoutSessionID *string        `json:"checkout_session_id,omitempty"`
	Quote             *quoteResponse `json:"quote,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
}

func newBookingResponse(booking *models.Booking) bookingResponse {
	resp := bookingResponse{
		ID:                booking.ID,
		QuoteID:           booking.QuoteID,
		CustomerName:      booking.CustomerName,
		CustomerEmail:     booking.CustomerEmail,
		CustomerPhone:     booking.CustomerPhone,
		PickupAt:          booking.PickupAt,
		Status:            booking.Status.String(),
		TotalPence:        booking.TotalPence,
		CheckoutSessionID: booking.CheckoutSessionID,
		CreatedAt:         booking.CreatedAt,
	}
	if booking.Quote != nil {
		quote := newQuoteResponse(booking.Quote)
		resp.Quote = &quote
	}
	return resp
}

// BookingCreate confirms a quote into a booking.
func BookingCreate(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		var payload createBookingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		booking, err := svc.CreateBooking(ctx, bookings.CreateBookingInput{
			QuoteID:       payload.QuoteID,
			CustomerName:  payload.CustomerName,
			CustomerEmail: payload.CustomerEmail,
			CustomerPhone: payload.CustomerPhone,
			PickupAt:      payload.PickupAt,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newBookingResponse(booking))
	}
}

// BookingDetail returns a booking with its quote attached.
func BookingDetail(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "bookingId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid booking id"))
			return
		}

		booking, err := svc.GetBooking(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, newBookingResponse(booking))
	}
}

type checkoutResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// BookingCheckout opens a payment session for a pending booking.
func BookingCheckout(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "bookingId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid booking id"))
			return
		}

		session, err := svc.StartCheckout(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, checkoutResponse{
			SessionID: session.SessionID,
			URL:       session.URL,
		})
	}
}
