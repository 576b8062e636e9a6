package stripewebhook

import (
	"context"
	"encoding/json"

	"github.com/stripe/stripe-go/v84"

	pkgerrors "github.com/speedyvan/speedyvan-backend/pkg/errors"
)

type bookingLifecycle interface {
	CompleteCheckout(ctx context.Context, sessionID string) error
	ExpireCheckout(ctx context.Context, sessionID string) error
}

// Service reacts to Stripe Checkout lifecycle events by advancing the
// matching booking. Events for unknown sessions are ignored rather than
// failed; Stripe replays webhooks for other products on the same account.
type Service struct {
	bookings bookingLifecycle
}

// NewService builds the webhook service.
func NewService(bookings bookingLifecycle) (*Service, error) {
	if bookings == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "booking service required")
	}
	return &Service{bookings: bookings}, nil
}

func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		session, err := decodeSession(event)
		if err != nil {
			return err
		}
		return ignoreUnknownSession(s.bookings.CompleteCheckout(ctx, session.ID))
	case stripe.EventTypeCheckoutSessionExpired:
		session, err := decodeSession(event)
		if err != nil {
			return err
		}
		return ignoreUnknownSession(s.bookings.ExpireCheckout(ctx, session.ID))
	default:
		return nil
	}
}

func decodeSession(event *stripe.Event) (*stripe.CheckoutSession, error) {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode checkout session event")
	}
	if session.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout session id missing from event")
	}
	return &session, nil
}

func ignoreUnknownSession(err error) error {
	if pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		return nil
	}
	return err
}
