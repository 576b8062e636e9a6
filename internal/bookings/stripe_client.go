package bookings

import (
	"context"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/checkout/session"

	pkgstripe "github.com/speedyvan/speedyvan-backend/pkg/stripe"
)

// StripeCheckoutClient exposes the subset of Stripe operations the booking
// service needs.
type StripeCheckoutClient interface {
	CreateSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	SuccessURL() string
	CancelURL() string
}

type stripeClientWrapper struct {
	client *pkgstripe.Client
}

// NewStripeClient wraps the provided Stripe client so the booking service can
// be tested.
func NewStripeClient(client *pkgstripe.Client) StripeCheckoutClient {
	if client == nil {
		return nil
	}
	return &stripeClientWrapper{client: client}
}

func (w *stripeClientWrapper) CreateSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	if params != nil {
		params.Context = ctx
	}
	return session.New(params)
}

func (w *stripeClientWrapper) SuccessURL() string { return w.client.SuccessURL() }

func (w *stripeClientWrapper) CancelURL() string { return w.client.CancelURL() }
