package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/speedyvan/speedyvan-backend/api/controllers"
	webhookcontrollers "github.com/speedyvan/speedyvan-backend/api/controllers/webhooks"
	"github.com/speedyvan/speedyvan-backend/api/middleware"
	"github.com/speedyvan/speedyvan-backend/internal/bookings"
	"github.com/speedyvan/speedyvan-backend/internal/coupons"
	"github.com/speedyvan/speedyvan-backend/internal/quotes"
	stripewebhook "github.com/speedyvan/speedyvan-backend/internal/webhooks/stripe"
	"github.com/speedyvan/speedyvan-backend/pkg/config"
	"github.com/speedyvan/speedyvan-backend/pkg/db"
	"github.com/speedyvan/speedyvan-backend/pkg/logger"
	"github.com/speedyvan/speedyvan-backend/pkg/maps"
	"github.com/speedyvan/speedyvan-backend/pkg/redis"
	"github.com/speedyvan/speedyvan-backend/pkg/stripe"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	mapsClient *maps.Client,
	distanceResolver quotes.DistanceResolver,
	quoteService quotes.Service,
	couponService coupons.Service,
	bookingService bookings.Service,
	stripeClient *stripe.Client,
	stripeWebhookService *stripewebhook.Service,
	stripeWebhookGuard *stripewebhook.IdempotencyGuard,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	quotePolicy := middleware.NewRateLimitPolicy(
		"quotes",
		cfg.RateLimit.QuoteWindow,
		cfg.RateLimit.QuoteIPLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	// An unconfigured Stripe client stays a nil interface here; wrapping the
	// nil pointer would slip past the controller's guard.
	var stripeSigner webhookcontrollers.StripeClient
	if stripeClient != nil {
		stripeSigner = stripeClient
	}

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/stripe", webhookcontrollers.StripeWebhook(stripeWebhookService, stripeSigner, stripeWebhookGuard, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		if redisClient != nil {
			r.Use(middleware.RateLimit(quotePolicy, redisClient, logg))
		}

		r.Route("/quotes", func(r chi.Router) {
			r.Post("/", controllers.QuoteCreate(quoteService, logg))
			r.Post("/suggest-tier", controllers.QuoteSuggestTier(quoteService, logg))
			r.Get("/{quoteId}", controllers.QuoteDetail(quoteService, logg))
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Post("/validate", controllers.CouponValidate(couponService, logg))
		})

		r.Route("/addresses", func(r chi.Router) {
			r.Post("/autocomplete", controllers.AddressAutocomplete(mapsClient, logg))
			r.Post("/distance", controllers.AddressDistance(distanceResolver, logg))
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", controllers.BookingCreate(bookingService, logg))
			r.Get("/{bookingId}", controllers.BookingDetail(bookingService, logg))
			r.Post("/{bookingId}/checkout", controllers.BookingCheckout(bookingService, logg))
		})
	})

	return r
}
