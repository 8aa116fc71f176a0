package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/r0892111/beroepsbelgWeb-sub000/api/controllers"
	"github.com/r0892111/beroepsbelgWeb-sub000/api/middleware"
	"github.com/r0892111/beroepsbelgWeb-sub000/internal/availability"
	bookingsvc "github.com/r0892111/beroepsbelgWeb-sub000/internal/bookings"
	checkoutsvc "github.com/r0892111/beroepsbelgWeb-sub000/internal/checkout"
	giftcardsvc "github.com/r0892111/beroepsbelgWeb-sub000/internal/giftcards"
	productsvc "github.com/r0892111/beroepsbelgWeb-sub000/internal/products"
	quotesvc "github.com/r0892111/beroepsbelgWeb-sub000/internal/quotes"
	toursvc "github.com/r0892111/beroepsbelgWeb-sub000/internal/tours"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/config"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/db"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/logger"
	pkgredis "github.com/r0892111/beroepsbelgWeb-sub000/pkg/redis"
)

// The booking form polls availability while visitors type, so the window
// is short and the limit generous.
const (
	availabilityRateWindow = time.Minute
	availabilityRateLimit  = 60
)

type Services struct {
	Tours        toursvc.Service
	Bookings     bookingsvc.Service
	Products     productsvc.Service
	GiftCards    giftcardsvc.Service
	Quotes       quotesvc.Service
	Checkout     checkoutsvc.Service
	Availability *availability.Checker
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	datasource db.Pinger,
	redisClient *pkgredis.Client,
	registry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, datasource, redisPinger(redisClient), logg))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(idempotencyStore(redisClient), cfg.Booking.IdempotencyTTL, logg))

		r.Route("/tours", func(r chi.Router) {
			r.Get("/", controllers.ListTours(svcs.Tours, logg))
			r.Get("/{tourID}", controllers.GetTour(svcs.Tours, logg))
			r.Get("/{tourID}/slots", controllers.TourSlots(svcs.Tours, logg))
		})

		availabilityHandler := controllers.CheckAvailability(svcs.Availability, logg)
		if redisClient != nil {
			policy := middleware.NewRateLimitPolicy("availability", availabilityRateWindow, availabilityRateLimit)
			r.With(middleware.RateLimit(policy, redisClient, logg)).Post("/availability", availabilityHandler)
		} else {
			r.Post("/availability", availabilityHandler)
		}

		r.Get("/products", controllers.ListProducts(svcs.Products, logg))
		r.Post("/giftcards/validate", controllers.ValidateGiftCard(svcs.GiftCards, logg))

		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", controllers.CreateBooking(svcs.Bookings, svcs.Products, logg))
			r.Get("/", controllers.ListBookings(svcs.Bookings, logg))
			r.Get("/{bookingID}", controllers.GetBooking(svcs.Bookings, logg))
			r.Patch("/{bookingID}/status", controllers.UpdateBookingStatus(svcs.Bookings, logg))
			r.Post("/{bookingID}/checkout", controllers.StartCheckout(svcs.Checkout, logg))
			r.Post("/{bookingID}/confirm", controllers.ConfirmCheckout(svcs.Checkout, logg))
		})

		r.Route("/quotes", func(r chi.Router) {
			r.Post("/preview", controllers.PreviewQuote(svcs.Quotes, svcs.Products, logg))
			r.Post("/", controllers.RequestQuote(svcs.Quotes, svcs.Products, logg))
		})
	})

	return r
}

// Typed-nil guards: a nil *Client stored in an interface would dodge the
// middleware nil checks.
func idempotencyStore(client *pkgredis.Client) pkgredis.IdempotencyStore {
	if client == nil {
		return nil
	}
	return client
}

func redisPinger(client *pkgredis.Client) pkgredis.Pinger {
	if client == nil {
		return nil
	}
	return client
}
