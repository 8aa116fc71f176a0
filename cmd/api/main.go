package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/r0892111/beroepsbelgWeb-sub000/api/routes"
	"github.com/r0892111/beroepsbelgWeb-sub000/internal/availability"
	"github.com/r0892111/beroepsbelgWeb-sub000/internal/bookings"
	"github.com/r0892111/beroepsbelgWeb-sub000/internal/checkout"
	"github.com/r0892111/beroepsbelgWeb-sub000/internal/giftcards"
	"github.com/r0892111/beroepsbelgWeb-sub000/internal/products"
	"github.com/r0892111/beroepsbelgWeb-sub000/internal/quotes"
	"github.com/r0892111/beroepsbelgWeb-sub000/internal/tours"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/calendar"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/config"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/db"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/logger"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/metrics"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/migrate"
	pkgredis "github.com/r0892111/beroepsbelgWeb-sub000/pkg/redis"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/stripe"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := pkgredis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	bookingMetrics := metrics.NewBookingMetrics(registry)

	calendarClient, err := calendar.NewClient(cfg.Calendar)
	if err != nil {
		logg.Error(context.Background(), "failed to create calendar client", err)
		os.Exit(1)
	}

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create stripe client", err)
		os.Exit(1)
	}

	tourRepo := tours.NewRepository(dbClient.DB())
	bookingRepo := bookings.NewRepository(dbClient.DB())

	tourService, err := tours.NewService(tourRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create tour service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(products.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	giftCardService, err := giftcards.NewService(giftcards.NewRepository(dbClient.DB()), logg, bookingMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create gift card service", err)
		os.Exit(1)
	}

	bookingService, err := bookings.NewService(bookingRepo, tourRepo, dbClient, giftCardService, cfg.Booking, logg, bookingMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create booking service", err)
		os.Exit(1)
	}

	quoteService, err := quotes.NewService(bookingService, tourRepo, cfg.Booking, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create quote service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(checkout.NewStripeClient(stripeClient), bookingService, bookingRepo, cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	bookingLoc, err := cfg.Booking.Location()
	if err != nil {
		logg.Error(context.Background(), "failed to resolve booking timezone", err)
		os.Exit(1)
	}

	checker, err := availability.NewChecker(calendarClient, bookingLoc, logg, bookingMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create availability checker", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, registry, routes.Services{
			Tours:        tourService,
			Bookings:     bookingService,
			Products:     productService,
			GiftCards:    giftCardService,
			Quotes:       quoteService,
			Checkout:     checkoutService,
			Availability: checker,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
