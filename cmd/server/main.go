package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"    // Loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/123R3N321/FoodTok/internal/config"
	"github.com/123R3N321/FoodTok/internal/database"
	"github.com/123R3N321/FoodTok/internal/handler"
	"github.com/123R3N321/FoodTok/internal/queue"
	"github.com/123R3N321/FoodTok/internal/repository"
	"github.com/123R3N321/FoodTok/internal/router"
	"github.com/123R3N321/FoodTok/internal/service"
)

func main() {
	// Load .env if present; in production the environment is set directly.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	// Open MySQL and bootstrap the schema on a fresh database.
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	if err := database.EnsureSchema(context.Background(), db); err != nil {
		log.Fatalf("schema: %v", err)
	}

	// Redis is optional: a nil client disables rate limiting and caching.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and response cache disabled")
	}

	// Repositories over the shared connection pool.
	restaurants := repository.NewRestaurantRepo(db)
	hours := repository.NewHoursRepo(db)
	capacity := repository.NewCapacityRepo(db)
	holds := repository.NewHoldRepo(db)
	reservations := repository.NewReservationRepo(db)
	waitlist := repository.NewWaitlistRepo(db)

	publisher := queue.NewPublisher()

	policy := service.Policy{
		SlotInterval:        cfg.SlotInterval,
		HoldTTL:             cfg.HoldTTL,
		OfferTTL:            cfg.OfferTTL,
		DefaultDepositCents: cfg.DepositPerPersonCents,
	}

	resolver := service.NewHoursResolver(restaurants, hours)
	availabilitySvc := service.NewAvailabilityService(restaurants, resolver, capacity, policy)
	holdSvc := service.NewHoldService(restaurants, resolver, capacity, holds,
		reservations, waitlist, publisher, policy)
	reservationSvc := service.NewReservationService(reservations, capacity, publisher)
	waitlistSvc := service.NewWaitlistService(waitlist, restaurants, holdSvc, publisher)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Background sweep reclaims capacity from lapsed holds so that
	// slots free up even when nobody touches the hold again.
	sweeper := service.NewSweeper(holds, holdSvc, cfg.SweepInterval)
	go sweeper.Run(ctx)

	// Consume capacity.released events to promote waitlist entries.
	go queue.StartCapacityConsumer(waitlistSvc.HandleCapacityReleased)

	e := echo.New() // Create Echo instance

	h := router.Handlers{
		Availability: handler.NewAvailabilityHandler(availabilitySvc),
		Holds:        handler.NewHoldHandler(holdSvc),
		Reservations: handler.NewReservationHandler(reservationSvc),
		Waitlist:     handler.NewWaitlistHandler(waitlistSvc),
	}
	router.RegisterRoutes(e, h, cfg.JWTSecret, rdb,
		config.LoadRateLimitConfig(), config.LoadCacheConfig())

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err)
	}
}
