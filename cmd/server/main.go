package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/flourineV/cinemas-frontend-sub000/internal/bookingclient"
	"github.com/flourineV/cinemas-frontend-sub000/internal/config"
	"github.com/flourineV/cinemas-frontend-sub000/internal/database"
	"github.com/flourineV/cinemas-frontend-sub000/internal/handler"
	"github.com/flourineV/cinemas-frontend-sub000/internal/idempotency"
	"github.com/flourineV/cinemas-frontend-sub000/internal/lockclient"
	"github.com/flourineV/cinemas-frontend-sub000/internal/queue"
	"github.com/flourineV/cinemas-frontend-sub000/internal/repository"
	"github.com/flourineV/cinemas-frontend-sub000/internal/router"
	"github.com/flourineV/cinemas-frontend-sub000/internal/session"
)

func main() {
	// .env is a development convenience; in production the variables
	// come from the environment itself.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.EnsureSchema(context.Background(), db); err != nil {
		log.Fatalf("database: ensure schema: %v", err)
	}

	// Redis is optional: without it the rate limiter and the submit
	// dedupe degrade gracefully.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and submit dedupe disabled")
	}

	brokerURL := queue.BrokerURL()
	drafts := repository.NewDraftRepo(db, cfg.DraftRetention)
	deps := session.Deps{
		Locks:   lockclient.New(cfg.LockServiceURL),
		Booking: bookingclient.New(cfg.BookingServiceURL),
		Drafts:  drafts,
		Audit:   queue.NewPublisher(brokerURL),
		Feed:    queue.NewSubscriber(brokerURL),
	}
	go func() {
		t := time.NewTicker(10 * time.Minute)
		defer t.Stop()
		for range t.C {
			if n, err := drafts.DeleteExpired(context.Background()); err != nil {
				log.Printf("drafts: purge failed: %v", err)
			} else if n > 0 {
				log.Printf("drafts: purged %d expired drafts", n)
			}
		}
	}()

	registry := session.NewRegistry(deps)
	// The sweeper doubles as the navigation-away backstop for clients
	// whose teardown beacon never arrived.
	registry.StartSweeper(context.Background(), cfg.SweepInterval, cfg.SessionIdle)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterSession(e, handler.NewSessionHandler(registry, idempotency.NewRedisTracker(rdb)), cfg, rdb)
	router.RegisterDrafts(e, handler.NewDraftHandler(drafts))

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
