package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	account "auction-marketplace/internal/accountService"
	auction "auction-marketplace/internal/auctionService"
	"auction-marketplace/internal/auctionerrors"
	"auction-marketplace/internal/auth"
	"auction-marketplace/internal/config"
	"auction-marketplace/internal/events"
	"auction-marketplace/internal/locker"
	"auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
	"auction-marketplace/internal/server"
	accounthandler "auction-marketplace/services/account/handler"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.Fatal("Failed to load configuration", map[string]any{"error": err.Error()})
	}
	if err := utils.SetLevel(cfg.LogLevel); err != nil {
		utils.Fatal("Failed to set log level", map[string]any{"error": err.Error()})
	}
	gin.SetMode(cfg.GinMode)
	if cfg.UsesDevelopmentSecret() {
		utils.Warn("JWT_SECRET not set, signing sessions with the development secret", nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := openStore(cfg)
	if err != nil {
		utils.Fatal("Failed to open store", map[string]any{"driver": cfg.DBDriver, "error": err.Error()})
	}

	lk, err := newLocker(cfg)
	if err != nil {
		utils.Fatal("Failed to connect to redis", map[string]any{"addr": cfg.RedisAddr, "error": err.Error()})
	}

	publisher, closePublisher, err := newPublisher(cfg)
	if err != nil {
		utils.Fatal("Failed to connect to nats", map[string]any{"url": cfg.NATSURL, "error": err.Error()})
	}
	defer closePublisher()

	auctionSvc := auction.NewAuctionService(repo, lk, publisher)
	accountSvc := account.NewAccountService(repo, auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL))

	if cfg.SeedDemo {
		prepopulateListings(ctx, auctionSvc, accountSvc)
	}

	router := server.SetupRouter(auctionSvc, accountSvc, accounthandler.CookieSettings{
		Name:   cfg.CookieName,
		Secure: cfg.CookieSecure,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		utils.Info("Starting auction server", map[string]any{"addr": srv.Addr, "driver": cfg.DBDriver})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Fatal("Failed to start server", map[string]any{"error": err.Error()})
		}
	}()

	<-ctx.Done()
	utils.Info("Shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Error("Graceful shutdown failed", map[string]any{"error": err.Error()})
	}
}

// openStore returns the repository selected by DB_DRIVER
func openStore(cfg config.Config) (repository.AuctionDB, error) {
	if cfg.DBDriver == config.DriverMemory {
		return repository.NewMemoryRepo(), nil
	}

	db, err := repository.OpenDatabase(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return repository.NewGormRepo(db), nil
}

// newLocker serializes bids through redis when REDIS_ADDR is set, in-process otherwise
func newLocker(cfg config.Config) (locker.Locker, error) {
	if cfg.RedisAddr == "" {
		return locker.NewLocalLocker(), nil
	}

	client, err := locker.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, err
	}
	return locker.NewRedisLocker(client, 5*time.Second), nil
}

// newPublisher sends events to NATS when NATS_URL is set and logs them otherwise
func newPublisher(cfg config.Config) (events.Publisher, func(), error) {
	if cfg.NATSURL == "" {
		return events.NewLogPublisher(log.StandardLogger()), func() {}, nil
	}

	publisher, err := events.NewNATSPublisher(cfg.NATSURL)
	if err != nil {
		return nil, nil, err
	}
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			utils.Warn("Failed to drain nats connection", map[string]any{"error": err.Error()})
		}
	}, nil
}

// prepopulateListings adds demo users and listings to an empty store
func prepopulateListings(ctx context.Context, auctionSvc *auction.AuctionService, accountSvc *account.AccountService) {
	users := map[string]models.Identity{}
	for _, name := range []string{"alice", "bob"} {
		user, err := accountSvc.Register(ctx, models.NewAccount{
			Username:     name,
			Email:        name + "@example.com",
			Password:     "password",
			Confirmation: "password",
		})
		if errors.Is(err, auctionerrors.ErrDuplicateUsername) {
			utils.Info("Demo data already present", map[string]any{"username": name})
			return
		}
		if err != nil {
			utils.Error("Failed to seed demo user", map[string]any{"username": name, "error": err.Error()})
			return
		}
		users[name] = models.IdentityOf(user)
	}

	listings := []models.NewListing{
		{Title: "Vintage Lamp", Description: "Brass desk lamp in working order", Category: "Home", StartingBid: "10.00"},
		{Title: "Mechanical Keyboard", Description: "Tenkeyless, brown switches", Category: "Electronics", StartingBid: "45.50"},
		{Title: "First Edition Novel", Description: "Hardcover with dust jacket", Category: "Books", StartingBid: "120"},
	}

	for _, in := range listings {
		listing, err := auctionSvc.CreateListing(ctx, users["alice"], in)
		if err != nil {
			utils.Error("Failed to seed demo listing", map[string]any{"title": in.Title, "error": err.Error()})
			continue
		}
		if _, err := auctionSvc.PlaceBid(ctx, listing.ListingID, users["bob"], listing.StartingBid.Add(listing.StartingBid).StringFixed(2)); err != nil {
			utils.Warn("Failed to seed demo bid", map[string]any{"listing_id": listing.ListingID, "error": err.Error()})
		}
	}
}
