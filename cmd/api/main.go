package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/srana86/frameX-sub004/internal/affiliate"
	"github.com/srana86/frameX-sub004/internal/async"
	"github.com/srana86/frameX-sub004/internal/blocklist"
	"github.com/srana86/frameX-sub004/internal/cache"
	"github.com/srana86/frameX-sub004/internal/config"
	"github.com/srana86/frameX-sub004/internal/database"
	"github.com/srana86/frameX-sub004/internal/fraud"
	"github.com/srana86/frameX-sub004/internal/geo"
	"github.com/srana86/frameX-sub004/internal/handler"
	"github.com/srana86/frameX-sub004/internal/metrics"
	"github.com/srana86/frameX-sub004/internal/notify"
	"github.com/srana86/frameX-sub004/internal/orderid"
	"github.com/srana86/frameX-sub004/internal/realtime"
	"github.com/srana86/frameX-sub004/internal/repository"
	"github.com/srana86/frameX-sub004/internal/router"
	"github.com/srana86/frameX-sub004/internal/service"
	"github.com/srana86/frameX-sub004/internal/track"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting order API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	affiliateRepo := repository.NewAffiliateRepository(pool, logger)
	commissionRepo := repository.NewCommissionRepository(pool, logger)
	blocklistRepo := repository.NewBlocklistRepository(pool, logger)
	inventoryRepo := repository.NewInventoryRepository(pool, logger)
	notificationRepo := repository.NewNotificationRepository(pool, logger)
	settingsRepo := repository.NewSettingsRepository(pool, logger)

	// Initialize bulk blocklist loader with S3 and local fallback
	var blocklistLoader blocklist.Loader
	if cfg.Blocklist.S3Enabled {
		s3Loader, err := blocklist.NewS3Loader(ctx, cfg.Blocklist.Bucket, cfg.Blocklist.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
			blocklistLoader = blocklist.NewFileLoader(logger)
		} else {
			blocklistLoader = s3Loader
		}
	} else {
		blocklistLoader = blocklist.NewFileLoader(logger)
		logger.Info().Msg("using local file system for blocklist files (S3 disabled)")
	}

	bulkChecker := blocklist.LoadAll(ctx, blocklistLoader, cfg.Blocklist.Keys, logger)
	logger.Info().Int("entries", bulkChecker.Size()).Msg("bulk blocklists loaded")

	// Optional redis-backed cache invalidation
	var invalidator cache.Invalidator
	if cfg.Redis.Enabled {
		redisInvalidator, err := cache.NewRedisInvalidator(cfg.Redis.URL, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, cache invalidation disabled")
		} else {
			defer redisInvalidator.Close()
			invalidator = redisInvalidator
		}
	}

	// Optional outbound integrations
	var geoResolver geo.Resolver
	if cfg.Geo.Enabled {
		geoResolver = geo.NewResolver(cfg.Geo.Endpoint, logger)
	}

	var scorer fraud.Scorer
	if cfg.Fraud.Enabled {
		scorer = fraud.NewScorer(cfg.Fraud, logger)
	}

	var emailDispatcher notify.EmailDispatcher
	if cfg.Email.Enabled {
		emailDispatcher = notify.NewEmailDispatcher(cfg.Email, logger)
	}

	var tracker track.Tracker
	if cfg.Tracking.Enabled {
		tracker = track.NewTracker(cfg.Tracking, logger)
	}

	// Core order-flow collaborators
	m := metrics.New()
	hub := realtime.NewHub(logger)
	runner := async.NewRunner(logger)
	gate := fraud.NewGate(blocklistRepo, bulkChecker, logger)
	attributor := affiliate.NewAttributor(affiliateRepo, cfg.Affiliate.CommissionLevels, logger)
	idGen := orderid.NewGenerator(settingsRepo, logger)

	effects := &service.SideEffects{
		Runner:           runner,
		Metrics:          m,
		Hub:              hub,
		Geo:              geoResolver,
		Scorer:           scorer,
		Email:            emailDispatcher,
		Tracker:          tracker,
		Cache:            invalidator,
		OrderRepo:        orderRepo,
		AffiliateRepo:    affiliateRepo,
		CommissionRepo:   commissionRepo,
		NotificationRepo: notificationRepo,
		SettingsRepo:     settingsRepo,
		AdminEmail:       cfg.Email.AdminEmail,
		Logger:           logger,
	}

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	orderService := service.NewOrderService(
		orderRepo, productRepo, inventoryRepo, commissionRepo, affiliateRepo,
		gate, attributor, idGen, effects, logger,
	)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	affiliateHandler := handler.NewAffiliateHandler(attributor, cfg.Affiliate.CookieTTL, logger)
	wsHandler := handler.NewWSHandler(hub, logger)

	// Initialize router
	mux := router.New(productHandler, orderHandler, affiliateHandler, wsHandler, m, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		// Let in-flight side effects finish before exiting
		if err := runner.Drain(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("timed out draining background tasks")
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
