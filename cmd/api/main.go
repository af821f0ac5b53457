package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/upeo/website-backend/cmd/mainconfig"
	"github.com/upeo/website-backend/internal/api/router"
	appconfig "github.com/upeo/website-backend/internal/config"
	"github.com/upeo/website-backend/internal/http/handlers"
	"github.com/upeo/website-backend/internal/leads"
	"github.com/upeo/website-backend/internal/notify"
	"github.com/upeo/website-backend/internal/observability/metrics"
	"github.com/upeo/website-backend/internal/resources"
	"github.com/upeo/website-backend/internal/uploads"
	"github.com/upeo/website-backend/internal/wizard"
	"github.com/upeo/website-backend/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting website-backend API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Metrics
	registry := prometheus.NewRegistry()
	intakeMetrics := metrics.NewIntakeMetrics(registry)
	catalogMetrics := metrics.NewCatalogMetrics(registry)

	// Storage: Postgres when configured, in-memory otherwise.
	var (
		leadsRepo     leads.Repository
		resourcesRepo resources.Repository
		dashboardDB   *sql.DB
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		leadsRepo = leads.NewPostgresRepository(pool)
		resourcesRepo = resources.NewPostgresRepository(pool)

		dashboardDB, err = sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open database/sql handle", "error", err)
			os.Exit(1)
		}
		defer dashboardDB.Close()
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory repositories")
		leadsRepo = leads.NewInMemoryRepository()
		resourcesRepo = resources.NewInMemoryRepository()
	}

	// Redis: wizard sessions + catalog cache. Optional.
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()
	}

	var sessionStore wizard.Store
	if redisClient != nil {
		sessionStore = wizard.NewRedisStore(redisClient, cfg.WizardSessionTTL)
	} else {
		sessionStore = wizard.NewMemoryStore(cfg.WizardSessionTTL)
	}

	var catalogCache *resources.Cache
	if redisClient != nil {
		catalogCache = resources.NewCache(resourcesRepo, redisClient, cfg.ResourceCacheTTL, catalogMetrics, logger)
	}

	// Attachment storage: S3 when a bucket is configured.
	var attachmentStore wizard.AttachmentStore
	if cfg.UploadsBucket != "" {
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		attachmentStore = uploads.NewS3Store(s3.NewFromConfig(awsCfg), cfg.UploadsBucket)
	} else {
		attachmentStore = uploads.NewMemoryStore()
	}

	// Lead notification email.
	var notifier leads.Notifier
	sender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger)
	if sender != nil {
		notifier = notify.NewService(sender, cfg.LeadNotifyEmails, logger)
	}

	// Wizard engine
	wizardService := wizard.NewService(wizard.Config{
		Store:              sessionStore,
		Leads:              leadsRepo,
		Notifier:           notifier,
		Attachments:        attachmentStore,
		Metrics:            intakeMetrics,
		DefaultCountryCode: cfg.DefaultCountryCode,
		Logger:             logger,
	})

	// Initialize handlers
	leadsHandler := leads.NewHandler(leadsRepo, notifier, intakeMetrics, logger)
	wizardHandler := wizard.NewHandler(wizardService, logger)
	var lister resources.Lister = resourcesRepo
	var invalidator resources.Invalidator
	if catalogCache != nil {
		lister = catalogCache
		invalidator = catalogCache
	}
	resourcesHandler := resources.NewHandler(lister, resourcesRepo, invalidator, catalogMetrics, logger)
	var dashboardHandler *handlers.AdminDashboardHandler
	if dashboardDB != nil {
		dashboardHandler = handlers.NewAdminDashboardHandler(dashboardDB, logger)
	}

	// Setup router
	routerCfg := &router.Config{
		Logger:             logger,
		LeadsHandler:       leadsHandler,
		WizardHandler:      wizardHandler,
		ResourcesHandler:   resourcesHandler,
		AdminDashboard:     dashboardHandler,
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		IntakeRateLimit:    cfg.IntakeRateLimit,
		IntakeRateBurst:    cfg.IntakeRateBurst,
	}
	r := router.New(routerCfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
