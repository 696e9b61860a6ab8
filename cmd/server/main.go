package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"

	"clubrenting-backend/internal/config"
	"clubrenting-backend/internal/jobs"
	"clubrenting-backend/internal/logger"
	"clubrenting-backend/internal/repository/firestore"
	"clubrenting-backend/internal/repository/postgres"
	"clubrenting-backend/internal/scheduler"
	"clubrenting-backend/internal/security"
	"clubrenting-backend/internal/service"

	httpapi "clubrenting-backend/internal/api/http"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Club Renting Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Cache configuration", "host", cfg.Cache.Host, "port", cfg.Cache.Port, "database", cfg.Cache.Database, "user", cfg.Cache.User)
	logger.Info("Firestore configuration", "project_id", cfg.Firestore.ProjectID)

	// Initialize cache database
	logger.Debug("Connecting to cache database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Cache.User, cfg.Cache.Host, cfg.Cache.Port, cfg.Cache.Database))
	db, err := sql.Open("postgres", cfg.GetCacheConnectionString())
	if err != nil {
		logger.Error("Failed to connect to cache database", "error", err)
		log.Fatalf("Failed to connect to cache database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping cache database", "error", err)
		log.Fatalf("Failed to ping cache database: %v", err)
	}
	logger.Info("Cache database connection established")

	// Initialize remote document store client
	ctx := context.Background()
	remote, err := firestore.NewClient(ctx, cfg.Firestore.ProjectID, cfg.Firestore.CredentialsFile)
	if err != nil {
		logger.Error("Failed to connect to Firestore", "error", err)
		log.Fatalf("Failed to connect to Firestore: %v", err)
	}
	defer remote.Close()
	logger.Info("Firestore connection established", "project_id", cfg.Firestore.ProjectID)

	// Initialize repositories
	cache := postgres.NewInventoryCache(db)
	gateway := firestore.NewGateway(remote)

	// Initialize security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)

	// Initialize email service; an empty API key runs without notifications
	var emailSvc service.EmailService
	if cfg.Email.APIKey != "" {
		emailSvc = service.NewEmailService(
			cfg.Email.APIKey,
			cfg.Email.FromEmail,
			cfg.Email.FromName,
			cfg.Email.BackOfficeEmail,
		)
		logger.Info("Back-office notifications enabled", "back_office", cfg.Email.BackOfficeEmail)
	} else {
		logger.Info("Back-office notifications disabled")
	}

	// Initialize services
	rentalMgr := service.NewRentalManager(gateway)
	rentingSvc := service.NewRentingDataProvider(cache, gateway, rentalMgr, emailSvc)

	// Initialize scheduler
	jobRunner := jobs.NewJobRunner(rentingSvc, cfg)
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	defer sched.Stop()

	// Set up HTTP server
	router := httpapi.NewRouter(rentingSvc, tokenManager)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
