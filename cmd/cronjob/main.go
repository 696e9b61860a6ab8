package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"clubrenting-backend/internal/config"
	"clubrenting-backend/internal/jobs"
	"clubrenting-backend/internal/logger"
	"clubrenting-backend/internal/repository/firestore"
	"clubrenting-backend/internal/repository/postgres"
	"clubrenting-backend/internal/scheduler"
	"clubrenting-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'refresh-catalog')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Club Renting Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize cache database
	logger.Info("Connecting to cache database...", "host", cfg.Cache.Host, "port", cfg.Cache.Port)
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
	remote, err := firestore.NewClient(context.Background(), cfg.Firestore.ProjectID, cfg.Firestore.CredentialsFile)
	if err != nil {
		logger.Error("Failed to connect to Firestore", "error", err)
		log.Fatalf("Failed to connect to Firestore: %v", err)
	}
	defer remote.Close()

	// Initialize services; the job runner never sends mail
	cache := postgres.NewInventoryCache(db)
	gateway := firestore.NewGateway(remote)
	rentalMgr := service.NewRentalManager(gateway)
	rentingSvc := service.NewRentingDataProvider(cache, gateway, rentalMgr, nil)

	jobRunner := jobs.NewJobRunner(rentingSvc, cfg)

	// Run-once mode for manual execution and debugging
	if *runOnce != "" {
		switch *runOnce {
		case "refresh-catalog":
			jobRunner.RefreshCatalog()
		default:
			log.Fatalf("Unknown job: %s", *runOnce)
		}
		logger.Info("Run-once job finished", "job", *runOnce)
		return
	}

	// Scheduled mode: run until interrupted
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sched.Stop()
}
