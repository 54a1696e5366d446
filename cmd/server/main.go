package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"

	api "fleetrent-backend/internal/api/http"
	"fleetrent-backend/internal/config"
	"fleetrent-backend/internal/logger"
	"fleetrent-backend/internal/repository"
	"fleetrent-backend/internal/repository/memory"
	"fleetrent-backend/internal/repository/postgres"
	"fleetrent-backend/internal/service"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load environment variables from .env when present
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting FleetRent backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Cart configuration", "storage", cfg.Cart.Storage)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	if err := runMigrations(db, cfg.Database.MigrationsPath); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		log.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Database schema up to date")

	// Initialize Repositories
	store := postgres.NewStore(db)

	var cartRepo repository.CartRepository
	if cfg.Cart.Storage == "memory" {
		logger.Info("Using in-memory cart storage")
		cartRepo = memory.NewCartRepository()
	} else {
		cartRepo = store.CartRepository
	}

	// Initialize Services
	emailSvc := service.NewEmailService(
		cfg.SMTP.Host,
		fmt.Sprintf("%d", cfg.SMTP.Port),
		cfg.SMTP.User,
		cfg.SMTP.Password,
		cfg.SMTP.From,
	)
	cartSvc := service.NewCartService(cartRepo, store.VehicleRepository, store.OrderRepository, emailSvc)
	orderSvc := service.NewOrderService(store.OrderRepository, emailSvc)
	vehicleSvc := service.NewVehicleService(store.VehicleRepository)

	// Initialize HTTP API
	router := api.NewRouter(
		api.NewCartHandler(cartSvc),
		api.NewOrderHandler(orderSvc),
		api.NewVehicleHandler(vehicleSvc),
	)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server stopped", "error", err)
		log.Fatalf("HTTP server stopped: %v", err)
	}
}

func runMigrations(db *sql.DB, migrationsPath string) error {
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}
	return nil
}
