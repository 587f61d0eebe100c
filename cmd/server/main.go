package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	httpapi "volunteerhub-backend/internal/api/http"
	"volunteerhub-backend/internal/config"
	"volunteerhub-backend/internal/events"
	"volunteerhub-backend/internal/logger"
	"volunteerhub-backend/internal/repository/postgres"
	"volunteerhub-backend/internal/security"
	"volunteerhub-backend/internal/service"
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
	logger.Info("Starting VolunteerHub Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize Event Bus
	bus := events.NewBus()

	// Initialize Services
	emailSvc := service.NewEmailService(cfg.SendGrid)
	taskSvc := service.NewTaskService(store.TaskRepository)
	assignmentSvc := service.NewAssignmentService(
		store.AssignmentRepository,
		store.TaskRepository,
		store.VolunteerRepository,
		bus,
		time.Duration(cfg.Engine.ResponseWindowHours)*time.Hour,
	)
	dispatchSvc := service.NewDispatchService(
		store.AssignmentRepository,
		store.TaskRepository,
		store.EventRepository,
		store.VolunteerRepository,
		store.NotificationRepository,
		emailSvc,
		bus,
		service.DispatchConfig{
			BaseURL:        cfg.Engine.BaseURL,
			ResponseWindow: time.Duration(cfg.Engine.ResponseWindowHours) * time.Hour,
			MaxAttempts:    cfg.Engine.DispatchMaxAttempts,
			InitialBackoff: time.Duration(cfg.Engine.DispatchBackoffMillis) * time.Millisecond,
		},
	)
	responseSvc := service.NewResponseService(
		store.AssignmentRepository,
		store.TaskRepository,
		store.EventRepository,
		store.VolunteerRepository,
		store.NotificationRepository,
		emailSvc,
		bus,
		cfg.Engine.AdminEmail,
	)
	pointsSvc := service.NewPointsService(
		store.PointsRepository,
		store.AssignmentRepository,
		store.TaskRepository,
		cfg.Engine.CompletionRewardPoints,
	)
	projectorSvc := service.NewProjectorService(store.AssignmentRepository, bus)
	defer projectorSvc.Close()
	noteSvc := service.NewNotificationService(store.NotificationRepository)

	// Set up HTTP server
	router := httpapi.NewRouter(httpapi.Services{
		Task:         taskSvc,
		Assignment:   assignmentSvc,
		Dispatch:     dispatchSvc,
		Response:     responseSvc,
		Points:       pointsSvc,
		Projector:    projectorSvc,
		Notification: noteSvc,
	}, tokenManager, bus)

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		// The SSE feed holds its connection open; no write timeout.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
