package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"volunteerhub-backend/internal/config"
	"volunteerhub-backend/internal/events"
	"volunteerhub-backend/internal/jobs"
	"volunteerhub-backend/internal/logger"
	"volunteerhub-backend/internal/repository/postgres"
	"volunteerhub-backend/internal/scheduler"
	"volunteerhub-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'expire-stale-assignments', 'send-response-reminders', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting VolunteerHub Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
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

	// Initialize Services
	bus := events.NewBus()
	emailSvc := service.NewEmailService(cfg.SendGrid)
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

	jobServices := &jobs.Services{
		Assignment: assignmentSvc,
		Dispatch:   dispatchSvc,
		Email:      emailSvc,
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(db, store, jobServices, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "expire-stale-assignments":
		jobRunner.ExpireStaleAssignments()
	case "send-response-reminders":
		jobRunner.SendResponseReminders()
	case "all":
		jobRunner.RunAllJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
	}
}
