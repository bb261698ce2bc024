package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oakfield-labs/clinic-scheduler/cmd/mainconfig"
	"github.com/oakfield-labs/clinic-scheduler/internal/api/router"
	"github.com/oakfield-labs/clinic-scheduler/internal/app/bootstrap"
	appconfig "github.com/oakfield-labs/clinic-scheduler/internal/config"
	"github.com/oakfield-labs/clinic-scheduler/internal/http/handlers"
	"github.com/oakfield-labs/clinic-scheduler/internal/mailroom"
	"github.com/oakfield-labs/clinic-scheduler/internal/messagelog"
	"github.com/oakfield-labs/clinic-scheduler/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinic-scheduler API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"memory_queue", cfg.UseMemoryQueue,
	)

	ctx := context.Background()

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	engine, err := bootstrap.BuildEngine(ctx, cfg, awsCfg, prometheus.DefaultRegisterer, logger)
	if err != nil {
		logger.Error("failed to build booking engine", "error", err)
		os.Exit(1)
	}

	msgStore := connectMessageLog(cfg.DatabaseURL, logger)

	var (
		dispatcher *mailroom.Dispatcher
		publisher  *mailroom.Publisher
		jobs       mailroom.JobRecorder
	)
	if cfg.UseMemoryQueue {
		// Single-binary mode: the webhook response carries the actual outcome.
		dispatcher = mailroom.NewDispatcher(engine.Orchestrator, mailroom.NewMemoryQueue(128), logger,
			mailroom.WithConsumerCount(cfg.WorkerCount),
		)
	} else {
		queue := mailroom.NewSQSQueue(sqs.NewFromConfig(awsCfg), cfg.InboundQueueURL)
		publisher = mailroom.NewPublisher(queue, logger)
		jobs = mailroom.NewJobStore(dynamodb.NewFromConfig(awsCfg), cfg.MessageJobsTable, logger)
	}

	inboundHandler := handlers.NewInboundEmailHandler(dispatcher, publisher, jobs, logger)
	adminHandler := handlers.NewAdminHandler(handlers.AdminConfig{
		Doctor:       cfg.DoctorName,
		Location:     engine.Location,
		Availability: engine.Availability,
		Calendar:     engine.Calendar,
		Messages:     msgStore,
		Jobs:         jobs,
		Logger:       logger,
	})

	r := router.New(&router.Config{
		Logger:          logger,
		InboundEmail:    inboundHandler,
		Admin:           adminHandler,
		MetricsHandler:  promhttp.Handler(),
		AdminAuthSecret: cfg.AdminJWTSecret,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	if dispatcher != nil {
		if err := dispatcher.Shutdown(shutdownCtx); err != nil {
			logger.Error("dispatcher forced to shutdown", "error", err)
		}
	}

	logger.Info("server stopped")
}

// connectMessageLog opens the Postgres-backed message log, or returns nil so
// the admin endpoint reports it as unconfigured.
func connectMessageLog(databaseURL string, logger *logging.Logger) *messagelog.Store {
	if databaseURL == "" {
		logger.Warn("no DATABASE_URL configured; message log disabled")
		return nil
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		logger.Error("failed to open message log database", "error", err)
		return nil
	}
	if err := db.Ping(); err != nil {
		logger.Warn("message log database not reachable", "error", err)
	}
	return messagelog.NewStore(db)
}
