package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/oakfield-labs/clinic-scheduler/cmd/mainconfig"
	"github.com/oakfield-labs/clinic-scheduler/internal/app/bootstrap"
	appconfig "github.com/oakfield-labs/clinic-scheduler/internal/config"
	"github.com/oakfield-labs/clinic-scheduler/internal/mailroom"
	"github.com/oakfield-labs/clinic-scheduler/internal/messagelog"
	"github.com/oakfield-labs/clinic-scheduler/internal/referrals"
	"github.com/oakfield-labs/clinic-scheduler/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinic-scheduler worker", "env", cfg.Env)

	if cfg.InboundQueueURL == "" {
		logger.Error("INBOUND_QUEUE_URL is required; the worker only consumes from SQS")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	queue := mailroom.NewSQSQueue(sqs.NewFromConfig(awsCfg), cfg.InboundQueueURL)
	jobStore := mailroom.NewJobStore(dynamodb.NewFromConfig(awsCfg), cfg.MessageJobsTable, logger)

	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		pool, err = pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Warn("failed to connect pgx pool", "error", err)
			pool = nil
		} else {
			defer pool.Close()
		}
	}
	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	dedup := bootstrap.BuildDedupStore(cfg, pool, redisClient, logger)

	opts := []mailroom.WorkerOption{
		mailroom.WithJobUpdater(jobStore),
		mailroom.WithConsumerTuning(
			mailroom.WithConsumerCount(cfg.WorkerCount),
			mailroom.WithReceiveWaitSeconds(cfg.ReceiveWaitSeconds),
			mailroom.WithReceiveBatchSize(cfg.ReceiveBatchSize),
		),
	}
	if dedup != nil {
		opts = append(opts, mailroom.WithDedupStore(dedup))
	}
	if cfg.ReferralBucket != "" {
		archiver := referrals.NewStore(s3.NewFromConfig(awsCfg), cfg.ReferralBucket, logger)
		opts = append(opts, mailroom.WithReferralArchiver(archiver))
	}
	if cfg.DatabaseURL != "" {
		if db, err := sql.Open("postgres", cfg.DatabaseURL); err == nil {
			opts = append(opts, mailroom.WithMessageRecorder(messagelog.NewStore(db)))
		} else {
			logger.Warn("failed to open message log database", "error", err)
		}
	}

	worker := mailroom.NewWorker(engine.Orchestrator, queue, logger, opts...)
	worker.Start(ctx)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down scheduler worker...")
	cancel()

	doneCtx, doneCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer doneCancel()

	waitCh := make(chan struct{})
	go func() {
		worker.Wait()
		close(waitCh)
	}()

	select {
	case <-waitCh:
		logger.Info("scheduler worker stopped")
	case <-doneCtx.Done():
		logger.Error("scheduler worker shutdown timed out", "error", doneCtx.Err())
	}
}
