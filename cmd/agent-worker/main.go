// The agent-worker binary consumes funnel drop-off events and conversation
// jobs from SQS, so re-engagement outreach keeps flowing even when no API
// caller is waiting for the reply.
package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/jupitermoney/edge-agent/cmd/mainconfig"
	"github.com/jupitermoney/edge-agent/internal/agent"
	"github.com/jupitermoney/edge-agent/internal/app/bootstrap"
	appconfig "github.com/jupitermoney/edge-agent/internal/config"
	"github.com/jupitermoney/edge-agent/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting edge-agent worker", "env", cfg.Env)

	if cfg.UseMemoryQueue {
		logger.Error("worker cannot run with USE_MEMORY_QUEUE=true; run inline workers via the API process instead")
		os.Exit(1)
	}
	if cfg.MessageQueueURL == "" {
		logger.Error("MESSAGE_QUEUE_URL is required")
		os.Exit(1)
	}

	ctx := context.Background()

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err.Error())
		os.Exit(1)
	}

	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		sqlDB, err = sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open database", "error", err.Error())
			os.Exit(1)
		}
		defer sqlDB.Close()
	}

	runtime, err := bootstrap.BuildRuntime(ctx, cfg, awsCfg, sqlDB, logger)
	if err != nil {
		logger.Error("failed to build conversation runtime", "error", err.Error())
		os.Exit(1)
	}
	defer runtime.Close()

	queue := agent.NewSQSQueue(sqs.NewFromConfig(awsCfg), cfg.MessageQueueURL)
	dispatcher := agent.NewQueueDispatcher(runtime.Engine, queue, logger,
		agent.WithWorkerCount(cfg.WorkerCount),
		agent.WithReceiveWaitSeconds(10),
	)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down worker...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		logger.Error("worker shutdown timed out", "error", err.Error())
		os.Exit(1)
	}

	logger.Info("worker stopped")
}
