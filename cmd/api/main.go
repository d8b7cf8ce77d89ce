package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jupitermoney/edge-agent/cmd/mainconfig"
	"github.com/jupitermoney/edge-agent/internal/agent"
	"github.com/jupitermoney/edge-agent/internal/api/router"
	"github.com/jupitermoney/edge-agent/internal/app/bootstrap"
	appconfig "github.com/jupitermoney/edge-agent/internal/config"
	"github.com/jupitermoney/edge-agent/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting edge-agent API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

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

	dispatcher := buildDispatcher(cfg, awsCfg, runtime, logger)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = dispatcher.Shutdown(shutdownCtx)
	}()

	handler := agent.NewHandler(dispatcher, runtime.Engine, runtime.Offers, runtime.OfferPersist, runtime.Sink, logger)

	r := router.New(&router.Config{
		Logger:          logger,
		AgentHandler:    handler,
		AdminAuthSecret: cfg.AdminJWTSecret,
		MetricsHandler:  promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err.Error())
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
		logger.Error("server forced to shutdown", "error", err.Error())
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildDispatcher runs conversation jobs over the in-memory queue by default
// and over SQS when MESSAGE_QUEUE_URL is configured without USE_MEMORY_QUEUE.
func buildDispatcher(cfg *appconfig.Config, awsCfg aws.Config, runtime *bootstrap.Runtime, logger *logging.Logger) agent.Dispatcher {
	opts := []agent.DispatcherOption{agent.WithWorkerCount(cfg.WorkerCount)}

	if !cfg.UseMemoryQueue && cfg.MessageQueueURL != "" {
		logger.Info("dispatching conversation jobs via SQS", "queue_url", cfg.MessageQueueURL)
		queue := agent.NewSQSQueue(sqs.NewFromConfig(awsCfg), cfg.MessageQueueURL)
		return agent.NewQueueDispatcher(runtime.Engine, queue, logger, opts...)
	}

	logger.Info("dispatching conversation jobs via in-memory queue")
	return agent.NewQueueDispatcher(runtime.Engine, agent.NewMemoryQueue(256), logger, opts...)
}
