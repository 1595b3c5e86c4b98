package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"finflow/internal/config"
	"finflow/internal/crypto"
	"finflow/internal/database"
	"finflow/internal/database/migration"
	"finflow/internal/otel"
	"finflow/internal/queue"
	"finflow/internal/reconcile"
	"finflow/internal/repository/postgres"
	"finflow/internal/result"
	"finflow/internal/storage"
	"finflow/internal/worker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()

	shutdownTracing, err := otel.Init(ctx, time.UTC)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, time.UTC, cfg.Database.Host); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	jobQueue := queue.NewRedis(rdb, cfg.Redis.QueueKey)
	results := result.NewRedis(rdb, cfg.Redis.ResultTTL)

	docRepo := postgres.NewDocumentPostgres(db)
	txnRepo := postgres.NewTransactionPostgres(db)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics, err := worker.NewMetrics(reg)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}

	pipeline := worker.NewPipeline(objStore, crypto.XORDecryptor{}, docRepo, txnRepo, results, logger, metrics)
	pool := worker.NewPool(jobQueue, pipeline, cfg.Worker.Count, cfg.Worker.JobTimeout, logger)

	sweeper, err := reconcile.NewSweeper(docRepo, cfg.Worker.ReconcileInterval, cfg.Worker.ReconcileMinAge, logger, reg)
	if err != nil {
		log.Fatalf("failed to initialize reconciliation sweeper: %v", err)
	}
	go sweeper.Run(ctx)

	// Expose worker metrics on a side listener
	metricsSrv := &http.Server{
		Addr:    cfg.Worker.MetricsAddr,
		Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics listener failed", "error", err)
		}
	}()

	logger.Info("worker process started",
		"workers", cfg.Worker.Count,
		"queue_key", cfg.Redis.QueueKey,
		"metrics_addr", cfg.Worker.MetricsAddr,
	)

	// Blocks until SIGINT/SIGTERM; in-flight jobs run to a terminal state.
	pool.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics listener shutdown failed", "error", err)
	}
	logger.Info("worker process stopped")
}
