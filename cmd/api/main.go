package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/user/esg-discovery/internal/adapter/chromefetch"
	"github.com/user/esg-discovery/internal/adapter/ddg"
	"github.com/user/esg-discovery/internal/adapter/httpfetch"
	"github.com/user/esg-discovery/internal/adapter/pdftext"
	"github.com/user/esg-discovery/internal/adapter/postgres"
	redis_adapter "github.com/user/esg-discovery/internal/adapter/redis"
	"github.com/user/esg-discovery/internal/delivery/http/handler"
	"github.com/user/esg-discovery/internal/delivery/http/router"
	"github.com/user/esg-discovery/internal/discovery"
	"github.com/user/esg-discovery/internal/usecase"
	"github.com/user/esg-discovery/pkg/config"
	"github.com/user/esg-discovery/pkg/logger"
	"github.com/user/esg-discovery/pkg/metrics"
)

const workerPollInterval = 2 * time.Second

func main() {
	// --- Configuration ---
	cfg := config.Load()

	// --- Logger ---
	logLevel := logger.ParseLevel(cfg.LogLevel)
	logger.Init(os.Stdout, logLevel)
	slog.Info("Logger initialized", "level", logLevel.String())

	// --- Metrics ---
	metrics.Init()
	slog.Info("Metrics initialized")

	// --- Database Connections ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// PostgreSQL
	pgConnString := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresDB)
	dbpool, err := pgxpool.New(ctx, pgConnString)
	if err != nil {
		slog.Error("Unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()
	if err := postgres.EnsureSchema(ctx, dbpool); err != nil {
		slog.Error("Unable to prepare database schema", "error", err)
		os.Exit(1)
	}
	slog.Info("PostgreSQL connection pool established")

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		slog.Error("Unable to connect to Redis", "error", err)
		os.Exit(1)
	}
	slog.Info("Redis connection established")

	// --- Repositories ---
	queueRepo := redis_adapter.NewQueueRepo(rdb)
	jobStatusRepo := redis_adapter.NewJobStatusRepo(rdb)
	documentRepo := postgres.NewDocumentRepo(dbpool)
	hubOverrideRepo := postgres.NewHubOverrideRepo(dbpool)

	// --- Adapters ---
	httpClient := httpfetch.New(cfg.FetchTimeout, cfg.ProbeTimeout, cfg.DownloadTimeout)
	renderer := chromefetch.New(cfg.RenderTimeout, cfg.RenderSettle)
	searchProvider := ddg.New(cfg.FetchTimeout)
	pdfExtractor := pdftext.New()

	// --- Discovery Pipeline ---
	resolver := discovery.NewResolver(searchProvider, hubOverrideRepo)
	crawler := discovery.NewCrawler(httpClient, renderer, discovery.CrawlConfig{
		MaxHubPages:   cfg.MaxHubPages,
		MaxDepth:      cfg.MaxCrawlDepth,
		MaxCandidates: cfg.MaxCandidates,
	})
	verifier := discovery.NewVerifier(httpClient, pdfExtractor, discovery.VerifierConfig{
		Workers:        cfg.VerifyWorkers,
		MinPDFBytes:    cfg.MinPDFBytes,
		MaxPDFDownload: cfg.MaxPDFDownload,
	})
	pipeline := discovery.NewPipeline(resolver, crawler, verifier, searchProvider, cfg.MaxResults)

	// --- Use Cases ---
	manager := usecase.NewDiscoveryManager(queueRepo, jobStatusRepo, documentRepo, cfg.JobStatusExpiry)
	worker := usecase.NewDiscoveryWorker(queueRepo, jobStatusRepo, documentRepo, pipeline, cfg.JobStatusExpiry)
	library := usecase.NewLibrary(documentRepo, hubOverrideRepo)

	// --- Discovery Worker ---
	go runWorker(ctx, worker)

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(manager, library)
	httpRouter := router.New(apiHandler)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      httpRouter,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown failed", "error", err)
		}
	}()

	slog.Info("Starting server", "port", cfg.ServerPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Could not listen on port", "port", cfg.ServerPort, "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped")
}

// runWorker polls the queue until the context is cancelled. Discovery jobs
// run one at a time; concurrency lives inside the verification stage.
func runWorker(ctx context.Context, worker usecase.DiscoveryWorker) {
	ticker := time.NewTicker(workerPollInterval)
	defer ticker.Stop()

	slog.Info("Discovery worker started", "poll_interval", workerPollInterval.String())
	for {
		select {
		case <-ctx.Done():
			slog.Info("Discovery worker stopped")
			return
		case <-ticker.C:
			if err := worker.ProcessJobFromQueue(ctx); err != nil {
				slog.Error("Discovery job failed", "error", err)
			}
		}
	}
}
