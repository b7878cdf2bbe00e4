// Package main is the entry point for the boliganalyse API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/joakiti/boliganalyse-ai-server/internal/config"
	"github.com/joakiti/boliganalyse-ai-server/internal/database"
	"github.com/joakiti/boliganalyse-ai-server/internal/http/handlers"
	"github.com/joakiti/boliganalyse-ai-server/internal/logging"
	"github.com/joakiti/boliganalyse-ai-server/internal/repository"
	"github.com/joakiti/boliganalyse-ai-server/internal/service"
	"github.com/joakiti/boliganalyse-ai-server/internal/version"
	"github.com/joakiti/boliganalyse-ai-server/internal/worker"
)

func main() {
	logger := logging.SetDefault()

	v := version.Get()
	logger.Info("starting boliganalyse-api",
		"version", v.Version,
		"commit", v.Commit,
		"built", v.Date,
		"go_version", v.GoVersion,
	)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := database.MigrateWithLogger(db, logger); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	repos := repository.NewRepositories(db)

	// Listings stuck mid-pipeline from a previous run are timed out so
	// they do not appear to be processing forever.
	staleCount, err := repos.Listing.MarkStaleRunningFailed(context.Background(), cfg.StaleJobMaxAge)
	if err != nil {
		logger.Warn("failed to clean up stale listings", "error", err)
	} else if staleCount > 0 {
		logger.Info("timed out stale listings", "count", staleCount)
	}

	services := service.NewServices(cfg, repos, logger)

	analysisWorker := worker.New(
		repos.Listing,
		services.Analysis,
		worker.Config{
			PollInterval: cfg.WorkerPollInterval,
			Concurrency:  cfg.WorkerConcurrency,
		},
		logger,
	)
	ctx, cancel := context.WithCancel(context.Background())
	analysisWorker.Start(ctx)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Submissions are cheap to accept but expensive to process.
	router.Use(middleware.RequestSize(64 * 1024))
	router.Use(httprate.LimitByIP(60, time.Minute))
	router.Use(middleware.Throttle(100))

	humaConfig := huma.DefaultConfig("Boliganalyse API", v.Version)
	humaConfig.Info.Description = "Analyserer danske boligannoncer med LLM-baseret risiko- og fordelsvurdering."
	humaConfig.Servers = []*huma.Server{
		{URL: cfg.BaseURL, Description: "API Server"},
	}
	api := humachi.New(router, humaConfig)

	// Kubernetes probes, hidden from the docs.
	hiddenConfig := huma.DefaultConfig("Boliganalyse API", v.Version)
	hiddenConfig.DocsPath = ""
	hiddenConfig.OpenAPIPath = ""
	hiddenConfig.SchemasPath = ""
	hiddenAPI := humachi.New(router, hiddenConfig)

	huma.Get(api, "/api/v1/health", handlers.HealthCheck)
	huma.Get(hiddenAPI, "/healthz", handlers.Livez)
	huma.Get(hiddenAPI, "/readyz", handlers.NewReadyzHandler(db).Readyz)

	analyzeHandler := handlers.NewAnalyzeHandler(services.Analysis)
	huma.Register(api, huma.Operation{
		OperationID:   "submitAnalysis",
		Method:        http.MethodPost,
		Path:          "/api/v1/analyze",
		Summary:       "Submit a listing for analysis",
		Tags:          []string{"Analyze"},
		DefaultStatus: http.StatusAccepted,
	}, analyzeHandler.SubmitAnalysis)
	huma.Register(api, huma.Operation{
		OperationID: "getAnalysis",
		Method:      http.MethodGet,
		Path:        "/api/v1/analyze/{listing_id}",
		Summary:     "Get analysis status and result",
		Tags:        []string{"Analyze"},
	}, analyzeHandler.GetAnalysis)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
		<-sigChan

		logger.Info("shutting down server")

		// Stop the worker first so no listing is claimed mid-shutdown
		cancel()
		analysisWorker.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
		}
	}()

	logger.Info("starting server", "port", cfg.Port, "base_url", cfg.BaseURL)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
