// Package worker polls for queued listings and runs the analysis
// pipeline on them.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/joakiti/boliganalyse-ai-server/internal/models"
	"github.com/joakiti/boliganalyse-ai-server/internal/repository"
)

// processor runs the analysis pipeline on a claimed listing.
type processor interface {
	Run(ctx context.Context, listing *models.Listing) error
}

// Worker processes submitted listings in the background.
type Worker struct {
	listingRepo  repository.ListingRepository
	analysis     processor
	pollInterval time.Duration
	concurrency  int
	stop         chan struct{}
	wg           sync.WaitGroup
	logger       *slog.Logger
}

// Config holds worker configuration.
type Config struct {
	PollInterval time.Duration
	Concurrency  int
}

// New creates a new worker.
func New(listingRepo repository.ListingRepository, analysis processor, cfg Config, logger *slog.Logger) *Worker {
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = 3
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		listingRepo:  listingRepo,
		analysis:     analysis,
		pollInterval: cfg.PollInterval,
		concurrency:  cfg.Concurrency,
		stop:         make(chan struct{}),
		logger:       logger.With("component", "worker"),
	}
}

// Start begins processing listings.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("starting", "concurrency", w.concurrency, "poll_interval", w.pollInterval)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.runWorker(ctx, i)
	}
}

// Stop gracefully stops the worker.
func (w *Worker) Stop() {
	w.logger.Info("stopping")
	close(w.stop)
	w.wg.Wait()
	w.logger.Info("stopped")
}

func (w *Worker) runWorker(ctx context.Context, workerID int) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.processNext(ctx, workerID)
		}
	}
}

func (w *Worker) processNext(ctx context.Context, workerID int) {
	listing, err := w.listingRepo.ClaimPending(ctx)
	if err != nil {
		w.logger.Error("failed to claim listing", "worker_id", workerID, "error", err)
		return
	}
	if listing == nil {
		return // Nothing queued
	}

	w.logger.Info("processing listing", "worker_id", workerID, "listing_id", listing.ID, "url", listing.URL)
	start := time.Now()
	if err := w.analysis.Run(ctx, listing); err != nil {
		w.logger.Error("listing processing failed",
			"worker_id", workerID, "listing_id", listing.ID, "error", err)
		return
	}
	w.logger.Info("listing processed",
		"worker_id", workerID, "listing_id", listing.ID, "duration_ms", time.Since(start).Milliseconds())
}
