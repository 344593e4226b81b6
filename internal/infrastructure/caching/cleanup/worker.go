package cleanup

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/logging"
)

// Worker sweeps expired reports out of the report store.
type Worker struct {
	scores  *stores.ScoreStore
	reports *stores.ReportStore
	config  *Config
	logger  *logging.ChanneledLogger
}

// NewWorker creates a new cleanup worker with injected configuration
func NewWorker(scores *stores.ScoreStore, reports *stores.ReportStore, config *Config, logger *logging.ChanneledLogger) *Worker {
	return &Worker{
		scores:  scores,
		reports: reports,
		config:  config,
		logger:  logger,
	}
}

// Start runs the sweep on the configured interval until ctx is done.
func (w *Worker) Start(ctx context.Context) {
	if w.config.CleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(w.config.CleanupInterval)
	defer ticker.Stop()

	w.logger.Cache().Info("Cache cleanup worker started",
		"interval", w.config.CleanupInterval, "verbose", w.config.VerboseReporting)

	for {
		select {
		case <-ctx.Done():
			w.logger.Cache().Info("Cache cleanup worker stopping")
			return
		case <-ticker.C:
			w.performCleanup()
		}
	}
}

// performCleanup purges expired reports and returns how many were removed.
func (w *Worker) performCleanup() int {
	start := time.Now()

	if w.config.VerboseReporting {
		reporter := NewReporter(w.scores, w.reports, os.Stdout)
		reporter.LogStage("PERIODIC CACHE CLEANUP")
		fmt.Print(reporter.GenerateCacheReport(start))
	}

	cleaned := w.reports.PurgeExpired()
	if cleaned > 0 {
		w.logger.Cache().Info("Cache cleanup finished", "purged", cleaned, "duration", time.Since(start))
	} else if w.config.VerboseReporting {
		w.logger.Cache().Debug("Cache cleanup completed with no expired reports", "duration", time.Since(start))
	}
	return cleaned
}
