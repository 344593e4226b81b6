package services

import (
	"context"
	"time"

	"github.com/AtRiskMedia/tractstack-seo/internal/domain/entities/seo"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/monitoring"
)

// WarmingService primes the score corpus and the default reports so the
// first dashboard request does not wait on the providers.
type WarmingService struct {
	insights *InsightsService
	monitor  *monitoring.CachePerformanceMonitor
	logger   *logging.ChanneledLogger
}

// NewWarmingService creates a warming service over the consumer facade.
// monitor may be nil.
func NewWarmingService(insights *InsightsService, monitor *monitoring.CachePerformanceMonitor, logger *logging.ChanneledLogger) *WarmingService {
	return &WarmingService{insights: insights, monitor: monitor, logger: logger}
}

// WarmResult summarizes one warming pass.
type WarmResult struct {
	Items     int
	Synthetic bool
	Reports   int
	Duration  time.Duration
}

// Warm computes the corpus, then the structural, success and style reports
// of the default filter. Report failures are logged and skipped.
func (w *WarmingService) Warm(ctx context.Context) (*WarmResult, error) {
	start := time.Now()
	w.logger.Cache().Info("Starting cache warming")

	corpus, err := w.insights.GetScores(ctx, false)
	if err != nil {
		w.logger.Cache().Error("Score warming failed", "error", err, "duration", time.Since(start))
		if w.monitor != nil {
			w.monitor.RecordWarmingOperation(time.Since(start), 0, false)
		}
		return nil, err
	}

	result := &WarmResult{Items: len(corpus.Scores), Synthetic: corpus.Synthetic}
	filter := seo.SuccessFilter{MinRank: seo.RankA}

	steps := []struct {
		name string
		run  func() error
	}{
		{"structure", func() error { _, err := w.insights.GetStructuralPattern(ctx, filter); return err }},
		{"success", func() error { _, err := w.insights.GetSuccessPattern(ctx, filter); return err }},
		{"style", func() error { _, err := w.insights.GetStyleAnalysis(ctx, filter); return err }},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			w.logger.Cache().Warn("Report warming failed", "report", step.name, "error", err)
			continue
		}
		result.Reports++
	}

	result.Duration = time.Since(start)
	if w.monitor != nil {
		w.monitor.RecordWarmingOperation(result.Duration, result.Items+result.Reports, true)
	}
	w.logger.Cache().Info("Cache warming completed",
		"items", result.Items,
		"synthetic", result.Synthetic,
		"reports", result.Reports,
		"duration", result.Duration)
	return result, nil
}
