package services

import (
	"context"
	"time"

	"github.com/AtRiskMedia/tractstack-seo/internal/domain/entities/seo"
	"github.com/AtRiskMedia/tractstack-seo/internal/domain/style"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/performance"
)

// StyleService measures the writing style of the success set.
type StyleService struct {
	selector    *SuccessSetService
	loader      *DocumentLoader
	analyzer    *style.Analyzer
	reports     *stores.ReportStore
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewStyleService creates a style service around analyzer.
func NewStyleService(
	selector *SuccessSetService,
	loader *DocumentLoader,
	analyzer *style.Analyzer,
	reports *stores.ReportStore,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *StyleService {
	return &StyleService{
		selector:    selector,
		loader:      loader,
		analyzer:    analyzer,
		reports:     reports,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// GetStyleAnalysis returns the style report for filter. An empty success set
// or a failed content lookup yields the fallback analysis.
func (s *StyleService) GetStyleAnalysis(ctx context.Context, filter seo.SuccessFilter) (style.Analysis, error) {
	filter = withLimit(filter, styleSampleLimit)
	if a, ok := stores.Lookup[style.Analysis](s.reports, stores.ReportStyle, filter.Signature()); ok {
		return a, nil
	}

	start := time.Now()
	marker := s.perfTracker.StartOperation("patterns:style", filter.Signature())
	defer marker.Complete()

	items, err := s.selector.Select(ctx, filter)
	if err != nil {
		marker.SetError(err)
		return style.Analysis{}, err
	}
	docs, err := s.loader.Load(ctx, items)
	if err != nil {
		s.logger.Content().Error("Content lookup failed, using fallback style", "error", err, "filter", filter.Signature())
		docs = nil
	}

	a := s.analyzer.Analyze(docs)
	s.reports.Set(stores.ReportStyle, filter.Signature(), a)

	s.logger.Analytics().Info("Style analyzed",
		"filter", filter.Signature(),
		"sampleSize", a.SampleSize,
		"fallback", a.Fallback,
		"duration", time.Since(start))
	return a, nil
}

// GetStylePromptText renders the style analysis of filter as a prompt brief.
func (s *StyleService) GetStylePromptText(ctx context.Context, filter seo.SuccessFilter) (string, error) {
	a, err := s.GetStyleAnalysis(ctx, filter)
	if err != nil {
		return "", err
	}
	return style.RenderPrompt(a), nil
}
