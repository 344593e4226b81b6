package services

import (
	"context"
	"time"

	"github.com/AtRiskMedia/tractstack-seo/internal/domain/entities/seo"
	"github.com/AtRiskMedia/tractstack-seo/internal/domain/markup"
	"github.com/AtRiskMedia/tractstack-seo/internal/domain/patterns"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/performance"
)

// Default success-set sizes of the miners.
const (
	structureSampleLimit = 20
	styleSampleLimit     = 15
)

// PatternService mines heading structure from the success set.
type PatternService struct {
	selector    *SuccessSetService
	loader      *DocumentLoader
	reports     *stores.ReportStore
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewPatternService creates a pattern service.
func NewPatternService(
	selector *SuccessSetService,
	loader *DocumentLoader,
	reports *stores.ReportStore,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *PatternService {
	return &PatternService{
		selector:    selector,
		loader:      loader,
		reports:     reports,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// GetStructuralPattern returns the heading report for filter. An empty
// success set or a failed content lookup yields the fallback pattern.
func (s *PatternService) GetStructuralPattern(ctx context.Context, filter seo.SuccessFilter) (patterns.StructuralPattern, error) {
	filter = withLimit(filter, structureSampleLimit)
	if p, ok := stores.Lookup[patterns.StructuralPattern](s.reports, stores.ReportStructure, filter.Signature()); ok {
		return p, nil
	}

	start := time.Now()
	marker := s.perfTracker.StartOperation("patterns:structure", filter.Signature())
	defer marker.Complete()

	docs, err := s.successDocs(ctx, filter)
	if err != nil {
		marker.SetError(err)
		return patterns.StructuralPattern{}, err
	}

	p := patterns.Analyze(docs)
	s.reports.Set(stores.ReportStructure, filter.Signature(), p)

	s.logger.Analytics().Info("Structural pattern analyzed",
		"filter", filter.Signature(),
		"sampleSize", p.SampleSize,
		"archetype", p.Archetype,
		"fallback", p.Fallback,
		"duration", time.Since(start))
	return p, nil
}

// GetOutline expands the structural pattern of filter into an outline for topic.
func (s *PatternService) GetOutline(ctx context.Context, topic string, filter seo.SuccessFilter) ([]patterns.OutlineEntry, error) {
	p, err := s.GetStructuralPattern(ctx, filter)
	if err != nil {
		return nil, err
	}
	return patterns.RecommendOutline(topic, p), nil
}

// GetSuccessPattern returns the coarse per-article aggregate for filter.
func (s *PatternService) GetSuccessPattern(ctx context.Context, filter seo.SuccessFilter) (patterns.SuccessPattern, error) {
	filter = withLimit(filter, structureSampleLimit)
	if p, ok := stores.Lookup[patterns.SuccessPattern](s.reports, stores.ReportSuccess, filter.Signature()); ok {
		return p, nil
	}

	start := time.Now()
	marker := s.perfTracker.StartOperation("patterns:success", filter.Signature())
	defer marker.Complete()

	docs, err := s.successDocs(ctx, filter)
	if err != nil {
		marker.SetError(err)
		return patterns.SuccessPattern{}, err
	}

	p := patterns.AnalyzeSuccess(docs)
	s.reports.Set(stores.ReportSuccess, filter.Signature(), p)

	s.logger.Analytics().Info("Success pattern analyzed",
		"filter", filter.Signature(),
		"articles", len(docs),
		"fallback", p.Fallback,
		"duration", time.Since(start))
	return p, nil
}

// InvalidateReports drops every cached report, style reports included.
func (s *PatternService) InvalidateReports() {
	s.reports.Invalidate()
}

// successDocs loads the markup of the success set. A content-store failure
// is logged and reads as an empty set.
func (s *PatternService) successDocs(ctx context.Context, filter seo.SuccessFilter) ([]markup.Document, error) {
	items, err := s.selector.Select(ctx, filter)
	if err != nil {
		return nil, err
	}
	docs, err := s.loader.Load(ctx, items)
	if err != nil {
		s.logger.Content().Error("Content lookup failed, using fallback pattern", "error", err, "filter", filter.Signature())
		return nil, nil
	}
	return docs, nil
}

// withLimit applies the default rank and a default size to an open filter.
func withLimit(filter seo.SuccessFilter, limit int) seo.SuccessFilter {
	filter = filter.WithDefaults()
	if filter.Limit == 0 {
		filter.Limit = limit
	}
	return filter
}
