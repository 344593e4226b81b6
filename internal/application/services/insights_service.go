package services

import (
	"context"
	"fmt"
	"time"

	"github.com/AtRiskMedia/tractstack-seo/internal/domain/entities/seo"
	"github.com/AtRiskMedia/tractstack-seo/internal/domain/patterns"
	"github.com/AtRiskMedia/tractstack-seo/internal/domain/style"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/logging"
)

const (
	styleExcerptLength  = 500
	defaultSamplesLimit = 3
)

// InsightsService is the consumer-facing surface of the engine. The content
// generation layer and the admin dashboard call only these methods.
type InsightsService struct {
	scores   *ScoreService
	selector *SuccessSetService
	patterns *PatternService
	style    *StyleService
	queries  *QueryService
	loader   *DocumentLoader
	logger   *logging.ChanneledLogger
}

// NewInsightsService creates the consumer facade.
func NewInsightsService(
	scores *ScoreService,
	selector *SuccessSetService,
	patternService *PatternService,
	styleService *StyleService,
	queryService *QueryService,
	loader *DocumentLoader,
	logger *logging.ChanneledLogger,
) *InsightsService {
	return &InsightsService{
		scores:   scores,
		selector: selector,
		patterns: patternService,
		style:    styleService,
		queries:  queryService,
		loader:   loader,
		logger:   logger,
	}
}

// GetScoreSummary returns the dashboard summary of the current corpus.
func (s *InsightsService) GetScoreSummary(ctx context.Context) (*seo.ScoreSummary, error) {
	return s.scores.GetSummary(ctx)
}

// GetScores returns the full corpus, optionally recomputed.
func (s *InsightsService) GetScores(ctx context.Context, forceRefresh bool) (*seo.ScoreCorpus, error) {
	return s.scores.GetScores(ctx, forceRefresh)
}

// Refresh recomputes the corpus and drops every derived report.
func (s *InsightsService) Refresh(ctx context.Context) (*seo.ScoreCorpus, error) {
	start := time.Now()
	corpus, err := s.scores.GetScores(ctx, true)
	if err != nil {
		return nil, err
	}
	s.patterns.InvalidateReports()
	s.logger.Analytics().Info("Scores refreshed", "id", corpus.ID, "items", len(corpus.Scores), "duration", time.Since(start))
	return corpus, nil
}

// GetSuccessSet returns the items passing filter.
func (s *InsightsService) GetSuccessSet(ctx context.Context, filter seo.SuccessFilter) ([]seo.ContentScore, error) {
	return s.selector.Select(ctx, filter)
}

// GetStructuralPattern returns the heading report of the success set.
func (s *InsightsService) GetStructuralPattern(ctx context.Context, filter seo.SuccessFilter) (patterns.StructuralPattern, error) {
	return s.patterns.GetStructuralPattern(ctx, filter)
}

// GetSuccessPattern returns the per-article aggregate of the success set.
func (s *InsightsService) GetSuccessPattern(ctx context.Context, filter seo.SuccessFilter) (patterns.SuccessPattern, error) {
	return s.patterns.GetSuccessPattern(ctx, filter)
}

// GetStyleAnalysis returns the style report of the success set.
func (s *InsightsService) GetStyleAnalysis(ctx context.Context, filter seo.SuccessFilter) (style.Analysis, error) {
	return s.style.GetStyleAnalysis(ctx, filter)
}

// GetStylePromptText renders the style report as a prompt brief.
func (s *InsightsService) GetStylePromptText(ctx context.Context, filter seo.SuccessFilter) (string, error) {
	return s.style.GetStylePromptText(ctx, filter)
}

// GetOutlinePromptText returns the recommended outline for topic.
func (s *InsightsService) GetOutlinePromptText(ctx context.Context, topic string, filter seo.SuccessFilter) ([]patterns.OutlineEntry, error) {
	if topic == "" {
		return nil, fmt.Errorf("%w: topic is required", seo.ErrInvalidFilter)
	}
	return s.patterns.GetOutline(ctx, topic, filter)
}

// GetRelatedQueries returns search queries containing keyword.
func (s *InsightsService) GetRelatedQueries(ctx context.Context, keyword string, limit int) ([]seo.RelatedQuery, error) {
	return s.queries.GetRelatedQueries(ctx, keyword, limit)
}

// GetOptimalQueries returns the related queries most worth targeting.
func (s *InsightsService) GetOptimalQueries(ctx context.Context, keyword string, maxQueries int, longTail bool) ([]seo.RelatedQuery, error) {
	return s.queries.SelectOptimalQueries(ctx, keyword, maxQueries, longTail)
}

// GetPopularQueriesByCategory returns the queries leading to a category page.
func (s *InsightsService) GetPopularQueriesByCategory(ctx context.Context, category string, limit int) ([]seo.RelatedQuery, error) {
	return s.queries.GetPopularQueriesByCategory(ctx, category, limit)
}

// GetQueriesPromptText renders the related queries of keyword as a brief.
func (s *InsightsService) GetQueriesPromptText(ctx context.Context, keyword string) (string, error) {
	return s.queries.GetQueriesPromptText(ctx, keyword)
}

// GetStyleSamples returns long excerpts of S-rank articles in category,
// topped up with A-rank articles when fewer than limit exist.
func (s *InsightsService) GetStyleSamples(ctx context.Context, category string, limit int) ([]patterns.ArticleExcerpt, error) {
	if limit <= 0 {
		limit = defaultSamplesLimit
	}

	items, err := s.selector.Select(ctx, seo.SuccessFilter{MinRank: seo.RankS, Category: category, Limit: limit})
	if err != nil {
		return nil, err
	}
	if len(items) < limit {
		more, err := s.selector.Select(ctx, seo.SuccessFilter{MinRank: seo.RankA, Category: category})
		if err != nil {
			return nil, err
		}
		for _, it := range more {
			if len(items) == limit {
				break
			}
			if it.Rank == seo.RankA {
				items = append(items, it)
			}
		}
	}

	docs, err := s.loader.Load(ctx, items)
	if err != nil {
		s.logger.Content().Error("Failed to load style samples", "error", err, "category", category)
		return []patterns.ArticleExcerpt{}, nil
	}

	out := make([]patterns.ArticleExcerpt, 0, len(docs))
	for _, d := range docs {
		out = append(out, patterns.Excerpt(d, styleExcerptLength))
	}
	return out, nil
}
