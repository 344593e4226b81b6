package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AtRiskMedia/tractstack-seo/internal/domain/entities/seo"
	"github.com/AtRiskMedia/tractstack-seo/internal/domain/queries"
	"github.com/AtRiskMedia/tractstack-seo/internal/domain/repositories"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/performance"
)

const (
	defaultRelatedLimit   = 20
	defaultCategoryLimit  = 15
	defaultOptimalQueries = 10
	optimalQueryPool      = 50
)

// QueryService serves the search queries a writer should weave into a new
// article, cached in the report store.
type QueryService struct {
	provider    repositories.QueryProvider
	reports     *stores.ReportStore
	timeout     time.Duration
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewQueryService creates a query service. A zero timeout leaves provider
// calls bounded only by the caller's context.
func NewQueryService(
	provider repositories.QueryProvider,
	reports *stores.ReportStore,
	timeout time.Duration,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *QueryService {
	return &QueryService{
		provider:    provider,
		reports:     reports,
		timeout:     timeout,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// GetRelatedQueries returns up to limit queries containing keyword with at
// least seo.MinImpressions impressions. A zero limit means 20. A failed
// provider call is logged and yields an uncached empty list.
func (s *QueryService) GetRelatedQueries(ctx context.Context, keyword string, limit int) ([]seo.RelatedQuery, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, fmt.Errorf("%w: keyword is required", seo.ErrInvalidFilter)
	}
	limit, err := queryLimit(limit, defaultRelatedLimit)
	if err != nil {
		return nil, err
	}

	signature := fmt.Sprintf("related|%s|%d", keyword, limit)
	return s.cached(ctx, signature, func(callCtx context.Context) ([]seo.RelatedQuery, error) {
		// twice limit; the impressions floor trims the rest
		rows, err := s.provider.FetchRelatedQueries(callCtx, keyword, limit*2)
		if err != nil {
			return nil, err
		}
		return queries.Filter(rows, seo.MinImpressions, limit), nil
	})
}

// SelectOptimalQueries picks the best maxQueries of the keyword's related
// queries. A zero maxQueries means 10.
func (s *QueryService) SelectOptimalQueries(ctx context.Context, keyword string, maxQueries int, longTail bool) ([]seo.RelatedQuery, error) {
	maxQueries, err := queryLimit(maxQueries, defaultOptimalQueries)
	if err != nil {
		return nil, err
	}
	pool, err := s.GetRelatedQueries(ctx, keyword, optimalQueryPool)
	if err != nil {
		return nil, err
	}
	return queries.Select(pool, maxQueries, longTail), nil
}

// GetPopularQueriesByCategory returns the queries leading to the category
// index page. A zero limit means 15.
func (s *QueryService) GetPopularQueriesByCategory(ctx context.Context, category string, limit int) ([]seo.RelatedQuery, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, fmt.Errorf("%w: category is required", seo.ErrInvalidFilter)
	}
	limit, err := queryLimit(limit, defaultCategoryLimit)
	if err != nil {
		return nil, err
	}

	signature := fmt.Sprintf("category|%s|%d", category, limit)
	return s.cached(ctx, signature, func(callCtx context.Context) ([]seo.RelatedQuery, error) {
		return s.provider.FetchCategoryQueries(callCtx, category, limit)
	})
}

// GetQueriesPromptText renders the keyword's related queries as a brief.
// No queries renders the empty string.
func (s *QueryService) GetQueriesPromptText(ctx context.Context, keyword string) (string, error) {
	qs, err := s.GetRelatedQueries(ctx, keyword, 0)
	if err != nil {
		return "", err
	}
	return queries.RenderPrompt(qs), nil
}

func (s *QueryService) cached(ctx context.Context, signature string, fetch func(context.Context) ([]seo.RelatedQuery, error)) ([]seo.RelatedQuery, error) {
	if qs, ok := stores.Lookup[[]seo.RelatedQuery](s.reports, stores.ReportQueries, signature); ok {
		return qs, nil
	}

	start := time.Now()
	marker := s.perfTracker.StartOperation("provider:"+s.provider.Name(), signature)
	defer marker.Complete()

	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	qs, err := fetch(callCtx)
	if err != nil {
		marker.SetError(err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.logger.LogProviderFailure(s.provider.Name(), err, time.Since(start))
		return []seo.RelatedQuery{}, nil
	}
	if qs == nil {
		qs = []seo.RelatedQuery{}
	}

	s.reports.Set(stores.ReportQueries, signature, qs)
	marker.AddMetadata("queries", len(qs))
	s.logger.Analytics().Info("Search queries loaded",
		"signature", signature,
		"queries", len(qs),
		"duration", time.Since(start))
	return qs, nil
}

func (s *QueryService) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func queryLimit(limit, fallback int) (int, error) {
	switch {
	case limit < 0:
		return 0, fmt.Errorf("%w: limit must not be negative", seo.ErrInvalidFilter)
	case limit == 0:
		return fallback, nil
	default:
		return limit, nil
	}
}
