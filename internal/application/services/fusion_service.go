// Package services provides application-level orchestration services
package services

import (
	"context"
	"time"

	"github.com/AtRiskMedia/tractstack-seo/internal/domain/entities/seo"
	"github.com/AtRiskMedia/tractstack-seo/internal/domain/repositories"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/performance"
	"golang.org/x/sync/errgroup"
)

// FusionInput is the raw material of one fusion pass.
type FusionInput struct {
	Ranking    map[seo.ContentKey]seo.RankingMetrics
	Engagement map[seo.ContentKey]seo.EngagementMetrics
	Articles   map[seo.ContentKey]seo.ArticleMeta
}

// FusedRecord is one content item ready for scoring.
type FusedRecord struct {
	Key     seo.ContentKey
	Slug    string
	Title   string
	Metrics seo.FusedMetrics
	Facets  seo.Facets
}

// FusionService joins ranking, engagement and content facets by content key.
type FusionService struct {
	ranking     repositories.RankingProvider
	engagement  repositories.EngagementProvider
	articles    repositories.ArticleRepository
	pathPrefix  string
	timeout     time.Duration
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewFusionService creates a fusion service. A zero timeout leaves provider
// calls bounded only by the caller's context.
func NewFusionService(
	ranking repositories.RankingProvider,
	engagement repositories.EngagementProvider,
	articles repositories.ArticleRepository,
	pathPrefix string,
	timeout time.Duration,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *FusionService {
	return &FusionService{
		ranking:     ranking,
		engagement:  engagement,
		articles:    articles,
		pathPrefix:  pathPrefix,
		timeout:     timeout,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// Collect fetches the three sources concurrently. A failing source is logged
// and contributes an empty map; Collect itself never fails.
func (s *FusionService) Collect(ctx context.Context) FusionInput {
	start := time.Now()
	in := FusionInput{
		Ranking:    map[seo.ContentKey]seo.RankingMetrics{},
		Engagement: map[seo.ContentKey]seo.EngagementMetrics{},
		Articles:   map[seo.ContentKey]seo.ArticleMeta{},
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		callCtx, cancel := s.callContext(gctx)
		defer cancel()
		fetchStart := time.Now()
		marker := s.perfTracker.StartOperation("provider:"+s.ranking.Name(), "ranking")
		defer marker.Complete()

		rows, err := s.ranking.FetchRanking(callCtx)
		if err != nil {
			marker.SetError(err)
			s.logger.LogProviderFailure(s.ranking.Name(), err, time.Since(fetchStart))
			return nil
		}
		marker.AddMetadata("rows", len(rows))
		in.Ranking = rows
		return nil
	})

	g.Go(func() error {
		callCtx, cancel := s.callContext(gctx)
		defer cancel()
		fetchStart := time.Now()
		marker := s.perfTracker.StartOperation("provider:"+s.engagement.Name(), "engagement")
		defer marker.Complete()

		rows, err := s.engagement.FetchEngagement(callCtx)
		if err != nil {
			marker.SetError(err)
			s.logger.LogProviderFailure(s.engagement.Name(), err, time.Since(fetchStart))
			return nil
		}
		marker.AddMetadata("rows", len(rows))
		in.Engagement = rows
		return nil
	})

	g.Go(func() error {
		callCtx, cancel := s.callContext(gctx)
		defer cancel()
		fetchStart := time.Now()

		articles, err := s.articles.ListPublished(callCtx)
		if err != nil {
			s.logger.Content().Error("Failed to list published articles", "error", err, "duration", time.Since(fetchStart))
			return nil
		}
		meta := make(map[seo.ContentKey]seo.ArticleMeta, len(articles))
		for _, a := range articles {
			meta[a.Key(s.pathPrefix)] = seo.ArticleMeta{Title: a.Title, Facets: a.Facets}
		}
		in.Articles = meta
		return nil
	})

	// every goroutine swallows its own error
	_ = g.Wait()

	s.logger.Analytics().Info("Metric sources collected",
		"ranking", len(in.Ranking),
		"engagement", len(in.Engagement),
		"articles", len(in.Articles),
		"duration", time.Since(start))
	return in
}

func (s *FusionService) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Fuse joins the collected sources. Ranking is authoritative: only keys with
// ranking data and at least seo.MinImpressions impressions are returned.
// The result is unordered.
func (s *FusionService) Fuse(in FusionInput) []FusedRecord {
	return Fuse(in, s.pathPrefix)
}

// Fuse is the pure join behind FusionService.Fuse.
func Fuse(in FusionInput, pathPrefix string) []FusedRecord {
	out := make([]FusedRecord, 0, len(in.Ranking))
	for key, r := range in.Ranking {
		if r.Impressions < seo.MinImpressions {
			continue
		}

		m := seo.FusedMetrics{
			Position:       r.Position,
			CTR:            r.CTR,
			TransitionRate: seo.DefaultTransitionRate,
			EngagementRate: seo.DefaultEngagementRate,
			Impressions:    r.Impressions,
			Clicks:         r.Clicks,
		}
		if e, ok := in.Engagement[key]; ok {
			m.TransitionRate = e.TransitionRate
			m.Sessions = e.Sessions
			if e.EngagementRate > 0 {
				m.EngagementRate = e.EngagementRate
			}
		}

		rec := FusedRecord{
			Key:     key,
			Slug:    key.Slug(pathPrefix),
			Title:   string(key),
			Metrics: m,
		}
		if a, ok := in.Articles[key]; ok {
			if a.Title != "" {
				rec.Title = a.Title
			}
			rec.Facets = a.Facets
		}
		out = append(out, rec)
	}
	return out
}
