// Package repositories defines the data-access contracts the insights engine
// consumes. Implementations live under internal/infrastructure.
package repositories

import (
	"context"

	"github.com/AtRiskMedia/tractstack-seo/internal/domain/entities/seo"
)

// RankingProvider returns search ranking and impression data per content key
// for the configured metrics window.
type RankingProvider interface {
	Name() string
	FetchRanking(ctx context.Context) (map[seo.ContentKey]seo.RankingMetrics, error)
}

// EngagementProvider returns merged site-engagement data per content key.
type EngagementProvider interface {
	Name() string
	FetchEngagement(ctx context.Context) (map[seo.ContentKey]seo.EngagementMetrics, error)
}

// QueryProvider returns the search queries the site was shown for.
type QueryProvider interface {
	Name() string

	// FetchRelatedQueries returns up to rowLimit queries containing keyword.
	FetchRelatedQueries(ctx context.Context, keyword string, rowLimit int) ([]seo.RelatedQuery, error)

	// FetchCategoryQueries returns up to rowLimit queries that led to the
	// category index page.
	FetchCategoryQueries(ctx context.Context, category string, rowLimit int) ([]seo.RelatedQuery, error)
}

// ArticleRepository reads published articles from the content store.
type ArticleRepository interface {
	// ListPublished returns every published article without markup.
	ListPublished(ctx context.Context) ([]seo.Article, error)

	// FindMarkupBySlugs returns published articles with markup, keyed by
	// slug. Unknown slugs are absent from the result.
	FindMarkupBySlugs(ctx context.Context, slugs []string) (map[string]seo.Article, error)
}
