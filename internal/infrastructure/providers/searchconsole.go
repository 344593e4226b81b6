package providers

import (
	"context"
	"fmt"
	"math"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/searchconsole/v1"

	"github.com/AtRiskMedia/tractstack-seo/internal/domain/entities/seo"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/logging"
)

// SearchConsole reads page-level search analytics from Google Search Console.
type SearchConsole struct {
	svc    *searchconsole.Service
	cfg    Config
	logger *logging.ChanneledLogger
	now    func() time.Time
}

// NewSearchConsole builds a read-only Search Console client.
func NewSearchConsole(ctx context.Context, cfg Config, logger *logging.ChanneledLogger) (*SearchConsole, error) {
	if !cfg.RankingConfigured() {
		return nil, ErrNotConfigured
	}
	svc, err := searchconsole.NewService(ctx,
		option.WithCredentialsJSON(cfg.CredentialsJSON),
		option.WithScopes(searchconsole.WebmastersReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create search console service: %w", err)
	}
	return &SearchConsole{svc: svc, cfg: cfg, logger: logger, now: time.Now}, nil
}

func (p *SearchConsole) Name() string { return "search-console" }

// FetchRanking queries the configured window for pages under the path prefix.
func (p *SearchConsole) FetchRanking(ctx context.Context) (map[seo.ContentKey]seo.RankingMetrics, error) {
	start := time.Now()
	from, to := dateRange(p.now(), p.cfg.windowDays())

	req := &searchconsole.SearchAnalyticsQueryRequest{
		StartDate:  from,
		EndDate:    to,
		Dimensions: []string{"page"},
		DimensionFilterGroups: []*searchconsole.ApiDimensionFilterGroup{{
			Filters: []*searchconsole.ApiDimensionFilter{{
				Dimension:  "page",
				Operator:   "contains",
				Expression: p.cfg.PathPrefix,
			}},
		}},
		RowLimit: p.cfg.rowLimit(),
	}

	resp, err := p.svc.Searchanalytics.Query(p.cfg.SiteURL, req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("search analytics query failed: %w", err)
	}

	out := rankingFromRows(resp.Rows, p.cfg.PathPrefix)
	p.logger.Provider().Info("Search Console rows fetched",
		"rows", len(resp.Rows), "pages", len(out), "duration", time.Since(start))
	return out, nil
}

// rankingFromRows keeps leaf article pages and converts CTR to percent.
func rankingFromRows(rows []*searchconsole.ApiDataRow, prefix string) map[seo.ContentKey]seo.RankingMetrics {
	out := make(map[seo.ContentKey]seo.RankingMetrics, len(rows))
	for _, row := range rows {
		if row == nil || len(row.Keys) == 0 {
			continue
		}
		key, ok := seo.KeyFromURL(row.Keys[0], prefix)
		if !ok {
			continue
		}
		out[key] = seo.RankingMetrics{
			Impressions: int(math.Round(row.Impressions)),
			Clicks:      int(math.Round(row.Clicks)),
			CTR:         row.Ctr * 100,
			Position:    row.Position,
		}
	}
	return out
}

// FetchRelatedQueries returns queries containing keyword over the window.
func (p *SearchConsole) FetchRelatedQueries(ctx context.Context, keyword string, rowLimit int) ([]seo.RelatedQuery, error) {
	return p.queryRows(ctx, "query", keyword, rowLimit)
}

// FetchCategoryQueries returns queries whose landing page is the category
// index under the path prefix.
func (p *SearchConsole) FetchCategoryQueries(ctx context.Context, category string, rowLimit int) ([]seo.RelatedQuery, error) {
	return p.queryRows(ctx, "page", CategoryPath(p.cfg.PathPrefix, category), rowLimit)
}

func (p *SearchConsole) queryRows(ctx context.Context, filterDimension, expression string, rowLimit int) ([]seo.RelatedQuery, error) {
	start := time.Now()
	from, to := dateRange(p.now(), p.cfg.windowDays())

	req := &searchconsole.SearchAnalyticsQueryRequest{
		StartDate:  from,
		EndDate:    to,
		Dimensions: []string{"query"},
		DimensionFilterGroups: []*searchconsole.ApiDimensionFilterGroup{{
			Filters: []*searchconsole.ApiDimensionFilter{{
				Dimension:  filterDimension,
				Operator:   "contains",
				Expression: expression,
			}},
		}},
		RowLimit: int64(rowLimit),
	}

	resp, err := p.svc.Searchanalytics.Query(p.cfg.SiteURL, req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("search analytics query failed: %w", err)
	}

	out := queriesFromRows(resp.Rows)
	p.logger.Provider().Info("Search Console queries fetched",
		"filter", filterDimension, "expression", expression, "rows", len(out), "duration", time.Since(start))
	return out, nil
}

// queriesFromRows converts query rows, CTR to percent with 2 decimals and
// position to 1 decimal.
func queriesFromRows(rows []*searchconsole.ApiDataRow) []seo.RelatedQuery {
	out := make([]seo.RelatedQuery, 0, len(rows))
	for _, row := range rows {
		if row == nil || len(row.Keys) == 0 {
			continue
		}
		out = append(out, seo.RelatedQuery{
			Query:       row.Keys[0],
			Impressions: int(math.Round(row.Impressions)),
			Clicks:      int(math.Round(row.Clicks)),
			CTR:         round2(row.Ctr * 100),
			Position:    math.Round(row.Position*10) / 10,
		})
	}
	return out
}
