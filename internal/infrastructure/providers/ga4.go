package providers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
	"google.golang.org/api/option"

	"github.com/AtRiskMedia/tractstack-seo/internal/domain/entities/seo"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/logging"
)

// GA4 reads page engagement from the Google Analytics Data API.
type GA4 struct {
	svc    *analyticsdata.Service
	cfg    Config
	logger *logging.ChanneledLogger
}

// NewGA4 builds a read-only Analytics Data client.
func NewGA4(ctx context.Context, cfg Config, logger *logging.ChanneledLogger) (*GA4, error) {
	if !cfg.EngagementConfigured() {
		return nil, ErrNotConfigured
	}
	svc, err := analyticsdata.NewService(ctx,
		option.WithCredentialsJSON(cfg.CredentialsJSON),
		option.WithScopes(analyticsdata.AnalyticsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create analytics data service: %w", err)
	}
	return &GA4{svc: svc, cfg: cfg, logger: logger}, nil
}

func (p *GA4) Name() string { return "ga4" }

// FetchEngagement runs the sessions, transition and engagement reports
// concurrently and merges them by page path.
func (p *GA4) FetchEngagement(ctx context.Context) (map[seo.ContentKey]seo.EngagementMetrics, error) {
	start := time.Now()
	property := "properties/" + strings.TrimPrefix(p.cfg.PropertyID, "properties/")
	dates := []*analyticsdata.DateRange{{
		StartDate: fmt.Sprintf("%ddaysAgo", p.cfg.windowDays()),
		EndDate:   "today",
	}}

	requests := []*analyticsdata.RunReportRequest{
		sessionsReport(dates, p.cfg.PathPrefix, p.cfg.rowLimit()),
		transitionReport(dates, p.cfg.PathPrefix, p.cfg.ConversionPaths, p.cfg.rowLimit()),
		engagementReport(dates, p.cfg.PathPrefix, p.cfg.rowLimit()),
	}
	responses := make([]*analyticsdata.RunReportResponse, len(requests))

	g, gctx := errgroup.WithContext(ctx)
	for i, req := range requests {
		g.Go(func() error {
			resp, err := p.svc.Properties.RunReport(property, req).Context(gctx).Do()
			if err != nil {
				return fmt.Errorf("ga4 report %d failed: %w", i, err)
			}
			responses[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := mergeEngagement(responses[0], responses[1], responses[2], p.cfg.PathPrefix)
	p.logger.Provider().Info("GA4 reports merged", "pages", len(out), "duration", time.Since(start))
	return out, nil
}

func beginsWith(field, value string) *analyticsdata.FilterExpression {
	return &analyticsdata.FilterExpression{
		Filter: &analyticsdata.Filter{
			FieldName:    field,
			StringFilter: &analyticsdata.StringFilter{MatchType: "BEGINS_WITH", Value: value},
		},
	}
}

func sessionsReport(dates []*analyticsdata.DateRange, prefix string, limit int64) *analyticsdata.RunReportRequest {
	return &analyticsdata.RunReportRequest{
		DateRanges: dates,
		Dimensions: []*analyticsdata.Dimension{{Name: "pagePath"}},
		Metrics: []*analyticsdata.Metric{
			{Name: "sessions"},
			{Name: "averageSessionDuration"},
			{Name: "bounceRate"},
		},
		DimensionFilter: beginsWith("pagePath", prefix),
		OrderBys: []*analyticsdata.OrderBy{{
			Metric: &analyticsdata.MetricOrderBy{MetricName: "sessions"},
			Desc:   true,
		}},
		Limit: limit,
	}
}

// conversionFilter ORs the conversion destinations; "=path" is an exact match.
func conversionFilter(paths []string) *analyticsdata.FilterExpression {
	exprs := make([]*analyticsdata.FilterExpression, 0, len(paths))
	for _, p := range paths {
		match := "BEGINS_WITH"
		if strings.HasPrefix(p, "=") {
			match, p = "EXACT", strings.TrimPrefix(p, "=")
		}
		exprs = append(exprs, &analyticsdata.FilterExpression{
			Filter: &analyticsdata.Filter{
				FieldName:    "pagePath",
				StringFilter: &analyticsdata.StringFilter{MatchType: match, Value: p},
			},
		})
	}
	return &analyticsdata.FilterExpression{
		OrGroup: &analyticsdata.FilterExpressionList{Expressions: exprs},
	}
}

func transitionReport(dates []*analyticsdata.DateRange, prefix string, conversions []string, limit int64) *analyticsdata.RunReportRequest {
	return &analyticsdata.RunReportRequest{
		DateRanges: dates,
		Dimensions: []*analyticsdata.Dimension{{Name: "landingPage"}},
		Metrics:    []*analyticsdata.Metric{{Name: "sessions"}},
		DimensionFilter: &analyticsdata.FilterExpression{
			AndGroup: &analyticsdata.FilterExpressionList{
				Expressions: []*analyticsdata.FilterExpression{
					beginsWith("landingPage", prefix),
					conversionFilter(conversions),
				},
			},
		},
		Limit: limit,
	}
}

func engagementReport(dates []*analyticsdata.DateRange, prefix string, limit int64) *analyticsdata.RunReportRequest {
	return &analyticsdata.RunReportRequest{
		DateRanges:      dates,
		Dimensions:      []*analyticsdata.Dimension{{Name: "pagePath"}},
		Metrics:         []*analyticsdata.Metric{{Name: "engagementRate"}},
		DimensionFilter: beginsWith("pagePath", prefix),
		Limit:           limit,
	}
}

// mergeEngagement folds the transition and engagement reports into the
// sessions report. Pages absent from the sessions report are ignored.
func mergeEngagement(sessions, transitions, engagement *analyticsdata.RunReportResponse, prefix string) map[seo.ContentKey]seo.EngagementMetrics {
	out := make(map[seo.ContentKey]seo.EngagementMetrics)

	eachRow(sessions, prefix, func(key seo.ContentKey, metrics []float64) {
		out[key] = seo.EngagementMetrics{
			Sessions:           int(metricAt(metrics, 0)),
			AvgSessionDuration: metricAt(metrics, 1),
			BounceRate:         round2(metricAt(metrics, 2) * 100),
		}
	})

	eachRow(transitions, prefix, func(key seo.ContentKey, metrics []float64) {
		m, ok := out[key]
		if !ok {
			return
		}
		m.TransitionSessions = int(metricAt(metrics, 0))
		if m.Sessions > 0 {
			m.TransitionRate = round2(float64(m.TransitionSessions) / float64(m.Sessions) * 100)
		}
		out[key] = m
	})

	eachRow(engagement, prefix, func(key seo.ContentKey, metrics []float64) {
		m, ok := out[key]
		if !ok {
			return
		}
		m.EngagementRate = round2(metricAt(metrics, 0) * 100)
		out[key] = m
	})

	return out
}

func eachRow(resp *analyticsdata.RunReportResponse, prefix string, fn func(seo.ContentKey, []float64)) {
	if resp == nil {
		return
	}
	for _, row := range resp.Rows {
		if row == nil || len(row.DimensionValues) == 0 || row.DimensionValues[0] == nil {
			continue
		}
		key, ok := seo.KeyFromPath(row.DimensionValues[0].Value, prefix)
		if !ok {
			continue
		}
		metrics := make([]float64, len(row.MetricValues))
		for i, mv := range row.MetricValues {
			if mv == nil {
				continue
			}
			metrics[i], _ = strconv.ParseFloat(mv.Value, 64)
		}
		fn(key, metrics)
	}
}

func metricAt(metrics []float64, i int) float64 {
	if i < len(metrics) {
		return metrics[i]
	}
	return 0
}
