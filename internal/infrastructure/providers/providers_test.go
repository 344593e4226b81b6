package providers

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
	"google.golang.org/api/searchconsole/v1"

	"github.com/AtRiskMedia/tractstack-seo/internal/domain/entities/seo"
	"github.com/AtRiskMedia/tractstack-seo/internal/domain/scoring"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/logging"
)

func TestRankingFromRows(t *testing.T) {
	rows := []*searchconsole.ApiDataRow{
		{Keys: []string{"https://example.com/lab/partner-guide"}, Impressions: 1200, Clicks: 60, Ctr: 0.05, Position: 4.2},
		{Keys: []string{"https://example.com/lab/"}, Impressions: 900},
		{Keys: []string{"https://example.com/lab/category/strategy"}, Impressions: 300},
		{Keys: []string{"https://example.com/lab/tag/prm"}, Impressions: 300},
		{Keys: []string{"https://example.com/lab/content_type/howto"}, Impressions: 300},
		{Keys: []string{"https://example.com/blog/other"}, Impressions: 300},
		{Keys: nil},
		nil,
	}

	got := rankingFromRows(rows, "/lab/")

	require.Len(t, got, 1)
	m := got["/lab/partner-guide"]
	assert.Equal(t, 1200, m.Impressions)
	assert.Equal(t, 60, m.Clicks)
	assert.InDelta(t, 5.0, m.CTR, 1e-9)
	assert.Equal(t, 4.2, m.Position)
}

func TestQueriesFromRows(t *testing.T) {
	rows := []*searchconsole.ApiDataRow{
		{Keys: []string{"prm ツール 比較"}, Impressions: 320, Clicks: 11, Ctr: 0.03412, Position: 7.26},
		{Keys: nil},
		nil,
	}

	got := queriesFromRows(rows)

	require.Len(t, got, 1)
	assert.Equal(t, seo.RelatedQuery{Query: "prm ツール 比較", Impressions: 320, Clicks: 11, CTR: 3.41, Position: 7.3}, got[0])
}

func TestCategoryPath(t *testing.T) {
	assert.Equal(t, "/lab/category/strategy", CategoryPath("/lab/", "strategy"))
	assert.Equal(t, "/lab/category/strategy", CategoryPath("/lab", "strategy"))
}

func TestDemoQueries(t *testing.T) {
	all := DemoQueries("PRM", 0)
	require.Len(t, all, 10)
	assert.Equal(t, seo.RelatedQuery{Query: "PRMとは", Impressions: 850, Clicks: 45, CTR: 5.29, Position: 4.2}, all[0])
	assert.Equal(t, "PRM やり方", all[9].Query)

	got, err := NewSyntheticQueries().FetchRelatedQueries(context.Background(), "PRM", 3)
	require.NoError(t, err)
	assert.Equal(t, all[:3], got)
}

func row(path string, metrics ...string) *analyticsdata.Row {
	r := &analyticsdata.Row{DimensionValues: []*analyticsdata.DimensionValue{{Value: path}}}
	for _, m := range metrics {
		r.MetricValues = append(r.MetricValues, &analyticsdata.MetricValue{Value: m})
	}
	return r
}

func TestMergeEngagement(t *testing.T) {
	sessions := &analyticsdata.RunReportResponse{Rows: []*analyticsdata.Row{
		row("/lab/a", "200", "95.5", "0.42"),
		row("/lab/b", "0", "0", "0"),
		row("/lab", "5000", "10", "0.1"),
	}}
	transitions := &analyticsdata.RunReportResponse{Rows: []*analyticsdata.Row{
		row("/lab/a", "7"),
		row("/lab/b", "3"),
		row("/lab/missing", "9"),
	}}
	engagement := &analyticsdata.RunReportResponse{Rows: []*analyticsdata.Row{
		row("/lab/a", "0.63456"),
		row("/lab/missing", "0.9"),
	}}

	got := mergeEngagement(sessions, transitions, engagement, "/lab/")

	require.Len(t, got, 2)
	a := got["/lab/a"]
	assert.Equal(t, 200, a.Sessions)
	assert.Equal(t, 7, a.TransitionSessions)
	assert.Equal(t, 3.5, a.TransitionRate)
	assert.Equal(t, 63.46, a.EngagementRate)
	assert.Equal(t, 95.5, a.AvgSessionDuration)
	assert.Equal(t, 42.0, a.BounceRate)

	b := got["/lab/b"]
	assert.Equal(t, 3, b.TransitionSessions)
	assert.Equal(t, 0.0, b.TransitionRate)

	assert.Empty(t, mergeEngagement(nil, nil, nil, "/lab/"))
}

func TestConversionFilter(t *testing.T) {
	f := conversionFilter([]string{"=/partner-marketing", "/casestudy/"})

	require.NotNil(t, f.OrGroup)
	require.Len(t, f.OrGroup.Expressions, 2)
	exact := f.OrGroup.Expressions[0].Filter
	assert.Equal(t, "pagePath", exact.FieldName)
	assert.Equal(t, "EXACT", exact.StringFilter.MatchType)
	assert.Equal(t, "/partner-marketing", exact.StringFilter.Value)
	assert.Equal(t, "BEGINS_WITH", f.OrGroup.Expressions[1].Filter.StringFilter.MatchType)
}

func TestTransitionReportFilter(t *testing.T) {
	req := transitionReport(nil, "/lab/", []string{"/seminar/"}, 500)

	require.NotNil(t, req.DimensionFilter.AndGroup)
	exprs := req.DimensionFilter.AndGroup.Expressions
	require.Len(t, exprs, 2)
	assert.Equal(t, "landingPage", exprs[0].Filter.FieldName)
	assert.Equal(t, "/lab/", exprs[0].Filter.StringFilter.Value)
	assert.NotNil(t, exprs[1].OrGroup)
	assert.Equal(t, int64(500), req.Limit)
}

func TestNewWithoutCredentialsIsSynthetic(t *testing.T) {
	set := New(context.Background(), Config{PathPrefix: "/lab/", SiteURL: "https://example.com"}, logging.NewDiscardLogger())

	assert.True(t, set.Synthetic)
	assert.IsType(t, &SyntheticRanking{}, set.Ranking)
	assert.IsType(t, &SyntheticEngagement{}, set.Engagement)
	assert.IsType(t, &SyntheticQueries{}, set.Queries)
}

func TestLiveConstructorsRequireCredentials(t *testing.T) {
	_, err := NewSearchConsole(context.Background(), Config{SiteURL: "https://example.com"}, logging.NewDiscardLogger())
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewGA4(context.Background(), Config{PropertyID: "123"}, logging.NewDiscardLogger())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSyntheticCatalogSpansAllRanks(t *testing.T) {
	ranking, err := NewSyntheticRanking("/lab/").FetchRanking(context.Background())
	require.NoError(t, err)
	engagement, err := NewSyntheticEngagement("/lab/").FetchEngagement(context.Background())
	require.NoError(t, err)
	require.Len(t, ranking, len(DemoCatalog()))

	var dist seo.RankDistribution
	for key, r := range ranking {
		e, ok := engagement[key]
		require.True(t, ok, key)
		score, _ := scoring.Score(seo.FusedMetrics{
			Position: r.Position, CTR: r.CTR, TransitionRate: e.TransitionRate, EngagementRate: e.EngagementRate,
		}, scoring.DefaultWeights)
		dist.Add(scoring.AssignRank(score))
	}
	assert.Equal(t, seo.RankDistribution{S: 2, A: 2, B: 1, C: 1}, dist)
}

func TestDemoArticlesCarryMarkup(t *testing.T) {
	articles := DemoArticles()
	require.Len(t, articles, len(DemoCatalog()))
	for _, a := range articles {
		assert.Contains(t, a.Markup, "<h2>")
		assert.NotEmpty(t, a.Facets.Category)
	}
}

func TestCredentialsFrom(t *testing.T) {
	got, err := CredentialsFrom(`{"type":"service_account"}`, "ignored")
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"service_account"}`, string(got))

	path := filepath.Join(t.TempDir(), "creds.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"a":1}`), 0o600))
	got, err = CredentialsFrom("", path)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))

	got, err = CredentialsFrom("", "")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDateRange(t *testing.T) {
	from, to := dateRange(time.Date(2024, 3, 29, 10, 0, 0, 0, time.UTC), 28)
	assert.Equal(t, "2024-03-01", from)
	assert.Equal(t, "2024-03-29", to)
}
