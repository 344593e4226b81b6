package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AtRiskMedia/tractstack-seo/internal/domain/entities/seo"
	"github.com/AtRiskMedia/tractstack-seo/internal/domain/scoring"
	"github.com/AtRiskMedia/tractstack-seo/internal/domain/style"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/monitoring"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const prefix = "/lab/"

type fakeRanking struct {
	rows  map[seo.ContentKey]seo.RankingMetrics
	err   error
	block bool
	delay time.Duration
	calls int32
}

func (f *fakeRanking) Name() string { return "fake-ranking" }

func (f *fakeRanking) FetchRanking(ctx context.Context) (map[seo.ContentKey]seo.RankingMetrics, error) {
	atomic.AddInt32(&f.calls, 1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	time.Sleep(f.delay)
	return f.rows, f.err
}

type fakeEngagement struct {
	rows  map[seo.ContentKey]seo.EngagementMetrics
	err   error
	delay time.Duration
}

func (f *fakeEngagement) Name() string { return "fake-engagement" }

func (f *fakeEngagement) FetchEngagement(context.Context) (map[seo.ContentKey]seo.EngagementMetrics, error) {
	time.Sleep(f.delay)
	return f.rows, f.err
}

type fakeArticles struct {
	articles    []seo.Article
	listErr     error
	markupErr   error
	markupCalls int32
	listDelay   time.Duration
}

func (f *fakeArticles) ListPublished(context.Context) ([]seo.Article, error) {
	time.Sleep(f.listDelay)
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]seo.Article, 0, len(f.articles))
	for _, a := range f.articles {
		a.Markup = ""
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeArticles) FindMarkupBySlugs(_ context.Context, slugs []string) (map[string]seo.Article, error) {
	atomic.AddInt32(&f.markupCalls, 1)
	if f.markupErr != nil {
		return nil, f.markupErr
	}
	want := make(map[string]bool, len(slugs))
	for _, s := range slugs {
		want[s] = true
	}
	out := map[string]seo.Article{}
	for _, a := range f.articles {
		if want[a.Slug] {
			out[a.Slug] = a
		}
	}
	return out, nil
}

type fakeQueries struct {
	err      error
	calls    int32
	rowLimit int
}

func (f *fakeQueries) Name() string { return "fake-queries" }

func (f *fakeQueries) FetchRelatedQueries(ctx context.Context, keyword string, rowLimit int) ([]seo.RelatedQuery, error) {
	atomic.AddInt32(&f.calls, 1)
	f.rowLimit = rowLimit
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return []seo.RelatedQuery{
		{Query: keyword + "とは", Impressions: 850, Clicks: 45, CTR: 5.29, Position: 4.2},
		{Query: keyword + " 少数", Impressions: 9, Clicks: 1, CTR: 11.1, Position: 2},
		{Query: keyword + " ツール 比較", Impressions: 250, Clicks: 12, CTR: 4.8, Position: 10.5},
		{Query: keyword + " やり方", Impressions: 150, Clicks: 6, CTR: 4, Position: 18.2},
	}, nil
}

func (f *fakeQueries) FetchCategoryQueries(_ context.Context, category string, rowLimit int) ([]seo.RelatedQuery, error) {
	atomic.AddInt32(&f.calls, 1)
	f.rowLimit = rowLimit
	if f.err != nil {
		return nil, f.err
	}
	return []seo.RelatedQuery{{Query: category + " 入門", Impressions: 5, Position: 30}}, nil
}

const articleMarkup = `<h2>コンテンツマーケティングとは</h2>
<p>コンテンツマーケティングは顧客との関係を育てる手法です。成果が出るまでには時間がかかります。</p>
<h3>基本の考え方</h3>
<h2>導入のメリット</h2>
<ul><li>認知の拡大</li><li>リードの獲得</li></ul>
<p>継続的な発信によって信頼が積み上がります。<strong>検索流入</strong>も安定します。</p>
<h2>まとめ</h2>
<p>まずは小さく始めて効果を検証していくことが重要です。</p>`

// fixture mirrors the regression corpus: positions {2,8,40}, ctr {9,4,0.5},
// transition {6,2,0}, engagement {75,55,20}, plus one low-signal item.
func fixture() (*fakeRanking, *fakeEngagement, *fakeArticles) {
	ranking := &fakeRanking{rows: map[seo.ContentKey]seo.RankingMetrics{
		"/lab/alpha": {Impressions: 1200, Clicks: 108, CTR: 9, Position: 2},
		"/lab/beta":  {Impressions: 800, Clicks: 32, CTR: 4, Position: 8},
		"/lab/gamma": {Impressions: 400, Clicks: 2, CTR: 0.5, Position: 40},
		"/lab/delta": {Impressions: 9, Clicks: 1, CTR: 11, Position: 1},
	}}
	engagement := &fakeEngagement{rows: map[seo.ContentKey]seo.EngagementMetrics{
		"/lab/alpha": {Sessions: 500, TransitionSessions: 30, TransitionRate: 6, EngagementRate: 75},
		"/lab/beta":  {Sessions: 300, TransitionSessions: 6, TransitionRate: 2, EngagementRate: 55},
		"/lab/gamma": {Sessions: 100, TransitionRate: 0, EngagementRate: 20},
	}}
	articles := &fakeArticles{articles: []seo.Article{
		{Slug: "alpha", Title: "Alpha", Markup: articleMarkup, Facets: seo.Facets{Category: "marketing", ContentType: seo.ContentTypeKnowledge}},
		{Slug: "beta", Title: "Beta", Markup: articleMarkup, Facets: seo.Facets{Category: "marketing", ContentType: seo.ContentTypeHowTo}},
		{Slug: "gamma", Title: "Gamma", Markup: articleMarkup, Facets: seo.Facets{Category: "sales"}},
	}}
	return ranking, engagement, articles
}

type harness struct {
	ranking    *fakeRanking
	engagement *fakeEngagement
	articles   *fakeArticles
	fusion     *FusionService
	scores     *ScoreService
	selector   *SuccessSetService
	patterns   *PatternService
	style      *StyleService
	queries    *fakeQueries
	insights   *InsightsService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := logging.NewDiscardLogger()
	tracker := performance.NewTracker(nil)

	h := &harness{}
	h.ranking, h.engagement, h.articles = fixture()
	h.fusion = NewFusionService(h.ranking, h.engagement, h.articles, prefix, time.Second, logger, tracker)

	var err error
	h.scores, err = NewScoreService(h.fusion, stores.NewScoreStore(time.Hour, nil, logger), scoring.DefaultWeights, false, logger, tracker)
	require.NoError(t, err)

	reports := stores.NewReportStore(30*time.Minute, nil, logger)
	loader := NewDocumentLoader(h.articles, logger)
	h.selector = NewSuccessSetService(h.scores, logger)
	h.patterns = NewPatternService(h.selector, loader, reports, logger, tracker)
	h.style = NewStyleService(h.selector, loader, style.NewAnalyzer(style.Vocabulary{}), reports, logger, tracker)
	h.queries = &fakeQueries{}
	queryService := NewQueryService(h.queries, reports, time.Second, logger, tracker)
	h.insights = NewInsightsService(h.scores, h.selector, h.patterns, h.style, queryService, loader, logger)
	return h
}

func TestFuseAppliesDefaultsAndSignalFloor(t *testing.T) {
	in := FusionInput{
		Ranking: map[seo.ContentKey]seo.RankingMetrics{
			"/lab/only-ranking": {Impressions: 10, CTR: 3, Position: 4},
			"/lab/too-few":      {Impressions: 9, CTR: 3, Position: 4},
			"/lab/zero-engaged": {Impressions: 50, CTR: 3, Position: 4},
		},
		Engagement: map[seo.ContentKey]seo.EngagementMetrics{
			"/lab/zero-engaged": {Sessions: 20, TransitionRate: 2.5, EngagementRate: 0},
			"/lab/no-ranking":   {Sessions: 99, TransitionRate: 9, EngagementRate: 90},
		},
		Articles: map[seo.ContentKey]seo.ArticleMeta{
			"/lab/only-ranking": {Title: "Only ranking", Facets: seo.Facets{Category: "marketing"}},
		},
	}

	records := Fuse(in, prefix)
	byKey := map[seo.ContentKey]FusedRecord{}
	for _, r := range records {
		byKey[r.Key] = r
	}

	require.Len(t, records, 2)
	assert.NotContains(t, byKey, seo.ContentKey("/lab/too-few"))
	assert.NotContains(t, byKey, seo.ContentKey("/lab/no-ranking"))

	only := byKey["/lab/only-ranking"]
	assert.Equal(t, 50.0, only.Metrics.EngagementRate)
	assert.Equal(t, 0.0, only.Metrics.TransitionRate)
	assert.Equal(t, "Only ranking", only.Title)
	assert.Equal(t, "only-ranking", only.Slug)
	assert.Equal(t, "marketing", only.Facets.Category)

	zero := byKey["/lab/zero-engaged"]
	assert.Equal(t, 50.0, zero.Metrics.EngagementRate)
	assert.Equal(t, 2.5, zero.Metrics.TransitionRate)
	assert.Equal(t, 20, zero.Metrics.Sessions)
	assert.Equal(t, "/lab/zero-engaged", zero.Title, "missing article falls back to the path")
}

func TestCollectIsolatesProviderFailures(t *testing.T) {
	ranking, engagement, articles := fixture()
	engagement.err = errors.New("ga4 quota exceeded")

	fusion := NewFusionService(ranking, engagement, articles, prefix, time.Second,
		logging.NewDiscardLogger(), performance.NewTracker(nil))
	in := fusion.Collect(context.Background())

	assert.Len(t, in.Ranking, 4)
	assert.Empty(t, in.Engagement)
	assert.Len(t, in.Articles, 3)

	records := fusion.Fuse(in)
	require.Len(t, records, 3)
	for _, r := range records {
		assert.Equal(t, 50.0, r.Metrics.EngagementRate)
	}
}

func TestCollectTimesOutSlowProvider(t *testing.T) {
	ranking, engagement, articles := fixture()
	ranking.block = true

	fusion := NewFusionService(ranking, engagement, articles, prefix, 20*time.Millisecond,
		logging.NewDiscardLogger(), performance.NewTracker(nil))

	start := time.Now()
	in := fusion.Collect(context.Background())

	assert.Less(t, time.Since(start), time.Second)
	assert.Empty(t, in.Ranking)
	assert.Len(t, in.Engagement, 3)
}

func TestCollectFetchesSourcesConcurrently(t *testing.T) {
	ranking, engagement, articles := fixture()
	ranking.delay = 100 * time.Millisecond
	engagement.delay = 100 * time.Millisecond
	articles.listDelay = 100 * time.Millisecond

	fusion := NewFusionService(ranking, engagement, articles, prefix, time.Second,
		logging.NewDiscardLogger(), performance.NewTracker(nil))

	start := time.Now()
	in := fusion.Collect(context.Background())
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 200*time.Millisecond)
	assert.Len(t, in.Ranking, 4)
	assert.Len(t, in.Engagement, 3)
	assert.Len(t, in.Articles, 3)
}

func TestScoreRecordsRegressionFixture(t *testing.T) {
	h := newHarness(t)
	corpus, err := h.scores.GetScores(context.Background(), false)
	require.NoError(t, err)

	require.Len(t, corpus.Scores, 3)
	alpha, beta, gamma := corpus.Scores[0], corpus.Scores[1], corpus.Scores[2]

	assert.Equal(t, "alpha", alpha.Slug)
	assert.Equal(t, 100, alpha.SEOScore)
	assert.Equal(t, seo.RankS, alpha.Rank)

	// 70 sits exactly on the A threshold
	assert.Equal(t, "beta", beta.Slug)
	assert.Equal(t, 70, beta.SEOScore)
	assert.Equal(t, seo.RankA, beta.Rank)

	assert.Equal(t, "gamma", gamma.Slug)
	assert.Equal(t, 19, gamma.SEOScore)
	assert.Equal(t, seo.RankC, gamma.Rank)

	assert.Equal(t, "Alpha", corpus.Scores[0].Title)
	assert.Equal(t, seo.ContentTypeKnowledge, corpus.Scores[0].Facets.ContentType)
	assert.Len(t, corpus.ID, 26)
}

func TestScoreRecordsTieOrderIsStable(t *testing.T) {
	m := seo.FusedMetrics{Position: 4, CTR: 3, TransitionRate: 1, EngagementRate: 50}
	records := []FusedRecord{{Key: "/lab/b", Metrics: m}, {Key: "/lab/a", Metrics: m}}

	scored := ScoreRecords(records, scoring.DefaultWeights)
	assert.Equal(t, seo.ContentKey("/lab/a"), scored[0].Key)
	assert.Equal(t, scored[0].SEOScore, scored[1].SEOScore)
}

func TestGetScoresCachesAndForceRefreshes(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	first, err := h.scores.GetScores(ctx, false)
	require.NoError(t, err)
	second, err := h.scores.GetScores(ctx, false)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&h.ranking.calls))

	third, err := h.scores.GetScores(ctx, true)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.NotEqual(t, first.ID, third.ID)
	assert.Equal(t, int32(2), atomic.LoadInt32(&h.ranking.calls))
}

func TestCancelledCallerDoesNotEmptyScoreCache(t *testing.T) {
	h := newHarness(t)
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	corpus, err := h.scores.GetScores(cancelled, false)
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	} else {
		assert.Len(t, corpus.Scores, 3)
	}

	healthy, err := h.scores.GetScores(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, healthy.Scores, 3)
}

func TestScoreComputeAbandonedOnCancelledContext(t *testing.T) {
	h := newHarness(t)
	before, err := h.scores.GetScores(context.Background(), false)
	require.NoError(t, err)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = h.scores.compute(cancelled)
	assert.ErrorIs(t, err, context.Canceled)

	after, err := h.scores.GetScores(context.Background(), false)
	require.NoError(t, err)
	assert.Same(t, before, after)
}

func TestNewScoreServiceRejectsBadWeights(t *testing.T) {
	_, err := NewScoreService(nil, nil, scoring.Weights{Rank: 0.5, CTR: 0.5, Transition: 0.5}, false,
		logging.NewDiscardLogger(), performance.NewTracker(nil))
	assert.ErrorIs(t, err, scoring.ErrInvalidWeights)
}

func TestSummarize(t *testing.T) {
	corpus := &seo.ScoreCorpus{Synthetic: true}
	for i := 0; i < 12; i++ {
		score := 90 - i*5
		corpus.Scores = append(corpus.Scores, seo.ContentScore{SEOScore: score, Rank: scoring.AssignRank(score)})
	}

	summary := Summarize(corpus)
	assert.Equal(t, 12, summary.TotalItems)
	assert.Equal(t, seo.RankDistribution{S: 2, A: 3, B: 4, C: 3}, summary.RankDistribution)
	// mean of 90..35 step 5
	assert.Equal(t, 63, summary.AvgScore)
	assert.Len(t, summary.TopItems, 10)
	assert.True(t, summary.Synthetic)

	empty := Summarize(&seo.ScoreCorpus{})
	assert.Equal(t, 0, empty.AvgScore)
	assert.NotNil(t, empty.TopItems)
}

func TestSelectFiltersByRankFacetsAndLimit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	set, err := h.selector.Select(ctx, seo.SuccessFilter{MinRank: seo.RankA})
	require.NoError(t, err)
	require.Len(t, set, 2)
	assert.Equal(t, "alpha", set[0].Slug)
	assert.Equal(t, "beta", set[1].Slug)

	set, err = h.selector.Select(ctx, seo.SuccessFilter{})
	require.NoError(t, err)
	assert.Len(t, set, 2, "empty rank defaults to A")

	set, err = h.selector.Select(ctx, seo.SuccessFilter{MinRank: seo.RankC, Category: "sales"})
	require.NoError(t, err)
	require.Len(t, set, 1)
	assert.Equal(t, "gamma", set[0].Slug)

	set, err = h.selector.Select(ctx, seo.SuccessFilter{MinRank: seo.RankC, ContentType: seo.ContentTypeHowTo})
	require.NoError(t, err)
	require.Len(t, set, 1)
	assert.Equal(t, "beta", set[0].Slug)

	set, err = h.selector.Select(ctx, seo.SuccessFilter{MinRank: seo.RankC, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, set, 1)

	_, err = h.selector.Select(ctx, seo.SuccessFilter{MinRank: "X"})
	assert.ErrorIs(t, err, seo.ErrInvalidFilter)
	_, err = h.selector.Select(ctx, seo.SuccessFilter{MinRank: seo.RankA, Limit: -1})
	assert.ErrorIs(t, err, seo.ErrInvalidFilter)
}

func TestStructuralPatternFromSuccessSet(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	p, err := h.insights.GetStructuralPattern(ctx, seo.SuccessFilter{MinRank: seo.RankA})
	require.NoError(t, err)
	assert.False(t, p.Fallback)
	assert.Equal(t, 2, p.SampleSize)
	assert.Equal(t, 3.0, p.H2.AvgCount)
	for _, f := range p.H2.CommonPatterns {
		assert.GreaterOrEqual(t, f.Frequency, 0)
		assert.LessOrEqual(t, f.Frequency, 100)
	}

	// served from the report cache
	_, err = h.insights.GetStructuralPattern(ctx, seo.SuccessFilter{MinRank: seo.RankA})
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&h.articles.markupCalls))
}

func TestStructuralPatternFallbacks(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	p, err := h.insights.GetStructuralPattern(ctx, seo.SuccessFilter{MinRank: seo.RankS, Category: "nothing-here"})
	require.NoError(t, err)
	assert.True(t, p.Fallback)

	h.articles.markupErr = errors.New("content store offline")
	p, err = h.insights.GetStructuralPattern(ctx, seo.SuccessFilter{MinRank: seo.RankB})
	require.NoError(t, err)
	assert.True(t, p.Fallback)

	_, err = h.insights.GetStructuralPattern(ctx, seo.SuccessFilter{MinRank: "Z"})
	assert.ErrorIs(t, err, seo.ErrInvalidFilter)
}

func TestOutlinePromptIsDeterministic(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	first, err := h.insights.GetOutlinePromptText(ctx, "SEO対策", seo.SuccessFilter{})
	require.NoError(t, err)
	second, err := h.insights.GetOutlinePromptText(ctx, "SEO対策", seo.SuccessFilter{})
	require.NoError(t, err)
	assert.NotEmpty(t, first)
	assert.Equal(t, first, second)

	_, err = h.insights.GetOutlinePromptText(ctx, "", seo.SuccessFilter{})
	assert.ErrorIs(t, err, seo.ErrInvalidFilter)
}

func TestStyleAnalysisAndPrompt(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	a, err := h.insights.GetStyleAnalysis(ctx, seo.SuccessFilter{})
	require.NoError(t, err)
	assert.False(t, a.Fallback)
	assert.Equal(t, 2, a.SampleSize)
	assert.GreaterOrEqual(t, a.AvgParagraphLength, 0)
	assert.LessOrEqual(t, a.BulletPointRate, 100)

	prompt, err := h.insights.GetStylePromptText(ctx, seo.SuccessFilter{})
	require.NoError(t, err)
	assert.Equal(t, style.RenderPrompt(a), prompt)

	empty, err := h.insights.GetStyleAnalysis(ctx, seo.SuccessFilter{MinRank: seo.RankS, Category: "none"})
	require.NoError(t, err)
	assert.True(t, empty.Fallback)
}

func TestSuccessPattern(t *testing.T) {
	h := newHarness(t)

	p, err := h.insights.GetSuccessPattern(context.Background(), seo.SuccessFilter{})
	require.NoError(t, err)
	assert.False(t, p.Fallback)
	assert.Equal(t, 3, p.AvgH2Count)
	assert.Len(t, p.SampleArticles, 2)
}

func TestGetStyleSamplesTopsUpWithARank(t *testing.T) {
	h := newHarness(t)

	samples, err := h.insights.GetStyleSamples(context.Background(), "marketing", 3)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, "alpha", samples[0].Slug)
	assert.Equal(t, "beta", samples[1].Slug)
	assert.NotEmpty(t, samples[0].Excerpt)

	samples, err = h.insights.GetStyleSamples(context.Background(), "marketing", 1)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, "alpha", samples[0].Slug)
}

func TestRefreshDropsReports(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.insights.GetStructuralPattern(ctx, seo.SuccessFilter{})
	require.NoError(t, err)
	_, err = h.insights.Refresh(ctx)
	require.NoError(t, err)
	_, err = h.insights.GetStructuralPattern(ctx, seo.SuccessFilter{})
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&h.articles.markupCalls))
}

func TestWarmingService(t *testing.T) {
	h := newHarness(t)
	monitor := monitoring.NewCachePerformanceMonitor(nil)
	w := NewWarmingService(h.insights, monitor, logging.NewDiscardLogger())

	result, err := w.Warm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Items)
	assert.Equal(t, 3, result.Reports)

	stats := monitor.GetWarmingStats()
	assert.EqualValues(t, 1, stats.SuccessfulWarmings)
	assert.EqualValues(t, 6, stats.TotalItemsWarmed)
}

func TestAuthService(t *testing.T) {
	logger := logging.NewDiscardLogger()

	disabled := NewAuthService("", "", time.Hour, logger)
	assert.False(t, disabled.Enabled())
	_, err := disabled.AuthenticateAdmin("anything")
	assert.ErrorIs(t, err, ErrAuthDisabled)

	hash, err := security.HashPassword("correct horse")
	require.NoError(t, err)
	auth := NewAuthService("test-secret", hash, time.Hour, logger)

	res, err := auth.AuthenticateAdmin("wrong")
	require.NoError(t, err)
	assert.False(t, res.Success)

	res, err = auth.AuthenticateAdmin("correct horse")
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, "admin", res.Role)
	assert.True(t, auth.ValidateAdminToken(res.Token))
	assert.False(t, auth.ValidateAdminToken(res.Token+"x"))
}

func TestRelatedQueriesFilteredAndCached(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	qs, err := h.insights.GetRelatedQueries(ctx, " PRM ", 0)
	require.NoError(t, err)
	assert.Equal(t, 40, h.queries.rowLimit)
	require.Len(t, qs, 3, "rows under the impressions floor are dropped")
	assert.Equal(t, "PRMとは", qs[0].Query)

	again, err := h.insights.GetRelatedQueries(ctx, "PRM", 20)
	require.NoError(t, err)
	assert.Equal(t, qs, again)
	assert.Equal(t, int32(1), atomic.LoadInt32(&h.queries.calls))

	two, err := h.insights.GetRelatedQueries(ctx, "PRM", 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
	assert.Equal(t, int32(2), atomic.LoadInt32(&h.queries.calls))

	for _, bad := range []struct {
		keyword string
		limit   int
	}{{"", 0}, {"  ", 5}, {"PRM", -1}} {
		_, err := h.insights.GetRelatedQueries(ctx, bad.keyword, bad.limit)
		assert.ErrorIs(t, err, seo.ErrInvalidFilter)
	}
}

func TestRelatedQueriesProviderFailureNotCached(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.queries.err = errors.New("quota exceeded")

	qs, err := h.insights.GetRelatedQueries(ctx, "PRM", 0)
	require.NoError(t, err)
	assert.Empty(t, qs)

	h.queries.err = nil
	qs, err = h.insights.GetRelatedQueries(ctx, "PRM", 0)
	require.NoError(t, err)
	assert.Len(t, qs, 3)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = h.insights.GetRelatedQueries(cancelled, "other", 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOptimalQueriesAndPrompt(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	best, err := h.insights.GetOptimalQueries(ctx, "PRM", 2, true)
	require.NoError(t, err)
	require.Len(t, best, 2)
	assert.Equal(t, "PRMとは", best[0].Query)
	assert.Equal(t, "PRM ツール 比較", best[1].Query)
	assert.Equal(t, 100, h.queries.rowLimit, "optimal selection draws from a pool of 50")

	prompt, err := h.insights.GetQueriesPromptText(ctx, "PRM")
	require.NoError(t, err)
	assert.Contains(t, prompt, "1. 「PRMとは」（月間850回表示、順位4.2位）")

	_, err = h.insights.GetOptimalQueries(ctx, "PRM", -3, false)
	assert.ErrorIs(t, err, seo.ErrInvalidFilter)
}

func TestPopularQueriesByCategory(t *testing.T) {
	h := newHarness(t)

	qs, err := h.insights.GetPopularQueriesByCategory(context.Background(), "strategy", 0)
	require.NoError(t, err)
	assert.Equal(t, 15, h.queries.rowLimit)
	require.Len(t, qs, 1, "category queries keep low-impression rows")

	_, err = h.insights.GetPopularQueriesByCategory(context.Background(), "", 0)
	assert.ErrorIs(t, err, seo.ErrInvalidFilter)
}
