package providers

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/AtRiskMedia/tractstack-seo/internal/domain/entities/seo"
)

// DemoItem is one synthetic article with its metrics.
type DemoItem struct {
	Slug        string
	Title       string
	Category    string
	ContentType seo.ContentType
	Ranking     seo.RankingMetrics
	Engagement  seo.EngagementMetrics
}

// demoCatalog spans all four ranks under the default weights.
var demoCatalog = []DemoItem{
	{
		Slug: "partner-marketing-guide", Title: "パートナーマーケティング完全ガイド",
		Category: "partner-marketing", ContentType: seo.ContentTypeKnowledge,
		Ranking:    seo.RankingMetrics{Impressions: 4200, Position: 3.2, CTR: 5.8},
		Engagement: seo.EngagementMetrics{Sessions: 980, TransitionSessions: 41, EngagementRate: 68, AvgSessionDuration: 212, BounceRate: 31},
	},
	{
		Slug: "prm-tools-comparison", Title: "PRMツール比較：選び方と導入ポイント",
		Category: "prm-tools", ContentType: seo.ContentTypeResearch,
		Ranking:    seo.RankingMetrics{Impressions: 3100, Position: 4.5, CTR: 5.1},
		Engagement: seo.EngagementMetrics{Sessions: 720, TransitionSessions: 27, EngagementRate: 65, AvgSessionDuration: 187, BounceRate: 35},
	},
	{
		Slug: "channel-partner-strategy", Title: "チャネルパートナー戦略の立て方",
		Category: "strategy", ContentType: seo.ContentTypeKnowledge,
		Ranking:    seo.RankingMetrics{Impressions: 1800, Position: 6.8, CTR: 4.1},
		Engagement: seo.EngagementMetrics{Sessions: 410, TransitionSessions: 10, EngagementRate: 62, AvgSessionDuration: 164, BounceRate: 38},
	},
	{
		Slug: "partner-program-design", Title: "パートナープログラム設計の基礎",
		Category: "program-design", ContentType: seo.ContentTypeHowTo,
		Ranking:    seo.RankingMetrics{Impressions: 1500, Position: 8.2, CTR: 3.5},
		Engagement: seo.EngagementMetrics{Sessions: 330, TransitionSessions: 7, EngagementRate: 58, AvgSessionDuration: 151, BounceRate: 42},
	},
	{
		Slug: "alliance-sales-tips", Title: "アライアンス営業のコツ",
		Category: "sales", ContentType: seo.ContentTypeKnowledge,
		Ranking:    seo.RankingMetrics{Impressions: 900, Position: 15.5, CTR: 2.8},
		Engagement: seo.EngagementMetrics{Sessions: 200, TransitionSessions: 3, EngagementRate: 52, AvgSessionDuration: 122, BounceRate: 48},
	},
	{
		Slug: "partner-onboarding", Title: "パートナーオンボーディング入門",
		Category: "onboarding", ContentType: seo.ContentTypeKnowledge,
		Ranking:    seo.RankingMetrics{Impressions: 400, Position: 25.3, CTR: 1.8},
		Engagement: seo.EngagementMetrics{Sessions: 125, TransitionSessions: 1, EngagementRate: 45, AvgSessionDuration: 96, BounceRate: 57},
	},
}

// DemoCatalog returns a copy of the synthetic article set.
func DemoCatalog() []DemoItem {
	return append([]DemoItem(nil), demoCatalog...)
}

// DemoArticles renders the catalog as publishable articles with markup, so
// a seeded content store lines up with the synthetic providers.
func DemoArticles() []seo.Article {
	out := make([]seo.Article, 0, len(demoCatalog))
	for _, d := range demoCatalog {
		out = append(out, seo.Article{
			Slug:   d.Slug,
			Title:  d.Title,
			Markup: demoMarkup(d),
			Facets: seo.Facets{Category: d.Category, ContentType: d.ContentType},
		})
	}
	return out
}

func demoMarkup(d DemoItem) string {
	topic := strings.SplitN(d.Title, "：", 2)[0]
	var b strings.Builder
	fmt.Fprintf(&b, "<p>%sについて、基本から実践まで順を追って解説します。具体的には、現場で使えるポイントを紹介します。</p>", topic)
	fmt.Fprintf(&b, "<h2>%sとは</h2>", topic)
	b.WriteString("<h3>定義と基本概念</h3>")
	b.WriteString("<p>まず全体像を押さえることが重要です。パートナー企業との関係づくりは、中長期のパイプライン形成につながります。</p>")
	fmt.Fprintf(&b, "<h2>%sのメリット</h2>", topic)
	b.WriteString("<ul><li>市場リーチの拡大</li><li>コスト効率の向上</li></ul>")
	b.WriteString("<p>例えば、販売代理店を通じた<strong>リード獲得</strong>はROIの改善に寄与します。そのため、KPIを明確にしましょう。</p>")
	fmt.Fprintf(&b, "<h2>%sの実践方法</h2>", topic)
	b.WriteString("<h3>ステップ1：目標設定</h3><h3>ステップ2：パートナー選定</h3>")
	b.WriteString("<p>次に、オンボーディングの仕組みを整えます。さらに、定期的な振り返りを行うと効果的です。</p>")
	b.WriteString("<h2>まとめ</h2>")
	b.WriteString("<p>このように、段階的に取り組むことで成果につながります。最後に、継続的な改善を心がけてください。</p>")
	return b.String()
}

// SyntheticRanking serves the demo catalog's ranking metrics.
type SyntheticRanking struct {
	prefix string
}

func NewSyntheticRanking(prefix string) *SyntheticRanking {
	return &SyntheticRanking{prefix: prefix}
}

func (p *SyntheticRanking) Name() string { return "synthetic-ranking" }

func (p *SyntheticRanking) FetchRanking(context.Context) (map[seo.ContentKey]seo.RankingMetrics, error) {
	out := make(map[seo.ContentKey]seo.RankingMetrics, len(demoCatalog))
	for _, d := range demoCatalog {
		m := d.Ranking
		m.Clicks = int(math.Round(float64(m.Impressions) * m.CTR / 100))
		out[seo.KeyForSlug(p.prefix, d.Slug)] = m
	}
	return out, nil
}

// SyntheticEngagement serves the demo catalog's engagement metrics.
type SyntheticEngagement struct {
	prefix string
}

func NewSyntheticEngagement(prefix string) *SyntheticEngagement {
	return &SyntheticEngagement{prefix: prefix}
}

func (p *SyntheticEngagement) Name() string { return "synthetic-engagement" }

func (p *SyntheticEngagement) FetchEngagement(context.Context) (map[seo.ContentKey]seo.EngagementMetrics, error) {
	out := make(map[seo.ContentKey]seo.EngagementMetrics, len(demoCatalog))
	for _, d := range demoCatalog {
		m := d.Engagement
		if m.Sessions > 0 {
			m.TransitionRate = round2(float64(m.TransitionSessions) / float64(m.Sessions) * 100)
		}
		out[seo.KeyForSlug(p.prefix, d.Slug)] = m
	}
	return out, nil
}

type demoQuery struct {
	suffix      string
	impressions int
	clicks      int
	position    float64
}

var demoQueries = []demoQuery{
	{"とは", 850, 45, 4.2},
	{" 意味", 620, 32, 5.8},
	{" メリット", 480, 28, 6.5},
	{" 事例", 390, 22, 7.1},
	{" 導入", 320, 18, 8.3},
	{" ツール", 280, 15, 9.2},
	{" 比較", 250, 12, 10.5},
	{" 成功", 210, 10, 12.3},
	{" 方法", 180, 8, 15.6},
	{" やり方", 150, 6, 18.2},
}

// SyntheticQueries builds query lists around the requested keyword.
type SyntheticQueries struct{}

func NewSyntheticQueries() *SyntheticQueries {
	return &SyntheticQueries{}
}

func (p *SyntheticQueries) Name() string { return "synthetic-queries" }

func (p *SyntheticQueries) FetchRelatedQueries(_ context.Context, keyword string, rowLimit int) ([]seo.RelatedQuery, error) {
	return DemoQueries(keyword, rowLimit), nil
}

func (p *SyntheticQueries) FetchCategoryQueries(_ context.Context, category string, rowLimit int) ([]seo.RelatedQuery, error) {
	return DemoQueries(category, rowLimit), nil
}

// DemoQueries returns up to limit synthetic queries for keyword; limit <= 0
// returns all of them.
func DemoQueries(keyword string, limit int) []seo.RelatedQuery {
	out := make([]seo.RelatedQuery, 0, len(demoQueries))
	for _, q := range demoQueries {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, seo.RelatedQuery{
			Query:       keyword + q.suffix,
			Impressions: q.impressions,
			Clicks:      q.clicks,
			CTR:         round2(float64(q.clicks) / float64(q.impressions) * 100),
			Position:    q.position,
		})
	}
	return out
}
