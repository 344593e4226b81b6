package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/tractstack-seo/internal/domain/markup"
)

const (
	guideMarkup = `<h2><span>パートナーマーケティング</span>とは</h2><h3>定義</h3><h3>背景</h3>` +
		`<p>本文</p><h2>導入のメリット</h2><h3>コスト削減</h3><h2> </h2><h2>まとめ</h2>`
	toolsMarkup = `<h2>PRMツールとは</h2><h2>比較ポイント</h2><h3>価格</h3>`
)

func testDocs() []markup.Document {
	return []markup.Document{
		{Slug: "partner-marketing-guide", Title: "Guide", SEOScore: 92, Markup: guideMarkup},
		{Slug: "prm-tools", Title: "Tools", SEOScore: 81, Markup: toolsMarkup},
	}
}

func TestExtractOutline(t *testing.T) {
	got := ExtractOutline(guideMarkup)

	assert.Equal(t, []Heading{
		{Level: LevelH2, Text: "パートナーマーケティングとは"},
		{Level: LevelH3, Text: "定義"},
		{Level: LevelH3, Text: "背景"},
		{Level: LevelH2, Text: "導入のメリット"},
		{Level: LevelH3, Text: "コスト削減"},
		{Level: LevelH2, Text: "まとめ"},
	}, got)
	assert.Empty(t, ExtractOutline("<p>no headings</p><h4>ignored</h4>"))
}

func TestTaxonomyFirstMatchWins(t *testing.T) {
	rule, ok := HeadingTaxonomy.Classify("比較ポイント")
	require.True(t, ok)
	assert.Equal(t, "ポイント", rule.Pattern)

	rule, ok = HeadingTaxonomy.Classify("導入のメリット")
	require.True(t, ok)
	assert.Equal(t, "メリット", rule.Pattern)

	_, ok = HeadingTaxonomy.Classify("会社概要")
	assert.False(t, ok)
}

func TestAnalyze(t *testing.T) {
	p := Analyze(testDocs())

	assert.False(t, p.Fallback)
	assert.Equal(t, 2, p.SampleSize)
	assert.Equal(t, 2.5, p.H2.AvgCount)
	assert.Equal(t, 2, p.H2.MinCount)
	assert.Equal(t, 3, p.H2.MaxCount)
	assert.Equal(t, 0.8, p.H3.AvgCountPerH2)
	assert.Equal(t, 2.0, p.H3.TotalAvgCount)

	require.Len(t, p.H2.CommonPatterns, 4)
	assert.Equal(t, "とは", p.H2.CommonPatterns[0].Pattern)
	assert.Equal(t, 40, p.H2.CommonPatterns[0].Frequency)
	assert.Equal(t, []string{"パートナーマーケティングとは", "PRMツールとは"}, p.H2.CommonPatterns[0].Examples)
	for _, f := range append(p.H2.CommonPatterns, p.H3.CommonPatterns...) {
		assert.GreaterOrEqual(t, f.Frequency, 0)
		assert.LessOrEqual(t, f.Frequency, 100)
	}

	assert.Equal(t, ArchetypeComparison, p.Archetype)
	assert.Equal(t, StructureFlows[ArchetypeComparison], p.StructureFlow)

	require.Len(t, p.SampleOutlines, 2)
	assert.Equal(t, "partner-marketing-guide", p.SampleOutlines[0].Slug)
	assert.Len(t, p.SampleOutlines[1].Outline, 3)
}

func TestFrequenciesTopFive(t *testing.T) {
	headings := []string{"Aとは", "Bとは", "Cのメリット", "D方法", "Eのポイント", "F事例", "G比較", "まとめ", "会社概要"}
	got := HeadingTaxonomy.Frequencies(headings)

	require.Len(t, got, 5)
	assert.Equal(t, "とは", got[0].Pattern)
	assert.Equal(t, 22, got[0].Frequency)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Frequency, got[i].Frequency)
	}
	assert.Empty(t, HeadingTaxonomy.Frequencies(nil))
}

func TestClassifyArchetypePrecedence(t *testing.T) {
	assert.Equal(t, ArchetypeCaseStudy, ClassifyArchetype("比較 導入事例 手順"))
	assert.Equal(t, ArchetypeComparison, ClassifyArchetype("A VS B 手順"))
	assert.Equal(t, ArchetypeHowTo, ClassifyArchetype("設定の手順"))
	assert.Equal(t, ArchetypeKnowledge, ClassifyArchetype("概要"))
}

func TestAnalyzeEmptyCorpusFallsBack(t *testing.T) {
	p := Analyze(nil)

	assert.True(t, p.Fallback)
	assert.NotEmpty(t, p.StructureFlow)
	assert.NotEmpty(t, p.H2.CommonPatterns)
	for _, f := range p.H2.CommonPatterns {
		assert.LessOrEqual(t, f.Frequency, 100)
	}
}

func TestRecommendOutline(t *testing.T) {
	p := Analyze(testDocs())
	outline := RecommendOutline("PRM", p)

	require.Len(t, outline, 12)
	assert.Equal(t, OutlineEntry{Level: LevelH2, Text: "PRMとは", Keywords: []string{"PRM"}}, outline[0])
	assert.Equal(t, OutlineEntry{Level: LevelH3, Text: "[H3 1-1]"}, outline[1])
	assert.Equal(t, "PRMの主な選択肢", outline[2].Text)
	assert.Equal(t, "PRMのまとめ", outline[10].Text)
	assert.Equal(t, "[H3 6-1]", outline[11].Text)

	assert.Equal(t, outline, RecommendOutline("PRM", p))
	assert.Equal(t, RenderOutline(outline), RenderOutline(RecommendOutline("PRM", p)))
}

func TestRecommendOutlineNamesTopicInEveryStage(t *testing.T) {
	for archetype, flow := range StructureFlows {
		outline := RecommendOutline("PRM", StructuralPattern{StructureFlow: flow})
		require.Len(t, outline, len(flow), archetype)
		for _, e := range outline {
			assert.Contains(t, e.Text, "PRM", archetype)
		}
	}
}

func TestRecommendOutlineFromFallback(t *testing.T) {
	outline := RecommendOutline("チャネル戦略", FallbackPattern())

	// 7 stages, round(1.8) = 2 placeholders each
	require.Len(t, outline, 21)
	assert.Equal(t, "なぜチャネル戦略が重要なのか", outline[6].Text)
	assert.Equal(t, "[H3 7-2]", outline[20].Text)
}

func TestAnalyzeSuccess(t *testing.T) {
	docs := []markup.Document{{
		Slug:     "prm",
		Title:    "PRM",
		SEOScore: 90,
		Markup:   `<h2>PRMとは</h2><p>これはテスト用の段落です。二つ目の文です！</p><ul><li>a</li></ul>`,
	}}
	got := AnalyzeSuccess(docs)

	assert.False(t, got.Fallback)
	assert.Equal(t, 1, got.AvgH2Count)
	assert.Equal(t, 0, got.AvgH3Count)
	assert.Equal(t, 27, got.AvgCharCount)
	assert.Equal(t, []string{"とは"}, got.CommonH2Suffixes)
	assert.Equal(t, 21, got.AvgParagraphLength)
	assert.Equal(t, 10, got.AvgSentenceLength)
	assert.Equal(t, 33, got.BulletPointRate)
	require.Len(t, got.SampleArticles, 1)
	assert.Equal(t, "PRMとはこれはテスト用の段落です。二つ目の文です！a", got.SampleArticles[0].Excerpt)

	assert.True(t, AnalyzeSuccess(nil).Fallback)
}
