package patterns

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/AtRiskMedia/tractstack-seo/internal/domain/markup"
)

const (
	successParagraphMin = 10
	excerptLength       = 100
)

// SuccessPattern is a coarse per-article aggregate of a success set.
type SuccessPattern struct {
	AvgH2Count         int              `json:"avgH2Count"`
	AvgH3Count         int              `json:"avgH3Count"`
	AvgCharCount       int              `json:"avgCharCount"`
	CommonH2Suffixes   []string         `json:"commonH2Patterns"`
	AvgParagraphLength int              `json:"avgParagraphLength"`
	BulletPointRate    int              `json:"bulletPointRate"`
	AvgSentenceLength  int              `json:"avgSentenceLength"`
	SampleArticles     []ArticleExcerpt `json:"sampleArticles"`
	Fallback           bool             `json:"fallback"`
}

// ArticleExcerpt is the leading plain text of an article.
type ArticleExcerpt struct {
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	SEOScore int    `json:"seoScore"`
	Excerpt  string `json:"excerpt"`
}

// h2Suffixes count every match, unlike the first-match taxonomy.
var h2Suffixes = []string{"とは", "の方法", "のメリット", "のポイント", "の特徴", "まとめ", "事例", "について"}

var sentenceBreak = regexp.MustCompile(`[。！？]`)

// AnalyzeSuccess aggregates docs into a SuccessPattern. Averages are
// rounded to integers.
func AnalyzeSuccess(docs []markup.Document) SuccessPattern {
	if len(docs) == 0 {
		return FallbackSuccessPattern()
	}

	var h2Counts, h3Counts, charCounts, bulletRates, paraLens, sentLens []int
	suffixCounts := make(map[string]int)

	for _, d := range docs {
		doc := markup.Parse(d.Markup)
		h2, h3 := 0, 0
		for _, h := range ExtractOutline(d.Markup) {
			if h.Level == LevelH2 {
				h2++
				for _, s := range h2Suffixes {
					if strings.HasSuffix(h.Text, s) {
						suffixCounts[s]++
					}
				}
			} else {
				h3++
			}
		}
		h2Counts = append(h2Counts, h2)
		h3Counts = append(h3Counts, h3)
		charCounts = append(charCounts, markup.Len(strings.Join(strings.Fields(markup.PlainText(doc)), "")))

		lists := markup.Count(doc, "ul, ol")
		blocks := lists + markup.Count(doc, "p, h2")
		rate := 0
		if blocks > 0 {
			rate = int(math.Round(float64(lists) / float64(blocks) * 100))
		}
		bulletRates = append(bulletRates, rate)

		for _, p := range markup.Paragraphs(doc, successParagraphMin) {
			paraLens = append(paraLens, markup.Len(p))
			for _, s := range sentenceBreak.Split(p, -1) {
				if s != "" {
					sentLens = append(sentLens, markup.Len(s))
				}
			}
		}
	}

	samples := make([]ArticleExcerpt, 0, maxSamples)
	for _, d := range docs {
		if len(samples) == maxSamples {
			break
		}
		samples = append(samples, Excerpt(d, excerptLength))
	}

	return SuccessPattern{
		AvgH2Count:         avgInt(h2Counts),
		AvgH3Count:         avgInt(h3Counts),
		AvgCharCount:       avgInt(charCounts),
		CommonH2Suffixes:   topSuffixes(suffixCounts, topPatterns),
		AvgParagraphLength: avgInt(paraLens),
		BulletPointRate:    avgInt(bulletRates),
		AvgSentenceLength:  avgInt(sentLens),
		SampleArticles:     samples,
	}
}

// Excerpt returns the first n characters of the document's plain text.
func Excerpt(d markup.Document, n int) ArticleExcerpt {
	return ArticleExcerpt{
		Slug:     d.Slug,
		Title:    d.Title,
		SEOScore: d.SEOScore,
		Excerpt:  markup.Truncate(markup.PlainText(markup.Parse(d.Markup)), n),
	}
}

func topSuffixes(counts map[string]int, n int) []string {
	out := make([]string, 0, len(counts))
	for _, s := range h2Suffixes {
		if counts[s] > 0 {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return counts[out[i]] > counts[out[j]] })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func avgInt(v []int) int {
	if len(v) == 0 {
		return 0
	}
	sum := 0
	for _, x := range v {
		sum += x
	}
	return int(math.Round(float64(sum) / float64(len(v))))
}
