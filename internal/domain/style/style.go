// Package style measures the writing style of high-performing articles and
// renders it as a prompt brief.
package style

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/AtRiskMedia/tractstack-seo/internal/domain/markup"
)

const (
	minParagraphLen = 20
	minSentenceLen  = 5
	sampleLen       = 200
	sampleBandMin   = 100
	sampleBandMax   = 300
	maxSamples      = 3
)

var sentenceBreak = regexp.MustCompile(`[。！？!?]`)

// EndingShare is the percentage of all sentences closing with Pattern.
type EndingShare struct {
	Pattern    string `json:"pattern"`
	Percentage int    `json:"percentage"`
}

// Sample is one verbatim paragraph taken from a top article.
type Sample struct {
	Slug            string `json:"slug"`
	Title           string `json:"title"`
	SEOScore        int    `json:"seoScore"`
	ParagraphSample string `json:"paragraphSample"`
}

// Analysis is the style report of a success set.
type Analysis struct {
	AvgParagraphLength       int           `json:"avgParagraphLength"`
	AvgSentenceLength        int           `json:"avgSentenceLength"`
	AvgSentencesPerParagraph float64       `json:"avgSentencesPerParagraph"`
	SentenceEndings          []EndingShare `json:"sentenceEndingPatterns"`
	BulletPointRate          int           `json:"bulletPointRate"`
	NumberedListRate         int           `json:"numberedListRate"`
	BoldRate                 int           `json:"boldRate"`
	BlockquoteRate           int           `json:"blockquoteRate"`
	CommonPhrases            []string      `json:"commonPhrases"`
	TechnicalTermRate        int           `json:"technicalTermRate"`
	StyleSamples             []Sample      `json:"styleSamples"`
	SampleSize               int           `json:"sampleSize"`
	Fallback                 bool          `json:"fallback"`
}

// StructuralRates are per-document element usage percentages.
type StructuralRates struct {
	BulletPoint  int
	NumberedList int
	Bold         int
	Blockquote   int
}

// Analyzer computes style reports with a fixed ending table and vocabulary.
type Analyzer struct {
	endings []EndingRule
	vocab   Vocabulary
}

// NewAnalyzer returns an analyzer over vocab; empty lists keep the defaults.
func NewAnalyzer(vocab Vocabulary) *Analyzer {
	return &Analyzer{
		endings: EndingTaxonomy,
		vocab:   DefaultVocabulary().Merge(vocab),
	}
}

// Vocabulary returns the word lists in use.
func (a *Analyzer) Vocabulary() Vocabulary {
	return a.vocab
}

// SplitSentences splits text on terminal punctuation and keeps sentences
// longer than five characters.
func SplitSentences(text string) []string {
	var out []string
	for _, s := range sentenceBreak.Split(text, -1) {
		if s = strings.TrimSpace(s); markup.Len(s) > minSentenceLen {
			out = append(out, s)
		}
	}
	return out
}

// Endings reports each ending's share of all sentences, sorted descending.
// Unmatched sentences stay in the denominator.
func (a *Analyzer) Endings(sentences []string) []EndingShare {
	out := []EndingShare{}
	if len(sentences) == 0 {
		return out
	}
	counts := make([]int, len(a.endings))
	for _, s := range sentences {
		for i, rule := range a.endings {
			if rule.Matcher.MatchString(s) {
				counts[i]++
				break
			}
		}
	}
	for i, c := range counts {
		if c == 0 {
			continue
		}
		out = append(out, EndingShare{
			Pattern:    a.endings[i].Pattern,
			Percentage: percent(c, len(sentences)),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Percentage > out[j].Percentage })
	return out
}

// Structure computes element usage rates for one document. The block
// count covers paragraphs, lists, headings and blockquotes, floored at 1.
// Inline emphasis can outnumber blocks, so each rate is capped at 100.
func Structure(html string) StructuralRates {
	doc := markup.Parse(html)
	blocks := max(markup.Count(doc, "p, ul, ol, h2, h3, h4, h5, h6, blockquote"), 1)
	rate := func(selector string) int {
		return min(percent(markup.Count(doc, selector), blocks), 100)
	}
	return StructuralRates{
		BulletPoint:  rate("ul"),
		NumberedList: rate("ol"),
		Bold:         rate("strong, b"),
		Blockquote:   rate("blockquote"),
	}
}

// Phrases returns the business phrases present anywhere in text.
func (a *Analyzer) Phrases(text string) []string {
	out := []string{}
	for _, p := range a.vocab.BusinessPhrases {
		if strings.Contains(text, p) {
			out = append(out, p)
		}
	}
	return out
}

// TermDensity estimates technical-term usage: distinct terms found per 100
// characters, scaled by 10 and capped at 100.
func (a *Analyzer) TermDensity(text string) int {
	n := markup.Len(text)
	if n == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	found := 0
	for _, term := range a.vocab.TechnicalTerms {
		if strings.Contains(lower, strings.ToLower(term)) {
			found++
		}
	}
	density := float64(found) / (float64(n) / 100) * 100
	return min(int(math.Round(density*10)), 100)
}

// Analyze builds the style report of docs, which must be in score order.
// An empty input yields the fallback analysis.
func (a *Analyzer) Analyze(docs []markup.Document) Analysis {
	if len(docs) == 0 {
		return FallbackAnalysis()
	}

	var (
		paraLens, sentLens, perPara []int
		sentences, texts           []string
		rates                      []StructuralRates
		samples                    []Sample
	)
	for _, d := range docs {
		doc := markup.Parse(d.Markup)
		paragraphs := markup.Paragraphs(doc, minParagraphLen)
		texts = append(texts, markup.SpacedText(doc))

		for _, p := range paragraphs {
			paraLens = append(paraLens, markup.Len(p))
			ss := SplitSentences(p)
			perPara = append(perPara, len(ss))
			for _, s := range ss {
				sentLens = append(sentLens, markup.Len(s))
				sentences = append(sentences, s)
			}
		}
		rates = append(rates, Structure(d.Markup))

		if len(samples) < maxSamples {
			samples = append(samples, Sample{
				Slug:            d.Slug,
				Title:           d.Title,
				SEOScore:        d.SEOScore,
				ParagraphSample: markup.Truncate(pickSample(paragraphs), sampleLen),
			})
		}
	}

	full := strings.Join(texts, " ")
	out := Analysis{
		AvgParagraphLength:       avgInt(paraLens),
		AvgSentenceLength:        avgInt(sentLens),
		AvgSentencesPerParagraph: math.Round(mean(perPara)*10) / 10,
		SentenceEndings:          a.Endings(sentences),
		CommonPhrases:            a.Phrases(full),
		TechnicalTermRate:        a.TermDensity(full),
		StyleSamples:             samples,
		SampleSize:               len(docs),
	}
	var bullet, numbered, bold, quote []int
	for _, r := range rates {
		bullet = append(bullet, r.BulletPoint)
		numbered = append(numbered, r.NumberedList)
		bold = append(bold, r.Bold)
		quote = append(quote, r.Blockquote)
	}
	out.BulletPointRate = avgInt(bullet)
	out.NumberedListRate = avgInt(numbered)
	out.BoldRate = avgInt(bold)
	out.BlockquoteRate = avgInt(quote)
	return out
}

// pickSample prefers the first paragraph inside the natural length band.
func pickSample(paragraphs []string) string {
	for _, p := range paragraphs {
		if n := markup.Len(p); n >= sampleBandMin && n <= sampleBandMax {
			return p
		}
	}
	if len(paragraphs) > 0 {
		return paragraphs[0]
	}
	return ""
}

// RenderPrompt renders a deterministic style brief.
func RenderPrompt(a Analysis) string {
	endings := make([]string, 0, 3)
	for i, e := range a.SentenceEndings {
		if i == 3 {
			break
		}
		endings = append(endings, fmt.Sprintf("「%s」(%d%%)", e.Pattern, e.Percentage))
	}
	phrases := a.CommonPhrases
	if len(phrases) > 5 {
		phrases = phrases[:5]
	}
	samples := make([]string, 0, len(a.StyleSamples))
	for _, s := range a.StyleSamples {
		samples = append(samples, fmt.Sprintf("**%s（SEOスコア: %d）**\n「%s...」", s.Title, s.SEOScore, s.ParagraphSample))
	}

	var b strings.Builder
	b.WriteString("## 成功記事の文体特徴（SEOスコア上位記事から抽出）\n\n")
	b.WriteString("### 基本特徴\n")
	fmt.Fprintf(&b, "- 平均段落長: %d文字\n", a.AvgParagraphLength)
	fmt.Fprintf(&b, "- 平均文長: %d文字\n", a.AvgSentenceLength)
	fmt.Fprintf(&b, "- 段落あたりの文数: %s文\n\n", formatDecimal(a.AvgSentencesPerParagraph))
	b.WriteString("### 文末パターン\n")
	b.WriteString(strings.Join(endings, "、"))
	b.WriteString("\n\n### 構造特徴\n")
	fmt.Fprintf(&b, "- 箇条書き使用率: %d%%\n", a.BulletPointRate)
	fmt.Fprintf(&b, "- 番号付きリスト使用率: %d%%\n", a.NumberedListRate)
	fmt.Fprintf(&b, "- 太字強調使用率: %d%%\n\n", a.BoldRate)
	b.WriteString("### よく使われるフレーズ\n")
	b.WriteString(strings.Join(phrases, "、"))
	b.WriteString("\n\n### 文体サンプル\n")
	b.WriteString(strings.Join(samples, "\n\n"))
	return b.String()
}

func formatDecimal(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int(v))
	}
	return fmt.Sprintf("%.1f", v)
}

func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(total) * 100))
}

func mean(v []int) float64 {
	if len(v) == 0 {
		return 0
	}
	sum := 0
	for _, x := range v {
		sum += x
	}
	return float64(sum) / float64(len(v))
}

func avgInt(v []int) int {
	return int(math.Round(mean(v)))
}
