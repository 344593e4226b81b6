// Package patterns mines heading structure from high-performing articles and
// expands it into outline templates for new topics.
package patterns

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/AtRiskMedia/tractstack-seo/internal/domain/markup"
)

// Level is a heading level.
type Level string

const (
	LevelH2 Level = "h2"
	LevelH3 Level = "h3"
)

const (
	topPatterns = 5
	maxExamples = 3
	maxSamples  = 3
)

// Heading is one entry of an article outline.
type Heading struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// OutlineEntry is a heading of a recommended outline.
type OutlineEntry struct {
	Level    Level    `json:"level"`
	Text     string   `json:"text"`
	Keywords []string `json:"keywords,omitempty"`
}

// PatternFrequency is the share of headings that matched one taxonomy rule.
type PatternFrequency struct {
	Pattern   string   `json:"pattern"`
	Label     string   `json:"label"`
	Frequency int      `json:"frequency"` // percent of headings at that level
	Examples  []string `json:"examples"`
}

type H2Structure struct {
	AvgCount       float64            `json:"avgCount"`
	MinCount       int                `json:"minCount"`
	MaxCount       int                `json:"maxCount"`
	CommonPatterns []PatternFrequency `json:"commonPatterns"`
}

type H3Structure struct {
	AvgCountPerH2  float64            `json:"avgCountPerH2"`
	TotalAvgCount  float64            `json:"totalAvgCount"`
	CommonPatterns []PatternFrequency `json:"commonPatterns"`
}

// SampleOutline is the verbatim outline of one top article.
type SampleOutline struct {
	Slug     string    `json:"slug"`
	Title    string    `json:"title"`
	SEOScore int       `json:"seoScore"`
	Outline  []Heading `json:"outline"`
}

// StructuralPattern is the heading report of a success set.
type StructuralPattern struct {
	H2             H2Structure     `json:"h2Structure"`
	H3             H3Structure     `json:"h3Structure"`
	Archetype      Archetype       `json:"archetype"`
	StructureFlow  []string        `json:"structureFlow"`
	SampleOutlines []SampleOutline `json:"sampleOutlines"`
	SampleSize     int             `json:"sampleSize"`
	Fallback       bool            `json:"fallback"`
}

// ExtractOutline returns the h2/h3 headings of markup in document order.
// Nested markup is stripped and empty headings are dropped.
func ExtractOutline(html string) []Heading {
	var out []Heading
	markup.Parse(html).Find("h2, h3").Each(func(_ int, s *goquery.Selection) {
		text := markup.Text(s)
		if text == "" {
			return
		}
		level := LevelH2
		if goquery.NodeName(s) == "h3" {
			level = LevelH3
		}
		out = append(out, Heading{Level: level, Text: text})
	})
	return out
}

// Frequencies classifies headings against t and returns the top patterns
// by share of len(headings).
func (t Taxonomy) Frequencies(headings []string) []PatternFrequency {
	if len(headings) == 0 {
		return []PatternFrequency{}
	}

	type tally struct {
		rule     Rule
		count    int
		examples []string
		order    int
	}
	counts := make(map[string]*tally)
	for _, h := range headings {
		rule, ok := t.Classify(h)
		if !ok {
			continue
		}
		c, exists := counts[rule.Pattern]
		if !exists {
			c = &tally{rule: rule, order: len(counts)}
			counts[rule.Pattern] = c
		}
		c.count++
		if len(c.examples) < maxExamples {
			c.examples = append(c.examples, h)
		}
	}

	tallies := make([]*tally, 0, len(counts))
	for _, c := range counts {
		tallies = append(tallies, c)
	}
	// first-seen order breaks ties so output is stable
	sort.Slice(tallies, func(i, j int) bool {
		if tallies[i].count != tallies[j].count {
			return tallies[i].count > tallies[j].count
		}
		return tallies[i].order < tallies[j].order
	})

	out := make([]PatternFrequency, 0, topPatterns)
	for _, c := range tallies {
		if len(out) == topPatterns {
			break
		}
		out = append(out, PatternFrequency{
			Pattern:   c.rule.Pattern,
			Label:     c.rule.Label,
			Frequency: int(math.Round(float64(c.count) / float64(len(headings)) * 100)),
			Examples:  c.examples,
		})
	}
	return out
}

// Analyze builds the structural report of docs with the default taxonomy.
// An empty input yields the fallback pattern.
func Analyze(docs []markup.Document) StructuralPattern {
	return HeadingTaxonomy.Analyze(docs)
}

// Analyze builds the structural report of docs using t.
func (t Taxonomy) Analyze(docs []markup.Document) StructuralPattern {
	if len(docs) == 0 {
		return FallbackPattern()
	}

	var (
		h2Texts, h3Texts []string
		minH2, maxH2     = math.MaxInt, 0
		samples          []SampleOutline
	)
	for _, d := range docs {
		outline := ExtractOutline(d.Markup)
		h2 := 0
		for _, h := range outline {
			if h.Level == LevelH2 {
				h2++
				h2Texts = append(h2Texts, h.Text)
			} else {
				h3Texts = append(h3Texts, h.Text)
			}
		}
		minH2 = min(minH2, h2)
		maxH2 = max(maxH2, h2)

		if len(samples) < maxSamples {
			samples = append(samples, SampleOutline{
				Slug:     d.Slug,
				Title:    d.Title,
				SEOScore: d.SEOScore,
				Outline:  outline,
			})
		}
	}

	n := float64(len(docs))
	archetype := ClassifyArchetype(strings.Join(h2Texts, " "))

	return StructuralPattern{
		H2: H2Structure{
			AvgCount:       round1(float64(len(h2Texts)) / n),
			MinCount:       minH2,
			MaxCount:       maxH2,
			CommonPatterns: t.Frequencies(h2Texts),
		},
		H3: H3Structure{
			AvgCountPerH2:  round1(ratio(len(h3Texts), len(h2Texts))),
			TotalAvgCount:  round1(float64(len(h3Texts)) / n),
			CommonPatterns: t.Frequencies(h3Texts),
		},
		Archetype:      archetype,
		StructureFlow:  append([]string(nil), StructureFlows[archetype]...),
		SampleOutlines: samples,
		SampleSize:     len(docs),
	}
}

// RecommendOutline expands the pattern's stage list into H2s about topic,
// each followed by round(AvgCountPerH2) placeholder H3s.
func RecommendOutline(topic string, p StructuralPattern) []OutlineEntry {
	h3Count := int(math.Round(p.H3.AvgCountPerH2))
	out := make([]OutlineEntry, 0, len(p.StructureFlow)*(1+h3Count))

	for i, stage := range p.StructureFlow {
		text := stage
		if tmpl, ok := stageTemplates[stage]; ok {
			text = strings.ReplaceAll(tmpl, "{topic}", topic)
		}
		out = append(out, OutlineEntry{Level: LevelH2, Text: text, Keywords: []string{topic}})
		for j := 0; j < h3Count; j++ {
			out = append(out, OutlineEntry{Level: LevelH3, Text: fmt.Sprintf("[H3 %d-%d]", i+1, j+1)})
		}
	}
	return out
}

// RenderOutline formats an outline as indented markdown-style lines.
func RenderOutline(entries []OutlineEntry) string {
	var b strings.Builder
	for _, e := range entries {
		if e.Level == LevelH2 {
			b.WriteString("## ")
		} else {
			b.WriteString("  ### ")
		}
		b.WriteString(e.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
