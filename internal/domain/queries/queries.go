// Package queries ranks the search queries a site already appears for and
// renders them as a writing brief.
package queries

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/AtRiskMedia/tractstack-seo/internal/domain/entities/seo"
)

// promptQueries is how many queries a brief lists.
const promptQueries = 10

// Score rates how worth targeting q is. Exposure and CTR are capped, the
// position tier rewards the first two result pages, and longTail adds up to
// 15 points for multi-word queries.
func Score(q seo.RelatedQuery, longTail bool) float64 {
	score := math.Min(float64(q.Impressions)/100, 30)
	score += math.Min(q.CTR*5, 25)

	switch {
	case q.Position <= 10:
		score += 25
	case q.Position <= 20:
		score += 15
	default:
		score += 5
	}

	if longTail {
		words := max(len(strings.Fields(q.Query)), 1)
		score += math.Min(float64(words*3), 15)
	}
	return score
}

// Select returns up to n queries ordered by Score, best first. Equal scores
// keep their input order.
func Select(qs []seo.RelatedQuery, n int, longTail bool) []seo.RelatedQuery {
	n = max(n, 0)
	type scored struct {
		q     seo.RelatedQuery
		score float64
	}
	ranked := make([]scored, len(qs))
	for i, q := range qs {
		ranked[i] = scored{q, Score(q, longTail)}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	out := make([]seo.RelatedQuery, 0, min(n, len(ranked)))
	for _, r := range ranked {
		if len(out) == n {
			break
		}
		out = append(out, r.q)
	}
	return out
}

// Filter drops queries under minImpressions and truncates to limit.
func Filter(qs []seo.RelatedQuery, minImpressions, limit int) []seo.RelatedQuery {
	limit = max(limit, 0)
	out := make([]seo.RelatedQuery, 0, min(limit, len(qs)))
	for _, q := range qs {
		if len(out) == limit {
			break
		}
		if q.Impressions >= minImpressions {
			out = append(out, q)
		}
	}
	return out
}

// RenderPrompt lists the leading queries for a writer. No queries renders
// the empty string.
func RenderPrompt(qs []seo.RelatedQuery) string {
	if len(qs) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("## ユーザーが実際に検索しているキーワード（GSCより）\n\n")
	b.WriteString("以下のキーワードは、実際にユーザーがGoogleで検索し、自社サイトが表示されたクエリです。\n")
	b.WriteString("これらを記事内に自然に含めることで、SEO効果を高めることができます。\n\n")
	for i, q := range qs[:min(promptQueries, len(qs))] {
		fmt.Fprintf(&b, "%d. 「%s」（月間%d回表示、順位%s位）\n", i+1, q.Query, q.Impressions,
			strconv.FormatFloat(q.Position, 'f', -1, 64))
	}
	b.WriteString("\n### 活用のポイント\n")
	b.WriteString("- H2/H3見出しにキーワードを含める\n")
	b.WriteString("- 本文中で関連キーワードを自然に使用\n")
	b.WriteString("- ユーザーの検索意図を満たす内容にする")
	return b.String()
}
