// Package seo defines the entities shared by the scoring, selection and
// pattern-mining components.
package seo

import (
	"time"
)

// ContentKey names one content item across the ranking provider, the
// engagement provider and the content store. It is the normalized URL path,
// e.g. "/lab/partner-marketing-guide".
type ContentKey string

// MinImpressions is the lowest impression count an item needs to be scored.
const MinImpressions = 10

// RankingMetrics is one search-console row for a content key.
type RankingMetrics struct {
	Impressions int     `json:"impressions"`
	Clicks      int     `json:"clicks"`
	CTR         float64 `json:"ctr"`      // percent, 0-100
	Position    float64 `json:"position"` // average position, lower is better
}

// EngagementMetrics is the merged web-analytics view of a content key.
type EngagementMetrics struct {
	Sessions           int     `json:"sessions"`
	TransitionSessions int     `json:"transitionSessions"`
	TransitionRate     float64 `json:"transitionRate"` // percent
	EngagementRate     float64 `json:"engagementRate"` // percent
	AvgSessionDuration float64 `json:"avgSessionDuration"`
	BounceRate         float64 `json:"bounceRate"` // percent
}

// Defaults applied when an item has no engagement signal.
const (
	DefaultEngagementRate = 50.0
	DefaultTransitionRate = 0.0
)

// FusedMetrics is the subset of fused ranking + engagement data that feeds
// the scoring engine, plus the ranking counters for display.
type FusedMetrics struct {
	Position       float64 `json:"position"`
	CTR            float64 `json:"ctr"`
	TransitionRate float64 `json:"transitionRate"`
	EngagementRate float64 `json:"engagementRate"`
	Impressions    int     `json:"impressions"`
	Clicks         int     `json:"clicks"`
	Sessions       int     `json:"sessions"`
}

// ScoreBreakdown holds the four step-function sub-scores.
type ScoreBreakdown struct {
	RankScore       int `json:"rankScore"`
	CTRScore        int `json:"ctrScore"`
	TransitionScore int `json:"transitionScore"`
	EngagementScore int `json:"engagementScore"`
}

// ContentScore is the scored view of one content item.
type ContentScore struct {
	Key      ContentKey     `json:"key"`
	Slug     string         `json:"slug"`
	Title    string         `json:"title"`
	SEOScore int            `json:"seoScore"`
	Rank     Rank           `json:"rank"`
	Metrics  FusedMetrics   `json:"metrics"`
	Scores   ScoreBreakdown `json:"scores"`
	Facets   Facets         `json:"facets"`
}

// ScoreCorpus is one full scoring pass, sorted by SEOScore descending.
type ScoreCorpus struct {
	ID         string         `json:"id"`
	Scores     []ContentScore `json:"scores"`
	ComputedAt time.Time      `json:"computedAt"`
	Synthetic  bool           `json:"synthetic"`
}

// RankDistribution counts items per rank.
type RankDistribution struct {
	S int `json:"S"`
	A int `json:"A"`
	B int `json:"B"`
	C int `json:"C"`
}

// Add counts one item of rank r.
func (d *RankDistribution) Add(r Rank) {
	switch r {
	case RankS:
		d.S++
	case RankA:
		d.A++
	case RankB:
		d.B++
	case RankC:
		d.C++
	}
}

// ScoreSummary is the admin dashboard view of a corpus.
type ScoreSummary struct {
	TotalItems       int              `json:"totalItems"`
	RankDistribution RankDistribution `json:"rankDistribution"`
	AvgScore         int              `json:"avgScore"`
	TopItems         []ContentScore   `json:"topItems"`
	ComputedAt       time.Time        `json:"computedAt"`
	Synthetic        bool             `json:"synthetic"`
}

// Article is a published item in the content store.
type Article struct {
	Slug   string `json:"slug"`
	Title  string `json:"title"`
	Markup string `json:"-"`
	Facets Facets `json:"facets"`
}

// Key returns the content key of the article under prefix.
func (a Article) Key(prefix string) ContentKey {
	return KeyForSlug(prefix, a.Slug)
}

// ArticleMeta is what the fusion layer needs from the content store.
type ArticleMeta struct {
	Title  string
	Facets Facets
}

// RelatedQuery is one search query the site was shown for.
type RelatedQuery struct {
	Query       string  `json:"query"`
	Impressions int     `json:"impressions"`
	Clicks      int     `json:"clicks"`
	CTR         float64 `json:"ctr"`      // percent, 2 decimals
	Position    float64 `json:"position"` // 1 decimal
}
