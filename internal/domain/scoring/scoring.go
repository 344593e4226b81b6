// Package scoring converts fused content metrics into sub-scores, a weighted
// composite score and a rank. Everything here is pure.
package scoring

import (
	"errors"
	"fmt"
	"math"

	"github.com/AtRiskMedia/tractstack-seo/internal/domain/entities/seo"
)

// ErrInvalidWeights reports weights that are negative or do not sum to 1.
var ErrInvalidWeights = errors.New("invalid score weights")

// Weights are the composite score coefficients.
type Weights struct {
	Rank       float64 `json:"rank"`
	CTR        float64 `json:"ctr"`
	Transition float64 `json:"transition"`
	Engagement float64 `json:"engagement"`
}

// DefaultWeights favour search position, then CTR and conversion transitions.
var DefaultWeights = Weights{
	Rank:       0.30,
	CTR:        0.25,
	Transition: 0.25,
	Engagement: 0.20,
}

const weightTolerance = 1e-6

// Validate requires non-negative weights summing to 1.0.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"rank": w.Rank, "ctr": w.CTR, "transition": w.Transition, "engagement": w.Engagement,
	} {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("%w: %s weight %v", ErrInvalidWeights, name, v)
		}
	}
	if sum := w.Rank + w.CTR + w.Transition + w.Engagement; math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("%w: weights sum to %v", ErrInvalidWeights, sum)
	}
	return nil
}

// step is one threshold of a staircase.
type step struct {
	bound float64
	score int
}

// Staircases, first matching step wins.
var (
	positionSteps = []step{{3, 100}, {5, 90}, {10, 70}, {20, 50}, {30, 30}}
	ctrSteps      = []step{{8, 100}, {5, 90}, {3, 70}, {2, 50}, {1, 30}}
	transSteps    = []step{{5, 100}, {3, 85}, {2, 70}, {1, 50}}
	engageSteps   = []step{{70, 100}, {60, 85}, {50, 70}, {40, 50}}
	rankSteps     = []struct {
		min  int
		rank seo.Rank
	}{{85, seo.RankS}, {70, seo.RankA}, {50, seo.RankB}}
)

// atMost walks a staircase where lower input is better.
func atMost(v float64, steps []step, floor int) int {
	for _, s := range steps {
		if v <= s.bound {
			return s.score
		}
	}
	return floor
}

// atLeast walks a staircase where higher input is better.
func atLeast(v float64, steps []step, floor int) int {
	for _, s := range steps {
		if v >= s.bound {
			return s.score
		}
	}
	return floor
}

// RankScore maps average search position to 0-100.
func RankScore(position float64) int { return atMost(position, positionSteps, 10) }

// CTRScore maps click-through rate (percent) to 0-100.
func CTRScore(ctr float64) int { return atLeast(ctr, ctrSteps, 10) }

// TransitionScore maps the conversion transition rate (percent) to 0-100.
func TransitionScore(rate float64) int { return atLeast(rate, transSteps, 30) }

// EngagementScore maps the engagement rate (percent) to 0-100.
func EngagementScore(rate float64) int { return atLeast(rate, engageSteps, 30) }

// Breakdown computes all four sub-scores.
func Breakdown(m seo.FusedMetrics) seo.ScoreBreakdown {
	return seo.ScoreBreakdown{
		RankScore:       RankScore(m.Position),
		CTRScore:        CTRScore(m.CTR),
		TransitionScore: TransitionScore(m.TransitionRate),
		EngagementScore: EngagementScore(m.EngagementRate),
	}
}

// Composite is round(Σ subscore*weight).
func Composite(b seo.ScoreBreakdown, w Weights) int {
	total := float64(b.RankScore)*w.Rank +
		float64(b.CTRScore)*w.CTR +
		float64(b.TransitionScore)*w.Transition +
		float64(b.EngagementScore)*w.Engagement
	return int(math.Round(total))
}

// AssignRank maps a composite score to S/A/B/C.
func AssignRank(score int) seo.Rank {
	for _, s := range rankSteps {
		if score >= s.min {
			return s.rank
		}
	}
	return seo.RankC
}

// Score runs the whole engine for one item.
func Score(m seo.FusedMetrics, w Weights) (int, seo.ScoreBreakdown) {
	b := Breakdown(m)
	return Composite(b, w), b
}
