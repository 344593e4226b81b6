package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/AtRiskMedia/tractstack-seo/internal/domain/entities/seo"
	"github.com/AtRiskMedia/tractstack-seo/internal/domain/scoring"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/security"
)

// summaryTopItems is how many leading items a score summary carries.
const summaryTopItems = 10

// ScoreService owns the scored corpus.
type ScoreService struct {
	fusion      *FusionService
	store       *stores.ScoreStore
	weights     scoring.Weights
	synthetic   bool
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewScoreService validates weights and wires fusion into the score store.
// synthetic marks every corpus as built from demo ranking data.
func NewScoreService(
	fusion *FusionService,
	store *stores.ScoreStore,
	weights scoring.Weights,
	synthetic bool,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) (*ScoreService, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &ScoreService{
		fusion:      fusion,
		store:       store,
		weights:     weights,
		synthetic:   synthetic,
		logger:      logger,
		perfTracker: perfTracker,
	}, nil
}

// Weights returns the composite weights in use.
func (s *ScoreService) Weights() scoring.Weights {
	return s.weights
}

// GetScores returns the cached corpus, recomputing it when stale or when
// forceRefresh is set.
func (s *ScoreService) GetScores(ctx context.Context, forceRefresh bool) (*seo.ScoreCorpus, error) {
	corpus, err := s.store.Get(ctx, forceRefresh, s.compute)
	if err != nil {
		return nil, fmt.Errorf("failed to get scores: %w", err)
	}
	return corpus, nil
}

func (s *ScoreService) compute(ctx context.Context) (*seo.ScoreCorpus, error) {
	start := time.Now()
	marker := s.perfTracker.StartOperation("scores:compute", "corpus")
	defer marker.Complete()

	in := s.fusion.Collect(ctx)
	// a context that ended mid-collection never produces a corpus
	if err := ctx.Err(); err != nil {
		marker.SetError(err)
		return nil, fmt.Errorf("score computation abandoned: %w", err)
	}
	records := s.fusion.Fuse(in)
	scores := ScoreRecords(records, s.weights)

	corpus := &seo.ScoreCorpus{
		ID:        security.GenerateULID(),
		Scores:    scores,
		Synthetic: s.synthetic,
	}
	marker.AddMetadata("items", len(scores))
	marker.SetSuccess(true)

	s.logger.Analytics().Info("Score corpus computed",
		"id", corpus.ID,
		"items", len(scores),
		"synthetic", s.synthetic,
		"duration", time.Since(start))
	return corpus, nil
}

// GetSummary aggregates the current corpus for the dashboard.
func (s *ScoreService) GetSummary(ctx context.Context) (*seo.ScoreSummary, error) {
	corpus, err := s.GetScores(ctx, false)
	if err != nil {
		return nil, err
	}
	summary := Summarize(corpus)
	return &summary, nil
}

// Invalidate drops the cached corpus.
func (s *ScoreService) Invalidate() {
	s.store.Invalidate()
}

// ScoreRecords scores each record and sorts by SEOScore descending. Ties
// keep key order so repeated passes are stable.
func ScoreRecords(records []FusedRecord, w scoring.Weights) []seo.ContentScore {
	out := make([]seo.ContentScore, 0, len(records))
	for _, r := range records {
		score, breakdown := scoring.Score(r.Metrics, w)
		out = append(out, seo.ContentScore{
			Key:      r.Key,
			Slug:     r.Slug,
			Title:    r.Title,
			SEOScore: score,
			Rank:     scoring.AssignRank(score),
			Metrics:  r.Metrics,
			Scores:   breakdown,
			Facets:   r.Facets,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SEOScore != out[j].SEOScore {
			return out[i].SEOScore > out[j].SEOScore
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Summarize computes the rank distribution, rounded mean score and leading
// items of a corpus.
func Summarize(corpus *seo.ScoreCorpus) seo.ScoreSummary {
	summary := seo.ScoreSummary{
		TotalItems: len(corpus.Scores),
		TopItems:   []seo.ContentScore{},
		ComputedAt: corpus.ComputedAt,
		Synthetic:  corpus.Synthetic,
	}
	if len(corpus.Scores) == 0 {
		return summary
	}

	total := 0
	for _, sc := range corpus.Scores {
		summary.RankDistribution.Add(sc.Rank)
		total += sc.SEOScore
	}
	summary.AvgScore = int(math.Round(float64(total) / float64(len(corpus.Scores))))
	summary.TopItems = corpus.Scores[:min(summaryTopItems, len(corpus.Scores))]
	return summary
}
