package services

import (
	"context"
	"time"

	"github.com/AtRiskMedia/tractstack-seo/internal/domain/entities/seo"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/logging"
)

// SuccessSetService selects the high-performing subset of the corpus.
type SuccessSetService struct {
	scores *ScoreService
	logger *logging.ChanneledLogger
}

// NewSuccessSetService creates a success-set selector over the score service.
func NewSuccessSetService(scores *ScoreService, logger *logging.ChanneledLogger) *SuccessSetService {
	return &SuccessSetService{
		scores: scores,
		logger: logger,
	}
}

// Select validates the filter and returns matching items in score order.
// An empty MinRank means A. Only an invalid filter is an error.
func (s *SuccessSetService) Select(ctx context.Context, filter seo.SuccessFilter) ([]seo.ContentScore, error) {
	start := time.Now()
	filter = filter.WithDefaults()
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	corpus, err := s.scores.GetScores(ctx, false)
	if err != nil {
		return nil, err
	}

	selected := SelectFrom(corpus.Scores, filter)

	s.logger.Analytics().Debug("Success set selected",
		"filter", filter.Signature(),
		"corpus", len(corpus.Scores),
		"selected", len(selected),
		"duration", time.Since(start))
	return selected, nil
}

// SelectFrom applies filter to scores, which must already be sorted.
func SelectFrom(scores []seo.ContentScore, filter seo.SuccessFilter) []seo.ContentScore {
	out := []seo.ContentScore{}
	for _, sc := range scores {
		if !filter.Matches(sc) {
			continue
		}
		out = append(out, sc)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out
}
