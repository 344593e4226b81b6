package container

import (
	"context"
	"testing"

	"github.com/AtRiskMedia/tractstack-seo/internal/domain/entities/seo"
	"github.com/AtRiskMedia/tractstack-seo/internal/domain/scoring"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/providers"
	"github.com/AtRiskMedia/tractstack-seo/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryArticles struct {
	articles []seo.Article
}

func (m *memoryArticles) ListPublished(context.Context) ([]seo.Article, error) {
	out := make([]seo.Article, 0, len(m.articles))
	for _, a := range m.articles {
		a.Markup = ""
		out = append(out, a)
	}
	return out, nil
}

func (m *memoryArticles) FindMarkupBySlugs(_ context.Context, slugs []string) (map[string]seo.Article, error) {
	out := make(map[string]seo.Article)
	for _, s := range slugs {
		for _, a := range m.articles {
			if a.Slug == s {
				out[s] = a
			}
		}
	}
	return out, nil
}

func newTestContainer(t *testing.T, vocab *config.Vocabulary) (*Container, error) {
	t.Helper()
	logger := logging.NewDiscardLogger()
	set := providers.New(context.Background(), providers.Config{PathPrefix: config.ContentPathPrefix}, logger)
	return NewContainer(
		logger,
		performance.NewTracker(performance.DefaultTrackerConfig()),
		set,
		&memoryArticles{articles: providers.DemoArticles()},
		vocab,
	)
}

func TestNewContainerWarmsOnSyntheticData(t *testing.T) {
	c, err := newTestContainer(t, nil)
	require.NoError(t, err)
	assert.True(t, c.Providers.Synthetic)
	assert.Equal(t, scoring.DefaultWeights, c.ScoreService.Weights())

	result, err := c.WarmingService.Warm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(providers.DemoCatalog()), result.Items)
	assert.True(t, result.Synthetic)
	assert.Equal(t, 3, result.Reports)
	assert.Equal(t, 3, c.ReportStore.Len())

	summary, err := c.InsightsService.GetScoreSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(providers.DemoCatalog()), summary.TotalItems)
}

func TestNewContainerRejectsBadWeights(t *testing.T) {
	_, err := newTestContainer(t, &config.Vocabulary{
		Weights: &config.WeightsOverride{Rank: 0.5, CTR: 0.5, Transition: 0.5, Engagement: 0.5},
	})
	assert.ErrorIs(t, err, scoring.ErrInvalidWeights)
}

func TestWeightsFrom(t *testing.T) {
	assert.Equal(t, scoring.DefaultWeights, WeightsFrom(nil))
	assert.Equal(t, scoring.DefaultWeights, WeightsFrom(&config.Vocabulary{}))

	w := WeightsFrom(&config.Vocabulary{Weights: &config.WeightsOverride{Rank: 0.4, CTR: 0.2, Transition: 0.2, Engagement: 0.2}})
	assert.Equal(t, scoring.Weights{Rank: 0.4, CTR: 0.2, Transition: 0.2, Engagement: 0.2}, w)
}
