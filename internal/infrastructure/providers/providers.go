// Package providers implements the ranking and engagement data sources: the
// Google Search Console and GA4 clients, plus synthetic stand-ins used when
// credentials are absent.
package providers

import (
	"context"
	"errors"
	"math"
	"os"
	"strings"
	"time"

	"github.com/AtRiskMedia/tractstack-seo/internal/domain/repositories"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/logging"
)

// ErrNotConfigured is returned by a live constructor missing credentials.
var ErrNotConfigured = errors.New("provider not configured")

// Config carries everything the live providers need.
type Config struct {
	SiteURL         string
	PropertyID      string
	CredentialsJSON []byte
	PathPrefix      string
	ConversionPaths []string // a leading "=" requests an exact match
	WindowDays      int
	RowLimit        int
}

// CredentialsFrom returns the inline credentials, or the contents of file
// when no inline JSON is set.
func CredentialsFrom(inline, file string) ([]byte, error) {
	if strings.TrimSpace(inline) != "" {
		return []byte(inline), nil
	}
	if file == "" {
		return nil, nil
	}
	return os.ReadFile(file)
}

// RankingConfigured reports whether Search Console can be queried.
func (c Config) RankingConfigured() bool {
	return c.SiteURL != "" && len(c.CredentialsJSON) > 0
}

// EngagementConfigured reports whether GA4 can be queried.
func (c Config) EngagementConfigured() bool {
	return c.PropertyID != "" && len(c.CredentialsJSON) > 0
}

func (c Config) windowDays() int {
	if c.WindowDays <= 0 {
		return 28
	}
	return c.WindowDays
}

func (c Config) rowLimit() int64 {
	if c.RowLimit <= 0 {
		return 500
	}
	return int64(c.RowLimit)
}

// Set is the provider trio chosen at startup.
type Set struct {
	Ranking    repositories.RankingProvider
	Engagement repositories.EngagementProvider
	Queries    repositories.QueryProvider
	// Synthetic is true when ranking data is demo data.
	Synthetic bool
}

// New selects live providers where the configuration allows and synthetic
// ones otherwise. A live client that fails to initialise also degrades to
// its synthetic variant.
func New(ctx context.Context, cfg Config, logger *logging.ChanneledLogger) Set {
	var set Set

	if cfg.RankingConfigured() {
		gsc, err := NewSearchConsole(ctx, cfg, logger)
		if err == nil {
			set.Ranking = gsc
			set.Queries = gsc
		} else {
			logger.Provider().Error("Search Console client init failed, using synthetic ranking", "error", err)
		}
	}
	if set.Ranking == nil {
		set.Ranking = NewSyntheticRanking(cfg.PathPrefix)
		set.Queries = NewSyntheticQueries()
		set.Synthetic = true
	}

	if cfg.EngagementConfigured() {
		ga4, err := NewGA4(ctx, cfg, logger)
		if err == nil {
			set.Engagement = ga4
		} else {
			logger.Provider().Error("GA4 client init failed, using synthetic engagement", "error", err)
		}
	}
	if set.Engagement == nil {
		set.Engagement = NewSyntheticEngagement(cfg.PathPrefix)
	}

	logger.Provider().Info("Metric providers selected",
		"ranking", set.Ranking.Name(),
		"engagement", set.Engagement.Name(),
		"queries", set.Queries.Name(),
		"synthetic", set.Synthetic)
	return set
}

// CategoryPath is the category index path for category under prefix.
func CategoryPath(prefix, category string) string {
	return strings.TrimSuffix(prefix, "/") + "/category/" + category
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func dateRange(now time.Time, days int) (string, string) {
	const layout = "2006-01-02"
	return now.AddDate(0, 0, -days).Format(layout), now.Format(layout)
}
