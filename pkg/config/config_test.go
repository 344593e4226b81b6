package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SCORE_CACHE_TTL", "")
	t.Setenv("REPORT_CACHE_TTL", "")
	Load()

	assert.Equal(t, 15*time.Minute, ScoreCacheTTL)
	assert.Equal(t, 30*time.Minute, ReportCacheTTL)
	assert.Equal(t, 28, MetricsWindowDays)
	assert.Equal(t, "/lab/", ContentPathPrefix)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SCORE_CACHE_TTL", "5m")
	t.Setenv("CONVERSION_PATHS", "/pricing/, /demo/ ,")
	t.Setenv("METRICS_WINDOW_DAYS", "not-a-number")
	Load()
	t.Cleanup(func() {
		os.Unsetenv("SCORE_CACHE_TTL")
		os.Unsetenv("CONVERSION_PATHS")
		os.Unsetenv("METRICS_WINDOW_DAYS")
		Load()
	})

	assert.Equal(t, 5*time.Minute, ScoreCacheTTL)
	assert.Equal(t, []string{"/pricing/", "/demo/"}, ConversionPaths)
	assert.Equal(t, 28, MetricsWindowDays)
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "****", redact("ADMIN_JWT_SECRET", "abc"))
	assert.Equal(t, "****", redact("TURSO_AUTH_TOKEN", "abc"))
	assert.Equal(t, "8080", redact("PORT", "8080"))
}

func TestParseVocabulary(t *testing.T) {
	v, err := ParseVocabulary([]byte(`
weights:
  rank: 0.4
  ctr: 0.2
  transition: 0.2
  engagement: 0.2
business_phrases: ["for example", "in short"]
technical_terms: [ROI, KPI]
`))
	require.NoError(t, err)
	require.NotNil(t, v.Weights)
	assert.Equal(t, 0.4, v.Weights.Rank)
	assert.Equal(t, []string{"for example", "in short"}, v.BusinessPhrases)
	assert.Equal(t, []string{"ROI", "KPI"}, v.TechnicalTerms)
	assert.Empty(t, v.ConversionPaths)
}

func TestLoadVocabulary(t *testing.T) {
	v, err := LoadVocabulary("")
	require.NoError(t, err)
	assert.Nil(t, v.Weights)

	path := filepath.Join(t.TempDir(), "vocab.yaml")
	require.NoError(t, os.WriteFile(path, []byte("technical_terms: [SaaS]\n"), 0o644))
	v, err = LoadVocabulary(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"SaaS"}, v.TechnicalTerms)

	_, err = LoadVocabulary(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("weights: [oops"), 0o644))
	_, err = LoadVocabulary(bad)
	assert.Error(t, err)
}
