package database

import (
	"strings"
	"time"

	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-seo/pkg/config"
)

// GetSlowQueryThreshold returns the configured slow query threshold.
func GetSlowQueryThreshold() time.Duration {
	return config.SlowQueryThreshold
}

// CheckAndLogSlowQuery logs query on the slow-query channel when duration
// exceeds the threshold. Full-table listings get three times the budget.
func CheckAndLogSlowQuery(logger *logging.ChanneledLogger, query string, duration time.Duration) {
	threshold := GetSlowQueryThreshold()
	if strings.HasPrefix(query, "LIST_") {
		threshold *= 3
	}
	if duration > threshold {
		logger.LogSlowQuery(query, duration)
	}
}

// Placeholders returns "?, ?, ..." for an IN clause of n values.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return "?" + strings.Repeat(",?", n-1)
}
