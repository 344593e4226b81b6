// Package performance provides performance tracking for scoring, provider
// fetches and pattern analysis.
package performance

import (
	"sort"
	"sync"
	"time"
)

// Tracker keeps a bounded history of completed markers
type Tracker struct {
	completed  []Marker
	active     map[*Marker]struct{}
	thresholds *AlertThresholds
	config     *TrackerConfig
	mu         sync.RWMutex
	started    time.Time
}

// TrackerConfig contains configuration options for the performance tracker
type TrackerConfig struct {
	MaxMarkers int `json:"maxMarkers"` // Maximum number of completed markers to retain
}

// DefaultTrackerConfig returns a sensible default configuration
func DefaultTrackerConfig() *TrackerConfig {
	return &TrackerConfig{
		MaxMarkers: 2000,
	}
}

// AlertThresholds defines when an operation is reported as slow
type AlertThresholds struct {
	ProviderFetchThreshold time.Duration `json:"providerFetchThreshold"` // 5s
	ScoreComputeThreshold  time.Duration `json:"scoreComputeThreshold"`  // 8s
	AnalysisThreshold      time.Duration `json:"analysisThreshold"`      // 1s
}

// DefaultAlertThresholds returns default alert thresholds
func DefaultAlertThresholds() *AlertThresholds {
	return &AlertThresholds{
		ProviderFetchThreshold: 5 * time.Second,
		ScoreComputeThreshold:  8 * time.Second,
		AnalysisThreshold:      time.Second,
	}
}

// NewTracker creates a new performance tracker with the given configuration
func NewTracker(config *TrackerConfig) *Tracker {
	if config == nil {
		config = DefaultTrackerConfig()
	}
	return &Tracker{
		active:     make(map[*Marker]struct{}),
		thresholds: DefaultAlertThresholds(),
		config:     config,
		started:    time.Now(),
	}
}

// StartOperation creates and tracks a new performance marker for an operation
func (t *Tracker) StartOperation(operation, scope string) *Marker {
	marker := &Marker{
		Operation: operation,
		Scope:     scope,
		StartTime: time.Now(),
		Metadata:  make(map[string]any),
		Success:   true,
		tracker:   t,
	}

	t.mu.Lock()
	t.active[marker] = struct{}{}
	t.mu.Unlock()

	return marker
}

// CompleteOperation moves a marker into the completed history
func (t *Tracker) CompleteOperation(marker *Marker) {
	snap := marker.snapshot()

	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.active, marker)
	t.completed = append(t.completed, snap)
	if over := len(t.completed) - t.config.MaxMarkers; over > 0 {
		t.completed = append([]Marker(nil), t.completed[over:]...)
	}
}

// IsSlow reports whether a completed marker exceeded the threshold for its kind.
func (t *Tracker) IsSlow(m Marker) bool {
	switch {
	case hasPrefix(m.Operation, "provider:"):
		return m.Duration > t.thresholds.ProviderFetchThreshold
	case hasPrefix(m.Operation, "scores:"):
		return m.Duration > t.thresholds.ScoreComputeThreshold
	default:
		return m.Duration > t.thresholds.AnalysisThreshold
	}
}

// GetRecentMetrics returns completed markers newer than within, oldest first
func (t *Tracker) GetRecentMetrics(within time.Duration) []Marker {
	cutoff := time.Now().Add(-within)

	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []Marker
	for _, m := range t.completed {
		if m.EndTime.After(cutoff) {
			out = append(out, m)
		}
	}
	return out
}

// OperationStats summarises one operation name
type OperationStats struct {
	Operation   string        `json:"operation"`
	Count       int           `json:"count"`
	Failures    int           `json:"failures"`
	Slow        int           `json:"slow"`
	AvgDuration time.Duration `json:"avgDuration"`
}

// GetOverallStats aggregates the retained history by operation
func (t *Tracker) GetOverallStats() map[string]any {
	t.mu.RLock()
	defer t.mu.RUnlock()

	byOp := make(map[string]*OperationStats)
	var totals time.Duration
	for _, m := range t.completed {
		st, ok := byOp[m.Operation]
		if !ok {
			st = &OperationStats{Operation: m.Operation}
			byOp[m.Operation] = st
		}
		st.Count++
		if !m.Success {
			st.Failures++
		}
		if t.IsSlow(m) {
			st.Slow++
		}
		st.AvgDuration += m.Duration
		totals += m.Duration
	}

	ops := make([]OperationStats, 0, len(byOp))
	for _, st := range byOp {
		st.AvgDuration /= time.Duration(st.Count)
		ops = append(ops, *st)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i].Operation < ops[j].Operation })

	return map[string]any{
		"uptime":           time.Since(t.started).String(),
		"activeOperations": len(t.active),
		"completed":        len(t.completed),
		"operations":       ops,
	}
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
