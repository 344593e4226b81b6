package performance

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkerLifecycle(t *testing.T) {
	tracker := NewTracker(nil)

	m := tracker.StartOperation("scores:compute", "all")
	m.AddMetadata("items", 3)
	m.AddCacheMiss()
	m.Complete()
	m.Complete() // second call is a no-op

	recent := tracker.GetRecentMetrics(time.Minute)
	require.Len(t, recent, 1)
	assert.Equal(t, "scores:compute", recent[0].Operation)
	assert.True(t, recent[0].Success)
	assert.Equal(t, 1, recent[0].Misses)
	assert.Equal(t, 3, recent[0].Metadata["items"])
}

func TestMarkerError(t *testing.T) {
	tracker := NewTracker(nil)

	m := tracker.StartOperation("provider:ga4", "")
	m.SetError(errors.New("boom"))
	m.Complete()

	stats := tracker.GetOverallStats()
	ops := stats["operations"].([]OperationStats)
	require.Len(t, ops, 1)
	assert.Equal(t, 1, ops[0].Failures)
	assert.Equal(t, 0, stats["activeOperations"])
}

func TestHistoryIsBounded(t *testing.T) {
	tracker := NewTracker(&TrackerConfig{MaxMarkers: 2})
	for i := 0; i < 5; i++ {
		tracker.StartOperation("analysis:style", "").Complete()
	}
	assert.Len(t, tracker.GetRecentMetrics(time.Hour), 2)
}

func TestIsSlow(t *testing.T) {
	tracker := NewTracker(nil)
	assert.True(t, tracker.IsSlow(Marker{Operation: "provider:searchconsole", Duration: 6 * time.Second}))
	assert.False(t, tracker.IsSlow(Marker{Operation: "scores:compute", Duration: 6 * time.Second}))
	assert.True(t, tracker.IsSlow(Marker{Operation: "analysis:outline", Duration: 2 * time.Second}))
}
