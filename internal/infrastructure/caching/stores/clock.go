// Package stores provides concrete cache store implementations
package stores

import "time"

// Clock supplies the current time to TTL checks.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Cache layer names reported to a Recorder. Report lookups use their
// ReportKind as the layer.
const (
	LayerScores  = "scores"
	LayerReports = "reports"
)

// Recorder observes cache traffic.
type Recorder interface {
	RecordCacheOperation(layer string, hit bool, latency time.Duration)
	RecordEviction(layer string, count int)
}
