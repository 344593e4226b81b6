package performance

import (
	"time"
)

// Marker tracks a single operation's timing and outcome. A marker is owned by
// the goroutine that started it.
type Marker struct {
	Operation string         `json:"operation"`       // e.g., "scores:compute", "provider:searchconsole"
	Scope     string         `json:"scope"`           // Logical owner, e.g. a filter signature
	StartTime time.Time      `json:"startTime"`       // When the operation started
	EndTime   time.Time      `json:"endTime"`         // When the operation completed
	Duration  time.Duration  `json:"duration"`        // Total operation duration
	Success   bool           `json:"success"`         // Whether the operation completed successfully
	Error     string         `json:"error,omitempty"` // Error message if operation failed
	Metadata  map[string]any `json:"metadata"`        // Additional operation-specific data
	CacheHits int            `json:"cacheHits"`
	Misses    int            `json:"cacheMisses"`
	Completed bool           `json:"completed"`

	tracker *Tracker
}

// Complete marks the operation as finished and hands it back to the tracker
func (m *Marker) Complete() {
	if m.Completed {
		return
	}
	m.EndTime = time.Now()
	m.Duration = m.EndTime.Sub(m.StartTime)
	m.Completed = true

	if m.tracker != nil {
		m.tracker.CompleteOperation(m)
	}
}

// SetSuccess records the outcome
func (m *Marker) SetSuccess(success bool) {
	m.Success = success
}

// SetError marks the marker failed with err
func (m *Marker) SetError(err error) {
	m.Success = false
	if err != nil {
		m.Error = err.Error()
	}
}

// AddMetadata attaches an attribute
func (m *Marker) AddMetadata(key string, value any) {
	m.Metadata[key] = value
}

func (m *Marker) AddCacheHit() {
	m.CacheHits++
}

func (m *Marker) AddCacheMiss() {
	m.Misses++
}

// Elapsed returns the recorded duration, or the running time if not yet complete
func (m *Marker) Elapsed() time.Duration {
	if m.Completed {
		return m.Duration
	}
	return time.Since(m.StartTime)
}

// snapshot copies the marker so later metadata writes do not leak into history
func (m *Marker) snapshot() Marker {
	meta := make(map[string]any, len(m.Metadata))
	for k, v := range m.Metadata {
		meta[k] = v
	}
	return Marker{
		Operation: m.Operation,
		Scope:     m.Scope,
		StartTime: m.StartTime,
		EndTime:   m.EndTime,
		Duration:  m.Duration,
		Success:   m.Success,
		Error:     m.Error,
		Metadata:  meta,
		CacheHits: m.CacheHits,
		Misses:    m.Misses,
		Completed: m.Completed,
	}
}
