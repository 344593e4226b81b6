// Package monitoring provides cache performance monitoring and health tracking
// for the score and report caches.
package monitoring

import (
	"sort"
	"sync"
	"time"
)

// CacheHealthStatus summarizes how well a cache layer is serving.
type CacheHealthStatus string

const (
	CacheHealthHealthy  CacheHealthStatus = "healthy"
	CacheHealthDegraded CacheHealthStatus = "degraded"
	CacheHealthCold     CacheHealthStatus = "cold"
)

// CacheLayerMetrics represents performance metrics for a single cache layer
type CacheLayerMetrics struct {
	LayerName   string    `json:"layerName"`
	LastUpdated time.Time `json:"lastUpdated"`

	// Hit/miss statistics
	TotalRequests int64   `json:"totalRequests"`
	CacheHits     int64   `json:"cacheHits"`
	CacheMisses   int64   `json:"cacheMisses"`
	HitRatio      float64 `json:"hitRatio"`

	// Latency
	AvgHitLatency  time.Duration `json:"avgHitLatency"`
	AvgMissLatency time.Duration `json:"avgMissLatency"`

	TotalEvictions int64 `json:"totalEvictions"`

	totalHitLatency  time.Duration
	totalMissLatency time.Duration
}

// WarmingStats tracks cache warming performance and effectiveness
type WarmingStats struct {
	TotalWarmingOperations int64         `json:"totalWarmingOperations"`
	SuccessfulWarmings     int64         `json:"successfulWarmings"`
	FailedWarmings         int64         `json:"failedWarmings"`
	TotalItemsWarmed       int64         `json:"totalItemsWarmed"`
	AvgWarmingDuration     time.Duration `json:"avgWarmingDuration"`
	LastWarmingTime        time.Time     `json:"lastWarmingTime"`

	totalDuration time.Duration
}

// CacheMonitorConfig holds the health thresholds.
type CacheMonitorConfig struct {
	// Layers below this hit ratio report degraded once MinRequests is reached.
	DegradedHitRatio float64 `json:"degradedHitRatio"`
	MinRequests      int64   `json:"minRequests"`
}

// DefaultCacheMonitorConfig returns the default thresholds
func DefaultCacheMonitorConfig() *CacheMonitorConfig {
	return &CacheMonitorConfig{
		DegradedHitRatio: 0.5,
		MinRequests:      20,
	}
}

// CachePerformanceMonitor tracks performance metrics across cache layers
type CachePerformanceMonitor struct {
	layers  map[string]*CacheLayerMetrics
	warming WarmingStats
	config  *CacheMonitorConfig
	mu      sync.RWMutex
	started time.Time
}

// NewCachePerformanceMonitor creates a monitor. A nil config uses the defaults.
func NewCachePerformanceMonitor(config *CacheMonitorConfig) *CachePerformanceMonitor {
	if config == nil {
		config = DefaultCacheMonitorConfig()
	}
	return &CachePerformanceMonitor{
		layers:  make(map[string]*CacheLayerMetrics),
		config:  config,
		started: time.Now(),
	}
}

// getLayerMetrics returns the layer, creating it. Callers hold mu.
func (cpm *CachePerformanceMonitor) getLayerMetrics(layerName string) *CacheLayerMetrics {
	m, ok := cpm.layers[layerName]
	if !ok {
		m = &CacheLayerMetrics{LayerName: layerName}
		cpm.layers[layerName] = m
	}
	return m
}

// RecordCacheOperation records one lookup against layerName.
func (cpm *CachePerformanceMonitor) RecordCacheOperation(layerName string, hit bool, latency time.Duration) {
	cpm.mu.Lock()
	defer cpm.mu.Unlock()

	m := cpm.getLayerMetrics(layerName)
	m.TotalRequests++
	if hit {
		m.CacheHits++
		m.totalHitLatency += latency
		m.AvgHitLatency = m.totalHitLatency / time.Duration(m.CacheHits)
	} else {
		m.CacheMisses++
		m.totalMissLatency += latency
		m.AvgMissLatency = m.totalMissLatency / time.Duration(m.CacheMisses)
	}
	m.HitRatio = float64(m.CacheHits) / float64(m.TotalRequests)
	m.LastUpdated = time.Now()
}

// RecordEviction records count entries expired out of layerName.
func (cpm *CachePerformanceMonitor) RecordEviction(layerName string, count int) {
	cpm.mu.Lock()
	defer cpm.mu.Unlock()

	m := cpm.getLayerMetrics(layerName)
	m.TotalEvictions += int64(count)
	m.LastUpdated = time.Now()
}

// RecordWarmingOperation records one warming pass.
func (cpm *CachePerformanceMonitor) RecordWarmingOperation(duration time.Duration, itemsWarmed int, success bool) {
	cpm.mu.Lock()
	defer cpm.mu.Unlock()

	w := &cpm.warming
	w.TotalWarmingOperations++
	if success {
		w.SuccessfulWarmings++
		w.TotalItemsWarmed += int64(itemsWarmed)
	} else {
		w.FailedWarmings++
	}
	w.totalDuration += duration
	w.AvgWarmingDuration = w.totalDuration / time.Duration(w.TotalWarmingOperations)
	w.LastWarmingTime = time.Now()
}

// GetLayerMetrics returns a copy of one layer's metrics, or nil.
func (cpm *CachePerformanceMonitor) GetLayerMetrics(layerName string) *CacheLayerMetrics {
	cpm.mu.RLock()
	defer cpm.mu.RUnlock()

	m, ok := cpm.layers[layerName]
	if !ok {
		return nil
	}
	out := *m
	return &out
}

// GetWarmingStats returns a copy of the warming stats.
func (cpm *CachePerformanceMonitor) GetWarmingStats() WarmingStats {
	cpm.mu.RLock()
	defer cpm.mu.RUnlock()
	return cpm.warming
}

// layerHealth classifies a layer. Callers hold mu.
func (cpm *CachePerformanceMonitor) layerHealth(m *CacheLayerMetrics) CacheHealthStatus {
	switch {
	case m.TotalRequests < cpm.config.MinRequests:
		return CacheHealthCold
	case m.HitRatio < cpm.config.DegradedHitRatio:
		return CacheHealthDegraded
	default:
		return CacheHealthHealthy
	}
}

// GetCacheHealth returns per-layer metrics and health for the admin API.
func (cpm *CachePerformanceMonitor) GetCacheHealth() map[string]any {
	cpm.mu.RLock()
	defer cpm.mu.RUnlock()

	names := make([]string, 0, len(cpm.layers))
	for name := range cpm.layers {
		names = append(names, name)
	}
	sort.Strings(names)

	layers := make([]map[string]any, 0, len(names))
	var requests, hits int64
	for _, name := range names {
		m := cpm.layers[name]
		requests += m.TotalRequests
		hits += m.CacheHits
		layers = append(layers, map[string]any{
			"metrics": *m,
			"health":  cpm.layerHealth(m),
		})
	}

	overall := 0.0
	if requests > 0 {
		overall = float64(hits) / float64(requests)
	}

	return map[string]any{
		"uptime":          time.Since(cpm.started).String(),
		"overallHitRatio": overall,
		"totalRequests":   requests,
		"layers":          layers,
		"warming":         cpm.warming,
	}
}
