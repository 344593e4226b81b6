package stores

import (
	"sync"
	"time"

	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/logging"
)

// ReportKind separates the report families sharing one store.
type ReportKind string

const (
	ReportStructure ReportKind = "structure"
	ReportSuccess   ReportKind = "success"
	ReportStyle     ReportKind = "style"
	ReportQueries   ReportKind = "queries"
)

type reportEntry struct {
	value      any
	computedAt time.Time
}

// ReportStore caches derived reports per kind and filter signature.
type ReportStore struct {
	mu      sync.RWMutex
	entries map[string]reportEntry
	ttl     time.Duration
	clock   Clock
	logger  *logging.ChanneledLogger

	recorder Recorder
}

// NewReportStore creates a report store. A nil clock means the system clock.
func NewReportStore(ttl time.Duration, clock Clock, logger *logging.ChanneledLogger) *ReportStore {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger != nil {
		logger.Cache().Info("Initializing report cache store", "ttl", ttl)
	}
	return &ReportStore{
		entries: make(map[string]reportEntry),
		ttl:     ttl,
		clock:   clock,
		logger:  logger,
	}
}

func reportKey(kind ReportKind, signature string) string {
	return string(kind) + ":" + signature
}

// Get returns a report computed less than TTL ago.
func (s *ReportStore) Get(kind ReportKind, signature string) (any, bool) {
	start := time.Now()
	key := reportKey(kind, signature)

	s.mu.RLock()
	entry, exists := s.entries[key]
	s.mu.RUnlock()

	hit := exists && s.clock.Now().Sub(entry.computedAt) < s.ttl
	if s.logger != nil {
		s.logger.LogCacheOperation("get", key, hit, time.Since(start))
	}
	if s.recorder != nil {
		s.recorder.RecordCacheOperation(string(kind), hit, time.Since(start))
	}
	if !hit {
		return nil, false
	}
	return entry.value, true
}

// Set stores a report under its kind and signature.
func (s *ReportStore) Set(kind ReportKind, signature string, value any) {
	key := reportKey(kind, signature)
	s.mu.Lock()
	s.entries[key] = reportEntry{value: value, computedAt: s.clock.Now()}
	s.mu.Unlock()
	if s.logger != nil {
		s.logger.Cache().Debug("Report cached", "key", key)
	}
}

// Invalidate drops every cached report.
func (s *ReportStore) Invalidate() {
	s.mu.Lock()
	s.entries = make(map[string]reportEntry)
	s.mu.Unlock()
	if s.logger != nil {
		s.logger.Cache().Info("Report cache invalidated")
	}
}

// PurgeExpired removes entries older than the TTL and returns how many went.
func (s *ReportStore) PurgeExpired() int {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for key, entry := range s.entries {
		if now.Sub(entry.computedAt) >= s.ttl {
			delete(s.entries, key)
			purged++
		}
	}
	if s.recorder != nil && purged > 0 {
		s.recorder.RecordEviction(LayerReports, purged)
	}
	return purged
}

// SetRecorder attaches a hit/miss observer.
func (s *ReportStore) SetRecorder(r Recorder) {
	s.recorder = r
}

// Len reports the number of cached entries, expired or not.
func (s *ReportStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Lookup is a typed wrapper around ReportStore.Get.
func Lookup[T any](s *ReportStore, kind ReportKind, signature string) (T, bool) {
	var zero T
	v, ok := s.Get(kind, signature)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
