package stores

import (
	"context"
	"sync"
	"time"

	"github.com/AtRiskMedia/tractstack-seo/internal/domain/entities/seo"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/logging"
	"golang.org/x/sync/singleflight"
)

const scoreFlightKey = "scores"

// ComputeFunc produces a fresh score corpus.
type ComputeFunc func(ctx context.Context) (*seo.ScoreCorpus, error)

// ScoreStore holds the single most recent score corpus.
type ScoreStore struct {
	mu     sync.RWMutex
	corpus *seo.ScoreCorpus
	ttl    time.Duration
	clock  Clock
	group  singleflight.Group
	logger *logging.ChanneledLogger

	recorder Recorder
}

// NewScoreStore creates a score store. A nil clock means the system clock.
func NewScoreStore(ttl time.Duration, clock Clock, logger *logging.ChanneledLogger) *ScoreStore {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger != nil {
		logger.Cache().Info("Initializing score cache store", "ttl", ttl)
	}
	return &ScoreStore{
		ttl:    ttl,
		clock:  clock,
		logger: logger,
	}
}

// Get returns the cached corpus while it is younger than the TTL. Otherwise,
// or when forceRefresh is set, it runs compute once for all concurrent callers
// and replaces the cached corpus with the result. A failed compute leaves the
// previous corpus in place.
//
// The shared compute is detached from the caller's cancellation: a caller that
// goes away gets ctx.Err() while the computation finishes for everyone else.
func (s *ScoreStore) Get(ctx context.Context, forceRefresh bool, compute ComputeFunc) (*seo.ScoreCorpus, error) {
	start := time.Now()
	if !forceRefresh {
		if corpus, ok := s.fresh(); ok {
			s.logOperation("get", true, time.Since(start))
			return corpus, nil
		}
	}

	computeCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(scoreFlightKey, func() (any, error) {
		// a caller that waited on the lock may find a corpus computed meanwhile
		if !forceRefresh {
			if corpus, ok := s.fresh(); ok {
				return corpus, nil
			}
		}
		corpus, err := compute(computeCtx)
		if err != nil {
			return nil, err
		}
		if corpus.ComputedAt.IsZero() {
			corpus.ComputedAt = s.clock.Now()
		}
		s.Set(corpus)
		return corpus, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		if s.logger != nil {
			s.logger.Cache().Debug("Caller left before score corpus computation finished", "error", ctx.Err())
		}
		return nil, ctx.Err()
	}

	if res.Err != nil {
		if s.logger != nil {
			s.logger.Cache().Error("Score corpus computation failed", "error", res.Err, "duration", time.Since(start))
		}
		return nil, res.Err
	}
	s.logOperation("get", false, time.Since(start))
	if s.logger != nil && res.Shared {
		s.logger.Cache().Debug("Score corpus computation shared between callers")
	}
	return res.Val.(*seo.ScoreCorpus), nil
}

// Peek returns the cached corpus regardless of age.
func (s *ScoreStore) Peek() (*seo.ScoreCorpus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.corpus, s.corpus != nil
}

// Set replaces the cached corpus.
func (s *ScoreStore) Set(corpus *seo.ScoreCorpus) {
	s.mu.Lock()
	s.corpus = corpus
	s.mu.Unlock()
}

// Invalidate drops the cached corpus.
func (s *ScoreStore) Invalidate() {
	s.mu.Lock()
	s.corpus = nil
	s.mu.Unlock()
	if s.logger != nil {
		s.logger.Cache().Info("Score cache invalidated")
	}
}

// Age reports how old the cached corpus is.
func (s *ScoreStore) Age() (time.Duration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.corpus == nil {
		return 0, false
	}
	return s.clock.Now().Sub(s.corpus.ComputedAt), true
}

func (s *ScoreStore) fresh() (*seo.ScoreCorpus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.corpus == nil {
		return nil, false
	}
	if s.clock.Now().Sub(s.corpus.ComputedAt) >= s.ttl {
		return nil, false
	}
	return s.corpus, true
}

// SetRecorder attaches a hit/miss observer.
func (s *ScoreStore) SetRecorder(r Recorder) {
	s.recorder = r
}

func (s *ScoreStore) logOperation(op string, hit bool, d time.Duration) {
	if s.logger != nil {
		s.logger.LogCacheOperation(op, scoreFlightKey, hit, d)
	}
	if s.recorder != nil {
		s.recorder.RecordCacheOperation(LayerScores, hit, d)
	}
}
