package engine

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sink receives committed view bundles, e.g. a Kafka refresh-summary
// publisher. Implementations must not mutate the bundle.
type Sink interface {
	Publish(ctx context.Context, bundle *ViewBundle) error
}

// Session serializes refresh cycles against one store with
// last-write-wins semantics: each Apply claims a generation, and a result
// computed for an older generation than the newest claim is discarded
// instead of being delivered. Aggregations themselves are short-lived and
// pure, so no cancellation is pushed into them.
type Session struct {
	assembler *Assembler
	logger    *zap.Logger
	sink      Sink

	mu     sync.Mutex
	gen    uint64
	latest *ViewBundle
}

// NewSession creates a session over an assembler. sink may be nil.
func NewSession(assembler *Assembler, logger *zap.Logger, sink Sink) *Session {
	logger.Info("Session initialized",
		zap.Int("records", assembler.Store().Len()),
	)
	return &Session{assembler: assembler, logger: logger, sink: sink}
}

// claim reserves the next generation for a refresh attempt.
func (s *Session) claim() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	return s.gen
}

// commit installs a bundle as the latest result unless a newer generation
// has been claimed meanwhile, in which case the bundle is discarded.
func (s *Session) commit(gen uint64, bundle *ViewBundle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	bundle.Generation = gen
	s.latest = bundle
	return true
}

// Apply runs one refresh cycle for the given spec. On success the bundle
// is committed, observed in metrics, and forwarded to the sink; if a
// newer filter change claimed a generation while this one was computing,
// the stale result is dropped and ErrSuperseded returned.
func (s *Session) Apply(ctx context.Context, spec FilterSpec) (*ViewBundle, error) {
	gen := s.claim()
	start := time.Now()

	bundle := s.assembler.Refresh(spec)

	if !s.commit(gen, bundle) {
		refreshSupersededTotal.Inc()
		s.logger.Debug("Refresh superseded, result discarded",
			zap.Uint64("generation", gen),
		)
		return nil, ErrSuperseded
	}

	elapsed := time.Since(start)
	refreshTotal.Inc()
	refreshDuration.Observe(elapsed.Seconds())
	filteredRecords.Set(float64(bundle.FilteredCount))
	overallNoShowRate.Set(bundle.Overall.Rate)

	s.logger.Debug("Refresh committed",
		zap.Uint64("generation", gen),
		zap.Int("filtered_count", bundle.FilteredCount),
		zap.Float64("noshow_rate", bundle.Overall.Rate),
		zap.Duration("elapsed", elapsed),
	)

	if s.sink != nil {
		if err := s.sink.Publish(ctx, bundle); err != nil {
			s.logger.Warn("Failed to publish refresh summary", zap.Error(err))
		}
	}
	return bundle, nil
}

// Latest returns the most recently committed bundle, or nil before the
// first refresh.
func (s *Session) Latest() *ViewBundle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}
