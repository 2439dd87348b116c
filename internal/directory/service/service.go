// Package service owns the in-memory directory state: it runs the one-time load and
// answers filter queries against the loaded records.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"userdir/internal/directory/filter"
	"userdir/internal/directory/metrics"
	"userdir/internal/directory/models"
	"userdir/internal/directory/source"
	"userdir/internal/directory/tracer"
	"userdir/internal/platform/health"
)

// DefaultBatchSize is the number of records requested from the upstream directory.
const DefaultBatchSize = 50

// Surface labels where a filter evaluation came from.
type Surface string

const (
	SurfacePage Surface = "page"
	SurfaceAPI  Surface = "api"
)

// Service holds the directory state. Only the load goroutine writes it, once;
// readers take snapshots under the read lock.
type Service struct {
	source    source.Source
	batchSize int
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    tracer.Tracer
	now       func() time.Time

	once sync.Once
	done chan struct{}

	mu       sync.RWMutex
	status   models.Status
	records  []models.UserRecord
	index    models.NationalityIndex
	loadErr  error
	loadedAt time.Time
	closed   bool
}

// Option configures the Service.
type Option func(*Service)

// WithBatchSize overrides the number of records requested.
func WithBatchSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer sets the tracer used around the load.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithClock overrides the clock that bounds the date filter when no end date is given.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates a directory service in the loading state.
func New(src source.Source, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		source:    src,
		batchSize: DefaultBatchSize,
		logger:    logger,
		tracer:    tracer.NewNoop(),
		now:       time.Now,
		done:      make(chan struct{}),
		status:    models.StatusLoading,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load performs the one-time fetch. Only the first call reaches the upstream; concurrent
// callers block until it settles and every call returns the recorded outcome. A failed
// fetch is logged and leaves the directory loaded with no records; it is never retried.
func (s *Service) Load(ctx context.Context) error {
	s.once.Do(func() {
		defer close(s.done)
		s.load(ctx)
	})
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

func (s *Service) load(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanDirectoryLoad,
		tracer.Int64(tracer.AttrBatchSize, int64(s.batchSize)),
	)

	start := time.Now()
	records, err := s.source.Fetch(ctx, s.batchSize)
	duration := time.Since(start)

	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = string(source.CategoryOf(err))
		records = nil
	}
	index := models.NewNationalityIndex(records)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		span.SetAttributes(tracer.Bool(tracer.AttrDiscarded, true))
		span.End(err)
		s.logger.DebugContext(ctx, "directory closed before load completed, discarding result",
			"duration_ms", duration.Milliseconds(),
		)
		return
	}
	s.status = models.StatusLoaded
	s.records = records
	s.index = index
	s.loadErr = err
	s.loadedAt = s.now()
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.RecordLoad(outcome, duration)
		s.metrics.SetLoaded(len(records), index.Len())
	}

	if err != nil {
		span.SetAttributes(tracer.String(tracer.AttrFailureCategory, outcome))
		span.End(err)
		s.logger.ErrorContext(ctx, "directory load failed",
			"category", outcome,
			"batch_size", s.batchSize,
			"duration_ms", duration.Milliseconds(),
			"error", err,
		)
		return
	}

	span.SetAttributes(
		tracer.Int64(tracer.AttrRecordCount, int64(len(records))),
		tracer.Int64(tracer.AttrNationalities, int64(index.Len())),
	)
	span.End(nil)
	s.logger.InfoContext(ctx, "directory loaded",
		"record_count", len(records),
		"nationality_count", index.Len(),
		"duration_ms", duration.Milliseconds(),
	)
}

// Done is closed once the first Load call has settled.
func (s *Service) Done() <-chan struct{} {
	return s.done
}

// Close tears the directory down. A fetch still in flight is discarded when it returns.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Snapshot returns the current read view of the directory.
func (s *Service) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.Snapshot{
		Status:        s.status,
		Records:       s.records,
		Nationalities: s.index,
		LoadedAt:      s.loadedAt,
		LoadError:     s.loadErr,
	}
}

// Visible returns the loaded records that match the criteria, recomputed on every call.
// While loading it returns no records.
func (s *Service) Visible(surface Surface, c models.FilterCriteria) []models.UserRecord {
	s.mu.RLock()
	records := s.records
	s.mu.RUnlock()

	visible := filter.Apply(records, c, s.now())
	if s.metrics != nil {
		s.metrics.ObserveFilter(string(surface), len(visible))
	}
	return visible
}

// Health reports the directory for the readiness probe. It is down while loading.
// A failed load is degraded rather than down: the directory serves an empty list
// instead of failing closed.
func (s *Service) Health() health.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch {
	case s.status == models.StatusLoading:
		return health.Report{State: health.StateDown, Phase: string(models.StatusLoading)}
	case s.loadErr != nil:
		loadedAt := s.loadedAt
		return health.Report{
			State:  health.StateDegraded,
			Phase:  "failed",
			Detail: "load failed: " + string(source.CategoryOf(s.loadErr)),
			Since:  &loadedAt,
		}
	default:
		loadedAt := s.loadedAt
		return health.Report{
			State:  health.StateUp,
			Phase:  string(models.StatusLoaded),
			Detail: fmt.Sprintf("%d records", len(s.records)),
			Since:  &loadedAt,
		}
	}
}
