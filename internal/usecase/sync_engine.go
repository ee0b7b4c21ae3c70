package usecase

import (
	"context"
	"sync"
	"time"

	"flightlog-service/internal/domain/entity"
	"flightlog-service/internal/domain/repository"
	"flightlog-service/pkg/logger"
	"flightlog-service/pkg/metrics"
)

// SyncEngine replicates the report collection against the remote store.
// Pulls replace local state wholesale (last-writer-wins at collection
// granularity); pushes upload the full collection, debounced so a burst of
// mutations coalesces into a single upload. Errors never block future
// attempts: the next mutation or manual sync is the retry mechanism.
type SyncEngine struct {
	remote   repository.RemoteStoreRepository
	logger   logger.Logger
	metrics  *metrics.Metrics
	debounce time.Duration

	mu        sync.Mutex
	endpoint  string
	status    string
	lastSync  time.Time
	lastError string
	pending   []*entity.FlightReport
	timer     *time.Timer
	closed    bool

	// pushMu keeps at most one upload in flight.
	pushMu sync.Mutex
}

// NewSyncEngine creates a new sync engine
func NewSyncEngine(remote repository.RemoteStoreRepository, debounce time.Duration, logger logger.Logger, m *metrics.Metrics) *SyncEngine {
	return &SyncEngine{
		remote:   remote,
		logger:   logger,
		metrics:  m,
		debounce: debounce,
		status:   entity.SyncIdle,
	}
}

// SetEndpoint configures the remote endpoint. An empty endpoint returns the
// engine to local-only mode and cancels any pending push.
func (s *SyncEngine) SetEndpoint(endpoint string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.endpoint = endpoint
	if endpoint == "" {
		s.stopTimerLocked()
		s.pending = nil
		s.status = entity.SyncIdle
		s.lastError = ""
	}
}

// Endpoint returns the configured remote endpoint, empty in local-only mode
func (s *SyncEngine) Endpoint() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endpoint
}

// State returns the last-known sync state
func (s *SyncEngine) State() entity.SyncState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return entity.SyncState{
		Endpoint:     s.endpoint,
		Status:       s.status,
		LastSyncTime: s.lastSync,
		LastError:    s.lastError,
	}
}

// Pull fetches the remote collection. The caller decides what to do with the
// result; a failed pull leaves existing local data untouched and only flips
// the status to error.
func (s *SyncEngine) Pull(ctx context.Context) ([]*entity.FlightReport, error) {
	s.mu.Lock()
	endpoint := s.endpoint
	if endpoint == "" {
		s.mu.Unlock()
		return nil, nil
	}
	s.status = entity.SyncSyncing
	s.mu.Unlock()

	reports, err := s.remote.Fetch(ctx, endpoint)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.status = entity.SyncError
		s.lastError = err.Error()
		if s.metrics != nil {
			s.metrics.SyncErrors.WithLabelValues("pull").Inc()
		}
		return nil, err
	}

	s.status = entity.SyncSynced
	s.lastSync = time.Now()
	s.lastError = ""
	if s.metrics != nil {
		s.metrics.SyncPulls.Inc()
	}
	return reports, nil
}

// SchedulePush records the snapshot to upload and (re)starts the quiet-window
// timer. A new snapshot arriving inside the window replaces the pending one
// and restarts the timer, so only the last state of a burst is pushed.
func (s *SyncEngine) SchedulePush(reports []*entity.FlightReport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.endpoint == "" {
		return
	}

	s.pending = reports
	if s.timer == nil {
		s.timer = time.AfterFunc(s.debounce, s.firePush)
	} else {
		s.timer.Reset(s.debounce)
	}
}

// Close cancels any pending push. No push runs to completion after Close.
func (s *SyncEngine) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.stopTimerLocked()
	s.pending = nil
}

func (s *SyncEngine) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *SyncEngine) firePush() {
	s.mu.Lock()
	if s.closed || s.endpoint == "" || s.pending == nil {
		s.mu.Unlock()
		return
	}
	endpoint := s.endpoint
	reports := s.pending
	s.pending = nil
	s.status = entity.SyncSyncing
	s.mu.Unlock()

	s.pushMu.Lock()
	defer s.pushMu.Unlock()

	err := s.remote.Upload(context.Background(), endpoint, reports)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.logger.Error("Remote push failed", "endpoint", endpoint, "error", err)
		s.status = entity.SyncError
		s.lastError = err.Error()
		if s.metrics != nil {
			s.metrics.SyncErrors.WithLabelValues("push").Inc()
		}
		return
	}

	s.status = entity.SyncSynced
	s.lastSync = time.Now()
	s.lastError = ""
	if s.metrics != nil {
		s.metrics.SyncPushes.Inc()
	}
	s.logger.Info("Pushed collection to remote store", "endpoint", endpoint, "count", len(reports))
}
