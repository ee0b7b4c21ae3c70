package usecase

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"flightlog-service/internal/domain/entity"
	"flightlog-service/internal/domain/repository"
	"flightlog-service/pkg/logger"
)

// CollectionController is the single owner of the in-memory report
// collection. Every mutation goes through it: update the collection, persist
// to the local store, then hand a snapshot to the sync engine for a debounced
// push. Pull-originated replacements skip the push so the engine never
// re-uploads data it just downloaded.
type CollectionController struct {
	local    repository.LocalStoreRepository
	engine   *SyncEngine
	pipeline *IngestPipeline
	logger   logger.Logger

	mu      sync.Mutex
	reports []*entity.FlightReport

	// ingestMu keeps document submission strictly sequential across callers;
	// the recognition service quota does not tolerate parallel batches.
	ingestMu sync.Mutex
}

// NewCollectionController creates a new collection controller
func NewCollectionController(
	local repository.LocalStoreRepository,
	engine *SyncEngine,
	pipeline *IngestPipeline,
	logger logger.Logger,
) *CollectionController {
	return &CollectionController{
		local:    local,
		engine:   engine,
		pipeline: pipeline,
		logger:   logger,
		reports:  []*entity.FlightReport{},
	}
}

// Start seeds the collection from the local store and, when an endpoint is
// already configured, performs the startup pull. Load failures are logged and
// treated as an empty store.
func (c *CollectionController) Start(ctx context.Context) {
	reports, err := c.local.LoadCollection(ctx)
	if err != nil {
		c.logger.Warn("Failed to load persisted collection, starting empty", "error", err)
		reports = nil
	}

	c.mu.Lock()
	c.reports = reports
	if c.reports == nil {
		c.reports = []*entity.FlightReport{}
	}
	count := len(c.reports)
	c.mu.Unlock()

	c.logger.Info("Collection loaded from local store", "count", count)

	endpoint, err := c.local.LoadEndpoint(ctx)
	if err != nil {
		c.logger.Warn("Failed to load sync endpoint", "error", err)
		return
	}
	if endpoint != "" {
		c.engine.SetEndpoint(endpoint)
		if err := c.pullAndReplace(ctx); err != nil {
			c.logger.Error("Startup sync failed", "endpoint", endpoint, "error", err)
		}
	}
}

// Teardown cancels any pending push timer
func (c *CollectionController) Teardown() {
	c.engine.Close()
}

// Reports returns a snapshot of the collection, newest-first
func (c *CollectionController) Reports() []*entity.FlightReport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// AddRecord prepends one report to the collection
func (c *CollectionController) AddRecord(ctx context.Context, report *entity.FlightReport) {
	c.mu.Lock()
	c.reports = append([]*entity.FlightReport{report}, c.reports...)
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	c.persistAndPush(ctx, snapshot)
}

// RemoveRecord drops the report with the given id. Absence is a no-op, not an
// error, and triggers neither a save nor a push.
func (c *CollectionController) RemoveRecord(ctx context.Context, id string) {
	c.mu.Lock()
	filtered := make([]*entity.FlightReport, 0, len(c.reports))
	found := false
	for _, r := range c.reports {
		if r.ID == id {
			found = true
			continue
		}
		filtered = append(filtered, r)
	}
	if !found {
		c.mu.Unlock()
		return
	}
	c.reports = filtered
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	c.persistAndPush(ctx, snapshot)
}

// ClearAll empties the collection and erases the local store entry
func (c *CollectionController) ClearAll(ctx context.Context) {
	c.mu.Lock()
	c.reports = []*entity.FlightReport{}
	c.mu.Unlock()

	if err := c.local.ClearCollection(ctx); err != nil {
		c.logger.Error("Failed to clear persisted collection", "error", err)
	}
	c.engine.SchedulePush([]*entity.FlightReport{})
}

// ReplaceAll replaces the collection wholesale, as used by backup import. The
// incoming order is authoritative.
func (c *CollectionController) ReplaceAll(ctx context.Context, reports []*entity.FlightReport) {
	c.applyReplace(ctx, reports, false)
}

// IngestBatch runs the documents through the pipeline and folds the accepted
// reports into the collection as one batched prepend. The BatchError summary,
// if any, is passed through to the caller alongside the accepted records.
func (c *CollectionController) IngestBatch(ctx context.Context, docs []entity.Document) (*IngestResult, error) {
	if c.pipeline == nil {
		return nil, fmt.Errorf("recognition service is not configured")
	}

	c.ingestMu.Lock()
	defer c.ingestMu.Unlock()

	result, batchErr := c.pipeline.Ingest(ctx, docs)

	if len(result.Accepted) > 0 {
		c.mu.Lock()
		merged := make([]*entity.FlightReport, 0, len(result.Accepted)+len(c.reports))
		merged = append(merged, result.Accepted...)
		merged = append(merged, c.reports...)
		c.reports = merged
		snapshot := c.snapshotLocked()
		c.mu.Unlock()

		c.persistAndPush(ctx, snapshot)
	}

	return result, batchErr
}

// ConfigureSync persists the remote endpoint and performs the initial pull
func (c *CollectionController) ConfigureSync(ctx context.Context, endpoint string) error {
	parsed, err := url.Parse(endpoint)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return fmt.Errorf("invalid sync endpoint %q", endpoint)
	}

	if err := c.local.SaveEndpoint(ctx, endpoint); err != nil {
		c.logger.Error("Failed to persist sync endpoint", "error", err)
	}
	c.engine.SetEndpoint(endpoint)

	if err := c.pullAndReplace(ctx); err != nil {
		c.logger.Error("Initial sync failed", "endpoint", endpoint, "error", err)
	}
	return nil
}

// ClearSyncConfig returns the engine to local-only mode
func (c *CollectionController) ClearSyncConfig(ctx context.Context) {
	if err := c.local.ClearEndpoint(ctx); err != nil {
		c.logger.Error("Failed to clear sync endpoint", "error", err)
	}
	c.engine.SetEndpoint("")
}

// SyncNow performs a manual pull
func (c *CollectionController) SyncNow(ctx context.Context) error {
	return c.pullAndReplace(ctx)
}

// SyncState returns the last-known sync state
func (c *CollectionController) SyncState() entity.SyncState {
	return c.engine.State()
}

// pullAndReplace fetches the remote collection and, when non-empty, replaces
// local state with it. An empty remote never clobbers local data.
func (c *CollectionController) pullAndReplace(ctx context.Context) error {
	reports, err := c.engine.Pull(ctx)
	if err != nil {
		return err
	}
	if len(reports) > 0 {
		c.applyReplace(ctx, reports, true)
	}
	return nil
}

func (c *CollectionController) applyReplace(ctx context.Context, reports []*entity.FlightReport, fromPull bool) {
	c.mu.Lock()
	c.reports = make([]*entity.FlightReport, len(reports))
	copy(c.reports, reports)
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	if err := c.local.SaveCollection(ctx, snapshot); err != nil {
		c.logger.Error("Failed to persist collection", "error", err)
	}
	// A pull-originated replacement must not push what was just downloaded.
	if !fromPull {
		c.engine.SchedulePush(snapshot)
	}
}

func (c *CollectionController) persistAndPush(ctx context.Context, snapshot []*entity.FlightReport) {
	if err := c.local.SaveCollection(ctx, snapshot); err != nil {
		c.logger.Error("Failed to persist collection", "error", err)
	}
	c.engine.SchedulePush(snapshot)
}

func (c *CollectionController) snapshotLocked() []*entity.FlightReport {
	snapshot := make([]*entity.FlightReport, len(c.reports))
	copy(snapshot, c.reports)
	return snapshot
}
