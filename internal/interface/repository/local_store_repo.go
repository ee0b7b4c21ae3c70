package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"flightlog-service/internal/domain/entity"
	"flightlog-service/internal/domain/repository"
	"flightlog-service/internal/infrastructure/persistence"
	"flightlog-service/pkg/logger"
)

// Local store keys. The whole collection and the sync endpoint are two
// independent entries, each rewritten wholesale on every relevant mutation.
const (
	keyCollection = "collection"
	keyEndpoint   = "sync_endpoint"
)

// SQLiteLocalStoreRepository implements LocalStoreRepository on the embedded
// SQLite database
type SQLiteLocalStoreRepository struct {
	db     *persistence.DB
	logger logger.Logger
}

// NewSQLiteLocalStoreRepository creates a new local store repository
func NewSQLiteLocalStoreRepository(db *persistence.DB, logger logger.Logger) repository.LocalStoreRepository {
	return &SQLiteLocalStoreRepository{
		db:     db,
		logger: logger,
	}
}

// LoadCollection reads the persisted collection. A missing or malformed entry
// is treated as an empty collection, never as a failure.
func (r *SQLiteLocalStoreRepository) LoadCollection(ctx context.Context) ([]*entity.FlightReport, error) {
	raw, err := r.loadEntry(ctx, keyCollection)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &repository.PersistenceError{Op: "load collection", Err: err}
	}

	var reports []*entity.FlightReport
	if err := json.Unmarshal([]byte(raw), &reports); err != nil {
		r.logger.Warn("Persisted collection is malformed, treating as empty", "error", err)
		return nil, nil
	}

	return reports, nil
}

// SaveCollection rewrites the full collection entry
func (r *SQLiteLocalStoreRepository) SaveCollection(ctx context.Context, reports []*entity.FlightReport) error {
	if reports == nil {
		reports = []*entity.FlightReport{}
	}

	raw, err := json.Marshal(reports)
	if err != nil {
		return &repository.PersistenceError{Op: "save collection", Err: err}
	}

	if err := r.saveEntry(ctx, keyCollection, string(raw)); err != nil {
		return &repository.PersistenceError{Op: "save collection", Err: err}
	}

	return nil
}

// ClearCollection removes the collection entry entirely
func (r *SQLiteLocalStoreRepository) ClearCollection(ctx context.Context) error {
	if err := r.deleteEntry(ctx, keyCollection); err != nil {
		return &repository.PersistenceError{Op: "clear collection", Err: err}
	}
	return nil
}

// LoadEndpoint reads the persisted remote endpoint, empty when unset
func (r *SQLiteLocalStoreRepository) LoadEndpoint(ctx context.Context) (string, error) {
	raw, err := r.loadEntry(ctx, keyEndpoint)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", &repository.PersistenceError{Op: "load endpoint", Err: err}
	}
	return raw, nil
}

// SaveEndpoint rewrites the remote endpoint entry
func (r *SQLiteLocalStoreRepository) SaveEndpoint(ctx context.Context, endpoint string) error {
	if err := r.saveEntry(ctx, keyEndpoint, endpoint); err != nil {
		return &repository.PersistenceError{Op: "save endpoint", Err: err}
	}
	return nil
}

// ClearEndpoint removes the remote endpoint entry
func (r *SQLiteLocalStoreRepository) ClearEndpoint(ctx context.Context) error {
	if err := r.deleteEntry(ctx, keyEndpoint); err != nil {
		return &repository.PersistenceError{Op: "clear endpoint", Err: err}
	}
	return nil
}

func (r *SQLiteLocalStoreRepository) loadEntry(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM app_state WHERE key = ?`, key).Scan(&value)
	return value, err
}

func (r *SQLiteLocalStoreRepository) saveEntry(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO app_state (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}

func (r *SQLiteLocalStoreRepository) deleteEntry(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM app_state WHERE key = ?`, key)
	return err
}
