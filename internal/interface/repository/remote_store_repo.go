package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"flightlog-service/internal/domain/entity"
	"flightlog-service/internal/domain/repository"
	"flightlog-service/pkg/logger"
)

// HTTPRemoteStoreRepository talks to the remote collection replica. The
// remote contract is a plain JSON array: GET returns the full collection,
// PUT overwrites it.
type HTTPRemoteStoreRepository struct {
	logger logger.Logger
	client *http.Client
}

// NewHTTPRemoteStoreRepository creates a new remote store repository
func NewHTTPRemoteStoreRepository(logger logger.Logger) repository.RemoteStoreRepository {
	return &HTTPRemoteStoreRepository{
		logger: logger,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch downloads the remote collection. An empty body or 404 reads as an
// absent collection, not as an error.
func (r *HTTPRemoteStoreRepository) Fetch(ctx context.Context, endpoint string) ([]*entity.FlightReport, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &repository.SyncError{Op: "pull", Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &repository.SyncError{Op: "pull", Err: fmt.Errorf("failed to send request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &repository.SyncError{Op: "pull", Err: fmt.Errorf("remote store returned status %d", resp.StatusCode)}
	}

	var reports []*entity.FlightReport
	if err := json.NewDecoder(resp.Body).Decode(&reports); err != nil {
		return nil, &repository.SyncError{Op: "pull", Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	r.logger.Info("Fetched remote collection", "endpoint", endpoint, "count", len(reports))
	return reports, nil
}

// Upload overwrites the remote collection with the full local snapshot
func (r *HTTPRemoteStoreRepository) Upload(ctx context.Context, endpoint string, reports []*entity.FlightReport) error {
	if reports == nil {
		reports = []*entity.FlightReport{}
	}

	jsonData, err := json.Marshal(reports)
	if err != nil {
		return &repository.SyncError{Op: "push", Err: fmt.Errorf("failed to marshal collection: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return &repository.SyncError{Op: "push", Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return &repository.SyncError{Op: "push", Err: fmt.Errorf("failed to send request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusNoContent {
		return &repository.SyncError{Op: "push", Err: fmt.Errorf("remote store returned status %d", resp.StatusCode)}
	}

	r.logger.Info("Uploaded collection to remote store", "endpoint", endpoint, "count", len(reports))
	return nil
}
