package repository

import (
	"context"

	"flightlog-service/internal/domain/entity"
)

// RemoteStoreRepository defines the interface for the remote replica of the
// report collection
type RemoteStoreRepository interface {
	Fetch(ctx context.Context, endpoint string) ([]*entity.FlightReport, error)
	Upload(ctx context.Context, endpoint string, reports []*entity.FlightReport) error
}
