package repository

import (
	"context"

	"flightlog-service/internal/domain/entity"
)

// LocalStoreRepository defines the interface for durable local persistence of
// the report collection and the remote sync endpoint
type LocalStoreRepository interface {
	LoadCollection(ctx context.Context) ([]*entity.FlightReport, error)
	SaveCollection(ctx context.Context, reports []*entity.FlightReport) error
	ClearCollection(ctx context.Context) error
	LoadEndpoint(ctx context.Context) (string, error)
	SaveEndpoint(ctx context.Context, endpoint string) error
	ClearEndpoint(ctx context.Context) error
}
