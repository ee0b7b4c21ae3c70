package repository

import (
	"context"

	"flightlog-service/internal/domain/entity"
)

// Recognizer defines the interface to the external recognition service
type Recognizer interface {
	Recognize(ctx context.Context, doc entity.Document) (*entity.ReportDraft, error)
}

// ReportExtractor defines the interface for turning one raw document into a
// fully-formed flight report
type ReportExtractor interface {
	Extract(ctx context.Context, doc entity.Document) (*entity.FlightReport, error)
}
