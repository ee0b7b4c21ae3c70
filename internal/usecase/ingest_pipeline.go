package usecase

import (
	"context"
	"fmt"

	"flightlog-service/internal/domain/entity"
	"flightlog-service/internal/domain/repository"
	"flightlog-service/pkg/logger"
	"flightlog-service/pkg/metrics"
)

// IngestResult is the outcome of one batch run. Accepted holds the extracted
// reports newest-first (reverse of input order); Failed counts the documents
// that did not survive extraction.
type IngestResult struct {
	Accepted []*entity.FlightReport
	Failed   int
}

// BatchError summarizes a partially-failed batch. The accepted reports are
// still valid and already returned to the caller.
type BatchError struct {
	Accepted int
	Failed   int
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("ingested %d of %d documents, %d failed",
		e.Accepted, e.Accepted+e.Failed, e.Failed)
}

// ProgressFunc receives "processing i of n" notifications as each document
// starts. Advisory only.
type ProgressFunc func(current, total int)

// IngestPipeline drives a batch of documents through the extractor strictly
// one at a time, in input order. The recognition service enforces a quota;
// parallel submission produces cascading failures, so sequential processing
// here is a correctness requirement, not a simplification.
type IngestPipeline struct {
	extractor repository.ReportExtractor
	logger    logger.Logger
	metrics   *metrics.Metrics
	progress  ProgressFunc
}

// NewIngestPipeline creates a new ingest pipeline
func NewIngestPipeline(extractor repository.ReportExtractor, logger logger.Logger, m *metrics.Metrics) *IngestPipeline {
	return &IngestPipeline{
		extractor: extractor,
		logger:    logger,
		metrics:   m,
	}
}

// OnProgress installs an advisory progress callback
func (p *IngestPipeline) OnProgress(fn ProgressFunc) {
	p.progress = fn
}

// Ingest processes the batch. A single failed document never aborts the run:
// the failure is counted and the loop moves on, so partial success is always
// preserved. When anything failed, the accepted reports are returned together
// with a BatchError carrying the counts.
func (p *IngestPipeline) Ingest(ctx context.Context, docs []entity.Document) (*IngestResult, error) {
	result := &IngestResult{Accepted: []*entity.FlightReport{}}

	for i, doc := range docs {
		if p.progress != nil {
			p.progress(i+1, len(docs))
		}
		p.logger.Info("Processing document", "current", i+1, "total", len(docs), "name", doc.Name)

		report, err := p.extractor.Extract(ctx, doc)
		if err != nil {
			p.logger.Error("Failed to extract document", "name", doc.Name, "error", err)
			if p.metrics != nil {
				p.metrics.ExtractionFailures.Inc()
			}
			result.Failed++
			continue
		}

		// Prepend so the batch comes out newest-first.
		result.Accepted = append([]*entity.FlightReport{report}, result.Accepted...)
		if p.metrics != nil {
			p.metrics.ReportsIngested.Inc()
		}
	}

	p.logger.Info("Ingestion batch completed",
		"total", len(docs),
		"accepted", len(result.Accepted),
		"failed", result.Failed)

	if result.Failed > 0 {
		return result, &BatchError{Accepted: len(result.Accepted), Failed: result.Failed}
	}

	return result, nil
}
