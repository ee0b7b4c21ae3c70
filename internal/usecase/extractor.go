package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"flightlog-service/internal/domain/entity"
	"flightlog-service/internal/domain/repository"
	"flightlog-service/pkg/logger"
	"flightlog-service/pkg/metrics"

	"github.com/oklog/ulid/v2"
)

// ExtractionError reports that one document failed recognition. It isolates
// the failure to that document so a batch can continue past it.
type ExtractionError struct {
	Document string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for %q: %v", e.Document, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Extractor turns one raw document into a flight report via the recognition
// service. Identity and ingestion timestamp are synthesized here, never taken
// from the service.
type Extractor struct {
	recognizer repository.Recognizer
	timeout    time.Duration
	logger     logger.Logger
	metrics    *metrics.Metrics

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewExtractor creates a new extractor
func NewExtractor(recognizer repository.Recognizer, timeout time.Duration, logger logger.Logger, m *metrics.Metrics) *Extractor {
	return &Extractor{
		recognizer: recognizer,
		timeout:    timeout,
		logger:     logger,
		metrics:    m,
		entropy:    ulid.Monotonic(rand.Reader, 0),
	}
}

// Extract recognizes one document and assembles the report
func (e *Extractor) Extract(ctx context.Context, doc entity.Document) (*entity.FlightReport, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	started := time.Now()
	draft, err := e.recognizer.Recognize(ctx, doc)
	if e.metrics != nil {
		e.metrics.ExtractionTime.Observe(time.Since(started).Seconds())
	}
	if err != nil {
		return nil, &ExtractionError{Document: doc.Name, Err: err}
	}
	if draft == nil || draft.IsEmpty() {
		return nil, &ExtractionError{Document: doc.Name, Err: fmt.Errorf("recognition returned no usable content")}
	}

	report := &entity.FlightReport{
		ID:           e.newID(),
		Aircraft:     draft.Aircraft,
		Date:         draft.Date,
		FlightNumber: draft.FlightNumber,
		CityPair:     draft.CityPair,
		RawText:      draft.RawText,
		Faults:       draft.Faults,
		Failures:     draft.Failures,
		CreatedAt:    time.Now().UTC(),
	}
	if report.Faults == nil {
		report.Faults = []entity.Fault{}
	}
	if report.Failures == nil {
		report.Failures = []entity.Failure{}
	}

	e.logger.Info("Extracted flight report",
		"document", doc.Name,
		"reportId", report.ID,
		"faults", len(report.Faults),
		"failures", len(report.Failures))

	return report, nil
}

func (e *Extractor) newID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ulid.MustNew(ulid.Now(), e.entropy).String()
}

var _ repository.ReportExtractor = (*Extractor)(nil)
