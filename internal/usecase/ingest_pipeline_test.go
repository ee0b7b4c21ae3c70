package usecase

import (
	"context"
	"testing"

	"flightlog-service/internal/domain/entity"
	"flightlog-service/pkg/logger"

	"github.com/stretchr/testify/require"
)

func docs(names ...string) []entity.Document {
	out := make([]entity.Document, 0, len(names))
	for _, n := range names {
		out = append(out, entity.Document{Name: n, MIMEType: "image/png", Data: []byte{0x1}})
	}
	return out
}

func TestIngestPipeline_SequentialInputOrder(t *testing.T) {
	extractor := &fakeExtractor{}
	pipeline := NewIngestPipeline(extractor, logger.NewNop(), nil)

	result, err := pipeline.Ingest(context.Background(), docs("d1", "d2", "d3"))
	require.NoError(t, err)

	// The extractor sees documents strictly in input order.
	require.Equal(t, []string{"d1", "d2", "d3"}, extractor.callOrder())

	// Accepted reports come out newest-first.
	require.Len(t, result.Accepted, 3)
	require.Equal(t, "report-d3", result.Accepted[0].ID)
	require.Equal(t, "report-d2", result.Accepted[1].ID)
	require.Equal(t, "report-d1", result.Accepted[2].ID)
	require.Equal(t, 0, result.Failed)
}

func TestIngestPipeline_PartialFailureIsolated(t *testing.T) {
	extractor := &fakeExtractor{fail: map[string]bool{"d1": true}}
	pipeline := NewIngestPipeline(extractor, logger.NewNop(), nil)

	result, err := pipeline.Ingest(context.Background(), docs("d1", "d2"))

	// d1 failing must not stop d2 from being processed.
	require.Equal(t, []string{"d1", "d2"}, extractor.callOrder())
	require.Len(t, result.Accepted, 1)
	require.Equal(t, "report-d2", result.Accepted[0].ID)
	require.Equal(t, 1, result.Failed)

	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
	require.Equal(t, 1, batchErr.Accepted)
	require.Equal(t, 1, batchErr.Failed)
}

func TestIngestPipeline_AllFailKeepsNothing(t *testing.T) {
	extractor := &fakeExtractor{fail: map[string]bool{"d1": true, "d2": true}}
	pipeline := NewIngestPipeline(extractor, logger.NewNop(), nil)

	result, err := pipeline.Ingest(context.Background(), docs("d1", "d2"))
	require.Error(t, err)
	require.Empty(t, result.Accepted)
	require.Equal(t, 2, result.Failed)
}

func TestIngestPipeline_EmptyBatch(t *testing.T) {
	pipeline := NewIngestPipeline(&fakeExtractor{}, logger.NewNop(), nil)

	result, err := pipeline.Ingest(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, result.Accepted)
	require.Equal(t, 0, result.Failed)
}

func TestIngestPipeline_ProgressNotifications(t *testing.T) {
	extractor := &fakeExtractor{fail: map[string]bool{"d2": true}}
	pipeline := NewIngestPipeline(extractor, logger.NewNop(), nil)

	var progress []int
	var totals []int
	pipeline.OnProgress(func(current, total int) {
		progress = append(progress, current)
		totals = append(totals, total)
	})

	_, _ = pipeline.Ingest(context.Background(), docs("d1", "d2", "d3"))

	// One notification per document, including the failing one.
	require.Equal(t, []int{1, 2, 3}, progress)
	require.Equal(t, []int{3, 3, 3}, totals)
}
