package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"flightlog-service/internal/domain/entity"
)

// fakeRecognizer returns a canned draft or error.
type fakeRecognizer struct {
	draft *entity.ReportDraft
	err   error
	calls int
}

func (f *fakeRecognizer) Recognize(ctx context.Context, doc entity.Document) (*entity.ReportDraft, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.draft, nil
}

// fakeExtractor records call order and fails for selected document names.
type fakeExtractor struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
	seq   int
}

func (f *fakeExtractor) Extract(ctx context.Context, doc entity.Document) (*entity.FlightReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, doc.Name)
	if f.fail[doc.Name] {
		return nil, &ExtractionError{Document: doc.Name, Err: errors.New("recognition refused")}
	}

	f.seq++
	return &entity.FlightReport{
		ID:           fmt.Sprintf("report-%s", doc.Name),
		Aircraft:     "PH-TST",
		FlightNumber: fmt.Sprintf("FL%03d", f.seq),
		Faults:       []entity.Fault{},
		Failures:     []entity.Failure{},
		CreatedAt:    time.Now().UTC(),
	}, nil
}

func (f *fakeExtractor) callOrder() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// fakeLocalStore is an in-memory LocalStoreRepository.
type fakeLocalStore struct {
	mu            sync.Mutex
	collection    []*entity.FlightReport
	hasCollection bool
	endpoint      string
	saves         int
}

func (f *fakeLocalStore) LoadCollection(ctx context.Context) ([]*entity.FlightReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.hasCollection {
		return nil, nil
	}
	return append([]*entity.FlightReport(nil), f.collection...), nil
}

func (f *fakeLocalStore) SaveCollection(ctx context.Context, reports []*entity.FlightReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.collection = append([]*entity.FlightReport(nil), reports...)
	f.hasCollection = true
	f.saves++
	return nil
}

func (f *fakeLocalStore) ClearCollection(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.collection = nil
	f.hasCollection = false
	return nil
}

func (f *fakeLocalStore) LoadEndpoint(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.endpoint, nil
}

func (f *fakeLocalStore) SaveEndpoint(ctx context.Context, endpoint string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.endpoint = endpoint
	return nil
}

func (f *fakeLocalStore) ClearEndpoint(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.endpoint = ""
	return nil
}

func (f *fakeLocalStore) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

func (f *fakeLocalStore) persisted() []*entity.FlightReport {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*entity.FlightReport(nil), f.collection...)
}

// fakeRemoteStore records uploads and serves a canned remote collection.
type fakeRemoteStore struct {
	mu          sync.Mutex
	remote      []*entity.FlightReport
	fetchErr    error
	uploadErr   error
	uploads     [][]*entity.FlightReport
	uploadTimes []time.Time
}

func (f *fakeRemoteStore) Fetch(ctx context.Context, endpoint string) ([]*entity.FlightReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return append([]*entity.FlightReport(nil), f.remote...), nil
}

func (f *fakeRemoteStore) Upload(ctx context.Context, endpoint string, reports []*entity.FlightReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploads = append(f.uploads, append([]*entity.FlightReport(nil), reports...))
	f.uploadTimes = append(f.uploadTimes, time.Now())
	return nil
}

func (f *fakeRemoteStore) uploadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads)
}

func (f *fakeRemoteStore) lastUpload() []*entity.FlightReport {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.uploads) == 0 {
		return nil
	}
	return f.uploads[len(f.uploads)-1]
}

func report(id string) *entity.FlightReport {
	return &entity.FlightReport{
		ID:        id,
		Aircraft:  "PH-TST",
		Faults:    []entity.Fault{},
		Failures:  []entity.Failure{},
		CreatedAt: time.Now().UTC(),
	}
}
