package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"flightlog-service/internal/domain/entity"
	"flightlog-service/pkg/logger"

	"github.com/stretchr/testify/require"
)

const testDebounce = 40 * time.Millisecond

func newTestEngine(remote *fakeRemoteStore) *SyncEngine {
	engine := NewSyncEngine(remote, testDebounce, logger.NewNop(), nil)
	engine.SetEndpoint("http://remote.example/reports")
	return engine
}

func waitForUploads(t *testing.T, remote *fakeRemoteStore, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if remote.uploadCount() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	require.Equal(t, want, remote.uploadCount())
}

func TestSyncEngine_DebounceCoalescesBurst(t *testing.T) {
	remote := &fakeRemoteStore{}
	engine := newTestEngine(remote)
	defer engine.Close()

	// Five mutations inside the quiet window must produce exactly one push,
	// carrying the last snapshot.
	for i := 0; i < 5; i++ {
		engine.SchedulePush([]*entity.FlightReport{report("r1"), report("r2")})
		time.Sleep(5 * time.Millisecond)
	}
	last := []*entity.FlightReport{report("final")}
	engine.SchedulePush(last)

	waitForUploads(t, remote, 1)
	time.Sleep(3 * testDebounce)

	require.Equal(t, 1, remote.uploadCount())
	require.Len(t, remote.lastUpload(), 1)
	require.Equal(t, "final", remote.lastUpload()[0].ID)
	require.Equal(t, entity.SyncSynced, engine.State().Status)
	require.False(t, engine.State().LastSyncTime.IsZero())
}

func TestSyncEngine_QuietWindowRestartsOnNewChange(t *testing.T) {
	remote := &fakeRemoteStore{}
	engine := newTestEngine(remote)
	defer engine.Close()

	engine.SchedulePush([]*entity.FlightReport{report("r1")})
	time.Sleep(testDebounce / 2)
	engine.SchedulePush([]*entity.FlightReport{report("r2")})

	// Half a window after the first schedule nothing may have fired yet; the
	// second schedule restarted the timer.
	require.Equal(t, 0, remote.uploadCount())

	waitForUploads(t, remote, 1)
	require.Equal(t, "r2", remote.lastUpload()[0].ID)
}

func TestSyncEngine_PushErrorIsReenterable(t *testing.T) {
	remote := &fakeRemoteStore{uploadErr: errors.New("remote down")}
	engine := newTestEngine(remote)
	defer engine.Close()

	engine.SchedulePush([]*entity.FlightReport{report("r1")})
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && engine.State().Status != entity.SyncError {
		time.Sleep(5 * time.Millisecond)
	}
	require.Equal(t, entity.SyncError, engine.State().Status)
	require.NotEmpty(t, engine.State().LastError)

	// The error does not block the next attempt.
	remote.mu.Lock()
	remote.uploadErr = nil
	remote.mu.Unlock()

	engine.SchedulePush([]*entity.FlightReport{report("r2")})
	waitForUploads(t, remote, 1)
	require.Equal(t, entity.SyncSynced, engine.State().Status)
	require.Empty(t, engine.State().LastError)
}

func TestSyncEngine_PullReturnsRemoteCollection(t *testing.T) {
	remote := &fakeRemoteStore{remote: []*entity.FlightReport{report("b1"), report("b2")}}
	engine := newTestEngine(remote)
	defer engine.Close()

	reports, err := engine.Pull(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 2)
	require.Equal(t, entity.SyncSynced, engine.State().Status)
	require.False(t, engine.State().LastSyncTime.IsZero())
}

func TestSyncEngine_PullFailureSetsErrorState(t *testing.T) {
	remote := &fakeRemoteStore{fetchErr: errors.New("connection refused")}
	engine := newTestEngine(remote)
	defer engine.Close()

	_, err := engine.Pull(context.Background())
	require.Error(t, err)
	require.Equal(t, entity.SyncError, engine.State().Status)
	require.True(t, engine.State().LastSyncTime.IsZero())
}

func TestSyncEngine_NoEndpointMeansLocalOnly(t *testing.T) {
	remote := &fakeRemoteStore{remote: []*entity.FlightReport{report("b1")}}
	engine := NewSyncEngine(remote, testDebounce, logger.NewNop(), nil)
	defer engine.Close()

	reports, err := engine.Pull(context.Background())
	require.NoError(t, err)
	require.Nil(t, reports)

	engine.SchedulePush([]*entity.FlightReport{report("r1")})
	time.Sleep(3 * testDebounce)
	require.Equal(t, 0, remote.uploadCount())
	require.Equal(t, entity.SyncIdle, engine.State().Status)
}

func TestSyncEngine_CloseCancelsPendingPush(t *testing.T) {
	remote := &fakeRemoteStore{}
	engine := newTestEngine(remote)

	engine.SchedulePush([]*entity.FlightReport{report("r1")})
	engine.Close()

	time.Sleep(3 * testDebounce)
	require.Equal(t, 0, remote.uploadCount())
}

func TestSyncEngine_ClearingEndpointDropsPendingPush(t *testing.T) {
	remote := &fakeRemoteStore{}
	engine := newTestEngine(remote)
	defer engine.Close()

	engine.SchedulePush([]*entity.FlightReport{report("r1")})
	engine.SetEndpoint("")

	time.Sleep(3 * testDebounce)
	require.Equal(t, 0, remote.uploadCount())
	require.Equal(t, entity.SyncIdle, engine.State().Status)
}
