package server

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-calnav/internal/blackout"
	"github.com/tartampluch/go-calnav/internal/config"
)

// MockLoader simulates the blackout source using `testify/mock`.
type MockLoader struct {
	mock.Mock
	loads atomic.Int32
}

// Load implements BlackoutLoader.
func (m *MockLoader) Load(ctx context.Context, src blackout.Source) ([]time.Time, error) {
	defer m.loads.Add(1)
	args := m.Called(ctx, src)
	if d := args.Get(0); d != nil {
		return d.([]time.Time), args.Error(1)
	}
	return nil, args.Error(1)
}

func loadedDates(srv *ViewServer) []time.Time {
	if set := srv.blackouts.Load(); set != nil {
		return set.dates
	}
	return nil
}

func TestRunRefresher_LoadsAndReloadsOnTrigger(t *testing.T) {
	srv := newTestServer(t, "0")
	src := blackout.Source{Mode: config.SourceModeLocal, LocalPath: "holidays.ics"}
	first := []time.Time{time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)}
	second := []time.Time{time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}

	loader := new(MockLoader)
	loader.On("Load", mock.Anything, src).Return(first, nil).Once()
	loader.On("Load", mock.Anything, src).Return(second, nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	trigger := make(chan struct{})
	done := make(chan struct{})
	go func() {
		srv.RunRefresher(ctx, loader, src, config.DisabledInterval, trigger)
		close(done)
	}()

	require.Eventually(t, srv.Ready, time.Second, 10*time.Millisecond)
	assert.Equal(t, first, loadedDates(srv))

	trigger <- struct{}{}
	require.Eventually(t, func() bool {
		d := loadedDates(srv)
		return len(d) == 1 && d[0].Equal(second[0])
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Refresher did not stop on cancellation")
	}
	loader.AssertExpectations(t)
}

func TestRunRefresher_FailureKeepsPreviousDates(t *testing.T) {
	srv := newTestServer(t, "0")
	src := blackout.Source{Mode: config.SourceModeWeb, WebURL: "https://example.com/h.ics"}
	first := []time.Time{time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)}

	loader := new(MockLoader)
	loader.On("Load", mock.Anything, src).Return(first, nil).Once()
	loader.On("Load", mock.Anything, src).Return(nil, errors.New("feed unavailable"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.RunRefresher(ctx, loader, src, 5*time.Millisecond, nil)

	require.Eventually(t, func() bool {
		return loader.loads.Load() >= 3
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, first, loadedDates(srv))
}

func TestRunRefresher_StaysUnreadyUntilFirstSuccess(t *testing.T) {
	srv := newTestServer(t, "0")
	src := blackout.Source{Mode: config.SourceModeLocal, LocalPath: "missing.ics"}

	loader := new(MockLoader)
	loader.On("Load", mock.Anything, src).Return(nil, errors.New("no such file")).Once()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		srv.RunRefresher(ctx, loader, src, config.DisabledInterval, nil)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return loader.loads.Load() == 1
	}, time.Second, 5*time.Millisecond)
	assert.False(t, srv.Ready())

	cancel()
	<-done
}
