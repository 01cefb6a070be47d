package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-calnav/internal/config"
	"github.com/tartampluch/go-calnav/internal/engine"
	"github.com/tartampluch/go-calnav/internal/i18n"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, port string) *ViewServer {
	t.Helper()
	catalog, err := i18n.NewCatalog()
	require.NoError(t, err)
	return NewViewServer(port, engine.NewDefault(), catalog, engine.FixedClock(testNow), Defaults{})
}

// get runs the handler for target and decodes the snapshot on 200.
func get(t *testing.T, srv *ViewServer, target string) (*http.Response, engine.Snapshot) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	srv.handleViewRequest(w, req)

	resp := w.Result()
	t.Cleanup(func() { _ = resp.Body.Close() })

	var snap engine.Snapshot
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	}
	return resp, snap
}

func cellFor(t *testing.T, snap engine.Snapshot, date string) engine.Cell {
	t.Helper()
	for _, c := range snap.Cells {
		if c.Date == date {
			return c
		}
	}
	t.Fatalf("no cell for %s", date)
	return engine.Cell{}
}

// -----------------------------------------------------------------------------
// Unit Tests (White-Box Testing of Handler Logic)
// -----------------------------------------------------------------------------

// TestHandler_ServingContent verifies headers and the snapshot body of a
// default month view.
func TestHandler_ServingContent(t *testing.T) {
	srv := newTestServer(t, "0")
	srv.Update(nil)

	resp, snap := get(t, srv, "/view?date=2022-03-15")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.MimeJSON, resp.Header.Get(config.HeaderContentType))
	assert.Equal(t, config.MimeNoSniff, resp.Header.Get(config.HeaderXContentType))
	assert.Contains(t, resp.Header.Get(config.HeaderCacheControl), "no-cache")
	assert.NotEmpty(t, resp.Header.Get(config.HeaderETag))

	assert.Equal(t, "gregorian", snap.Calendar)
	assert.Equal(t, "month", snap.View)
	assert.Equal(t, "March 2022", snap.Header)
	assert.Equal(t, "2022-03-15", snap.DisplayDate)
	assert.Len(t, snap.Cells, 42)
	assert.Len(t, snap.WeekNumbers, 6)
	assert.Len(t, snap.WeekdayHeaders, 7)
	assert.True(t, snap.CanNavigateNext)
	assert.True(t, snap.CanNavigatePrev)

	// March 2022 starts on a Tuesday; the Sunday grid opens on Feb 27.
	assert.Equal(t, "2022-02-27", snap.Cells[0].Date)
	assert.True(t, snap.Cells[0].LeadingOrTrailing)
	assert.Equal(t, "Thursday, March 10, 2022", cellFor(t, snap, "2022-03-10").Description)
}

// TestHandler_Caching verifies that the server respects ETag headers (If-None-Match)
// and returns 304 Not Modified to save bandwidth.
func TestHandler_Caching(t *testing.T) {
	srv := newTestServer(t, "0")
	srv.Update(nil)

	resp1, _ := get(t, srv, "/view?date=2022-03-15")
	etag := resp1.Header.Get(config.HeaderETag)
	require.NotEmpty(t, etag, "Server must provide an ETag")

	req2 := httptest.NewRequest(http.MethodGet, "/view?date=2022-03-15", nil)
	req2.Header.Set(config.HeaderIfNoneMatch, etag)
	w2 := httptest.NewRecorder()
	srv.handleViewRequest(w2, req2)

	resp2 := w2.Result()
	defer func() { _ = resp2.Body.Close() }()

	assert.Equal(t, http.StatusNotModified, resp2.StatusCode)
	body, _ := io.ReadAll(resp2.Body)
	assert.Empty(t, body, "Body must be empty on 304 Not Modified")

	// New blackout dates change the payload and therefore the ETag.
	srv.Update([]time.Time{time.Date(2022, 3, 10, 0, 0, 0, 0, time.UTC)})
	resp3, _ := get(t, srv, "/view?date=2022-03-15")
	assert.NotEqual(t, etag, resp3.Header.Get(config.HeaderETag))
}

// TestHandler_HeadHasNoBody ensures HEAD returns headers only.
func TestHandler_HeadHasNoBody(t *testing.T) {
	srv := newTestServer(t, "0")
	srv.Update(nil)

	req := httptest.NewRequest(http.MethodHead, "/view", nil)
	w := httptest.NewRecorder()
	srv.handleViewRequest(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(config.HeaderETag))
	assert.Zero(t, w.Body.Len())
}

// TestHandler_MethodNotAllowed ensures strictly GET and HEAD are accepted.
func TestHandler_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, "0")

	req := httptest.NewRequest(http.MethodPost, "/view", nil)
	w := httptest.NewRecorder()

	srv.handleViewRequest(w, req)

	resp := w.Result()
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, config.AllowedMethods, resp.Header.Get(config.HeaderAllow))
}

// TestHandler_Initializing verifies the 503 behavior before the first blackout load.
func TestHandler_Initializing(t *testing.T) {
	srv := newTestServer(t, "0")
	// Note: We intentionally do NOT call srv.Update() here.

	resp, _ := get(t, srv, "/view")

	assert.False(t, srv.Ready())
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, config.RetryAfterSeconds, resp.Header.Get(config.HeaderRetryAfter))
}

// TestHandler_BadRequest rejects malformed parameters with 400.
func TestHandler_BadRequest(t *testing.T) {
	srv := newTestServer(t, "0")
	srv.Update(nil)

	tests := []struct {
		name  string
		query string
	}{
		{"BadDate", "date=2022-13-01"},
		{"BadMin", "min=yesterday"},
		{"UnknownView", "view=weekly"},
		{"UnknownMode", "mode=lasso"},
		{"UnknownDirection", "direction=sideways"},
		{"UnknownKey", "key=home"},
		{"BadWeeks", "weeks=six"},
		{"FirstDayOutOfRange", "first=7"},
		{"EndWithoutStart", "end=2022-03-10"},
		{"BadBool", "past=maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := get(t, srv, "/view?"+tt.query)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

// TestHandler_Blackout marks blackout days disabled in month view only.
func TestHandler_Blackout(t *testing.T) {
	srv := newTestServer(t, "0")
	srv.Update([]time.Time{time.Date(2022, 3, 10, 0, 0, 0, 0, time.UTC)})

	_, snap := get(t, srv, "/view?date=2022-03-15")
	blocked := cellFor(t, snap, "2022-03-10")
	assert.True(t, blocked.Blackout)
	assert.True(t, blocked.Disabled)
	assert.False(t, cellFor(t, snap, "2022-03-11").Disabled)

	_, year := get(t, srv, "/view?date=2022-03-15&view=year")
	assert.False(t, cellFor(t, year, "2022-03-01").Disabled)
}

// TestHandler_Localization resolves label language and locale calendar.
func TestHandler_Localization(t *testing.T) {
	srv := newTestServer(t, "0")
	srv.Update(nil)

	_, fr := get(t, srv, "/view?date=2022-03-15&lang=fr")
	assert.Equal(t, "fr", fr.Language)
	assert.Equal(t, "mars 2022", fr.Header)
	assert.Equal(t, "jeudi 10 mars 2022", cellFor(t, fr, "2022-03-10").Description)

	// Thai falls back to English labels but keeps the Thai Buddhist calendar.
	_, th := get(t, srv, "/view?date=2022-03-15&lang=th")
	assert.Equal(t, "thaibuddhist", th.Calendar)
	assert.Equal(t, "en", th.Language)
	assert.Equal(t, "March 2565", th.Header)

	// An explicit calendar wins over the locale default; unknown names fall back.
	_, explicit := get(t, srv, "/view?date=2022-03-15&lang=th&calendar=gregorian")
	assert.Equal(t, "gregorian", explicit.Calendar)
	_, unknown := get(t, srv, "/view?date=2022-03-15&calendar=klingon")
	assert.Equal(t, "gregorian", unknown.Calendar)
}

// TestHandler_KeyNavigation applies a key press before rendering.
func TestHandler_KeyNavigation(t *testing.T) {
	srv := newTestServer(t, "0")
	srv.Update(nil)

	_, moved := get(t, srv, "/view?date=2022-03-31&key=right")
	assert.Equal(t, "2022-04-01", moved.DisplayDate)
	assert.Equal(t, "April 2022", moved.Header)

	_, mirrored := get(t, srv, "/view?date=2022-03-31&key=right&rtl=true")
	assert.Equal(t, "2022-03-30", mirrored.DisplayDate)

	_, switched := get(t, srv, "/view?date=2022-03-31&key=up&switch=true")
	assert.Equal(t, "year", switched.View)
	assert.Equal(t, "2022", switched.Header)
	assert.Len(t, switched.Cells, 12)
}

// TestHandler_RangeSelection disables dates before a forward range start.
func TestHandler_RangeSelection(t *testing.T) {
	srv := newTestServer(t, "0")
	srv.Update(nil)

	_, snap := get(t, srv, "/view?date=2022-03-15&mode=range&direction=forward&start=2022-03-10")

	assert.True(t, cellFor(t, snap, "2022-03-09").Disabled)
	start := cellFor(t, snap, "2022-03-10")
	assert.False(t, start.Disabled)
	assert.True(t, start.Selected)
	assert.False(t, cellFor(t, snap, "2022-03-11").Disabled)
}

// TestHandler_Bounds reports effective bounds and navigation flags.
func TestHandler_Bounds(t *testing.T) {
	srv := newTestServer(t, "0")
	srv.Update(nil)

	_, snap := get(t, srv, "/view?date=2022-03-15&min=2022-03-05&max=2022-03-25")
	assert.Equal(t, "2022-03-05", snap.MinDate)
	assert.Equal(t, "2022-03-25", snap.MaxDate)
	assert.False(t, snap.CanNavigateNext)
	assert.False(t, snap.CanNavigatePrev)
	assert.True(t, cellFor(t, snap, "2022-03-04").Disabled)
	assert.True(t, cellFor(t, snap, "2022-03-26").Disabled)
}

// TestHandler_KeyStartsFromClampedDate moves the cursor from the display date
// as clamped into the bounds, not from the raw out-of-range value.
func TestHandler_KeyStartsFromClampedDate(t *testing.T) {
	srv := newTestServer(t, "0")
	srv.Update(nil)

	_, snap := get(t, srv, "/view?date=2030-01-01&max=2022-03-25&key=left")
	assert.Equal(t, "2022-03-24", snap.DisplayDate)

	_, snap = get(t, srv, "/view?date=2010-01-01&min=2022-03-05&key=right")
	assert.Equal(t, "2022-03-06", snap.DisplayDate)
}

// -----------------------------------------------------------------------------
// Concurrency Tests (Race Detection)
// -----------------------------------------------------------------------------

// TestServer_RaceCondition validates the thread-safety of atomic.Pointer usage.
// It runs high-frequency writers and readers concurrently to trigger race conditions.
// Run this with `go test -race`.
func TestServer_RaceCondition(t *testing.T) {
	srv := newTestServer(t, "0")
	var wg sync.WaitGroup

	duration := 500 * time.Millisecond
	end := time.Now().Add(duration)

	for w := 0; w < 5; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			i := 0
			for time.Now().Before(end) {
				srv.Update([]time.Time{time.Date(2022, 3, 1+(id+i)%28, 0, 0, 0, 0, time.UTC)})
				i++
				time.Sleep(1 * time.Microsecond)
			}
		}(w)
	}

	for r := 0; r < 20; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) {
				req := httptest.NewRequest(http.MethodGet, "/view?date=2022-03-15", nil)
				w := httptest.NewRecorder()

				srv.handleViewRequest(w, req)

				code := w.Code
				if code != http.StatusOK && code != http.StatusServiceUnavailable {
					t.Errorf("Unexpected status code during race test: %d", code)
				}
			}
		}()
	}

	wg.Wait()
}

// -----------------------------------------------------------------------------
// Integration Tests (Real TCP Lifecycle)
// -----------------------------------------------------------------------------

// TestServer_Lifecycle spins up the actual TCP listener to verify network binding
// and graceful shutdown logic.
func TestServer_Lifecycle(t *testing.T) {
	const port = "18099"

	srv := newTestServer(t, port)
	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)

	go func() {
		errChan <- srv.Start(ctx)
	}()

	url := "http://127.0.0.1:" + port + config.RouteView

	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return true
	}, 2*time.Second, 50*time.Millisecond, "Server failed to bind/listen in time")

	// 1. Check Initial State (503)
	resp, err := http.Get(url)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	_ = resp.Body.Close()

	// 2. Update Data
	srv.Update(nil)

	// 3. Check Served Content (200)
	resp, err = http.Get(url + "?date=2022-03-15")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.MimeJSON, resp.Header.Get(config.HeaderContentType))

	var snap engine.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, "March 2022", snap.Header)

	// 4. Test Shutdown
	cancel()

	select {
	case err := <-errChan:
		assert.NoError(t, err, "Server should shutdown gracefully without error")
	case <-time.After(5 * time.Second):
		t.Fatal("Server shutdown timed out")
	}
}

func TestServer_StartRequiresPort(t *testing.T) {
	srv := newTestServer(t, "")
	err := srv.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrPortRequired)
}
