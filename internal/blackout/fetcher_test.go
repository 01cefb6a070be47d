package blackout_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-calnav/internal/blackout"
	"github.com/tartampluch/go-calnav/internal/config"
)

const (
	feedUser = "frontdesk"
	feedPass = "s3cret"
)

var holidayFeed = feed(
	"UID:bastille\nDTSTAMP:20250101T000000Z\nDTSTART;VALUE=DATE:20250714\n",
	"UID:xmas\nDTSTAMP:20250101T000000Z\nDTSTART;VALUE=DATE:20251224\nDTEND;VALUE=DATE:20251227\n",
)

// newFeedServer serves body as text/calendar to requests carrying the feed
// credentials and answers 401 to everything else.
func newFeedServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != feedUser || pass != feedPass {
			w.Header().Set("WWW-Authenticate", `Basic realm="calendar"`)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set(config.HeaderContentType, config.MimeCalendar+"; charset=utf-8")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFeedClient_SendsCredentialsAndHeaders(t *testing.T) {
	requests := make(chan *http.Request, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests <- r.Clone(context.Background())
		_, _ = io.WriteString(w, holidayFeed)
	}))
	defer srv.Close()

	rc, err := blackout.NewFeedClient().Fetch(context.Background(), srv.URL+"/holidays.ics?token=abc", feedUser, feedPass)
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, holidayFeed, string(body))

	got := <-requests
	user, pass, ok := got.BasicAuth()
	assert.True(t, ok, "Authorization header")
	assert.Equal(t, feedUser, user)
	assert.Equal(t, feedPass, pass)
	assert.Equal(t, config.UserAgent, got.Header.Get(config.HeaderUserAgent))
	assert.Equal(t, config.MimeCalendar, got.Header.Get(config.HeaderAccept))
	assert.Equal(t, "/holidays.ics", got.URL.Path)
	assert.Equal(t, "abc", got.URL.Query().Get("token"))
}

func TestFeedClient_AnonymousFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _, ok := r.BasicAuth()
		assert.False(t, ok, "no credentials were configured")
		_, _ = io.WriteString(w, holidayFeed)
	}))
	defer srv.Close()

	rc, err := blackout.NewFeedClient().Fetch(context.Background(), srv.URL, "", "")
	require.NoError(t, err)
	assert.NoError(t, rc.Close())
}

// TestLoad_Web_OverHTTP runs a web source end to end: the loader downloads an
// authenticated feed and turns its events into blackout days.
func TestLoad_Web_OverHTTP(t *testing.T) {
	srv := newFeedServer(t, holidayFeed)
	loader := &blackout.Loader{Clock: fixedNow, Fetcher: blackout.NewFeedClient()}

	src := blackout.SourceFor(srv.URL+"/holidays.ics", feedUser, feedPass)
	require.Equal(t, config.SourceModeWeb, src.Mode)

	dates, err := loader.Load(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		day(2025, 7, 14),
		day(2025, 12, 24),
		day(2025, 12, 25),
		day(2025, 12, 26),
	}, dates)
}

func TestLoad_Web_WrongPassword(t *testing.T) {
	srv := newFeedServer(t, holidayFeed)
	loader := &blackout.Loader{Clock: fixedNow, Fetcher: blackout.NewFeedClient()}

	dates, err := loader.Load(context.Background(), blackout.SourceFor(srv.URL+"/holidays.ics", feedUser, "wrong"))

	require.Error(t, err)
	assert.Nil(t, dates)
	assert.Contains(t, err.Error(), config.ErrSourceOpen)
	assert.Contains(t, err.Error(), config.ErrHTTPStatus)
	assert.Contains(t, err.Error(), "401")
}

func TestFeedClient_RejectedStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"Forbidden", http.StatusForbidden},
		{"Gone", http.StatusGone},
		{"BadGateway", http.StatusBadGateway},
		{"NoContent", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			rc, err := blackout.NewFeedClient().Fetch(context.Background(), srv.URL, "", "")

			require.Error(t, err)
			assert.Nil(t, rc)
			assert.Contains(t, err.Error(), config.ErrHTTPStatus)
			assert.Contains(t, err.Error(), http.StatusText(tt.status))
		})
	}
}

func TestFeedClient_RejectsURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr string
	}{
		{"ControlCharacter", string([]byte{0x7f}), config.ErrInvalidURL},
		{"Webcal", "webcal://example.com/holidays.ics", config.ErrProtocol},
		{"FTP", "ftp://example.com/holidays.ics", config.ErrProtocol},
		{"BarePath", "holidays.ics", config.ErrProtocol},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := blackout.NewFeedClient().Fetch(context.Background(), tt.url, "", "")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// TestFeedClient_ContextDeadline gives up on a feed server that never answers.
func TestFeedClient_ContextDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := blackout.NewFeedClient().Fetch(ctx, srv.URL, "", "")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), config.ErrNetwork)
}

// TestFeedClient_MaxBytes stops reading an oversized feed at the cap.
func TestFeedClient_MaxBytes(t *testing.T) {
	srv := newFeedServer(t, holidayFeed)
	client := blackout.NewFeedClient()
	client.MaxBytes = 32

	rc, err := client.Fetch(context.Background(), srv.URL, feedUser, feedPass)
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, holidayFeed[:32], string(body))
}

func TestFeedClient_ZeroValue(t *testing.T) {
	srv := newFeedServer(t, holidayFeed)

	var client blackout.FeedClient
	rc, err := client.Fetch(context.Background(), srv.URL, feedUser, feedPass)
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Len(t, body, len(holidayFeed))
}
