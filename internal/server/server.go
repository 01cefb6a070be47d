package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-calnav/internal/config"
	"github.com/tartampluch/go-calnav/internal/engine"
	"github.com/tartampluch/go-calnav/internal/i18n"
)

// blackoutSet is one loaded generation of blackout dates.
type blackoutSet struct {
	dates []time.Time
}

// ViewServer serves view snapshots computed from query parameters.
type ViewServer struct {
	// blackouts uses atomic.Pointer for lock-free reads.
	// Snapshots are requested on every host interaction but blackout dates
	// only change on refresh, so readers never contend with the worker.
	blackouts atomic.Pointer[blackoutSet]
	Port      string

	engine   *engine.Engine
	catalog  *i18n.Catalog
	clock    engine.Clock
	defaults Defaults
}

// NewViewServer creates a new instance of the server. It answers 503 until
// the first Update.
func NewViewServer(port string, eng *engine.Engine, catalog *i18n.Catalog, clock engine.Clock, defaults Defaults) *ViewServer {
	if clock == nil {
		clock = engine.RealClock{}
	}
	return &ViewServer{
		Port:     port,
		engine:   eng,
		catalog:  catalog,
		clock:    clock,
		defaults: defaults,
	}
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *ViewServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return fmt.Errorf(config.ErrPortRequired)
	}

	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteView, s.handleViewRequest)

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      mux,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Update atomically replaces the blackout dates applied to every snapshot.
// A nil slice is a valid, empty generation.
func (s *ViewServer) Update(dates []time.Time) {
	item := &blackoutSet{dates: dates}

	// Any concurrent reader sees either the old or the new complete set.
	s.blackouts.Store(item)

	slog.Debug(config.MsgBlackoutUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyCount, len(dates),
	)
}

// Ready reports whether blackout dates have been loaded at least once.
func (s *ViewServer) Ready() bool {
	return s.blackouts.Load() != nil
}

// handleViewRequest serves a JSON snapshot with ETag caching support.
func (s *ViewServer) handleViewRequest(w http.ResponseWriter, r *http.Request) {
	// 1. Method Validation
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return
	}

	// 2. Readiness Check
	set := s.blackouts.Load()
	if set == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	// 3. Build State
	req, err := parseRequest(r.URL.Query(), s.defaults, engine.Today(s.clock), s.catalog, s.engine.Table())
	if err != nil {
		http.Error(w, config.HTTPMsgBadRequest+": "+err.Error(), http.StatusBadRequest)
		return
	}
	req.state.BlackoutDates = set.dates
	if req.key != engine.KeyNone {
		cursor := s.engine.EffectiveDisplayDate(req.state)
		req.state.View, req.state.DisplayDate = s.engine.HandleKey(req.state, cursor, req.key, req.switchView)
	}

	snap := s.engine.Snapshot(req.state, req.locale, req.locale.Language().String())
	body, err := json.Marshal(snap)
	if err != nil {
		slog.Error(config.ErrEncodeResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	hash := sha256.Sum256(body)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	// 4. Set Response Headers
	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, etag)

	// 5. Check Conditional Headers
	if match := r.Header.Get(config.HeaderIfNoneMatch); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	slog.Debug(config.MsgSnapshotServed,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyCalendar, snap.Calendar,
		config.LogKeyView, snap.View,
		config.LogKeyDate, snap.DisplayDate,
		config.LogKeySizeBytes, len(body),
		config.LogKeyETag, etag,
	)

	// 6. Serve Content
	if r.Method == http.MethodGet {
		if _, err := w.Write(body); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}
