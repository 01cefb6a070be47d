package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/tartampluch/go-calnav/internal/blackout"
	"github.com/tartampluch/go-calnav/internal/config"
)

// BlackoutLoader reads blackout dates from a source. *blackout.Loader
// implements it.
type BlackoutLoader interface {
	Load(ctx context.Context, src blackout.Source) ([]time.Time, error)
}

// RunRefresher manages the periodic blackout reload schedule. It loads src
// once immediately, then on every tick of interval and on every value received
// from trigger, until ctx is cancelled. A failed load keeps the previous dates.
// An interval of zero or less disables the ticker.
func (s *ViewServer) RunRefresher(ctx context.Context, loader BlackoutLoader, src blackout.Source, interval time.Duration, trigger <-chan struct{}) {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	s.refresh(ctx, loader, src)

	var tick <-chan time.Time
	if interval > config.DisabledInterval {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	log.Info(config.MsgWorkerStart, config.LogKeyInterval, interval)

	for {
		select {
		case <-ctx.Done():
			log.Info(config.MsgWorkerStop)
			return

		case <-trigger:
			s.refresh(ctx, loader, src)

		case <-tick:
			s.refresh(ctx, loader, src)
		}
	}
}

// refresh executes one load and publishes its result.
func (s *ViewServer) refresh(ctx context.Context, loader BlackoutLoader, src blackout.Source) {
	dates, err := loader.Load(ctx, src)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Error(config.MsgLoadFailed,
			config.LogKeyComponent, config.CompWorker,
			config.LogKeyMode, src.Mode,
			config.LogKeyError, err,
		)
		return
	}
	s.Update(dates)
}
