// Package blackout loads the dates a host wants to make unselectable from an
// iCalendar source. Every VEVENT blacks out the days it covers; recurring
// events are expanded around today.
package blackout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"slices"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-calnav/internal/config"
	"github.com/tartampluch/go-calnav/internal/engine"
)

// Source contains all parameters required to read a blackout feed.
type Source struct {
	Mode      string // config.SourceModeLocal or config.SourceModeWeb
	LocalPath string // Path to the .ics file
	WebURL    string // CalDAV or plain HTTP feed URL
	WebUser   string // HTTP Basic Auth Username
	WebPass   string // HTTP Basic Auth Password
}

// SourceFor builds a Source from a location that is either an http(s) URL or
// a file path. Credentials only apply to URLs.
func SourceFor(location, user, pass string) Source {
	if u, err := url.Parse(location); err == nil && (u.Scheme == config.SchemeHTTP || u.Scheme == config.SchemeHTTPS) {
		return Source{
			Mode:    config.SourceModeWeb,
			WebURL:  location,
			WebUser: user,
			WebPass: pass,
		}
	}
	return Source{Mode: config.SourceModeLocal, LocalPath: location}
}

// Loader reads blackout dates from a Source.
type Loader struct {
	Clock   engine.Clock // Anchors the recurrence expansion window.
	Fetcher Fetcher      // Required for config.SourceModeWeb.
}

// Load reads src and returns the sorted, de-duplicated blackout dates as
// date-only values.
func (l *Loader) Load(ctx context.Context, src Source) ([]time.Time, error) {
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompBlackout,
		config.LogKeyMode, src.Mode,
	)
	log.InfoContext(ctx, config.MsgLoadStarted)

	reader, err := l.acquireStream(ctx, src)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w", config.ErrSourceOpen, err)
	}
	defer func() { _ = reader.Close() }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dates, events, err := l.parse(ctx, reader)
	if err != nil {
		return nil, err
	}

	log.Info(config.MsgLoadFinished,
		config.LogKeyEvents, events,
		config.LogKeyCount, len(dates),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return dates, nil
}

// acquireStream opens the appropriate data source based on configuration.
func (l *Loader) acquireStream(ctx context.Context, src Source) (io.ReadCloser, error) {
	switch src.Mode {
	case config.SourceModeLocal:
		if src.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return os.Open(src.LocalPath)
	case config.SourceModeWeb:
		if src.WebURL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if l.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return l.Fetcher.Fetch(ctx, src.WebURL, src.WebUser, src.WebPass)
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, src.Mode)
	}
}

func (l *Loader) clock() engine.Clock {
	if l.Clock == nil {
		return engine.RealClock{}
	}
	return l.Clock
}

// parse decodes every calendar in r. A decoding error aborts the load since
// the stream position is lost; events without a usable start are skipped.
func (l *Loader) parse(ctx context.Context, r io.Reader) ([]time.Time, int, error) {
	today := engine.Today(l.clock())
	from := today.AddDate(-config.RecurrenceYearsBack, 0, 0)
	to := today.AddDate(config.RecurrenceYearsAhead, 0, 0)

	seen := make(map[time.Time]struct{})
	events := 0

	dec := ical.NewDecoder(r)
	for {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		cal, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", config.ErrICalParse, err)
		}

		list := cal.Events()
		for i := range list {
			events++
			for _, d := range eventDates(&list[i], from, to) {
				seen[d] = struct{}{}
			}
		}
	}

	dates := make([]time.Time, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	slices.SortFunc(dates, func(a, b time.Time) int { return a.Compare(b) })
	return dates, events, nil
}

// eventDates lists the days event covers. Recurring events contribute every
// occurrence that starts between from and to.
func eventDates(event *ical.Event, from, to time.Time) []time.Time {
	uid, _ := event.Props.Text(ical.PropUID)
	log := slog.With(
		config.LogKeyComponent, config.CompBlackout,
		config.LogKeyUID, uid,
	)

	start, err := event.DateTimeStart(time.UTC)
	if err != nil || start.IsZero() {
		log.Debug(config.MsgSkippedEvent, config.LogKeyError, err)
		return nil
	}
	end, err := event.DateTimeEnd(time.UTC)
	if err != nil {
		end = time.Time{}
	}

	span := spanDays(start, end)
	if span > config.MaxBlackoutDays {
		log.Warn(config.MsgEventTruncated, config.LogKeyCount, span)
		span = config.MaxBlackoutDays
	}

	starts := []time.Time{start}
	set, err := event.RecurrenceSet(time.UTC)
	switch {
	case err != nil:
		log.Warn(config.MsgRecurrenceFail, config.LogKeyError, err)
	case set != nil:
		starts = set.Between(from, to, true)
	}

	dates := make([]time.Time, 0, len(starts)*span)
	for _, s := range starts {
		first := engine.DateOnly(s)
		for i := 0; i < span; i++ {
			dates = append(dates, first.AddDate(0, 0, i))
		}
	}
	return dates
}

// spanDays counts the days between start and the exclusive end. An end at
// midnight does not cover its own day; a missing or inverted end covers the
// start day only.
func spanDays(start, end time.Time) int {
	if end.IsZero() || !end.After(start) {
		return 1
	}
	first, last := engine.DateOnly(start), engine.DateOnly(end)
	if end.Equal(time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location())) {
		last = last.AddDate(0, 0, -1)
	}
	n := int(last.Sub(first)/(24*time.Hour)) + 1
	return max(n, 1)
}
