package server

import (
	"cmp"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/tartampluch/go-calnav/internal/config"
	"github.com/tartampluch/go-calnav/internal/engine"
	"github.com/tartampluch/go-calnav/internal/i18n"
)

// Defaults fill the view state for parameters a request leaves out.
type Defaults struct {
	Language       string
	Calendar       string // Empty selects the locale's default calendar.
	Weeks          int
	FirstDayOfWeek time.Weekday
	MinDate        *time.Time // nil leaves the bound unset.
	MaxDate        *time.Time
	DisablePast    bool
	RightToLeft    bool
}

// State returns the Month view state of today the defaults describe, before
// any query parameter applies. Without a configured calendar the locale's
// default calendar is used.
func (d Defaults) State(today time.Time, locale *i18n.Locale, table *engine.Table) engine.ViewState {
	state := engine.ViewState{
		Calendar:                    engine.DefaultCalendarFor(locale.Tag()),
		View:                        engine.Month,
		NumberOfVisibleWeeks:        d.Weeks,
		MinDate:                     d.MinDate,
		MaxDate:                     d.MaxDate,
		DisplayDate:                 today,
		Today:                       today,
		EnablePastDates:             !d.DisablePast,
		AllowViewNavigation:         true,
		ShowTrailingAndLeadingDates: true,
		RightToLeft:                 d.RightToLeft,
		FirstDayOfWeek:              d.FirstDayOfWeek,
	}
	if d.Calendar != "" {
		state.Calendar = table.ResolveName(d.Calendar).Identifier()
	}
	return state
}

// viewRequest is a parsed /view query.
type viewRequest struct {
	state      engine.ViewState
	locale     *i18n.Locale
	key        engine.Key
	switchView bool
}

// parseRequest builds the view state a query describes. Dates use the
// YYYY-MM-DD form; the display date and today default to today.
func parseRequest(q url.Values, d Defaults, today time.Time, catalog *i18n.Catalog, table *engine.Table) (viewRequest, error) {
	locale := catalog.Locale(cmp.Or(q.Get(config.QueryLang), d.Language, config.DefaultLanguage))

	req := viewRequest{
		locale: locale,
		state:  d.State(today, locale, table),
	}
	state := &req.state

	if name := q.Get(config.QueryCalendar); name != "" {
		state.Calendar = table.ResolveName(name).Identifier()
	}

	if v := q.Get(config.QueryView); v != "" {
		view, ok := engine.ParseView(v)
		if !ok {
			return req, fmt.Errorf("%s: %q", config.ErrUnknownView, v)
		}
		state.View = view
	}
	if v := q.Get(config.QueryMode); v != "" {
		mode, ok := engine.ParseSelectionMode(v)
		if !ok {
			return req, fmt.Errorf("%s: %q", config.ErrUnknownMode, v)
		}
		state.SelectionMode = mode
	}
	if v := q.Get(config.QueryDirection); v != "" {
		dir, ok := engine.ParseDirection(v)
		if !ok {
			return req, fmt.Errorf("%s: %q", config.ErrUnknownDir, v)
		}
		state.SelectionDirection = dir
	}
	if v := q.Get(config.QueryKey); v != "" {
		key, ok := engine.ParseKey(v)
		if !ok {
			return req, fmt.Errorf("%s: %q", config.ErrUnknownKey, v)
		}
		req.key = key
	}

	dates := []struct {
		name string
		dst  *time.Time
	}{
		{config.QueryDate, &state.DisplayDate},
		{config.QueryToday, &state.Today},
	}
	for _, p := range dates {
		if err := parseDateParam(q, p.name, p.dst); err != nil {
			return req, err
		}
	}

	bounds := []struct {
		name string
		dst  **time.Time
	}{
		{config.QueryMin, &state.MinDate},
		{config.QueryMax, &state.MaxDate},
	}
	for _, p := range bounds {
		if err := parseBoundParam(q, p.name, p.dst); err != nil {
			return req, err
		}
	}

	var start, end time.Time
	if err := parseDateParam(q, config.QueryStart, &start); err != nil {
		return req, err
	}
	if err := parseDateParam(q, config.QueryEnd, &end); err != nil {
		return req, err
	}
	switch {
	case !start.IsZero() && !end.IsZero():
		r := engine.NewDateRange(start, end)
		state.SelectedRange = &r
	case !start.IsZero():
		r := engine.NewOpenRange(start)
		state.SelectedRange = &r
	case !end.IsZero():
		return req, errors.New(config.ErrRangeNoStart)
	}

	if v := q.Get(config.QueryWeeks); v != "" {
		weeks, err := strconv.Atoi(v)
		if err != nil {
			return req, paramError(config.QueryWeeks, err)
		}
		state.NumberOfVisibleWeeks = weeks
	}
	if v := q.Get(config.QueryFirstDay); v != "" {
		first, err := strconv.Atoi(v)
		if err != nil {
			return req, paramError(config.QueryFirstDay, err)
		}
		if first < 0 || first >= config.DaysPerWeek {
			return req, errors.New(config.ErrWeekday)
		}
		state.FirstDayOfWeek = time.Weekday(first)
	}

	flags := []struct {
		name string
		dst  *bool
	}{
		{config.QueryPast, &state.EnablePastDates},
		{config.QueryNav, &state.AllowViewNavigation},
		{config.QueryLeading, &state.ShowTrailingAndLeadingDates},
		{config.QueryRTL, &state.RightToLeft},
		{config.QuerySwitch, &req.switchView},
	}
	for _, f := range flags {
		v := q.Get(f.name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return req, paramError(f.name, err)
		}
		*f.dst = b
	}

	return req, nil
}

func parseDateParam(q url.Values, name string, dst *time.Time) error {
	v := q.Get(name)
	if v == "" {
		return nil
	}
	t, err := engine.ParseDate(v)
	if err != nil {
		return paramError(name, err)
	}
	*dst = t
	return nil
}

// parseBoundParam replaces *dst with a fresh date when the parameter is set.
func parseBoundParam(q url.Values, name string, dst **time.Time) error {
	if q.Get(name) == "" {
		return nil
	}
	var t time.Time
	if err := parseDateParam(q, name, &t); err != nil {
		return err
	}
	*dst = &t
	return nil
}

func paramError(name string, err error) error {
	return fmt.Errorf("%s %q: %w", config.ErrQueryParam, name, err)
}
