package engine

import (
	"time"

	"github.com/tartampluch/go-calnav/internal/config"
)

// VisibleDates builds the window of dates view shows around date.
//
// Month view lists weeks*7 consecutive days. A six-week grid starts on the
// first day of the week containing the first of the month; shorter grids start
// on the week containing date. Year view lists the first day of each month,
// Decade view January 1 of twelve years from the decade start and Century view
// January 1 of twelve decades from the century start.
func (e *Engine) VisibleDates(view View, d time.Time, id Identifier, firstDayOfWeek time.Weekday, weeks int) []time.Time {
	s := e.table.Resolve(id)
	y, m, _ := s.Fields(d)

	switch view {
	case Year:
		dates := make([]time.Time, 0, config.MonthsPerYear)
		for month := 1; month <= config.MonthsPerYear; month++ {
			dates = append(dates, s.Date(y, month, 1))
		}
		return dates
	case Decade, Century:
		step := view.Offset() / config.BucketsPerViewPeriod
		start := bucketStartYear(view, y)
		dates := make([]time.Time, 0, config.VisibleBucketCount)
		for i := 0; i < config.VisibleBucketCount; i++ {
			dates = append(dates, s.Date(start+i*step, 1, 1))
		}
		return dates
	}

	if weeks < config.MinVisibleWeeks || weeks > config.MaxVisibleWeeks {
		weeks = config.MaxVisibleWeeks
	}
	anchor := DateOnly(d)
	if weeks == config.MaxVisibleWeeks {
		anchor = s.Date(y, m, 1)
	}
	back := floorMod(int(anchor.Weekday())-int(firstDayOfWeek), config.DaysPerWeek)
	start := s.AddDays(anchor, -back)

	dates := make([]time.Time, 0, weeks*config.DaysPerWeek)
	for i := 0; i < weeks*config.DaysPerWeek; i++ {
		dates = append(dates, s.AddDays(start, i))
	}
	return dates
}

// VisibleDatesFor builds the window for the effective display date of state.
func (e *Engine) VisibleDatesFor(state ViewState) []time.Time {
	return e.VisibleDates(state.View, e.EffectiveDisplayDate(state), state.Calendar, state.FirstDayOfWeek, state.VisibleWeeks())
}

// ViewStartDate returns the first day of the period of view containing d:
// the month, year, decade or century. The result is clamped to the calendar's
// supported range.
func (e *Engine) ViewStartDate(view View, d time.Time, id Identifier) time.Time {
	s := e.table.Resolve(id)
	y, m, _ := s.Fields(d)
	if view == Month {
		return s.Clamp(s.Date(y, m, 1))
	}
	return s.Clamp(s.Date(bucketStartYear(view, y), 1, 1))
}

// ViewEndDate returns the last day of the period of view containing d, clamped
// like ViewStartDate.
func (e *Engine) ViewEndDate(view View, d time.Time, id Identifier) time.Time {
	s := e.table.Resolve(id)
	y, m, _ := s.Fields(d)
	if view == Month {
		return s.Clamp(s.Date(y, m, s.DaysInMonth(y, m)))
	}
	last := bucketStartYear(view, y) + max(view.Offset(), 1) - 1
	return s.Clamp(s.Date(last, config.MonthsPerYear, s.DaysInMonth(last, config.MonthsPerYear)))
}

// IsLeadingOrTrailing reports whether d belongs to a neighbouring period of
// the window: a day of an adjacent month in a six-week Month grid, or a cell
// past the tenth in Decade and Century views. Year view and partial Month
// grids have no leading or trailing cells.
func (e *Engine) IsLeadingOrTrailing(view View, d time.Time, visibleDates []time.Time, id Identifier) bool {
	if len(visibleDates) == 0 {
		return false
	}
	s := e.table.Resolve(id)
	switch view {
	case Month:
		if len(visibleDates) < fullMonthGridCells {
			return false
		}
		middle := visibleDates[len(visibleDates)/2]
		return !s.isSameDate(Year, d, middle)
	case Decade, Century:
		return s.bucketKey(view, d) != s.bucketKey(view, visibleDates[0])
	}
	return false
}
