package engine

import (
	"time"

	"github.com/tartampluch/go-calnav/internal/config"
)

// fullMonthGridCells is the size of a six-week month grid.
const fullMonthGridCells = config.MaxVisibleWeeks * config.DaysPerWeek

// CanNavigateNext reports whether the view after visibleDates still contains
// a date on or before maxDate. A maxDate outside the calendar's range stands
// for the calendar's own limit. An empty window cannot navigate.
//
// In a full six-week Month grid the middle cell identifies the month on
// display, so leading and trailing cells do not count. Partial grids compare
// their last cell with the bound. Year, Decade and Century views compare the
// bucket that follows the current one with the bucket containing the bound.
func (e *Engine) CanNavigateNext(visibleDates []time.Time, view View, numberOfVisibleWeeks int, maxDate time.Time, id Identifier) bool {
	if len(visibleDates) == 0 {
		return false
	}
	s := e.table.Resolve(id)
	max := s.boundOr(&maxDate, s.MaxSupportedDate())

	if view == Month {
		if isFullMonthGrid(visibleDates, numberOfVisibleWeeks) {
			middle := visibleDates[len(visibleDates)/2]
			return s.bucketKey(Year, middle) < s.bucketKey(Year, max)
		}
		last := visibleDates[len(visibleDates)-1]
		return dayNumber(last) < dayNumber(max)
	}

	offset := view.Offset()
	current := bucketStartYear(view, s.Year(visibleDates[0]))
	return current+offset <= bucketStartYear(view, s.Year(max))
}

// CanNavigatePrevious mirrors CanNavigateNext against minDate.
func (e *Engine) CanNavigatePrevious(visibleDates []time.Time, view View, numberOfVisibleWeeks int, minDate time.Time, id Identifier) bool {
	if len(visibleDates) == 0 {
		return false
	}
	s := e.table.Resolve(id)
	min := s.boundOr(&minDate, s.MinSupportedDate())

	if view == Month {
		if isFullMonthGrid(visibleDates, numberOfVisibleWeeks) {
			middle := visibleDates[len(visibleDates)/2]
			return s.bucketKey(Year, middle) > s.bucketKey(Year, min)
		}
		first := visibleDates[0]
		return dayNumber(first) > dayNumber(min)
	}

	offset := view.Offset()
	current := bucketStartYear(view, s.Year(visibleDates[0]))
	return current-offset >= bucketStartYear(view, s.Year(min))
}

// isFullMonthGrid reports whether the middle-cell heuristic applies. A window
// that was generated for fewer weeks than currently configured is treated as
// a partial grid.
func isFullMonthGrid(visibleDates []time.Time, numberOfVisibleWeeks int) bool {
	return numberOfVisibleWeeks >= config.MaxVisibleWeeks && len(visibleDates) >= fullMonthGridCells
}

// CanNavigate evaluates both directions for state and its visible window
// against the effective bounds.
func (e *Engine) CanNavigate(state ViewState, visibleDates []time.Time) (next, previous bool) {
	weeks := state.VisibleWeeks()
	min, max := e.EffectiveBounds(state.Calendar, state.MinDate, state.MaxDate)
	next = e.CanNavigateNext(visibleDates, state.View, weeks, max, state.Calendar)
	previous = e.CanNavigatePrevious(visibleDates, state.View, weeks, min, state.Calendar)
	return next, previous
}
