package engine

import "time"

// IsDisabled reports whether d cannot be interacted with in the current view:
// it lies outside the effective bounds, it is in the past while past dates are
// disabled, or it is on the wrong side of the range being selected.
//
// Range direction rules apply to Range selection in Month view, and in the
// other views only when the host does not use them for drill-down navigation.
func (e *Engine) IsDisabled(d time.Time, state ViewState) bool {
	s := e.table.Resolve(state.Calendar)
	view := state.View
	min, max := s.effectiveBounds(state.MinDate, state.MaxDate)

	disabled := s.isOutOfBounds(view, d, min, max)
	if !disabled && !state.EnablePastDates {
		disabled = s.isPast(view, d, state.Today)
	}

	if disabled || state.SelectionMode != Range || (view != Month && state.AllowViewNavigation) {
		return disabled
	}
	return s.isDirectionDisabled(view, d, state.SelectionDirection, state.SelectedRange)
}

// isOutOfBounds compares d with the bounds at the granularity of view: days in
// Month view, (year, month) in Year view, years in Decade view and decades in
// Century view.
func (s *System) isOutOfBounds(view View, d, min, max time.Time) bool {
	key, lo, hi := s.cellKey(view, d), s.cellKey(view, min), s.cellKey(view, max)
	return key < lo || key > hi
}

func (s *System) isPast(view View, d, today time.Time) bool {
	if today.IsZero() {
		return false
	}
	return s.cellKey(view, d) < s.cellKey(view, today)
}

// cellKey orders dates by the cell they occupy in view. Unlike bucketKey it
// treats Decade cells as years and Century cells as decades.
func (s *System) cellKey(view View, t time.Time) int {
	switch view {
	case Decade:
		return s.Year(t)
	case Century:
		return floorDiv(s.Year(t), 10)
	}
	return s.bucketKey(view, t)
}

func (s *System) isDirectionDisabled(view View, d time.Time, direction RangeSelectionDirection, selected *DateRange) bool {
	if selected == nil || selected.StartDate == nil {
		return false
	}
	start := *selected.StartDate
	end := *selected.end()

	switch direction {
	case DirectionForward:
		return s.isGreaterDate(start, view, d)
	case DirectionBackward:
		return s.isGreaterDate(d, view, end)
	case DirectionNone:
		if s.isSameDate(view, start, end) {
			return false
		}
		return !s.isInBetween(view, *selected, d)
	}
	return false
}

// IsBlackoutDate reports whether d is one of blackouts.
func IsBlackoutDate(d time.Time, blackouts []time.Time) bool {
	n := dayNumber(d)
	for _, b := range blackouts {
		if dayNumber(b) == n {
			return true
		}
	}
	return false
}

// IsInteractionDisabled combines IsDisabled with the blackout list and, when
// leading and trailing dates are hidden, with their suppression. Blackouts only
// apply to Month view cells.
func (e *Engine) IsInteractionDisabled(d time.Time, state ViewState, visibleDates []time.Time) bool {
	if e.IsDisabled(d, state) {
		return true
	}
	if state.View == Month && IsBlackoutDate(d, state.BlackoutDates) {
		return true
	}
	if !state.ShowTrailingAndLeadingDates && e.IsLeadingOrTrailing(state.View, d, visibleDates, state.Calendar) {
		return true
	}
	return false
}

// isSameCell is isSameDate at cell granularity: the same year in Decade view
// and the same decade in Century view.
func (s *System) isSameCell(view View, a, b time.Time) bool {
	if DateOnly(a).Equal(DateOnly(b)) {
		return true
	}
	if !s.IsSupported(a) || !s.IsSupported(b) {
		return false
	}
	return s.cellKey(view, a) == s.cellKey(view, b)
}

// isCellSelected reports whether the cell of view holding d overlaps r.
func (s *System) isCellSelected(view View, r DateRange, d time.Time) bool {
	if r.StartDate == nil || !s.IsSupported(d) {
		return false
	}
	lo, hi := s.cellKey(view, *r.StartDate), s.cellKey(view, *r.end())
	if lo > hi {
		lo, hi = hi, lo
	}
	key := s.cellKey(view, d)
	return key >= lo && key <= hi
}
