package engine

import "time"

// DateRange is a selected range. A nil EndDate compares as StartDate.
type DateRange struct {
	StartDate *time.Time
	EndDate   *time.Time
}

// NewDateRange returns a range over copies of start and end.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{StartDate: &start, EndDate: &end}
}

// NewOpenRange returns a range with a start and no end yet.
func NewOpenRange(start time.Time) DateRange {
	return DateRange{StartDate: &start}
}

// Clone returns a range whose dates do not alias r.
func (r DateRange) Clone() DateRange {
	var c DateRange
	if r.StartDate != nil {
		start := *r.StartDate
		c.StartDate = &start
	}
	if r.EndDate != nil {
		end := *r.EndDate
		c.EndDate = &end
	}
	return c
}

// end returns the effective end of r.
func (r DateRange) end() *time.Time {
	if r.EndDate == nil {
		return r.StartDate
	}
	return r.EndDate
}

// normalized returns the start and effective end of r ordered so that start is
// not after end at the granularity of view. ok is false when r has no start.
func (s *System) normalized(view View, r DateRange) (start, end time.Time, ok bool) {
	if r.StartDate == nil {
		return time.Time{}, time.Time{}, false
	}
	start, end = *r.StartDate, *r.end()
	if s.isGreaterDate(start, view, end) {
		start, end = end, start
	}
	return start, end, true
}

// IsSameRange reports whether a and b cover the same cells of view. Ranges are
// unordered pairs: {A, B} is the same range as {B, A}.
func (e *Engine) IsSameRange(view View, a, b DateRange, id Identifier) bool {
	return e.table.Resolve(id).isSameRange(view, a, b)
}

func (s *System) isSameRange(view View, a, b DateRange) bool {
	aStart, aEnd := a.StartDate, a.end()
	bStart, bEnd := b.StartDate, b.end()
	if s.isSameOptional(view, aStart, bStart) && s.isSameOptional(view, aEnd, bEnd) {
		return true
	}
	return s.isSameOptional(view, aStart, bEnd) && s.isSameOptional(view, aEnd, bStart)
}

// AreSameRanges compares two range collections position by position.
func (e *Engine) AreSameRanges(view View, a, b []DateRange, id Identifier) bool {
	if len(a) != len(b) {
		return false
	}
	s := e.table.Resolve(id)
	for i := range a {
		if !s.isSameRange(view, a[i], b[i]) {
			return false
		}
	}
	return true
}

// AreSameDates compares two date collections position by position at the
// granularity of view.
func (e *Engine) AreSameDates(view View, a, b []time.Time, id Identifier) bool {
	if len(a) != len(b) {
		return false
	}
	s := e.table.Resolve(id)
	for i := range a {
		if !s.isSameDate(view, a[i], b[i]) {
			return false
		}
	}
	return true
}

// AreRangesIntercept reports whether candidate overlaps existing: they share
// an endpoint, either candidate endpoint lies strictly inside existing, or
// existing lies inside candidate. Ranges without a start never intercept.
func (e *Engine) AreRangesIntercept(view View, existing, candidate DateRange, id Identifier) bool {
	s := e.table.Resolve(id)
	eStart, eEnd, ok := s.normalized(view, existing)
	if !ok {
		return false
	}
	cStart, cEnd, ok := s.normalized(view, candidate)
	if !ok {
		return false
	}

	if s.isSameDate(view, eStart, cStart) || s.isSameDate(view, eStart, cEnd) ||
		s.isSameDate(view, eEnd, cStart) || s.isSameDate(view, eEnd, cEnd) {
		return true
	}
	strictlyInside := func(d, start, end time.Time) bool {
		return s.isGreaterDate(d, view, start) && s.isGreaterDate(end, view, d)
	}
	switch {
	case strictlyInside(cStart, eStart, eEnd):
		return true
	case strictlyInside(cEnd, eStart, eEnd):
		return true
	}
	return s.isGreaterDate(eStart, view, cStart) && s.isGreaterDate(cEnd, view, eEnd)
}

// IsDateInBetweenRanges reports whether d falls on or between the endpoints of
// r at the granularity of view.
func (e *Engine) IsDateInBetweenRanges(view View, r DateRange, d time.Time, id Identifier) bool {
	return e.table.Resolve(id).isInBetween(view, r, d)
}

// IsInBetweenSelectedRange reports whether d falls on or between the endpoints
// of any of ranges.
func (e *Engine) IsInBetweenSelectedRange(view View, ranges []DateRange, d time.Time, id Identifier) bool {
	s := e.table.Resolve(id)
	for _, r := range ranges {
		if s.isInBetween(view, r, d) {
			return true
		}
	}
	return false
}

func (s *System) isInBetween(view View, r DateRange, d time.Time) bool {
	start, end, ok := s.normalized(view, r)
	if !ok {
		return false
	}
	if s.isSameDate(view, start, d) || s.isSameDate(view, end, d) {
		return true
	}
	return s.isGreaterDate(d, view, start) && s.isGreaterDate(end, view, d)
}

// CloneRanges deep-copies ranges so a host can keep a snapshot of the previous
// selection without aliasing the current one.
func CloneRanges(ranges []DateRange) []DateRange {
	if ranges == nil {
		return nil
	}
	out := make([]DateRange, len(ranges))
	for i, r := range ranges {
		out[i] = r.Clone()
	}
	return out
}
