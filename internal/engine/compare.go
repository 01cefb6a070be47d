package engine

import "time"

// IsSameDate reports whether a and b fall into the same cell of view: the same
// day in Month view, the same month in Year view, the same decade in Decade
// view and the same century in Century view. Equal dates are always the same;
// otherwise a date outside the calendar's supported range matches nothing.
func (e *Engine) IsSameDate(view View, a, b time.Time, id Identifier) bool {
	return e.table.Resolve(id).isSameDate(view, a, b)
}

func (s *System) isSameDate(view View, a, b time.Time) bool {
	if DateOnly(a).Equal(DateOnly(b)) {
		return true
	}
	if !s.IsSupported(a) || !s.IsSupported(b) {
		return false
	}
	if view == Month {
		return dayNumber(a) == dayNumber(b)
	}
	return s.bucketKey(view, a) == s.bucketKey(view, b)
}

// isSameOptional extends isSameDate to absent dates: two absent dates are the
// same, an absent and a present date are not.
func (s *System) isSameOptional(view View, a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return s.isSameDate(view, *a, *b)
}

// IsGreaterDate reports whether a is chronologically after b at the
// granularity of view. When either date is unsupported the raw dates are
// compared.
func (e *Engine) IsGreaterDate(a time.Time, view View, b time.Time, id Identifier) bool {
	return e.table.Resolve(id).isGreaterDate(a, view, b)
}

func (s *System) isGreaterDate(a time.Time, view View, b time.Time) bool {
	if !s.IsSupported(a) || !s.IsSupported(b) || view == Month {
		return dayNumber(a) > dayNumber(b)
	}
	return s.bucketKey(view, a) > s.bucketKey(view, b)
}

// bucketKey orders dates by the cell of view they fall into. Year view keys
// are year*12+month so that (year, month) compares lexicographically.
func (s *System) bucketKey(view View, t time.Time) int {
	y, m, _ := s.Fields(t)
	switch view {
	case Year:
		return y*12 + m - 1
	case Decade:
		return floorDiv(y, 10)
	case Century:
		return floorDiv(y, 100)
	}
	return dayNumber(t)
}

// bucketStartYear returns the first year of the decade or century containing
// year. Year and Month views return year itself.
func bucketStartYear(view View, year int) int {
	if off := view.Offset(); off > 1 {
		return floorDiv(year, off) * off
	}
	return year
}
