package engine

import "time"

// Engine answers calendar navigation and selection questions. It holds only
// the immutable calendar table, so one Engine can be shared by any number of
// goroutines.
type Engine struct {
	table *Table
}

// New returns an Engine over table.
func New(table *Table) *Engine {
	return &Engine{table: table}
}

// NewDefault returns an Engine whose unknown identifiers resolve to Gregorian.
func NewDefault() *Engine {
	return New(NewTable(Gregorian))
}

// Calendar resolves id through the engine's table.
func (e *Engine) Calendar(id Identifier) *System {
	return e.table.Resolve(id)
}

// Table returns the calendar table the engine resolves through.
func (e *Engine) Table() *Table {
	return e.table
}

// IsSupportedDate reports whether min <= d <= max, comparing dates only.
func IsSupportedDate(d, min, max time.Time) bool {
	n := dayNumber(d)
	return n >= dayNumber(min) && n <= dayNumber(max)
}

// EffectiveBounds nests the configured bounds inside the calendar's supported
// range. A nil bound, or one the calendar cannot represent, is replaced by the
// calendar's own limit.
func (e *Engine) EffectiveBounds(id Identifier, min, max *time.Time) (time.Time, time.Time) {
	s := e.table.Resolve(id)
	return s.effectiveBounds(min, max)
}

func (s *System) effectiveBounds(min, max *time.Time) (time.Time, time.Time) {
	return s.boundOr(min, s.MinSupportedDate()), s.boundOr(max, s.MaxSupportedDate())
}

// boundOr returns the date part of bound when it is set and supported, and
// limit otherwise.
func (s *System) boundOr(bound *time.Time, limit time.Time) time.Time {
	if bound == nil || !s.IsSupported(*bound) {
		return limit
	}
	return DateOnly(*bound)
}

// EffectiveDisplayDate clamps the display date of state into its effective
// bounds.
func (e *Engine) EffectiveDisplayDate(state ViewState) time.Time {
	min, max := e.EffectiveBounds(state.Calendar, state.MinDate, state.MaxDate)
	d := DateOnly(state.DisplayDate)
	switch {
	case d.Before(min):
		return min
	case d.After(max):
		return max
	}
	return d
}
