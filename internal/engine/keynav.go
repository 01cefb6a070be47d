package engine

import (
	"strings"
	"time"
)

// Key is an arrow key delivered by the host.
type Key int

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
)

var keyNames = [...]string{"none", "left", "right", "up", "down"}

func (k Key) String() string {
	if k < KeyNone || k > KeyDown {
		return "unknown"
	}
	return keyNames[k]
}

// ParseKey maps a key name to its Key.
func ParseKey(s string) (Key, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, name := range keyNames {
		if i > 0 && name == key {
			return Key(i), true
		}
	}
	return KeyNone, false
}

// SwitchView returns the view an Up or Down granularity switch leads to. Up
// goes Month → Year → Decade → Century → Month, Down goes the other way. Other
// keys leave the view unchanged.
func SwitchView(view View, key Key) View {
	switch key {
	case KeyUp:
		return View(floorMod(int(view)+1, int(Century)+1))
	case KeyDown:
		return View(floorMod(int(view)-1, int(Century)+1))
	}
	return view
}

// keySteps holds the cursor step per view for horizontal and vertical keys, in
// the unit the view steps in (days, months, years, years).
var keySteps = map[View][2]int{
	Month:   {1, 7},
	Year:    {1, 3},
	Decade:  {1, 3},
	Century: {10, 30},
}

// MoveCursor returns the date an arrow key moves cursor to in view. Right to
// left layouts mirror Left and Right. The result is clamped to the calendar's
// supported range; ok is false for keys that do not move the cursor.
//
// In Year, Decade and Century views the cursor first snaps to the start of its
// month, year or decade, unless it sits exactly on a calendar limit.
func (e *Engine) MoveCursor(view View, cursor time.Time, key Key, rtl bool, id Identifier) (time.Time, bool) {
	s := e.table.Resolve(id)

	var step int
	steps := keySteps[view]
	switch key {
	case KeyLeft:
		step = -steps[0]
	case KeyRight:
		step = steps[0]
	case KeyUp:
		step = -steps[1]
	case KeyDown:
		step = steps[1]
	default:
		return cursor, false
	}
	if rtl && (key == KeyLeft || key == KeyRight) {
		step = -step
	}

	cursor = DateOnly(cursor)
	min, max := s.MinSupportedDate(), s.MaxSupportedDate()
	if view != Month && !cursor.Equal(min) && !cursor.Equal(max) {
		cursor = s.Clamp(s.bucketStart(view, cursor))
	}

	var next time.Time
	switch view {
	case Month:
		next = s.AddDays(cursor, step)
	case Year:
		next = s.AddMonths(cursor, step)
	default:
		next = s.AddYears(cursor, step)
	}

	switch {
	case next.Before(min):
		return min, true
	case next.After(max):
		return max, true
	}
	return next, true
}

// bucketStart returns the first day of the cell t occupies in view: the month
// in Year view, the year in Decade view and the decade in Century view.
func (s *System) bucketStart(view View, t time.Time) time.Time {
	y, m, _ := s.Fields(t)
	switch view {
	case Year:
		return s.Date(y, m, 1)
	case Decade:
		return s.Date(y, 1, 1)
	case Century:
		return s.Date(bucketStartYear(Decade, y), 1, 1)
	}
	return t
}

// HandleKey applies a key press to state and returns the resulting view and
// cursor. When switchView is set, Up and Down change granularity instead of
// moving the cursor.
func (e *Engine) HandleKey(state ViewState, cursor time.Time, key Key, switchView bool) (View, time.Time) {
	if switchView && (key == KeyUp || key == KeyDown) {
		return SwitchView(state.View, key), cursor
	}
	next, ok := e.MoveCursor(state.View, cursor, key, state.RightToLeft, state.Calendar)
	if !ok {
		return state.View, cursor
	}
	return state.View, next
}
