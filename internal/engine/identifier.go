package engine

import (
	"strings"
	"time"

	"github.com/tartampluch/go-calnav/internal/config"
)

// Identifier selects the calendar system that governs date arithmetic and bounds.
type Identifier int

const (
	Gregorian Identifier = iota
	Hijri
	Persian
	ThaiBuddhist
	Taiwan
	UmAlQura
	Korean
)

// Identifiers lists every supported calendar system in declaration order.
var Identifiers = []Identifier{Gregorian, Hijri, Persian, ThaiBuddhist, Taiwan, UmAlQura, Korean}

var identifierNames = map[Identifier]string{
	Gregorian:    "gregorian",
	Hijri:        "hijri",
	Persian:      "persian",
	ThaiBuddhist: "thaibuddhist",
	Taiwan:       "taiwan",
	UmAlQura:     "umalqura",
	Korean:       "korean",
}

// String returns the lower-case name used in flags, queries and message keys.
func (id Identifier) String() string {
	if name, ok := identifierNames[id]; ok {
		return name
	}
	return "unknown"
}

// ParseIdentifier maps a calendar name to its Identifier. Matching ignores case,
// spaces, dashes and underscores, so "Thai Buddhist" and "um_al_qura" are accepted.
// The boolean is false for unrecognized names; callers then resolve through the
// table default.
func ParseIdentifier(s string) (Identifier, bool) {
	key := strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	for id, name := range identifierNames {
		if name == key {
			return id, true
		}
	}
	return Gregorian, false
}

// View is the calendar granularity. Month is the most granular.
type View int

const (
	Month View = iota
	Year
	Decade
	Century
)

var viewNames = [...]string{"month", "year", "decade", "century"}

func (v View) String() string {
	if v < Month || v > Century {
		return "unknown"
	}
	return viewNames[v]
}

// ParseView maps a view name to its View.
func ParseView(s string) (View, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, name := range viewNames {
		if name == key {
			return View(i), true
		}
	}
	return Month, false
}

// Offset is the number of years one cell of v spans: 0 for Month, then 1, 10
// and 100.
func (v View) Offset() int {
	switch v {
	case Year:
		return 1
	case Decade:
		return 10
	case Century:
		return 100
	}
	return 0
}

// SelectionMode is the host's selection behaviour.
type SelectionMode int

const (
	Single SelectionMode = iota
	Multiple
	Range
	MultiRange
)

var selectionModeNames = [...]string{"single", "multiple", "range", "multirange"}

func (m SelectionMode) String() string {
	if m < Single || m > MultiRange {
		return "unknown"
	}
	return selectionModeNames[m]
}

// ParseSelectionMode maps a mode name to its SelectionMode.
func ParseSelectionMode(s string) (SelectionMode, bool) {
	key := strings.NewReplacer("-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	for i, name := range selectionModeNames {
		if name == key {
			return SelectionMode(i), true
		}
	}
	return Single, false
}

// RangeSelectionDirection limits which dates may extend an in-progress range.
type RangeSelectionDirection int

const (
	DirectionDefault RangeSelectionDirection = iota
	DirectionBoth
	DirectionForward
	DirectionBackward
	DirectionNone
)

var directionNames = [...]string{"default", "both", "forward", "backward", "none"}

func (d RangeSelectionDirection) String() string {
	if d < DirectionDefault || d > DirectionNone {
		return "unknown"
	}
	return directionNames[d]
}

// ParseDirection maps a direction name to its RangeSelectionDirection.
func ParseDirection(s string) (RangeSelectionDirection, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, name := range directionNames {
		if name == key {
			return RangeSelectionDirection(i), true
		}
	}
	return DirectionDefault, false
}

// WeekRule decides which week of the year is week 1.
type WeekRule int

const (
	// FirstDay starts week 1 on the first day of the year.
	FirstDay WeekRule = iota
	// FirstFullWeek starts week 1 on the first full week of the year.
	FirstFullWeek
	// FirstFourDayWeek starts week 1 on the first week with four or more days
	// in the year.
	FirstFourDayWeek
)

// ViewState is the host-owned record every engine decision reads from. The
// engine never mutates it.
type ViewState struct {
	Calendar Identifier
	View     View

	// NumberOfVisibleWeeks is clamped to 1..6; zero means 6.
	NumberOfVisibleWeeks int

	// MinDate and MaxDate are the configured bounds. nil means no configured
	// bound; the calendar system's own range applies.
	MinDate *time.Time
	MaxDate *time.Time

	DisplayDate time.Time
	Today       time.Time

	EnablePastDates    bool
	SelectionMode      SelectionMode
	SelectionDirection RangeSelectionDirection
	SelectedRange      *DateRange

	AllowViewNavigation         bool
	ShowTrailingAndLeadingDates bool
	RightToLeft                 bool
	FirstDayOfWeek              time.Weekday
	BlackoutDates               []time.Time
}

// VisibleWeeks returns NumberOfVisibleWeeks clamped to 1..6.
func (s ViewState) VisibleWeeks() int {
	if s.NumberOfVisibleWeeks < config.MinVisibleWeeks || s.NumberOfVisibleWeeks > config.MaxVisibleWeeks {
		return config.DefaultVisibleWeeks
	}
	return s.NumberOfVisibleWeeks
}
