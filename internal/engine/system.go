package engine

import (
	"log/slog"
	"time"

	"github.com/tartampluch/go-calnav/internal/config"
	"golang.org/x/text/language"
)

const secondsPerDay = 24 * 60 * 60

// DateOnly strips the clock from t, keeping the calendar date t has in its own
// location. The result is midnight UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dayNumber counts days since 1970-01-01 for the date part of t.
func dayNumber(t time.Time) int {
	return int(DateOnly(t).Unix() / secondsPerDay)
}

func fromDayNumber(n int) time.Time {
	return time.Unix(int64(n)*secondsPerDay, 0).UTC()
}

// floorDiv and floorMod round towards negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}

// core is the field arithmetic of one calendar system. Day numbers count days
// since 1970-01-01.
type core interface {
	fields(n int) (year, month, day int)
	days(year, month, day int) int
	daysInMonth(year, month int) int
	daysInYear(year int) int
}

// System is a resolved calendar system. It holds no mutable state and is safe
// for concurrent use.
type System struct {
	id   Identifier
	core core
	min  int
	max  int
}

func newSystem(id Identifier, c core, min, max time.Time) *System {
	return &System{id: id, core: c, min: dayNumber(min), max: dayNumber(max)}
}

// Identifier returns the calendar identifier s was built for.
func (s *System) Identifier() Identifier { return s.id }

// MinSupportedDate returns the earliest date s can represent.
func (s *System) MinSupportedDate() time.Time { return fromDayNumber(s.min) }

// MaxSupportedDate returns the latest date s can represent.
func (s *System) MaxSupportedDate() time.Time { return fromDayNumber(s.max) }

// IsSupported reports whether t lies within the supported range of s.
func (s *System) IsSupported(t time.Time) bool {
	n := dayNumber(t)
	return n >= s.min && n <= s.max
}

// Clamp returns the date part of t moved into the supported range of s.
func (s *System) Clamp(t time.Time) time.Time {
	n := dayNumber(t)
	switch {
	case n < s.min:
		return fromDayNumber(s.min)
	case n > s.max:
		return fromDayNumber(s.max)
	}
	return fromDayNumber(n)
}

// Fields decomposes t into year, month and day of s.
func (s *System) Fields(t time.Time) (year, month, day int) {
	return s.core.fields(dayNumber(t))
}

// Year returns the calendar year of t.
func (s *System) Year(t time.Time) int {
	y, _, _ := s.Fields(t)
	return y
}

// Month returns the calendar month of t, 1-based.
func (s *System) Month(t time.Time) int {
	_, m, _ := s.Fields(t)
	return m
}

// Day returns the day of month of t.
func (s *System) Day(t time.Time) int {
	_, _, d := s.Fields(t)
	return d
}

// DayOfYear returns the 1-based day of the calendar year of t.
func (s *System) DayOfYear(t time.Time) int {
	n := dayNumber(t)
	y, _, _ := s.core.fields(n)
	return n - s.core.days(y, 1, 1) + 1
}

// DayOfWeek returns the weekday of t. Weekdays do not depend on the calendar.
func (s *System) DayOfWeek(t time.Time) time.Weekday {
	return DateOnly(t).Weekday()
}

// DaysInMonth returns the length of month in year.
func (s *System) DaysInMonth(year, month int) int {
	year, month = normMonth(year, month)
	return s.core.daysInMonth(year, month)
}

// DaysInYear returns the length of year.
func (s *System) DaysInYear(year int) int {
	return s.core.daysInYear(year)
}

// Date returns the date of year, month and day in s. Months outside 1..12 roll
// the year; the day is clamped to the month length.
func (s *System) Date(year, month, day int) time.Time {
	year, month = normMonth(year, month)
	if dim := s.core.daysInMonth(year, month); day > dim {
		day = dim
	}
	if day < 1 {
		day = 1
	}
	return fromDayNumber(s.core.days(year, month, day))
}

// AddDays returns t moved by n days.
func (s *System) AddDays(t time.Time, n int) time.Time {
	return fromDayNumber(dayNumber(t) + n)
}

// AddMonths returns t moved by n calendar months. A day that does not exist in
// the target month is clamped to its last day.
func (s *System) AddMonths(t time.Time, n int) time.Time {
	y, m, d := s.Fields(t)
	return s.Date(y, m+n, d)
}

// AddYears returns t moved by n calendar years, clamping the day like AddMonths.
func (s *System) AddYears(t time.Time, n int) time.Time {
	y, m, d := s.Fields(t)
	return s.Date(y+n, m, d)
}

// WeekOfYear returns the week of the calendar year t falls in under rule, with
// weeks starting on first.
func (s *System) WeekOfYear(t time.Time, rule WeekRule, first time.Weekday) int {
	doy := s.DayOfYear(t) - 1
	startDay := floorMod(int(s.DayOfWeek(t))-doy, config.DaysPerWeek)
	// Days of the week containing the first day of the year that precede it.
	lead := floorMod(startDay-int(first), config.DaysPerWeek)

	if rule == FirstDay {
		return (doy+lead)/config.DaysPerWeek + 1
	}

	start := floorMod(config.DaysPerWeek-lead, config.DaysPerWeek)
	if rule == FirstFourDayWeek && lead > 0 && lead < 4 {
		start = -lead
	}
	if doy >= start {
		return (doy-start)/config.DaysPerWeek + 1
	}
	// The date belongs to the last week of the previous year.
	return s.WeekOfYear(s.AddDays(t, -(doy+1)), rule, first)
}

func normMonth(year, month int) (int, int) {
	m := month - 1
	year += floorDiv(m, config.MonthsPerYear)
	return year, floorMod(m, config.MonthsPerYear) + 1
}

// Table is the immutable set of calendar systems, built once and shared.
type Table struct {
	systems  map[Identifier]*System
	fallback Identifier
}

// NewTable builds every supported calendar system. Unknown identifiers resolve
// to fallback, which itself falls back to Gregorian when out of range.
func NewTable(fallback Identifier) *Table {
	t := &Table{
		systems: map[Identifier]*System{
			Gregorian:    newGregorianSystem(Gregorian, 0, ymd(1, 1, 1)),
			ThaiBuddhist: newGregorianSystem(ThaiBuddhist, thaiBuddhistYearOffset, ymd(1, 1, 1)),
			Korean:       newGregorianSystem(Korean, koreanYearOffset, ymd(1, 1, 1)),
			Taiwan:       newGregorianSystem(Taiwan, taiwanYearOffset, ymd(1912, 1, 1)),
			Hijri:        newHijriSystem(Hijri, hijriEpoch, ymd(9999, 12, 31)),
			UmAlQura:     newHijriSystem(UmAlQura, ymd(1900, 4, 30), ymd(2077, 11, 15)),
			Persian:      newPersianSystem(),
		},
		fallback: fallback,
	}
	if _, ok := t.systems[fallback]; !ok {
		t.fallback = Gregorian
	}
	return t
}

// Default returns the identifier unknown calendars resolve to.
func (t *Table) Default() Identifier { return t.fallback }

// Resolve returns the calendar system for id, or the table default when id is
// not a known identifier.
func (t *Table) Resolve(id Identifier) *System {
	if s, ok := t.systems[id]; ok {
		return s
	}
	slog.Debug(config.MsgCalendarFallback,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyCalendar, int(id),
	)
	return t.systems[t.fallback]
}

// ResolveName parses name and resolves it, using the table default for
// unrecognized names.
func (t *Table) ResolveName(name string) *System {
	id, ok := ParseIdentifier(name)
	if !ok {
		slog.Debug(config.MsgCalendarFallback,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyCalendar, name,
		)
		id = t.fallback
	}
	return t.Resolve(id)
}

// localeCalendars maps BCP 47 "ca" extension values to identifiers.
var localeCalendars = map[string]Identifier{
	"gregory":          Gregorian,
	"islamic":          Hijri,
	"islamic-civil":    Hijri,
	"islamic-tbla":     Hijri,
	"islamic-umalqura": UmAlQura,
	"persian":          Persian,
	"buddhist":         ThaiBuddhist,
	"roc":              Taiwan,
	"dangi":            Korean,
}

// DefaultCalendarFor returns the calendar a locale uses by default. An explicit
// "-u-ca-" extension wins; otherwise Thai, Persian and Saudi locales get their
// national calendar and everything else is Gregorian.
func DefaultCalendarFor(tag language.Tag) Identifier {
	if ca := tag.TypeForKey("ca"); ca != "" {
		if id, ok := localeCalendars[ca]; ok {
			return id
		}
	}
	base, _ := tag.Base()
	region, _ := tag.Region()
	switch {
	case base.String() == "th":
		return ThaiBuddhist
	case base.String() == "fa" || region.String() == "IR":
		return Persian
	case base.String() == "ar" && region.String() == "SA":
		return UmAlQura
	}
	return Gregorian
}

func ymd(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
