package engine

import (
	"time"

	"github.com/tartampluch/go-calnav/internal/config"
)

// WeekNumber returns the week of the year of d. Gregorian dates use ISO 8601
// numbering; the other calendars count weeks from the first day of their own
// year, starting on firstDayOfWeek.
func (e *Engine) WeekNumber(d time.Time, id Identifier, firstDayOfWeek time.Weekday) int {
	s := e.table.Resolve(id)
	if s.Identifier() != Gregorian {
		return s.WeekOfYear(d, FirstDay, firstDayOfWeek)
	}
	return ISOWeekNumber(d)
}

// ISOWeekNumber returns the week of d as (dayOfYear - isoWeekday + 10) / 7.
// A result of zero belongs to the previous year and becomes 53 when that year
// is a leap year, 52 otherwise. Late December days keep the raw value, so they
// may read 53 where strict ISO 8601 would say week 1 of the next year.
func ISOWeekNumber(d time.Time) int {
	d = DateOnly(d)
	weekday := int(d.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	week := (d.YearDay() - weekday + 10) / 7
	if week >= 1 {
		return week
	}
	if isLeap(d.Year() - 1) {
		return 53
	}
	return 52
}

// MidWeekIndex returns the index of the first date in dates whose weekday is
// the midpoint of a week starting on firstDayOfWeek, or -1 if there is none.
// Looking up week numbers from the midpoint keeps a row of a month grid in one
// ISO week even when the row starts on a different weekday.
func MidWeekIndex(dates []time.Time, firstDayOfWeek time.Weekday) int {
	mid := time.Weekday(floorMod(int(firstDayOfWeek)+3, config.DaysPerWeek))
	for i, d := range dates {
		if DateOnly(d).Weekday() == mid {
			return i
		}
	}
	return -1
}

// WeekNumbers returns one week number per row of a Month view window.
func (e *Engine) WeekNumbers(visibleDates []time.Time, id Identifier, firstDayOfWeek time.Weekday) []int {
	rows := len(visibleDates) / config.DaysPerWeek
	weeks := make([]int, 0, rows)
	for r := 0; r < rows; r++ {
		row := visibleDates[r*config.DaysPerWeek : (r+1)*config.DaysPerWeek]
		i := MidWeekIndex(row, firstDayOfWeek)
		if i < 0 {
			i = 0
		}
		weeks = append(weeks, e.WeekNumber(row[i], id, firstDayOfWeek))
	}
	return weeks
}
