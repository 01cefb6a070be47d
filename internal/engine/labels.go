package engine

import (
	"strconv"
	"time"

	"github.com/tartampluch/go-calnav/internal/config"
)

// Messages translates label keys. *i18n.Locale implements it.
type Messages interface {
	Msg(key string) string
	Format(key string, data map[string]any) string
}

// family returns the month-name table a calendar uses.
func family(id Identifier) string {
	switch id {
	case Hijri, UmAlQura:
		return config.FamilyHijri
	case Persian:
		return config.FamilyPersian
	}
	return config.FamilyGregorian
}

// MonthName returns the full name of month in the calendar family of id.
func MonthName(msgs Messages, id Identifier, month int) string {
	return msgs.Msg(config.TKeyPrefixMonth + family(id) + "_" + strconv.Itoa(month))
}

// MonthAbbreviation returns the abbreviated name of month.
func MonthAbbreviation(msgs Messages, id Identifier, month int) string {
	return msgs.Msg(config.TKeyPrefixMonthAbb + family(id) + "_" + strconv.Itoa(month))
}

// WeekdayName returns the full name of weekday.
func WeekdayName(msgs Messages, weekday time.Weekday) string {
	return msgs.Msg(config.TKeyPrefixWeekday + strconv.Itoa(int(weekday)))
}

// WeekdayAbbreviation returns the abbreviated name of weekday.
func WeekdayAbbreviation(msgs Messages, weekday time.Weekday) string {
	return msgs.Msg(config.TKeyPrefixWeekAbb + strconv.Itoa(int(weekday)))
}

// WeekdayHeaders returns the seven abbreviated weekday names of a Month grid,
// starting on first.
func WeekdayHeaders(msgs Messages, first time.Weekday) []string {
	headers := make([]string, config.DaysPerWeek)
	for i := range headers {
		headers[i] = WeekdayAbbreviation(msgs, time.Weekday(floorMod(int(first)+i, config.DaysPerWeek)))
	}
	return headers
}

func rangeLabel(msgs Messages, start, end int) string {
	return msgs.Format(config.TKeyRange, map[string]any{
		"Start": strconv.Itoa(start),
		"End":   strconv.Itoa(end),
	})
}

// HeaderText returns the header of view around d: "March 2022" in Month view,
// "2022" in Year view, "2020 - 2029" in Decade view and "2000 - 2099" in
// Century view.
func (e *Engine) HeaderText(view View, d time.Time, id Identifier, msgs Messages) string {
	s := e.table.Resolve(id)
	y, m, _ := s.Fields(d)
	switch view {
	case Year:
		return strconv.Itoa(y)
	case Decade, Century:
		start := bucketStartYear(view, y)
		return rangeLabel(msgs, start, start+view.Offset()-1)
	}
	return msgs.Format(config.TKeyHeaderMonth, map[string]any{
		"Month": MonthName(msgs, s.Identifier(), m),
		"Year":  strconv.Itoa(y),
	})
}

// CellText returns the text of the cell d occupies in view: the day number,
// the abbreviated month, the year, or the decade range.
func (e *Engine) CellText(view View, d time.Time, id Identifier, msgs Messages) string {
	s := e.table.Resolve(id)
	y, m, day := s.Fields(d)
	switch view {
	case Year:
		return MonthAbbreviation(msgs, s.Identifier(), m)
	case Decade:
		return strconv.Itoa(y)
	case Century:
		start := bucketStartYear(Decade, y)
		return rangeLabel(msgs, start, start+Decade.Offset()-1)
	}
	return strconv.Itoa(day)
}

// CellDescription returns the spoken description of the cell d occupies in
// view, for example "Thursday, August 10, 2023" or "March 2022".
func (e *Engine) CellDescription(view View, d time.Time, id Identifier, msgs Messages) string {
	s := e.table.Resolve(id)
	y, m, day := s.Fields(d)
	switch view {
	case Year:
		return msgs.Format(config.TKeyDescYearMonth, map[string]any{
			"Month": MonthName(msgs, s.Identifier(), m),
			"Year":  strconv.Itoa(y),
		})
	case Decade, Century:
		return e.CellText(view, d, id, msgs)
	}
	return msgs.Format(config.TKeyDescMonthDay, map[string]any{
		"Weekday": WeekdayName(msgs, s.DayOfWeek(d)),
		"Day":     strconv.Itoa(day),
		"Month":   MonthName(msgs, s.Identifier(), m),
		"Year":    strconv.Itoa(y),
	})
}

// CalendarName returns the display name of id.
func CalendarName(msgs Messages, id Identifier) string {
	return msgs.Msg(config.TKeyCalendarPrefix + id.String())
}

// ViewName returns the display name of view.
func ViewName(msgs Messages, view View) string {
	return msgs.Msg(config.TKeyViewPrefix + view.String())
}
