package engine

import "time"

// Year offsets of the calendars that share Gregorian months and days but count
// years from a different era.
const (
	thaiBuddhistYearOffset = 543
	koreanYearOffset       = 2333
	taiwanYearOffset       = -1911
)

// gregorianCore implements the Gregorian calendar and its era-shifted variants
// on top of package time. yearOffset is added to the Gregorian year.
type gregorianCore struct {
	yearOffset int
}

func newGregorianSystem(id Identifier, yearOffset int, min time.Time) *System {
	return newSystem(id, gregorianCore{yearOffset: yearOffset}, min, ymd(9999, 12, 31))
}

func (c gregorianCore) fields(n int) (year, month, day int) {
	y, m, d := fromDayNumber(n).Date()
	return y + c.yearOffset, int(m), d
}

func (c gregorianCore) days(year, month, day int) int {
	return dayNumber(ymd(year-c.yearOffset, time.Month(month), day))
}

func (c gregorianCore) daysInMonth(year, month int) int {
	// Day 0 of the next month is the last day of this one.
	return ymd(year-c.yearOffset, time.Month(month)+1, 0).Day()
}

func (c gregorianCore) daysInYear(year int) int {
	if isLeap(year - c.yearOffset) {
		return 366
	}
	return 365
}

// isLeap applies the Gregorian leap rule to a Gregorian year.
func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
