package engine

import (
	"math"
	"time"

	"github.com/tartampluch/go-calnav/internal/config"
)

// cycle describes a purely arithmetic calendar: where each year starts,
// counted in days from day one of year one, and how long each month is.
type cycle interface {
	yearStart(year int) int
	monthLength(year, month int) int
	meanYear() float64
}

// arithmeticCore adapts a cycle anchored at epoch (the day number of 1/1/1) to
// the core interface.
type arithmeticCore struct {
	epoch int
	cycle cycle
}

func (c arithmeticCore) days(year, month, day int) int {
	n := c.epoch + c.cycle.yearStart(year)
	for m := 1; m < month; m++ {
		n += c.cycle.monthLength(year, m)
	}
	return n + day - 1
}

func (c arithmeticCore) fields(n int) (year, month, day int) {
	e := n - c.epoch
	year = int(math.Floor(float64(e)/c.cycle.meanYear())) + 1
	// The estimate is off by at most one year either way.
	for c.cycle.yearStart(year) > e {
		year--
	}
	for c.cycle.yearStart(year+1) <= e {
		year++
	}

	doy := e - c.cycle.yearStart(year)
	month = 1
	for month < config.MonthsPerYear && doy >= c.cycle.monthLength(year, month) {
		doy -= c.cycle.monthLength(year, month)
		month++
	}
	return year, month, doy + 1
}

func (c arithmeticCore) daysInMonth(year, month int) int {
	return c.cycle.monthLength(year, month)
}

func (c arithmeticCore) daysInYear(year int) int {
	return c.cycle.yearStart(year+1) - c.cycle.yearStart(year)
}

// hijriCycle is the tabular Islamic calendar: a 30-year cycle with 11 leap
// years, odd months of 30 days, even months of 29 and a 30-day last month in
// leap years.
type hijriCycle struct{}

// hijriEpoch is 1 Muharram 1 AH, the first supported Hijri date.
var hijriEpoch = ymd(622, time.July, 18)

func newHijriSystem(id Identifier, min, max time.Time) *System {
	c := arithmeticCore{epoch: dayNumber(hijriEpoch), cycle: hijriCycle{}}
	return newSystem(id, c, min, max)
}

func (hijriCycle) yearStart(year int) int {
	return (year-1)*354 + floorDiv(3+11*year, 30)
}

func (h hijriCycle) monthLength(year, month int) int {
	if month == config.MonthsPerYear && h.yearStart(year+1)-h.yearStart(year) == 355 {
		return 30
	}
	if month%2 == 1 {
		return 30
	}
	return 29
}

func (hijriCycle) meanYear() float64 { return 10631.0 / 30.0 }

// persianCycle is the 33-year arithmetic Solar Hijri calendar: six months of
// 31 days, five of 30, and a last month of 29 days or 30 in leap years.
type persianCycle struct{}

// persianEpoch is 1 Farvardin 1 AP, the first supported Persian date.
var persianEpoch = ymd(622, time.March, 21)

func newPersianSystem() *System {
	c := arithmeticCore{epoch: dayNumber(persianEpoch), cycle: persianCycle{}}
	return newSystem(Persian, c, persianEpoch, ymd(9999, 12, 31))
}

func (persianCycle) yearStart(year int) int {
	return (year-1)*365 + floorDiv(8*year+21, 33)
}

func (p persianCycle) monthLength(year, month int) int {
	switch {
	case month <= 6:
		return 31
	case month < config.MonthsPerYear:
		return 30
	case p.yearStart(year+1)-p.yearStart(year) == 366:
		return 30
	}
	return 29
}

func (persianCycle) meanYear() float64 { return 12053.0 / 33.0 }
