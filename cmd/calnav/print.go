package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/tartampluch/go-calnav/internal/config"
	"github.com/tartampluch/go-calnav/internal/engine"
)

// Cell markers of the text rendering.
const (
	markToday    = "*"
	markSelected = "+"
	markDisabled = "-"
	markBlackout = "x"
	prevArrow    = "<"
	nextArrow    = ">"
	noArrow      = " "
)

// printSnapshot renders snap as a text grid: the header between navigation
// arrows, the weekday row and week numbers in Month view, then one row per
// week or four cells per row in the other views.
func printSnapshot(w io.Writer, snap engine.Snapshot) error {
	prev, next := noArrow, noArrow
	if snap.CanNavigatePrev {
		prev = prevArrow
	}
	if snap.CanNavigateNext {
		next = nextArrow
	}
	if _, err := fmt.Fprintf(w, "%s %s %s  (%s)\n", prev, snap.Header, next, snap.CalendarName); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	perRow := config.MonthsPerYear / 3
	if snap.WeekdayHeaders != nil {
		perRow = config.DaysPerWeek
		fmt.Fprintln(tw, snap.WeekColumnLabel+"\t"+strings.Join(snap.WeekdayHeaders, "\t")+"\t")
	}

	for i := 0; i < len(snap.Cells); i += perRow {
		row := snap.Cells[i:min(i+perRow, len(snap.Cells))]
		labels := make([]string, 0, len(row))
		for _, c := range row {
			labels = append(labels, cellText(c))
		}
		prefix := ""
		if snap.WeekNumbers != nil {
			prefix = strconv.Itoa(snap.WeekNumbers[i/perRow])
		}
		fmt.Fprintln(tw, prefix+"\t"+strings.Join(labels, "\t")+"\t")
	}
	return tw.Flush()
}

// cellText decorates a cell label with its state markers.
func cellText(c engine.Cell) string {
	label := c.Label
	if c.LeadingOrTrailing {
		label = "(" + label + ")"
	}
	switch {
	case c.Blackout:
		label += markBlackout
	case c.Disabled:
		label += markDisabled
	}
	if c.Selected {
		label += markSelected
	}
	if c.Today {
		label += markToday
	}
	return label
}
