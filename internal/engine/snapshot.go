package engine

import (
	"fmt"
	"time"

	"github.com/tartampluch/go-calnav/internal/config"
)

// Cell is one rendered cell of a view.
type Cell struct {
	Date              string `json:"date"`
	Label             string `json:"label"`
	Description       string `json:"description"`
	Disabled          bool   `json:"disabled"`
	Blackout          bool   `json:"blackout,omitempty"`
	LeadingOrTrailing bool   `json:"leading_or_trailing,omitempty"`
	Selected          bool   `json:"selected,omitempty"`
	Today             bool   `json:"today,omitempty"`
}

// Snapshot is a read-only rendering of a ViewState. It decouples hosts (the
// CLI printer, the HTTP server) from the engine's question-level API.
type Snapshot struct {
	Calendar        string   `json:"calendar"`
	CalendarName    string   `json:"calendar_name"`
	View            string   `json:"view"`
	Language        string   `json:"language"`
	DisplayDate     string   `json:"display_date"`
	MinDate         string   `json:"min_date"`
	MaxDate         string   `json:"max_date"`
	Header          string   `json:"header"`
	CanNavigateNext bool     `json:"can_navigate_next"`
	CanNavigatePrev bool     `json:"can_navigate_previous"`
	NextLabel       string   `json:"next_label"`
	PreviousLabel   string   `json:"previous_label"`
	WeekColumnLabel string   `json:"week_column_label,omitempty"`
	WeekdayHeaders  []string `json:"weekday_headers,omitempty"`
	WeekNumbers     []int    `json:"week_numbers,omitempty"`
	Cells           []Cell   `json:"cells"`
}

// Snapshot renders state with msgs. lang is reported as is.
func (e *Engine) Snapshot(state ViewState, msgs Messages, lang string) Snapshot {
	s := e.table.Resolve(state.Calendar)
	id := s.Identifier()
	display := e.EffectiveDisplayDate(state)
	min, max := s.effectiveBounds(state.MinDate, state.MaxDate)
	visible := e.VisibleDatesFor(state)
	next, prev := e.CanNavigate(state, visible)

	snap := Snapshot{
		Calendar:        id.String(),
		CalendarName:    CalendarName(msgs, id),
		View:            state.View.String(),
		Language:        lang,
		DisplayDate:     display.Format(config.DateFormatISO),
		MinDate:         min.Format(config.DateFormatISO),
		MaxDate:         max.Format(config.DateFormatISO),
		Header:          e.HeaderText(state.View, display, id, msgs),
		CanNavigateNext: next,
		CanNavigatePrev: prev,
		NextLabel:       msgs.Msg(config.TKeyNavNext),
		PreviousLabel:   msgs.Msg(config.TKeyNavPrevious),
		Cells:           make([]Cell, 0, len(visible)),
	}
	if state.View == Month {
		snap.WeekdayHeaders = WeekdayHeaders(msgs, state.FirstDayOfWeek)
		snap.WeekColumnLabel = msgs.Msg(config.TKeyWeekColumn)
		snap.WeekNumbers = e.WeekNumbers(visible, id, state.FirstDayOfWeek)
	}

	for _, d := range visible {
		snap.Cells = append(snap.Cells, Cell{
			Date:              d.Format(config.DateFormatISO),
			Label:             e.CellText(state.View, d, id, msgs),
			Description:       e.CellDescription(state.View, d, id, msgs),
			Disabled:          e.IsInteractionDisabled(d, state, visible),
			Blackout:          state.View == Month && IsBlackoutDate(d, state.BlackoutDates),
			LeadingOrTrailing: e.IsLeadingOrTrailing(state.View, d, visible, id),
			Selected:          state.SelectedRange != nil && s.isCellSelected(state.View, *state.SelectedRange, d),
			Today:             !state.Today.IsZero() && s.isSameCell(state.View, d, state.Today),
		})
	}
	return snap
}

// ParseDate parses an ISO 8601 calendar date (YYYY-MM-DD) into a date-only
// value.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(config.DateFormatISO, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", config.ErrDateParse, err)
	}
	return t, nil
}
