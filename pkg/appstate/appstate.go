package appstate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kairoplan/kairoplan/pkg/calendar"
	log "github.com/sirupsen/logrus"
)

type ViewMode string

const (
	DayView   ViewMode = "day"
	WeekView  ViewMode = "week"
	MonthView ViewMode = "month"
	YearView  ViewMode = "year"
)

var ErrInvalidViewMode = errors.New("invalid view mode")

func ParseViewMode(s string) (ViewMode, error) {
	switch mode := ViewMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case DayView, WeekView, MonthView, YearView:
		return mode, nil
	case "":
		return MonthView, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidViewMode, s)
	}
}

// State is what the view layer knows about the session: theme, which view is
// open, the date it is centered on and the type filter. The calendar core
// never reads it; handlers pass the filter and date down explicitly.
type State struct {
	DarkMode    bool
	ViewMode    ViewMode
	CurrentDate calendar.Date
	Filter      calendar.Filter
}

// New returns the initial state: month view on today with every type shown.
func New(today calendar.Date) State {
	return State{
		ViewMode:    MonthView,
		CurrentDate: today,
		Filter:      calendar.DefaultFilter(),
	}
}

// Navigate moves CurrentDate by step periods of the view mode. Month and
// year steps clamp to the last day of the target month, so January 31st
// plus one month is the last day of February.
func (s State) Navigate(step int) State {
	d := s.CurrentDate
	switch s.ViewMode {
	case DayView:
		d = d.AddDays(step)
	case WeekView:
		d = d.AddDays(7 * step)
	case YearView:
		d = addMonths(d, 12*step)
	default:
		d = addMonths(d, step)
	}
	s.CurrentDate = d
	s.Filter = s.Filter.Clone()
	return s
}

func addMonths(d calendar.Date, n int) calendar.Date {
	first := time.Date(d.Year, d.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	lastDay := first.AddDate(0, 1, -1).Day()
	day := d.Day
	if day > lastDay {
		day = lastDay
	}
	return calendar.Date{Year: first.Year(), Month: first.Month(), Day: day}
}

type contextKey string

const StateKey contextKey = "appstate"

var ErrNoState = errors.New("application state not found")

func WithState(ctx context.Context, state State) context.Context {
	return context.WithValue(ctx, StateKey, state)
}

func Current(ctx context.Context) (State, error) {
	state, ok := ctx.Value(StateKey).(State)
	if !ok {
		log.Trace("application state not found in context")
		return State{}, ErrNoState
	}
	return state, nil
}

// FilterOf returns the filter of the state in ctx, or the default filter.
func FilterOf(ctx context.Context) calendar.Filter {
	state, err := Current(ctx)
	if err != nil {
		return calendar.DefaultFilter()
	}
	return state.Filter
}
