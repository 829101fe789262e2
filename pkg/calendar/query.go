package calendar

import (
	"slices"
	"time"
)

// Filter decides which event types are shown. Visible is the per-type toggle
// and Include an optional allow-list; an event passes when its type is
// visible and, if Include is non-empty, listed there. Types without a
// Visible entry are hidden.
type Filter struct {
	Visible map[Type]bool
	Include []Type
}

// DefaultFilter shows every known type.
func DefaultFilter() Filter {
	visible := make(map[Type]bool, len(Types))
	for _, t := range Types {
		visible[t] = true
	}
	return Filter{Visible: visible}
}

// Clone returns a filter that shares no maps or slices with f.
func (f Filter) Clone() Filter {
	visible := make(map[Type]bool, len(f.Visible))
	for t, v := range f.Visible {
		visible[t] = v
	}
	return Filter{Visible: visible, Include: slices.Clone(f.Include)}
}

// SetVisible returns a copy of f with the toggle for t set.
func (f Filter) SetVisible(t Type, visible bool) Filter {
	clone := f.Clone()
	clone.Visible[t] = visible
	return clone
}

func (f Filter) Allows(t Type) bool {
	if !f.Visible[t] {
		return false
	}
	return len(f.Include) == 0 || slices.Contains(f.Include, t)
}

// Apply keeps the events f allows, preserving order.
func (f Filter) Apply(events []Event) []Event {
	result := make([]Event, 0, len(events))
	for _, e := range events {
		if f.Allows(e.Type) {
			result = append(result, e)
		}
	}
	return result
}

// EventsOn returns the events whose start falls on date.
func EventsOn(events []Event, date Date) []Event {
	result := make([]Event, 0)
	for _, e := range events {
		if e.Date == date {
			result = append(result, e)
		}
	}
	return result
}

// EventsAt returns the events on date that cover the hour bucket
// [hour, hour+1). An event occupies the buckets from its start hour up to,
// but excluding, its end hour. One that ends within its start hour occupies
// that bucket alone, and one that ends on a later day runs to midnight.
func EventsAt(events []Event, date Date, hour int) []Event {
	result := make([]Event, 0)
	for _, e := range events {
		if e.Date != date {
			continue
		}
		from, to := hourSpan(e)
		if from <= hour && hour < to {
			result = append(result, e)
		}
	}
	return result
}

func hourSpan(e Event) (from, to int) {
	from = e.Start.Hour()
	if DateOf(e.End.In(e.Start.Location())) != e.Date {
		return from, 24
	}
	to = e.End.Hour()
	if to <= from {
		to = from + 1
	}
	return from, to
}

// EventsIn returns the events starting in the given month.
func EventsIn(events []Event, year int, month time.Month) []Event {
	result := make([]Event, 0)
	for _, e := range events {
		if e.Date.Year == year && e.Date.Month == month {
			result = append(result, e)
		}
	}
	return result
}

// EventsStartingAt returns the events on date whose start hour is hour.
func EventsStartingAt(events []Event, date Date, hour int) []Event {
	result := make([]Event, 0)
	for _, e := range events {
		if e.Date == date && e.Start.Hour() == hour {
			result = append(result, e)
		}
	}
	return result
}

// SortByStart returns a copy ordered by start. Ties keep their input order.
func SortByStart(events []Event) []Event {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b Event) int {
		return a.Start.Compare(b.Start)
	})
	return sorted
}
