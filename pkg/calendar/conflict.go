package calendar

import (
	"github.com/kairoplan/kairoplan/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

// HasConflict reports whether another event in dayEvents starts at the same
// wall-clock time as event. Only identical start times count; overlapping
// ranges with different starts do not.
func HasConflict(dayEvents []Event, event Event) bool {
	for _, other := range dayEvents {
		if other.ID != event.ID && other.StartTime == event.StartTime {
			return true
		}
	}
	return false
}

// Conflicts flags every event of the day that shares its start time with
// another one.
func Conflicts(dayEvents []Event) map[string]bool {
	byStart := make(map[string]int, len(dayEvents))
	for _, e := range dayEvents {
		byStart[e.StartTime]++
	}
	result := make(map[string]bool, len(dayEvents))
	for _, e := range dayEvents {
		if byStart[e.StartTime] > 1 {
			result[e.ID] = true
		}
	}
	return result
}

// ConflictAdvisor logs a warning when a newly added event starts at the same
// time as another event on its day.
type ConflictAdvisor struct {
	store *Store
}

func NewConflictAdvisor(store *Store) *ConflictAdvisor {
	return &ConflictAdvisor{store: store}
}

// Subscribe registers the advisor on bus and returns the unsubscribe function.
func (a *ConflictAdvisor) Subscribe(bus *event_bus.EventBus) func() {
	return event_bus.SubscribeTyped(bus, event_bus.CalendarEventAddedType, a.handleEventAdded)
}

func (a *ConflictAdvisor) handleEventAdded(e event_bus.EventT[event_bus.CalendarEventAdded]) error {
	added, ok := a.store.Get(e.Data.ID)
	if !ok {
		// deleted before the notification was delivered
		return nil
	}
	clashes := a.Clashes(added)
	for _, other := range clashes {
		log.Warnf("event %q on %s at %s starts at the same time as %q", added.Title, added.Date, added.StartTime, other.Title)
	}
	return nil
}

// Clashes returns the other events on event's day with the same start time.
func (a *ConflictAdvisor) Clashes(event Event) []Event {
	result := make([]Event, 0)
	for _, other := range EventsOn(a.store.List(), event.Date) {
		if other.ID != event.ID && other.StartTime == event.StartTime {
			result = append(result, other)
		}
	}
	return result
}
