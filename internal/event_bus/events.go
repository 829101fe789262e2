package event_bus

import "time"

const (
	CalendarEventAddedType   EventType = "calendar.event.added"
	CalendarEventDeletedType EventType = "calendar.event.deleted"
)

type CalendarEventAdded struct {
	ID        string
	Title     string
	Type      string
	Start     time.Time
	End       time.Time
	StartTime string
}

type CalendarEventDeleted struct {
	ID    string
	Title string
}
