package calendar

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kairoplan/kairoplan/internal/storage"
	log "github.com/sirupsen/logrus"
)

// DefaultSlot is the storage slot that holds user-created events.
const DefaultSlot = "calendarEvents"

// isoLayout matches what the browser build wrote (Date.prototype.toISOString).
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

var ErrMalformedStoredRecord = errors.New("malformed stored record")

// Repository persists the user-created subset of events. Neither method
// reports storage failures: a missing or unreadable slot loads as empty and a
// failed save is logged, leaving the in-memory store authoritative.
type Repository interface {
	Load() []Event
	Save(events []Event)
}

type RepositoryImpl struct {
	slots storage.Slots
	slot  string
	loc   *time.Location
}

func NewRepository(slots storage.Slots, slot string, loc *time.Location) *RepositoryImpl {
	if slot == "" {
		slot = DefaultSlot
	}
	if loc == nil {
		loc = time.Local
	}
	return &RepositoryImpl{slots: slots, slot: slot, loc: loc}
}

// storedEvent is the on-device record. Derived fields are written for
// readers of the raw slot but are recomputed from start/end on load.
type storedEvent struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Type      string `json:"type"`
	Date      string `json:"date,omitempty"`
	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`
	Time      string `json:"time,omitempty"`
	Duration  string `json:"duration,omitempty"`
	Start     string `json:"start"`
	End       string `json:"end"`
}

func (r *RepositoryImpl) Load() []Event {
	raw, ok, err := r.slots.Get(r.slot)
	if err != nil {
		log.Errorf("could not read slot %s, starting with no stored events: %v", r.slot, err)
		return []Event{}
	}
	if !ok || strings.TrimSpace(raw) == "" {
		log.Debugf("slot %s is empty", r.slot)
		return []Event{}
	}

	var records []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		log.Errorf("could not parse slot %s, starting with no stored events: %v", r.slot, err)
		return []Event{}
	}

	events := make([]Event, 0, len(records))
	for i, record := range records {
		event, err := r.decode(record)
		if err != nil {
			log.Warnf("skipping stored record %d in slot %s: %v", i, r.slot, err)
			continue
		}
		events = append(events, event)
	}
	log.Debugf("loaded %d stored events from slot %s", len(events), r.slot)
	return events
}

func (r *RepositoryImpl) decode(raw json.RawMessage) (Event, error) {
	var record storedEvent
	if err := json.Unmarshal(raw, &record); err != nil {
		return Event{}, fmt.Errorf("%w: %w", ErrMalformedStoredRecord, err)
	}
	if record.ID == "" {
		return Event{}, fmt.Errorf("%w: missing id", ErrMalformedStoredRecord)
	}
	if strings.TrimSpace(record.Title) == "" {
		return Event{}, fmt.Errorf("%w: %s: missing title", ErrMalformedStoredRecord, record.ID)
	}
	start, err := time.Parse(time.RFC3339, record.Start)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %s: start: %w", ErrMalformedStoredRecord, record.ID, err)
	}
	end, err := time.Parse(time.RFC3339, record.End)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %s: end: %w", ErrMalformedStoredRecord, record.ID, err)
	}
	if !end.After(start) {
		return Event{}, fmt.Errorf("%w: %s: %w", ErrMalformedStoredRecord, record.ID, ErrInvalidRange)
	}

	event := Event{
		ID:       record.ID,
		Title:    record.Title,
		Type:     typeOrDefault(Type(record.Type)),
		Duration: record.Duration,
		Start:    start,
		End:      end,
	}
	event.derive(r.loc)
	return event, nil
}

// Save overwrites the slot with every non-predefined event.
func (r *RepositoryImpl) Save(events []Event) {
	records := make([]storedEvent, 0, len(events))
	for _, e := range events {
		if e.Predefined {
			continue
		}
		records = append(records, storedEvent{
			ID:        e.ID,
			Title:     e.Title,
			Type:      string(e.Type),
			Date:      e.Date.String(),
			StartTime: e.StartTime,
			EndTime:   e.EndTime,
			Time:      e.Time,
			Duration:  e.Duration,
			Start:     e.Start.UTC().Format(isoLayout),
			End:       e.End.UTC().Format(isoLayout),
		})
	}

	data, err := json.Marshal(records)
	if err != nil {
		log.Errorf("could not encode events for slot %s: %v", r.slot, err)
		return
	}
	if err := r.slots.Set(r.slot, string(data)); err != nil {
		log.Errorf("could not save %d events to slot %s, keeping them in memory only: %v", len(records), r.slot, err)
		return
	}
	log.Debugf("saved %d events to slot %s", len(records), r.slot)
}
