package calendar

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kairoplan/kairoplan/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

var (
	ErrPredefinedEvent = errors.New("predefined events cannot be deleted")
	ErrEventNotFound   = errors.New("event not found")
)

// Store is the merged in-memory collection of predefined and user events.
// Mutations are serialized and persisted before the lock is released, so the
// slot always matches the last mutation.
type Store struct {
	mu         sync.RWMutex
	events     []Event
	repo       Repository
	normalizer *Normalizer
	bus        *event_bus.EventBus
}

// NewStore normalizes the catalog, then appends the persisted user events.
// Catalog entries that fail normalization are skipped. A persisted event
// whose id is already taken is dropped. bus may be nil.
func NewStore(catalog []CatalogEntry, repo Repository, normalizer *Normalizer, bus *event_bus.EventBus) *Store {
	s := &Store{repo: repo, normalizer: normalizer, bus: bus}
	seen := make(map[string]bool, len(catalog))

	for i, entry := range catalog {
		event, err := normalizer.NormalizePredefined(entry)
		if err != nil {
			log.Warnf("skipping catalog entry %d: %v", i, err)
			continue
		}
		if seen[event.ID] {
			log.Warnf("skipping catalog entry %d: duplicate id %s", i, event.ID)
			continue
		}
		seen[event.ID] = true
		s.events = append(s.events, event)
	}
	predefined := len(s.events)

	for _, event := range repo.Load() {
		if seen[event.ID] {
			log.Warnf("dropping stored event %s (%q): id already in use", event.ID, event.Title)
			continue
		}
		seen[event.ID] = true
		event.Predefined = false
		s.events = append(s.events, event)
	}

	log.Infof("calendar store ready: %d predefined, %d user events", predefined, len(s.events)-predefined)
	return s
}

func (s *Store) Add(input UserInput) (Event, error) {
	event, err := s.normalizer.NormalizeUserInput(input)
	if err != nil {
		return Event{}, fmt.Errorf("failed to add event: %w", err)
	}

	s.mu.Lock()
	s.events = append(s.events, event)
	s.repo.Save(s.snapshot())
	s.mu.Unlock()

	log.Debugf("added event %s (%q) at %s", event.ID, event.Title, event.Start)
	s.publish(event_bus.CalendarEventAddedType, event_bus.CalendarEventAdded{
		ID:        event.ID,
		Title:     event.Title,
		Type:      string(event.Type),
		Start:     event.Start,
		End:       event.End,
		StartTime: event.StartTime,
	})
	return event, nil
}

// Delete removes a user event. Predefined ids leave the collection and the
// slot untouched and report ErrPredefinedEvent.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrEventNotFound, id)
	}
	removed := s.events[idx]
	if !removed.Deletable() {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrPredefinedEvent, id)
	}
	s.events = append(s.events[:idx:idx], s.events[idx+1:]...)
	s.repo.Save(s.snapshot())
	s.mu.Unlock()

	log.Debugf("deleted event %s (%q)", removed.ID, removed.Title)
	s.publish(event_bus.CalendarEventDeletedType, event_bus.CalendarEventDeleted{
		ID:    removed.ID,
		Title: removed.Title,
	})
	return nil
}

// List returns a copy of the collection: predefined events first, then user
// events in insertion order.
func (s *Store) List() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

func (s *Store) Get(id string) (Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexOf(id); idx >= 0 {
		return s.events[idx], true
	}
	return Event{}, false
}

// Location is the zone every derived wall-clock field is expressed in.
func (s *Store) Location() *time.Location {
	return s.normalizer.Location()
}

func (s *Store) indexOf(id string) int {
	for i, e := range s.events {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) snapshot() []Event {
	result := make([]Event, len(s.events))
	copy(result, s.events)
	return result
}

func (s *Store) publish(eventType event_bus.EventType, data any) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(event_bus.NewEvent(eventType, data)); err != nil {
		log.Errorf("failed to publish %s: %v", eventType, err)
	}
}
