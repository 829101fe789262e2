package calendar

import (
	"sync"
)

// RepositoryStub keeps saved events in memory and counts saves.
type RepositoryStub struct {
	mu     sync.RWMutex
	stored []Event
	saves  int
}

func NewRepositoryStub(stored ...Event) *RepositoryStub {
	return &RepositoryStub{stored: stored}
}

func (r *RepositoryStub) Load() []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Event, len(r.stored))
	copy(result, r.stored)
	return result
}

func (r *RepositoryStub) Save(events []Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stored = make([]Event, 0, len(events))
	for _, e := range events {
		if !e.Predefined {
			r.stored = append(r.stored, e)
		}
	}
	r.saves++
}

// Saves returns how many times Save was called (useful for test assertions)
func (r *RepositoryStub) Saves() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.saves
}

// StoredIDs returns the ids of the last saved events in order
func (r *RepositoryStub) StoredIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.stored))
	for _, e := range r.stored {
		ids = append(ids, e.ID)
	}
	return ids
}
