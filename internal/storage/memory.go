package storage

import "sync"

// MemorySlots is a process-lifetime slot store. FailWith makes every call
// return the given error, which is how tests simulate a broken backend.
type MemorySlots struct {
	mu       sync.RWMutex
	values   map[string]string
	failWith error
	writes   int
}

func NewMemorySlots() *MemorySlots {
	return &MemorySlots{values: make(map[string]string)}
}

func (m *MemorySlots) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.failWith != nil {
		return "", false, unavailable("get", key, m.failWith)
	}
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *MemorySlots) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return unavailable("set", key, m.failWith)
	}
	m.values[key] = value
	m.writes++
	return nil
}

func (m *MemorySlots) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

// Writes returns the number of successful Set calls.
func (m *MemorySlots) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}
