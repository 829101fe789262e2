package utils

import (
	"sync"
	"time"
)

// Clock supplies the current instant to handlers and commands.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// NowIn reads c and converts the instant to loc, the zone calendar dates are
// derived in.
func NowIn(c Clock, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return c.Now().In(loc)
}

// MockClock stays at FixedNow until moved. Safe for concurrent handlers.
type MockClock struct {
	mu       sync.RWMutex
	FixedNow time.Time
}

func (m *MockClock) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.FixedNow
}

func (m *MockClock) SetNow(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FixedNow = now
}

// Advance moves the clock forward by d.
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FixedNow = m.FixedNow.Add(d)
}
