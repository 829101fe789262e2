// Package storage provides the local key-value slots that hold persisted
// calendar data. Every driver reports backend failures as ErrUnavailable.
package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kairoplan/kairoplan/internal/config"
	"github.com/kairoplan/kairoplan/internal/database"
)

var ErrUnavailable = errors.New("storage unavailable")

// Slots is a named-slot string store, the shape of browser local storage.
type Slots interface {
	// Get returns the slot value and whether the slot exists.
	Get(key string) (string, bool, error)
	// Set overwrites the slot value.
	Set(key, value string) error
}

// Open builds the slot store selected by cfg.Driver. The returned close
// function releases the backend and is never nil.
func Open(cfg config.Storage) (Slots, func() error, error) {
	noop := func() error { return nil }

	switch strings.ToLower(cfg.Driver) {
	case "", "sqlite":
		db, err := database.Open(cfg.Path)
		if err != nil {
			return nil, noop, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		if err := database.Migrate(db); err != nil {
			db.Close()
			return nil, noop, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return NewSQLiteSlots(db), db.Close, nil
	case "file":
		slots, err := NewFileSlots(cfg.Path)
		if err != nil {
			return nil, noop, err
		}
		return slots, noop, nil
	case "memory":
		return NewMemorySlots(), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func unavailable(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s %s: %w", ErrUnavailable, op, key, err)
}
