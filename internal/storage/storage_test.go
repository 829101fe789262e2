package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kairoplan/kairoplan/internal/config"
	"github.com/kairoplan/kairoplan/internal/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slotDrivers(t *testing.T) map[string]Slots {
	fileSlots, err := NewFileSlots(t.TempDir())
	require.NoError(t, err)

	return map[string]Slots{
		"sqlite": NewSQLiteSlots(test_utils.SetupTestDB(t)),
		"file":   fileSlots,
		"memory": NewMemorySlots(),
	}
}

func TestSlots_GetMissingSlot(t *testing.T) {
	for name, slots := range slotDrivers(t) {
		t.Run(name, func(t *testing.T) {
			value, ok, err := slots.Get("calendarEvents")
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Empty(t, value)
		})
	}
}

func TestSlots_SetOverwrites(t *testing.T) {
	for name, slots := range slotDrivers(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, slots.Set("calendarEvents", `[{"id":"a"}]`))
			require.NoError(t, slots.Set("calendarEvents", `[]`))
			require.NoError(t, slots.Set("other", `x`))

			value, ok, err := slots.Get("calendarEvents")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `[]`, value)

			value, ok, err = slots.Get("other")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `x`, value)
		})
	}
}

func TestFileSlots_RejectsPathLikeKeys(t *testing.T) {
	slots, err := NewFileSlots(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, slots.Set("../escape", "x"))
	_, _, err = slots.Get("a/b")
	assert.Error(t, err)
}

func TestFileSlots_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	slots, err := NewFileSlots(dir)
	require.NoError(t, err)

	require.NoError(t, slots.Set("calendarEvents", "[]"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "calendarEvents.json", entries[0].Name())
}

func TestMemorySlots_FailWith(t *testing.T) {
	slots := NewMemorySlots()
	slots.FailWith(errors.New("quota exceeded"))

	err := slots.Set("k", "v")
	assert.ErrorIs(t, err, ErrUnavailable)
	_, _, err = slots.Get("k")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 0, slots.Writes())
}

func TestOpen_Drivers(t *testing.T) {
	dir := t.TempDir()

	slots, closeFn, err := Open(config.Storage{Driver: "sqlite", Path: filepath.Join(dir, "db", "k.db")})
	require.NoError(t, err)
	require.NoError(t, slots.Set("k", "v"))
	require.NoError(t, closeFn())

	// reopening the same file sees previous data and re-running migrations is a no-op
	slots, closeFn, err = Open(config.Storage{Driver: "sqlite", Path: filepath.Join(dir, "db", "k.db")})
	require.NoError(t, err)
	value, ok, err := slots.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", value)
	require.NoError(t, closeFn())

	slots, _, err = Open(config.Storage{Driver: "file", Path: filepath.Join(dir, "files")})
	require.NoError(t, err)
	assert.IsType(t, &FileSlots{}, slots)

	slots, _, err = Open(config.Storage{Driver: "MEMORY"})
	require.NoError(t, err)
	assert.IsType(t, &MemorySlots{}, slots)

	_, closeFn, err = Open(config.Storage{Driver: "redis"})
	assert.Error(t, err)
	assert.NotNil(t, closeFn)
}
