package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(day, hour, minute int) time.Time {
	return time.Date(2024, 3, day, hour, minute, 0, 0, time.UTC)
}

func eventAt(id string, typ Type, start, end time.Time) Event {
	e := Event{ID: id, Title: id, Type: typ, Start: start, End: end}
	e.derive(time.UTC)
	return e
}

func TestEventsAt(t *testing.T) {
	t.Run("should treat the hour range as half-open", func(t *testing.T) {
		// given
		n := newTestNormalizer(time.UTC)
		work := predefinedEvent(t, n, CatalogEntry{Title: "Work", Type: "work", Date: "2024-03-01", Time: "09:00", Duration: "1h"})
		day := Date{2024, time.March, 1}

		// then
		assert.Equal(t, []string{work.ID}, ids(EventsAt([]Event{work}, day, 9)))
		assert.Empty(t, EventsAt([]Event{work}, day, 10))
		assert.Empty(t, EventsAt([]Event{work}, day, 8))
	})

	events := []Event{
		eventAt("multi", Work, at(1, 9, 0), at(1, 12, 0)),
		eventAt("short", Meeting, at(1, 14, 15), at(1, 14, 45)),
		eventAt("crossing", Meeting, at(1, 14, 30), at(1, 15, 10)),
		eventAt("overnight", Personal, at(1, 22, 0), at(2, 1, 0)),
		eventAt("other-day", Work, at(2, 9, 0), at(2, 10, 0)),
	}
	day := Date{2024, time.March, 1}
	tests := []struct {
		hour int
		want []string
	}{
		{8, []string{}},
		{9, []string{"multi"}},
		{11, []string{"multi"}},
		{12, []string{}},
		{14, []string{"short", "crossing"}},
		{15, []string{}},
		{22, []string{"overnight"}},
		{23, []string{"overnight"}},
	}
	for _, tt := range tests {
		t.Run("hour "+time.Date(0, 1, 1, tt.hour, 0, 0, 0, time.UTC).Format(ClockLayout), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(EventsAt(events, day, tt.hour)))
		})
	}
}

func TestEventsOn(t *testing.T) {
	// given
	loc := warsaw
	n := newTestNormalizer(loc)
	lateEvening := userEvent(t, n, "late", time.Date(2024, 3, 1, 23, 30, 0, 0, loc), time.Hour)
	morning := userEvent(t, n, "morning", time.Date(2024, 3, 2, 0, 15, 0, 0, loc), time.Hour)

	// when
	first := EventsOn([]Event{lateEvening, morning}, Date{2024, time.March, 1})
	second := EventsOn([]Event{lateEvening, morning}, Date{2024, time.March, 2})

	// then
	assert.Equal(t, []string{lateEvening.ID}, ids(first))
	assert.Equal(t, []string{morning.ID}, ids(second))
	assert.Empty(t, EventsOn(nil, Date{2024, time.March, 3}))
}

func TestEventsIn(t *testing.T) {
	events := []Event{
		eventAt("feb", Work, time.Date(2024, 2, 29, 9, 0, 0, 0, time.UTC), time.Date(2024, 2, 29, 10, 0, 0, 0, time.UTC)),
		eventAt("mar", Work, at(1, 9, 0), at(1, 10, 0)),
		eventAt("mar-2025", Work, time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC), time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)),
	}

	assert.Equal(t, []string{"mar"}, ids(EventsIn(events, 2024, time.March)))
	assert.Equal(t, []string{"feb"}, ids(EventsIn(events, 2024, time.February)))
	assert.Empty(t, EventsIn(events, 2024, time.April))
}

func TestEventsStartingAt(t *testing.T) {
	events := []Event{
		eventAt("nine", Work, at(1, 9, 0), at(1, 11, 0)),
		eventAt("nine-thirty", Work, at(1, 9, 30), at(1, 10, 0)),
	}
	day := Date{2024, time.March, 1}

	assert.Equal(t, []string{"nine", "nine-thirty"}, ids(EventsStartingAt(events, day, 9)))
	assert.Empty(t, EventsStartingAt(events, day, 10))
}

func TestSortByStart(t *testing.T) {
	events := []Event{
		eventAt("b", Work, at(1, 10, 0), at(1, 11, 0)),
		eventAt("a1", Work, at(1, 9, 0), at(1, 10, 0)),
		eventAt("a2", Work, at(1, 9, 0), at(1, 9, 30)),
	}

	sorted := SortByStart(events)

	assert.Equal(t, []string{"a1", "a2", "b"}, ids(sorted))
	assert.Equal(t, "b", events[0].ID)
}

func TestFilter(t *testing.T) {
	events := []Event{
		eventAt("w", Work, at(1, 9, 0), at(1, 10, 0)),
		eventAt("m", Meeting, at(1, 9, 0), at(1, 10, 0)),
		eventAt("h", Holiday, at(1, 9, 0), at(1, 10, 0)),
		eventAt("x", Type("sport"), at(1, 9, 0), at(1, 10, 0)),
	}

	t.Run("default filter shows every known type", func(t *testing.T) {
		assert.Equal(t, []string{"w", "m", "h"}, ids(DefaultFilter().Apply(events)))
	})

	t.Run("visible flag and inclusion list both apply", func(t *testing.T) {
		// given
		f := DefaultFilter().SetVisible(Meeting, false)
		f.Include = []Type{Meeting, Work}

		// then
		assert.Equal(t, []string{"w"}, ids(f.Apply(events)))
		assert.False(t, f.Allows(Holiday))
		assert.False(t, f.Allows(Meeting))
	})

	t.Run("applying a filter twice gives the same result", func(t *testing.T) {
		f := DefaultFilter().SetVisible(Holiday, false)

		once := f.Apply(events)
		twice := f.Apply(once)

		assert.Equal(t, once, twice)
	})

	t.Run("SetVisible does not modify the receiver", func(t *testing.T) {
		base := DefaultFilter()

		changed := base.SetVisible(Work, false)

		require.True(t, base.Allows(Work))
		assert.False(t, changed.Allows(Work))
	})
}
