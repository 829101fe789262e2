package calendar

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var warsaw = time.FixedZone("CET", 60*60)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestNormalizer(loc *time.Location) *Normalizer {
	n := NewNormalizer(loc)
	n.newID = sequentialIDs()
	return n
}

func TestNormalizer_NormalizePredefined(t *testing.T) {
	t.Run("should derive instants and clock fields from a catalog entry", func(t *testing.T) {
		// given
		n := newTestNormalizer(time.UTC)
		entry := CatalogEntry{Title: "Sprint review", Type: "work", Date: "2024-03-01", Time: "09:00", Duration: "1h"}

		// when
		event, err := n.NormalizePredefined(entry)

		// then
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), event.Start)
		assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), event.End)
		assert.Equal(t, "09:00", event.StartTime)
		assert.Equal(t, "10:00", event.EndTime)
		assert.Equal(t, "09:00", event.Time)
		assert.Equal(t, Date{2024, time.March, 1}, event.Date)
		assert.Equal(t, Work, event.Type)
		assert.Equal(t, "1h", event.Duration)
		assert.True(t, event.Predefined)
		assert.Equal(t, "id-1", event.ID)
	})

	t.Run("should keep the catalog id and default the type", func(t *testing.T) {
		// given
		n := newTestNormalizer(time.UTC)

		// when
		event, err := n.NormalizePredefined(CatalogEntry{ID: "7", Title: "Dentist", Date: "2024-03-02", Time: "08:30", Duration: "45m"})

		// then
		require.NoError(t, err)
		assert.Equal(t, "7", event.ID)
		assert.Equal(t, Personal, event.Type)
		assert.Equal(t, "09:15", event.EndTime)
	})

	t.Run("should interpret date and time in the normalizer location", func(t *testing.T) {
		// given
		n := newTestNormalizer(warsaw)

		// when
		event, err := n.NormalizePredefined(CatalogEntry{Title: "Standup", Date: "2024-03-01", Time: "00:30", Duration: "30m"})

		// then
		require.NoError(t, err)
		assert.Equal(t, "00:30", event.StartTime)
		assert.Equal(t, Date{2024, time.March, 1}, event.Date)
		assert.True(t, event.Start.Equal(time.Date(2024, 2, 29, 23, 30, 0, 0, time.UTC)))
	})

	t.Run("should keep unknown types verbatim", func(t *testing.T) {
		n := newTestNormalizer(time.UTC)

		event, err := n.NormalizePredefined(CatalogEntry{Title: "Gym", Type: "sport", Date: "2024-03-01", Time: "18:00", Duration: "1h"})

		require.NoError(t, err)
		assert.Equal(t, Type("sport"), event.Type)
		assert.False(t, event.Type.Known())
	})

	tests := []struct {
		name  string
		entry CatalogEntry
		want  error
	}{
		{"missing title", CatalogEntry{Date: "2024-03-01", Time: "09:00", Duration: "1h"}, ErrMissingTitle},
		{"bad date", CatalogEntry{Title: "x", Date: "2024-13-01", Time: "09:00", Duration: "1h"}, ErrMalformedCatalogEntry},
		{"bad time", CatalogEntry{Title: "x", Date: "2024-03-01", Time: "9am", Duration: "1h"}, ErrMalformedCatalogEntry},
		{"bad duration", CatalogEntry{Title: "x", Date: "2024-03-01", Time: "09:00", Duration: "soon"}, ErrMalformedCatalogEntry},
		{"zero duration", CatalogEntry{Title: "x", Date: "2024-03-01", Time: "09:00", Duration: "0m"}, ErrInvalidRange},
		{"negative duration", CatalogEntry{Title: "x", Date: "2024-03-01", Time: "09:00", Duration: "-2h"}, ErrInvalidRange},
		{"overflowing duration", CatalogEntry{Title: "x", Date: "2024-03-01", Time: "09:00", Duration: "9999999999999h"}, ErrMalformedCatalogEntry},
	}
	for _, tt := range tests {
		t.Run("should reject "+tt.name, func(t *testing.T) {
			_, err := newTestNormalizer(time.UTC).NormalizePredefined(tt.entry)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNormalizer_NormalizeUserInput(t *testing.T) {
	t.Run("should keep instants at millisecond precision", func(t *testing.T) {
		n := newTestNormalizer(time.UTC)

		event, err := n.NormalizeUserInput(UserInput{
			Title: "Standup",
			Start: time.Date(2024, 3, 4, 9, 0, 0, 123456789, time.UTC),
			End:   time.Date(2024, 3, 4, 9, 15, 0, 999999999, time.UTC),
		})

		require.NoError(t, err)
		assert.Equal(t, 123000000, event.Start.Nanosecond())
		assert.Equal(t, 999000000, event.End.Nanosecond())
	})

	t.Run("should reject a range that collapses below a millisecond", func(t *testing.T) {
		start := time.Date(2024, 3, 4, 9, 0, 0, 100, time.UTC)

		_, err := newTestNormalizer(time.UTC).NormalizeUserInput(UserInput{Title: "Blink", Start: start, End: start.Add(500 * time.Nanosecond)})

		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("should build a user event with a fresh id", func(t *testing.T) {
		// given
		n := newTestNormalizer(time.UTC)
		input := UserInput{
			Title: "Lunch",
			Type:  Family,
			Start: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 3, 1, 13, 15, 0, 0, time.UTC),
		}

		// when
		first, err := n.NormalizeUserInput(input)
		require.NoError(t, err)
		second, err := n.NormalizeUserInput(input)
		require.NoError(t, err)

		// then
		assert.NotEqual(t, first.ID, second.ID)
		assert.False(t, first.Predefined)
		assert.Equal(t, "12:00", first.StartTime)
		assert.Equal(t, "13:15", first.EndTime)
		assert.Empty(t, first.Duration)
	})

	t.Run("should generate uuids by default", func(t *testing.T) {
		event, err := NewNormalizer(time.UTC).NormalizeUserInput(UserInput{
			Title: "Call",
			Start: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
		})

		require.NoError(t, err)
		assert.Len(t, event.ID, 36)
		assert.Equal(t, Personal, event.Type)
	})

	t.Run("should reject end before start", func(t *testing.T) {
		_, err := newTestNormalizer(time.UTC).NormalizeUserInput(UserInput{
			Title: "Backwards",
			Start: time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 3, 1, 13, 0, 0, 0, time.UTC),
		})
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("should reject end equal to start", func(t *testing.T) {
		at := time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC)
		_, err := newTestNormalizer(time.UTC).NormalizeUserInput(UserInput{Title: "Instant", Start: at, End: at})
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("should reject a blank title", func(t *testing.T) {
		_, err := newTestNormalizer(time.UTC).NormalizeUserInput(UserInput{
			Title: "  ",
			Start: time.Date(2024, 3, 1, 13, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC),
		})
		assert.ErrorIs(t, err, ErrMissingTitle)
	})
}

func TestNewUserInput(t *testing.T) {
	t.Run("should combine the form date with both clock times", func(t *testing.T) {
		input, err := NewUserInput(EventForm{Title: "Review", Type: "work", Date: "2024-03-01", StartTime: "14:00", EndTime: "15:30"}, warsaw)

		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 1, 14, 0, 0, 0, warsaw), input.Start)
		assert.Equal(t, time.Date(2024, 3, 1, 15, 30, 0, 0, warsaw), input.End)
		assert.Equal(t, Work, input.Type)
	})

	t.Run("should reject unparsable fields", func(t *testing.T) {
		_, err := NewUserInput(EventForm{Title: "x", Date: "01/03/2024", StartTime: "14:00", EndTime: "15:00"}, time.UTC)
		assert.ErrorIs(t, err, ErrInvalidForm)

		_, err = NewUserInput(EventForm{Title: "x", Date: "2024-03-01", StartTime: "14:00", EndTime: "late"}, time.UTC)
		assert.ErrorIs(t, err, ErrInvalidForm)
	})
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		token string
		want  time.Duration
	}{
		{"30m", 30 * time.Minute},
		{"2h", 2 * time.Hour},
		{"90min", 90 * time.Minute},
		{"1.5h", time.Hour},
		{"45", 45 * time.Minute},
		{" 3h ", 3 * time.Hour},
		{"-1h", -time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := ParseDuration(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, token := range []string{"", "h", "abc", "-", "9999999999999h", "-9999999999999h", "99999999999999999999m"} {
		_, err := ParseDuration(token)
		assert.ErrorIs(t, err, ErrMalformedCatalogEntry, token)
	}
}

func TestDate(t *testing.T) {
	d, err := ParseDate("2024-02-28")
	require.NoError(t, err)

	assert.Equal(t, Date{2024, time.March, 1}, d.AddDays(2))
	assert.Equal(t, time.Wednesday, d.Weekday())
	assert.True(t, d.Before(d.AddDays(1)))
	assert.False(t, d.Before(d))
	assert.Equal(t, "2024-02-28", d.String())

	var parsed Date
	require.NoError(t, parsed.UnmarshalText([]byte("2023-12-31")))
	assert.Equal(t, Date{2023, time.December, 31}, parsed)
	assert.Error(t, parsed.UnmarshalText([]byte("yesterday")))
}
