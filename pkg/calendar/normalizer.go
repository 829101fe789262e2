package calendar

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidRange          = errors.New("event end must be after its start")
	ErrMissingTitle          = errors.New("event title is required")
	ErrMalformedCatalogEntry = errors.New("malformed catalog entry")
	ErrInvalidForm           = errors.New("invalid event form")
)

// CatalogEntry is one predefined event definition as shipped with the application.
type CatalogEntry struct {
	ID       string
	Title    string
	Type     string
	Date     string // YYYY-MM-DD
	Time     string // HH:mm
	Duration string // integer with unit suffix: "30m", "2h"
}

// UserInput is a submitted event with already resolved instants.
type UserInput struct {
	Title string
	Type  Type
	Start time.Time
	End   time.Time
}

// EventForm holds the raw fields of the add-event form.
type EventForm struct {
	Title     string `json:"title"`
	Type      string `json:"type"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// NewUserInput combines the form's date with its start and end clock times in loc.
func NewUserInput(form EventForm, loc *time.Location) (UserInput, error) {
	start, err := time.ParseInLocation(DateLayout+" "+ClockLayout, form.Date+" "+form.StartTime, loc)
	if err != nil {
		return UserInput{}, fmt.Errorf("%w: start: %w", ErrInvalidForm, err)
	}
	end, err := time.ParseInLocation(DateLayout+" "+ClockLayout, form.Date+" "+form.EndTime, loc)
	if err != nil {
		return UserInput{}, fmt.Errorf("%w: end: %w", ErrInvalidForm, err)
	}
	return UserInput{
		Title: form.Title,
		Type:  Type(form.Type),
		Start: start,
		End:   end,
	}, nil
}

// Normalizer turns both event sources into canonical events. All wall-clock
// fields are derived in its location. A missing type becomes DefaultType here
// and nowhere else.
type Normalizer struct {
	loc   *time.Location
	newID func() string
}

func NewNormalizer(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.Local
	}
	return &Normalizer{loc: loc, newID: uuid.NewString}
}

func (n *Normalizer) Location() *time.Location {
	return n.loc
}

func (n *Normalizer) NormalizePredefined(entry CatalogEntry) (Event, error) {
	if strings.TrimSpace(entry.Title) == "" {
		return Event{}, fmt.Errorf("%w: %w", ErrMalformedCatalogEntry, ErrMissingTitle)
	}
	start, err := time.ParseInLocation(DateLayout+" "+ClockLayout, entry.Date+" "+entry.Time, n.loc)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %q: %w", ErrMalformedCatalogEntry, entry.Title, err)
	}
	duration, err := ParseDuration(entry.Duration)
	if err != nil {
		return Event{}, fmt.Errorf("%q: %w", entry.Title, err)
	}

	event := Event{
		ID:         entry.ID,
		Title:      entry.Title,
		Type:       typeOrDefault(Type(entry.Type)),
		Duration:   entry.Duration,
		Start:      start,
		End:        start.Add(duration),
		Predefined: true,
	}
	if event.ID == "" {
		event.ID = n.newID()
	}
	if !event.End.After(event.Start) {
		return Event{}, fmt.Errorf("%w: catalog entry %q", ErrInvalidRange, entry.Title)
	}
	event.derive(n.loc)
	return event, nil
}

func (n *Normalizer) NormalizeUserInput(input UserInput) (Event, error) {
	if strings.TrimSpace(input.Title) == "" {
		return Event{}, ErrMissingTitle
	}
	// stored instants keep milliseconds only
	start := input.Start.Truncate(time.Millisecond)
	end := input.End.Truncate(time.Millisecond)
	if !end.After(start) {
		return Event{}, ErrInvalidRange
	}
	event := Event{
		ID:    n.newID(),
		Title: input.Title,
		Type:  typeOrDefault(input.Type),
		Start: start,
		End:   end,
	}
	event.derive(n.loc)
	return event, nil
}

// ParseDuration reads a catalog duration token: the leading integer, in hours
// when the token contains "h" and in minutes otherwise. Trailing text after
// the number is ignored, so "90min" is 90 minutes and "1.5h" is one hour.
// Errors wrap ErrMalformedCatalogEntry.
func ParseDuration(token string) (time.Duration, error) {
	s := strings.TrimSpace(token)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, fmt.Errorf("%w: duration %q has no leading number", ErrMalformedCatalogEntry, token)
	}
	value, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: duration %q: %w", ErrMalformedCatalogEntry, token, err)
	}

	unit := time.Minute
	if strings.Contains(token, "h") {
		unit = time.Hour
	}
	limit := math.MaxInt64 / int64(unit)
	if value > limit || value < -limit {
		return 0, fmt.Errorf("%w: duration %q is out of range", ErrMalformedCatalogEntry, token)
	}
	return time.Duration(value) * unit, nil
}

func typeOrDefault(t Type) Type {
	if strings.TrimSpace(string(t)) == "" {
		return DefaultType
	}
	return t
}
