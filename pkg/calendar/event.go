package calendar

import (
	"fmt"
	"time"
)

type Type string

const (
	Meeting  Type = "meeting"
	Birthday Type = "birthday"
	Deadline Type = "deadline"
	Work     Type = "work"
	Holiday  Type = "holiday"
	Family   Type = "family"
	Personal Type = "personal"
)

// DefaultType is assigned when a source omits the type.
const DefaultType = Personal

// Types lists the known event types in display order.
var Types = []Type{Meeting, Birthday, Deadline, Work, Holiday, Family, Personal}

// Known reports whether t is one of Types. Unknown types are kept verbatim on events.
func (t Type) Known() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// Date is a calendar day without time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// In returns midnight of the day in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// AddDays normalizes overflow, so Date{2024, 1, 31}.AddDays(1) is February 1st.
func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC))
}

func (d Date) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Weekday()
}

func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Event is the canonical record every view consumes. Start and End are the
// source of truth; Date, StartTime, EndTime and Time are only ever set by
// derive.
type Event struct {
	ID         string
	Title      string
	Type       Type
	Date       Date
	StartTime  string
	EndTime    string
	Time       string // alias of StartTime kept for older display code
	Duration   string // raw catalog duration token, empty for user events
	Start      time.Time
	End        time.Time
	Predefined bool
}

// derive recomputes the wall-clock fields from the instant pair in loc.
func (e *Event) derive(loc *time.Location) {
	e.Start = e.Start.In(loc)
	e.End = e.End.In(loc)
	e.Date = DateOf(e.Start)
	e.StartTime = e.Start.Format(ClockLayout)
	e.EndTime = e.End.Format(ClockLayout)
	e.Time = e.StartTime
}

// Deletable reports whether a user action may remove the event.
func (e Event) Deletable() bool {
	return !e.Predefined
}
