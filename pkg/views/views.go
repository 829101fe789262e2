package views

import (
	"fmt"
	"time"

	"github.com/kairoplan/kairoplan/pkg/calendar"
)

// PreviewSize is how many events a month summary of the year view shows.
const PreviewSize = 3

// EventItem is an event as a view draws it.
type EventItem struct {
	calendar.EventDTO
	Conflict  bool `json:"conflict"`
	Deletable bool `json:"deletable"`
	Span      int  `json:"span,omitempty"` // hour rows covered, detailed grid only
}

type DayCell struct {
	Date    calendar.Date `json:"date"`
	Weekday string        `json:"weekday"`
	InMonth bool          `json:"inMonth"`
	Today   bool          `json:"today"`
	Events  []EventItem   `json:"events"`
}

type MonthGrid struct {
	Year     int        `json:"year"`
	Month    time.Month `json:"month"`
	Weekdays []string   `json:"weekdays"`
	Cells    []DayCell  `json:"cells"`
}

type WeekStrip struct {
	Start calendar.Date `json:"start"`
	End   calendar.Date `json:"end"`
	Days  []DayCell     `json:"days"`
}

type HourSlot struct {
	Hour    int         `json:"hour"`
	Label   string      `json:"label"`
	Events  []EventItem `json:"events"`
	Primary *EventItem  `json:"primary,omitempty"`
}

type DayPlan struct {
	Date  calendar.Date `json:"date"`
	Slots []HourSlot    `json:"slots"`
}

type MonthSummary struct {
	Month   time.Month  `json:"month"`
	Name    string      `json:"name"`
	Preview []EventItem `json:"preview"`
	Total   int         `json:"total"`
	More    int         `json:"more"`
}

type YearOverview struct {
	Year   int            `json:"year"`
	Months []MonthSummary `json:"months"`
}

type DetailedDay struct {
	Date  calendar.Date `json:"date"`
	Label string        `json:"label"`
	Hours []HourSlot    `json:"hours"`
}

type DetailedGrid struct {
	Start calendar.Date `json:"start"`
	Days  []DetailedDay `json:"days"`
}

// StartOfWeek returns the first day of the week containing date.
func StartOfWeek(date calendar.Date, weekStart time.Weekday) calendar.Date {
	if weekStart < time.Sunday || weekStart > time.Saturday {
		weekStart = time.Sunday
	}
	delta := (int(date.Weekday()) - int(weekStart) + 7) % 7
	return date.AddDays(-delta)
}

// Weekdays returns the short weekday names starting at weekStart.
func Weekdays(weekStart time.Weekday) []string {
	names := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		names = append(names, time.Weekday((int(weekStart)+i)%7).String()[:3])
	}
	return names
}

// Month lays out every day from the start of the week containing the 1st to
// the end of the week containing the last day of the month.
func Month(events []calendar.Event, year int, month time.Month, weekStart time.Weekday, today calendar.Date) MonthGrid {
	first := calendar.Date{Year: year, Month: month, Day: 1}
	last := calendar.DateOf(time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC))
	from := StartOfWeek(first, weekStart)
	to := StartOfWeek(last, weekStart).AddDays(6)

	grid := MonthGrid{Year: year, Month: month, Weekdays: Weekdays(weekStart)}
	for d := from; !to.Before(d); d = d.AddDays(1) {
		cell := dayCell(events, d, today)
		cell.InMonth = d.Year == year && d.Month == month
		grid.Cells = append(grid.Cells, cell)
	}
	return grid
}

// Week returns the seven days of the week containing date.
func Week(events []calendar.Event, date calendar.Date, weekStart time.Weekday, today calendar.Date) WeekStrip {
	start := StartOfWeek(date, weekStart)
	strip := WeekStrip{Start: start, End: start.AddDays(6), Days: make([]DayCell, 0, 7)}
	for i := 0; i < 7; i++ {
		d := start.AddDays(i)
		cell := dayCell(events, d, today)
		cell.InMonth = d.Month == date.Month
		strip.Days = append(strip.Days, cell)
	}
	return strip
}

// Day returns 24 hour slots, each holding the events covering that hour.
func Day(events []calendar.Event, date calendar.Date) DayPlan {
	dayEvents := calendar.SortByStart(calendar.EventsOn(events, date))
	conflicts := calendar.Conflicts(dayEvents)

	plan := DayPlan{Date: date, Slots: make([]HourSlot, 0, 24)}
	for hour := 0; hour < 24; hour++ {
		slot := HourSlot{Hour: hour, Label: hourLabel(hour), Events: items(calendar.EventsAt(dayEvents, date, hour), conflicts)}
		if len(slot.Events) > 0 {
			primary := slot.Events[0]
			slot.Primary = &primary
		}
		plan.Slots = append(plan.Slots, slot)
	}
	return plan
}

// Year summarizes each month with a short preview and an overflow count.
func Year(events []calendar.Event, year int) YearOverview {
	overview := YearOverview{Year: year, Months: make([]MonthSummary, 0, 12)}
	for month := time.January; month <= time.December; month++ {
		monthEvents := calendar.SortByStart(calendar.EventsIn(events, year, month))
		preview := monthEvents
		if len(preview) > PreviewSize {
			preview = preview[:PreviewSize]
		}
		overview.Months = append(overview.Months, MonthSummary{
			Month:   month,
			Name:    month.String(),
			Preview: items(preview, nil),
			Total:   len(monthEvents),
			More:    len(monthEvents) - len(preview),
		})
	}
	return overview
}

// Detailed is the week-by-hour grid. Each event is placed once, in the hour
// it starts, with Span giving the rows it covers.
func Detailed(events []calendar.Event, weekOf calendar.Date, weekStart time.Weekday) DetailedGrid {
	start := StartOfWeek(weekOf, weekStart)
	grid := DetailedGrid{Start: start, Days: make([]DetailedDay, 0, 7)}
	for i := 0; i < 7; i++ {
		d := start.AddDays(i)
		dayEvents := calendar.SortByStart(calendar.EventsOn(events, d))
		conflicts := calendar.Conflicts(dayEvents)
		day := DetailedDay{
			Date:  d,
			Label: fmt.Sprintf("%s, %s %d", d.Weekday().String()[:3], d.Month.String()[:3], d.Day),
			Hours: make([]HourSlot, 0, 24),
		}
		for hour := 0; hour < 24; hour++ {
			slot := HourSlot{Hour: hour, Label: hourLabel(hour)}
			for _, e := range calendar.EventsStartingAt(dayEvents, d, hour) {
				placed := item(e, conflicts[e.ID])
				placed.Span = max(1, e.End.Hour()-e.Start.Hour())
				slot.Events = append(slot.Events, placed)
			}
			if slot.Events == nil {
				slot.Events = []EventItem{}
			}
			day.Hours = append(day.Hours, slot)
		}
		grid.Days = append(grid.Days, day)
	}
	return grid
}

func dayCell(events []calendar.Event, d calendar.Date, today calendar.Date) DayCell {
	dayEvents := calendar.SortByStart(calendar.EventsOn(events, d))
	return DayCell{
		Date:    d,
		Weekday: d.Weekday().String()[:3],
		Today:   d == today,
		Events:  items(dayEvents, calendar.Conflicts(dayEvents)),
	}
}

func items(events []calendar.Event, conflicts map[string]bool) []EventItem {
	result := make([]EventItem, 0, len(events))
	for _, e := range events {
		result = append(result, item(e, conflicts[e.ID]))
	}
	return result
}

func item(e calendar.Event, conflict bool) EventItem {
	return EventItem{
		EventDTO:  calendar.EventToDTO(e),
		Conflict:  conflict,
		Deletable: e.Deletable(),
	}
}

func hourLabel(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}
