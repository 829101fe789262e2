package export

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/kairoplan/kairoplan/pkg/calendar"
	log "github.com/sirupsen/logrus"
)

const ProductID = "-//kairoplan//calendar//EN"

var ErrInvalidICS = errors.New("invalid iCalendar data")

// ICS renders events as a published VCALENDAR. Instants are written in UTC.
func ICS(events []calendar.Event, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(ProductID)

	for _, e := range events {
		vevent := cal.AddEvent(e.ID)
		vevent.SetSummary(e.Title)
		vevent.SetStartAt(e.Start)
		vevent.SetEndAt(e.End)
		vevent.SetDtStampTime(now)
		vevent.SetProperty(ical.ComponentPropertyCategories, string(e.Type))
	}
	return cal.Serialize()
}

// ParseICS reads VEVENTs into user inputs. Events without a summary or
// without both DTSTART and DTEND are skipped. The first CATEGORIES value
// becomes the event type.
func ParseICS(r io.Reader) ([]calendar.UserInput, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidICS, err)
	}

	inputs := make([]calendar.UserInput, 0)
	for _, vevent := range cal.Events() {
		input, err := userInput(vevent)
		if err != nil {
			log.Warnf("skipping VEVENT %s: %v", uid(vevent), err)
			continue
		}
		inputs = append(inputs, input)
	}
	log.Debugf("parsed %d events from iCalendar data", len(inputs))
	return inputs, nil
}

func userInput(vevent *ical.VEvent) (calendar.UserInput, error) {
	summary := vevent.GetProperty(ical.ComponentPropertySummary)
	if summary == nil || strings.TrimSpace(summary.Value) == "" {
		return calendar.UserInput{}, errors.New("missing SUMMARY")
	}
	start, err := vevent.GetStartAt()
	if err != nil {
		return calendar.UserInput{}, fmt.Errorf("DTSTART: %w", err)
	}
	end, err := vevent.GetEndAt()
	if err != nil {
		return calendar.UserInput{}, fmt.Errorf("DTEND: %w", err)
	}

	var eventType calendar.Type
	if categories := vevent.GetProperty(ical.ComponentPropertyCategories); categories != nil {
		first, _, _ := strings.Cut(categories.Value, ",")
		eventType = calendar.Type(strings.ToLower(strings.TrimSpace(first)))
	}
	return calendar.UserInput{
		Title: unescapeText(summary.Value),
		Type:  eventType,
		Start: start,
		End:   end,
	}, nil
}

func uid(vevent *ical.VEvent) string {
	if p := vevent.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		return p.Value
	}
	return "without UID"
}

var textUnescaper = strings.NewReplacer(`\\`, `\`, `\,`, ",", `\;`, ";", `\n`, "\n", `\N`, "\n")

// unescapeText reverses the TEXT escaping applied when the summary was written.
func unescapeText(s string) string {
	return textUnescaper.Replace(s)
}
