// Package ical exports the board as an iCalendar feed.
package ical

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/soh335/ical"

	"github.com/matzehuels/eventboard/pkg/buildinfo"
	"github.com/matzehuels/eventboard/pkg/event"
	"github.com/matzehuels/eventboard/pkg/reminder"
)

// Options configures Export.
type Options struct {
	Name     string         // Calendar name (default "Community Events")
	Location *time.Location // Zone for times typed without one (default UTC)
}

// Skipped is an event left out of the feed because its date or time could
// not be parsed.
type Skipped struct {
	Event event.Event
	Err   error
}

// Export writes es as a VCALENDAR to w. Events whose schedule cannot be
// parsed are returned instead of written.
func Export(w io.Writer, es event.Events, opts Options) ([]Skipped, error) {
	if opts.Name == "" {
		opts.Name = "Community Events"
	}

	cal := ical.NewBasicVCalendar()
	cal.PRODID = fmt.Sprintf("-//eventboard//EN/%s", buildinfo.Version)
	cal.VERSION = "2.0"
	cal.NAME = opts.Name
	cal.X_WR_CALNAME = opts.Name
	cal.DESCRIPTION = opts.Name
	cal.X_WR_CALDESC = opts.Name
	cal.TIMEZONE_ID = "UTC"
	cal.X_WR_TIMEZONE = "UTC"
	cal.REFRESH_INTERVAL = "PT1H"
	cal.X_PUBLISHED_TTL = "PT1H"
	cal.CALSCALE = "GREGORIAN"
	cal.METHOD = "PUBLISH"

	var skipped []Skipped
	for _, ev := range es {
		start, end, err := span(ev, opts.Location)
		if err != nil {
			skipped = append(skipped, Skipped{Event: ev, Err: err})
			continue
		}
		stamp := ev.CreatedAt
		if stamp.IsZero() {
			stamp = start
		}
		cal.VComponent = append(cal.VComponent, &ical.VEvent{
			UID:         uid(ev),
			DTSTAMP:     stamp.UTC(),
			DTSTART:     start.UTC(),
			DTEND:       end.UTC(),
			SUMMARY:     ev.Title,
			DESCRIPTION: description(ev),
			TZID:        "UTC",
		})
	}

	if err := cal.Encode(w); err != nil {
		return skipped, fmt.Errorf("encode calendar: %w", err)
	}
	return skipped, nil
}

// span returns the start and end of ev. An end at or before the start is
// taken to be on the following day.
func span(ev event.Event, loc *time.Location) (time.Time, time.Time, error) {
	start, err := reminder.ParseStart(ev.Date, ev.StartTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := reminder.ParseStart(ev.Date, ev.EndTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}
	return start, end, nil
}

func uid(ev event.Event) string {
	id := ev.ID
	if id == "" {
		id = strings.ToLower(strings.Join(strings.Fields(ev.Title), "-"))
	}
	return id + "@eventboard"
}

func description(ev event.Event) string {
	parts := make([]string, 0, 3)
	if ev.Description != "" {
		parts = append(parts, ev.Description)
	}
	if ev.Link != "" {
		parts = append(parts, ev.Link)
	}
	if n := len(ev.Attending); n > 0 {
		parts = append(parts, fmt.Sprintf("%d attending", n))
	}
	return strings.Join(parts, " | ")
}
