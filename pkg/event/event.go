// Package event defines the community event record and the list the board
// persists as a single JSON blob.
package event

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/eventboard/pkg/errors"
)

// Event is one posted meetup.
//
// Date, StartTime and EndTime hold the free-form text the poster typed
// (e.g. "12/31/2000" and "01:00am ET"); they are parsed only when a
// reminder is planned.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Date        string    `json:"date"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime"`
	Link        string    `json:"link,omitempty"`
	Description string    `json:"description,omitempty"`
	Attending   []string  `json:"attending"`
	CreatedBy   string    `json:"createdBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
}

// IsAttending reports whether user has RSVP'd. The empty user never attends.
func (e *Event) IsAttending(user string) bool {
	if user == "" {
		return false
	}
	return slices.Contains(e.Attending, user)
}

// Toggle flips user's attendance and returns the new state.
func (e *Event) Toggle(user string) bool {
	if i := slices.Index(e.Attending, user); i >= 0 {
		e.Attending = slices.Delete(e.Attending, i, i+1)
		return false
	}
	e.Attending = append(e.Attending, user)
	return true
}

// Validate checks the fields a poster must fill in.
func (e *Event) Validate() error {
	if err := errors.ValidateTitle(e.Title); err != nil {
		return err
	}
	for _, f := range []struct{ name, value string }{
		{"date", e.Date},
		{"start time", e.StartTime},
		{"end time", e.EndTime},
	} {
		if err := errors.ValidateRequired(f.name, f.value); err != nil {
			return err
		}
	}
	if e.Link != "" {
		if err := errors.ValidateURL(e.Link); err != nil {
			return err
		}
	}
	return nil
}

// Normalize trims surrounding blanks from the text fields.
func (e *Event) Normalize() {
	e.Title = strings.TrimSpace(e.Title)
	e.Date = strings.TrimSpace(e.Date)
	e.StartTime = strings.TrimSpace(e.StartTime)
	e.EndTime = strings.TrimSpace(e.EndTime)
	e.Link = strings.TrimSpace(e.Link)
	e.Description = strings.TrimSpace(e.Description)
}

// String returns the title and schedule on one line.
func (e Event) String() string {
	return fmt.Sprintf("%s (%s %s-%s)", e.Title, e.Date, e.StartTime, e.EndTime)
}

// Events is the board's event list, newest first.
type Events []Event

// IndexOf returns the position of the event with the given ID, or -1.
func (es Events) IndexOf(id string) int {
	return slices.IndexFunc(es, func(e Event) bool { return e.ID == id })
}

// Find returns the event with the given ID.
func (es Events) Find(id string) (Event, bool) {
	if i := es.IndexOf(id); i >= 0 {
		return es[i], true
	}
	return Event{}, false
}

// HasTitle reports whether an event with the given title exists.
// Titles compare case-insensitively after trimming.
func (es Events) HasTitle(title string) bool {
	title = strings.TrimSpace(title)
	return slices.ContainsFunc(es, func(e Event) bool {
		return strings.EqualFold(strings.TrimSpace(e.Title), title)
	})
}

// Encode serializes the list. A nil list encodes as "[]".
func Encode(es Events) (string, error) {
	es = slices.Clone(es)
	if es == nil {
		es = Events{}
	}
	for i := range es {
		if es[i].Attending == nil {
			es[i].Attending = []string{}
		}
	}
	b, err := json.Marshal(es)
	if err != nil {
		return "", fmt.Errorf("encode events: %w", err)
	}
	return string(b), nil
}

// Decode parses a stored list. The empty string decodes to an empty list.
func Decode(s string) (Events, error) {
	if strings.TrimSpace(s) == "" {
		return Events{}, nil
	}
	var es Events
	if err := json.Unmarshal([]byte(s), &es); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	if es == nil {
		es = Events{}
	}
	return es, nil
}
