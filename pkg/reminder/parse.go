package reminder

import (
	"strings"
	"time"
	_ "time/tzdata" // zone names must resolve on hosts without a zoneinfo database

	"github.com/matzehuels/eventboard/pkg/errors"
)

// dateLayouts are tried in order against the date field.
var dateLayouts = []string{
	"1/2/2006",
	"2006-01-02",
	"1/2/06",
	"1-2-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"2 Jan 2006",
}

// clockLayouts are tried in order against the lower-cased time field.
var clockLayouts = []string{
	"3:04pm",
	"3pm",
	"15:04",
	"15:04:05",
	"3:04:05pm",
}

// zoneAliases maps the abbreviations people type to IANA zones.
var zoneAliases = map[string]string{
	"et": "America/New_York", "est": "America/New_York", "edt": "America/New_York",
	"ct": "America/Chicago", "cst": "America/Chicago", "cdt": "America/Chicago",
	"mt": "America/Denver", "mst": "America/Denver", "mdt": "America/Denver",
	"pt": "America/Los_Angeles", "pst": "America/Los_Angeles", "pdt": "America/Los_Angeles",
	"utc": "UTC", "gmt": "UTC", "z": "UTC",
	"bst": "Europe/London", "cet": "Europe/Berlin", "cest": "Europe/Berlin",
}

// ParseStart combines the free-form date and start time of an event into an
// instant. A zone written after the time ("01:00am ET", "9pm Europe/Paris")
// wins over loc; loc defaults to UTC.
func ParseStart(date, startTime string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	day, err := parseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	clock, zone, err := parseClock(startTime)
	if err != nil {
		return time.Time{}, err
	}
	if zone != nil {
		loc = zone
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0, loc), nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New(errors.ErrCodeInvalidTime, "unrecognized date %q (ex. 12/31/2000)", s)
}

func parseClock(s string) (time.Time, *time.Location, error) {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 0 {
		return time.Time{}, nil, errors.New(errors.ErrCodeInvalidTime, "start time is required")
	}

	var zone *time.Location
	if len(fields) > 1 {
		if loc, ok := lookupZone(fields[len(fields)-1]); ok {
			zone = loc
			fields = fields[:len(fields)-1]
		}
	}
	// "7:30 pm" and "7:30pm" are the same.
	clock := strings.Join(fields, "")
	clock = strings.ReplaceAll(clock, ".", "")

	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, clock); err == nil {
			return t, zone, nil
		}
	}
	return time.Time{}, nil, errors.New(errors.ErrCodeInvalidTime, "unrecognized time %q (ex. 01:00am ET)", strings.TrimSpace(s))
}

func lookupZone(name string) (*time.Location, bool) {
	if iana, ok := zoneAliases[name]; ok {
		name = iana
	} else if !strings.Contains(name, "/") {
		return nil, false
	}
	// Fields were lower-cased; IANA names are matched case-sensitively.
	loc, err := time.LoadLocation(canonicalZone(name))
	if err != nil {
		return nil, false
	}
	return loc, true
}

// canonicalZone restores the capitalization of an IANA name:
// "america/new_york" becomes "America/New_York".
func canonicalZone(name string) string {
	if name == "UTC" || !strings.Contains(name, "/") {
		return name
	}
	b := []byte(name)
	upper := true
	for i, c := range b {
		if upper && c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
		upper = c == '/' || c == '_' || c == '-'
	}
	return string(b)
}
