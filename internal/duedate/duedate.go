// Package duedate converts between the date-only values typed into task forms
// and the absolute instants exchanged with the server.
//
// A form date means midnight of that calendar day in the user's location.
// Converting it to an instant and back in the same location always yields the
// same calendar date.
package duedate

import (
	"fmt"
	"strings"
	"time"
)

// FormLayout is the layout of form date values.
const FormLayout = "2006-01-02"

// instantLayout matches JavaScript's Date.prototype.toISOString.
const instantLayout = "2006-01-02T15:04:05.000Z"

// NotSet is displayed for tasks without a due date.
const NotSet = "N/A"

// Layouts accepted for server timestamps. Timestamps without an offset are
// read as UTC: the server stores the UTC instant it was sent and drops the zone.
var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ToInstant converts a form date to an ISO-8601 instant at local midnight.
// An empty value returns "".
func ToInstant(value string, loc *time.Location) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	d, err := time.ParseInLocation(FormLayout, value, location(loc))
	if err != nil {
		return "", fmt.Errorf("invalid due date %q (want YYYY-MM-DD)", value)
	}
	return d.UTC().Format(instantLayout), nil
}

// Parse reads a server timestamp. A bare date is taken as midnight in loc.
func Parse(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if t, err := time.ParseInLocation(FormLayout, s, location(loc)); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// FormValue returns the calendar date of a server timestamp in loc, in form
// layout, for pre-filling an edit form. A timestamp that cannot be parsed
// keeps its leading YYYY-MM-DD, if it has one; otherwise the result is "".
func FormValue(s string, loc *time.Location) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	t, err := Parse(s, loc)
	if err != nil {
		return datePrefix(s)
	}
	return t.In(location(loc)).Format(FormLayout)
}

func datePrefix(s string) string {
	if len(s) < len(FormLayout) {
		return ""
	}
	prefix := s[:len(FormLayout)]
	if _, err := time.Parse(FormLayout, prefix); err != nil {
		return ""
	}
	return prefix
}

// Display renders a server timestamp as a date in loc using layout.
// An empty timestamp renders NotSet; an unreadable one is shown as is.
func Display(s string, loc *time.Location, layout string) string {
	if strings.TrimSpace(s) == "" {
		return NotSet
	}
	t, err := Parse(s, loc)
	if err != nil {
		return s
	}
	return t.In(location(loc)).Format(layout)
}

func location(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
