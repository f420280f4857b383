// Package schedule turns a weekly time slot entered on the calendar form
// into concrete event occurrences.
//
// Creation may fan out: a repeating slot becomes one independent event per
// week for a year. Editing never fans out: it rewrites exactly one
// occurrence in place and keeps its id. Nothing links the occurrences of a
// series once they are created.
package schedule

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/aanand-mishra/tutoring-api/internal/types"
)

// Period is the AM/PM half of a 12-hour clock reading.
type Period string

const (
	AM Period = "AM"
	PM Period = "PM"
)

// ErrEndBeforeStart is returned by Slot.Check when the end time of day
// comes before the start time of day.
var ErrEndBeforeStart = errors.New("end time is before start time")

// Horizon is how far ahead a repeating slot is expanded.
const Horizon = 1 // years

// Slot is the calendar form payload.
//
// Hours are 12-hour clock values with quarter-hour fractions:
// 9.5 with AM is 09:30, 12.25 with PM is 12:15, 12 with AM is midnight.
type Slot struct {
	Title       string  `json:"title"       validate:"required"`
	DayOfWeek   int     `json:"dayOfWeek"   validate:"min=0,max=6"`
	StartHour   float64 `json:"startHour"   validate:"min=0,max=12.75"`
	StartPeriod Period  `json:"startPeriod" validate:"required,oneof=AM PM"`
	EndHour     float64 `json:"endHour"     validate:"min=0,max=12.75"`
	EndPeriod   Period  `json:"endPeriod"   validate:"required,oneof=AM PM"`
	Repeat      bool    `json:"repeat"`
}

// Check rejects a slot whose end precedes its start on the same day.
// An end equal to the start is allowed.
func (s Slot) Check() error {
	sh, sm := WallClock(s.StartHour, s.StartPeriod)
	eh, em := WallClock(s.EndHour, s.EndPeriod)
	if eh*60+em < sh*60+sm {
		return ErrEndBeforeStart
	}
	return nil
}

// WallClock converts a fractional 12-hour reading to a 24-hour hour and
// minute. Minutes are rounded to the nearest whole minute.
func WallClock(hour float64, period Period) (h, m int) {
	whole := math.Floor(hour)
	h = int(whole)
	m = int(math.Round((hour - whole) * 60))

	switch {
	case period == PM && h < 12:
		h += 12
	case period == AM && h == 12:
		h = 0
	}
	return h, m
}

// At returns day's calendar date at the given wall-clock reading in loc.
func At(day time.Time, hour float64, period Period, loc *time.Location) time.Time {
	y, mo, d := day.In(loc).Date()
	h, m := WallClock(hour, period)
	// time.Date normalizes m == 60 into the next hour.
	return time.Date(y, mo, d, h, m, 0, 0, loc)
}

// Anchor returns the date of the slot's weekday within now's Sunday-based
// week: now shifted back to Sunday, then forward by dayOfWeek. The result is
// midnight in loc.
func Anchor(now time.Time, dayOfWeek int, loc *time.Location) time.Time {
	y, mo, d := now.In(loc).Date()
	today := time.Date(y, mo, d, 0, 0, 0, 0, loc)
	return today.AddDate(0, 0, dayOfWeek-int(today.Weekday()))
}

// Dates lists the calendar days a slot occupies, relative to now.
func Dates(slot Slot, now time.Time, loc *time.Location) []time.Time {
	y, mo, d := now.In(loc).Date()
	today := time.Date(y, mo, d, 0, 0, 0, 0, loc)
	if !slot.Repeat {
		return []time.Time{today}
	}

	last := today.AddDate(Horizon, 0, 0)
	var dates []time.Time
	for day := Anchor(now, slot.DayOfWeek, loc); !day.After(last); day = day.AddDate(0, 0, 7) {
		dates = append(dates, day)
	}
	return dates
}

// Expand produces the events a slot creates. Every occurrence gets its
// own id, title and time of day are identical, only the date advances.
// Times are returned in UTC.
func Expand(slot Slot, now time.Time, loc *time.Location) []types.Event {
	dates := Dates(slot, now, loc)
	events := make([]types.Event, 0, len(dates))
	for _, day := range dates {
		events = append(events, occurrence(uuid.NewString(), slot, day, loc))
	}
	return events
}

// Edit recomputes a single existing occurrence from the form. It uses the
// first date Expand would produce and keeps the existing id; it never
// creates additional occurrences, even when slot.Repeat is set.
func Edit(existing types.Event, slot Slot, now time.Time, loc *time.Location) types.Event {
	day := Dates(slot, now, loc)[0]
	return occurrence(existing.ID, slot, day, loc)
}

func occurrence(id string, slot Slot, day time.Time, loc *time.Location) types.Event {
	return types.Event{
		ID:    id,
		Title: slot.Title,
		Start: At(day, slot.StartHour, slot.StartPeriod, loc).UTC(),
		End:   At(day, slot.EndHour, slot.EndPeriod, loc).UTC(),
	}
}
