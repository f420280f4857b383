// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, storage, and the domain packages (roster, schedule, report)
// can all import types without depending on each other.
package types

import (
	"encoding/json"
	"time"
)

// Fixed vector sizes. Every stored student carries exactly this many slots,
// no matter what the client sent.
const (
	PaymentSlots = 12 // one per trailing month, oldest first
	SessionSlots = 8  // sessions 1..8
)

// Student represents a student record.
//
// PaidMonths is positional: index 0 is the oldest of the trailing 12 months
// relative to "now". No calendar date is stored per slot.
type Student struct {
	ID         int64          `json:"id"`
	Name       string         `json:"name"`
	Age        int            `json:"age"`
	Phone      string         `json:"phone"`
	Level      int            `json:"level"`
	StartDate  string         `json:"startDate"`
	PaidMonths []PaymentState `json:"paidMonths"`
	Sessions   []bool         `json:"sessions"`
}

// NewStudent is the payload accepted on creation.
//
// Struct tags serve two purposes:
//
//  1. json:"..."  — the wire name of the field.
//  2. validate:"..." — rules checked by go-playground/validator.
//     "required" means the field must be non-zero / non-empty, so an age
//     of 0 is rejected the same way a missing age is.
type NewStudent struct {
	Name      string     `json:"name"      validate:"required"`
	Age       LenientInt `json:"age"       validate:"required"`
	Phone     string     `json:"phone"     validate:"required"`
	Level     LenientInt `json:"level"`
	StartDate string     `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
}

// StudentPatch is the payload accepted on replacement (PUT).
//
// Pointer fields distinguish "absent" (nil, keep the stored value) from
// "present". The two vectors are NOT kept when absent: a replacement
// without them resets them to all-zero / all-false.
type StudentPatch struct {
	Name       *string        `json:"name"`
	Age        *LenientInt    `json:"age"`
	Phone      *string        `json:"phone"`
	Level      *LenientInt    `json:"level"`
	StartDate  *string        `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	PaidMonths []PaymentState `json:"paidMonths"`
	Sessions   []bool         `json:"sessions"`
}

// TimePrecision is the resolution event times are kept at. Every backend
// stores exactly this much, so a stored event reads back unchanged.
const TimePrecision = time.Millisecond

// Event is one concrete calendar occurrence. Occurrences created from a
// repeating slot carry no series identifier; each one is independent.
type Event struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// UnmarshalJSON accepts numeric ids as well as strings, so documents whose
// events were keyed by a creation timestamp still decode.
func (e *Event) UnmarshalJSON(data []byte) error {
	type plain Event
	aux := struct {
		*plain
		ID LenientString `json:"id"`
	}{plain: (*plain)(e)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	e.ID = string(aux.ID)
	return nil
}

// Normalized returns e in UTC at TimePrecision.
func (e Event) Normalized() Event {
	e.Start = e.Start.UTC().Truncate(TimePrecision)
	e.End = e.End.UTC().Truncate(TimePrecision)
	return e
}

// EventInput is the raw occurrence payload accepted on create/replace.
type EventInput struct {
	Title string    `json:"title" validate:"required"`
	Start time.Time `json:"start" validate:"required"`
	End   time.Time `json:"end"   validate:"required,gtefield=Start"`
}

// Event builds the stored occurrence for in under id.
func (in EventInput) Event(id string) Event {
	return Event{ID: id, Title: in.Title, Start: in.Start, End: in.End}.Normalized()
}

// PriceTable maps a level to its unit price.
type PriceTable map[int]float64

// Price returns the unit price for level, or 0 when the level has no entry.
func (p PriceTable) Price(level int) float64 {
	return p[level]
}

// Normalize is the explicit default-fill step applied at every boundary
// (decode, storage read, toggle): both vectors are resized to their fixed
// lengths and unknown payment values become PaymentUnset.
func Normalize(s *Student) {
	s.PaidMonths = normalizePayments(s.PaidMonths)
	s.Sessions = normalizeSessions(s.Sessions)
}

func normalizePayments(in []PaymentState) []PaymentState {
	out := make([]PaymentState, PaymentSlots)
	for i := 0; i < len(in) && i < PaymentSlots; i++ {
		if in[i].Valid() {
			out[i] = in[i]
		}
	}
	return out
}

func normalizeSessions(in []bool) []bool {
	out := make([]bool, SessionSlots)
	copy(out, in)
	return out
}
