package roster

import (
	"fmt"
	"strings"
	"time"

	"github.com/aanand-mishra/tutoring-api/internal/types"
)

// DefaultLevel is assigned on creation when the client sends no level.
const DefaultLevel = 1

// TogglePayment advances the payment slot at index (Unset → Paid →
// Unpaid → Unset) and leaves every other slot untouched.
func TogglePayment(s types.Student, index int) (types.Student, error) {
	if index < 0 || index >= types.PaymentSlots {
		return s, fmt.Errorf("%w: payment slot %d", ErrSlotOutOfRange, index)
	}

	s = clone(s)
	s.PaidMonths[index] = s.PaidMonths[index].Next()
	return s, nil
}

// ToggleSession flips the attendance slot at index.
func ToggleSession(s types.Student, index int) (types.Student, error) {
	if index < 0 || index >= types.SessionSlots {
		return s, fmt.Errorf("%w: session slot %d", ErrSlotOutOfRange, index)
	}

	s = clone(s)
	s.Sessions[index] = !s.Sessions[index]
	return s, nil
}

// Create builds a fresh student from a validated creation payload. The
// vectors always start empty, whatever the client sent.
func Create(in types.NewStudent, id int64, now time.Time) types.Student {
	s := types.Student{
		ID:        id,
		Name:      in.Name,
		Age:       in.Age.Int(),
		Phone:     in.Phone,
		Level:     in.Level.Int(),
		StartDate: in.StartDate,
	}
	if s.Level == 0 {
		s.Level = DefaultLevel
	}
	if s.StartDate == "" {
		s.StartDate = now.Format(time.DateOnly)
	}
	types.Normalize(&s)
	return s
}

// Merge applies a replacement payload on top of the stored student.
//
// Scalar fields are shallow-merged: present fields win, absent fields keep
// their stored value. Vectors are never kept: an absent vector resets to
// all-zero / all-false. The id is never changed.
func Merge(existing types.Student, patch types.StudentPatch) types.Student {
	out := existing

	if patch.Name != nil {
		out.Name = *patch.Name
	}
	if patch.Age != nil {
		out.Age = patch.Age.Int()
	}
	if patch.Phone != nil {
		out.Phone = *patch.Phone
	}
	if patch.Level != nil {
		out.Level = patch.Level.Int()
	}
	if patch.StartDate != nil {
		out.StartDate = *patch.StartDate
	}

	out.PaidMonths = patch.PaidMonths
	out.Sessions = patch.Sessions
	types.Normalize(&out)
	return out
}

// Search returns the students whose name contains query, ignoring case.
// An empty query returns every student.
func Search(students []types.Student, query string) []types.Student {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return students
	}

	matched := make([]types.Student, 0, len(students))
	for _, s := range students {
		if strings.Contains(strings.ToLower(s.Name), query) {
			matched = append(matched, s)
		}
	}
	return matched
}

// ByLevel returns the students enrolled at level.
func ByLevel(students []types.Student, level int) []types.Student {
	matched := make([]types.Student, 0, len(students))
	for _, s := range students {
		if s.Level == level {
			matched = append(matched, s)
		}
	}
	return matched
}

// NewStudentID derives an id from the creation time in milliseconds,
// bumped past every existing id so ids stay unique and increasing even
// when two students are created within the same millisecond.
func NewStudentID(now time.Time, existing []types.Student) int64 {
	id := now.UnixMilli()
	for _, s := range existing {
		if s.ID >= id {
			id = s.ID + 1
		}
	}
	return id
}

func clone(s types.Student) types.Student {
	// Normalize allocates fresh slices, so the caller's vectors are never aliased.
	types.Normalize(&s)
	return s
}
