// Package roster holds the per-student record logic: the trailing
// 12-month payment window, the payment and attendance toggles, and the
// replacement (merge) semantics used by PUT.
//
// Nothing here touches storage. Every function takes a student value and
// returns a new one; the caller loads and persists.
package roster

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aanand-mishra/tutoring-api/internal/types"
)

var (
	// ErrUnknownMonth is returned when a month label does not name any of
	// the trailing 12 months.
	ErrUnknownMonth = errors.New("unknown month")

	// ErrSlotOutOfRange is returned for a payment index outside 0..11 or a
	// session index outside 0..7.
	ErrSlotOutOfRange = errors.New("slot index out of range")
)

// Month identifies one calendar month.
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// Label is the three-letter English month name, e.g. "Jan".
func (m Month) Label() string {
	return m.Month.String()[:3]
}

// Slot is one cell of the trailing window view.
type Slot struct {
	Index int                `json:"index"`
	Label string             `json:"label"`
	Year  int                `json:"year"`
	Month time.Month         `json:"month"`
	State types.PaymentState `json:"state"`
}

// TrailingMonths returns the 12 months ending with now's month, oldest first.
func TrailingMonths(now time.Time) []Month {
	months := make([]Month, types.PaymentSlots)
	for i := 0; i < types.PaymentSlots; i++ {
		// Day 1 keeps AddDate from overflowing short months.
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		m := first.AddDate(0, -(types.PaymentSlots - 1 - i), 0)
		months[i] = Month{Year: m.Year(), Month: m.Month()}
	}
	return months
}

// Labels returns the short labels of TrailingMonths(now).
func Labels(now time.Time) []string {
	months := TrailingMonths(now)
	labels := make([]string, len(months))
	for i, m := range months {
		labels[i] = m.Label()
	}
	return labels
}

// Window maps each trailing month onto the student's payment vector by
// position: slot i shows PaidMonths[i], whatever calendar month it is.
func Window(s types.Student, now time.Time) []Slot {
	types.Normalize(&s)

	months := TrailingMonths(now)
	slots := make([]Slot, len(months))
	for i, m := range months {
		slots[i] = Slot{
			Index: i,
			Label: m.Label(),
			Year:  m.Year,
			Month: m.Month,
			State: s.PaidMonths[i],
		}
	}
	return slots
}

// MonthIndex resolves month to a position in the trailing window. month is
// either a numeric index ("0".."11") or a month name, short or full, in any
// case ("jan", "January").
func MonthIndex(month string, now time.Time) (int, error) {
	month = strings.TrimSpace(month)

	if i, err := strconv.Atoi(month); err == nil {
		if i < 0 || i >= types.PaymentSlots {
			return 0, fmt.Errorf("%w: %d", ErrSlotOutOfRange, i)
		}
		return i, nil
	}

	if len(month) >= 3 {
		for i, m := range TrailingMonths(now) {
			full := m.Month.String()
			if strings.EqualFold(month, full) || strings.EqualFold(month, full[:3]) {
				return i, nil
			}
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownMonth, month)
}
