// Package storage defines the repository contracts, one per collection,
// that any storage backend must satisfy to work with this application.
//
// WHY INTERFACES?
// ───────────────
// Handlers (HTTP layer) should not know or care where students, events
// and prices live. Two backends implement these contracts:
//
//   - sqlite:   one table per collection, migrated with golang-migrate.
//   - document: the whole dataset in one JSON file, read and written
//     wholesale on every operation.
//
// Switching backends is a config change. Zero handler changes.
package storage

import (
	"errors"

	"github.com/aanand-mishra/tutoring-api/internal/types"
)

// ErrNotFound is returned when a requested id does not exist.
// Check it with errors.Is; backends wrap it with the id.
var ErrNotFound = errors.New("not found")

// StudentRepository stores students.
type StudentRepository interface {
	// ListStudents returns every student ordered by id.
	// Returns an empty slice (not nil) if there are no students.
	ListStudents() ([]types.Student, error)

	// GetStudent fetches a single student. Wraps ErrNotFound if absent.
	GetStudent(id int64) (types.Student, error)

	// PutStudent inserts the student or replaces the stored record with
	// the same id.
	PutStudent(student types.Student) error

	// DeleteStudent removes a student. Wraps ErrNotFound if absent.
	// Events are never touched.
	DeleteStudent(id int64) error
}

// EventRepository stores calendar occurrences.
type EventRepository interface {
	// ListEvents returns every occurrence ordered by start time.
	ListEvents() ([]types.Event, error)

	// GetEvent fetches one occurrence. Wraps ErrNotFound if absent.
	GetEvent(id string) (types.Event, error)

	// PutEvents inserts or replaces occurrences by id. Either all of them
	// are stored or none is.
	PutEvents(events ...types.Event) error

	// DeleteEvent removes exactly one occurrence. Wraps ErrNotFound if absent.
	DeleteEvent(id string) error
}

// PriceRepository stores the per-level price table.
type PriceRepository interface {
	// GetPrices returns the stored table; an empty (non-nil) table when
	// prices were never set.
	GetPrices() (types.PriceTable, error)

	// ReplacePrices swaps the whole table for prices. Nothing is merged:
	// levels missing from prices are gone afterwards.
	ReplacePrices(prices types.PriceTable) error
}

// Storage is everything a backend provides.
type Storage interface {
	StudentRepository
	EventRepository
	PriceRepository

	// Close releases the backend's resources.
	Close() error
}
