// Package document implements storage.Storage on top of a single JSON
// file holding every collection:
//
//	{ "students": [...], "events": [...], "prices": { "1": 100 } }
//
// Every operation loads the whole document and every mutation writes the
// whole document back. A write goes to a temporary file in the same
// directory which then replaces the original, so a failed write leaves
// the previous document intact.
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"

	"github.com/aanand-mishra/tutoring-api/internal/storage"
	"github.com/aanand-mishra/tutoring-api/internal/types"
)

// Document is the on-disk shape.
type Document struct {
	Students []types.Student  `json:"students"`
	Events   []types.Event    `json:"events"`
	Prices   types.PriceTable `json:"prices"`
}

// Store is a file-backed storage.Storage.
type Store struct {
	path string

	// mu serializes read-modify-write cycles within this process only.
	mu sync.Mutex
}

// New returns a store for the file at path. The file does not have to
// exist yet; a missing file reads as an empty document.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("document.New: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("document.New: create dir: %w", err)
	}
	return &Store{path: path}, nil
}

// Close is a no-op; the file is not held open between operations.
func (s *Store) Close() error { return nil }

// read loads the full document.
func (s *Store) read() (Document, error) {
	var doc Document

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return emptyDocument(), nil
	}
	if err != nil {
		return doc, fmt.Errorf("read %s: %w", s.path, err)
	}

	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("decode %s: %w", s.path, err)
	}

	if doc.Students == nil {
		doc.Students = make([]types.Student, 0)
	}
	for i := range doc.Students {
		types.Normalize(&doc.Students[i])
	}
	if doc.Events == nil {
		doc.Events = make([]types.Event, 0)
	}
	if doc.Prices == nil {
		doc.Prices = make(types.PriceTable)
	}
	return doc, nil
}

// write replaces the file with doc.
func (s *Store) write(doc Document) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

// view runs fn on a freshly loaded document.
func (s *Store) view(fn func(doc Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	return fn(doc)
}

// update loads the document, applies fn and writes the result back. If
// fn fails nothing is written.
func (s *Store) update(fn func(doc *Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	if err := fn(&doc); err != nil {
		return err
	}
	return s.write(doc)
}

func emptyDocument() Document {
	return Document{
		Students: make([]types.Student, 0),
		Events:   make([]types.Event, 0),
		Prices:   make(types.PriceTable),
	}
}

// ListStudents returns all students ordered by id.
func (s *Store) ListStudents() ([]types.Student, error) {
	var students []types.Student
	err := s.view(func(doc Document) error {
		students = doc.Students
		sort.SliceStable(students, func(i, j int) bool { return students[i].ID < students[j].ID })
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ListStudents: %w", err)
	}
	return students, nil
}

// GetStudent fetches one student by id.
func (s *Store) GetStudent(id int64) (types.Student, error) {
	var student types.Student
	err := s.view(func(doc Document) error {
		i := slices.IndexFunc(doc.Students, func(st types.Student) bool { return st.ID == id })
		if i < 0 {
			return fmt.Errorf("student %d: %w", id, storage.ErrNotFound)
		}
		student = doc.Students[i]
		return nil
	})
	if err != nil {
		return types.Student{}, fmt.Errorf("GetStudent: %w", err)
	}
	return student, nil
}

// PutStudent inserts the student or replaces the one with the same id.
func (s *Store) PutStudent(student types.Student) error {
	types.Normalize(&student)
	err := s.update(func(doc *Document) error {
		i := slices.IndexFunc(doc.Students, func(st types.Student) bool { return st.ID == student.ID })
		if i < 0 {
			doc.Students = append(doc.Students, student)
		} else {
			doc.Students[i] = student
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("PutStudent: %w", err)
	}
	return nil
}

// DeleteStudent removes one student. Events are untouched.
func (s *Store) DeleteStudent(id int64) error {
	err := s.update(func(doc *Document) error {
		n := len(doc.Students)
		doc.Students = slices.DeleteFunc(doc.Students, func(st types.Student) bool { return st.ID == id })
		if len(doc.Students) == n {
			return fmt.Errorf("student %d: %w", id, storage.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("DeleteStudent: %w", err)
	}
	return nil
}

// ListEvents returns every occurrence ordered by start time.
func (s *Store) ListEvents() ([]types.Event, error) {
	var events []types.Event
	err := s.view(func(doc Document) error {
		events = doc.Events
		sort.SliceStable(events, func(i, j int) bool { return events[i].Start.Before(events[j].Start) })
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ListEvents: %w", err)
	}
	return events, nil
}

// GetEvent fetches one occurrence by id.
func (s *Store) GetEvent(id string) (types.Event, error) {
	var event types.Event
	err := s.view(func(doc Document) error {
		i := slices.IndexFunc(doc.Events, func(ev types.Event) bool { return ev.ID == id })
		if i < 0 {
			return fmt.Errorf("event %s: %w", id, storage.ErrNotFound)
		}
		event = doc.Events[i]
		return nil
	})
	if err != nil {
		return types.Event{}, fmt.Errorf("GetEvent: %w", err)
	}
	return event, nil
}

// PutEvents upserts occurrences. All of them land in one document write.
func (s *Store) PutEvents(events ...types.Event) error {
	err := s.update(func(doc *Document) error {
		for _, ev := range events {
			ev = ev.Normalized()
			i := slices.IndexFunc(doc.Events, func(e types.Event) bool { return e.ID == ev.ID })
			if i < 0 {
				doc.Events = append(doc.Events, ev)
			} else {
				doc.Events[i] = ev
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("PutEvents: %w", err)
	}
	return nil
}

// DeleteEvent removes exactly one occurrence.
func (s *Store) DeleteEvent(id string) error {
	err := s.update(func(doc *Document) error {
		n := len(doc.Events)
		doc.Events = slices.DeleteFunc(doc.Events, func(ev types.Event) bool { return ev.ID == id })
		if len(doc.Events) == n {
			return fmt.Errorf("event %s: %w", id, storage.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("DeleteEvent: %w", err)
	}
	return nil
}

// GetPrices returns the price table.
func (s *Store) GetPrices() (types.PriceTable, error) {
	var prices types.PriceTable
	err := s.view(func(doc Document) error {
		prices = doc.Prices
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("GetPrices: %w", err)
	}
	return prices, nil
}

// ReplacePrices overwrites the whole table.
func (s *Store) ReplacePrices(prices types.PriceTable) error {
	err := s.update(func(doc *Document) error {
		doc.Prices = make(types.PriceTable, len(prices))
		for level, price := range prices {
			doc.Prices[level] = price
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("ReplacePrices: %w", err)
	}
	return nil
}
