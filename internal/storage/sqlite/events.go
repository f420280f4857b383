package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aanand-mishra/tutoring-api/internal/storage"
	"github.com/aanand-mishra/tutoring-api/internal/types"
)

// Event times are stored as UTC unix milliseconds.
func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func scanEvent(row rowScanner) (types.Event, error) {
	var (
		event      types.Event
		start, end int64
	)
	if err := row.Scan(&event.ID, &event.Title, &start, &end); err != nil {
		return types.Event{}, err
	}
	event.Start = fromMillis(start)
	event.End = fromMillis(end)
	return event, nil
}

// ListEvents returns every occurrence ordered by start time.
func (s *SQLite) ListEvents() ([]types.Event, error) {
	rows, err := s.Db.Query("SELECT id, title, start_at, end_at FROM events ORDER BY start_at, id")
	if err != nil {
		return nil, fmt.Errorf("ListEvents: query: %w", err)
	}
	defer rows.Close()

	events := make([]types.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("ListEvents: scan row: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListEvents: rows iteration: %w", err)
	}

	return events, nil
}

// GetEvent fetches one occurrence by id.
func (s *SQLite) GetEvent(id string) (types.Event, error) {
	row := s.Db.QueryRow("SELECT id, title, start_at, end_at FROM events WHERE id = ? LIMIT 1", id)

	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Event{}, fmt.Errorf("GetEvent: event %s: %w", id, storage.ErrNotFound)
		}
		return types.Event{}, fmt.Errorf("GetEvent: scan: %w", err)
	}

	return event, nil
}

// PutEvents upserts all occurrences inside one transaction, so a weekly
// series is either stored completely or not at all.
func (s *SQLite) PutEvents(events ...types.Event) (err error) {
	tx, err := s.Db.Begin()
	if err != nil {
		return fmt.Errorf("PutEvents: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.Prepare(`
		INSERT INTO events (id, title, start_at, end_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title    = excluded.title,
			start_at = excluded.start_at,
			end_at   = excluded.end_at
	`)
	if err != nil {
		return fmt.Errorf("PutEvents: prepare: %w", err)
	}
	defer stmt.Close()

	for _, event := range events {
		if _, err = stmt.Exec(event.ID, event.Title, toMillis(event.Start), toMillis(event.End)); err != nil {
			return fmt.Errorf("PutEvents: exec %s: %w", event.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("PutEvents: commit: %w", err)
	}
	return nil
}

// DeleteEvent removes exactly one occurrence.
func (s *SQLite) DeleteEvent(id string) error {
	result, err := s.Db.Exec("DELETE FROM events WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("DeleteEvent: exec: %w", err)
	}
	return requireAffected(result, "DeleteEvent: event "+id)
}
