package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aanand-mishra/tutoring-api/internal/storage"
	"github.com/aanand-mishra/tutoring-api/internal/types"
)

const studentColumns = "id, name, age, phone, level, start_date, paid_months, sessions"

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanStudent reads one row selected with studentColumns. The two vectors
// are stored as JSON text and normalized on the way out.
func scanStudent(row rowScanner) (types.Student, error) {
	var (
		student             types.Student
		paidMonths, session string
	)
	if err := row.Scan(
		&student.ID,
		&student.Name,
		&student.Age,
		&student.Phone,
		&student.Level,
		&student.StartDate,
		&paidMonths,
		&session,
	); err != nil {
		return types.Student{}, err
	}

	// A corrupt vector column falls back to the all-zero default.
	_ = json.Unmarshal([]byte(paidMonths), &student.PaidMonths)
	_ = json.Unmarshal([]byte(session), &student.Sessions)
	types.Normalize(&student)

	return student, nil
}

// ListStudents returns all students ordered by id.
func (s *SQLite) ListStudents() ([]types.Student, error) {
	stmt, err := s.Db.Prepare("SELECT " + studentColumns + " FROM students ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("ListStudents: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query()
	if err != nil {
		return nil, fmt.Errorf("ListStudents: query: %w", err)
	}
	defer rows.Close()

	students := make([]types.Student, 0)
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("ListStudents: scan row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListStudents: rows iteration: %w", err)
	}

	return students, nil
}

// GetStudent fetches exactly one student by id.
func (s *SQLite) GetStudent(id int64) (types.Student, error) {
	stmt, err := s.Db.Prepare("SELECT " + studentColumns + " FROM students WHERE id = ? LIMIT 1")
	if err != nil {
		return types.Student{}, fmt.Errorf("GetStudent: prepare: %w", err)
	}
	defer stmt.Close()

	student, err := scanStudent(stmt.QueryRow(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Student{}, fmt.Errorf("GetStudent: student %d: %w", id, storage.ErrNotFound)
		}
		return types.Student{}, fmt.Errorf("GetStudent: scan: %w", err)
	}

	return student, nil
}

// PutStudent inserts the student or overwrites the row with the same id.
func (s *SQLite) PutStudent(student types.Student) error {
	types.Normalize(&student)

	paidMonths, err := json.Marshal(student.PaidMonths)
	if err != nil {
		return fmt.Errorf("PutStudent: encode payments: %w", err)
	}
	sessions, err := json.Marshal(student.Sessions)
	if err != nil {
		return fmt.Errorf("PutStudent: encode sessions: %w", err)
	}

	stmt, err := s.Db.Prepare(`
		INSERT INTO students (` + studentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name        = excluded.name,
			age         = excluded.age,
			phone       = excluded.phone,
			level       = excluded.level,
			start_date  = excluded.start_date,
			paid_months = excluded.paid_months,
			sessions    = excluded.sessions
	`)
	if err != nil {
		return fmt.Errorf("PutStudent: prepare: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(
		student.ID,
		student.Name,
		student.Age,
		student.Phone,
		student.Level,
		student.StartDate,
		string(paidMonths),
		string(sessions),
	)
	if err != nil {
		return fmt.Errorf("PutStudent: exec: %w", err)
	}

	return nil
}

// DeleteStudent removes a student row by id. Events are untouched.
func (s *SQLite) DeleteStudent(id int64) error {
	stmt, err := s.Db.Prepare("DELETE FROM students WHERE id = ?")
	if err != nil {
		return fmt.Errorf("DeleteStudent: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(id)
	if err != nil {
		return fmt.Errorf("DeleteStudent: exec: %w", err)
	}

	return requireAffected(result, fmt.Sprintf("DeleteStudent: student %d", id))
}

// requireAffected turns a zero-row DELETE into storage.ErrNotFound.
func requireAffected(result sql.Result, what string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, storage.ErrNotFound)
	}
	return nil
}
