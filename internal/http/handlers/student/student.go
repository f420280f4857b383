// Package student contains all HTTP handlers related to the Student resource.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// Each exported function receives its dependencies (a repository, a
// clock) once at startup and returns the func(http.ResponseWriter,
// *http.Request) the router calls on every request:
//
//	r.Post("/api/students", student.New(store, time.Now))
//
// Every handler loads what it needs, applies one transformation from the
// roster package, and persists the whole student back.
package student

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/tutoring-api/internal/roster"
	"github.com/aanand-mishra/tutoring-api/internal/storage"
	"github.com/aanand-mishra/tutoring-api/internal/types"
	"github.com/aanand-mishra/tutoring-api/internal/utils/request"
	"github.com/aanand-mishra/tutoring-api/internal/utils/response"
)

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/students
//
// Request body (JSON):
//
//	{ "name": "Mira", "age": 10, "phone": "555-0101", "level": 2, "startDate": "2024-09-01" }
//
// name, age and phone are required. level defaults to 1 and startDate to
// today. Both vectors always start empty, whatever the body says.
//
// Success response (201 Created): the stored student.
// ─────────────────────────────────────────────────────────────────────────────
func New(students storage.StudentRepository, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		var in types.NewStudent
		if err := request.DecodeJSON(r, &in); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if err := validator.New().Struct(in); err != nil {
			response.Invalid(w, err)
			return
		}

		existing, err := students.ListStudents()
		if err != nil {
			response.StorageError(w, err)
			return
		}

		t := now()
		student := roster.Create(in, roster.NewStudentID(t, existing), t)
		if err := students.PutStudent(student); err != nil {
			response.StorageError(w, err)
			return
		}

		slog.Info("student created", slog.Int64("id", student.ID))
		response.WriteJSON(w, http.StatusCreated, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /api/students/{id}
//
// Error responses:
//
//	400 Bad Request  id is not a valid integer
//	404 Not Found    no student with that id
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(students storage.StudentRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.IntParam(r, "id")
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.Info("getting a student", slog.Int64("id", id))

		student, err := students.GetStudent(id)
		if err != nil {
			response.StorageError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/students[?search=...][&level=...]
// Returns every student, narrowed to names containing search (any case)
// and to one level when given. Both filters apply together.
// Returns an empty array [] (not null) when nothing matches.
//
// Error responses:
//
//	400 Bad Request  level is not a valid integer
// ─────────────────────────────────────────────────────────────────────────────
func GetList(students storage.StudentRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		search := r.URL.Query().Get("search")
		level, byLevel, err := request.IntQuery(r, "level")
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.Info("getting all students", slog.String("search", search), slog.Int("level", level))

		list, err := students.ListStudents()
		if err != nil {
			response.StorageError(w, err)
			return
		}

		list = roster.Search(list, search)
		if byLevel {
			list = roster.ByLevel(list, level)
		}
		response.WriteJSON(w, http.StatusOK, list)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /api/students/{id}
//
// The body is the complete desired shape. Present fields replace stored
// ones; age and level may be numbers or numeric strings. A body without
// paidMonths or sessions resets that vector.
//
// Success response (200 OK): the updated student.
// ─────────────────────────────────────────────────────────────────────────────
func Update(students storage.StudentRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.IntParam(r, "id")
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.Info("updating a student", slog.Int64("id", id))

		var patch types.StudentPatch
		if err := request.DecodeJSON(r, &patch); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if err := validator.New().Struct(patch); err != nil {
			response.Invalid(w, err)
			return
		}

		existing, err := students.GetStudent(id)
		if err != nil {
			response.StorageError(w, err)
			return
		}

		updated := roster.Merge(existing, patch)
		if err := students.PutStudent(updated); err != nil {
			response.StorageError(w, err)
			return
		}

		slog.Info("student updated", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /api/students/{id}
// Removes the student only; calendar events are left alone.
// ─────────────────────────────────────────────────────────────────────────────
func Delete(students storage.StudentRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.IntParam(r, "id")
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.Info("deleting a student", slog.Int64("id", id))

		if err := students.DeleteStudent(id); err != nil {
			response.StorageError(w, err)
			return
		}

		slog.Info("student deleted", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, response.Deleted())
	}
}

// paymentsView is the trailing-window representation of one student.
type paymentsView struct {
	StudentID int64         `json:"studentId"`
	Slots     []roster.Slot `json:"slots"`
}

// Payments handles GET /api/students/{id}/payments
// Returns the trailing 12 months, oldest first, with each slot's state.
func Payments(students storage.StudentRepository, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.IntParam(r, "id")
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		student, err := students.GetStudent(id)
		if err != nil {
			response.StorageError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, paymentsView{StudentID: id, Slots: roster.Window(student, now())})
	}
}

// TogglePayment handles POST /api/students/{id}/payments/{month}
//
// {month} is a trailing-window label ("Jan", "january") or index (0..11).
// The slot advances unset → paid → unpaid → unset. Responds with the
// updated window.
func TogglePayment(students storage.StudentRepository, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.IntParam(r, "id")
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		t := now()
		month := chi.URLParam(r, "month")
		index, err := roster.MonthIndex(month, t)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.Info("toggling payment", slog.Int64("id", id), slog.String("month", month), slog.Int("index", index))

		student, err := students.GetStudent(id)
		if err != nil {
			response.StorageError(w, err)
			return
		}

		student, err = roster.TogglePayment(student, index)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if err := students.PutStudent(student); err != nil {
			response.StorageError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, paymentsView{StudentID: id, Slots: roster.Window(student, t)})
	}
}

// ToggleSession handles POST /api/students/{id}/sessions/{index}
// Flips attendance for session index (0..7). Responds with the student.
func ToggleSession(students storage.StudentRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.IntParam(r, "id")
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("invalid index: must be an integer")))
			return
		}
		slog.Info("toggling session", slog.Int64("id", id), slog.Int("index", index))

		student, err := students.GetStudent(id)
		if err != nil {
			response.StorageError(w, err)
			return
		}

		student, err = roster.ToggleSession(student, index)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if err := students.PutStudent(student); err != nil {
			response.StorageError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}
