// Package event contains the HTTP handlers for calendar occurrences.
//
// Two ways to write an occurrence:
//
//   - raw:  { "title", "start", "end" } with RFC 3339 timestamps
//   - slot: the calendar form (weekday, 12-hour start/end, repeat flag),
//     expanded by the schedule package
//
// Creating from a repeating slot stores one occurrence per week for a
// year. Every update and delete addresses exactly one occurrence.
package event

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/aanand-mishra/tutoring-api/internal/schedule"
	"github.com/aanand-mishra/tutoring-api/internal/storage"
	"github.com/aanand-mishra/tutoring-api/internal/types"
	"github.com/aanand-mishra/tutoring-api/internal/utils/request"
	"github.com/aanand-mishra/tutoring-api/internal/utils/response"
)

// Clock supplies "now" and the zone wall-clock times are entered in.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

func eventID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if id == "" {
		return "", errors.New("invalid id: must not be empty")
	}
	return id, nil
}

// GetList handles GET /api/events
func GetList(events storage.EventRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all events")

		list, err := events.ListEvents()
		if err != nil {
			response.StorageError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, list)
	}
}

// GetByID handles GET /api/events/{id}
func GetByID(events storage.EventRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := eventID(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.Info("getting an event", slog.String("id", id))

		ev, err := events.GetEvent(id)
		if err != nil {
			response.StorageError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, ev)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/events
//
// Request body (JSON):
//
//	{ "title": "Level 2", "start": "2024-09-02T16:00:00Z", "end": "2024-09-02T17:00:00Z" }
//
// Success response (201 Created): the stored occurrence with its new id.
// ─────────────────────────────────────────────────────────────────────────────
func New(events storage.EventRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating an event")

		var in types.EventInput
		if err := request.DecodeJSON(r, &in); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if err := validator.New().Struct(in); err != nil {
			response.Invalid(w, err)
			return
		}

		ev := in.Event(uuid.NewString())
		if err := events.PutEvents(ev); err != nil {
			response.StorageError(w, err)
			return
		}

		slog.Info("event created", slog.String("id", ev.ID))
		response.WriteJSON(w, http.StatusCreated, ev)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// NewFromSlot handles POST /api/events/slots
//
// Request body (JSON):
//
//	{ "title": "Level 2", "dayOfWeek": 1,
//	  "startHour": 4, "startPeriod": "PM", "endHour": 5.5, "endPeriod": "PM",
//	  "repeat": true }
//
// repeat=false stores one occurrence today. repeat=true stores one per
// week on dayOfWeek for a year, starting in the current week. The end
// time must not be before the start time.
//
// Success response (201 Created): the stored occurrences.
// ─────────────────────────────────────────────────────────────────────────────
func NewFromSlot(events storage.EventRepository, clock Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var slot schedule.Slot
		if err := request.DecodeJSON(r, &slot); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if err := validator.New().Struct(slot); err != nil {
			response.Invalid(w, err)
			return
		}
		if err := slot.Check(); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		created := schedule.Expand(slot, clock.Now(), clock.Location)
		if err := events.PutEvents(created...); err != nil {
			response.StorageError(w, err)
			return
		}

		slog.Info("events created from slot",
			slog.String("title", slot.Title),
			slog.Bool("repeat", slot.Repeat),
			slog.Int("count", len(created)))
		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// Update handles PUT /api/events/{id}
// Replaces title, start and end of one occurrence; the id is kept.
func Update(events storage.EventRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := eventID(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.Info("updating an event", slog.String("id", id))

		var in types.EventInput
		if err := request.DecodeJSON(r, &in); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if err := validator.New().Struct(in); err != nil {
			response.Invalid(w, err)
			return
		}

		if _, err := events.GetEvent(id); err != nil {
			response.StorageError(w, err)
			return
		}

		ev := in.Event(id)
		if err := events.PutEvents(ev); err != nil {
			response.StorageError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, ev)
	}
}

// UpdateFromSlot handles PUT /api/events/{id}/slot
//
// Recomputes one occurrence from the calendar form and keeps its id. A
// repeat flag in the form does not create a series here: only the first
// date the form would produce is used.
func UpdateFromSlot(events storage.EventRepository, clock Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := eventID(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.Info("updating an event from slot", slog.String("id", id))

		var slot schedule.Slot
		if err := request.DecodeJSON(r, &slot); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if err := validator.New().Struct(slot); err != nil {
			response.Invalid(w, err)
			return
		}
		if err := slot.Check(); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		existing, err := events.GetEvent(id)
		if err != nil {
			response.StorageError(w, err)
			return
		}

		ev := schedule.Edit(existing, slot, clock.Now(), clock.Location)
		if err := events.PutEvents(ev); err != nil {
			response.StorageError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, ev)
	}
}

// Delete handles DELETE /api/events/{id}
// Removes one occurrence; other occurrences created by the same slot stay.
func Delete(events storage.EventRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := eventID(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.Info("deleting an event", slog.String("id", id))

		if err := events.DeleteEvent(id); err != nil {
			response.StorageError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, response.Deleted())
	}
}
