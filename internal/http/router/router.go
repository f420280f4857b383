// Package router wires every handler to its route.
//
// Route table:
//
//	GET    /api/students                        list students (?search=name)
//	POST   /api/students                        create a student
//	GET    /api/students/{id}                   get one student
//	PUT    /api/students/{id}                   replace a student
//	DELETE /api/students/{id}                   delete a student
//	GET    /api/students/{id}/payments          trailing 12-month payment window
//	POST   /api/students/{id}/payments/{month}  toggle one payment month
//	POST   /api/students/{id}/sessions/{index}  toggle one session
//	GET    /api/events                          list occurrences
//	POST   /api/events                          create one raw occurrence
//	POST   /api/events/slots                    create from the calendar form
//	GET    /api/events/{id}                     get one occurrence
//	PUT    /api/events/{id}                     replace one raw occurrence
//	PUT    /api/events/{id}/slot                edit one occurrence from the form
//	DELETE /api/events/{id}                     delete one occurrence
//	GET    /api/prices                          price table
//	PUT    /api/prices                          replace the price table
//	GET    /api/report                          per-level payment summary
package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/aanand-mishra/tutoring-api/internal/config"
	"github.com/aanand-mishra/tutoring-api/internal/http/handlers/analysis"
	"github.com/aanand-mishra/tutoring-api/internal/http/handlers/event"
	"github.com/aanand-mishra/tutoring-api/internal/http/handlers/price"
	"github.com/aanand-mishra/tutoring-api/internal/http/handlers/student"
	"github.com/aanand-mishra/tutoring-api/internal/http/middleware"
	"github.com/aanand-mishra/tutoring-api/internal/storage"
)

// Deps is everything the routes need.
type Deps struct {
	Storage  storage.Storage
	Logger   *slog.Logger
	CORS     config.CORS
	Location *time.Location

	// Now defaults to time.Now.
	Now func() time.Time
}

// New builds the application's http.Handler.
func New(d Deps) http.Handler {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Location == nil {
		d.Location = time.Local
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	clock := event.Clock{Now: d.Now, Location: d.Location}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(d.Logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         d.CORS.MaxAge,
	}))

	r.Route("/api", func(api chi.Router) {
		api.Route("/students", func(r chi.Router) {
			r.Get("/", student.GetList(d.Storage))
			r.Post("/", student.New(d.Storage, d.Now))
			r.Get("/{id}", student.GetByID(d.Storage))
			r.Put("/{id}", student.Update(d.Storage))
			r.Delete("/{id}", student.Delete(d.Storage))
			r.Get("/{id}/payments", student.Payments(d.Storage, d.Now))
			r.Post("/{id}/payments/{month}", student.TogglePayment(d.Storage, d.Now))
			r.Post("/{id}/sessions/{index}", student.ToggleSession(d.Storage))
		})

		api.Route("/events", func(r chi.Router) {
			r.Get("/", event.GetList(d.Storage))
			r.Post("/", event.New(d.Storage))
			r.Post("/slots", event.NewFromSlot(d.Storage, clock))
			r.Get("/{id}", event.GetByID(d.Storage))
			r.Put("/{id}", event.Update(d.Storage))
			r.Put("/{id}/slot", event.UpdateFromSlot(d.Storage, clock))
			r.Delete("/{id}", event.Delete(d.Storage))
		})

		api.Get("/prices", price.Get(d.Storage))
		api.Put("/prices", price.Replace(d.Storage))

		api.Get("/report", analysis.Get(d.Storage, d.Storage, d.Now))
	})

	return r
}
