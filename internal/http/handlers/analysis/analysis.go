// Package analysis serves the payment summary behind the analysis page.
package analysis

import (
	"net/http"
	"time"

	"github.com/aanand-mishra/tutoring-api/internal/report"
	"github.com/aanand-mishra/tutoring-api/internal/storage"
	"github.com/aanand-mishra/tutoring-api/internal/utils/response"
)

// Get handles GET /api/report
//
// Recomputed from scratch on every call: all students, the price table
// and the current trailing window.
func Get(students storage.StudentRepository, prices storage.PriceRepository, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := students.ListStudents()
		if err != nil {
			response.StorageError(w, err)
			return
		}

		table, err := prices.GetPrices()
		if err != nil {
			response.StorageError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, report.Summarize(list, table, now()))
	}
}
