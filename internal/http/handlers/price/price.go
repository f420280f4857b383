// Package price serves the per-level price table.
package price

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aanand-mishra/tutoring-api/internal/storage"
	"github.com/aanand-mishra/tutoring-api/internal/types"
	"github.com/aanand-mishra/tutoring-api/internal/utils/request"
	"github.com/aanand-mishra/tutoring-api/internal/utils/response"
)

// Get handles GET /api/prices
// Responds with {} when prices were never set.
func Get(prices storage.PriceRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table, err := prices.GetPrices()
		if err != nil {
			response.StorageError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, table)
	}
}

// Replace handles PUT /api/prices
//
// Request body (JSON), keys are levels:
//
//	{ "1": 100, "2": 150, "3": 200, "4": 250 }
//
// The stored table becomes exactly the submitted one; levels left out
// lose their price.
func Replace(prices storage.PriceRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]float64
		if err := request.DecodeJSON(r, &body); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		table := make(types.PriceTable, len(body))
		for key, value := range body {
			level, err := strconv.Atoi(key)
			if err != nil {
				response.WriteJSON(w, http.StatusBadRequest,
					response.GeneralError(fmt.Errorf("invalid level %q: must be an integer", key)))
				return
			}
			table[level] = value
		}

		if err := prices.ReplacePrices(table); err != nil {
			response.StorageError(w, err)
			return
		}

		slog.Info("prices replaced", slog.Int("levels", len(table)))
		response.WriteJSON(w, http.StatusOK, table)
	}
}
