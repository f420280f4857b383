// Package report folds every student's trailing payment window into a
// per-level summary of paid and unpaid months and the money they stand for.
package report

import (
	"time"

	"github.com/aanand-mishra/tutoring-api/internal/roster"
	"github.com/aanand-mishra/tutoring-api/internal/types"
)

// Levels are the fixed levels reported on. A row is emitted for each one,
// even when no student is enrolled at that level.
var Levels = []int{1, 2, 3, 4}

// Row is the summary for one level. In Totals, Level and Price are zero.
type Row struct {
	Level     int     `json:"level"`
	Students  int     `json:"students"`
	Paid      int     `json:"paid"`
	Unpaid    int     `json:"unpaid"`
	Price     float64 `json:"price"`
	Collected float64 `json:"collected"`
	Missing   float64 `json:"missing"`
}

// Summary is the full report.
type Summary struct {
	Months []string `json:"months"`
	Rows   []Row    `json:"rows"`
	Totals Row      `json:"totals"`
}

// Summarize counts, per level, the slots valued Paid and Unpaid across all
// of that level's students and prices them. Unset slots count toward
// nothing; a level with no price is priced at 0. Students whose level is
// not in Levels are left out of every row and of the totals.
func Summarize(students []types.Student, prices types.PriceTable, now time.Time) Summary {
	rows := make([]Row, len(Levels))
	byLevel := make(map[int]*Row, len(Levels))
	for i, lvl := range Levels {
		rows[i] = Row{Level: lvl, Price: prices.Price(lvl)}
		byLevel[lvl] = &rows[i]
	}

	for _, s := range students {
		row, ok := byLevel[s.Level]
		if !ok {
			continue
		}
		row.Students++
		for _, slot := range roster.Window(s, now) {
			switch slot.State {
			case types.PaymentPaid:
				row.Paid++
			case types.PaymentUnpaid:
				row.Unpaid++
			}
		}
	}

	var totals Row
	for i := range rows {
		rows[i].Collected = float64(rows[i].Paid) * rows[i].Price
		rows[i].Missing = float64(rows[i].Unpaid) * rows[i].Price

		totals.Students += rows[i].Students
		totals.Paid += rows[i].Paid
		totals.Unpaid += rows[i].Unpaid
		totals.Collected += rows[i].Collected
		totals.Missing += rows[i].Missing
	}

	return Summary{
		Months: roster.Labels(now),
		Rows:   rows,
		Totals: totals,
	}
}
