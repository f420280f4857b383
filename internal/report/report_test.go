package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/tutoring-api/internal/types"
)

var now = time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)

func TestSummarize_CollectedAndMissing(t *testing.T) {
	students := []types.Student{
		{ID: 1, Level: 1, PaidMonths: []types.PaymentState{1, 2, 0}},
		{ID: 2, Level: 1, PaidMonths: []types.PaymentState{0, 0, 1}},
	}

	sum := Summarize(students, types.PriceTable{1: 100}, now)
	require.Len(t, sum.Rows, 4)

	lvl1 := sum.Rows[0]
	assert.Equal(t, 1, lvl1.Level)
	assert.Equal(t, 2, lvl1.Students)
	assert.Equal(t, 2, lvl1.Paid)
	assert.Equal(t, 1, lvl1.Unpaid)
	assert.Equal(t, 200.0, lvl1.Collected)
	assert.Equal(t, 100.0, lvl1.Missing)
}

func TestSummarize_EmptyLevelsAndMissingPrices(t *testing.T) {
	students := []types.Student{
		{ID: 1, Level: 3, PaidMonths: []types.PaymentState{1, 1, 1, 2}},
	}

	sum := Summarize(students, nil, now)

	for _, row := range sum.Rows {
		assert.Zero(t, row.Price)
		assert.Zero(t, row.Collected)
		assert.Zero(t, row.Missing)
	}
	assert.Equal(t, Row{Level: 2}, sum.Rows[1])
	assert.Equal(t, 3, sum.Rows[2].Paid)
	assert.Equal(t, 1, sum.Rows[2].Unpaid)
}

func TestSummarize_Totals(t *testing.T) {
	students := []types.Student{
		{ID: 1, Level: 1, PaidMonths: []types.PaymentState{1, 1}},
		{ID: 2, Level: 2, PaidMonths: []types.PaymentState{2}},
		{ID: 3, Level: 4, PaidMonths: []types.PaymentState{1, 2, 2}},
		{ID: 4, Level: 9, PaidMonths: []types.PaymentState{1, 1, 1}},
	}
	prices := types.PriceTable{1: 100, 2: 150, 3: 200, 4: 250}

	sum := Summarize(students, prices, now)

	assert.Equal(t, Row{
		Students:  3,
		Paid:      3,
		Unpaid:    3,
		Collected: 200 + 250,
		Missing:   150 + 500,
	}, sum.Totals)
	assert.Len(t, sum.Months, 12)
	assert.Equal(t, "Jun", sum.Months[11])
}
