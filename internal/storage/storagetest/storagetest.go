// Package storagetest is a contract test suite run against every
// storage.Storage backend.
package storagetest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/tutoring-api/internal/storage"
	"github.com/aanand-mishra/tutoring-api/internal/types"
)

// Opener returns a fresh, empty backend. Returned backends are closed by
// the suite.
type Opener func(t *testing.T) storage.Storage

// Run executes the suite.
func Run(t *testing.T, open Opener) {
	t.Run("students", func(t *testing.T) { testStudents(t, open(t)) })
	t.Run("events", func(t *testing.T) { testEvents(t, open(t)) })
	t.Run("prices", func(t *testing.T) { testPrices(t, open(t)) })
	t.Run("no cascade", func(t *testing.T) { testNoCascade(t, open(t)) })
}

func testStudents(t *testing.T, s storage.Storage) {
	defer s.Close()

	list, err := s.ListStudents()
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	_, err = s.GetStudent(1)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorContains(t, err, "GetStudent: student 1")

	ana := types.Student{
		ID: 2, Name: "Ana", Age: 9, Phone: "555", Level: 2, StartDate: "2024-01-01",
		PaidMonths: []types.PaymentState{types.PaymentPaid},
		Sessions:   []bool{true},
	}
	bo := types.Student{ID: 1, Name: "Bo", Age: 11, Phone: "556", Level: 1}
	require.NoError(t, s.PutStudent(ana))
	require.NoError(t, s.PutStudent(bo))

	got, err := s.GetStudent(2)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)
	assert.Equal(t, 2, got.Level)
	require.Len(t, got.PaidMonths, types.PaymentSlots)
	require.Len(t, got.Sessions, types.SessionSlots)
	assert.Equal(t, types.PaymentPaid, got.PaidMonths[0])
	assert.True(t, got.Sessions[0])

	ana.Name = "Ana Maria"
	ana.PaidMonths = []types.PaymentState{types.PaymentUnpaid}
	require.NoError(t, s.PutStudent(ana))

	list, err = s.ListStudents()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(1), list[0].ID)
	assert.Equal(t, "Ana Maria", list[1].Name)
	assert.Equal(t, types.PaymentUnpaid, list[1].PaidMonths[0])

	require.NoError(t, s.DeleteStudent(1))
	err = s.DeleteStudent(1)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorContains(t, err, "DeleteStudent: student 1")

	list, err = s.ListStudents()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func testEvents(t *testing.T, s storage.Storage) {
	defer s.Close()

	base := time.Date(2024, time.January, 1, 16, 0, 0, 0, time.UTC)
	series := make([]types.Event, 3)
	for i := range series {
		start := base.AddDate(0, 0, 7*(2-i))
		series[i] = types.Event{
			ID:    string(rune('a' + i)),
			Title: "Level 1",
			Start: start,
			End:   start.Add(time.Hour),
		}
	}
	require.NoError(t, s.PutEvents(series...))

	list, err := s.ListEvents()
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "c", list[0].ID)
	assert.True(t, list[0].Start.Equal(base))

	got, err := s.GetEvent("b")
	require.NoError(t, err)
	assert.True(t, got.End.Equal(base.AddDate(0, 0, 7).Add(time.Hour)))

	got.Title = "Moved"
	require.NoError(t, s.PutEvents(got))
	got, err = s.GetEvent("b")
	require.NoError(t, err)
	assert.Equal(t, "Moved", got.Title)

	require.NoError(t, s.DeleteEvent("b"))
	err = s.DeleteEvent("b")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorContains(t, err, "DeleteEvent: event b")
	_, err = s.GetEvent("b")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorContains(t, err, "GetEvent: event b")

	list, err = s.ListEvents()
	require.NoError(t, err)
	assert.Len(t, list, 2)

	// Sub-millisecond precision is dropped the same way by every backend.
	fine := time.Date(2024, time.February, 1, 10, 0, 0, 123456789, time.FixedZone("UTC+2", 2*60*60))
	require.NoError(t, s.PutEvents(types.Event{ID: "fine", Title: "Raw", Start: fine, End: fine.Add(time.Hour)}))
	got, err = s.GetEvent("fine")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.February, 1, 8, 0, 0, 123000000, time.UTC), got.Start)
	assert.Equal(t, time.Date(2024, time.February, 1, 9, 0, 0, 123000000, time.UTC), got.End)
}

func testPrices(t *testing.T, s storage.Storage) {
	defer s.Close()

	prices, err := s.GetPrices()
	require.NoError(t, err)
	assert.NotNil(t, prices)
	assert.Empty(t, prices)

	require.NoError(t, s.ReplacePrices(types.PriceTable{1: 100, 2: 150}))
	require.NoError(t, s.ReplacePrices(types.PriceTable{1: 120}))

	prices, err = s.GetPrices()
	require.NoError(t, err)
	assert.Equal(t, types.PriceTable{1: 120}, prices)
}

func testNoCascade(t *testing.T, s storage.Storage) {
	defer s.Close()

	require.NoError(t, s.PutStudent(types.Student{ID: 1, Name: "Ana"}))
	start := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.PutEvents(types.Event{ID: "e1", Title: "Ana", Start: start, End: start.Add(time.Hour)}))

	require.NoError(t, s.DeleteStudent(1))

	events, err := s.ListEvents()
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
