package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/tutoring-api/internal/storage"
	"github.com/aanand-mishra/tutoring-api/internal/storage/storagetest"
	"github.com/aanand-mishra/tutoring-api/internal/types"
)

func TestStore_Contract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Storage {
		s, err := New(filepath.Join(t.TempDir(), "data.json"))
		require.NoError(t, err)
		return s
	})
}

func TestStore_ReadsLegacyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	legacy := `{
  "students": [
    {"id": 1712000000000, "name": "Mira", "age": 10, "phone": "555", "level": 2,
     "startDate": "2024-04-01", "paidMonths": [1, 2, 0, 1], "sessions": [true]}
  ],
  "events": [
    {"id": 1712000000001, "title": "Level 2", "start": "2024-04-01T16:00:00.000Z", "end": "2024-04-01T17:00:00.000Z"}
  ],
  "prices": {"1": 100, "2": 150}
}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o600))

	s, err := New(path)
	require.NoError(t, err)

	student, err := s.GetStudent(1712000000000)
	require.NoError(t, err)
	assert.Equal(t, "Mira", student.Name)
	assert.Len(t, student.PaidMonths, types.PaymentSlots)
	assert.Equal(t, types.PaymentUnpaid, student.PaidMonths[1])
	assert.Len(t, student.Sessions, types.SessionSlots)

	events, err := s.ListEvents()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "1712000000001", events[0].ID)
	assert.Equal(t, 16, events[0].Start.Hour())

	event, err := s.GetEvent("1712000000001")
	require.NoError(t, err)
	assert.Equal(t, "Level 2", event.Title)

	prices, err := s.GetPrices()
	require.NoError(t, err)
	assert.Equal(t, types.PriceTable{1: 100, 2: 150}, prices)
}

func TestStore_CorruptDocumentIsNotOverwritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s, err := New(path)
	require.NoError(t, err)

	err = s.PutStudent(types.Student{ID: 1, Name: "Ana"})
	assert.Error(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(raw))
}

func TestStore_WriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := New(filepath.Join(dir, "data.json"))
	require.NoError(t, err)

	require.NoError(t, s.ReplacePrices(types.PriceTable{1: 120}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "data.json", entries[0].Name())
}
