package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/tutoring-api/internal/storage"
)

func body(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var res Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func TestStorageError(t *testing.T) {
	rec := httptest.NewRecorder()
	StorageError(rec, fmt.Errorf("GetStudent: %w", storage.ErrNotFound))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, StatusError, body(t, rec).Status)

	rec = httptest.NewRecorder()
	StorageError(rec, errors.New("disk full"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "disk full", body(t, rec).Error)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestValidationError(t *testing.T) {
	type form struct {
		Name   string `validate:"required"`
		Day    int    `validate:"min=0,max=6"`
		Period string `validate:"oneof=AM PM"`
		Date   string `validate:"omitempty,datetime=2006-01-02"`
	}

	err := validator.New().Struct(form{Day: 9, Period: "XM", Date: "yesterday"})
	rec := httptest.NewRecorder()
	Invalid(rec, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t,
		"field Name is required, field Day must be at most 6, field Period must be one of [AM PM], "+
			"field Date must be a date in the 2006-01-02 format",
		body(t, rec).Error)
}

func TestDeleted(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteJSON(rec, http.StatusOK, Deleted()))
	assert.JSONEq(t, `{"status":"deleted"}`, rec.Body.String())
}
