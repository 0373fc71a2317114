package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondUnauthorized(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondUnauthorized(rec)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"statusCode":401,"message":"Unauthorized"}`, rec.Body.String())
}

func TestRespondError_AddsStatusText(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, "User with given email already exists", http.StatusBadRequest)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusBadRequest, body.StatusCode)
	assert.Equal(t, "User with given email already exists", body.Message)
	assert.Equal(t, "Bad Request", body.Error)
}

func TestRespondValidationError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondValidationError(rec, []string{"email must be an email", "password should not be empty"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{
		"statusCode": 400,
		"message": ["email must be an email", "password should not be empty"],
		"error": "Bad Request"
	}`, rec.Body.String())
}
