package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var body APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusOK, map[string]string{"id": "u1"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decode(t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, map[string]interface{}{"id": "u1"}, body.Data)
	assert.Nil(t, body.Error)
	assert.Nil(t, body.Meta)
}

func TestJSONNonSuccessStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusAccepted, nil)
	assert.True(t, decode(t, rec).Success)

	rec = httptest.NewRecorder()
	JSON(rec, http.StatusMovedPermanently, nil)
	assert.False(t, decode(t, rec).Success)
}

func TestJSONWithMeta(t *testing.T) {
	rec := httptest.NewRecorder()
	meta := &Meta{Page: 2, PerPage: 10, Total: 35, TotalPages: 4}
	JSONWithMeta(rec, http.StatusOK, []string{"a", "b"}, meta)

	body := decode(t, rec)
	assert.True(t, body.Success)
	require.NotNil(t, body.Meta)
	assert.Equal(t, *meta, *body.Meta)
}

func TestError(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusTeapot, "TEAPOT", "short and stout")

	assert.Equal(t, http.StatusTeapot, rec.Code)

	body := decode(t, rec)
	assert.False(t, body.Success)
	assert.Nil(t, body.Data)
	require.NotNil(t, body.Error)
	assert.Equal(t, "TEAPOT", body.Error.Code)
	assert.Equal(t, "short and stout", body.Error.Message)
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name       string
		fn         func(http.ResponseWriter, string)
		wantStatus int
		wantCode   string
	}{
		{"bad request", BadRequest, http.StatusBadRequest, "BAD_REQUEST"},
		{"not found", NotFound, http.StatusNotFound, "NOT_FOUND"},
		{"internal error", InternalError, http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"unauthorized", Unauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"conflict", Conflict, http.StatusConflict, "CONFLICT"},
		{"unprocessable entity", UnprocessableEntity, http.StatusUnprocessableEntity, "UNPROCESSABLE_ENTITY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.fn(rec, "boom")

			assert.Equal(t, tt.wantStatus, rec.Code)

			body := decode(t, rec)
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.Equal(t, "boom", body.Error.Message)
		})
	}
}
