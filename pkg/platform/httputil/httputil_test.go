package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "userdir/pkg/domain-errors"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusCreated, map[string]int{"count": 3})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"count":3}`, w.Body.String())
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantDesc   string
	}{
		{"validation", dErrors.New(dErrors.CodeValidation, "start must be a date"), http.StatusBadRequest, "validation_error", "start must be a date"},
		{"bad request", dErrors.New(dErrors.CodeBadRequest, "bad"), http.StatusBadRequest, "bad_request", "bad"},
		{"not found", dErrors.New(dErrors.CodeNotFound, ""), http.StatusNotFound, "not_found", ""},
		{"timeout", dErrors.New(dErrors.CodeTimeout, "slow"), http.StatusGatewayTimeout, "directory_timeout", "slow"},
		{"unavailable", dErrors.New(dErrors.CodeUnavailable, "down"), http.StatusServiceUnavailable, "directory_unavailable", "down"},
		{"plain error hides details", errors.New("secret detail"), http.StatusInternalServerError, "internal_error", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Error)
			assert.Equal(t, tt.wantDesc, resp.ErrorDescription)
		})
	}
}
