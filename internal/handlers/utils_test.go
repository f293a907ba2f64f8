package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		body    string
		want    string
		wantErr string
	}{
		{name: "valid", body: `{"name":"ok"}`, want: "ok"},
		{name: "empty", body: "", wantErr: "request body is required"},
		{name: "unknown field", body: `{"name":"ok","extra":1}`, wantErr: "invalid request body"},
		{name: "trailing data", body: `{"name":"ok"}{"name":"again"}`, wantErr: "single JSON object"},
		{name: "wrong type", body: `{"name":5}`, wantErr: "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var got payload
			err := decodeJSON(req, &got)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestParseID(t *testing.T) {
	withID := func(id string) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	id, err := parseID(withID("12345"), "order")
	require.NoError(t, err)
	assert.Equal(t, 12345, id)

	for _, raw := range []string{"", "abc", "0", "-3", "1.5"} {
		_, err := parseID(withID(raw), "order")
		assert.EqualError(t, err, "invalid order id", raw)
	}
}

func TestParseOptionalInt(t *testing.T) {
	v, err := parseOptionalInt("")
	require.NoError(t, err)
	assert.Zero(t, v)

	v, err = parseOptionalInt(" 25 ")
	require.NoError(t, err)
	assert.Equal(t, 25, v)

	_, err = parseOptionalInt("ten")
	assert.Error(t, err)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, http.StatusNotFound, "order not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"order not found"}`, rec.Body.String())
}
