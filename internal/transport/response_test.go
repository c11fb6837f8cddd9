package transport

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	var out struct {
		Name string `json:"name"`
	}
	require.NoError(t, DecodeJSON(bytes.NewBufferString(`{"name":"Björk"}`), &out))
	require.Equal(t, "Björk", out.Name)
}

func TestDecodeJSON_UnknownField(t *testing.T) {
	var out struct {
		Name string `json:"name"`
	}
	err := DecodeJSON(bytes.NewBufferString(`{"name":"x","nme":"y"}`), &out)
	require.ErrorContains(t, err, "parse error")
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusNotFound, &APIError{Code: "NOT_FOUND", Message: "venue not found"})

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"error":{"code":"NOT_FOUND","message":"venue not found"}}`, rec.Body.String())
}
