package httpc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Value float64 `json:"value"`
}

func TestPostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var p payload
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		p.Value *= 2
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(p)
	}))
	defer srv.Close()

	var out payload
	require.NoError(t, PostJSON(context.Background(), srv.URL, payload{Value: 21}, &out))
	assert.Equal(t, 42.0, out.Value)
	require.NoError(t, PostJSON(context.Background(), srv.URL, payload{}, nil))
}

func TestGetJSON_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"busy"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	err := GetJSON(context.Background(), srv.URL, &payload{})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.Code)
	assert.Contains(t, se.Error(), "busy")
}

func TestGetJSON_BadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	err := GetJSON(context.Background(), srv.URL, &payload{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding")
}
