package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGetJSONDecodesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "1", r.URL.Query().Get("page"))
		w.Write([]byte(`{"value": 42}`))
	}))
	t.Cleanup(server.Close)

	var out struct {
		Value int `json:"value"`
	}
	c := New(5*time.Second, "")
	err := c.GetJSON(context.Background(), server.URL, url.Values{"page": {"1"}}, nil, &out)
	require.NoError(t, err)
	require.Equal(t, 42, out.Value)
}

func TestGetJSONStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	c := New(5*time.Second, "")
	err := c.GetJSON(context.Background(), server.URL, nil, nil, &struct{}{})

	var se *StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, http.StatusTooManyRequests, se.Code)
}

func TestGetJSONDecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"value": [truncated`))
	}))
	t.Cleanup(server.Close)

	c := New(5*time.Second, "")
	err := c.GetJSON(context.Background(), server.URL, nil, nil, &struct{}{})

	var de *DecodeError
	require.ErrorAs(t, err, &de, "undecodable 2xx body carries its own error type")
}
