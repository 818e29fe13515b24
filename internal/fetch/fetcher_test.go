package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hlsub/internal/logger"
	"hlsub/internal/models"
)

func newTestFetcher(t *testing.T) *Fetcher {
	t.Helper()
	cfg := ClientConfig{Timeout: 5 * time.Second, VerifyTLS: true}
	client, err := NewClient(cfg)
	require.NoError(t, err)
	return NewFetcher(client, logger.Discard(), cfg, nil)
}

func TestFetchAll_OrderedResults(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		// Later segments respond faster to shake out ordering bugs.
		if r.URL.Path == "/seg0" {
			time.Sleep(50 * time.Millisecond)
		}
		fmt.Fprint(w, "body of ", r.URL.Path)
	}))
	defer server.Close()

	fetcher := newTestFetcher(t)
	segments := []models.Segment{
		{URI: server.URL + "/seg0", Sequence: 0},
		{URI: server.URL + "/seg1", Sequence: 1},
		{URI: server.URL + "/seg2", Sequence: 2},
	}

	bodies, err := fetcher.FetchAll(context.Background(), segments)
	require.NoError(t, err)
	require.Len(t, bodies, 3)

	assert.Equal(t, "body of /seg0", string(bodies[0]))
	assert.Equal(t, "body of /seg1", string(bodies[1]))
	assert.Equal(t, "body of /seg2", string(bodies[2]))
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchAll_SharedURIFetchedOnce(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		fmt.Fprint(w, "shared body")
	}))
	defer server.Close()

	flights := NewFlightTable()
	cfg := ClientConfig{Timeout: 5 * time.Second, VerifyTLS: true}
	client, err := NewClient(cfg)
	require.NoError(t, err)

	// Two fetchers sharing one flight table, both asking for the same URI.
	first := NewFetcher(client, logger.Discard(), cfg, flights)
	second := NewFetcher(client, logger.Discard(), cfg, flights)
	segments := []models.Segment{{URI: server.URL + "/shared", Sequence: 0}}

	done := make(chan error, 2)
	go func() {
		_, err := first.FetchAll(context.Background(), segments)
		done <- err
	}()
	go func() {
		_, err := second.FetchAll(context.Background(), segments)
		done <- err
	}()

	require.NoError(t, <-done)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), calls.Load(), "shared URI must be downloaded exactly once")

	// A later request is served from the memoized result.
	bodies, err := first.FetchAll(context.Background(), segments)
	require.NoError(t, err)
	assert.Equal(t, "shared body", string(bodies[0]))
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchRetries(t *testing.T) {
	t.Run("Server Error Then Success", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			fmt.Fprint(w, "finally")
		}))
		defer server.Close()

		fetcher := newTestFetcher(t)
		data, err := fetcher.FetchOne(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "finally", string(data))
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("Client Error Fails Immediately", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		fetcher := newTestFetcher(t)
		_, err := fetcher.FetchOne(context.Background(), server.URL)
		require.Error(t, err)

		var fetchErr *FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, server.URL, fetchErr.URI)
		assert.Equal(t, int32(1), calls.Load(), "4xx responses must not be retried")
	})

	t.Run("Exhausted Attempts", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		fetcher := newTestFetcher(t)
		_, err := fetcher.FetchOne(context.Background(), server.URL)
		require.Error(t, err)
		assert.Equal(t, int32(maxAttempts), calls.Load())
	})
}

func TestFetchOne_SendsUserAgent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		fmt.Fprint(w, "ok")
	}))
	defer server.Close()

	cfg := ClientConfig{Timeout: 5 * time.Second, VerifyTLS: true, UserAgent: "test-agent"}
	client, err := NewClient(cfg)
	require.NoError(t, err)
	fetcher := NewFetcher(client, logger.Discard(), cfg, nil)

	_, err = fetcher.FetchOne(context.Background(), server.URL)
	require.NoError(t, err)
}
