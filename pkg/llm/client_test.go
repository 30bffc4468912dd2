package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func writeCompletion(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"id":     "cmpl-test",
		"object": "chat.completion",
		"model":  "gpt-4o-mini",
		"choices": []map[string]interface{}{
			{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]string{"role": "assistant", "content": content},
			},
		},
	})
}

func newTestClient(t *testing.T, baseURL string, attempts int) *Client {
	t.Helper()
	client, err := New(Config{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		Model:          "gpt-4o-mini",
		RequestTimeout: 2 * time.Second,
		MaxAttempts:    attempts,
		Logger:         zerolog.Nop(),
	})
	require.NoError(t, err)
	return client
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}

func TestCompleteReturnsTrimmedContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		writeCompletion(w, "  {\"summary\": {}}  ")
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 1)

	content, err := client.Complete(context.Background(), "system", "user")
	require.NoError(t, err)
	require.Equal(t, "{\"summary\": {}}", content)
}

func TestCompleteRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeCompletion(w, "recovered")
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 3)

	content, err := client.Complete(context.Background(), "system", "user")
	require.NoError(t, err)
	require.Equal(t, "recovered", content)
	require.Equal(t, int32(3), calls.Load())
}

func TestCompleteDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"message": "bad prompt", "type": "invalid_request_error"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 3)

	_, err := client.Complete(context.Background(), "system", "user")
	require.True(t, errors.Is(err, ErrUnavailable))
	require.Equal(t, int32(1), calls.Load())
}

func TestCompleteWrapsExhaustedRetriesInUnavailable(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 2)

	_, err := client.Complete(context.Background(), "system", "user")
	require.True(t, errors.Is(err, ErrUnavailable))
	require.Equal(t, int32(2), calls.Load())
}

func TestCompleteReportsEmptyCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeCompletion(w, "   ")
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 1)

	_, err := client.Complete(context.Background(), "system", "user")
	require.True(t, errors.Is(err, ErrEmptyCompletion))
}

func TestCompleteHonoursCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeCompletion(w, "never seen")
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Complete(ctx, "system", "user")
	require.Error(t, err)
}
