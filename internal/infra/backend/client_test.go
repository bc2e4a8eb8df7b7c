package backend

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"medash/config"
	"medash/internal/domain/apierror"
	"medash/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func testConfig(baseURL string) *config.Config {
	cfg := &config.Config{}
	cfg.Backend = &config.BackendConfig{
		BaseURL:      baseURL,
		Timeout:      100 * time.Millisecond,
		MaxRetries:   2,
		RetryBackoff: 10 * time.Millisecond,
	}

	return cfg
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), staticToken("tok-123"), testLogger())

	var out map[string]bool
	require.NoError(t, client.Get(context.Background(), "/ping", &out))
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.True(t, out["ok"])
}

func TestClient_NoTokenNoAuthHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), staticToken(""), testLogger())

	require.NoError(t, client.Get(context.Background(), "/ping", nil))
	assert.Empty(t, gotAuth)
}

func TestClient_RetriesTimeoutsAtMostThreeTimes(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), staticToken(""), testLogger())

	err := client.Get(context.Background(), "/slow", nil)
	require.Error(t, err)

	var netErr *apierror.NetworkUnreachableError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, int32(3), attempts.Load())
}

func TestClient_DoesNotRetryDefiniteFailures(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"name is required"}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), staticToken(""), testLogger())

	err := client.Post(context.Background(), "/courses", map[string]string{}, nil)
	require.Error(t, err)

	var clientErr *apierror.ClientError
	require.True(t, errors.As(err, &clientErr))
	assert.Equal(t, http.StatusBadRequest, clientErr.Status)
	assert.Equal(t, "name is required", clientErr.Msg)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestClient_ServerErrorIsGeneric(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"stack trace leaked"}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), staticToken(""), testLogger())

	err := client.Get(context.Background(), "/boom", nil)
	require.Error(t, err)

	var serverErr *apierror.ServerError
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, http.StatusInternalServerError, serverErr.Status)
	assert.NotContains(t, serverErr.Message(), "stack trace")
}

func TestClient_UnauthorizedNotifiesSubscribers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), staticToken("stale"), testLogger())

	var signaled atomic.Int32
	client.OnAuthExpired(func() { signaled.Add(1) })

	err := client.Get(context.Background(), "/me/cohorts/list", nil)
	require.Error(t, err)
	assert.True(t, apierror.IsAuthExpired(err))
	assert.Equal(t, int32(1), signaled.Load())
}

func TestClient_DecodesBareTextResponses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Email verified successfully!"))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), staticToken(""), testLogger())

	var msg string
	require.NoError(t, client.Get(context.Background(), "/auth/verify?token=x", &msg))
	assert.Equal(t, "Email verified successfully!", msg)
}
