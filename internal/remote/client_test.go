package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/alexanderramin/shiftbook/internal/config"
	"github.com/alexanderramin/shiftbook/internal/repository"
)

type staticToken string

func (s staticToken) AccessToken() string { return string(s) }

type recordingObserver struct {
	mu     sync.Mutex
	events []CallEvent
}

func (o *recordingObserver) OnCallComplete(e CallEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last() CallEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}

func testConfig(endpoint string) config.RemoteConfig {
	return config.RemoteConfig{URL: endpoint, AnonKey: "anon-key", TimeoutMs: 2000, MaxRetries: 2}
}

func newTestClient(t *testing.T, srv *httptest.Server, tokens TokenSource, obs Observer) *Client {
	t.Helper()
	c := NewClient(testConfig(srv.URL), tokens, obs)
	c.backoff = time.Millisecond
	t.Cleanup(c.Close)
	return c
}

func TestClient_SendsAuthHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, staticToken("user-token"), nil)
	var out []companyRow
	require.NoError(t, c.do(context.Background(), request{method: http.MethodGet, path: "/rest/v1/companies"}, &out))
}

func TestClient_FallsBackToAnonKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, staticToken(""), nil)
	require.NoError(t, c.do(context.Background(), request{method: http.MethodPost, path: "/auth/v1/logout"}, nil))
}

func TestClient_RetriesReadsOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	c := newTestClient(t, srv, nil, obs)
	var out []companyRow
	require.NoError(t, c.do(context.Background(), request{method: http.MethodGet, path: "/rest/v1/companies"}, &out))
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 3, obs.last().Attempts)
	assert.True(t, obs.last().Success)
}

func TestClient_BacksOffBetweenReadRetries(t *testing.T) {
	var (
		mu    sync.Mutex
		times []time.Time
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		times = append(times, time.Now())
		mu.Unlock()
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, nil, nil)
	c.backoff = 30 * time.Millisecond
	err := c.do(context.Background(), request{method: http.MethodGet, path: "/rest/v1/shifts"}, nil)
	require.Error(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, times, 3)
	assert.GreaterOrEqual(t, times[1].Sub(times[0]), 30*time.Millisecond)
	assert.GreaterOrEqual(t, times[2].Sub(times[1]), 60*time.Millisecond, "backoff doubles")
}

func TestClient_BackoffStopsWhenContextEnds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, nil, nil)
	c.backoff = time.Hour
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := c.do(ctx, request{method: http.MethodGet, path: "/rest/v1/shifts"}, nil)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_DoesNotRetryWrites(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, nil, nil)
	err := c.do(context.Background(), request{method: http.MethodPost, path: "/rest/v1/companies", body: map[string]string{}}, nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":"22P02","message":"invalid input syntax"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, nil, nil)
	err := c.do(context.Background(), request{method: http.MethodGet, path: "/rest/v1/shifts"}, nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "22P02", apiErr.Code)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.TimeoutMs = 50
	c := NewClient(cfg, nil, nil)
	t.Cleanup(c.Close)

	err := c.do(context.Background(), request{method: http.MethodGet, path: "/rest/v1/shifts"}, nil)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestClient_Unavailable(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1") // nothing listening
	cfg.MaxRetries = 0
	c := NewClient(cfg, nil, nil)
	t.Cleanup(c.Close)

	err := c.do(context.Background(), request{method: http.MethodGet, path: "/rest/v1/shifts"}, nil)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestAPIError_MapsToRepositorySentinels(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want error
	}{
		{"unique violation", &APIError{Status: 409, Code: "23505"}, repository.ErrDuplicate},
		{"rls violation", &APIError{Status: 403, Code: "42501"}, repository.ErrPermission},
		{"unauthorized", &APIError{Status: 401}, repository.ErrPermission},
		{"single row missing", &APIError{Status: 406, Code: "PGRST116"}, repository.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.want)
		})
	}
	assert.NoError(t, (&APIError{Status: 400, Code: "22P02"}).Unwrap())
}

func TestDecodeAPIError_Shapes(t *testing.T) {
	pg := decodeAPIError(409, []byte(`{"code":"23505","message":"duplicate key","details":"Key (name)","hint":null}`))
	assert.Equal(t, "23505", pg.Code)
	assert.Equal(t, "duplicate key", pg.Message)
	assert.Equal(t, "Key (name)", pg.Details)

	legacy := decodeAPIError(400, []byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
	assert.Equal(t, "invalid_grant", legacy.Code)
	assert.Equal(t, "Invalid login credentials", legacy.Message)

	current := decodeAPIError(400, []byte(`{"code":400,"error_code":"invalid_credentials","msg":"Invalid login credentials"}`))
	assert.Equal(t, "invalid_credentials", current.Code)
	assert.Equal(t, "Invalid login credentials", current.Message)

	plain := decodeAPIError(502, []byte("upstream down"))
	assert.Equal(t, "upstream down", plain.Message)
}

func TestLogObserver_LogsFailuresAtWarn(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	obs := NewLogObserver(zap.New(core))

	obs.OnCallComplete(CallEvent{Method: "GET", Path: "/rest/v1/shifts", Status: 200, Attempts: 1, Success: true})
	obs.OnCallComplete(CallEvent{Method: "POST", Path: "/rest/v1/shifts", Status: 409, Attempts: 1, ErrorCode: "23505"})

	require.Equal(t, 2, logs.Len())
	entries := logs.All()
	assert.Equal(t, zap.DebugLevel, entries[0].Level)
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.Equal(t, "23505", entries[1].ContextMap()["error_code"])
}
