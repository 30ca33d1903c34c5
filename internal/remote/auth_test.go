package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/shiftbook/internal/auth"
	"github.com/alexanderramin/shiftbook/internal/domain"
)

const sessionJSON = `{
	"access_token":"at-1",
	"refresh_token":"rt-1",
	"expires_in":3600,
	"expires_at":1717243200,
	"user":{"id":"u1","email":"ada@example.com","created_at":"2024-06-01T00:00:00Z","user_metadata":{"name":"Ada"}}
}`

func TestAuthBackend_SignIn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))

		var body credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ada@example.com", body.Email)
		w.Write([]byte(sessionJSON))
	}))
	defer srv.Close()

	backend := NewAuthBackend(newTestClient(t, srv, nil, nil))
	g, err := backend.SignIn(context.Background(), "ada@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "at-1", g.AccessToken)
	assert.Equal(t, "rt-1", g.RefreshToken)
	assert.Equal(t, time.Unix(1717243200, 0).UTC(), g.ExpiresAt)
	assert.Equal(t, "u1", g.User.ID)
	assert.Equal(t, "Ada", g.User.Name)
}

func TestAuthBackend_SignIn_InvalidCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":400,"error_code":"invalid_credentials","msg":"Invalid login credentials"}`))
	}))
	defer srv.Close()

	backend := NewAuthBackend(newTestClient(t, srv, nil, nil))
	_, err := backend.SignIn(context.Background(), "ada@example.com", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthBackend_SignUp_ConfirmationPending(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)
		w.Write([]byte(`{"id":"u2","email":"new@example.com","created_at":"2024-06-01T00:00:00Z"}`))
	}))
	defer srv.Close()

	backend := NewAuthBackend(newTestClient(t, srv, nil, nil))
	g, err := backend.SignUp(context.Background(), "new@example.com", "secret1")
	assert.ErrorIs(t, err, auth.ErrConfirmationPending)
	require.NotNil(t, g)
	assert.Equal(t, "u2", g.User.ID)
	assert.Empty(t, g.AccessToken)
}

func TestAuthBackend_SignUp_EmailTaken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"code":422,"error_code":"user_already_exists","msg":"User already registered"}`))
	}))
	defer srv.Close()

	backend := NewAuthBackend(newTestClient(t, srv, nil, nil))
	_, err := backend.SignUp(context.Background(), "ada@example.com", "secret1")
	assert.ErrorIs(t, err, auth.ErrEmailTaken)
}

func TestAuthBackend_GetUser_ExpiredToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer stale", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":401,"error_code":"bad_jwt","msg":"invalid JWT"}`))
	}))
	defer srv.Close()

	backend := NewAuthBackend(newTestClient(t, srv, nil, nil))
	_, err := backend.GetUser(context.Background(), "stale")
	assert.ErrorIs(t, err, auth.ErrSessionExpired)
}

func TestAuthBackend_UpdateUser_SendsMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "Bearer at-1", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"name": "Ada L."}, body["data"])
		_, hasPassword := body["password"]
		assert.False(t, hasPassword)

		w.Write([]byte(`{"id":"u1","email":"ada@example.com","user_metadata":{"name":"Ada L."}}`))
	}))
	defer srv.Close()

	backend := NewAuthBackend(newTestClient(t, srv, nil, nil))
	u, err := backend.UpdateUser(context.Background(), "at-1", auth.UserUpdate{Profile: &domain.Profile{Name: "Ada L."}})
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", u.Name)
}

func TestAuthBackend_SignOut_IgnoresDeadToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/logout", r.URL.Path)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	backend := NewAuthBackend(newTestClient(t, srv, nil, nil))
	assert.NoError(t, backend.SignOut(context.Background(), "stale"))
}
