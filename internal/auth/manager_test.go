// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legalai/legalai-tui/internal/api"
	"github.com/legalai/legalai-tui/internal/storage"
)

type testBackend struct {
	profileCalls atomic.Int32
	rejectToken  bool
}

func (b *testBackend) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/users/login":
			json.NewEncoder(w).Encode(api.LoginResponse{
				IDToken: "tok-abc", UID: "u1", Email: "jane@example.com",
			})
		case "/api/users/register":
			json.NewEncoder(w).Encode(api.RegisterResponse{
				UID: "u2", Email: "new@example.com", Name: "New User",
			})
		case "/api/users/google-signin":
			json.NewEncoder(w).Encode(api.GoogleSignInResponse{
				UID: "u3", Email: "g@example.com",
			})
		case "/api/users/profile":
			b.profileCalls.Add(1)
			if b.rejectToken {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"message": "Invalid token"})
				return
			}
			json.NewEncoder(w).Encode(api.UserProfile{
				UID: "u1", Email: "jane@example.com", DisplayName: "Jane",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

type fixture struct {
	backend *testBackend
	client  *api.Client
	local   *storage.MemoryStore
	session *storage.MemoryStore
	keyPath string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	b := &testBackend{}
	srv := httptest.NewServer(b.handler())
	t.Cleanup(srv.Close)
	return &fixture{
		backend: b,
		client:  api.NewClient(api.WithBaseURL(srv.URL + "/api")),
		local:   storage.NewMemoryStore(),
		session: storage.NewMemoryStore(),
		keyPath: filepath.Join(t.TempDir(), "key"),
	}
}

func (f *fixture) manager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	m, err := NewManager(f.client, f.local, f.session, f.keyPath, opts...)
	require.NoError(t, err)
	return m
}

func TestLoadWithNoCredentials(t *testing.T) {
	f := newFixture(t)
	m := f.manager(t)

	assert.Equal(t, StateLoading, m.State())
	require.NoError(t, m.Load(context.Background()))
	assert.Equal(t, StateUnauthenticated, m.State())
	assert.False(t, m.IsAuthenticated())
	assert.Equal(t, "guest", m.Scope())
}

func TestLoginPersistsSealedToken(t *testing.T) {
	f := newFixture(t)
	m := f.manager(t)

	require.NoError(t, m.Login(context.Background(), "jane@example.com", "pw"))
	assert.True(t, m.IsAuthenticated())

	u := m.CurrentUser()
	require.NotNil(t, u)
	assert.Equal(t, "u1", u.UID)
	assert.Equal(t, "jane", u.DisplayName) // email prefix
	assert.Equal(t, "u1", m.Scope())
	assert.True(t, f.client.HasAuthToken())

	// Token on disk is sealed, not plaintext.
	stored, ok := f.local.Get(storage.KeyToken)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(stored, "ENC:"))
	assert.NotContains(t, stored, "tok-abc")
}

func TestLoadRestoresValidSession(t *testing.T) {
	f := newFixture(t)
	first := f.manager(t)
	require.NoError(t, first.Login(context.Background(), "jane@example.com", "pw"))

	// Fresh manager over the same persisted state, like a process restart.
	second := f.manager(t)
	require.NoError(t, second.Load(context.Background()))

	assert.Equal(t, StateAuthenticated, second.State())
	u := second.CurrentUser()
	require.NotNil(t, u)
	assert.Equal(t, "Jane", u.DisplayName) // profile refines the name
	assert.EqualValues(t, 1, f.backend.profileCalls.Load())
}

func TestLoadHardResetsOnRejectedToken(t *testing.T) {
	f := newFixture(t)
	first := f.manager(t)
	require.NoError(t, first.Login(context.Background(), "jane@example.com", "pw"))
	require.NoError(t, f.session.Set("guest/fileMap", "{}"))

	f.backend.rejectToken = true
	second := f.manager(t)
	require.NoError(t, second.Load(context.Background()))

	assert.Equal(t, StateUnauthenticated, second.State())
	assert.Empty(t, f.local.Keys(), "local storage must be wiped")
	assert.Empty(t, f.session.Keys(), "session storage must be wiped")
	assert.False(t, f.client.HasAuthToken())
}

func TestLoadSkipsNetworkForExpiredJWT(t *testing.T) {
	f := newFixture(t)
	m := f.manager(t)
	require.NoError(t, m.Login(context.Background(), "jane@example.com", "pw"))

	// Replace the persisted token with an already-expired JWT.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := expired.SignedString([]byte("k"))
	require.NoError(t, err)

	cs, err := newCredStore(f.keyPath)
	require.NoError(t, err)
	sealed, err := cs.Seal(signed)
	require.NoError(t, err)
	require.NoError(t, f.local.Set(storage.KeyToken, sealed))

	second := f.manager(t)
	require.NoError(t, second.Load(context.Background()))

	assert.Equal(t, StateUnauthenticated, second.State())
	assert.EqualValues(t, 0, f.backend.profileCalls.Load(), "expired token must not hit the backend")
}

func TestRegisterUsesPlaceholderToken(t *testing.T) {
	f := newFixture(t)
	m := f.manager(t)

	require.NoError(t, m.Register(context.Background(), "new@example.com", "pw", "fallback"))
	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, "New User", m.CurrentUser().DisplayName)

	// The placeholder never survives a restart; the user must log in.
	second := f.manager(t)
	require.NoError(t, second.Load(context.Background()))
	assert.Equal(t, StateUnauthenticated, second.State())
	assert.EqualValues(t, 0, f.backend.profileCalls.Load())
}

func TestGoogleSignIn(t *testing.T) {
	f := newFixture(t)
	m := f.manager(t)

	require.NoError(t, m.GoogleSignIn(context.Background(), "google-id-token"))
	u := m.CurrentUser()
	require.NotNil(t, u)
	assert.Equal(t, "u3", u.UID)
	assert.Equal(t, "g", u.DisplayName)
	assert.Equal(t, "google-id-token", u.Token)
}

func TestLogoutClearsEverything(t *testing.T) {
	f := newFixture(t)
	m := f.manager(t)
	require.NoError(t, m.Login(context.Background(), "jane@example.com", "pw"))
	require.NoError(t, f.local.Set(storage.KeyCurrentFileHash, "abc123"))
	require.NoError(t, f.session.Set("u1/fileList", "[]"))

	require.NoError(t, m.Logout())

	assert.False(t, m.IsAuthenticated())
	for _, key := range []string{storage.KeyUser, storage.KeyToken, storage.KeyCurrentFileHash} {
		_, ok := f.local.Get(key)
		assert.False(t, ok, "key %s must be cleared", key)
	}
	assert.Empty(t, f.session.Keys())
	assert.False(t, f.client.HasAuthToken())
}

func TestLoginErrorIsWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
	}))
	defer srv.Close()

	f := newFixture(t)
	f.client = api.NewClient(api.WithBaseURL(srv.URL + "/api"))
	m := f.manager(t)

	err := m.Login(context.Background(), "jane@example.com", "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login failed")
	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.False(t, m.IsAuthenticated())
}

func TestCredStoreRoundTripAndTamper(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "key")
	cs, err := newCredStore(keyPath)
	require.NoError(t, err)

	sealed, err := cs.Seal("secret-token")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sealed, "ENC:"))

	// Same key file opens it; a fresh store over the same path shares the key.
	cs2, err := newCredStore(keyPath)
	require.NoError(t, err)
	plain, err := cs2.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "secret-token", plain)

	// Legacy plaintext passes through.
	plain, err = cs.Open("legacy-plaintext")
	require.NoError(t, err)
	assert.Equal(t, "legacy-plaintext", plain)

	// Tampering is detected.
	tampered := sealed[:len(sealed)-2] + "xx"
	_, err = cs.Open(tampered)
	assert.Error(t, err)
}

func TestTokenExpiredHeuristics(t *testing.T) {
	now := time.Now()
	assert.True(t, tokenExpired("", now))
	assert.True(t, tokenExpired(placeholderToken, now))
	// Opaque tokens are left for the backend to judge.
	assert.False(t, tokenExpired("opaque-session-token", now))

	valid := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": now.Add(time.Hour).Unix(),
	})
	signed, err := valid.SignedString([]byte("k"))
	require.NoError(t, err)
	assert.False(t, tokenExpired(signed, now))
}
