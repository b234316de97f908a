// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth manages the user's authentication lifecycle: verifying a
// persisted token at startup, signing in and out, and keeping the API
// client's bearer token in sync with persisted state.
//
// The manager is a three-state machine. It starts in StateLoading; a valid
// persisted token moves it to StateAuthenticated, anything else to
// StateUnauthenticated. A failed startup verification is treated as a
// stale credential and hard-resets every piece of persisted client state.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/legalai/legalai-tui/internal/api"
	"github.com/legalai/legalai-tui/internal/storage"
)

// State is the authentication state.
type State int

const (
	// StateLoading means a persisted token is still being verified.
	StateLoading State = iota
	// StateAuthenticated means a valid user and token are present.
	StateAuthenticated
	// StateUnauthenticated means no usable credentials exist.
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// User is the signed-in account.
type User struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Token       string `json:"-"`
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager owns auth state. Safe for concurrent use.
type Manager struct {
	mu      sync.RWMutex
	state   State
	user    *User
	client  *api.Client
	local   storage.Store
	session storage.Store
	creds   *credStore
	logger  *zap.Logger
	now     func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger attaches a structured logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager creates an auth manager. local persists across runs, session
// lives for this process only; keyPath locates the token-sealing key.
func NewManager(client *api.Client, local, session storage.Store, keyPath string, opts ...Option) (*Manager, error) {
	creds, err := newCredStore(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize credential store: %w", err)
	}

	m := &Manager{
		state:   StateLoading,
		client:  client,
		local:   local,
		session: session,
		creds:   creds,
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// State returns the current authentication state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// IsAuthenticated reports whether a user is signed in.
func (m *Manager) IsAuthenticated() bool {
	return m.State() == StateAuthenticated
}

// CurrentUser returns the signed-in user, or nil.
func (m *Manager) CurrentUser() *User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	cp := *m.user
	return &cp
}

// Scope returns the registry namespace for the current user: the UID when
// signed in, the guest scope otherwise.
func (m *Manager) Scope() string {
	if u := m.CurrentUser(); u != nil {
		return u.UID
	}
	return "guest"
}

// =============================================================================
// STARTUP VERIFICATION
// =============================================================================

// Load resolves StateLoading. A persisted token is verified by fetching
// the user profile; on any failure the persisted state is wiped so the
// next run starts clean. Load never returns an error for invalid
// credentials, only for storage faults — an invalid token simply lands in
// StateUnauthenticated.
func (m *Manager) Load(ctx context.Context) error {
	rawUser, haveUser := m.local.Get(storage.KeyUser)
	sealedToken, haveToken := m.local.Get(storage.KeyToken)
	if !haveUser || !haveToken {
		m.setState(StateUnauthenticated, nil)
		return nil
	}

	token, err := m.creds.Open(sealedToken)
	if err != nil {
		m.logger.Warn("persisted token unreadable, resetting", zap.Error(err))
		return m.hardReset()
	}

	var user User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		m.logger.Warn("persisted user unreadable, resetting", zap.Error(err))
		return m.hardReset()
	}

	// Locally-expired tokens skip the round trip.
	if tokenExpired(token, m.now()) {
		m.logger.Info("persisted token expired, resetting")
		return m.hardReset()
	}

	m.client.SetAuthToken(token)
	profile, err := m.client.GetUserProfile(ctx)
	if err != nil {
		m.logger.Info("persisted token rejected by backend, resetting", zap.Error(err))
		return m.hardReset()
	}

	user.UID = profile.UID
	user.Email = profile.Email
	if profile.DisplayName != "" {
		user.DisplayName = profile.DisplayName
	}
	user.Token = token
	m.setState(StateAuthenticated, &user)
	m.logger.Info("session restored", zap.String("uid", user.UID))
	return nil
}

// =============================================================================
// SIGN IN / SIGN OUT
// =============================================================================

// Login exchanges credentials for a session. The display name defaults to
// the email prefix; the backend profile can refine it later.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	resp, err := m.client.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	user := &User{
		UID:         resp.UID,
		Email:       resp.Email,
		DisplayName: strings.SplitN(resp.Email, "@", 2)[0],
		Token:       resp.IDToken,
	}
	if err := m.persist(user); err != nil {
		return err
	}
	m.client.SetAuthToken(user.Token)
	m.setState(StateAuthenticated, user)
	m.logger.Info("logged in", zap.String("uid", user.UID))
	return nil
}

// Register creates an account. The backend issues no token at this step,
// so a placeholder is persisted; it never validates, which forces a real
// login on the next startup.
func (m *Manager) Register(ctx context.Context, email, password, displayName string) error {
	resp, err := m.client.Register(ctx, email, password, displayName)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	name := resp.Name
	if name == "" {
		name = displayName
	}
	user := &User{
		UID:         resp.UID,
		Email:       resp.Email,
		DisplayName: name,
		Token:       placeholderToken,
	}
	if err := m.persist(user); err != nil {
		return err
	}
	m.client.SetAuthToken(user.Token)
	m.setState(StateAuthenticated, user)
	m.logger.Info("registered", zap.String("uid", user.UID))
	return nil
}

// GoogleSignIn authenticates with a Google ID token; the token doubles as
// the bearer credential.
func (m *Manager) GoogleSignIn(ctx context.Context, idToken string) error {
	resp, err := m.client.GoogleSignIn(ctx, idToken)
	if err != nil {
		return fmt.Errorf("google sign-in failed: %w", err)
	}

	name := resp.Name
	if name == "" {
		name = strings.SplitN(resp.Email, "@", 2)[0]
	}
	user := &User{
		UID:         resp.UID,
		Email:       resp.Email,
		DisplayName: name,
		Token:       idToken,
	}
	if err := m.persist(user); err != nil {
		return err
	}
	m.client.SetAuthToken(user.Token)
	m.setState(StateAuthenticated, user)
	m.logger.Info("google sign-in", zap.String("uid", user.UID))
	return nil
}

// Logout wipes persisted credentials and session state. One-way.
func (m *Manager) Logout() error {
	for _, key := range []string{storage.KeyUser, storage.KeyToken, storage.KeyCurrentFileHash} {
		if err := m.local.Delete(key); err != nil {
			return fmt.Errorf("failed to clear %s: %w", key, err)
		}
	}
	if err := m.session.Clear(); err != nil {
		return fmt.Errorf("failed to clear session state: %w", err)
	}
	m.client.ClearAuthToken()
	m.setState(StateUnauthenticated, nil)
	m.logger.Info("logged out")
	return nil
}

// =============================================================================
// INTERNALS
// =============================================================================

// hardReset clears every persisted artifact after a failed startup
// verification. Stale tokens on a shared machine must not linger.
func (m *Manager) hardReset() error {
	if err := m.local.Clear(); err != nil {
		return fmt.Errorf("failed to clear local state: %w", err)
	}
	if err := m.session.Clear(); err != nil {
		return fmt.Errorf("failed to clear session state: %w", err)
	}
	m.client.ClearAuthToken()
	m.setState(StateUnauthenticated, nil)
	return nil
}

func (m *Manager) persist(user *User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	sealed, err := m.creds.Seal(user.Token)
	if err != nil {
		return fmt.Errorf("failed to seal token: %w", err)
	}

	if err := m.local.Set(storage.KeyUser, string(raw)); err != nil {
		return fmt.Errorf("failed to persist user: %w", err)
	}
	if err := m.local.Set(storage.KeyToken, sealed); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	return nil
}

func (m *Manager) setState(s State, user *User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
	m.user = user
}
