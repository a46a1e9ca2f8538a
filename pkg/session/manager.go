// Copyright (C) 2025 Mi-Insurtech
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package session owns the console's authentication state.
//
// The session is either authenticated (token + user) or anonymous.
// Tokens are persisted through pkg/store so a session survives process
// restarts; an in-memory mirror keeps the hot path off the database.
// Transport() wraps an http.RoundTripper so every backend request
// carries the bearer token, and any 401/403 the backend answers forces
// a logout exactly once.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/miinsurtech/corredor/pkg/entity"
	"github.com/miinsurtech/corredor/pkg/store"
)

// Session is a read-only snapshot of the authentication state.
type Session struct {
	Token string
	User  *entity.Usuario
}

// Authenticated reports whether a token is present. The user record
// may lag behind the token briefly during login.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// loginFunc exchanges credentials for a token; userFunc fetches the
// account behind the active token. Both are satisfied by *api.Client;
// keeping them as function fields avoids an import cycle, since the
// client's http.Client is built from this package's transport.
type loginFunc func(ctx context.Context, username, password string) (string, error)
type userFunc func(ctx context.Context) (*entity.Usuario, error)

// Manager is the single writer of session state. Safe for concurrent
// use.
type Manager struct {
	store  *store.Store
	logger *slog.Logger

	login loginFunc
	user  userFunc

	mu          sync.Mutex
	token       string
	currentUser *entity.Usuario
	subscribers []func()
}

// Config wires a Manager.
type Config struct {
	// Store persists the token and user across restarts. Required.
	Store *store.Store

	// Login exchanges credentials for a token (api.Client.Login).
	Login func(ctx context.Context, username, password string) (string, error)

	// CurrentUser fetches the account for the active token
	// (api.Client.CurrentUser).
	CurrentUser func(ctx context.Context) (*entity.Usuario, error)

	// Logger receives session lifecycle events. Nil discards.
	Logger *slog.Logger
}

// New creates a Manager and restores any persisted session.
func New(cfg Config) (*Manager, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	m := &Manager{
		store:  cfg.Store,
		logger: logger,
		login:  cfg.Login,
		user:   cfg.CurrentUser,
	}
	if err := m.restore(); err != nil {
		return nil, err
	}
	return m, nil
}

// restore loads a previously persisted session, if any.
func (m *Manager) restore() error {
	token, ok, err := m.store.Get(store.KeyAccessToken)
	if err != nil {
		return fmt.Errorf("restore session token: %w", err)
	}
	if !ok {
		return nil
	}
	m.token = token

	raw, ok, err := m.store.Get(store.KeyCurrentUser)
	if err != nil {
		return fmt.Errorf("restore session user: %w", err)
	}
	if ok {
		var u entity.Usuario
		if err := json.Unmarshal([]byte(raw), &u); err == nil {
			m.currentUser = &u
		}
		// A corrupt user record is not fatal; the token still works
		// and the user is refetched on the next whoami.
	}
	m.logger.Debug("session restored", "user_known", m.currentUser != nil)
	return nil
}

// Current returns a snapshot of the session.
func (m *Manager) Current() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Session{Token: m.token, User: m.currentUser}
}

// Token returns the active bearer token, or empty when anonymous.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Authenticated reports whether a session is active.
func (m *Manager) Authenticated() bool {
	return m.Token() != ""
}

// Subscribe registers fn to run after every forced logout. Used by the
// UI layer to drop to the login screen. Subscribers run synchronously,
// outside the manager's lock, in registration order.
func (m *Manager) Subscribe(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

// Login authenticates and persists the session.
//
// The token is persisted before the user fetch: the fetch rides the
// session transport, which needs the token in place. If the user fetch
// fails the half-open session is rolled back and the error returned.
func (m *Manager) Login(ctx context.Context, username, password string) (*entity.Usuario, error) {
	if m.login == nil || m.user == nil {
		return nil, fmt.Errorf("manager not wired with login functions")
	}

	token, err := m.login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	if err := m.setToken(token); err != nil {
		return nil, err
	}

	u, err := m.user(ctx)
	if err != nil {
		m.clear()
		return nil, fmt.Errorf("fetch current user: %w", err)
	}
	if err := m.setUser(u); err != nil {
		return nil, err
	}

	m.logger.Info("login succeeded", "username", u.Username)
	return u, nil
}

// Logout ends the session. Idempotent: logging out of an anonymous
// session is a no-op and notifies nobody.
func (m *Manager) Logout() {
	if m.forceClear() {
		m.logger.Info("logged out")
	}
}

// forcedLogout is invoked by the transport on an intercepted 401/403.
func (m *Manager) forcedLogout() {
	if m.forceClear() {
		m.logger.Warn("session rejected by backend, logged out")
	}
}

// forceClear transitions to anonymous and notifies subscribers. It
// reports whether a transition actually happened; concurrent callers
// collapse to one notification.
func (m *Manager) forceClear() bool {
	m.mu.Lock()
	if m.token == "" {
		m.mu.Unlock()
		return false
	}
	m.token = ""
	m.currentUser = nil
	_ = m.store.Delete(store.KeyAccessToken)
	_ = m.store.Delete(store.KeyCurrentUser)
	subs := make([]func(), len(m.subscribers))
	copy(subs, m.subscribers)
	m.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
	return true
}

// clear rolls back a half-open login without notifying subscribers;
// nothing observable was established yet.
func (m *Manager) clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.currentUser = nil
	_ = m.store.Delete(store.KeyAccessToken)
	_ = m.store.Delete(store.KeyCurrentUser)
}

func (m *Manager) setToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Set(store.KeyAccessToken, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	m.token = token
	return nil
}

func (m *Manager) setUser(u *entity.Usuario) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Set(store.KeyCurrentUser, string(raw)); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}
	m.currentUser = u
	return nil
}
