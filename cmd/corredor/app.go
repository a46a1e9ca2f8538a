// Copyright (C) 2025 Mi-Insurtech
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/miinsurtech/corredor/pkg/api"
	"github.com/miinsurtech/corredor/pkg/entity"
	"github.com/miinsurtech/corredor/pkg/forms"
	"github.com/miinsurtech/corredor/pkg/invalidation"
	"github.com/miinsurtech/corredor/pkg/logging"
	"github.com/miinsurtech/corredor/pkg/session"
	"github.com/miinsurtech/corredor/pkg/store"
	"github.com/miinsurtech/corredor/pkg/ux"
)

// =============================================================================
// APPLICATION WIRING
// =============================================================================

// App bundles the wired components every command needs: the local
// store, the session manager, the API client, the invalidation bus,
// and the form orchestrator. Construct with newApp and always Close.
type App struct {
	Config  Config
	Logger  *logging.Logger
	Store   *store.Store
	Session *session.Manager
	API     *api.Client
	Bus     *invalidation.Bus
	Forms   *forms.Orchestrator
	Prefs   store.Preferences
}

// newApp wires the application. The session manager and the API
// client reference each other (the client's transport injects the
// session token; the manager logs in through the client), so the
// client is captured by closure and assigned after construction. The
// auth endpoints the manager calls are transport-exempt, so the order
// is safe.
func newApp() (*App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	level := logging.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = logging.LevelDebug
	case "warn":
		level = logging.LevelWarn
	case "error":
		level = logging.LevelError
	}
	if verbose {
		level = logging.LevelDebug
	}
	logger := logging.New(logging.Config{
		Level:   level,
		LogDir:  cfg.LogDir,
		Service: "corredor",
		Quiet:   !verbose,
	})

	st, err := store.Open(store.DefaultConfig(cfg.DataDir))
	if err != nil {
		logger.Close()
		return nil, fmt.Errorf("opening local store: %w", err)
	}

	var client *api.Client
	mgr, err := session.New(session.Config{
		Store: st,
		Login: func(ctx context.Context, username, password string) (string, error) {
			return client.Login(ctx, username, password)
		},
		CurrentUser: func(ctx context.Context) (*entity.Usuario, error) {
			return client.CurrentUser(ctx)
		},
		Logger: logger.Slog(),
	})
	if err != nil {
		st.Close()
		logger.Close()
		return nil, fmt.Errorf("restoring session: %w", err)
	}

	client, err = api.New(api.Config{
		BaseURL:           cfg.APIURL,
		HTTPClient:        mgr.HTTPClient(),
		RequestsPerSecond: cfg.RequestsPerSecond,
		Logger:            logger.Slog(),
	})
	if err != nil {
		st.Close()
		logger.Close()
		return nil, fmt.Errorf("configuring API client: %w", err)
	}

	bus := invalidation.New(invalidation.DefaultRules(), logger.Slog())

	orch, err := forms.New(forms.Config{
		Backend:  client,
		Notifier: bus,
		Logger:   logger.Slog(),
	})
	if err != nil {
		st.Close()
		logger.Close()
		return nil, err
	}

	prefs, err := store.LoadPreferences(st)
	if err != nil {
		logger.Warn("failed to load preferences, using defaults", "error", err)
		prefs = store.DefaultPreferences()
	}

	return &App{
		Config:  cfg,
		Logger:  logger,
		Store:   st,
		Session: mgr,
		API:     client,
		Bus:     bus,
		Forms:   orch,
		Prefs:   prefs,
	}, nil
}

// Close releases the store and the log file.
func (a *App) Close() {
	if err := a.Store.Close(); err != nil {
		a.Logger.Warn("closing store", "error", err)
	}
	a.Logger.Close()
}

// mustApp builds the App or exits. Commands call this first.
func mustApp() *App {
	app, err := newApp()
	if err != nil {
		ux.Error(err.Error())
		os.Exit(1)
	}
	return app
}

// requireAuth exits with a hint when no session is active.
func requireAuth(app *App) {
	if app.Session.Authenticated() {
		return
	}
	app.Close()
	ux.Error("no hay sesión activa; ejecute `corredor login` primero")
	os.Exit(1)
}

// fail prints the error and exits, closing the app first so the
// badger lock and the log file are released.
func fail(app *App, err error) {
	app.Close()
	ux.Error(err.Error())
	os.Exit(1)
}
