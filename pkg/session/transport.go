// Copyright (C) 2025 Mi-Insurtech
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"net/http"
	"strings"
)

// exemptPaths are the endpoints that establish a session; they get no
// bearer token and a 401 from them never forces a logout — it just
// means the credentials were wrong.
var exemptPaths = []string{
	"/auth/token",
	"/auth/register",
}

func exempt(path string) bool {
	for _, p := range exemptPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// transport decorates an http.RoundTripper with bearer injection and
// 401/403 interception.
type transport struct {
	base    http.RoundTripper
	manager *Manager
}

// Transport returns an http.RoundTripper that injects the session's
// Authorization header and forces a logout on an intercepted 401/403.
// base may be nil, which means http.DefaultTransport.
func (m *Manager) Transport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &transport{base: base, manager: m}
}

// HTTPClient is a convenience wrapper: a client whose transport is the
// session transport over http.DefaultTransport.
func (m *Manager) HTTPClient() *http.Client {
	return &http.Client{Transport: m.Transport(nil)}
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	isExempt := exempt(req.URL.Path)

	if !isExempt {
		if token := t.manager.Token(); token != "" {
			// Clone before mutating; RoundTrippers must not modify
			// the caller's request.
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if !isExempt && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
		t.manager.forcedLogout()
	}
	return resp, nil
}
