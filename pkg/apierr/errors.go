// Copyright (C) 2025 Mi-Insurtech
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package apierr defines the error taxonomy shared by every component
// that talks to the brokerage backend.
//
// Four kinds of failure exist, and callers are expected to distinguish
// them with errors.As:
//
//   - ValidationError: local, raised before any request is sent.
//   - NetworkError: transport-level failure (offline, DNS, timeout).
//   - APIError: the server answered with a non-2xx status, or with a
//     2xx body that could not be parsed (Malformed is set).
//   - 401/403 responses are APIErrors whose Auth() method reports true;
//     the session manager handles them before callers ever see one.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// FieldError is one per-field validation failure, either produced
// locally or relayed verbatim from the server's structured error body.
type FieldError struct {
	Field   string
	Message string
}

func (f FieldError) String() string {
	if f.Field == "" {
		return f.Message
	}
	return f.Field + ": " + f.Message
}

// ValidationError reports local validation failures. It is always
// raised before a request is attempted, so receiving one guarantees no
// network traffic happened.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NetworkError wraps a transport failure. The request never produced an
// HTTP status; retrying is a reasonable suggestion to the user.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError is a non-2xx response from the server, or a 2xx response
// whose body did not match the expected shape (Malformed).
//
// Detail carries the server's `detail` string when the body was the
// structured FastAPI error form; otherwise it falls back to the HTTP
// status text. Fields carries the per-field list when the server
// returned one (422 bodies), relayed verbatim.
type APIError struct {
	Status    int
	Detail    string
	Fields    []FieldError
	Malformed bool
}

func (e *APIError) Error() string {
	if e.Malformed {
		return fmt.Sprintf("malformed response (status %d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("server error (status %d): %s", e.Status, e.Detail)
}

// Auth reports whether this error must force a logout.
func (e *APIError) Auth() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// AsValidation unwraps err as a *ValidationError.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	ok := errors.As(err, &v)
	return v, ok
}

// AsNetwork unwraps err as a *NetworkError.
func AsNetwork(err error) (*NetworkError, bool) {
	var n *NetworkError
	ok := errors.As(err, &n)
	return n, ok
}

// AsAPI unwraps err as an *APIError.
func AsAPI(err error) (*APIError, bool) {
	var a *APIError
	ok := errors.As(err, &a)
	return a, ok
}

// IsAuth reports whether err is an APIError carrying a 401 or 403.
func IsAuth(err error) bool {
	a, ok := AsAPI(err)
	return ok && a.Auth()
}
