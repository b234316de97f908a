// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"net/http"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// Sentinel errors for common backend failure classes. Match with errors.Is.
var (
	// ErrNotConfigured indicates the client has no base URL.
	ErrNotConfigured = errors.New("api client not configured")

	// ErrUnauthorized indicates a missing, invalid, or expired token.
	ErrUnauthorized = errors.New("authentication failed")

	// ErrNotFound indicates the resource (file, user) does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrRateLimited indicates the backend rejected the request with 429.
	ErrRateLimited = errors.New("rate limited by backend")

	// ErrServerError indicates a 5xx backend failure.
	ErrServerError = errors.New("backend server error")
)

// APIError is a normalized backend error response.
// It wraps the matching sentinel so callers can branch with errors.Is while
// still reading the server's own message for display.
type APIError struct {
	Status  int    // HTTP status code
	Message string // server-provided message, or a derived fallback
	err     error  // sentinel for errors.Is, may be nil
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.err
}

// newAPIError builds an APIError for the status code, attaching the
// matching sentinel. message falls back to the HTTP status text and then
// to "Unknown error" when the server gave nothing usable.
func newAPIError(status int, message string) *APIError {
	if message == "" {
		if text := http.StatusText(status); text != "" {
			message = text
		} else {
			message = "Unknown error"
		}
	}

	var sentinel error
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		sentinel = ErrUnauthorized
	case status == http.StatusNotFound:
		sentinel = ErrNotFound
	case status == http.StatusTooManyRequests:
		sentinel = ErrRateLimited
	case status >= 500:
		sentinel = ErrServerError
	}

	return &APIError{Status: status, Message: message, err: sentinel}
}
