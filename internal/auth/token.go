// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// placeholderToken is persisted after registration, which issues no real
// token. It never validates, so the next startup forces a proper login.
const placeholderToken = "temp-token"

// tokenExpired reports whether a persisted token is already known to be
// unusable without asking the backend. Only tokens that parse as JWTs and
// carry an exp claim can be rejected locally; anything else is left for
// the profile fetch to decide, since the backend may issue opaque tokens.
func tokenExpired(token string, now time.Time) bool {
	if token == "" || token == placeholderToken {
		return true
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	// Unverified parse: we only want the exp claim, the backend owns
	// signature validation.
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
