// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package registry

import (
	"regexp"
	"strings"
)

// WildcardToRegexp translates a glob pattern into a compiled regexp.
// `*` matches any run of characters and `?` matches a single character;
// every other regexp metacharacter is escaped. Matching is case-insensitive
// and anchored to the whole string.
func WildcardToRegexp(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("(?i)^")
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}
