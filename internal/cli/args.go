// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strconv"
	"strings"
)

// ArgParser gives every subcommand the same flag handling:
//
//	--flag value     long flag with space-separated value
//	--flag=value     long flag with equals sign
//	--flag           boolean flag
//	-f value         short flag
//
// The first positional argument is the subcommand, the rest are
// positional values.
type ArgParser struct {
	flags      map[string]string
	boolFlags  map[string]bool
	positional []string
}

// boolOnlyFlags never consume the next argument as a value.
var boolOnlyFlags = map[string]bool{
	"json":         true,
	"plain":        true,
	"confidential": true,
	"verbose":      true,
	"quiet":        true,
	"no-wait":      true,
	"force":        true,
}

// NewArgParser parses raw arguments.
func NewArgParser(raw []string) *ArgParser {
	p := &ArgParser{
		flags:     make(map[string]string),
		boolFlags: make(map[string]bool),
	}

	for i := 0; i < len(raw); i++ {
		arg := raw[i]
		switch {
		case strings.HasPrefix(arg, "--"):
			name := strings.TrimPrefix(arg, "--")
			if eq := strings.Index(name, "="); eq >= 0 {
				p.flags[name[:eq]] = name[eq+1:]
				continue
			}
			if boolOnlyFlags[name] || i+1 >= len(raw) || strings.HasPrefix(raw[i+1], "-") {
				p.boolFlags[name] = true
				continue
			}
			p.flags[name] = raw[i+1]
			i++
		case strings.HasPrefix(arg, "-") && len(arg) > 1:
			name := strings.TrimPrefix(arg, "-")
			if i+1 < len(raw) && !strings.HasPrefix(raw[i+1], "-") {
				p.flags[name] = raw[i+1]
				i++
			} else {
				p.boolFlags[name] = true
			}
		default:
			p.positional = append(p.positional, arg)
		}
	}
	return p
}

// Subcommand returns the first positional argument.
func (p *ArgParser) Subcommand() string {
	if len(p.positional) == 0 {
		return ""
	}
	return p.positional[0]
}

// Positional returns the positional argument at index, or "".
func (p *ArgParser) Positional(i int) string {
	if i >= len(p.positional) {
		return ""
	}
	return p.positional[i]
}

// Positionals returns all positional arguments.
func (p *ArgParser) Positionals() []string {
	return p.positional
}

// Flag returns a string flag value.
func (p *ArgParser) Flag(name string) string {
	return p.flags[name]
}

// FlagOr returns a string flag value or a default.
func (p *ArgParser) FlagOr(name, def string) string {
	if v, ok := p.flags[name]; ok {
		return v
	}
	return def
}

// IntFlag returns an integer flag value, falling back to def on absence
// or a malformed value.
func (p *ArgParser) IntFlag(name string, def int) int {
	v, ok := p.flags[name]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// BoolFlag reports whether a boolean flag was given.
func (p *ArgParser) BoolFlag(name string) bool {
	if p.boolFlags[name] {
		return true
	}
	// --flag=true also counts.
	if v, ok := p.flags[name]; ok {
		b, err := strconv.ParseBool(v)
		return err == nil && b
	}
	return false
}
