// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseArgsCommands(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want Command
	}{
		{"empty starts the TUI", nil, CmdTUI},
		{"ask", []string{"ask", "when is rent due"}, CmdAsk},
		{"ask alias", []string{"a", "question"}, CmdAsk},
		{"chat", []string{"chat"}, CmdChat},
		{"upload", []string{"upload", "lease.pdf"}, CmdUpload},
		{"files alias", []string{"ls"}, CmdFiles},
		{"delete alias", []string{"rm", "lease.pdf"}, CmdDelete},
		{"summarize", []string{"summarize"}, CmdSummarize},
		{"compare", []string{"compare", "a", "b"}, CmdCompare},
		{"simplify", []string{"simplify", "--level", "basic"}, CmdSimplify},
		{"history", []string{"history"}, CmdHistory},
		{"bookmarks alias", []string{"bm"}, CmdBookmarks},
		{"login", []string{"login", "a@b.com"}, CmdLogin},
		{"register alias", []string{"signup"}, CmdRegister},
		{"logout", []string{"logout"}, CmdLogout},
		{"whoami", []string{"whoami"}, CmdWhoami},
		{"status alias", []string{"s"}, CmdStatus},
		{"config", []string{"config", "show"}, CmdConfig},
		{"version flag", []string{"--version"}, CmdVersion},
		{"help flag", []string{"-h"}, CmdHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseArgs(tt.argv)
			assert.Equal(t, tt.want, got.Command)
		})
	}
}

func TestParseArgsUnknownWordBecomesQuestion(t *testing.T) {
	got := ParseArgs([]string{"when", "is", "rent", "due?"})
	assert.Equal(t, CmdAsk, got.Command)
	assert.Equal(t, []string{"when", "is", "rent", "due?"}, got.Rest)
}

func TestArgParserFlags(t *testing.T) {
	p := NewArgParser([]string{"show", "--limit", "50", "--level=basic", "--json", "-f", "lease.pdf"})

	assert.Equal(t, "show", p.Subcommand())
	assert.Equal(t, "50", p.Flag("limit"))
	assert.Equal(t, 50, p.IntFlag("limit", 10))
	assert.Equal(t, "basic", p.Flag("level"))
	assert.True(t, p.BoolFlag("json"))
	assert.Equal(t, "lease.pdf", p.Flag("f"))
}

func TestArgParserBoolOnlyFlagsDoNotEatValues(t *testing.T) {
	p := NewArgParser([]string{"upload", "--confidential", "lease.pdf"})

	assert.True(t, p.BoolFlag("confidential"))
	assert.Equal(t, "upload", p.Positional(0))
	assert.Equal(t, "lease.pdf", p.Positional(1))
}

func TestArgParserDefaults(t *testing.T) {
	p := NewArgParser(nil)

	assert.Empty(t, p.Subcommand())
	assert.Empty(t, p.Positional(3))
	assert.Equal(t, "dark", p.FlagOr("theme", "dark"))
	assert.Equal(t, 7, p.IntFlag("missing", 7))
	assert.False(t, p.BoolFlag("json"))
}

func TestArgParserMalformedIntFallsBack(t *testing.T) {
	p := NewArgParser([]string{"--limit", "many"})
	assert.Equal(t, 10, p.IntFlag("limit", 10))
}
