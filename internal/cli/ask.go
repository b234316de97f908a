// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - single question command.
//
// Examples:
//   legalai ask "When can the landlord raise the rent?"
//   legalai ask "What does @lease.pdf say about deposits?"
//   legalai ask --file nda.pdf --json "Who owns the work product?"
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/legalai/legalai-tui/internal/api"
)

// RunAsk sends one question and prints the answer.
func (app *App) RunAsk(rest []string) int {
	p := NewArgParser(rest)
	question := strings.Join(p.Positionals(), " ")
	if question == "" {
		fmt.Fprintln(os.Stderr, `usage: legalai ask "question" [--file NAME] [--json]`)
		return 2
	}

	hash, err := app.resolveTarget(p.Flag("file"), question)
	if err != nil {
		return fail(err)
	}

	ctx, cancel := app.ctx()
	defer cancel()

	question = app.Registry.StripMentions(question)
	topK := p.IntFlag("top-k", app.Config.API.TopK)

	var resp *api.QAResponse
	if app.Auth.IsAuthenticated() {
		resp, err = app.Client.AskQuestion(ctx, question, hash, topK)
	} else {
		resp, err = app.Client.GuestQA(ctx, question, hash, topK)
	}
	if err != nil {
		return fail(err)
	}

	if p.BoolFlag("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return fail(err)
		}
		return 0
	}

	printMarkdown(resp.Answer)
	if resp.Confidence > 0 {
		fmt.Printf("\nConfidence: %.0f%%\n", resp.Confidence)
	}
	for _, h := range resp.Highlights {
		fmt.Printf("  [%s] %s\n", h.Category, h.Text)
		if h.Suggestion != "" {
			fmt.Printf("        ↳ %s\n", h.Suggestion)
		}
	}
	if len(resp.Evidence) > 0 {
		fmt.Println("\nSources:")
		for _, ev := range resp.Evidence {
			fmt.Printf("  p.%d  %s\n", ev.Meta.PageNumber, truncateLine(ev.Text, 100))
		}
	}
	return 0
}

// printMarkdown renders markdown when stdout is a terminal, otherwise
// prints the raw text so output stays pipeable.
func printMarkdown(text string) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Println(text)
		return
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		fmt.Println(text)
		return
	}
	out, err := r.Render(text)
	if err != nil {
		fmt.Println(text)
		return
	}
	fmt.Print(out)
}

func truncateLine(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
