// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// history_cmd.go - saved Q&A history and bookmarks.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// RunHistory prints server-side chat history for a document.
func (app *App) RunHistory(rest []string) int {
	p := NewArgParser(rest)

	hash, err := app.resolveTarget(p.Flag("file"), strings.Join(p.Positionals(), " "))
	if err != nil {
		return fail(err)
	}
	limit := p.IntFlag("limit", 20)

	ctx, cancel := app.ctx()
	defer cancel()
	resp, err := app.Client.GetChatHistory(ctx, hash, limit)
	if err != nil {
		return fail(err)
	}

	if len(resp.Messages) == 0 {
		fmt.Println("no saved history for this document")
		return 0
	}

	if p.BoolFlag("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp.Messages); err != nil {
			return fail(err)
		}
		return 0
	}

	for _, e := range resp.Messages {
		fmt.Println("Q:", e.Question)
		fmt.Println("A:", truncateLine(e.Answer, 300))
		fmt.Println()
	}
	return 0
}

// RunBookmarks manages locally bookmarked answers.
//
//	legalai bookmarks              list
//	legalai bookmarks list
//	legalai bookmarks delete ID
func (app *App) RunBookmarks(rest []string) int {
	p := NewArgParser(rest)

	if app.Bookmarks == nil {
		fmt.Fprintln(os.Stderr, "bookmarks are unavailable")
		return 1
	}

	switch p.Subcommand() {
	case "", "list":
		limit := p.IntFlag("limit", 20)
		items, err := app.Bookmarks.List(limit)
		if err != nil {
			return fail(err)
		}
		if len(items) == 0 {
			fmt.Println("no bookmarks yet; press ctrl+b in the TUI to save an answer")
			return 0
		}
		for _, b := range items {
			fmt.Printf("%s  %s\n", b.ID, b.CreatedAt.Format("2006-01-02 15:04"))
			if b.FileName != "" {
				fmt.Println("  file:", b.FileName)
			}
			fmt.Println("  Q:", truncateLine(b.Question, 120))
			fmt.Println("  A:", truncateLine(b.Answer, 200))
		}
		return 0

	case "delete", "rm":
		id := p.Positional(1)
		if id == "" {
			fmt.Fprintln(os.Stderr, "usage: legalai bookmarks delete ID")
			return 2
		}
		if err := app.Bookmarks.Delete(id); err != nil {
			return fail(err)
		}
		fmt.Println("deleted bookmark", id)
		return 0

	default:
		fmt.Fprintln(os.Stderr, "usage: legalai bookmarks [list|delete ID]")
		return 2
	}
}
