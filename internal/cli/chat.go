// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - plain-terminal chat loop (no TUI). Useful over ssh, inside
// editors, and anywhere a full-screen program is unwelcome.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/legalai/legalai-tui/internal/api"
	"github.com/legalai/legalai-tui/internal/config"
)

// RunChat runs an interactive line-based chat session.
func (app *App) RunChat(rest []string) int {
	_ = NewArgParser(rest)

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	// Tab-completes registered filenames after an @.
	line.SetCompleter(func(l string) []string {
		at := strings.LastIndex(l, "@")
		if at < 0 {
			return nil
		}
		prefix := strings.ToLower(l[at+1:])
		var out []string
		for _, f := range app.Registry.Files() {
			if strings.HasPrefix(f.Normalized, prefix) {
				out = append(out, l[:at+1]+f.Name+" ")
			}
		}
		return out
	})

	histPath := filepath.Join(mustConfigDir(), "chat_history")
	if f, err := os.Open(histPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	who := "guest"
	if app.Auth.IsAuthenticated() {
		who = app.Auth.CurrentUser().Email
	}
	fmt.Printf("legalai chat (%s) — type a question, 'exit' to quit\n", who)
	if last := app.Registry.LastUploadedFile(); last != nil {
		fmt.Printf("working document: %s\n", last.Filename)
	}

	for {
		input, err := line.Prompt("legalai> ")
		if err == liner.ErrPromptAborted || err == io.EOF {
			fmt.Println()
			return 0
		}
		if err != nil {
			return fail(err)
		}

		input = strings.TrimSpace(input)
		switch input {
		case "":
			continue
		case "exit", "quit", "q":
			return 0
		case "files":
			app.RunFiles(nil)
			continue
		case "help":
			fmt.Println("ask a question, or: files · exit")
			continue
		}
		line.AppendHistory(input)

		hash, err := app.resolveTarget("", input)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		question := app.Registry.StripMentions(input)

		ctx, cancel := app.ctx()
		var resp *api.QAResponse
		if app.Auth.IsAuthenticated() {
			resp, err = app.Client.AskQuestion(ctx, question, hash, app.Config.API.TopK)
		} else {
			resp, err = app.Client.GuestQA(ctx, question, hash, app.Config.API.TopK)
		}
		cancel()
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			continue
		}

		printMarkdown(resp.Answer)
		for _, h := range resp.Highlights {
			fmt.Printf("  [%s] %s\n", h.Category, h.Text)
		}
		fmt.Println()
	}
}

func mustConfigDir() string {
	dir, err := config.ConfigDir()
	if err != nil {
		return os.TempDir()
	}
	return dir
}
