// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// doc_cmd.go - document analysis commands: summarize, compare, simplify.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/legalai/legalai-tui/internal/api"
	"github.com/legalai/legalai-tui/internal/registry"
)

// RunSummarize prints a summary of a document.
func (app *App) RunSummarize(rest []string) int {
	p := NewArgParser(rest)

	hash, err := app.resolveTarget(p.Flag("file"), strings.Join(p.Positionals(), " "))
	if err != nil {
		return fail(err)
	}

	var focus []string
	if f := p.Flag("focus"); f != "" {
		focus = strings.Split(f, ",")
	}

	ctx, cancel := app.ctx()
	defer cancel()
	resp, err := app.Client.SummarizeDocument(ctx, hash, focus)
	if err != nil {
		return fail(err)
	}

	printMarkdown(resp.Summary)
	if resp.Confidence > 0 {
		fmt.Printf("\nConfidence: %.0f%%\n", resp.Confidence)
	}
	return 0
}

// RunCompare prints a comparison of two documents.
func (app *App) RunCompare(rest []string) int {
	p := NewArgParser(rest)
	ref1, ref2 := p.Positional(0), p.Positional(1)
	if ref1 == "" || ref2 == "" {
		fmt.Fprintln(os.Stderr, "usage: legalai compare NAME1 NAME2")
		return 2
	}

	hash1, err := app.Registry.Resolve(registry.ParseFileRef(ref1))
	if err != nil {
		return fail(err)
	}
	hash2, err := app.Registry.Resolve(registry.ParseFileRef(ref2))
	if err != nil {
		return fail(err)
	}

	ctx, cancel := app.ctx()
	defer cancel()
	resp, err := app.Client.CompareDocuments(ctx, hash1, hash2)
	if err != nil {
		return fail(err)
	}
	printMarkdown(resp.Comparison)
	return 0
}

// RunSimplify rewrites a document in plain language.
func (app *App) RunSimplify(rest []string) int {
	p := NewArgParser(rest)

	level := api.SimplifyLevel(p.FlagOr("level", string(api.SimplifyIntermediate)))
	switch level {
	case api.SimplifyBasic, api.SimplifyIntermediate, api.SimplifyAdvanced:
	default:
		fmt.Fprintln(os.Stderr, "level must be basic, intermediate, or advanced")
		return 2
	}

	hash, err := app.resolveTarget(p.Flag("file"), strings.Join(p.Positionals(), " "))
	if err != nil {
		return fail(err)
	}

	ctx, cancel := app.ctx()
	defer cancel()
	resp, err := app.Client.SimplifyText(ctx, hash, level)
	if err != nil {
		return fail(err)
	}
	printMarkdown(resp.Text())
	return 0
}
