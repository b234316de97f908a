// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes chat transcripts to shareable files. Lawyers and
// tenants alike end up pasting answers into emails; a clean export beats
// a terminal screenshot.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/legalai/legalai-tui/internal/model"
)

// Exporter converts a transcript to one output format.
type Exporter interface {
	Export(conv *model.Conversation) ([]byte, error)
	FileExtension() string
}

// Options configures transcript export.
type Options struct {
	// OutputDir is where files are written. Default: current directory.
	OutputDir string

	// Title labels the transcript, usually the working document's name.
	Title string

	// IncludeTimestamps includes per-message timestamps.
	IncludeTimestamps bool
}

// DefaultOptions returns the default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:         ".",
		Title:             "legal document chat",
		IncludeTimestamps: true,
	}
}

// ForFormat returns the exporter for a format name: "markdown" (or "md"),
// "json", or "html".
func ForFormat(format string, opts *Options) (Exporter, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	switch strings.ToLower(format) {
	case "", "markdown", "md":
		return &MarkdownExporter{options: opts}, nil
	case "json":
		return &JSONExporter{options: opts}, nil
	case "html":
		return &HTMLExporter{options: opts}, nil
	default:
		return nil, fmt.Errorf("unknown export format %q (markdown, json, html)", format)
	}
}

// ToFile exports a transcript and returns the written path.
func ToFile(conv *model.Conversation, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if conv.Len() == 0 {
		return "", fmt.Errorf("nothing to export yet")
	}

	content, err := exporter.Export(conv)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	filename := fmt.Sprintf("chat_%s_%s%s",
		sanitizeFilename(opts.Title),
		time.Now().Format("20060102_150405"),
		exporter.FileExtension(),
	)

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(opts.OutputDir, filename)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}
	return path, nil
}

// sanitizeFilename keeps the title usable as a filename component.
func sanitizeFilename(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_' || r == '.':
			b.WriteRune('_')
		}
	}
	out := b.String()
	if out == "" {
		out = "chat"
	}
	if len(out) > 40 {
		out = out[:40]
	}
	return out
}
