// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/legalai/legalai-tui/internal/registry"
	"github.com/legalai/legalai-tui/internal/ui/styles"
)

// FileCompletion is the popup shown while the user types an @mention.
// It filters the registered files by the normalized substring typed so far
// and lets the arrow keys pick one.
type FileCompletion struct {
	active   bool
	query    string
	matches  []registry.StoredFile
	selected int
}

// Open activates the popup over the given candidates.
func (fc *FileCompletion) Open(files []registry.StoredFile) {
	fc.active = true
	fc.query = ""
	fc.matches = files
	fc.selected = 0
}

// Close deactivates the popup.
func (fc *FileCompletion) Close() {
	fc.active = false
	fc.query = ""
	fc.matches = nil
	fc.selected = 0
}

// Active reports whether the popup is showing.
func (fc *FileCompletion) Active() bool {
	return fc.active
}

// SetQuery updates the filter with the text typed after the @.
func (fc *FileCompletion) SetQuery(query string, files []registry.StoredFile) {
	fc.query = query
	needle := strings.ToLower(query)

	fc.matches = fc.matches[:0]
	for _, f := range files {
		if needle == "" || strings.Contains(f.Normalized, needle) {
			fc.matches = append(fc.matches, f)
		}
	}
	if fc.selected >= len(fc.matches) {
		fc.selected = 0
	}
}

// Matches returns the current candidates.
func (fc *FileCompletion) Matches() []registry.StoredFile {
	return fc.matches
}

// MoveUp moves the selection up, wrapping.
func (fc *FileCompletion) MoveUp() {
	if len(fc.matches) == 0 {
		return
	}
	fc.selected = (fc.selected - 1 + len(fc.matches)) % len(fc.matches)
}

// MoveDown moves the selection down, wrapping.
func (fc *FileCompletion) MoveDown() {
	if len(fc.matches) == 0 {
		return
	}
	fc.selected = (fc.selected + 1) % len(fc.matches)
}

// Selected returns the chosen file, if any candidates remain.
func (fc *FileCompletion) Selected() (registry.StoredFile, bool) {
	if !fc.active || len(fc.matches) == 0 {
		return registry.StoredFile{}, false
	}
	return fc.matches[fc.selected], true
}

// View renders the popup.
func (fc *FileCompletion) View(theme *styles.Theme) string {
	if !fc.active {
		return ""
	}
	if len(fc.matches) == 0 {
		return theme.CompletionPopup.Render(theme.CompletionItem.Render("no matching files"))
	}

	var b strings.Builder
	for i, f := range fc.matches {
		line := f.Name
		if i == fc.selected {
			b.WriteString(theme.CompletionSelected.Render("▸ " + line))
		} else {
			b.WriteString(theme.CompletionItem.Render("  " + line))
		}
		if i < len(fc.matches)-1 {
			b.WriteString("\n")
		}
	}
	return theme.CompletionPopup.Render(b.String())
}
