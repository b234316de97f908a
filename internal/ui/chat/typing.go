// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file implements the typewriter reveal of AI answers. The full
// answer is already in the conversation; the reveal only limits how much
// of it the view shows, advancing a rune cursor on a timer. Ticking at a
// capped frame rate and revealing several runes per frame keeps the
// configured per-character pace without rendering at 125fps.
package chat

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// typingFrameInterval is the render cadence of the reveal (~30fps).
const typingFrameInterval = 33 * time.Millisecond

// TypingReveal tracks the progressive disclosure of one message.
type TypingReveal struct {
	runes    []rune
	pos      int
	perRune  time.Duration
	perFrame int
}

// NewTypingReveal starts a reveal of content at the given per-character
// delay. A zero or negative delay reveals everything immediately.
func NewTypingReveal(content string, perRune time.Duration) *TypingReveal {
	t := &TypingReveal{
		runes:   []rune(content),
		perRune: perRune,
	}
	if perRune <= 0 {
		t.pos = len(t.runes)
		t.perFrame = len(t.runes)
		return t
	}

	// Runes disclosed per frame to hold the per-rune pace.
	t.perFrame = int(typingFrameInterval / perRune)
	if t.perFrame < 1 {
		t.perFrame = 1
	}
	return t
}

// Advance discloses the next batch of runes.
func (t *TypingReveal) Advance() {
	t.pos += t.perFrame
	if t.pos > len(t.runes) {
		t.pos = len(t.runes)
	}
}

// Skip discloses the rest immediately (user pressed a key to fast-forward).
func (t *TypingReveal) Skip() {
	t.pos = len(t.runes)
}

// Done reports whether the full content is visible.
func (t *TypingReveal) Done() bool {
	return t.pos >= len(t.runes)
}

// Visible returns the disclosed prefix.
func (t *TypingReveal) Visible() string {
	return string(t.runes[:t.pos])
}

// typingTickCmd schedules the next reveal frame.
func typingTickCmd() tea.Cmd {
	return tea.Tick(typingFrameInterval, func(ts time.Time) tea.Msg {
		return typingTickMsg{Time: ts}
	})
}
