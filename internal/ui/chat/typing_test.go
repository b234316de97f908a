// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTypingRevealAdvances(t *testing.T) {
	r := NewTypingReveal("hello world", 8*time.Millisecond)

	assert.False(t, r.Done())
	assert.Empty(t, r.Visible())

	r.Advance()
	first := r.Visible()
	assert.NotEmpty(t, first)
	assert.True(t, strings.HasPrefix("hello world", first))

	for !r.Done() {
		r.Advance()
	}
	assert.Equal(t, "hello world", r.Visible())
}

func TestTypingRevealSkip(t *testing.T) {
	r := NewTypingReveal("a long answer that would take a while", 50*time.Millisecond)
	r.Skip()
	assert.True(t, r.Done())
	assert.Equal(t, "a long answer that would take a while", r.Visible())
}

func TestTypingRevealInstantWhenDisabled(t *testing.T) {
	r := NewTypingReveal("instant", 0)
	assert.True(t, r.Done())
	assert.Equal(t, "instant", r.Visible())
}

func TestTypingRevealMultibyte(t *testing.T) {
	content := "条項は60日前の通知を要求します"
	r := NewTypingReveal(content, 8*time.Millisecond)
	for !r.Done() {
		r.Advance()
		// Every prefix must stay on rune boundaries.
		assert.True(t, strings.HasPrefix(content, r.Visible()))
	}
	assert.Equal(t, content, r.Visible())
}
