// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model defines the chat domain types: messages, attached files,
// and the in-memory conversation.
package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/legalai/legalai-tui/internal/api"
	"github.com/legalai/legalai-tui/internal/util"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// DisplayName returns the name shown in the transcript.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAI:
		return "Assistant"
	default:
		return string(r)
	}
}

// AttachedFile records a document that was attached to a message at send
// time, after its identifier was resolved.
type AttachedFile struct {
	Name     string
	FileHash string
}

// Message is one entry in the conversation. After creation a message is
// only ever changed by an explicit user edit; the system never mutates it
// retroactively.
type Message struct {
	ID        string
	Role      Role
	Content   string
	Timestamp time.Time

	// AI-only analysis payload.
	Highlights   []api.Highlight
	Evidence     []api.Evidence
	Confidence   float64
	IsSimplified bool

	// IsDemo marks a fallback answer produced while the backend was
	// unreachable.
	IsDemo bool

	AttachedFiles []AttachedFile
}

// NewUserMessage creates a user message with a fresh ID.
func NewUserMessage(content string, attached []AttachedFile) *Message {
	return &Message{
		ID:            generateID(),
		Role:          RoleUser,
		Content:       content,
		Timestamp:     time.Now(),
		AttachedFiles: attached,
	}
}

// NewAIMessage creates an assistant message with a fresh ID.
func NewAIMessage(content string) *Message {
	return &Message{
		ID:        generateID(),
		Role:      RoleAI,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// Preview returns the first n runes of the content for list displays.
func (m *Message) Preview(n int) string {
	return util.TruncateRunes(m.Content, n)
}

// generateID returns a unique message ID like "msg_a1b2c3d4e5f60708".
func generateID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing is unrecoverable; fall back to a timestamp.
		return "msg_" + time.Now().Format("20060102150405.000000000")
	}
	return "msg_" + hex.EncodeToString(b)
}
