// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"errors"
	"sync"
)

// ErrMessageNotFound is returned when a message ID is not in the
// conversation.
var ErrMessageNotFound = errors.New("message not found")

// MaxMessages bounds conversation growth; the oldest messages are pruned
// in pairs so a user message never loses its reply.
const MaxMessages = 1000

// Conversation is the in-memory message list for the current session.
// It is deliberately not persisted locally: chat content on a shared
// machine must not outlive the process. Safe for concurrent use.
type Conversation struct {
	mu       sync.Mutex
	messages []*Message
}

// NewConversation creates an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{}
}

// AddUser appends a user message built from content and returns it.
func (c *Conversation) AddUser(content string, attached []AttachedFile) *Message {
	m := NewUserMessage(content, attached)
	c.append(m)
	return m
}

// AddAI appends an assistant message and returns it.
func (c *Conversation) AddAI(m *Message) *Message {
	c.append(m)
	return m
}

func (c *Conversation) append(m *Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, m)
	if len(c.messages) > MaxMessages {
		c.messages = c.messages[2:]
	}
}

// Messages returns a snapshot of the message list.
func (c *Conversation) Messages() []*Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

// Last returns the most recent message, or nil.
func (c *Conversation) Last() *Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.messages) == 0 {
		return nil
	}
	return c.messages[len(c.messages)-1]
}

// Get returns the message with the given ID.
func (c *Conversation) Get(id string) (*Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range c.messages {
		if m.ID == id {
			return m, true
		}
	}
	return nil, false
}

// Edit replaces the content of a user message and removes the assistant
// reply immediately following it, if there is one. The caller re-runs the
// send flow to regenerate the reply. Editing an assistant message is
// rejected.
func (c *Conversation) Edit(id, newContent string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, m := range c.messages {
		if m.ID != id {
			continue
		}
		if m.Role != RoleUser {
			return errors.New("only user messages can be edited")
		}

		m.Content = newContent
		if i+1 < len(c.messages) && c.messages[i+1].Role == RoleAI {
			c.messages = append(c.messages[:i+1], c.messages[i+2:]...)
		}
		return nil
	}
	return ErrMessageNotFound
}

// Clear removes all messages (new-chat).
func (c *Conversation) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
}
