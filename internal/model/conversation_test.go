// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		m := NewUserMessage("q", nil)
		assert.False(t, seen[m.ID], "duplicate ID %s", m.ID)
		seen[m.ID] = true
	}
}

func TestConversationAppendAndSnapshot(t *testing.T) {
	c := NewConversation()
	u := c.AddUser("What is the notice period?", []AttachedFile{{Name: "Lease.pdf", FileHash: "abc"}})
	a := c.AddAI(NewAIMessage("30 days."))

	assert.Equal(t, 2, c.Len())
	msgs := c.Messages()
	assert.Equal(t, u.ID, msgs[0].ID)
	assert.Equal(t, a.ID, msgs[1].ID)
	assert.Equal(t, RoleUser, msgs[0].Role)
	assert.Equal(t, "Lease.pdf", msgs[0].AttachedFiles[0].Name)
	assert.Equal(t, a.ID, c.Last().ID)
}

func TestEditRemovesPairedReply(t *testing.T) {
	c := NewConversation()
	u1 := c.AddUser("first question", nil)
	c.AddAI(NewAIMessage("first answer"))
	u2 := c.AddUser("second question", nil)
	c.AddAI(NewAIMessage("second answer"))

	require.NoError(t, c.Edit(u1.ID, "first question, edited"))

	msgs := c.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "first question, edited", msgs[0].Content)
	// The edited message's reply is gone; the later pair is intact.
	assert.Equal(t, u2.ID, msgs[1].ID)
	assert.Equal(t, "second answer", msgs[2].Content)
}

func TestEditLastMessageWithoutReply(t *testing.T) {
	c := NewConversation()
	u := c.AddUser("pending question", nil)

	require.NoError(t, c.Edit(u.ID, "edited"))
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, "edited", c.Last().Content)
}

func TestEditRejectsAIMessagesAndUnknownIDs(t *testing.T) {
	c := NewConversation()
	c.AddUser("q", nil)
	a := c.AddAI(NewAIMessage("a"))

	assert.Error(t, c.Edit(a.ID, "nope"))
	assert.ErrorIs(t, c.Edit("msg_missing", "nope"), ErrMessageNotFound)
}

func TestClear(t *testing.T) {
	c := NewConversation()
	c.AddUser("q", nil)
	c.AddAI(NewAIMessage("a"))
	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Nil(t, c.Last())
}

func TestRoleDisplayName(t *testing.T) {
	assert.Equal(t, "You", RoleUser.DisplayName())
	assert.Equal(t, "Assistant", RoleAI.DisplayName())
}
