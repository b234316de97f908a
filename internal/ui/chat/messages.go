// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/legalai/legalai-tui/internal/api"
	"github.com/legalai/legalai-tui/internal/model"
)

// Bubble Tea messages produced by the chat view's async work.

// sendResultMsg carries the outcome of a send. Exactly one arrives per
// user message, and it always contains an AI message — on backend failure
// the message is the demo fallback and Err describes what went wrong.
type sendResultMsg struct {
	Message *model.Message
	Err     error
}

// uploadResultMsg carries the outcome of a document upload.
type uploadResultMsg struct {
	Filename string
	Resp     *api.UploadResponse
	Err      error
}

// pollResultMsg carries one upload status observation.
type pollResultMsg struct {
	Result api.PollResult
}

// pollDrainedMsg indicates the poller channel closed.
type pollDrainedMsg struct{}

// typingTickMsg advances the answer reveal animation.
type typingTickMsg struct {
	Time time.Time
}

// speechResultMsg carries one recognized phrase.
type speechResultMsg struct {
	Text string
}

// speechErrMsg carries a recognizer failure.
type speechErrMsg struct {
	Err error
}

// speechEndedMsg indicates the recognizer stopped.
type speechEndedMsg struct{}

// feedbackResultMsg carries the outcome of a feedback submission.
type feedbackResultMsg struct {
	Err error
}

// opResultMsg carries the outcome of a fire-and-forget backend call.
type opResultMsg struct {
	OK  string
	Err error
}

// historyLoadedMsg carries server-side chat history for the history view.
type historyLoadedMsg struct {
	Entries []api.ChatHistoryEntry
	Err     error
}
