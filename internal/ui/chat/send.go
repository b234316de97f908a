// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/legalai/legalai-tui/internal/api"
	"github.com/legalai/legalai-tui/internal/auth"
	"github.com/legalai/legalai-tui/internal/model"
	"github.com/legalai/legalai-tui/internal/registry"
	"github.com/legalai/legalai-tui/internal/storage"
)

// SendKind selects the backend operation for a send.
type SendKind int

const (
	SendAsk SendKind = iota
	SendSummarize
	SendSimplify
	SendCompare
)

// SendRequest is one outgoing user turn.
type SendRequest struct {
	Question string
	Kind     SendKind

	// StagedHash is the identifier of a file uploaded as part of this
	// send; it outranks every other way of naming a file.
	StagedHash string
	// StagedName labels the staged file in the transcript.
	StagedName string

	// SelectedFile was chosen explicitly via the @mention popup.
	SelectedFile string

	// SimplifyLevel applies to SendSimplify.
	SimplifyLevel api.SimplifyLevel

	// CompareWith is the second document of a SendCompare.
	CompareWith string
}

// Sender executes the send flow against the backend. It is deliberately
// separate from the Bubble Tea model so the flow can be exercised without
// a terminal.
type Sender struct {
	Client   *api.Client
	Registry *registry.Registry
	Auth     *auth.Manager
	Local    storage.Store
	TopK     int
	Logger   *zap.Logger
}

// resolveForSend picks the file hash for a send, in priority order:
// the file staged in this send, then an explicitly selected file, then a
// file named in the question text, then the current-session hash, then
// the last-uploaded fallback. Returns ErrNoFile when nothing applies.
func (s *Sender) resolveForSend(req SendRequest) (string, string, error) {
	if req.StagedHash != "" {
		return req.StagedHash, req.StagedName, nil
	}
	if req.SelectedFile != "" {
		hash, err := s.Registry.Resolve(registry.NameRef(req.SelectedFile))
		if err != nil {
			return "", "", err
		}
		return hash, req.SelectedFile, nil
	}

	if name, ok := s.Registry.ResolveFromText(req.Question); ok {
		hash, err := s.Registry.Resolve(registry.NameRef(name))
		if err != nil {
			return "", "", err
		}
		return hash, name, nil
	}

	if current, ok := s.Local.Get(storage.KeyCurrentFileHash); ok && current != "" {
		return current, "", nil
	}
	return "", "", registry.ErrNoFile
}

// Send runs one user turn and always produces an AI message: the real
// answer on success, the demo fallback on any failure. The conversation
// is never left without a reply.
func (s *Sender) Send(ctx context.Context, req SendRequest) sendResultMsg {
	hash, name, err := s.resolveForSend(req)
	if err != nil {
		s.Logger.Warn("file resolution failed", zap.Error(err))
		return sendResultMsg{Message: demoMessage(), Err: err}
	}

	// Remember the working document for follow-up questions.
	if err := s.Local.Set(storage.KeyCurrentFileHash, hash); err != nil {
		s.Logger.Warn("failed to persist current file", zap.Error(err))
	}

	question := s.Registry.StripMentions(req.Question)

	var msg *model.Message
	switch req.Kind {
	case SendSummarize:
		msg, err = s.summarize(ctx, hash)
	case SendSimplify:
		msg, err = s.simplify(ctx, hash, req.SimplifyLevel)
	case SendCompare:
		msg, err = s.compare(ctx, hash, req.CompareWith)
	default:
		msg, err = s.ask(ctx, question, hash)
	}
	if err != nil {
		s.Logger.Warn("send failed, using demo fallback",
			zap.String("file_hash", hash), zap.Error(err))
		return sendResultMsg{Message: demoMessage(), Err: err}
	}

	if name != "" {
		msg.AttachedFiles = []model.AttachedFile{{Name: name, FileHash: hash}}
	}

	// Mirror the exchange into server-side history; best effort.
	if req.Kind == SendAsk && s.Auth.IsAuthenticated() {
		if err := s.Client.SaveChatMessage(ctx, question, msg.Content, hash); err != nil {
			s.Logger.Debug("failed to sync chat history", zap.Error(err))
		}
	}

	return sendResultMsg{Message: msg}
}

func (s *Sender) ask(ctx context.Context, question, hash string) (*model.Message, error) {
	var resp *api.QAResponse
	var err error
	if s.Auth.IsAuthenticated() {
		resp, err = s.Client.AskQuestion(ctx, question, hash, s.TopK)
	} else {
		resp, err = s.Client.GuestQA(ctx, question, hash, s.TopK)
	}
	if err != nil {
		return nil, err
	}

	msg := model.NewAIMessage(resp.Answer)
	msg.Highlights = resp.Highlights
	msg.Evidence = resp.Evidence
	msg.Confidence = resp.Confidence
	return msg, nil
}

func (s *Sender) summarize(ctx context.Context, hash string) (*model.Message, error) {
	resp, err := s.Client.SummarizeDocument(ctx, hash, nil)
	if err != nil {
		return nil, err
	}
	msg := model.NewAIMessage(resp.Summary)
	msg.Confidence = resp.Confidence
	return msg, nil
}

func (s *Sender) simplify(ctx context.Context, hash string, level api.SimplifyLevel) (*model.Message, error) {
	resp, err := s.Client.SimplifyText(ctx, hash, level)
	if err != nil {
		return nil, err
	}
	msg := model.NewAIMessage(resp.Text())
	msg.IsSimplified = true
	return msg, nil
}

func (s *Sender) compare(ctx context.Context, hash, other string) (*model.Message, error) {
	if other == "" {
		return nil, fmt.Errorf("compare needs a second document")
	}
	otherHash, err := s.Registry.Resolve(registry.ParseFileRef(other))
	if err != nil {
		return nil, err
	}
	resp, err := s.Client.CompareDocuments(ctx, hash, otherHash)
	if err != nil {
		return nil, err
	}
	return model.NewAIMessage(resp.Comparison), nil
}

// =============================================================================
// DEMO FALLBACK
// =============================================================================

// demoMessage is the canned answer shown when the backend is unreachable.
// The UI labels it clearly as demo content; the user keeps a working,
// explorable interface during an outage.
func demoMessage() *model.Message {
	content := strings.TrimSpace(`
**DIRECT ANSWER**
This is a demonstration response shown while the analysis service is
unavailable. Based on a typical residential lease agreement:

**SUMMARY**
The agreement establishes a 12-month tenancy with monthly rent due on the
first of each month. A security deposit of one month's rent is held
against damages and returned within 30 days of move-out.

**KEY CLAUSES**
- Either party may terminate with 60 days written notice after the
  initial term.
- Late payments incur a 5% fee after a 3-day grace period.
- Subletting requires the landlord's prior written consent.

**RED FLAGS**
- The automatic renewal clause renews for a full year unless notice is
  given 60 days before expiry.
`)

	msg := model.NewAIMessage(content)
	msg.IsDemo = true
	msg.Confidence = 87
	msg.Highlights = []api.Highlight{
		{Text: "60 days written notice", Category: "clause", Suggestion: "Diarize the notice deadline well in advance."},
		{Text: "5% late fee", Category: "payment", Suggestion: "Confirm the grace period in writing."},
		{Text: "security deposit returned within 30 days", Category: "favorable", Suggestion: ""},
		{Text: "automatic renewal for a full year", Category: "risky", Suggestion: "Negotiate a month-to-month renewal instead."},
	}
	return msg
}
