// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/legalai/legalai-tui/internal/api"
	"github.com/legalai/legalai-tui/internal/export"
	"github.com/legalai/legalai-tui/internal/model"
	"github.com/legalai/legalai-tui/internal/registry"
	"github.com/legalai/legalai-tui/internal/storage"
	"github.com/legalai/legalai-tui/internal/ui/components"
)

const helpText = `Commands:
  /upload <path> [confidential]   upload a document
  /files                          list uploaded files
  /delete <name|id>               delete an uploaded file
  /summarize [name]               summarize the working document
  /simplify [basic|intermediate|advanced] [name]
                                  rewrite the document in plain language
  /compare <name|id> <name|id>    compare two documents
  /history                        load server-side chat history
  /export [markdown|json|html]    save the transcript to a file
  /retrain                        ask the backend to retrain its index
  /new                            start a new chat
  /help                           show this help

Shortcuts: ctrl+u upload · ctrl+e edit last question · ctrl+y copy answer
ctrl+b bookmark · ctrl+g rate answer · ctrl+s voice input · ctrl+n new chat
ctrl+q quit`

// runCommand dispatches a /command typed at the input line.
func (m *Model) runCommand(text string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(text)
	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	switch cmd {
	case "/help":
		m.conv.AddAI(systemNotice(helpText))
		m.refreshViewport()
		return m, nil

	case "/upload":
		if len(args) == 0 {
			m.toasts.AddWarning("Usage: /upload <path> [confidential]")
			return m, components.ToastTickCmd()
		}
		uploadType := api.UploadNormal
		if len(args) > 1 && strings.EqualFold(args[1], "confidential") {
			uploadType = api.UploadConfidential
		}
		return m.startUpload(args[0], uploadType)

	case "/files":
		m.listFiles()
		return m, nil

	case "/delete":
		if len(args) == 0 {
			m.toasts.AddWarning("Usage: /delete <name|id>")
			return m, components.ToastTickCmd()
		}
		return m, m.deleteFileCmd(args[0])

	case "/summarize":
		req := SendRequest{Kind: SendSummarize, Question: strings.Join(args, " ")}
		m.conv.AddUser("Summarize "+orDocument(args), nil)
		return m.dispatchSend(req, false)

	case "/simplify":
		level := api.SimplifyIntermediate
		rest := args
		if len(args) > 0 {
			if l, ok := parseSimplifyLevel(args[0]); ok {
				level = l
				rest = args[1:]
			}
		}
		req := SendRequest{Kind: SendSimplify, Question: strings.Join(rest, " "), SimplifyLevel: level}
		m.conv.AddUser("Simplify "+orDocument(rest), nil)
		return m.dispatchSend(req, false)

	case "/compare":
		if len(args) < 2 {
			m.toasts.AddWarning("Usage: /compare <name|id> <name|id>")
			return m, components.ToastTickCmd()
		}
		req := SendRequest{Kind: SendCompare, Question: args[0], CompareWith: args[1]}
		m.conv.AddUser(fmt.Sprintf("Compare %s with %s", args[0], args[1]), nil)
		return m.dispatchSend(req, false)

	case "/export":
		m.exportTranscript(args)
		return m, components.ToastTickCmd()

	case "/history":
		return m, m.loadHistoryCmd()

	case "/retrain":
		return m, m.retrainCmd()

	case "/new":
		m.newChat()
		return m, components.ToastTickCmd()

	default:
		m.toasts.AddWarning("Unknown command " + cmd + " (/help lists commands)")
		return m, components.ToastTickCmd()
	}
}

// systemNotice wraps informational text as an AI message so it renders in
// the transcript without hitting the backend.
func systemNotice(text string) *model.Message {
	return model.NewAIMessage(text)
}

func orDocument(args []string) string {
	if len(args) > 0 {
		return strings.Join(args, " ")
	}
	return "the current document"
}

func parseSimplifyLevel(s string) (api.SimplifyLevel, bool) {
	switch strings.ToLower(s) {
	case "basic":
		return api.SimplifyBasic, true
	case "intermediate":
		return api.SimplifyIntermediate, true
	case "advanced":
		return api.SimplifyAdvanced, true
	}
	return "", false
}

func (m *Model) listFiles() {
	files := m.reg.Files()
	if len(files) == 0 {
		m.conv.AddAI(systemNotice("No files uploaded yet. Use /upload <path> to add one."))
		m.refreshViewport()
		return
	}
	var b strings.Builder
	b.WriteString("Uploaded files:\n")
	for _, f := range files {
		b.WriteString("  • " + f.Name + "\n")
	}
	if last := m.reg.LastUploadedFile(); last != nil {
		b.WriteString("Working document: " + last.Filename)
	}
	m.conv.AddAI(systemNotice(b.String()))
	m.refreshViewport()
}

// exportTranscript writes the conversation to a file in the working
// directory.
func (m *Model) exportTranscript(args []string) {
	format := "markdown"
	if len(args) > 0 {
		format = args[0]
	}

	opts := export.DefaultOptions()
	if last := m.reg.LastUploadedFile(); last != nil {
		opts.Title = last.Filename
	}

	exp, err := export.ForFormat(format, opts)
	if err != nil {
		m.toasts.AddWarning(err.Error())
		return
	}
	path, err := export.ToFile(m.conv, exp, opts)
	if err != nil {
		m.toasts.AddError("Export failed: " + err.Error())
		return
	}
	m.toasts.AddSuccess("Transcript saved to " + path)
}

// =============================================================================
// UPLOAD + POLLING
// =============================================================================

func (m *Model) startUpload(path string, uploadType api.UploadType) (tea.Model, tea.Cmd) {
	filename := filepath.Base(path)
	m.toasts.AddStatus("Uploading " + filename + "…")

	client := m.client
	authed := m.authMgr.IsAuthenticated()
	return m, tea.Batch(components.ToastTickCmd(), func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		var resp *api.UploadResponse
		var err error
		if authed {
			resp, err = client.UploadFile(ctx, path, uploadType)
		} else {
			resp, err = client.GuestUploadFile(ctx, path)
		}
		return uploadResultMsg{Filename: filename, Resp: resp, Err: err}
	})
}

func (m *Model) handleUploadResult(msg uploadResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.toasts.AddError("Upload failed: " + msg.Err.Error())
		return m, components.ToastTickCmd()
	}

	name := msg.Resp.Filename
	if name == "" {
		name = msg.Filename
	}
	if err := m.reg.Register(name, msg.Resp.FileID); err != nil {
		m.logger.Warn("failed to register file", zap.Error(err))
	}
	if err := m.local.Set(storage.KeyCurrentFileHash, msg.Resp.FileID); err != nil {
		m.logger.Warn("failed to persist current file", zap.Error(err))
	}
	m.stagedHash = msg.Resp.FileID
	m.stagedName = name

	if msg.Resp.IsDuplicate {
		m.toasts.AddSuccess(name + " was already processed; ready to ask")
		return m, components.ToastTickCmd()
	}
	m.toasts.AddSuccess(name + " uploaded; processing…")

	// Follow processing until the backend reports a terminal status.
	if m.poller != nil {
		m.poller.Stop()
	}
	m.poller = api.NewStatusPoller(m.client, msg.Resp.FileID,
		api.WithPollInterval(time.Duration(m.cfg.Upload.PollIntervalSecs)*time.Second),
		api.WithMaxPollAttempts(m.cfg.Upload.MaxPollAttempts),
		api.WithPollerLogger(m.logger),
	)
	m.pollCh = m.poller.Start(context.Background())
	return m, tea.Batch(components.ToastTickCmd(), m.waitForPollCmd())
}

// waitForPollCmd relays the next poller observation into the update loop.
func (m *Model) waitForPollCmd() tea.Cmd {
	ch := m.pollCh
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return pollDrainedMsg{}
		}
		return pollResultMsg{Result: r}
	}
}

func (m *Model) handlePollResult(msg pollResultMsg) (tea.Model, tea.Cmd) {
	r := msg.Result
	if r.Err != nil {
		m.logger.Debug("status poll error", zap.Int("attempt", r.Attempt), zap.Error(r.Err))
	}

	if !r.Final {
		return m, m.waitForPollCmd()
	}

	m.poller = nil
	m.pollCh = nil
	switch {
	case r.Status != nil && r.Status.Status == api.StatusCompleted:
		m.toasts.AddSuccess("Document processed; ask away")
	case r.Status != nil && r.Status.Status == api.StatusFailed:
		m.toasts.AddError("Document processing failed: " + r.Status.Message)
	case r.Err != nil:
		m.toasts.AddWarning("Stopped checking document status: " + r.Err.Error())
	default:
		m.toasts.AddWarning("Document is still processing; answers may be incomplete")
	}
	return m, components.ToastTickCmd()
}

// =============================================================================
// BACKEND ONE-SHOTS
// =============================================================================

func (m *Model) deleteFileCmd(ref string) tea.Cmd {
	hash, err := m.reg.Resolve(registry.ParseFileRef(ref))
	if err != nil {
		m.toasts.AddWarning("Unknown file " + ref)
		return components.ToastTickCmd()
	}
	client := m.client
	m.toasts.AddStatus("Deleting " + ref + "…")
	return tea.Batch(components.ToastTickCmd(), func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := client.DeleteFile(ctx, hash); err != nil {
			return opResultMsg{Err: err}
		}
		return opResultMsg{OK: "Deleted " + ref}
	})
}

func (m *Model) loadHistoryCmd() tea.Cmd {
	hash, _ := m.local.Get(storage.KeyCurrentFileHash)
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		resp, err := client.GetChatHistory(ctx, hash, 50)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		return historyLoadedMsg{Entries: resp.Messages}
	}
}

func (m *Model) handleHistoryLoaded(msg historyLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.toasts.AddWarning("Could not load history: " + msg.Err.Error())
		return m, components.ToastTickCmd()
	}
	if len(msg.Entries) == 0 {
		m.toasts.AddStatus("No saved history for this document")
		return m, components.ToastTickCmd()
	}
	for _, e := range msg.Entries {
		m.conv.AddUser(e.Question, nil)
		m.conv.AddAI(systemNotice(e.Answer))
	}
	m.refreshViewport()
	return m, nil
}

func (m *Model) retrainCmd() tea.Cmd {
	client := m.client
	m.toasts.AddStatus("Requesting retrain…")
	return tea.Batch(components.ToastTickCmd(), func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		resp, err := client.TriggerRetrain(ctx)
		if err != nil {
			return opResultMsg{Err: err}
		}
		ok := "Retrain requested"
		if resp.Message != "" {
			ok = resp.Message
		}
		return opResultMsg{OK: ok}
	})
}
