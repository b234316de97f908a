// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the interactive chat view: a message transcript,
// an input line with @mention completion, document upload with status
// polling, and per-message affordances (copy, bookmark, feedback).
package chat

import (
	"context"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/legalai/legalai-tui/internal/api"
	"github.com/legalai/legalai-tui/internal/auth"
	"github.com/legalai/legalai-tui/internal/config"
	"github.com/legalai/legalai-tui/internal/model"
	"github.com/legalai/legalai-tui/internal/registry"
	"github.com/legalai/legalai-tui/internal/speech"
	"github.com/legalai/legalai-tui/internal/storage"
	"github.com/legalai/legalai-tui/internal/ui/components"
	"github.com/legalai/legalai-tui/internal/ui/styles"
)

// State is the chat view state.
type State int

const (
	// StateReady accepts input.
	StateReady State = iota
	// StateSending waits for the backend.
	StateSending
	// StateTyping plays the answer reveal animation.
	StateTyping
)

// Options bundles the dependencies of the chat view.
type Options struct {
	Client    *api.Client
	Registry  *registry.Registry
	Auth      *auth.Manager
	Local     storage.Store
	Bookmarks *storage.BookmarkStore
	Config    *config.Config
	Logger    *zap.Logger
	Speech    speech.Recognizer
}

// Model is the Bubble Tea model for the chat view.
type Model struct {
	state  State
	theme  *styles.Theme
	width  int
	height int

	input    textinput.Model
	viewport viewport.Model
	ready    bool

	conv   *model.Conversation
	sender *Sender

	client    *api.Client
	reg       *registry.Registry
	authMgr   *auth.Manager
	local     storage.Store
	bookmarks *storage.BookmarkStore
	cfg       *config.Config
	logger    *zap.Logger

	toasts     *components.ToastManager
	completion components.FileCompletion

	// Answer reveal animation for the newest AI message.
	reveal *TypingReveal

	// Markdown renderer, rebuilt when the wrap width changes.
	mdRenderer *glamour.TermRenderer
	mdWidth    int

	// Upload staged for the next send.
	stagedHash string
	stagedName string

	// Explicit selection from the @mention popup.
	selectedFile string

	// Message being edited, if any.
	editingID string

	// Upload status polling.
	poller *api.StatusPoller
	pollCh <-chan api.PollResult

	// Speech capture.
	recognizer   speech.Recognizer
	speechCh     chan tea.Msg
	speechActive bool
}

// New creates the chat view.
func New(opts Options) *Model {
	input := textinput.New()
	input.Placeholder = "Ask about your document… (@ to name a file, /help for commands)"
	input.Prompt = "› "
	input.CharLimit = 4000
	input.Focus()

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	recognizer := opts.Speech
	if recognizer == nil {
		recognizer = speech.NewNoop(speech.Callbacks{})
	}

	m := &Model{
		state:      StateReady,
		theme:      styles.NewTheme(),
		input:      input,
		conv:       model.NewConversation(),
		client:     opts.Client,
		reg:        opts.Registry,
		authMgr:    opts.Auth,
		local:      opts.Local,
		bookmarks:  opts.Bookmarks,
		cfg:        opts.Config,
		logger:     logger,
		toasts:     components.NewToastManager(),
		recognizer: recognizer,
		speechCh:   make(chan tea.Msg, 16),
	}
	m.sender = &Sender{
		Client:   opts.Client,
		Registry: opts.Registry,
		Auth:     opts.Auth,
		Local:    opts.Local,
		TopK:     opts.Config.API.TopK,
		Logger:   logger,
	}
	return m
}

// SetRecognizer swaps in a speech recognizer. The recognizer should be
// built with the callbacks from SpeechCallbacks so its events reach the
// update loop.
func (m *Model) SetRecognizer(r speech.Recognizer) {
	if r != nil {
		m.recognizer = r
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case sendResultMsg:
		return m.handleSendResult(msg)
	case uploadResultMsg:
		return m.handleUploadResult(msg)
	case pollResultMsg:
		return m.handlePollResult(msg)
	case pollDrainedMsg:
		m.poller = nil
		m.pollCh = nil
		return m, nil
	case typingTickMsg:
		return m.handleTypingTick()
	case components.ToastTickMsg:
		m.toasts.Tick()
		if m.toasts.HasToasts() {
			return m, components.ToastTickCmd()
		}
		return m, nil
	case speechResultMsg:
		v := strings.TrimSpace(m.input.Value() + " " + msg.Text)
		m.input.SetValue(v)
		m.input.CursorEnd()
		return m, m.listenSpeechCmd()
	case speechErrMsg:
		m.speechActive = false
		m.toasts.AddWarning("Voice input unavailable: " + msg.Err.Error())
		return m, components.ToastTickCmd()
	case speechEndedMsg:
		m.speechActive = false
		return m, nil
	case historyLoadedMsg:
		return m.handleHistoryLoaded(msg)
	case feedbackResultMsg:
		if msg.Err != nil {
			m.toasts.AddWarning("Feedback failed: " + msg.Err.Error())
		} else {
			m.toasts.AddSuccess("Feedback recorded, thank you")
		}
		return m, components.ToastTickCmd()
	case opResultMsg:
		if msg.Err != nil {
			m.toasts.AddError(msg.Err.Error())
		} else {
			m.toasts.AddSuccess(msg.OK)
		}
		return m, components.ToastTickCmd()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	headerHeight := 2
	footerHeight := 4
	vpHeight := msg.Height - headerHeight - footerHeight
	if vpHeight < 3 {
		vpHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = vpHeight
	}
	m.input.Width = msg.Width - 4
	m.refreshViewport()
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Completion popup swallows navigation keys while open.
	if m.completion.Active() {
		switch msg.String() {
		case "up":
			m.completion.MoveUp()
			return m, nil
		case "down":
			m.completion.MoveDown()
			return m, nil
		case "enter", "tab":
			m.acceptCompletion()
			return m, nil
		case "esc":
			m.completion.Close()
			return m, nil
		}
	}

	switch msg.String() {
	case "ctrl+q":
		m.shutdown()
		return m, tea.Quit

	case "ctrl+c":
		if m.state == StateTyping && m.reveal != nil {
			m.reveal.Skip()
			m.finishReveal()
			return m, nil
		}
		m.shutdown()
		return m, tea.Quit

	case "esc":
		if m.state == StateTyping && m.reveal != nil {
			m.reveal.Skip()
			m.finishReveal()
			return m, nil
		}
		if m.toasts.DismissNewest() {
			return m, nil
		}
		return m, nil

	case "enter":
		return m.submitInput()

	case "ctrl+e":
		m.beginEdit()
		return m, nil

	case "ctrl+u":
		// Prefill the upload command; the path still needs typing.
		m.input.SetValue("/upload ")
		m.input.CursorEnd()
		return m, nil

	case "ctrl+n":
		m.newChat()
		return m, components.ToastTickCmd()

	case "ctrl+y":
		m.copyLastAnswer()
		return m, components.ToastTickCmd()

	case "ctrl+b":
		m.bookmarkLastAnswer()
		return m, components.ToastTickCmd()

	case "ctrl+g":
		return m, m.feedbackCmd()

	case "ctrl+s":
		return m.toggleSpeech()

	case "pgup":
		m.viewport.HalfViewUp()
		return m, nil
	case "pgdown":
		m.viewport.HalfViewDown()
		return m, nil
	}

	prev := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.syncCompletion(prev)
	return m, cmd
}

// syncCompletion opens, filters, or closes the @mention popup based on the
// text currently in the input.
func (m *Model) syncCompletion(prev string) {
	val := m.input.Value()
	at := strings.LastIndex(val, "@")
	if at < 0 || (at > 0 && val[at-1] != ' ') {
		m.completion.Close()
		return
	}

	term := val[at+1:]
	if strings.ContainsAny(term, " \t") {
		m.completion.Close()
		return
	}

	if !m.completion.Active() && len(val) > len(prev) {
		m.completion.Open(m.reg.Files())
	}
	if m.completion.Active() {
		m.completion.SetQuery(term, m.reg.Files())
	}
}

// acceptCompletion inserts the chosen filename over the typed @term and
// records it as the explicit selection for the next send.
func (m *Model) acceptCompletion() {
	file, ok := m.completion.Selected()
	m.completion.Close()
	if !ok {
		return
	}

	val := m.input.Value()
	at := strings.LastIndex(val, "@")
	if at < 0 {
		return
	}
	m.input.SetValue(val[:at] + "@" + file.Name + " ")
	m.input.CursorEnd()
	m.selectedFile = file.Name
}

// =============================================================================
// SUBMIT
// =============================================================================

func (m *Model) submitInput() (tea.Model, tea.Cmd) {
	if m.state == StateSending {
		return m, nil
	}
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	if strings.HasPrefix(text, "/") {
		m.input.SetValue("")
		return m.runCommand(text)
	}

	if m.editingID != "" {
		if err := m.conv.Edit(m.editingID, text); err != nil {
			m.toasts.AddError("Edit failed: " + err.Error())
			m.editingID = ""
			return m, components.ToastTickCmd()
		}
		m.editingID = ""
		m.input.SetValue("")
		return m.dispatchSend(SendRequest{Question: text, Kind: SendAsk}, false)
	}

	m.input.SetValue("")
	return m.dispatchSend(SendRequest{Question: text, Kind: SendAsk}, true)
}

// dispatchSend appends the user message (unless re-sending an edit) and
// fires the backend call.
func (m *Model) dispatchSend(req SendRequest, addUserMsg bool) (tea.Model, tea.Cmd) {
	req.StagedHash = m.stagedHash
	req.StagedName = m.stagedName
	req.SelectedFile = m.selectedFile
	m.stagedHash = ""
	m.stagedName = ""
	m.selectedFile = ""

	if addUserMsg {
		var attached []model.AttachedFile
		if req.StagedHash != "" {
			attached = append(attached, model.AttachedFile{Name: req.StagedName, FileHash: req.StagedHash})
		}
		m.conv.AddUser(req.Question, attached)
	}
	m.refreshViewport()

	m.state = StateSending
	sender := m.sender
	return m, func() tea.Msg {
		return sender.Send(context.Background(), req)
	}
}

func (m *Model) handleSendResult(msg sendResultMsg) (tea.Model, tea.Cmd) {
	// Invariant: exactly one AI message per user message, even on failure.
	m.conv.AddAI(msg.Message)

	var cmds []tea.Cmd
	if msg.Err != nil {
		m.toasts.AddError(msg.Err.Error())
		cmds = append(cmds, components.ToastTickCmd())
	}

	interval := m.cfg.UI.TypingIntervalMs
	if interval > 0 && msg.Message.Content != "" {
		m.state = StateTyping
		m.reveal = NewTypingReveal(msg.Message.Content, msgInterval(interval))
		cmds = append(cmds, typingTickCmd())
	} else {
		m.state = StateReady
	}

	m.refreshViewport()
	return m, tea.Batch(cmds...)
}

func (m *Model) handleTypingTick() (tea.Model, tea.Cmd) {
	if m.state != StateTyping || m.reveal == nil {
		return m, nil
	}
	m.reveal.Advance()
	m.refreshViewport()
	if m.reveal.Done() {
		m.finishReveal()
		return m, nil
	}
	return m, typingTickCmd()
}

func (m *Model) finishReveal() {
	m.reveal = nil
	m.state = StateReady
	m.refreshViewport()
}

// =============================================================================
// EDIT / NEW CHAT / AFFORDANCES
// =============================================================================

// beginEdit loads the most recent user message into the input. Submitting
// replaces its content and regenerates the reply.
func (m *Model) beginEdit() {
	msgs := m.conv.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == model.RoleUser {
			m.editingID = msgs[i].ID
			m.input.SetValue(msgs[i].Content)
			m.input.CursorEnd()
			m.toasts.AddStatus("Editing previous question; enter to re-send")
			return
		}
	}
	m.toasts.AddStatus("Nothing to edit yet")
}

// newChat clears the transcript and the working document, keeping the
// file registry intact.
func (m *Model) newChat() {
	m.conv.Clear()
	m.editingID = ""
	m.stagedHash = ""
	m.stagedName = ""
	m.selectedFile = ""
	if err := m.local.Delete(storage.KeyCurrentFileHash); err != nil {
		m.logger.Warn("failed to clear current file", zap.Error(err))
	}
	m.toasts.AddStatus("Started a new chat")
	m.refreshViewport()
}

func (m *Model) lastAIMessage() *model.Message {
	msgs := m.conv.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == model.RoleAI {
			return msgs[i]
		}
	}
	return nil
}

func (m *Model) copyLastAnswer() {
	msg := m.lastAIMessage()
	if msg == nil {
		m.toasts.AddStatus("No answer to copy yet")
		return
	}
	if err := clipboard.WriteAll(msg.Content); err != nil {
		m.toasts.AddWarning("Clipboard unavailable: " + err.Error())
		return
	}
	m.toasts.AddSuccess("Answer copied to clipboard")
}

func (m *Model) bookmarkLastAnswer() {
	answer := m.lastAIMessage()
	if answer == nil {
		m.toasts.AddStatus("No answer to bookmark yet")
		return
	}
	if m.bookmarks == nil {
		m.toasts.AddWarning("Bookmarks unavailable")
		return
	}

	question := ""
	msgs := m.conv.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == model.RoleUser {
			question = msgs[i].Content
			break
		}
	}
	hash, _ := m.local.Get(storage.KeyCurrentFileHash)
	name := ""
	if last := m.reg.LastUploadedFile(); last != nil {
		name = last.Filename
	}

	if _, err := m.bookmarks.Add(question, answer.Content, hash, name); err != nil {
		m.toasts.AddError("Bookmark failed: " + err.Error())
		return
	}
	m.toasts.AddSuccess("Answer bookmarked")
}

func (m *Model) feedbackCmd() tea.Cmd {
	answer := m.lastAIMessage()
	if answer == nil {
		m.toasts.AddStatus("No answer to rate yet")
		return components.ToastTickCmd()
	}
	if answer.IsDemo {
		m.toasts.AddStatus("Demo answers cannot be rated")
		return components.ToastTickCmd()
	}

	question := ""
	msgs := m.conv.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == model.RoleUser {
			question = msgs[i].Content
			break
		}
	}
	hash, _ := m.local.Get(storage.KeyCurrentFileHash)
	chunkID := ""
	if len(answer.Evidence) > 0 {
		chunkID = answer.Evidence[0].ChunkID
	}

	client := m.client
	content := answer.Content
	m.toasts.AddStatus("Sending feedback…")
	return tea.Batch(components.ToastTickCmd(), func() tea.Msg {
		_, err := client.SubmitFeedback(context.Background(), hash, chunkID, question, content, 5, false)
		return feedbackResultMsg{Err: err}
	})
}

// =============================================================================
// SPEECH
// =============================================================================

func (m *Model) toggleSpeech() (tea.Model, tea.Cmd) {
	if m.speechActive {
		m.recognizer.Stop()
		m.speechActive = false
		m.toasts.AddStatus("Voice input stopped")
		return m, components.ToastTickCmd()
	}
	if !m.recognizer.Available() {
		m.toasts.AddWarning("Voice input is not configured (set speech.command)")
		return m, components.ToastTickCmd()
	}

	if err := m.recognizer.Start(context.Background()); err != nil {
		m.toasts.AddWarning("Voice input failed: " + err.Error())
		return m, components.ToastTickCmd()
	}
	m.speechActive = true
	m.toasts.AddStatus("Listening… (ctrl+s to stop)")
	return m, tea.Batch(components.ToastTickCmd(), m.listenSpeechCmd())
}

// listenSpeechCmd waits for the next recognizer event.
func (m *Model) listenSpeechCmd() tea.Cmd {
	ch := m.speechCh
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return speechEndedMsg{}
		}
		return msg
	}
}

// SpeechCallbacks bridges recognizer events into the Bubble Tea loop.
// Pass these to the recognizer wired into Options.Speech.
func (m *Model) SpeechCallbacks() speech.Callbacks {
	return speech.Callbacks{
		OnResult: func(text string) {
			select {
			case m.speechCh <- speechResultMsg{Text: text}:
			default:
			}
		},
		OnError: func(err error) {
			select {
			case m.speechCh <- speechErrMsg{Err: err}:
			default:
			}
		},
		OnEnd: func() {
			select {
			case m.speechCh <- speechEndedMsg{}:
			default:
			}
		},
	}
}

// shutdown releases background resources before quit.
func (m *Model) shutdown() {
	if m.poller != nil {
		m.poller.Stop()
	}
	m.recognizer.Stop()
}

func msgInterval(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
