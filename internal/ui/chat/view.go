// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/legalai/legalai-tui/internal/model"
	"github.com/legalai/legalai-tui/internal/ui/components"
)

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return "starting…"
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if toasts := m.toasts.Toasts(); len(toasts) > 0 {
		b.WriteString(components.RenderToastStack(m.theme, toasts))
		b.WriteString("\n")
	}
	if m.completion.Active() {
		b.WriteString(m.completion.View(m.theme))
		b.WriteString("\n")
	}

	b.WriteString(m.theme.InputContainer.Width(m.width - 2).Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m *Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("LegalAI")
	subtitle := m.theme.HeaderSubtitle.Render("document Q&A")
	return m.theme.Header.Width(m.width).Render(title + "  " + subtitle)
}

func (m *Model) renderStatusBar() string {
	var parts []string

	if m.authMgr.IsAuthenticated() {
		user := m.authMgr.CurrentUser()
		label := user.Email
		if user.DisplayName != "" {
			label = user.DisplayName
		}
		parts = append(parts, m.theme.StatusUser.Render(label))
	} else {
		parts = append(parts, m.theme.StatusGuest.Render("guest"))
	}

	if last := m.reg.LastUploadedFile(); last != nil {
		parts = append(parts, m.theme.StatusFile.Render("⎘ "+last.Filename))
	}

	switch m.state {
	case StateSending:
		parts = append(parts, m.theme.InfoStyle.Render("thinking…"))
	case StateTyping:
		parts = append(parts, m.theme.InfoStyle.Render("typing… (esc to skip)"))
	}
	if m.speechActive {
		parts = append(parts, m.theme.WarningStyle.Render("● listening"))
	}

	hints := m.theme.ShortcutKey.Render("/help") + m.theme.ShortcutDesc.Render(" commands")
	parts = append(parts, hints)

	return m.theme.StatusBar.Width(m.width).Render(strings.Join(parts, "  │  "))
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// refreshViewport re-renders the transcript into the viewport and keeps it
// pinned to the bottom.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m *Model) renderTranscript() string {
	msgs := m.conv.Messages()
	if len(msgs) == 0 {
		return m.theme.HeaderSubtitle.Render(
			"Upload a document with /upload <path>, then ask questions about it.")
	}

	// The reveal animation applies to the newest AI message only.
	revealIdx := -1
	if m.reveal != nil {
		for i := len(msgs) - 1; i >= 0; i-- {
			if msgs[i].Role == model.RoleAI {
				revealIdx = i
				break
			}
		}
	}

	var b strings.Builder
	for i, msg := range msgs {
		content := msg.Content
		partial := false
		if i == revealIdx {
			content = m.reveal.Visible()
			partial = !m.reveal.Done()
		}
		b.WriteString(m.renderMessage(msg, content, partial))
		if i < len(msgs)-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

func (m *Model) renderMessage(msg *model.Message, content string, partial bool) string {
	width := m.viewport.Width - 8
	if width < 20 {
		width = 20
	}

	header := m.roleHeader(msg)
	body := content
	bubble := m.theme.AIBubble

	if msg.Role == model.RoleUser {
		bubble = m.theme.UserBubble
	} else if !partial {
		body = m.renderMarkdown(content, width)
		body = strings.TrimRight(body, "\n")
	}

	var sections []string
	sections = append(sections, body)

	if msg.Role == model.RoleAI && !partial {
		if extra := m.renderAnalysis(msg, width); extra != "" {
			sections = append(sections, extra)
		}
	}

	rendered := bubble.Width(width).Render(strings.Join(sections, "\n\n"))
	return header + "\n" + rendered
}

func (m *Model) roleHeader(msg *model.Message) string {
	ts := m.theme.Timestamp.Render(msg.Timestamp.Format("15:04"))

	var role string
	if msg.Role == model.RoleUser {
		role = m.theme.RoleUser.Render(msg.Role.DisplayName())
	} else {
		role = m.theme.RoleAI.Render(msg.Role.DisplayName())
	}

	parts := []string{role, ts}
	if msg.IsDemo {
		parts = append(parts, m.theme.DemoBadge.Render("DEMO"))
	}
	if msg.IsSimplified {
		parts = append(parts, m.theme.InfoStyle.Render("simplified"))
	}
	for _, f := range msg.AttachedFiles {
		parts = append(parts, m.theme.StatusFile.Render("⎘ "+f.Name))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(parts, " "))
}

// renderAnalysis renders confidence, highlights, and evidence under an
// AI answer.
func (m *Model) renderAnalysis(msg *model.Message, width int) string {
	var sections []string

	if msg.Confidence > 0 {
		sections = append(sections,
			m.theme.Confidence.Render(fmt.Sprintf("Confidence: %.0f%%", msg.Confidence)))
	}

	if len(msg.Highlights) > 0 {
		var b strings.Builder
		b.WriteString(m.theme.EvidenceMeta.Render("Highlights"))
		for _, h := range msg.Highlights {
			b.WriteString("\n")
			b.WriteString(m.theme.HighlightStyle(h.Category).Render("▍" + h.Text))
			if h.Suggestion != "" {
				b.WriteString("\n")
				b.WriteString(m.theme.EvidenceMeta.Render("  ↳ " + h.Suggestion))
			}
		}
		sections = append(sections, b.String())
	}

	if len(msg.Evidence) > 0 {
		var b strings.Builder
		b.WriteString(m.theme.EvidenceMeta.Render("Sources"))
		for _, ev := range msg.Evidence {
			quote := ev.Text
			if len([]rune(quote)) > 200 {
				quote = string([]rune(quote)[:200]) + "…"
			}
			meta := fmt.Sprintf("p.%d", ev.Meta.PageNumber)
			if ev.Meta.Section != "" {
				meta += " · " + ev.Meta.Section
			}
			b.WriteString("\n")
			b.WriteString(m.theme.EvidenceBlock.Width(width - 4).Render(quote))
			b.WriteString("\n")
			b.WriteString(m.theme.EvidenceMeta.Render("  " + meta))
		}
		sections = append(sections, b.String())
	}

	return strings.Join(sections, "\n\n")
}

// renderMarkdown renders an answer through glamour, falling back to the raw
// text when rendering fails.
func (m *Model) renderMarkdown(content string, width int) string {
	if m.mdWidth != width || m.mdRenderer == nil {
		style := "dark"
		if m.cfg.UI.Theme == "light" {
			style = "light"
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return content
		}
		m.mdRenderer = r
		m.mdWidth = width
	}

	out, err := m.mdRenderer.Render(content)
	if err != nil {
		return content
	}
	return out
}
