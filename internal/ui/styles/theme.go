// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the legalai TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color palette.
var (
	Navy    = lipgloss.Color("#1e3a5f")
	Cyan    = lipgloss.Color("#22d3ee")
	Purple  = lipgloss.Color("#a78bfa")
	Emerald = lipgloss.Color("#34d399")
	Amber   = lipgloss.Color("#fbbf24")
	Rose    = lipgloss.Color("#fb7185")
	Slate   = lipgloss.Color("#64748b")

	TextPrimary   = lipgloss.Color("#e2e8f0")
	TextSecondary = lipgloss.Color("#94a3b8")
	TextMuted     = lipgloss.Color("#475569")
	Surface       = lipgloss.Color("#1e293b")
	SurfaceDim    = lipgloss.Color("#0f172a")
	Overlay       = lipgloss.Color("#334155")
)

// Theme holds the styled components for the application.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout
	Container lipgloss.Style

	// Header
	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// Message bubbles
	UserBubble lipgloss.Style
	AIBubble   lipgloss.Style
	DemoBadge  lipgloss.Style
	RoleUser   lipgloss.Style
	RoleAI     lipgloss.Style
	Timestamp  lipgloss.Style

	// Analysis payload
	Confidence       lipgloss.Style
	EvidenceBlock    lipgloss.Style
	EvidenceMeta     lipgloss.Style
	HighlightGood    lipgloss.Style
	HighlightRisky   lipgloss.Style
	HighlightNeutral lipgloss.Style

	// Input area
	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style

	// Status bar
	StatusBar    lipgloss.Style
	StatusFile   lipgloss.Style
	StatusGuest  lipgloss.Style
	StatusUser   lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// Completion popup
	CompletionPopup    lipgloss.Style
	CompletionItem     lipgloss.Style
	CompletionSelected lipgloss.Style

	// Status indicators
	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	InfoStyle    lipgloss.Style
}

// NewTheme creates a theme, detecting terminal capabilities.
func NewTheme() *Theme {
	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		ColorProfile: termenv.ColorProfile(),
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Background(SurfaceDim).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Cyan).
		Padding(0, 2).
		MarginLeft(4)

	t.AIBubble = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(0, 2).
		MarginRight(4)

	t.DemoBadge = lipgloss.NewStyle().
		Foreground(SurfaceDim).
		Background(Amber).
		Bold(true).
		Padding(0, 1)

	t.RoleUser = lipgloss.NewStyle().Bold(true).Foreground(Cyan)
	t.RoleAI = lipgloss.NewStyle().Bold(true).Foreground(Purple)
	t.Timestamp = lipgloss.NewStyle().Foreground(TextMuted)

	t.Confidence = lipgloss.NewStyle().Foreground(Emerald).Bold(true)

	t.EvidenceBlock = lipgloss.NewStyle().
		Foreground(TextSecondary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(Slate).
		PaddingLeft(2)

	t.EvidenceMeta = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)

	t.HighlightGood = lipgloss.NewStyle().Foreground(Emerald)
	t.HighlightRisky = lipgloss.NewStyle().Foreground(Rose).Bold(true)
	t.HighlightNeutral = lipgloss.NewStyle().Foreground(Amber)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().Foreground(Cyan).Bold(true)
	t.InputPlaceholder = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.StatusFile = lipgloss.NewStyle().Foreground(Emerald).Bold(true)
	t.StatusGuest = lipgloss.NewStyle().Foreground(Amber).Bold(true)
	t.StatusUser = lipgloss.NewStyle().Foreground(Cyan).Bold(true)
	t.ShortcutKey = lipgloss.NewStyle().Foreground(Cyan).Bold(true)
	t.ShortcutDesc = lipgloss.NewStyle().Foreground(TextMuted)

	t.CompletionPopup = lipgloss.NewStyle().
		Background(Surface).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(0, 1)

	t.CompletionItem = lipgloss.NewStyle().Foreground(TextSecondary)
	t.CompletionSelected = lipgloss.NewStyle().
		Foreground(SurfaceDim).
		Background(Cyan).
		Bold(true)

	t.SuccessStyle = lipgloss.NewStyle().Foreground(Emerald).Bold(true)
	t.ErrorStyle = lipgloss.NewStyle().Foreground(Rose).Bold(true)
	t.WarningStyle = lipgloss.NewStyle().Foreground(Amber).Bold(true)
	t.InfoStyle = lipgloss.NewStyle().Foreground(Cyan)
}

// HighlightStyle returns the style for a highlight category.
func (t *Theme) HighlightStyle(category string) lipgloss.Style {
	switch category {
	case "favorable":
		return t.HighlightGood
	case "risky":
		return t.HighlightRisky
	case "payment", "clause", "neutral":
		return t.HighlightNeutral
	default:
		return t.HighlightNeutral
	}
}
