// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/legalai/legalai-tui/internal/model"
)

// MarkdownExporter writes transcripts as Markdown with YAML frontmatter.
type MarkdownExporter struct {
	options *Options
}

// Export converts a transcript to Markdown.
func (e *MarkdownExporter) Export(conv *model.Conversation) ([]byte, error) {
	msgs := conv.Messages()
	if len(msgs) == 0 {
		return nil, fmt.Errorf("transcript has no messages")
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.WriteString(fmt.Sprintf("title: %s\n", e.options.Title))
	sb.WriteString(fmt.Sprintf("messages: %d\n", len(msgs)))
	sb.WriteString(fmt.Sprintf("exported: %s\n", time.Now().Format(time.RFC3339)))
	sb.WriteString("generator: legalai\n")
	sb.WriteString("---\n\n")

	sb.WriteString(fmt.Sprintf("# %s\n\n", e.options.Title))

	for _, msg := range msgs {
		label := "**" + msg.Role.DisplayName() + "**"
		if msg.IsDemo {
			label += " _(demo answer)_"
		}
		if e.options.IncludeTimestamps {
			sb.WriteString(fmt.Sprintf("### %s <sub>%s</sub>\n\n", label,
				msg.Timestamp.Format("2006-01-02 15:04")))
		} else {
			sb.WriteString(fmt.Sprintf("### %s\n\n", label))
		}

		for _, f := range msg.AttachedFiles {
			sb.WriteString(fmt.Sprintf("> attached: `%s`\n\n", f.Name))
		}

		sb.WriteString(msg.Content)
		sb.WriteString("\n\n")

		if msg.Confidence > 0 {
			sb.WriteString(fmt.Sprintf("_Confidence: %.0f%%_\n\n", msg.Confidence))
		}
		if len(msg.Highlights) > 0 {
			sb.WriteString("**Highlights**\n\n")
			for _, h := range msg.Highlights {
				sb.WriteString(fmt.Sprintf("- **[%s]** %s", h.Category, h.Text))
				if h.Suggestion != "" {
					sb.WriteString(" — " + h.Suggestion)
				}
				sb.WriteString("\n")
			}
			sb.WriteString("\n")
		}
		if len(msg.Evidence) > 0 {
			sb.WriteString("**Sources**\n\n")
			for _, ev := range msg.Evidence {
				sb.WriteString(fmt.Sprintf("> %s\n>\n> — page %d", oneLine(ev.Text), ev.Meta.PageNumber))
				if ev.Meta.Section != "" {
					sb.WriteString(", " + ev.Meta.Section)
				}
				sb.WriteString("\n\n")
			}
		}
		sb.WriteString("---\n\n")
	}

	return []byte(sb.String()), nil
}

// FileExtension implements Exporter.
func (e *MarkdownExporter) FileExtension() string { return ".md" }

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
