// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/legalai/legalai-tui/internal/model"
)

// HTMLExporter writes transcripts as a standalone HTML page.
type HTMLExporter struct {
	options *Options
}

var htmlTmpl = template.Must(template.New("transcript").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: Georgia, serif; max-width: 760px; margin: 2rem auto; padding: 0 1rem; color: #1e293b; }
  .msg { margin: 1.5rem 0; padding: 1rem 1.25rem; border-radius: 8px; }
  .user { background: #eff6ff; border-left: 4px solid #2563eb; }
  .ai { background: #f8fafc; border-left: 4px solid #7c3aed; }
  .role { font-weight: bold; margin-bottom: .5rem; }
  .ts { color: #64748b; font-size: .8rem; font-weight: normal; }
  .demo { color: #b45309; font-size: .8rem; }
  .content { white-space: pre-wrap; }
  .confidence { color: #047857; font-size: .9rem; margin-top: .5rem; }
  .highlight { margin: .25rem 0; font-size: .9rem; }
  .risky { color: #be123c; }
  .favorable { color: #047857; }
  blockquote { border-left: 3px solid #cbd5e1; margin: .5rem 0; padding-left: .75rem; color: #475569; }
  footer { color: #94a3b8; font-size: .8rem; margin-top: 3rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .Messages}}
<div class="msg {{if .IsUser}}user{{else}}ai{{end}}">
  <div class="role">{{.Role}} <span class="ts">{{.Timestamp}}</span>{{if .IsDemo}} <span class="demo">demo answer</span>{{end}}</div>
  <div class="content">{{.Content}}</div>
  {{if .Confidence}}<div class="confidence">Confidence: {{.Confidence}}%</div>{{end}}
  {{range .Highlights}}<div class="highlight {{.Category}}">[{{.Category}}] {{.Text}}{{if .Suggestion}} — {{.Suggestion}}{{end}}</div>{{end}}
  {{range .Evidence}}<blockquote>{{.Text}}<br>— page {{.Page}}{{if .Section}}, {{.Section}}{{end}}</blockquote>{{end}}
</div>
{{end}}
<footer>exported {{.ExportedAt}} by legalai</footer>
</body>
</html>
`))

type htmlMessage struct {
	Role       string
	Timestamp  string
	Content    string
	IsUser     bool
	IsDemo     bool
	Confidence string
	Highlights []htmlHighlight
	Evidence   []htmlEvidence
}

type htmlHighlight struct {
	Category   string
	Text       string
	Suggestion string
}

type htmlEvidence struct {
	Text    string
	Page    int
	Section string
}

type htmlPage struct {
	Title      string
	ExportedAt string
	Messages   []htmlMessage
}

// Export converts a transcript to a standalone HTML document.
func (e *HTMLExporter) Export(conv *model.Conversation) ([]byte, error) {
	page := htmlPage{
		Title:      e.options.Title,
		ExportedAt: time.Now().Format("2006-01-02 15:04"),
	}

	for _, msg := range conv.Messages() {
		hm := htmlMessage{
			Role:    msg.Role.DisplayName(),
			Content: msg.Content,
			IsUser:  msg.Role == model.RoleUser,
			IsDemo:  msg.IsDemo,
		}
		if e.options.IncludeTimestamps {
			hm.Timestamp = msg.Timestamp.Format("2006-01-02 15:04")
		}
		if msg.Confidence > 0 {
			hm.Confidence = fmt.Sprintf("%.0f", msg.Confidence)
		}
		for _, h := range msg.Highlights {
			hm.Highlights = append(hm.Highlights, htmlHighlight{
				Category:   h.Category,
				Text:       h.Text,
				Suggestion: h.Suggestion,
			})
		}
		for _, ev := range msg.Evidence {
			hm.Evidence = append(hm.Evidence, htmlEvidence{
				Text:    ev.Text,
				Page:    ev.Meta.PageNumber,
				Section: ev.Meta.Section,
			})
		}
		page.Messages = append(page.Messages, hm)
	}

	var buf bytes.Buffer
	if err := htmlTmpl.Execute(&buf, page); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileExtension implements Exporter.
func (e *HTMLExporter) FileExtension() string { return ".html" }
