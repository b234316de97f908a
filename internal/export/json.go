// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"time"

	"github.com/legalai/legalai-tui/internal/model"
)

// JSONExporter writes transcripts as indented JSON, convenient for
// downstream tooling.
type JSONExporter struct {
	options *Options
}

type jsonTranscript struct {
	Title      string           `json:"title"`
	ExportedAt time.Time        `json:"exported_at"`
	Generator  string           `json:"generator"`
	Messages   []*model.Message `json:"messages"`
}

// Export converts a transcript to JSON.
func (e *JSONExporter) Export(conv *model.Conversation) ([]byte, error) {
	doc := jsonTranscript{
		Title:      e.options.Title,
		ExportedAt: time.Now(),
		Generator:  "legalai",
		Messages:   conv.Messages(),
	}
	return json.MarshalIndent(doc, "", "  ")
}

// FileExtension implements Exporter.
func (e *JSONExporter) FileExtension() string { return ".json" }
