// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legalai/legalai-tui/internal/api"
	"github.com/legalai/legalai-tui/internal/model"
)

func sampleConversation() *model.Conversation {
	conv := model.NewConversation()
	conv.AddUser("When can the landlord raise the rent?", []model.AttachedFile{
		{Name: "lease.pdf", FileHash: "abc123"},
	})
	answer := model.NewAIMessage("Rent may only be raised at renewal with **60 days** notice.")
	answer.Confidence = 91
	answer.Highlights = []api.Highlight{
		{Text: "60 days notice", Category: "clause", Suggestion: "Diarize the deadline."},
	}
	answer.Evidence = []api.Evidence{
		{ChunkID: "c1", Text: "Landlord shall provide sixty (60) days written notice.", Meta: api.EvidenceMeta{PageNumber: 4, Section: "Rent"}},
	}
	conv.AddAI(answer)
	return conv
}

func TestMarkdownExport(t *testing.T) {
	opts := DefaultOptions()
	opts.Title = "lease.pdf"

	exp, err := ForFormat("markdown", opts)
	require.NoError(t, err)

	out, err := exp.Export(sampleConversation())
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "title: lease.pdf")
	assert.Contains(t, text, "**You**")
	assert.Contains(t, text, "**Assistant**")
	assert.Contains(t, text, "Confidence: 91%")
	assert.Contains(t, text, "[clause] 60 days notice")
	assert.Contains(t, text, "page 4, Rent")
	assert.Contains(t, text, "attached: `lease.pdf`")
}

func TestJSONExportRoundtrips(t *testing.T) {
	exp, err := ForFormat("json", nil)
	require.NoError(t, err)

	out, err := exp.Export(sampleConversation())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, "legalai", doc["generator"])
	assert.Len(t, doc["messages"], 2)
}

func TestHTMLExportEscapes(t *testing.T) {
	conv := model.NewConversation()
	conv.AddUser("<script>alert(1)</script>", nil)
	conv.AddAI(model.NewAIMessage("safe"))

	exp, err := ForFormat("html", nil)
	require.NoError(t, err)

	out, err := exp.Export(conv)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<script>alert")
	assert.Contains(t, string(out), "&lt;script&gt;")
}

func TestToFileWritesTranscript(t *testing.T) {
	dir := t.TempDir()
	opts := DefaultOptions()
	opts.OutputDir = dir
	opts.Title = "Lease Agreement (2025)!"

	exp, err := ForFormat("md", opts)
	require.NoError(t, err)

	path, err := ToFile(sampleConversation(), exp, opts)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Contains(t, filepath.Base(path), "lease_agreement")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestToFileRejectsEmptyTranscript(t *testing.T) {
	exp, err := ForFormat("markdown", nil)
	require.NoError(t, err)

	_, err = ToFile(model.NewConversation(), exp, nil)
	require.Error(t, err)
}

func TestForFormatUnknown(t *testing.T) {
	_, err := ForFormat("pdf", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown export format")
}
