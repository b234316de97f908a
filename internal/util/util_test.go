// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "short", TruncateRunes("short", 10))
	assert.Equal(t, "hello w...", TruncateRunes("hello world", 10))
	assert.Equal(t, "ab", TruncateRunes("abcdef", 2))
	assert.Equal(t, "", TruncateRunes("abc", 0))

	// Multi-byte characters are never split.
	assert.Equal(t, "héllo", TruncateRunes("héllo", 5))
}

func TestTruncateWidth(t *testing.T) {
	assert.Equal(t, "plain", TruncateWidth("plain", 20))
	out := TruncateWidth("contract-agreement.pdf", 10)
	assert.LessOrEqual(t, StringWidth(out), 10)
}

func TestAtomicWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "state.json")

	require.NoError(t, AtomicWriteFile(path, []byte(`{"a":1}`), 0600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))

	// Overwrite replaces content atomically.
	require.NoError(t, AtomicWriteFile(path, []byte(`{"a":2}`), 0600))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(data))

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
