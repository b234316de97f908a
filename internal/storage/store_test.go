// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreBasics(t *testing.T) {
	s := NewMemoryStore()

	_, ok := s.Get("missing")
	assert.False(t, ok)

	require.NoError(t, s.Set("a", "1"))
	require.NoError(t, s.Set("b", "2"))
	require.NoError(t, s.Set("a", "3")) // overwrite

	v, ok := s.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "3", v)
	assert.Equal(t, []string{"a", "b"}, s.Keys())

	require.NoError(t, s.Delete("a"))
	_, ok = s.Get("a")
	assert.False(t, ok)

	require.NoError(t, s.Clear())
	assert.Empty(t, s.Keys())
}

func TestFileStorePersistsAcrossLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	s, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(KeyToken, "tok-123"))
	require.NoError(t, s.Set(KeyUser, `{"uid":"u1"}`))

	reloaded, err := NewFileStore(path)
	require.NoError(t, err)
	v, ok := reloaded.Get(KeyToken)
	assert.True(t, ok)
	assert.Equal(t, "tok-123", v)

	require.NoError(t, reloaded.Clear())
	wiped, err := NewFileStore(path)
	require.NoError(t, err)
	assert.Empty(t, wiped.Keys())
}

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Empty(t, s.Keys())
}

func TestBookmarkStore(t *testing.T) {
	db, err := OpenBookmarkStore(filepath.Join(t.TempDir(), "bookmarks.db"))
	require.NoError(t, err)
	defer db.Close()

	b1, err := db.Add("What is the notice period?", "30 days.", "abc123", "Lease.pdf")
	require.NoError(t, err)
	assert.NotEmpty(t, b1.ID)

	_, err = db.Add("Renewal terms?", "Auto-renews annually.", "abc123", "Lease.pdf")
	require.NoError(t, err)

	list, err := db.List(0)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, db.Delete(b1.ID))
	err = db.Delete(b1.ID)
	assert.ErrorIs(t, err, ErrBookmarkNotFound)

	list, err = db.List(0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
