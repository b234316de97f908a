// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legalai/legalai-tui/internal/storage"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	return New(storage.NewMemoryStore(), "")
}

func TestNormalizeIsIdempotent(t *testing.T) {
	names := []string{
		"Lease Agreement.pdf",
		"NDA (Final) v2.docx",
		"ALL_CAPS-NAME.PDF",
		"simple.txt",
		"weird  spaces   everywhere.pdf",
		"ünïcode-fïle.pdf",
	}
	for _, n := range names {
		once := Normalize(n)
		assert.Equal(t, once, Normalize(once), "normalize must be idempotent for %q", n)
	}
}

func TestNormalizeStripsToAlphanumericAndDot(t *testing.T) {
	assert.Equal(t, "leaseagreement.pdf", Normalize("Lease Agreement.pdf"))
	assert.Equal(t, "ndafinalv2.docx", Normalize("NDA (Final) v2.docx"))
	assert.Equal(t, "allcapsname.pdf", Normalize("ALL_CAPS-NAME.PDF"))
}

func TestRegisterStoresBothKeysAndLastUploaded(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Register("Lease Agreement.pdf", "abc123"))

	hash, err := r.Resolve(NameRef("Lease Agreement.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "abc123", hash)

	hash, err = r.Resolve(NameRef("leaseagreement.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "abc123", hash)

	last := r.LastUploadedFile()
	require.NotNil(t, last)
	assert.Equal(t, "Lease Agreement.pdf", last.Filename)
	assert.Equal(t, "abc123", last.FileHash)
}

func TestRegisterDuplicateNameDoesNotGrowList(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Register("A.pdf", "id1"))
	require.NoError(t, r.Register("A.pdf", "id9"))

	assert.Equal(t, 1, r.Len())

	// Re-registration overwrites the map entry.
	hash, err := r.Resolve(NameRef("A.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "id9", hash)
}

func TestResolveFromTextMentionSubstring(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Register("Lease Agreement.pdf", "abc123"))
	require.NoError(t, r.Register("Service Contract.pdf", "def456"))

	name, ok := r.ResolveFromText("What does @lease say about termination?")
	require.True(t, ok)
	assert.Equal(t, "Lease Agreement.pdf", name)

	name, ok = r.ResolveFromText("@contract payment terms")
	require.True(t, ok)
	assert.Equal(t, "Service Contract.pdf", name)
}

func TestResolveFromTextMentionFirstMatchWins(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Register("contract-a.pdf", "id1"))
	require.NoError(t, r.Register("contract-b.pdf", "id2"))

	// Both normalized names contain "contract"; registration order breaks the tie.
	name, ok := r.ResolveFromText("summarize @contract please")
	require.True(t, ok)
	assert.Equal(t, "contract-a.pdf", name)
}

func TestResolveFromTextQuoted(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Register("Lease Agreement.pdf", "abc123"))
	require.NoError(t, r.Register("Other.pdf", "zzz"))

	name, ok := r.ResolveFromText(`Summarize "Lease Agreement.pdf" for me`)
	require.True(t, ok)
	assert.Equal(t, "Lease Agreement.pdf", name)

	name, ok = r.ResolveFromText("Summarize 'Lease Agreement.pdf' for me")
	require.True(t, ok)
	assert.Equal(t, "Lease Agreement.pdf", name)
}

func TestResolveFromTextWholeWord(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Register("nda.pdf", "abc123"))
	require.NoError(t, r.Register("unrelated.pdf", "zzz"))

	name, ok := r.ResolveFromText("does NDA.PDF cover contractors?")
	require.True(t, ok)
	assert.Equal(t, "nda.pdf", name)

	// Substring inside a larger word must not match as a whole word;
	// the last-uploaded fallback applies instead.
	name, ok = r.ResolveFromText("look at thenda.pdfthing")
	require.True(t, ok)
	assert.Equal(t, "unrelated.pdf", name)
}

func TestResolveFromTextFallbackToLastUploaded(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Register("A.pdf", "id1"))
	require.NoError(t, r.Register("B.pdf", "id2"))

	// Names neither file: most recent upload wins.
	name, ok := r.ResolveFromText("what about payment terms")
	require.True(t, ok)
	assert.Equal(t, "B.pdf", name)

	hash, err := r.ResolveHashFromText("what about payment terms")
	require.NoError(t, err)
	assert.Equal(t, "id2", hash)
}

func TestResolveFromTextNothingUploaded(t *testing.T) {
	r := newTestRegistry(t)

	_, ok := r.ResolveFromText("any question at all")
	assert.False(t, ok)

	_, err := r.ResolveHashFromText("any question at all")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoFile)
	assert.Contains(t, err.Error(), "upload a file first")
}

func TestScenarioLeaseMentionThenFallback(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Register("Lease Agreement.pdf", "abc123"))

	hash, err := r.ResolveHashFromText("What does @lease say about termination?")
	require.NoError(t, err)
	assert.Equal(t, "abc123", hash)

	hash, err = r.ResolveHashFromText("what about payment terms")
	require.NoError(t, err)
	assert.Equal(t, "abc123", hash)
}

func TestResolveTaggedRef(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Register("Lease.pdf", "abc123"))

	// Identifier refs pass through untouched.
	hash, err := r.Resolve(IDRef("raw-hash-value"))
	require.NoError(t, err)
	assert.Equal(t, "raw-hash-value", hash)

	_, err = r.Resolve(NameRef("Missing.pdf"))
	assert.Error(t, err)

	_, err = r.Resolve(FileRef{})
	assert.ErrorIs(t, err, ErrNoFile)
}

func TestParseFileRefHeuristic(t *testing.T) {
	assert.Equal(t, RefName, ParseFileRef("lease.pdf").Kind)
	assert.Equal(t, RefID, ParseFileRef("abc123").Kind)
}

func TestStripMentions(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Register("Lease Agreement.pdf", "abc123"))

	out := r.StripMentions("What does @lease say about termination?")
	assert.Equal(t, "What does say about termination?", out)

	// Unknown mentions are left alone.
	out = r.StripMentions("ping @nobody about this")
	assert.Equal(t, "ping @nobody about this", out)
}

func TestRegistryPersistsAcrossInstances(t *testing.T) {
	store := storage.NewMemoryStore()

	r1 := New(store, "user-1")
	require.NoError(t, r1.Register("Lease.pdf", "abc123"))

	r2 := New(store, "user-1")
	hash, err := r2.Resolve(NameRef("Lease.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "abc123", hash)
	require.NotNil(t, r2.LastUploadedFile())
}

func TestRegistryScopesAreIsolated(t *testing.T) {
	store := storage.NewMemoryStore()

	alice := New(store, "alice")
	require.NoError(t, alice.Register("Secret.pdf", "s3cr3t"))

	bob := New(store, "bob")
	_, err := bob.Resolve(NameRef("Secret.pdf"))
	assert.Error(t, err)
	assert.Equal(t, 0, bob.Len())

	// Switching scope on one instance swaps the visible state.
	alice.SetScope("bob")
	assert.Equal(t, 0, alice.Len())
}

func TestClearWipesScope(t *testing.T) {
	store := storage.NewMemoryStore()
	r := New(store, "user-1")
	require.NoError(t, r.Register("Lease.pdf", "abc123"))

	require.NoError(t, r.Clear())
	assert.Equal(t, 0, r.Len())
	assert.Nil(t, r.LastUploadedFile())

	// Persisted copies are gone too.
	fresh := New(store, "user-1")
	assert.Equal(t, 0, fresh.Len())
}

func TestWildcardToRegexp(t *testing.T) {
	re, err := WildcardToRegexp("lease*.pdf")
	require.NoError(t, err)
	assert.True(t, re.MatchString("lease-2024.pdf"))
	assert.True(t, re.MatchString("LEASE.PDF"))
	assert.False(t, re.MatchString("lease.txt"))

	re, err = WildcardToRegexp("doc?.pdf")
	require.NoError(t, err)
	assert.True(t, re.MatchString("doc1.pdf"))
	assert.False(t, re.MatchString("doc12.pdf"))

	// Regexp metacharacters in the pattern are literal.
	re, err = WildcardToRegexp("a+b(1).pdf")
	require.NoError(t, err)
	assert.True(t, re.MatchString("a+b(1).pdf"))
	assert.False(t, re.MatchString("aab1.pdf"))
}
