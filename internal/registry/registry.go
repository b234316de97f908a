// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package registry maps uploaded filenames to server-issued file
// identifiers and resolves file references out of free-text questions.
//
// Users name files inside questions three ways: an @mention
// ("what does @lease say"), a quoted filename, or the bare filename as a
// word. When a question names nothing, the most recently uploaded file is
// assumed. The registry is backed by an injectable storage.Store and scoped
// per user, so two accounts sharing a machine never see each other's file
// identifiers.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/legalai/legalai-tui/internal/storage"
)

// ErrNoFile is returned when a question requires a document but none can
// be resolved and nothing has been uploaded. The wording is shown to the
// user as-is.
var ErrNoFile = errors.New("No file specified and no files have been uploaded yet. Please upload a file first.")

// Store keys, namespaced by scope (see keyFor).
const (
	keyFileMap      = "fileMap"
	keyFileList     = "fileList"
	keyLastUploaded = "lastUploadedFile"
)

// DefaultScope is used when no user is signed in.
const DefaultScope = "guest"

// StoredFile is one uploaded document known to the current session.
// Normalized is the lowercase alphanumeric-and-dot rendering of Name,
// used for fuzzy @mention matching.
type StoredFile struct {
	Name       string `json:"name"`
	Normalized string `json:"normalized"`
}

// LastUploaded is the single most-recent upload, the fallback target for
// questions that name no file. Last write wins.
type LastUploaded struct {
	Filename string `json:"filename"`
	FileHash string `json:"fileHash"`
}

// mentionRE captures the first @token. The @ must sit at the start of the
// text or after whitespace so email addresses don't trigger it.
var mentionRE = regexp.MustCompile(`(?:^|\s)@([^\s@]+)`)

// =============================================================================
// REGISTRY
// =============================================================================

// Registry is the session file registry. Safe for concurrent use.
type Registry struct {
	mu    sync.Mutex
	store storage.Store
	scope string

	files   []StoredFile      // registration order preserved
	fileMap map[string]string // raw and normalized name -> file hash
	last    *LastUploaded
}

// New creates a registry backed by store, loading any state previously
// persisted for scope. An empty scope defaults to guest.
func New(store storage.Store, scope string) *Registry {
	if scope == "" {
		scope = DefaultScope
	}
	r := &Registry{
		store:   store,
		scope:   scope,
		fileMap: make(map[string]string),
	}
	r.load()
	return r
}

// SetScope switches the registry to a different user's namespace,
// discarding in-memory state and loading whatever that scope has persisted.
func (r *Registry) SetScope(scope string) {
	if scope == "" {
		scope = DefaultScope
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scope = scope
	r.files = nil
	r.fileMap = make(map[string]string)
	r.last = nil
	r.loadLocked()
}

// Normalize lowercases a filename and strips every character that is not
// a letter, digit, or dot. The result is idempotent.
func Normalize(name string) string {
	var b strings.Builder
	for _, c := range strings.ToLower(name) {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '.' {
			b.WriteRune(c)
		}
	}
	return b.String()
}

// Register records a successful upload. The hash is stored under both the
// literal filename and its normalized form; the file list gains an entry
// only on first sight of the name; the last-uploaded slot is overwritten.
func (r *Registry) Register(name, fileHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	normalized := Normalize(name)
	r.fileMap[name] = fileHash
	r.fileMap[normalized] = fileHash

	known := false
	for _, f := range r.files {
		if f.Name == name {
			known = true
			break
		}
	}
	if !known {
		r.files = append(r.files, StoredFile{Name: name, Normalized: normalized})
	}

	r.last = &LastUploaded{Filename: name, FileHash: fileHash}
	return r.saveLocked()
}

// Files returns the registered files in registration order.
func (r *Registry) Files() []StoredFile {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]StoredFile, len(r.files))
	copy(out, r.files)
	return out
}

// LastUploadedFile returns the most recent upload, or nil.
func (r *Registry) LastUploadedFile() *LastUploaded {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil {
		return nil
	}
	cp := *r.last
	return &cp
}

// Len returns the number of registered files.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.files)
}

// Clear wipes the current scope's registry, in memory and in the store.
func (r *Registry) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = nil
	r.fileMap = make(map[string]string)
	r.last = nil

	for _, k := range []string{keyFileMap, keyFileList, keyLastUploaded} {
		if err := r.store.Delete(r.keyFor(k)); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// FILENAME RESOLUTION
// =============================================================================

// ResolveFromText finds the filename a question refers to, in strict
// priority order:
//
//  1. @mention - first @token, lowercased, substring-matched against the
//     normalized names (first registered match wins)
//  2. quoted   - a registered filename wrapped in double or single quotes
//  3. word     - a registered filename appearing bounded by whitespace or
//     punctuation, case-insensitively
//  4. fallback - the last uploaded filename
//
// The boolean is false when nothing matches and nothing was ever uploaded.
func (r *Registry) ResolveFromText(text string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m := mentionRE.FindStringSubmatch(text); m != nil {
		// Normalizing the token lets "@lease.pdf?" still hit lease.pdf.
		if token := Normalize(m[1]); token != "" {
			for _, f := range r.files {
				if strings.Contains(f.Normalized, token) {
					return f.Name, true
				}
			}
		}
	}

	for _, f := range r.files {
		if strings.Contains(text, `"`+f.Name+`"`) || strings.Contains(text, `'`+f.Name+`'`) {
			return f.Name, true
		}
	}

	for _, f := range r.files {
		if wordBoundedMatch(text, f.Name) {
			return f.Name, true
		}
	}

	if r.last != nil {
		return r.last.Filename, true
	}
	return "", false
}

// wordBoundedMatch reports whether name occurs in text bounded by
// whitespace or punctuation on both sides, ignoring case.
func wordBoundedMatch(text, name string) bool {
	lowerText := strings.ToLower(text)
	lowerName := strings.ToLower(name)

	for from := 0; ; {
		i := strings.Index(lowerText[from:], lowerName)
		if i < 0 {
			return false
		}
		i += from

		before := i == 0 || isBoundary(rune(lowerText[i-1]))
		afterIdx := i + len(lowerName)
		after := afterIdx >= len(lowerText) || isBoundary(rune(lowerText[afterIdx]))
		if before && after {
			return true
		}
		from = i + 1
	}
}

func isBoundary(r rune) bool {
	switch {
	case r == ' ' || r == '\t' || r == '\n' || r == '\r':
		return true
	case strings.ContainsRune(`,;:!?()[]{}"'`, r):
		return true
	}
	return false
}

// Resolve turns a tagged reference into a file hash. Identifier references
// pass through verbatim; name references are looked up under the raw name
// first, then its normalized form.
func (r *Registry) Resolve(ref FileRef) (string, error) {
	if ref.IsZero() {
		return "", ErrNoFile
	}
	if ref.Kind == RefID {
		return ref.Value, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if hash, ok := r.fileMap[ref.Value]; ok {
		return hash, nil
	}
	if hash, ok := r.fileMap[Normalize(ref.Value)]; ok {
		return hash, nil
	}
	return "", fmt.Errorf("no uploaded file named %q", ref.Value)
}

// ResolveHashFromText combines ResolveFromText and Resolve: given a free
// text question, return the file hash it refers to.
func (r *Registry) ResolveHashFromText(text string) (string, error) {
	name, ok := r.ResolveFromText(text)
	if !ok {
		return "", ErrNoFile
	}
	return r.Resolve(NameRef(name))
}

// StripMentions removes @mention tokens that refer to registered files
// from the question text, collapsing the whitespace they leave behind.
// The backend should see "what does it say about termination", not
// "what does @lease say about termination".
func (r *Registry) StripMentions(text string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := mentionRE.ReplaceAllStringFunc(text, func(m string) string {
		sub := mentionRE.FindStringSubmatch(m)
		token := Normalize(sub[1])
		if token == "" {
			return m
		}
		for _, f := range r.files {
			if strings.Contains(f.Normalized, token) {
				// Keep the leading whitespace that anchored the mention.
				return strings.TrimSuffix(m, "@"+sub[1])
			}
		}
		return m
	})
	return strings.Join(strings.Fields(out), " ")
}

// =============================================================================
// PERSISTENCE
// =============================================================================

func (r *Registry) keyFor(key string) string {
	return r.scope + "/" + key
}

func (r *Registry) load() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadLocked()
}

// loadLocked restores state from the store. Corrupt entries are dropped
// rather than failing the session; the registry is a cache, the backend
// remains the source of truth.
func (r *Registry) loadLocked() {
	if raw, ok := r.store.Get(r.keyFor(keyFileList)); ok {
		var files []StoredFile
		if json.Unmarshal([]byte(raw), &files) == nil {
			r.files = files
		}
	}
	if raw, ok := r.store.Get(r.keyFor(keyFileMap)); ok {
		var m map[string]string
		if json.Unmarshal([]byte(raw), &m) == nil && m != nil {
			r.fileMap = m
		}
	}
	if raw, ok := r.store.Get(r.keyFor(keyLastUploaded)); ok {
		var last LastUploaded
		if json.Unmarshal([]byte(raw), &last) == nil && last.Filename != "" {
			r.last = &last
		}
	}
}

func (r *Registry) saveLocked() error {
	list, err := json.Marshal(r.files)
	if err != nil {
		return fmt.Errorf("failed to encode file list: %w", err)
	}
	m, err := json.Marshal(r.fileMap)
	if err != nil {
		return fmt.Errorf("failed to encode file map: %w", err)
	}

	if err := r.store.Set(r.keyFor(keyFileList), string(list)); err != nil {
		return err
	}
	if err := r.store.Set(r.keyFor(keyFileMap), string(m)); err != nil {
		return err
	}
	if r.last != nil {
		last, err := json.Marshal(r.last)
		if err != nil {
			return fmt.Errorf("failed to encode last upload: %w", err)
		}
		if err := r.store.Set(r.keyFor(keyLastUploaded), string(last)); err != nil {
			return err
		}
	}
	return nil
}
