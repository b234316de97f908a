// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/legalai/legalai-tui/internal/util"
)

// Tokens are obfuscated before they touch disk. The key lives in a
// 0600 file next to the rest of the client state; this protects against
// casual reads of a synced or backed-up config directory, not against an
// attacker with the same local account.

// encryptedPrefix marks a protected value: ENC:base64(nonce|ciphertext).
const encryptedPrefix = "ENC:"

var (
	// ErrDecryptFailed indicates a tampered value or a replaced key file.
	ErrDecryptFailed = errors.New("token decryption failed")
)

// credStore seals and opens token strings with a machine-local key.
type credStore struct {
	aeadKey []byte
}

// newCredStore loads the key at keyPath, generating one on first use.
func newCredStore(keyPath string) (*credStore, error) {
	key, err := os.ReadFile(keyPath)
	if err == nil && len(key) == chacha20poly1305.KeySize {
		return &credStore{aeadKey: key}, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	key = make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	// SECURITY: 0600 - key must not be readable by other accounts.
	if err := util.AtomicWriteFile(keyPath, key, 0600); err != nil {
		return nil, fmt.Errorf("failed to store key: %w", err)
	}
	return &credStore{aeadKey: key}, nil
}

// Seal encrypts a token for persistence.
func (s *credStore) Seal(token string) (string, error) {
	aead, err := chacha20poly1305.NewX(s.aeadKey)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, []byte(token), nil)
	return encryptedPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decrypts a persisted token. Plaintext values (from older client
// versions) pass through unchanged.
func (s *credStore) Open(stored string) (string, error) {
	if !strings.HasPrefix(stored, encryptedPrefix) {
		return stored, nil
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(stored, encryptedPrefix))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptFailed, err)
	}

	aead, err := chacha20poly1305.NewX(s.aeadKey)
	if err != nil {
		return "", err
	}
	if len(raw) < aead.NonceSize() {
		return "", ErrDecryptFailed
	}

	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrDecryptFailed
	}
	return string(plain), nil
}
