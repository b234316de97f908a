// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the single point of outbound communication with the
// legal-document backend. The Client owns the bearer token and default
// headers; every request is bounded by a context timeout and every non-2xx
// response is normalized into an *APIError wrapping a sentinel.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL points at a local backend for development.
	DefaultBaseURL = "http://localhost:8000/api"

	// DefaultTimeout bounds every request. A hung backend surfaces as a
	// context deadline error after 30s rather than a frozen UI.
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize caps response bodies (10MB).
	// PERFORMANCE: Prevents memory exhaustion from a misbehaving server.
	MaxResponseSize = 10 * 1024 * 1024

	// DefaultTopK is the number of evidence chunks requested per question.
	DefaultTopK = 5
)

// Shared HTTP client with connection pooling.
// PERFORMANCE: Reusing connections avoids TLS handshake overhead per call.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
	},
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the backend REST API.
// Safe for concurrent use; the token is guarded because a status-polling
// loop may run alongside user-initiated requests.
type Client struct {
	mu      sync.RWMutex
	baseURL string
	token   string

	httpClient *http.Client
	timeout    time.Duration
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the backend base URL (should end in /api).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient substitutes the underlying HTTP client (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger attaches a structured logger for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRateLimit caps outbound requests per second (0 disables the cap).
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), int(rps)+1)
		}
	}
}

// NewClient creates a backend client with the default timeout and no token.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: sharedHTTPClient,
		timeout:    DefaultTimeout,
		limiter:    rate.NewLimiter(rate.Limit(10), 20),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetAuthToken installs the bearer token used by subsequent requests.
func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// ClearAuthToken removes the bearer token.
func (c *Client) ClearAuthToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
}

// HasAuthToken reports whether a token is installed.
func (c *Client) HasAuthToken() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// doJSON issues a JSON request and decodes the response into out (if non-nil).
// withAuth controls whether the bearer token is attached; guest endpoints
// must not send one.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any, withAuth bool) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := c.newRequest(ctx, method, c.baseURL+path, reader, withAuth)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, out)
}

// newRequest builds a request with standard headers. The context is wrapped
// with the client timeout; cancellation flows through to the transport.
func (c *Client) newRequest(ctx context.Context, method, fullURL string, body io.Reader, withAuth bool) (*http.Request, error) {
	if c.baseURL == "" {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if withAuth {
		c.mu.RLock()
		token := c.token
		c.mu.RUnlock()
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

// send executes the request, normalizes errors, and decodes a 2xx body.
func (c *Client) send(req *http.Request, out any) error {
	ctx, cancel := context.WithTimeout(req.Context(), c.timeout)
	defer cancel()
	req = req.WithContext(ctx)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("request rate limit wait: %w", err)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.Path),
			zap.Error(err))
		return fmt.Errorf("request to %s failed: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("request completed",
		zap.String("method", req.Method),
		zap.String("url", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return normalizeError(resp.StatusCode, raw)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// normalizeError converts a non-2xx response into an *APIError.
// The server's own message wins when the body parses; an unparseable body
// degrades to "Unknown error" rather than leaking raw bytes to the UI.
func normalizeError(status int, raw []byte) error {
	if len(raw) == 0 {
		return newAPIError(status, "")
	}

	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return newAPIError(status, "Unknown error")
	}

	msg := body.Message
	if msg == "" {
		msg = body.Detail
	}
	return newAPIError(status, msg)
}

// =============================================================================
// UPLOADS
// =============================================================================

// UploadFile uploads a document as the authenticated user.
func (c *Client) UploadFile(ctx context.Context, path string, uploadType UploadType) (*UploadResponse, error) {
	return c.uploadMultipart(ctx, "/upload", path, uploadType, true)
}

// GuestUploadFile uploads a document without authentication.
func (c *Client) GuestUploadFile(ctx context.Context, path string) (*UploadResponse, error) {
	return c.uploadMultipart(ctx, "/guest/upload", path, "", false)
}

func (c *Client) uploadMultipart(ctx context.Context, endpoint, path string, uploadType UploadType, withAuth bool) (*UploadResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if uploadType != "" {
		if err := w.WriteField("upload_type", string(uploadType)); err != nil {
			return nil, fmt.Errorf("failed to build multipart body: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.baseURL+endpoint, &buf, withAuth)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var out UploadResponse
	if err := c.send(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUploadStatus fetches processing status for an uploaded document.
func (c *Client) GetUploadStatus(ctx context.Context, fileID string) (*UploadStatus, error) {
	var out UploadStatus
	if err := c.doJSON(ctx, http.MethodGet, "/upload/status/"+url.PathEscape(fileID), nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteFile removes an uploaded document from the backend.
func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/upload/"+url.PathEscape(fileID), nil, nil, true)
}

// =============================================================================
// QUESTION ANSWERING
// =============================================================================

// AskQuestion sends a question about an uploaded document.
// fileHash must already be resolved; resolution from free text lives in the
// registry package, not here.
func (c *Client) AskQuestion(ctx context.Context, question, fileHash string, topK int) (*QAResponse, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	var out QAResponse
	req := qaRequest{Question: question, FileHash: fileHash, TopK: topK}
	if err := c.doJSON(ctx, http.MethodPost, "/qa", req, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// GuestQA is AskQuestion for the unauthenticated path.
func (c *Client) GuestQA(ctx context.Context, question, fileHash string, topK int) (*QAResponse, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	var out QAResponse
	req := qaRequest{Question: question, FileHash: fileHash, TopK: topK}
	if err := c.doJSON(ctx, http.MethodPost, "/guest/qa", req, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// SummarizeDocument requests a summary, optionally focused on given areas.
func (c *Client) SummarizeDocument(ctx context.Context, fileHash string, focusAreas []string) (*SummarizeResponse, error) {
	var out SummarizeResponse
	req := summarizeRequest{FileHash: fileHash, FocusAreas: focusAreas}
	if err := c.doJSON(ctx, http.MethodPost, "/summarize", req, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompareDocuments requests a comparison of two uploaded documents.
func (c *Client) CompareDocuments(ctx context.Context, hash1, hash2 string) (*CompareResponse, error) {
	var out CompareResponse
	req := compareRequest{FileHash1: hash1, FileHash2: hash2}
	if err := c.doJSON(ctx, http.MethodPost, "/compare", req, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// SimplifyText requests a plain-language rewrite of a document.
func (c *Client) SimplifyText(ctx context.Context, fileHash string, level SimplifyLevel) (*SimplifyResponse, error) {
	if level == "" {
		level = SimplifyBasic
	}
	var out SimplifyResponse
	req := simplifyRequest{FileHash: fileHash, Level: level}
	if err := c.doJSON(ctx, http.MethodPost, "/simplify", req, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// =============================================================================
// ACCOUNTS
// =============================================================================

// Register creates an account. The backend issues no token here; callers
// follow up with Login.
func (c *Client) Register(ctx context.Context, email, password, name string) (*RegisterResponse, error) {
	var out RegisterResponse
	req := registerRequest{Email: email, Password: password, Name: name}
	if err := c.doJSON(ctx, http.MethodPost, "/users/register", req, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	req := loginRequest{Email: email, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/users/login", req, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// GoogleSignIn authenticates with a Google ID token.
func (c *Client) GoogleSignIn(ctx context.Context, idToken string) (*GoogleSignInResponse, error) {
	var out GoogleSignInResponse
	req := googleSignInRequest{IDToken: idToken}
	if err := c.doJSON(ctx, http.MethodPost, "/users/google-signin", req, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUserProfile fetches the authenticated user's profile. Used at startup
// to validate a persisted token.
func (c *Client) GetUserProfile(ctx context.Context) (*UserProfile, error) {
	var out UserProfile
	if err := c.doJSON(ctx, http.MethodGet, "/users/profile", nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// =============================================================================
// CHAT HISTORY, FEEDBACK, ADMIN
// =============================================================================

// GetChatHistory fetches stored exchanges, optionally filtered by file.
func (c *Client) GetChatHistory(ctx context.Context, fileHash string, limit int) (*ChatHistoryResponse, error) {
	if limit <= 0 {
		limit = 50
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if fileHash != "" {
		q.Set("file_hash", fileHash)
	}

	var out ChatHistoryResponse
	if err := c.doJSON(ctx, http.MethodGet, "/users/chat-history?"+q.Encode(), nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveChatMessage stores one exchange server-side.
func (c *Client) SaveChatMessage(ctx context.Context, question, answer, fileHash string) error {
	req := saveChatRequest{Question: question, Answer: answer, FileHash: fileHash}
	return c.doJSON(ctx, http.MethodPost, "/users/chat-history", req, nil, true)
}

// SubmitFeedback rates an answer for retrieval-quality tuning.
func (c *Client) SubmitFeedback(ctx context.Context, fileHash, chunkID, question, answer string, rating int, confidential bool) (*FeedbackResponse, error) {
	var out FeedbackResponse
	req := feedbackRequest{
		FileHash:     fileHash,
		ChunkID:      chunkID,
		Question:     question,
		Answer:       answer,
		Rating:       rating,
		Confidential: confidential,
	}
	if err := c.doJSON(ctx, http.MethodPost, "/feedback", req, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// TriggerRetrain asks the backend to rebuild its retrieval index.
func (c *Client) TriggerRetrain(ctx context.Context) (*RetrainResponse, error) {
	var out RetrainResponse
	if err := c.doJSON(ctx, http.MethodPost, "/retrain", nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckHealth probes the backend's docs page on the server root (base URL
// with the trailing /api stripped). Any 2xx counts as healthy.
func (c *Client) CheckHealth(ctx context.Context) error {
	root := strings.TrimSuffix(c.baseURL, "/api")
	req, err := c.newRequest(ctx, http.MethodGet, root+"/docs", nil, false)
	if err != nil {
		return err
	}
	return c.send(req, nil)
}
