// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

// Wire types for the backend REST API. Field names follow the server's
// JSON contract exactly; optional fields are tagged omitempty on requests.

// =============================================================================
// UPLOAD
// =============================================================================

// UploadType selects the processing pipeline for an uploaded document.
type UploadType string

const (
	UploadNormal       UploadType = "normal"
	UploadConfidential UploadType = "confidential"
)

// UploadResponse is returned by /upload and /guest/upload.
type UploadResponse struct {
	FileID      string `json:"file_id"`
	Filename    string `json:"filename"`
	Pages       int    `json:"pages"`
	Message     string `json:"message"`
	IsDuplicate bool   `json:"is_duplicate"`
}

// UploadStatus is returned by /upload/status/{id}.
type UploadStatus struct {
	FileID   string `json:"file_id"`
	Status   string `json:"status"` // processing | completed | failed
	Message  string `json:"message"`
	Progress int    `json:"progress"`
}

// Terminal upload states.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// =============================================================================
// QUESTION ANSWERING
// =============================================================================

type qaRequest struct {
	Question string `json:"question"`
	FileHash string `json:"file_hash"`
	TopK     int    `json:"top_k"`
}

// EvidenceMeta locates an evidence chunk within the source document.
type EvidenceMeta struct {
	PageNumber int    `json:"page_number"`
	Section    string `json:"section"`
}

// Evidence is one retrieved passage supporting an answer.
type Evidence struct {
	ChunkID string       `json:"chunk_id"`
	Text    string       `json:"text"`
	Meta    EvidenceMeta `json:"meta"`
	Score   float64      `json:"score"`
}

// Highlight marks a notable clause in the analyzed document.
type Highlight struct {
	Text       string `json:"text"`
	Category   string `json:"category"` // favorable | neutral | risky | payment | clause
	Suggestion string `json:"suggestion"`
}

// QAResponse is returned by /qa and /guest/qa.
type QAResponse struct {
	Answer     string      `json:"answer"`
	Evidence   []Evidence  `json:"evidence"`
	Highlights []Highlight `json:"highlights"`
	Confidence float64     `json:"confidence"`
}

// =============================================================================
// DOCUMENT OPERATIONS
// =============================================================================

type summarizeRequest struct {
	FileHash   string   `json:"file_hash"`
	FocusAreas []string `json:"focus_areas,omitempty"`
}

// SummarizeResponse is returned by /summarize.
type SummarizeResponse struct {
	Summary    string  `json:"summary"`
	Confidence float64 `json:"confidence,omitempty"`
}

type compareRequest struct {
	FileHash1 string `json:"file_hash_1"`
	FileHash2 string `json:"file_hash_2"`
}

// CompareResponse is returned by /compare.
type CompareResponse struct {
	Comparison string `json:"comparison"`
}

// SimplifyLevel selects the reading level for plain-language rewrites.
type SimplifyLevel string

const (
	SimplifyBasic        SimplifyLevel = "basic"
	SimplifyIntermediate SimplifyLevel = "intermediate"
	SimplifyAdvanced     SimplifyLevel = "advanced"
)

type simplifyRequest struct {
	FileHash string        `json:"file_hash"`
	Level    SimplifyLevel `json:"level"`
}

// SimplifyResponse is returned by /simplify. The backend has shipped both
// field names; Text() papers over the difference.
type SimplifyResponse struct {
	Simplified     string `json:"simplified,omitempty"`
	SimplifiedText string `json:"simplified_text,omitempty"`
}

// Text returns whichever simplified field the server populated.
func (r *SimplifyResponse) Text() string {
	if r.Simplified != "" {
		return r.Simplified
	}
	return r.SimplifiedText
}

// =============================================================================
// ACCOUNTS
// =============================================================================

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// RegisterResponse is returned by /users/register. No token is issued;
// the user signs in afterwards.
type RegisterResponse struct {
	UID     string `json:"uid"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by /users/login.
type LoginResponse struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    string `json:"expires_in"`
	UID          string `json:"uid"`
	Email        string `json:"email"`
	Message      string `json:"message"`
}

type googleSignInRequest struct {
	IDToken string `json:"id_token"`
}

// GoogleSignInResponse is returned by /users/google-signin.
type GoogleSignInResponse struct {
	UID     string `json:"uid"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
}

// UserProfile is returned by /users/profile.
type UserProfile struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   string `json:"created_at"`
	LastLogin   string `json:"last_login,omitempty"`
}

// =============================================================================
// CHAT HISTORY & FEEDBACK
// =============================================================================

// ChatHistoryEntry is one stored exchange from /users/chat-history.
type ChatHistoryEntry struct {
	ID         string  `json:"id"`
	Question   string  `json:"question"`
	Answer     string  `json:"answer"`
	FileHash   string  `json:"file_hash"`
	Timestamp  string  `json:"timestamp"`
	Confidence float64 `json:"confidence,omitempty"`
}

// ChatHistoryResponse is returned by GET /users/chat-history.
type ChatHistoryResponse struct {
	Messages []ChatHistoryEntry `json:"messages"`
}

type saveChatRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	FileHash string `json:"file_hash,omitempty"`
}

type feedbackRequest struct {
	FileHash     string `json:"file_hash"`
	ChunkID      string `json:"chunk_id"`
	Question     string `json:"question"`
	Answer       string `json:"answer"`
	Rating       int    `json:"rating"`
	Confidential bool   `json:"confidential"`
}

// FeedbackResponse is returned by /feedback.
type FeedbackResponse struct {
	Message string `json:"message"`
}

// RetrainResponse is returned by /retrain.
type RetrainResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// errorBody is the JSON shape of backend error responses.
type errorBody struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
}
