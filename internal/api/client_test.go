// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(WithBaseURL(srv.URL + "/api"))
}

func TestAskQuestionSendsBearerAndBody(t *testing.T) {
	var gotAuth string
	var gotBody qaRequest

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/qa", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(QAResponse{Answer: "30 days notice.", Confidence: 92})
	})
	c.SetAuthToken("tok-1")

	resp, err := c.AskQuestion(context.Background(), "notice period?", "abc123", 0)
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.Equal(t, "abc123", gotBody.FileHash)
	assert.Equal(t, DefaultTopK, gotBody.TopK)
	assert.Equal(t, "30 days notice.", resp.Answer)
}

func TestGuestEndpointsOmitAuthHeader(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "/api/guest/qa", r.URL.Path)
		json.NewEncoder(w).Encode(QAResponse{Answer: "ok"})
	})
	c.SetAuthToken("should-not-be-sent")

	_, err := c.GuestQA(context.Background(), "q", "h", 5)
	require.NoError(t, err)
}

func TestErrorNormalization(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantMsg    string
		wantTarget error
	}{
		{"server message wins", 400, `{"message":"file too large"}`, "file too large", nil},
		{"detail fallback", 422, `{"detail":"missing question"}`, "missing question", nil},
		{"unparseable body", 500, `<html>boom</html>`, "Unknown error", ErrServerError},
		{"empty body uses status text", 404, ``, "Not Found", ErrNotFound},
		{"unauthorized sentinel", 401, `{"message":"Invalid token"}`, "Invalid token", ErrUnauthorized},
		{"rate limit sentinel", 429, `{"message":"slow down"}`, "slow down", ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := c.GetUserProfile(context.Background())
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			if tt.wantTarget != nil {
				assert.ErrorIs(t, err, tt.wantTarget)
			}
		})
	}
}

func TestRequestTimeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})
	WithTimeout(50 * time.Millisecond)(c)

	_, err := c.GetUserProfile(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestUploadFileMultipart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Lease Agreement.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake"), 0600))

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "Lease Agreement.pdf", hdr.Filename)
		assert.Equal(t, "confidential", r.FormValue("upload_type"))

		json.NewEncoder(w).Encode(UploadResponse{FileID: "abc123", Filename: hdr.Filename, Pages: 3})
	})

	resp, err := c.UploadFile(context.Background(), path, UploadConfidential)
	require.NoError(t, err)
	assert.Equal(t, "abc123", resp.FileID)
	assert.Equal(t, 3, resp.Pages)
}

func TestCheckHealthStripsAPISuffix(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL + "/api"))
	require.NoError(t, c.CheckHealth(context.Background()))
	assert.Equal(t, "/docs", gotPath)
}

func TestClearAuthToken(t *testing.T) {
	c := NewClient()
	assert.False(t, c.HasAuthToken())
	c.SetAuthToken("tok")
	assert.True(t, c.HasAuthToken())
	c.ClearAuthToken()
	assert.False(t, c.HasAuthToken())
}

func TestSimplifyResponseText(t *testing.T) {
	assert.Equal(t, "a", (&SimplifyResponse{Simplified: "a"}).Text())
	assert.Equal(t, "b", (&SimplifyResponse{SimplifiedText: "b"}).Text())
	assert.Equal(t, "a", (&SimplifyResponse{Simplified: "a", SimplifiedText: "b"}).Text())
}
