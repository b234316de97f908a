// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultPollInterval between upload status checks.
	DefaultPollInterval = 10 * time.Second

	// DefaultMaxPollAttempts caps the polling loop (~5 minutes).
	DefaultMaxPollAttempts = 30
)

// PollResult is one observation from a StatusPoller.
// Final is set on the last result the poller will ever deliver, whether
// because the status is terminal, attempts ran out, or polling was stopped.
type PollResult struct {
	Status  *UploadStatus
	Err     error
	Attempt int
	Final   bool
}

// =============================================================================
// STATUS POLLER
// =============================================================================

// StatusPoller watches an upload until processing completes or fails.
//
// The loop has an explicit lifecycle: Start ties it to the caller's context
// and Stop cancels it, so a view being torn down cannot orphan a timer.
// Stop is idempotent and safe from any goroutine.
type StatusPoller struct {
	client      *Client
	fileID      string
	interval    time.Duration
	maxAttempts int
	logger      *zap.Logger

	stopOnce sync.Once
	cancel   context.CancelFunc
	results  chan PollResult
}

// PollerOption configures a StatusPoller.
type PollerOption func(*StatusPoller)

// WithPollInterval overrides the delay between status checks.
func WithPollInterval(d time.Duration) PollerOption {
	return func(p *StatusPoller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithMaxPollAttempts overrides the attempt cap.
func WithMaxPollAttempts(n int) PollerOption {
	return func(p *StatusPoller) {
		if n > 0 {
			p.maxAttempts = n
		}
	}
}

// WithPollerLogger attaches a structured logger.
func WithPollerLogger(l *zap.Logger) PollerOption {
	return func(p *StatusPoller) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewStatusPoller creates a poller for the given upload.
func NewStatusPoller(client *Client, fileID string, opts ...PollerOption) *StatusPoller {
	p := &StatusPoller{
		client:      client,
		fileID:      fileID,
		interval:    DefaultPollInterval,
		maxAttempts: DefaultMaxPollAttempts,
		logger:      zap.NewNop(),
		results:     make(chan PollResult, 1),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start begins polling and returns the result channel. The channel is
// closed after the final result. Each status check is issued immediately
// on its turn; the first check happens without waiting for the interval.
func (p *StatusPoller) Start(ctx context.Context) <-chan PollResult {
	ctx, p.cancel = context.WithCancel(ctx)

	go func() {
		defer close(p.results)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for attempt := 1; attempt <= p.maxAttempts; attempt++ {
			status, err := p.client.GetUploadStatus(ctx, p.fileID)

			if ctx.Err() != nil {
				p.deliver(ctx, PollResult{Err: ctx.Err(), Attempt: attempt, Final: true})
				return
			}

			terminal := err == nil &&
				(status.Status == StatusCompleted || status.Status == StatusFailed)
			last := terminal || attempt == p.maxAttempts

			p.deliver(ctx, PollResult{
				Status:  status,
				Err:     err,
				Attempt: attempt,
				Final:   last,
			})
			if last {
				if !terminal {
					p.logger.Warn("upload status polling gave up",
						zap.String("file_id", p.fileID),
						zap.Int("attempts", p.maxAttempts))
				}
				return
			}

			select {
			case <-ctx.Done():
				p.deliver(ctx, PollResult{Err: ctx.Err(), Attempt: attempt, Final: true})
				return
			case <-ticker.C:
			}
		}
	}()

	return p.results
}

// Stop cancels polling. The result channel still receives a Final result
// (carrying the cancellation error) before closing.
func (p *StatusPoller) Stop() {
	p.stopOnce.Do(func() {
		if p.cancel != nil {
			p.cancel()
		}
	})
}

// deliver sends a result unless the receiver is gone and the context died.
func (p *StatusPoller) deliver(ctx context.Context, r PollResult) {
	select {
	case p.results <- r:
	case <-ctx.Done():
		// Receiver stopped listening; drop the result rather than block.
		select {
		case p.results <- r:
		default:
		}
	}
}
