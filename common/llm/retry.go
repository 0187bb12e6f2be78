package llm

import (
	"context"
	"log/slog"
	"time"
)

// RetryPolicy bounds retries of a single completion.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	// Retryable decides whether an error deserves another attempt. Defaults to IsRetryable.
	Retryable func(ctx context.Context, err error) bool
	// Sleep waits between attempts. Defaults to a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// WithRetry wraps next with bounded exponential backoff: BaseDelay, 2*BaseDelay, ...
// The wrapped client never retries once ctx is done.
func WithRetry(next TextClient, policy RetryPolicy) TextClient {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if policy.BaseDelay <= 0 {
		policy.BaseDelay = 500 * time.Millisecond
	}
	if policy.Retryable == nil {
		policy.Retryable = IsRetryable
	}
	if policy.Sleep == nil {
		policy.Sleep = sleepContext
	}
	return &retryingClient{next: next, policy: policy}
}

type retryingClient struct {
	next   TextClient
	policy RetryPolicy
}

func (r *retryingClient) Model() string {
	return r.next.Model()
}

func (r *retryingClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	var lastErr error
	for attempt := 0; attempt < r.policy.MaxAttempts; attempt++ {
		resp, err := r.next.Complete(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if attempt == r.policy.MaxAttempts-1 || !r.policy.Retryable(ctx, err) {
			break
		}

		delay := r.policy.BaseDelay * time.Duration(1<<attempt)
		slog.DebugContext(ctx, "retrying llm completion",
			"model", r.next.Model(),
			"attempt", attempt+1,
			"delay_ms", delay.Milliseconds())

		if err := r.policy.Sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
