package canvas

import (
	"context"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/util/retry"
)

// RetryPolicy controls how failed upstream requests are retried.
type RetryPolicy struct {
	// MaxAttempts counts the first attempt; 1 disables retries.
	MaxAttempts int
	BaseDelay   time.Duration
	// MaxDelay caps the backoff. Once a delay would exceed it, retrying stops.
	MaxDelay  time.Duration
	Retryable func(error) bool
}

// DefaultRetryPolicy retries three times after the first attempt with
// delays of roughly 1s, 2s and 4s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 4,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
		Retryable:   IsRetryable,
	}
}

// Backoff returns the wait schedule for the policy.
func (p RetryPolicy) Backoff() wait.Backoff {
	steps := p.MaxAttempts
	if steps < 1 {
		steps = 1
	}
	return wait.Backoff{
		Steps:    steps,
		Duration: p.BaseDelay,
		Factor:   2.0,
		Jitter:   0.1,
		Cap:      p.MaxDelay,
	}
}

// Do runs fn until it succeeds, returns a non-retryable error, the attempts
// run out or ctx is done. The last error is returned.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	retryable := p.Retryable
	if retryable == nil {
		retryable = IsRetryable
	}
	return retry.OnError(p.Backoff(), func(err error) bool {
		return ctx.Err() == nil && retryable(err)
	}, fn)
}
