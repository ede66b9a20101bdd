// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package backoff retries operations with exponential backoff and jitter.
package backoff

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

const (
	// DefaultMaxAttempts is the default maximum number of attempts.
	DefaultMaxAttempts = 3
	// DefaultInitialDelay is the default delay before the first retry.
	DefaultInitialDelay = 500 * time.Millisecond
	// DefaultMaxDelay is the default cap on the delay between retries.
	DefaultMaxDelay = 5 * time.Second
)

// RetryOption is an option for Retry.
type RetryOption func(*retryOptions)

// RetryWithMaxAttempts returns a new RetryOption that sets the maximum number of attempts.
//
// Values below 1 are treated as 1.
func RetryWithMaxAttempts(maxAttempts int) RetryOption {
	return func(retryOptions *retryOptions) {
		retryOptions.maxAttempts = max(maxAttempts, 1)
	}
}

// RetryWithDelays returns a new RetryOption that sets the initial delay and the delay cap.
func RetryWithDelays(initialDelay time.Duration, maxDelay time.Duration) RetryOption {
	return func(retryOptions *retryOptions) {
		retryOptions.initialDelay = initialDelay
		retryOptions.maxDelay = maxDelay
	}
}

// RetryWithIsRetryable returns a new RetryOption that decides which errors are retried.
//
// The default retries every error except context cancellation and deadlines.
func RetryWithIsRetryable(isRetryable func(error) bool) RetryOption {
	return func(retryOptions *retryOptions) {
		retryOptions.isRetryable = isRetryable
	}
}

// RetryWithOnRetry returns a new RetryOption that calls onRetry before waiting for the next attempt.
//
// attempt is zero-based and is the attempt that failed.
func RetryWithOnRetry(onRetry func(attempt int, delay time.Duration, err error)) RetryOption {
	return func(retryOptions *retryOptions) {
		retryOptions.onRetry = onRetry
	}
}

// Retry calls f until it succeeds, returns a non-retryable error, or the
// maximum number of attempts is reached.
//
// Non-retryable errors are returned as is. If all attempts fail, the last error
// is wrapped.
func Retry[T any](ctx context.Context, f func(ctx context.Context) (T, error), options ...RetryOption) (T, error) {
	retryOptions := newRetryOptions()
	for _, option := range options {
		option(retryOptions)
	}
	var zero T
	delay := retryOptions.initialDelay
	for attempt := range retryOptions.maxAttempts {
		result, err := f(ctx)
		if err == nil {
			return result, nil
		}
		if !retryOptions.isRetryable(err) {
			return zero, err
		}
		if attempt == retryOptions.maxAttempts-1 {
			return zero, fmt.Errorf("failed after %d attempts: %w", retryOptions.maxAttempts, err)
		}
		// Random duration between delay/2 and delay.
		jitteredDelay := delay/2 + time.Duration(rand.Int64N(int64(delay/2+1)))
		if retryOptions.onRetry != nil {
			retryOptions.onRetry(attempt, jitteredDelay, err)
		}
		timer := time.NewTimer(jitteredDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
		delay = min(delay*2, retryOptions.maxDelay)
	}
	return zero, fmt.Errorf("failed after %d attempts", retryOptions.maxAttempts)
}

// IsTransient returns true for all non-nil errors except context cancellation and deadlines.
func IsTransient(err error) bool {
	return err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// *** PRIVATE ***

type retryOptions struct {
	maxAttempts  int
	initialDelay time.Duration
	maxDelay     time.Duration
	isRetryable  func(error) bool
	onRetry      func(int, time.Duration, error)
}

func newRetryOptions() *retryOptions {
	return &retryOptions{
		maxAttempts:  DefaultMaxAttempts,
		initialDelay: DefaultInitialDelay,
		maxDelay:     DefaultMaxDelay,
		isRetryable:  IsTransient,
	}
}
