// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package collector

import (
	"context"
	"errors"
	"math/rand/v2"
	"net"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
)

// RetryState is the terminal state of a retried call.
type RetryState int

const (
	// StateSucceeded means the call completed, possibly after retries.
	StateSucceeded RetryState = iota
	// StateExhausted means every attempt failed with a transient error.
	StateExhausted
	// StatePermanentFailure means an attempt failed with a non-retryable error.
	StatePermanentFailure
	// StateCanceled means the surrounding context was canceled.
	StateCanceled
)

// String implements fmt.Stringer for type RetryState.
func (s RetryState) String() string {
	switch s {
	case StateSucceeded:
		return "succeeded"
	case StateExhausted:
		return "exhausted"
	case StatePermanentFailure:
		return "permanent"
	case StateCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// RetryPolicy bounds the retry behaviour of a single remote call.
type RetryPolicy struct {
	MaxRetries     int           // MaxRetries is the number of retries after the first attempt.
	BaseDelay      time.Duration // BaseDelay is the backoff unit, doubled per attempt.
	MaxDelay       time.Duration // MaxDelay caps the backoff.
	PerCallTimeout time.Duration // PerCallTimeout applies to each attempt, not the whole call.
}

// DefaultRetryPolicy returns the policy used when none is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:     3,
		BaseDelay:      500 * time.Millisecond,
		MaxDelay:       8 * time.Second,
		PerCallTimeout: 10 * time.Second,
	}
}

// RetryResult records how a retried call terminated.
type RetryResult struct {
	State    RetryState
	Attempts int
	Err      error
}

// Do runs op through the retry state machine. Each attempt gets its own
// per-call timeout; a timeout counts as a transient failure. The parent
// context canceling terminates the machine in StateCanceled.
func (p RetryPolicy) Do(ctx context.Context, op func(ctx context.Context) error) RetryResult {
	res := RetryResult{}
	for {
		if ctx.Err() != nil {
			res.State = StateCanceled
			res.Err = ctx.Err()
			return res
		}
		res.Attempts++
		err := p.attempt(ctx, op)
		if err == nil {
			res.State = StateSucceeded
			res.Err = nil
			return res
		}
		res.Err = err
		if ctx.Err() != nil {
			res.State = StateCanceled
			res.Err = ctx.Err()
			return res
		}
		if !transient(err) {
			res.State = StatePermanentFailure
			return res
		}
		if res.Attempts > p.MaxRetries {
			res.State = StateExhausted
			return res
		}
		select {
		case <-time.After(p.backoff(res.Attempts)):
		case <-ctx.Done():
			res.State = StateCanceled
			res.Err = ctx.Err()
			return res
		}
	}
}

func (p RetryPolicy) attempt(ctx context.Context, op func(ctx context.Context) error) error {
	if p.PerCallTimeout <= 0 {
		return op(ctx)
	}
	callCtx, cancel := context.WithTimeout(ctx, p.PerCallTimeout)
	defer cancel()
	return op(callCtx)
}

// backoff returns a full-jitter delay: uniform over [0, base*2^(attempt-1)],
// capped at MaxDelay.
func (p RetryPolicy) backoff(attempt int) time.Duration {
	max := p.BaseDelay << (attempt - 1)
	if max > p.MaxDelay || max <= 0 {
		max = p.MaxDelay
	}
	if max <= 0 {
		return 0
	}
	return time.Duration(rand.Int64N(int64(max)))
}

// retryableStatusCodes are the HTTP statuses treated as transient.
var retryableStatusCodes = map[int]struct{}{
	408: {},
	429: {},
	500: {},
	502: {},
	503: {},
	504: {},
}

// transient reports whether err is worth retrying. Rate limiting, timeouts
// and 5xx responses are transient; authorization and not-found errors are
// permanent, as is any other 4xx.
func transient(err error) bool {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		_, ok := retryableStatusCodes[respErr.StatusCode]
		return ok
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}
