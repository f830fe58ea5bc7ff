// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package collector

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 2,
		BaseDelay:  time.Millisecond,
		MaxDelay:   2 * time.Millisecond,
	}
}

func throttled() error {
	return &azcore.ResponseError{
		StatusCode: http.StatusTooManyRequests,
		ErrorCode:  "TooManyRequests",
		RawResponse: &http.Response{
			StatusCode: http.StatusTooManyRequests,
			Request:    &http.Request{Method: http.MethodGet, URL: &url.URL{Scheme: "https", Host: "management.azure.com"}},
		},
	}
}

func notFound() error {
	return &azcore.ResponseError{
		StatusCode: http.StatusNotFound,
		ErrorCode:  "ResourceGroupNotFound",
		RawResponse: &http.Response{
			StatusCode: http.StatusNotFound,
			Request:    &http.Request{Method: http.MethodGet, URL: &url.URL{Scheme: "https", Host: "management.azure.com"}},
		},
	}
}

func TestRetrySucceedsFirstAttempt(t *testing.T) {
	t.Parallel()

	rr := testPolicy().Do(context.Background(), func(context.Context) error { return nil })
	assert.Equal(t, StateSucceeded, rr.State)
	assert.Equal(t, 1, rr.Attempts)
	assert.NoError(t, rr.Err)
}

func TestRetryTransientThenSuccess(t *testing.T) {
	t.Parallel()

	calls := 0
	rr := testPolicy().Do(context.Background(), func(context.Context) error {
		calls++
		if calls == 1 {
			return throttled()
		}
		return nil
	})
	assert.Equal(t, StateSucceeded, rr.State)
	assert.Equal(t, 2, rr.Attempts)
}

func TestRetryExhaustion(t *testing.T) {
	t.Parallel()

	calls := 0
	rr := testPolicy().Do(context.Background(), func(context.Context) error {
		calls++
		return throttled()
	})
	assert.Equal(t, StateExhausted, rr.State)
	// one initial attempt plus MaxRetries retries
	assert.Equal(t, 3, rr.Attempts)
	assert.Equal(t, 3, calls)
	require.Error(t, rr.Err)
}

func TestRetryPermanentNotRetried(t *testing.T) {
	t.Parallel()

	calls := 0
	rr := testPolicy().Do(context.Background(), func(context.Context) error {
		calls++
		return notFound()
	})
	assert.Equal(t, StatePermanentFailure, rr.State)
	assert.Equal(t, 1, calls)
}

func TestRetryCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rr := testPolicy().Do(ctx, func(context.Context) error { return throttled() })
	assert.Equal(t, StateCanceled, rr.State)
	assert.ErrorIs(t, rr.Err, context.Canceled)
}

func TestRetryPerCallTimeoutIsTransient(t *testing.T) {
	t.Parallel()

	assert.True(t, transient(context.DeadlineExceeded))
}

func TestTransientClassification(t *testing.T) {
	t.Parallel()

	assert.True(t, transient(throttled()))
	assert.False(t, transient(notFound()))
	assert.False(t, transient(errors.New("parse error")))

	unauthorized := &azcore.ResponseError{StatusCode: http.StatusForbidden}
	assert.False(t, transient(unauthorized))

	unavailable := &azcore.ResponseError{StatusCode: http.StatusServiceUnavailable}
	assert.True(t, transient(unavailable))
}

type fakeNetError struct {
	timeout bool
}

func (e *fakeNetError) Error() string   { return "dial tcp: network trouble" }
func (e *fakeNetError) Timeout() bool   { return e.timeout }
func (e *fakeNetError) Temporary() bool { return false }

func TestTransientNetErrorTimeoutOnly(t *testing.T) {
	t.Parallel()

	assert.True(t, transient(&fakeNetError{timeout: true}))
	assert.False(t, transient(&fakeNetError{timeout: false}))
}

func TestRetryStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "succeeded", StateSucceeded.String())
	assert.Equal(t, "exhausted", StateExhausted.String())
	assert.Equal(t, "permanent", StatePermanentFailure.String())
	assert.Equal(t, "canceled", StateCanceled.String())
}
