// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package collector traverses the Azure resource hierarchy for a set of
// subscriptions: resource groups per subscription, then resources per
// resource group, exhausting every page at both levels.
//
// Listings fan out concurrently under a configurable in-flight limit.
// Each remote call runs through an explicit retry state machine: transient
// failures (throttling, timeouts, 5xx) are retried with exponential backoff
// and full jitter, permanent failures (authorization, not-found) are not.
// A failure that survives retry is recorded against its scope in the
// failure report instead of aborting the run; only cancellation of the
// supplied context stops collection early.
package collector
