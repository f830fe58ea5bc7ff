// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package collector

import (
	"sort"
	"sync"
)

// FailureScope identifies the level of the hierarchy a failure applies to.
type FailureScope string

const (
	// ScopeSubscription marks a failure listing resource groups in a subscription.
	ScopeSubscription FailureScope = "subscription"
	// ScopeResourceGroup marks a failure listing resources in a resource group.
	ScopeResourceGroup FailureScope = "resource_group"
)

// Failure is a scoped collection failure that survived retry.
// Failures are recorded, not raised: collection of sibling scopes continues.
type Failure struct {
	Scope          FailureScope `json:"scope" yaml:"scope"`
	SubscriptionID string       `json:"subscription_id" yaml:"subscription_id"`
	ResourceGroup  string       `json:"resource_group,omitempty" yaml:"resource_group,omitempty"`
	Message        string       `json:"message" yaml:"message"`
	Attempts       int          `json:"attempts" yaml:"attempts"`
}

// report is the append-only failure accumulator shared by collection workers.
// Entries are never mutated after being appended.
type report struct {
	mu       sync.Mutex
	failures []Failure
}

func (r *report) add(f Failure) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, f)
}

// list returns the recorded failures sorted by scope path so that output
// never depends on completion order.
func (r *report) list() []Failure {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Failure, len(r.failures))
	copy(out, r.failures)
	sort.Slice(out, func(i, j int) bool {
		if out[i].SubscriptionID != out[j].SubscriptionID {
			return out[i].SubscriptionID < out[j].SubscriptionID
		}
		return out[i].ResourceGroup < out[j].ResourceGroup
	})
	return out
}
