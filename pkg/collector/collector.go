// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package collector

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/Azure/azresourcedocs/pkg/azure"
	"golang.org/x/sync/errgroup"
)

const defaultParallelism = 10

// Options configure a Collector.
type Options struct {
	Parallelism int // Parallelism bounds the number of in-flight ARM requests.
	Retry       RetryPolicy
}

// Collector walks the subscription, resource group, resource hierarchy.
type Collector struct {
	api  azure.API
	opts Options
}

// Result is the outcome of one collection run. Slices are sorted by ID so
// identical inputs produce identical results regardless of fetch order.
type Result struct {
	Subscriptions []azure.Subscription
	Groups        []azure.ResourceGroup
	Resources     []azure.RawResource
	Failures      []Failure
}

// New creates a Collector over the given API surface.
// A nil opts selects the defaults: parallelism 10 and DefaultRetryPolicy.
func New(api azure.API, opts *Options) *Collector {
	o := Options{
		Parallelism: defaultParallelism,
		Retry:       DefaultRetryPolicy(),
	}
	if opts != nil {
		if opts.Parallelism > 0 {
			o.Parallelism = opts.Parallelism
		}
		if opts.Retry != (RetryPolicy{}) {
			o.Retry = opts.Retry
		}
	}
	return &Collector{api: api, opts: o}
}

// Collect enumerates subscriptions and fetches their resource hierarchy.
// When subscriptionIDs is non-empty, only those subscriptions are traversed.
// Scoped failures are recorded in the result, never returned; the returned
// error is non-nil only for enumeration failure or context cancellation, in
// which case any partially collected data is discarded.
func (c *Collector) Collect(ctx context.Context, subscriptionIDs []string) (*Result, error) {
	subs, err := c.enumerate(ctx, subscriptionIDs)
	if err != nil {
		return nil, err
	}

	rep := &report{}
	groups, err := c.collectGroups(ctx, subs, rep)
	if err != nil {
		return nil, err
	}
	resources, err := c.collectResources(ctx, groups, rep)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{
		Subscriptions: subs,
		Groups:        groups,
		Resources:     resources,
		Failures:      rep.list(),
	}
	sortResult(res)
	return res, nil
}

// enumerate drains the subscriptions pager and applies the optional filter.
// Failure here is fatal: without roots there is nothing to traverse.
func (c *Collector) enumerate(ctx context.Context, subscriptionIDs []string) ([]azure.Subscription, error) {
	var subs []azure.Subscription
	pager := c.api.Subscriptions()
	for pager.More() {
		var page []azure.Subscription
		rr := c.opts.Retry.Do(ctx, func(ctx context.Context) error {
			var err error
			page, err = pager.NextPage(ctx)
			return err
		})
		if rr.State != StateSucceeded {
			return nil, fmt.Errorf("collector: listing subscriptions (%s after %d attempts): %w", rr.State, rr.Attempts, rr.Err)
		}
		subs = append(subs, page...)
	}
	if len(subscriptionIDs) == 0 {
		return subs, nil
	}
	wanted := make(map[string]struct{}, len(subscriptionIDs))
	for _, id := range subscriptionIDs {
		wanted[id] = struct{}{}
	}
	filtered := make([]azure.Subscription, 0, len(subscriptionIDs))
	for _, s := range subs {
		if _, ok := wanted[s.ID]; ok {
			filtered = append(filtered, s)
			delete(wanted, s.ID)
		}
	}
	// Requested subscriptions the credential cannot see still get a
	// traversal root so their absence is visible in the output.
	for id := range wanted {
		filtered = append(filtered, azure.Subscription{ID: id, DisplayName: id})
	}
	return filtered, nil
}

// collectGroups lists resource groups across all subscriptions concurrently.
func (c *Collector) collectGroups(ctx context.Context, subs []azure.Subscription, rep *report) ([]azure.ResourceGroup, error) {
	var (
		mu     sync.Mutex
		groups []azure.ResourceGroup
	)
	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(c.opts.Parallelism)
	for _, sub := range subs {
		sub := sub
		grp.Go(func() error {
			pager := c.api.ResourceGroups(sub.ID)
			var collected []azure.ResourceGroup
			for pager.More() {
				var page []azure.ResourceGroup
				rr := c.opts.Retry.Do(ctx, func(ctx context.Context) error {
					var err error
					page, err = pager.NextPage(ctx)
					return err
				})
				switch rr.State {
				case StateSucceeded:
					collected = append(collected, page...)
				case StateCanceled:
					return rr.Err
				default:
					slog.Warn("resource group listing failed",
						slog.String("subscription", sub.ID),
						slog.String("state", rr.State.String()),
						slog.Int("attempts", rr.Attempts))
					rep.add(Failure{
						Scope:          ScopeSubscription,
						SubscriptionID: sub.ID,
						Message:        rr.Err.Error(),
						Attempts:       rr.Attempts,
					})
					return nil
				}
			}
			mu.Lock()
			groups = append(groups, collected...)
			mu.Unlock()
			slog.Debug("collected resource groups", slog.String("subscription", sub.ID), slog.Int("count", len(collected)))
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return groups, nil
}

// collectResources lists resources across all resource groups concurrently,
// enriching known types with detail payloads.
func (c *Collector) collectResources(ctx context.Context, groups []azure.ResourceGroup, rep *report) ([]azure.RawResource, error) {
	var (
		mu        sync.Mutex
		resources []azure.RawResource
	)
	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(c.opts.Parallelism)
	for _, rg := range groups {
		rg := rg
		grp.Go(func() error {
			pager := c.api.Resources(rg.SubscriptionID, rg.Name)
			var collected []azure.RawResource
			for pager.More() {
				var page []azure.RawResource
				rr := c.opts.Retry.Do(ctx, func(ctx context.Context) error {
					var err error
					page, err = pager.NextPage(ctx)
					return err
				})
				switch rr.State {
				case StateSucceeded:
					collected = append(collected, page...)
				case StateCanceled:
					return rr.Err
				default:
					slog.Warn("resource listing failed",
						slog.String("subscription", rg.SubscriptionID),
						slog.String("resourceGroup", rg.Name),
						slog.String("state", rr.State.String()),
						slog.Int("attempts", rr.Attempts))
					rep.add(Failure{
						Scope:          ScopeResourceGroup,
						SubscriptionID: rg.SubscriptionID,
						ResourceGroup:  rg.Name,
						Message:        rr.Err.Error(),
						Attempts:       rr.Attempts,
					})
					return nil
				}
			}
			for i := range collected {
				if err := c.enrich(ctx, &collected[i]); err != nil {
					return err
				}
			}
			mu.Lock()
			resources = append(resources, collected...)
			mu.Unlock()
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return resources, nil
}

// enrich fetches type-specific details. Enrichment failure is not a scoped
// failure: the resource keeps its listing payload and documentation notes
// the gap through unknown markers downstream.
func (c *Collector) enrich(ctx context.Context, res *azure.RawResource) error {
	rr := c.opts.Retry.Do(ctx, func(ctx context.Context) error {
		return c.api.Enrich(ctx, res)
	})
	switch rr.State {
	case StateSucceeded:
		return nil
	case StateCanceled:
		return rr.Err
	default:
		slog.Warn("could not fetch resource details",
			slog.String("resource", res.ID),
			slog.String("state", rr.State.String()))
		return nil
	}
}

func sortResult(res *Result) {
	sort.Slice(res.Subscriptions, func(i, j int) bool {
		return res.Subscriptions[i].ID < res.Subscriptions[j].ID
	})
	sort.Slice(res.Groups, func(i, j int) bool {
		return res.Groups[i].ID < res.Groups[j].ID
	})
	sort.Slice(res.Resources, func(i, j int) bool {
		return res.Resources[i].ID < res.Resources[j].ID
	})
}
