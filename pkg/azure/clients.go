// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package azure

import (
	"context"
	"fmt"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armsubscriptions"
	"github.com/Azure/azresourcedocs/to"
)

var _ API = (*ClientFactory)(nil)

// ClientFactory implements API against the Azure resource manager.
// SDK clients are created lazily per subscription and cached.
type ClientFactory struct {
	cred    azcore.TokenCredential
	options *arm.ClientOptions

	mu             sync.Mutex
	subsClient     *armsubscriptions.Client
	tenantsClient  *armsubscriptions.TenantsClient
	groupClients   map[string]*armresources.ResourceGroupsClient
	resClients     map[string]*armresources.Client
	detailFetchers map[string]detailFetcher
}

// NewClientFactory creates a ClientFactory using the supplied credential.
// The SDK's built-in HTTP retry is disabled; the collector owns retries.
func NewClientFactory(cred azcore.TokenCredential) *ClientFactory {
	cf := &ClientFactory{
		cred: cred,
		options: &arm.ClientOptions{
			ClientOptions: azcore.ClientOptions{
				Retry: policy.RetryOptions{
					MaxRetries: -1,
				},
			},
		},
		groupClients: make(map[string]*armresources.ResourceGroupsClient),
		resClients:   make(map[string]*armresources.Client),
	}
	cf.detailFetchers = defaultDetailFetchers(cf)
	return cf
}

// Tenants implements API.
func (cf *ClientFactory) Tenants() Pager[Tenant] {
	client, err := cf.tenants()
	if err != nil {
		return &errPager[Tenant]{err: err}
	}
	pager := client.NewListPager(nil)
	return pagerFunc[Tenant](func(ctx context.Context) ([]Tenant, bool, error) {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, false, err
		}
		out := make([]Tenant, 0, len(page.Value))
		for _, t := range page.Value {
			out = append(out, Tenant{
				ID:          to.ValOrZero(t.TenantID),
				DisplayName: to.ValOrZero(t.DisplayName),
			})
		}
		return out, pager.More(), nil
	})
}

// Subscriptions implements API.
func (cf *ClientFactory) Subscriptions() Pager[Subscription] {
	client, err := cf.subscriptions()
	if err != nil {
		return &errPager[Subscription]{err: err}
	}
	pager := client.NewListPager(nil)
	return pagerFunc[Subscription](func(ctx context.Context) ([]Subscription, bool, error) {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, false, err
		}
		out := make([]Subscription, 0, len(page.Value))
		for _, s := range page.Value {
			out = append(out, Subscription{
				ID:          to.ValOrZero(s.SubscriptionID),
				DisplayName: to.ValOrZero(s.DisplayName),
			})
		}
		return out, pager.More(), nil
	})
}

// ResourceGroups implements API.
func (cf *ClientFactory) ResourceGroups(subscriptionID string) Pager[ResourceGroup] {
	client, err := cf.resourceGroups(subscriptionID)
	if err != nil {
		return &errPager[ResourceGroup]{err: err}
	}
	pager := client.NewListPager(nil)
	return pagerFunc[ResourceGroup](func(ctx context.Context) ([]ResourceGroup, bool, error) {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, false, err
		}
		out := make([]ResourceGroup, 0, len(page.Value))
		for _, rg := range page.Value {
			out = append(out, ResourceGroup{
				ID:             to.ValOrZero(rg.ID),
				Name:           to.ValOrZero(rg.Name),
				SubscriptionID: subscriptionID,
				Location:       to.ValOrZero(rg.Location),
			})
		}
		return out, pager.More(), nil
	})
}

// Resources implements API.
func (cf *ClientFactory) Resources(subscriptionID, resourceGroup string) Pager[RawResource] {
	client, err := cf.resources(subscriptionID)
	if err != nil {
		return &errPager[RawResource]{err: err}
	}
	pager := client.NewListByResourceGroupPager(resourceGroup, nil)
	return pagerFunc[RawResource](func(ctx context.Context) ([]RawResource, bool, error) {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, false, err
		}
		out := make([]RawResource, 0, len(page.Value))
		for _, res := range page.Value {
			out = append(out, convertResource(subscriptionID, resourceGroup, res))
		}
		return out, pager.More(), nil
	})
}

func convertResource(subscriptionID, resourceGroup string, res *armresources.GenericResourceExpanded) RawResource {
	// The resource ID is authoritative for ownership; the listing scope is
	// the fallback when the ID is missing or malformed.
	if sub, rg, err := ParseOwner(to.ValOrZero(res.ID)); err == nil {
		subscriptionID, resourceGroup = sub, rg
	}
	tags := make(map[string]string, len(res.Tags))
	for k, v := range res.Tags {
		tags[k] = to.ValOrZero(v)
	}
	if len(tags) == 0 {
		tags = nil
	}
	return RawResource{
		ID:             to.ValOrZero(res.ID),
		Name:           to.ValOrZero(res.Name),
		Type:           to.ValOrZero(res.Type),
		SubscriptionID: subscriptionID,
		ResourceGroup:  resourceGroup,
		Location:       to.ValOrZero(res.Location),
		Tags:           tags,
	}
}

func (cf *ClientFactory) tenants() (*armsubscriptions.TenantsClient, error) {
	cf.mu.Lock()
	defer cf.mu.Unlock()
	if cf.tenantsClient != nil {
		return cf.tenantsClient, nil
	}
	client, err := armsubscriptions.NewTenantsClient(cf.cred, cf.options)
	if err != nil {
		return nil, fmt.Errorf("azure: failed to create tenants client: %w", err)
	}
	cf.tenantsClient = client
	return client, nil
}

func (cf *ClientFactory) subscriptions() (*armsubscriptions.Client, error) {
	cf.mu.Lock()
	defer cf.mu.Unlock()
	if cf.subsClient != nil {
		return cf.subsClient, nil
	}
	client, err := armsubscriptions.NewClient(cf.cred, cf.options)
	if err != nil {
		return nil, fmt.Errorf("azure: failed to create subscriptions client: %w", err)
	}
	cf.subsClient = client
	return client, nil
}

func (cf *ClientFactory) resourceGroups(subscriptionID string) (*armresources.ResourceGroupsClient, error) {
	cf.mu.Lock()
	defer cf.mu.Unlock()
	if client, ok := cf.groupClients[subscriptionID]; ok {
		return client, nil
	}
	client, err := armresources.NewResourceGroupsClient(subscriptionID, cf.cred, cf.options)
	if err != nil {
		return nil, fmt.Errorf("azure: failed to create resource groups client for %s: %w", subscriptionID, err)
	}
	cf.groupClients[subscriptionID] = client
	return client, nil
}

func (cf *ClientFactory) resources(subscriptionID string) (*armresources.Client, error) {
	cf.mu.Lock()
	defer cf.mu.Unlock()
	if client, ok := cf.resClients[subscriptionID]; ok {
		return client, nil
	}
	client, err := armresources.NewClient(subscriptionID, cf.cred, cf.options)
	if err != nil {
		return nil, fmt.Errorf("azure: failed to create resources client for %s: %w", subscriptionID, err)
	}
	cf.resClients[subscriptionID] = client
	return client, nil
}

// funcPager adapts a page-fetching closure to the Pager interface.
// The closure reports whether more pages remain after the returned one.
type funcPager[T any] struct {
	fetch func(ctx context.Context) ([]T, bool, error)
	done  bool
}

func pagerFunc[T any](fetch func(ctx context.Context) ([]T, bool, error)) Pager[T] {
	return &funcPager[T]{fetch: fetch}
}

func (p *funcPager[T]) More() bool {
	return !p.done
}

func (p *funcPager[T]) NextPage(ctx context.Context) ([]T, error) {
	items, more, err := p.fetch(ctx)
	if err != nil {
		return nil, err
	}
	p.done = !more
	return items, nil
}

// errPager is a Pager that fails on first use; it defers client construction
// errors to collection time so they are recorded as scoped failures.
type errPager[T any] struct {
	err error
}

func (p *errPager[T]) More() bool { return true }

func (p *errPager[T]) NextPage(context.Context) ([]T, error) { return nil, p.err }
