// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
)

// Tenant is an Entra tenant visible to the credential.
type Tenant struct {
	ID          string `json:"id" yaml:"id"`
	DisplayName string `json:"display_name" yaml:"display_name"`
}

// Subscription is the root of a traversal. Created at enumeration time and
// immutable thereafter.
type Subscription struct {
	ID          string `json:"id" yaml:"id"`
	DisplayName string `json:"display_name" yaml:"display_name"`
}

// ResourceGroup is a logical container of resources owned by exactly one
// subscription.
type ResourceGroup struct {
	ID             string `json:"id" yaml:"id"`
	Name           string `json:"name" yaml:"name"`
	SubscriptionID string `json:"subscription_id" yaml:"subscription_id"`
	Location       string `json:"location" yaml:"location"`
}

// RawResource is a provider resource payload before normalization.
// Payload holds the resource-specific properties as JSON; for known types it
// is populated by detail enrichment, for everything else it carries whatever
// the list call returned.
type RawResource struct {
	ID             string            `json:"id" yaml:"id"`
	Name           string            `json:"name" yaml:"name"`
	Type           string            `json:"type" yaml:"type"`
	SubscriptionID string            `json:"subscription_id" yaml:"subscription_id"`
	ResourceGroup  string            `json:"resource_group" yaml:"resource_group"`
	Location       string            `json:"location" yaml:"location"`
	Tags           map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
	APIVersion     string            `json:"api_version,omitempty" yaml:"api_version,omitempty"`
	Payload        []byte            `json:"payload,omitempty" yaml:"payload,omitempty"`
}

// Pager yields successive pages of items. It mirrors the shape of the SDK's
// runtime pagers so that fakes are trivial to construct in tests.
type Pager[T any] interface {
	// More reports whether further pages are available.
	More() bool
	// NextPage fetches the next page of items.
	NextPage(ctx context.Context) ([]T, error)
}

// API is the surface the collector traverses. ClientFactory implements it
// against ARM; tests implement it with fakes.
type API interface {
	// Tenants lists the tenants visible to the credential.
	Tenants() Pager[Tenant]
	// Subscriptions lists the subscriptions visible to the credential.
	Subscriptions() Pager[Subscription]
	// ResourceGroups lists the resource groups in a subscription.
	ResourceGroups(subscriptionID string) Pager[ResourceGroup]
	// Resources lists the resources in a resource group.
	Resources(subscriptionID, resourceGroup string) Pager[RawResource]
	// Enrich fetches type-specific details for a resource and replaces its
	// Payload. Resources of types without a detail fetcher are left as-is.
	Enrich(ctx context.Context, res *RawResource) error
}

// ParseOwner extracts the subscription ID and resource group name from an
// ARM resource ID.
func ParseOwner(resourceID string) (subscriptionID, resourceGroup string, err error) {
	rid, err := arm.ParseResourceID(resourceID)
	if err != nil {
		return "", "", fmt.Errorf("azure.ParseOwner: invalid resource id %q: %w", resourceID, err)
	}
	return rid.SubscriptionID, rid.ResourceGroupName, nil
}
