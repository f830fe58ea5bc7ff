// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package doctree

import (
	"strings"

	"github.com/Azure/azresourcedocs/pkg/azure"
	"github.com/Azure/azresourcedocs/pkg/collector"
	"github.com/Azure/azresourcedocs/pkg/normalize"
	"github.com/google/uuid"
)

// Kind discriminates the content carried by a Node.
type Kind string

const (
	KindIndex                 Kind = "index"
	KindSubscriptionOverview  Kind = "subscription_overview"
	KindResourceGroupOverview Kind = "resource_group_overview"
	KindResourceTypeListing   Kind = "resource_type_listing"
	KindConsolidatedByType    Kind = "consolidated_by_type"
	KindTypeSummary           Kind = "type_summary"
)

// Node is one document in the tree. Path is the output-relative location
// without a format extension; the renderer appends one. Exactly one of the
// content pointers matching Kind is non-nil. Nodes are never mutated after
// Build returns.
type Node struct {
	ID    string `json:"id" yaml:"id"`
	Path  string `json:"path" yaml:"path"`
	Title string `json:"title" yaml:"title"`
	Kind  Kind   `json:"kind" yaml:"kind"`

	Index        *IndexContent        `json:"index,omitempty" yaml:"index,omitempty"`
	Subscription *SubscriptionContent `json:"subscription,omitempty" yaml:"subscription,omitempty"`
	Group        *GroupContent        `json:"resource_group,omitempty" yaml:"resource_group,omitempty"`
	Listing      *ListingContent      `json:"listing,omitempty" yaml:"listing,omitempty"`
	Consolidated *ConsolidatedContent `json:"consolidated,omitempty" yaml:"consolidated,omitempty"`
	Summary      *SummaryContent      `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// SubscriptionRef is a link to a subscription overview node.
type SubscriptionRef struct {
	ID          string `json:"id" yaml:"id"`
	DisplayName string `json:"display_name" yaml:"display_name"`
	Path        string `json:"path" yaml:"path"`
}

// GroupRef is a link to a resource group overview node.
type GroupRef struct {
	Name          string `json:"name" yaml:"name"`
	Location      string `json:"location" yaml:"location"`
	Path          string `json:"path" yaml:"path"`
	ResourceCount int    `json:"resource_count" yaml:"resource_count"`
}

// TypeRef is a link to a resource type listing node.
type TypeRef struct {
	Type      string `json:"type" yaml:"type"`
	ShortName string `json:"short_name" yaml:"short_name"`
	Count     int    `json:"count" yaml:"count"`
	Path      string `json:"path" yaml:"path"`
}

// IndexContent is the root index: all subscriptions plus the run's failure
// report.
type IndexContent struct {
	Subscriptions []SubscriptionRef   `json:"subscriptions" yaml:"subscriptions"`
	Failures      []collector.Failure `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// SubscriptionContent is a subscription overview: its resource groups and
// any failures recorded within its scope.
type SubscriptionContent struct {
	azure.Subscription `json:"subscription" yaml:"subscription"`
	Groups             []GroupRef          `json:"resource_groups" yaml:"resource_groups"`
	Failures           []collector.Failure `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// GroupContent is a resource group overview: the type groupings present.
type GroupContent struct {
	azure.ResourceGroup `json:"resource_group" yaml:"resource_group"`
	SubscriptionName    string    `json:"subscription_name" yaml:"subscription_name"`
	Types               []TypeRef `json:"types" yaml:"types"`
}

// ListingContent lists all records of one type within one resource group,
// sorted by resource name.
type ListingContent struct {
	Type      string                     `json:"type" yaml:"type"`
	ShortName string                     `json:"short_name" yaml:"short_name"`
	Records   []normalize.ResourceRecord `json:"records" yaml:"records"`
}

// ConsolidatedRecord is a record annotated with its subscription name for
// the cross-subscription view.
type ConsolidatedRecord struct {
	SubscriptionName         string `json:"subscription_name" yaml:"subscription_name"`
	normalize.ResourceRecord `json:"record" yaml:"record"`
}

// ConsolidatedType groups every record of one type across all subscriptions.
type ConsolidatedType struct {
	Type      string               `json:"type" yaml:"type"`
	ShortName string               `json:"short_name" yaml:"short_name"`
	Records   []ConsolidatedRecord `json:"records" yaml:"records"`
}

// ConsolidatedContent is the cross-subscription by-type view.
type ConsolidatedContent struct {
	Types []ConsolidatedType `json:"types" yaml:"types"`
}

// SummaryRow is one line of the resource type summary table.
type SummaryRow struct {
	Type  string `json:"type" yaml:"type"`
	Count int    `json:"count" yaml:"count"`
}

// SummaryContent is the per-type count table over the whole snapshot.
type SummaryContent struct {
	Rows  []SummaryRow `json:"rows" yaml:"rows"`
	Total int          `json:"total" yaml:"total"`
}

// Tree is the complete document set for one snapshot, in render order.
type Tree struct {
	Nodes []*Node `json:"nodes" yaml:"nodes"`
	// Failed reports whether the snapshot carried scoped collection
	// failures; runs with failures exit nonzero even though they render.
	Failed bool `json:"failed" yaml:"failed"`
}

// Node returns the node at the given path, or nil.
func (t *Tree) Node(path string) *Node {
	for _, n := range t.Nodes {
		if n.Path == path {
			return n
		}
	}
	return nil
}

// Paths returns every node path in render order.
func (t *Tree) Paths() []string {
	out := make([]string, len(t.Nodes))
	for i, n := range t.Nodes {
		out[i] = n.Path
	}
	return out
}

// nodeID derives a stable identifier from the node path, so repeated builds
// of the same snapshot agree on IDs.
func nodeID(path string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(path)).String()
}

// shortTypeName returns the trailing segment of an ARM type string.
func shortTypeName(resourceType string) string {
	if i := strings.LastIndex(resourceType, "/"); i >= 0 {
		return resourceType[i+1:]
	}
	return resourceType
}
