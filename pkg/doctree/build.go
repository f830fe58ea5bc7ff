// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package doctree

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Azure/azresourcedocs/pkg/azure"
	"github.com/Azure/azresourcedocs/pkg/collector"
	"github.com/Azure/azresourcedocs/pkg/normalize"
	mapset "github.com/deckarep/golang-set/v2"
)

// Snapshot is the complete, immutable input to a build: everything one
// collection run produced.
type Snapshot struct {
	Subscriptions []azure.Subscription       `json:"subscriptions" yaml:"subscriptions"`
	Groups        []azure.ResourceGroup      `json:"resource_groups" yaml:"resource_groups"`
	Records       []normalize.ResourceRecord `json:"resources" yaml:"resources"`
	Failures      []collector.Failure        `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// Build assembles the document tree for a snapshot. It returns an error
// only for invariant violations (duplicate IDs, records owned by scopes the
// snapshot does not contain); scoped collection failures are data, not
// errors, and are woven into the index and overview nodes.
func Build(s *Snapshot) (*Tree, error) {
	if err := checkInvariants(s); err != nil {
		return nil, err
	}

	subs := make([]azure.Subscription, len(s.Subscriptions))
	copy(subs, s.Subscriptions)
	sort.Slice(subs, func(i, j int) bool {
		if subs[i].DisplayName != subs[j].DisplayName {
			return subs[i].DisplayName < subs[j].DisplayName
		}
		return subs[i].ID < subs[j].ID
	})

	groupsBySub := make(map[string][]azure.ResourceGroup)
	for _, g := range s.Groups {
		groupsBySub[g.SubscriptionID] = append(groupsBySub[g.SubscriptionID], g)
	}
	for _, gs := range groupsBySub {
		sort.Slice(gs, func(i, j int) bool {
			if gs[i].Name != gs[j].Name {
				return gs[i].Name < gs[j].Name
			}
			return gs[i].ID < gs[j].ID
		})
	}

	recordsByGroup := make(map[string][]normalize.ResourceRecord)
	for _, r := range s.Records {
		key := r.SubscriptionID + "/" + r.ResourceGroup
		recordsByGroup[key] = append(recordsByGroup[key], r)
	}

	tree := &Tree{Failed: len(s.Failures) > 0}

	index := &IndexContent{Failures: s.Failures}
	indexNode := &Node{
		Path:  "docs/index",
		Title: "Azure Resources Documentation",
		Kind:  KindIndex,
		Index: index,
	}
	indexNode.ID = nodeID(indexNode.Path)
	tree.Nodes = append(tree.Nodes, indexNode)

	for _, sub := range subs {
		subPath := fmt.Sprintf("docs/%s/overview", sub.ID)
		index.Subscriptions = append(index.Subscriptions, SubscriptionRef{
			ID:          sub.ID,
			DisplayName: sub.DisplayName,
			Path:        subPath,
		})

		subContent := &SubscriptionContent{
			Subscription: sub,
			Failures:     failuresFor(s.Failures, sub.ID),
		}
		subNode := &Node{
			ID:           nodeID(subPath),
			Path:         subPath,
			Title:        fmt.Sprintf("Subscription Overview: %s", sub.DisplayName),
			Kind:         KindSubscriptionOverview,
			Subscription: subContent,
		}
		tree.Nodes = append(tree.Nodes, subNode)

		for _, rg := range groupsBySub[sub.ID] {
			records := recordsByGroup[sub.ID+"/"+rg.Name]
			rgPath := fmt.Sprintf("docs/%s/%s/overview", sub.ID, rg.Name)
			subContent.Groups = append(subContent.Groups, GroupRef{
				Name:          rg.Name,
				Location:      rg.Location,
				Path:          rgPath,
				ResourceCount: len(records),
			})

			groupContent := &GroupContent{
				ResourceGroup:    rg,
				SubscriptionName: sub.DisplayName,
			}
			rgNode := &Node{
				ID:    nodeID(rgPath),
				Path:  rgPath,
				Title: fmt.Sprintf("Resource Group: %s", rg.Name),
				Kind:  KindResourceGroupOverview,
				Group: groupContent,
			}
			tree.Nodes = append(tree.Nodes, rgNode)

			usedNames := mapset.NewThreadUnsafeSet[string]()
			for _, tl := range typeListings(records) {
				fileName := typeFileName(tl.Type)
				if !usedNames.Add(fileName) {
					// two providers sharing a trailing type segment;
					// fall back to the full type for the later one
					fileName = fullTypeFileName(tl.Type)
				}
				listPath := fmt.Sprintf("docs/%s/%s/%s", sub.ID, rg.Name, fileName)
				groupContent.Types = append(groupContent.Types, TypeRef{
					Type:      tl.Type,
					ShortName: tl.ShortName,
					Count:     len(tl.Records),
					Path:      listPath,
				})
				listNode := &Node{
					ID:      nodeID(listPath),
					Path:    listPath,
					Title:   tl.ShortName,
					Kind:    KindResourceTypeListing,
					Listing: tl,
				}
				tree.Nodes = append(tree.Nodes, listNode)
			}
		}
	}

	tree.Nodes = append(tree.Nodes, consolidatedNode(subs, s.Records), summaryNode(s.Records))
	return tree, nil
}

// typeListings partitions a resource group's records into per-type listings,
// types sorted lexically, records sorted by name within each type.
func typeListings(records []normalize.ResourceRecord) []*ListingContent {
	byType := make(map[string][]normalize.ResourceRecord)
	for _, r := range records {
		byType[r.Type] = append(byType[r.Type], r)
	}
	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Strings(types)

	out := make([]*ListingContent, 0, len(types))
	for _, t := range types {
		recs := byType[t]
		sort.Slice(recs, func(i, j int) bool {
			if recs[i].Name != recs[j].Name {
				return recs[i].Name < recs[j].Name
			}
			return recs[i].ID < recs[j].ID
		})
		out = append(out, &ListingContent{
			Type:      t,
			ShortName: shortTypeName(t),
			Records:   recs,
		})
	}
	return out
}

// consolidatedNode builds the cross-subscription by-type view.
func consolidatedNode(subs []azure.Subscription, records []normalize.ResourceRecord) *Node {
	names := make(map[string]string, len(subs))
	for _, s := range subs {
		names[s.ID] = s.DisplayName
	}

	byType := make(map[string][]ConsolidatedRecord)
	for _, r := range records {
		byType[r.Type] = append(byType[r.Type], ConsolidatedRecord{
			SubscriptionName: names[r.SubscriptionID],
			ResourceRecord:   r,
		})
	}
	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Strings(types)

	content := &ConsolidatedContent{}
	for _, t := range types {
		recs := byType[t]
		sort.Slice(recs, func(i, j int) bool {
			a, b := recs[i], recs[j]
			if a.SubscriptionName != b.SubscriptionName {
				return a.SubscriptionName < b.SubscriptionName
			}
			if a.ResourceGroup != b.ResourceGroup {
				return a.ResourceGroup < b.ResourceGroup
			}
			if a.Name != b.Name {
				return a.Name < b.Name
			}
			return a.ID < b.ID
		})
		content.Types = append(content.Types, ConsolidatedType{
			Type:      t,
			ShortName: shortTypeName(t),
			Records:   recs,
		})
	}

	n := &Node{
		Path:         "consolidated/resources_by_type",
		Title:        "Consolidated Azure Resources by Type",
		Kind:         KindConsolidatedByType,
		Consolidated: content,
	}
	n.ID = nodeID(n.Path)
	return n
}

// summaryNode builds the per-type count table.
func summaryNode(records []normalize.ResourceRecord) *Node {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Type]++
	}
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)

	content := &SummaryContent{}
	for _, t := range types {
		content.Rows = append(content.Rows, SummaryRow{Type: t, Count: counts[t]})
		content.Total += counts[t]
	}

	n := &Node{
		Path:    "consolidated/resource_type_summary",
		Title:   "Azure Resource Type Summary",
		Kind:    KindTypeSummary,
		Summary: content,
	}
	n.ID = nodeID(n.Path)
	return n
}

// checkInvariants verifies the collection-layer contract: globally unique
// IDs per entity kind and complete ownership chains.
func checkInvariants(s *Snapshot) error {
	subIDs := mapset.NewThreadUnsafeSet[string]()
	for _, sub := range s.Subscriptions {
		if !subIDs.Add(sub.ID) {
			return NewErrDuplicateID("subscription", sub.ID)
		}
	}
	groupIDs := mapset.NewThreadUnsafeSet[string]()
	groupNames := mapset.NewThreadUnsafeSet[string]()
	for _, g := range s.Groups {
		if !groupIDs.Add(g.ID) {
			return NewErrDuplicateID("resource group", g.ID)
		}
		groupNames.Add(g.SubscriptionID + "/" + g.Name)
		if !subIDs.Contains(g.SubscriptionID) {
			return NewErrUnknownOwner(g.ID, g.SubscriptionID)
		}
	}
	recordIDs := mapset.NewThreadUnsafeSet[string]()
	for _, r := range s.Records {
		if !recordIDs.Add(r.ID) {
			return NewErrDuplicateID("resource", r.ID)
		}
		if !subIDs.Contains(r.SubscriptionID) {
			return NewErrUnknownOwner(r.ID, r.SubscriptionID)
		}
		if !groupNames.Contains(r.SubscriptionID + "/" + r.ResourceGroup) {
			return NewErrUnknownOwner(r.ID, r.SubscriptionID+"/"+r.ResourceGroup)
		}
	}
	return nil
}

// failuresFor filters the report down to one subscription's scope.
func failuresFor(failures []collector.Failure, subscriptionID string) []collector.Failure {
	var out []collector.Failure
	for _, f := range failures {
		if f.SubscriptionID == subscriptionID {
			out = append(out, f)
		}
	}
	return out
}

// typeFileName converts an ARM type to a path segment, keeping the short
// name the original tooling used but avoiding separators hostile to paths.
func typeFileName(resourceType string) string {
	short := shortTypeName(resourceType)
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '_'
		}
		return r
	}, short)
}

// fullTypeFileName sanitizes a complete ARM type into a path segment.
func fullTypeFileName(resourceType string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '.':
			return '_'
		}
		return r
	}, resourceType)
}
