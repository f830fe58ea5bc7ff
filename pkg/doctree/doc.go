// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package doctree assembles normalized collection results into the
// hierarchical document model that rendering walks.
//
// The tree mirrors the resource hierarchy: a root index node, one overview
// node per subscription, one per resource group, and one listing node per
// distinct resource type within a group, plus consolidated cross-subscription
// views. Building is a pure function of the snapshot; every level is sorted
// deterministically so identical input always produces an identical tree,
// regardless of the order collection completed in.
//
// Duplicate IDs or records that reference a subscription or resource group
// absent from the snapshot are contract breaches by the collection layer and
// abort the build.
package doctree
