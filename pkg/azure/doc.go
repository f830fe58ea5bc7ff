// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package azure adapts the Azure resource manager SDK clients to the narrow
// surface consumed by the collector: subscription enumeration, resource group
// and resource listing pagers, and per-type detail enrichment.
//
// The package defines the API and Pager interfaces so that the traversal
// logic can be exercised in tests with fake pagers, without any network
// access. ClientFactory is the production implementation; it caches
// per-subscription SDK clients and disables the SDK's own HTTP retry so
// that the collector's retry state machine is the single retry authority.
package azure
