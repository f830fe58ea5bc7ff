// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package azresourcedocs discovers Azure resources across subscriptions and
// renders them as a browsable documentation set.
//
// The pipeline has four stages: the collector walks the subscription,
// resource group, resource hierarchy with bounded concurrency and retries;
// the normalizer reduces raw ARM payloads to stable, ordered records; the
// document tree builder arranges the records into a deterministic set of
// pages; and the renderer serializes each page as markdown, JSON or YAML.
//
// Partial failure is a first-class outcome: scopes that cannot be collected
// are reported in the rendered output rather than aborting the run.
package azresourcedocs
