// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package azresourcedocs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Azure/azresourcedocs/internal/environment"
	"github.com/Azure/azresourcedocs/pkg/azure"
	"github.com/Azure/azresourcedocs/pkg/collector"
	"github.com/Azure/azresourcedocs/pkg/doctree"
	"github.com/Azure/azresourcedocs/pkg/export"
	"github.com/Azure/azresourcedocs/pkg/normalize"
	"github.com/Azure/azresourcedocs/pkg/render"
)

// Options configure a Generator.
type Options struct {
	// Parallelism bounds concurrent ARM requests during collection.
	Parallelism int
	// Retry is the policy applied to each listing call.
	Retry collector.RetryPolicy
	// Registry supplies extraction rules. Nil selects the embedded defaults.
	Registry *normalize.Registry
	// Clock supplies the run timestamp. Nil selects time.Now.
	Clock func() time.Time
}

// EnvOptions returns Options populated from the process environment.
func EnvOptions() *Options {
	retry := collector.DefaultRetryPolicy()
	retry.MaxRetries = environment.MaxRetries()
	return &Options{
		Parallelism: environment.Parallelism(),
		Retry:       retry,
	}
}

// Generator runs the full pipeline: collect, normalize, build, render.
type Generator struct {
	collector  *collector.Collector
	normalizer *normalize.Normalizer
	clock      func() time.Time
}

// NewGenerator creates a Generator over the given API surface. A nil opts
// selects EnvOptions.
func NewGenerator(api azure.API, opts *Options) *Generator {
	if opts == nil {
		opts = EnvOptions()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Generator{
		collector: collector.New(api, &collector.Options{
			Parallelism: opts.Parallelism,
			Retry:       opts.Retry,
		}),
		normalizer: normalize.New(opts.Registry),
		clock:      clock,
	}
}

// Snapshot collects and normalizes the resource hierarchy. When
// subscriptionIDs is non-empty, only those subscriptions are documented.
// Scoped collection failures are recorded in the snapshot; an error is
// returned only when subscription enumeration itself fails.
func (g *Generator) Snapshot(ctx context.Context, subscriptionIDs []string) (*doctree.Snapshot, error) {
	result, err := g.collector.Collect(ctx, subscriptionIDs)
	if err != nil {
		return nil, fmt.Errorf("azresourcedocs.Snapshot: %w", err)
	}
	slog.Info("collection complete",
		slog.Int("subscriptions", len(result.Subscriptions)),
		slog.Int("resourceGroups", len(result.Groups)),
		slog.Int("resources", len(result.Resources)),
		slog.Int("failures", len(result.Failures)))
	return &doctree.Snapshot{
		Subscriptions: result.Subscriptions,
		Groups:        result.Groups,
		Records:       g.normalizer.Records(result.Resources),
		Failures:      result.Failures,
	}, nil
}

// Documents builds the document tree for a snapshot and renders it in the
// given format.
func (g *Generator) Documents(s *doctree.Snapshot, format render.Format) ([]render.Doc, error) {
	tree, err := doctree.Build(s)
	if err != nil {
		return nil, fmt.Errorf("azresourcedocs.Documents: %w", err)
	}
	docs, err := render.Render(tree, format)
	if err != nil {
		return nil, fmt.Errorf("azresourcedocs.Documents: %w", err)
	}
	return docs, nil
}

// Archive wraps a snapshot for data export, stamped with the generator's
// clock.
func (g *Generator) Archive(s *doctree.Snapshot) *export.Archive {
	return export.New(s, g.clock())
}
