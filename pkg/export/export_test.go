// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Azure/azresourcedocs/pkg/azure"
	"github.com/Azure/azresourcedocs/pkg/collector"
	"github.com/Azure/azresourcedocs/pkg/doctree"
	"github.com/Azure/azresourcedocs/pkg/normalize"
	"github.com/Azure/azresourcedocs/pkg/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() *doctree.Snapshot {
	props, _ := normalize.DecodeOrdered([]byte(`{"vmSize":"Standard_D2s_v3","osType":"Linux"}`))
	return &doctree.Snapshot{
		Subscriptions: []azure.Subscription{{ID: "sub-a", DisplayName: "Alpha"}},
		Groups: []azure.ResourceGroup{
			{ID: "/subscriptions/sub-a/resourceGroups/rg1", Name: "rg1", SubscriptionID: "sub-a", Location: "westeurope"},
		},
		Records: []normalize.ResourceRecord{
			{
				ID:             "/subscriptions/sub-a/resourceGroups/rg1/providers/Microsoft.Compute/virtualMachines/vm1",
				Name:           "vm1",
				Type:           "Microsoft.Compute/virtualMachines",
				SubscriptionID: "sub-a",
				ResourceGroup:  "rg1",
				Location:       "westeurope",
				Properties:     props,
				SchemaVersion:  "2024-03-01",
			},
		},
		Failures: []collector.Failure{
			{Scope: collector.ScopeSubscription, SubscriptionID: "sub-b", Message: "listing resource groups: 403", Attempts: 1},
		},
	}
}

func TestFilename(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	a := New(testSnapshot(), at)
	assert.Equal(t, "azure_resources_20240301_120000.json", a.Filename(render.FormatJSON))
	assert.Equal(t, "azure_resources_20240301_120000.yaml", a.Filename(render.FormatYAML))
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()

	a := New(testSnapshot(), time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	data, err := a.Encode(render.FormatJSON)
	require.NoError(t, err)

	back, err := Decode(data, render.FormatJSON)
	require.NoError(t, err)

	assert.True(t, a.GeneratedAt.Equal(back.GeneratedAt))
	assert.Equal(t, a.Subscriptions, back.Subscriptions)
	assert.Equal(t, a.Groups, back.Groups)
	assert.Equal(t, a.Failures, back.Failures)
	require.Len(t, back.Records, 1)
	assert.Equal(t, a.Records[0].ID, back.Records[0].ID)
	// property order survives the round trip
	assert.Equal(t, []string{"vmSize", "osType"}, back.Records[0].Properties.Keys())
	assert.True(t, a.Records[0].Properties.Equal(back.Records[0].Properties))
}

func TestYAMLRoundTrip(t *testing.T) {
	t.Parallel()

	a := New(testSnapshot(), time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	data, err := a.Encode(render.FormatYAML)
	require.NoError(t, err)

	back, err := Decode(data, render.FormatYAML)
	require.NoError(t, err)
	require.Len(t, back.Records, 1)
	assert.Equal(t, []string{"vmSize", "osType"}, back.Records[0].Properties.Keys())

	// YAML field names stay in lockstep with the JSON archive.
	text := string(data)
	assert.Contains(t, text, "display_name:")
	assert.Contains(t, text, "subscription_id:")
}

func TestEncodeRejectsMarkdown(t *testing.T) {
	t.Parallel()

	a := New(testSnapshot(), time.Now())
	_, err := a.Encode(render.FormatMarkdown)
	require.Error(t, err)
	assert.ErrorContains(t, err, "unsupported archive format")
}

func TestSaveAndLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := New(testSnapshot(), time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	path, err := a.Save(filepath.Join(dir, "data"), render.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data", "azure_resources_20240301_120000.json"), path)

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, a.Snapshot().Subscriptions, back.Snapshot().Subscriptions)
	require.Len(t, back.Records, 1)
	assert.Equal(t, "vm1", back.Records[0].Name)
}

func TestLoadUnknownExtension(t *testing.T) {
	t.Parallel()

	_, err := Load("archive.txt")
	require.Error(t, err)
	assert.ErrorContains(t, err, "cannot infer archive format")
}
