// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package render

import (
	"encoding/json"
	"path"
	"regexp"
	"strings"
	"testing"

	"github.com/Azure/azresourcedocs/pkg/azure"
	"github.com/Azure/azresourcedocs/pkg/collector"
	"github.com/Azure/azresourcedocs/pkg/doctree"
	"github.com/Azure/azresourcedocs/pkg/normalize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testTree(t *testing.T) *doctree.Tree {
	t.Helper()

	props := normalize.NewProperties()
	props.Set("vmSize", "Standard_D2s_v3")
	props.Set("osType", normalize.UnknownValue)
	nested := normalize.NewProperties()
	nested.Set("addressPrefix", "10.0.1.0/24")
	props.Set("subnets", []any{nested})

	tree, err := doctree.Build(&doctree.Snapshot{
		Subscriptions: []azure.Subscription{
			{ID: "sub-a", DisplayName: "Alpha"},
			{ID: "sub-b", DisplayName: "Beta"},
		},
		Groups: []azure.ResourceGroup{
			{ID: "/subscriptions/sub-a/resourceGroups/rg1", Name: "rg1", SubscriptionID: "sub-a", Location: "westeurope"},
			{ID: "/subscriptions/sub-b/resourceGroups/rg2", Name: "rg2", SubscriptionID: "sub-b", Location: "northeurope"},
		},
		Records: []normalize.ResourceRecord{
			{
				ID:             "/subscriptions/sub-a/resourceGroups/rg1/providers/Microsoft.Compute/virtualMachines/vm1",
				Name:           "vm1",
				Type:           "Microsoft.Compute/virtualMachines",
				SubscriptionID: "sub-a",
				ResourceGroup:  "rg1",
				Location:       "westeurope",
				Tags:           map[string]string{"env": "prod", "costcenter": "42"},
				Properties:     props,
				SchemaVersion:  "2024-03-01",
			},
			{
				ID:             "/subscriptions/sub-b/resourceGroups/rg2/providers/Microsoft.Storage/storageAccounts/st1",
				Name:           "st1",
				Type:           "Microsoft.Storage/storageAccounts",
				SubscriptionID: "sub-b",
				ResourceGroup:  "rg2",
				Location:       normalize.UnknownValue,
				Properties:     normalize.NewProperties(),
				SchemaVersion:  normalize.UnknownValue,
			},
		},
		Failures: []collector.Failure{
			{
				Scope:          collector.ScopeResourceGroup,
				SubscriptionID: "sub-a",
				ResourceGroup:  "rg-gone",
				Message:        "listing resources: 404",
				Attempts:       1,
			},
		},
	})
	require.NoError(t, err)
	return tree
}

var mdLinkPattern = regexp.MustCompile(`\]\(([^)]+)\)`)

func TestRenderMarkdownLinksResolve(t *testing.T) {
	t.Parallel()

	tree := testTree(t)
	docs, err := Render(tree, FormatMarkdown)
	require.NoError(t, err)

	paths := make(map[string]bool, len(docs))
	for _, d := range docs {
		paths[d.Path] = true
	}
	for _, d := range docs {
		for _, m := range mdLinkPattern.FindAllStringSubmatch(string(d.Content), -1) {
			target := path.Join(path.Dir(d.Path), m[1])
			assert.True(t, paths[target], "link %s in %s does not resolve", m[1], d.Path)
		}
	}
}

func TestRenderDeterministic(t *testing.T) {
	t.Parallel()

	tree := testTree(t)
	for _, format := range []Format{FormatMarkdown, FormatJSON, FormatYAML} {
		a, err := Render(tree, format)
		require.NoError(t, err)
		b, err := Render(tree, format)
		require.NoError(t, err)
		assert.Equal(t, a, b, "format %s", format)
	}
}

func TestRenderPaths(t *testing.T) {
	t.Parallel()

	tree := testTree(t)
	docs, err := Render(tree, FormatYAML)
	require.NoError(t, err)
	require.Len(t, docs, len(tree.Nodes))
	for i, d := range docs {
		assert.Equal(t, tree.Nodes[i].Path+".yaml", d.Path)
	}
}

func TestRenderMarkdownContent(t *testing.T) {
	t.Parallel()

	tree := testTree(t)
	docs, err := Render(tree, FormatMarkdown)
	require.NoError(t, err)

	byPath := make(map[string]string, len(docs))
	for _, d := range docs {
		byPath[d.Path] = string(d.Content)
	}

	index := byPath["docs/index.md"]
	assert.Contains(t, index, "# Azure Resources Documentation")
	assert.Contains(t, index, "[Alpha](sub-a/overview.md)")
	assert.Contains(t, index, "## Collection Failures")
	assert.Contains(t, index, "listing resources: 404")

	listing := byPath["docs/sub-a/rg1/virtualMachines.md"]
	assert.Contains(t, listing, "## vm1")
	assert.Contains(t, listing, "Tags: costcenter=42, env=prod")
	assert.Contains(t, listing, "- vmSize: Standard_D2s_v3")
	assert.Contains(t, listing, "- addressPrefix: 10.0.1.0/24")

	// property order survives rendering
	assert.Less(t, strings.Index(listing, "vmSize"), strings.Index(listing, "osType"))

	// unknown markers are rendered verbatim, never hidden
	storage := byPath["docs/sub-b/rg2/storageAccounts.md"]
	assert.Contains(t, storage, "Location: unknown")
	assert.Contains(t, storage, "Schema Version: unknown")

	summary := byPath["consolidated/resource_type_summary.md"]
	assert.Contains(t, summary, "Microsoft.Compute/virtualMachines")
	assert.Contains(t, summary, "Total resources: 2")
}

func yamlKeys(t *testing.T, v any, prefix string, keys map[string]bool) {
	t.Helper()

	switch val := v.(type) {
	case map[string]any:
		for k, child := range val {
			keys[prefix+k] = true
			yamlKeys(t, child, prefix+k+".", keys)
		}
	case []any:
		for _, child := range val {
			yamlKeys(t, child, prefix, keys)
		}
	}
}

func TestRenderYAMLKeysMatchJSON(t *testing.T) {
	t.Parallel()

	tree := testTree(t)
	jsonDocs, err := Render(tree, FormatJSON)
	require.NoError(t, err)
	yamlDocs, err := Render(tree, FormatYAML)
	require.NoError(t, err)
	require.Len(t, yamlDocs, len(jsonDocs))

	for i, jd := range jsonDocs {
		var fromJSON, fromYAML any
		require.NoError(t, json.Unmarshal(jd.Content, &fromJSON))
		require.NoError(t, yaml.Unmarshal(yamlDocs[i].Content, &fromYAML))

		want := map[string]bool{}
		got := map[string]bool{}
		yamlKeys(t, fromJSON, "", want)
		yamlKeys(t, fromYAML, "", got)
		assert.Equal(t, want, got, "key mismatch in %s", yamlDocs[i].Path)
	}

	assert.Contains(t, string(yamlDocs[0].Content), "subscription_id: sub-a")
	assert.Contains(t, string(yamlDocs[0].Content), "resource_group: rg-gone")
}

func TestRenderJSONRoundTrip(t *testing.T) {
	t.Parallel()

	tree := testTree(t)
	docs, err := Render(tree, FormatJSON)
	require.NoError(t, err)

	var n doctree.Node
	require.NoError(t, json.Unmarshal(docs[0].Content, &n))
	assert.Equal(t, tree.Nodes[0].ID, n.ID)
	assert.Equal(t, tree.Nodes[0].Path, n.Path)
	assert.Equal(t, doctree.KindIndex, n.Kind)
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := ParseFormat("markdown")
	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestRelPath(t *testing.T) {
	t.Parallel()

	cases := []struct {
		from, to, want string
	}{
		{"docs/index", "docs/sub-a/overview", "sub-a/overview"},
		{"docs/sub-a/overview", "docs/sub-a/rg1/overview", "rg1/overview"},
		{"docs/sub-a/rg1/overview", "docs/sub-a/overview", "../overview"},
		{"docs/sub-a/rg1/virtualMachines", "docs/index", "../../index"},
		{"index", "docs/sub-a/overview", "docs/sub-a/overview"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, relPath(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}
