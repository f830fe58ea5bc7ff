// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package render

import (
	"bytes"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/Azure/azresourcedocs/pkg/collector"
	"github.com/Azure/azresourcedocs/pkg/doctree"
	"github.com/Azure/azresourcedocs/pkg/normalize"
	"github.com/nao1215/markdown"
)

func renderMarkdown(n *doctree.Node) ([]byte, error) {
	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)
	switch n.Kind {
	case doctree.KindIndex:
		indexMd(md, n)
	case doctree.KindSubscriptionOverview:
		subscriptionMd(md, n)
	case doctree.KindResourceGroupOverview:
		groupMd(md, n)
	case doctree.KindResourceTypeListing:
		listingMd(md, n)
	case doctree.KindConsolidatedByType:
		consolidatedMd(md, n)
	case doctree.KindTypeSummary:
		summaryMd(md, n)
	default:
		return nil, fmt.Errorf("unknown node kind %q", n.Kind)
	}
	if err := md.Build(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func indexMd(md *markdown.Markdown, n *doctree.Node) {
	c := n.Index
	md = md.H1(n.Title).LF()
	md = md.H2("Subscriptions").LF()
	if len(c.Subscriptions) == 0 {
		md = md.PlainText("No subscriptions were discovered.").LF()
	} else {
		items := make([]string, 0, len(c.Subscriptions))
		for _, sub := range c.Subscriptions {
			link := markdown.Link(sub.DisplayName, mdLink(n.Path, sub.Path))
			items = append(items, fmt.Sprintf("%s (`%s`)", link, sub.ID))
		}
		md = md.BulletList(items...).LF()
	}
	failuresMd(md, c.Failures)
}

func subscriptionMd(md *markdown.Markdown, n *doctree.Node) {
	c := n.Subscription
	md = md.H1(n.Title).LF().
		PlainText(fmt.Sprintf("Subscription ID: `%s`", c.ID)).LF()
	md = md.H2("Resource Groups").LF()
	if len(c.Groups) == 0 {
		md = md.PlainText("No resource groups were discovered.").LF()
	} else {
		items := make([]string, 0, len(c.Groups))
		for _, g := range c.Groups {
			link := markdown.Link(g.Name, mdLink(n.Path, g.Path))
			items = append(items, fmt.Sprintf("%s (%s, %d resources)", link, g.Location, g.ResourceCount))
		}
		md = md.BulletList(items...).LF()
	}
	failuresMd(md, c.Failures)
}

func groupMd(md *markdown.Markdown, n *doctree.Node) {
	c := n.Group
	md = md.H1(n.Title).LF().
		PlainText(fmt.Sprintf("Subscription: %s (`%s`)", c.SubscriptionName, c.SubscriptionID)).LF().
		PlainText(fmt.Sprintf("Location: %s", c.Location)).LF()
	md = md.H2("Resource Types").LF()
	if len(c.Types) == 0 {
		md.PlainText("No resources were discovered in this resource group.").LF()
		return
	}
	items := make([]string, 0, len(c.Types))
	for _, t := range c.Types {
		link := markdown.Link(t.ShortName, mdLink(n.Path, t.Path))
		items = append(items, fmt.Sprintf("%s (%d)", link, t.Count))
	}
	md.BulletList(items...).LF()
}

func listingMd(md *markdown.Markdown, n *doctree.Node) {
	c := n.Listing
	md = md.H1(n.Title).LF().
		PlainText(fmt.Sprintf("Type: `%s`", c.Type)).LF()
	for _, rec := range c.Records {
		md = md.H2(rec.Name).LF().
			BulletList(recordBullets(rec)...).LF()
		propertiesMd(md, rec.Properties)
	}
}

func consolidatedMd(md *markdown.Markdown, n *doctree.Node) {
	c := n.Consolidated
	md = md.H1(n.Title).LF()
	if len(c.Types) == 0 {
		md.PlainText("No resources were discovered.").LF()
		return
	}
	for _, ct := range c.Types {
		md = md.H2(fmt.Sprintf("%s (`%s`)", ct.ShortName, ct.Type)).LF().
			PlainText(fmt.Sprintf("Total: %d", len(ct.Records))).LF()
		for _, rec := range ct.Records {
			bullets := append(
				[]string{fmt.Sprintf("Subscription: %s", rec.SubscriptionName)},
				recordBullets(rec.ResourceRecord)...,
			)
			md = md.H3(rec.Name).LF().
				BulletList(bullets...).LF()
			propertiesMd(md, rec.Properties)
		}
	}
}

func summaryMd(md *markdown.Markdown, n *doctree.Node) {
	c := n.Summary
	md = md.H1(n.Title).LF()
	t := markdown.TableSet{
		Header: []string{"Resource Type", "Count"},
		Rows:   [][]string{},
	}
	for _, row := range c.Rows {
		t.Rows = append(t.Rows, []string{row.Type, strconv.Itoa(row.Count)})
	}
	md.Table(t).LF().
		PlainText(markdown.Bold(fmt.Sprintf("Total resources: %d", c.Total))).LF()
}

func failuresMd(md *markdown.Markdown, failures []collector.Failure) {
	if len(failures) == 0 {
		return
	}
	t := markdown.TableSet{
		Header: []string{"Scope", "Subscription", "Resource Group", "Attempts", "Error"},
		Rows:   [][]string{},
	}
	for _, f := range failures {
		t.Rows = append(t.Rows, []string{
			string(f.Scope),
			f.SubscriptionID,
			f.ResourceGroup,
			strconv.Itoa(f.Attempts),
			f.Message,
		})
	}
	md.H2("Collection Failures").LF().
		PlainText("The scopes below could not be collected; their resources are missing from this run.").LF().
		Table(t).LF()
}

func recordBullets(rec normalize.ResourceRecord) []string {
	bullets := []string{
		fmt.Sprintf("Resource Group: %s", rec.ResourceGroup),
		fmt.Sprintf("Location: %s", rec.Location),
		fmt.Sprintf("Resource ID: `%s`", rec.ID),
		fmt.Sprintf("Schema Version: %s", rec.SchemaVersion),
	}
	if len(rec.Tags) > 0 {
		keys := make([]string, 0, len(rec.Tags))
		for k := range rec.Tags {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, fmt.Sprintf("%s=%s", k, rec.Tags[k]))
		}
		bullets = append(bullets, fmt.Sprintf("Tags: %s", strings.Join(pairs, ", ")))
	}
	return bullets
}

func propertiesMd(md *markdown.Markdown, props *normalize.Properties) {
	if props == nil || props.Len() == 0 {
		return
	}
	md.PlainText(markdown.Bold("Properties:")).LF().
		PlainText(strings.TrimRight(propertyLines(props, 0), "\n")).LF()
}

// propertyLines renders an ordered property set as nested bullet lines,
// preserving key order at every level.
func propertyLines(props *normalize.Properties, depth int) string {
	var b strings.Builder
	indent := strings.Repeat("  ", depth)
	for _, k := range props.Keys() {
		v, _ := props.Get(k)
		switch val := v.(type) {
		case *normalize.Properties:
			fmt.Fprintf(&b, "%s- %s:\n", indent, k)
			b.WriteString(propertyLines(val, depth+1))
		case []any:
			fmt.Fprintf(&b, "%s- %s:\n", indent, k)
			for _, item := range val {
				if nested, ok := item.(*normalize.Properties); ok {
					fmt.Fprintf(&b, "%s  -\n", indent)
					b.WriteString(propertyLines(nested, depth+2))
					continue
				}
				fmt.Fprintf(&b, "%s  - %v\n", indent, item)
			}
		default:
			fmt.Fprintf(&b, "%s- %s: %v\n", indent, k, val)
		}
	}
	return b.String()
}

// mdLink builds a relative markdown link target from one extension-less
// node path to another.
func mdLink(from, to string) string {
	return relPath(from, to) + FormatMarkdown.Extension()
}

func relPath(from, to string) string {
	fromDir := path.Dir(from)
	if fromDir == "." {
		return to
	}
	fromParts := strings.Split(fromDir, "/")
	toParts := strings.Split(to, "/")
	common := 0
	for common < len(fromParts) && common < len(toParts) && fromParts[common] == toParts[common] {
		common++
	}
	parts := make([]string, 0, len(fromParts)-common+len(toParts)-common)
	for range fromParts[common:] {
		parts = append(parts, "..")
	}
	parts = append(parts, toParts[common:]...)
	return strings.Join(parts, "/")
}
