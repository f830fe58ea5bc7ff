// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package render turns a document tree into serialized documents in one of
// the supported output formats. Rendering is pure: the same tree and format
// always produce byte-identical output, and the tree is never modified.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/Azure/azresourcedocs/pkg/doctree"
	"gopkg.in/yaml.v3"
)

// Format selects the output serialization.
type Format string

const (
	// FormatMarkdown renders human-readable markdown documents.
	FormatMarkdown Format = "markdown"
	// FormatJSON renders the structured node content as indented JSON.
	FormatJSON Format = "json"
	// FormatYAML renders the structured node content as YAML.
	FormatYAML Format = "yaml"
)

// ParseFormat converts a user-supplied format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatMarkdown, FormatJSON, FormatYAML:
		return Format(s), nil
	default:
		return "", fmt.Errorf("render.ParseFormat: unsupported format %q (supported: markdown, json, yaml)", s)
	}
}

// Extension returns the file extension for the format, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatJSON:
		return ".json"
	case FormatYAML:
		return ".yaml"
	default:
		return ""
	}
}

// Doc is one rendered document. Path is relative to the output root and
// carries the format's extension.
type Doc struct {
	Path    string
	Content []byte
}

// Render serializes every node of the tree, preserving tree order.
// Cross-document links in markdown output are relative, so the rendered
// set can be written under any output root.
func Render(tree *doctree.Tree, format Format) ([]Doc, error) {
	docs := make([]Doc, 0, len(tree.Nodes))
	for _, n := range tree.Nodes {
		var (
			content []byte
			err     error
		)
		switch format {
		case FormatMarkdown:
			content, err = renderMarkdown(n)
		case FormatJSON:
			content, err = renderJSON(n)
		case FormatYAML:
			content, err = renderYAML(n)
		default:
			return nil, fmt.Errorf("render.Render: unsupported format %q", format)
		}
		if err != nil {
			return nil, fmt.Errorf("render.Render: node %s: %w", n.Path, err)
		}
		docs = append(docs, Doc{Path: n.Path + format.Extension(), Content: content})
	}
	return docs, nil
}

func renderJSON(n *doctree.Node) ([]byte, error) {
	data, err := json.MarshalIndent(n, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func renderYAML(n *doctree.Node) ([]byte, error) {
	return yaml.Marshal(n)
}
