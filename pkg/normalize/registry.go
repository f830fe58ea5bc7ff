// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package normalize

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-getter/v2"
	"gopkg.in/yaml.v3"
)

//go:embed extract.yaml
var defaultExtractConfig []byte

// configFileName is the expected file name inside a fetched config bundle.
const configFileName = "extract.yaml"

// Rule is the extraction rule for one resource type: the ordered list of
// payload fields that make up the documented property subset.
type Rule struct {
	Fields []string `yaml:"fields"`
}

type registryConfig struct {
	Types map[string]Rule `yaml:"types"`
}

// Registry maps resource type strings to extraction rules. Lookup is
// case-insensitive because ARM type casing is not reliable.
type Registry struct {
	rules map[string]Rule
}

// NewRegistry returns a Registry with the embedded default rules.
func NewRegistry() *Registry {
	r, err := parseRegistry(defaultExtractConfig)
	if err != nil {
		// The embedded defaults are validated by tests; a parse failure
		// here is a programming error.
		panic(fmt.Sprintf("normalize: embedded extract config invalid: %v", err))
	}
	return r
}

// LoadRegistry reads extraction rules from a local YAML file.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("normalize.LoadRegistry: reading %s: %w", path, err)
	}
	r, err := parseRegistry(data)
	if err != nil {
		return nil, fmt.Errorf("normalize.LoadRegistry: parsing %s: %w", path, err)
	}
	return r, nil
}

// FetchRegistry retrieves an extraction-config bundle from any go-getter
// URL (git, http, s3, local dir, ...) into destDir and loads the extract.yaml
// it contains.
func FetchRegistry(ctx context.Context, src, destDir string) (*Registry, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("normalize.FetchRegistry: getting working directory: %w", err)
	}
	client := getter.Client{}
	req := &getter.Request{
		Src: src,
		Dst: destDir,
		Pwd: wd,
	}
	if _, err := client.Get(ctx, req); err != nil {
		return nil, fmt.Errorf("normalize.FetchRegistry: fetching %s: %w", src, err)
	}
	return LoadRegistry(filepath.Join(destDir, configFileName))
}

func parseRegistry(data []byte) (*Registry, error) {
	var cfg registryConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	rules := make(map[string]Rule, len(cfg.Types))
	for typ, rule := range cfg.Types {
		if len(rule.Fields) == 0 {
			return nil, fmt.Errorf("type %s has no fields", typ)
		}
		rules[strings.ToLower(typ)] = rule
	}
	return &Registry{rules: rules}, nil
}

// Rule returns the extraction rule for a resource type, if registered.
func (r *Registry) Rule(resourceType string) (Rule, bool) {
	rule, ok := r.rules[strings.ToLower(resourceType)]
	return rule, ok
}

// Types returns the registered resource types, lowercased.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.rules))
	for t := range r.rules {
		out = append(out, t)
	}
	return out
}
