// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package export persists the collected snapshot as a machine-readable
// archive alongside the rendered documentation, so a run's raw data can be
// inspected or reloaded without talking to Azure again.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Azure/azresourcedocs/pkg/azure"
	"github.com/Azure/azresourcedocs/pkg/collector"
	"github.com/Azure/azresourcedocs/pkg/doctree"
	"github.com/Azure/azresourcedocs/pkg/normalize"
	"github.com/Azure/azresourcedocs/pkg/render"
	"gopkg.in/yaml.v3"
)

// filenameStamp is the timestamp layout embedded in archive filenames.
const filenameStamp = "20060102_150405"

// Archive is the serialized form of one collection run.
type Archive struct {
	GeneratedAt   time.Time                  `json:"generated_at" yaml:"generated_at"`
	Subscriptions []azure.Subscription       `json:"subscriptions" yaml:"subscriptions"`
	Groups        []azure.ResourceGroup      `json:"resource_groups" yaml:"resource_groups"`
	Records       []normalize.ResourceRecord `json:"resources" yaml:"resources"`
	Failures      []collector.Failure        `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// New wraps a snapshot for export. The caller supplies the run timestamp.
func New(s *doctree.Snapshot, generatedAt time.Time) *Archive {
	return &Archive{
		GeneratedAt:   generatedAt,
		Subscriptions: s.Subscriptions,
		Groups:        s.Groups,
		Records:       s.Records,
		Failures:      s.Failures,
	}
}

// Snapshot converts the archive back to a buildable snapshot.
func (a *Archive) Snapshot() *doctree.Snapshot {
	return &doctree.Snapshot{
		Subscriptions: a.Subscriptions,
		Groups:        a.Groups,
		Records:       a.Records,
		Failures:      a.Failures,
	}
}

// Filename returns the archive filename for the run timestamp, e.g.
// azure_resources_20240301_120000.json.
func (a *Archive) Filename(format render.Format) string {
	return fmt.Sprintf("azure_resources_%s%s", a.GeneratedAt.UTC().Format(filenameStamp), format.Extension())
}

// Encode serializes the archive. Only structured formats are supported;
// markdown archives would not round-trip.
func (a *Archive) Encode(format render.Format) ([]byte, error) {
	switch format {
	case render.FormatJSON:
		data, err := json.MarshalIndent(a, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("export.Encode: %w", err)
		}
		return append(data, '\n'), nil
	case render.FormatYAML:
		data, err := yaml.Marshal(a)
		if err != nil {
			return nil, fmt.Errorf("export.Encode: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("export.Encode: unsupported archive format %q", format)
	}
}

// Decode parses an encoded archive.
func Decode(data []byte, format render.Format) (*Archive, error) {
	a := &Archive{}
	switch format {
	case render.FormatJSON:
		if err := json.Unmarshal(data, a); err != nil {
			return nil, fmt.Errorf("export.Decode: %w", err)
		}
	case render.FormatYAML:
		if err := yaml.Unmarshal(data, a); err != nil {
			return nil, fmt.Errorf("export.Decode: %w", err)
		}
	default:
		return nil, fmt.Errorf("export.Decode: unsupported archive format %q", format)
	}
	return a, nil
}

// Save writes the archive under dir using its timestamped filename and
// returns the full path. The directory is created if needed.
func (a *Archive) Save(dir string, format render.Format) (string, error) {
	data, err := a.Encode(format)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export.Save: %w", err)
	}
	path := filepath.Join(dir, a.Filename(format))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("export.Save: %w", err)
	}
	return path, nil
}

// Load reads an archive from disk, inferring the format from the file
// extension.
func Load(path string) (*Archive, error) {
	format, err := formatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("export.Load: %w", err)
	}
	return Decode(data, format)
}

func formatForPath(path string) (render.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return render.FormatJSON, nil
	case ".yaml", ".yml":
		return render.FormatYAML, nil
	default:
		return "", fmt.Errorf("export: cannot infer archive format from %q", path)
	}
}
