// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package generate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Azure/azresourcedocs"
	"github.com/Azure/azresourcedocs/internal/auth"
	"github.com/Azure/azresourcedocs/internal/environment"
	"github.com/Azure/azresourcedocs/pkg/azure"
	"github.com/Azure/azresourcedocs/pkg/normalize"
	"github.com/Azure/azresourcedocs/pkg/render"
	"github.com/spf13/cobra"
)

var (
	outputDir      string
	formatName     string
	subscriptions  []string
	nonInteractive bool
	parallelism    int
	extractConfig  string
	exportData     bool
	exportFormat   string
)

// GenerateCmd represents the generate command.
var GenerateCmd = cobra.Command{
	Use:   "generate",
	Short: "Discover Azure resources and render their documentation.",
	Long: `Enumerates the subscriptions visible to the credential, collects every
resource group and resource, and writes a linked documentation set to the
output directory. Scopes that cannot be collected are reported in the output
and the command exits with code 1.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		format, err := render.ParseFormat(formatName)
		if err != nil {
			cmd.PrintErrf("%s generate error: %v\n", cmd.ErrPrefix(), err)
			os.Exit(2)
		}

		cred, err := auth.NewCredential(!nonInteractive, environment.TenantID())
		if err != nil {
			cmd.PrintErrf("%s generate error: %v\n", cmd.ErrPrefix(), err)
			os.Exit(2)
		}

		opts := azresourcedocs.EnvOptions()
		if parallelism > 0 {
			opts.Parallelism = parallelism
		}
		opts.Registry, err = loadRegistry(cmd.Context())
		if err != nil {
			cmd.PrintErrf("%s generate error: %v\n", cmd.ErrPrefix(), err)
			os.Exit(2)
		}

		api := azure.NewClientFactory(cred)
		logTenants(cmd.Context(), api)

		gen := azresourcedocs.NewGenerator(api, opts)
		snap, err := gen.Snapshot(cmd.Context(), subscriptions)
		if err != nil {
			cmd.PrintErrf("%s generate error: %v\n", cmd.ErrPrefix(), err)
			os.Exit(2)
		}

		docs, err := gen.Documents(snap, format)
		if err != nil {
			cmd.PrintErrf("%s generate error: %v\n", cmd.ErrPrefix(), err)
			os.Exit(2)
		}
		if err := writeDocs(outputDir, docs); err != nil {
			cmd.PrintErrf("%s generate error: %v\n", cmd.ErrPrefix(), err)
			os.Exit(2)
		}

		if exportData {
			ef, err := render.ParseFormat(archiveFormat(format))
			if err != nil {
				cmd.PrintErrf("%s generate error: %v\n", cmd.ErrPrefix(), err)
				os.Exit(2)
			}
			path, err := gen.Archive(snap).Save(filepath.Join(outputDir, "data"), ef)
			if err != nil {
				cmd.PrintErrf("%s generate error: %v\n", cmd.ErrPrefix(), err)
				os.Exit(2)
			}
			slog.Info("wrote data archive", slog.String("path", path))
		}

		slog.Info("documentation generated",
			slog.Int("documents", len(docs)),
			slog.String("output", outputDir))

		if len(snap.Failures) > 0 {
			cmd.PrintErrf("%s generate: completed with %d collection failures, see %s\n",
				cmd.ErrPrefix(), len(snap.Failures), filepath.Join(outputDir, "docs", "index"+format.Extension()))
			os.Exit(1)
		}
	},
}

func init() {
	GenerateCmd.Flags().StringVarP(&outputDir, "output", "o", "output", "directory to write the documentation set to")
	GenerateCmd.Flags().StringVarP(&formatName, "format", "f", "markdown", "output format: markdown, json or yaml")
	GenerateCmd.Flags().StringSliceVarP(&subscriptions, "subscription", "s", nil, "limit the run to these subscription IDs (repeatable)")
	GenerateCmd.Flags().BoolVar(&nonInteractive, "non-interactive", false, "do not attempt interactive browser login")
	GenerateCmd.Flags().IntVarP(&parallelism, "parallelism", "p", 0, "max concurrent ARM requests (default from AZRESOURCEDOCS_PARALLELISM)")
	GenerateCmd.Flags().StringVar(&extractConfig, "extract-config", environment.ExtractConfig(), "path or go-getter URL of a property extraction config")
	GenerateCmd.Flags().BoolVar(&exportData, "export-data", false, "also write the raw collected data as a timestamped archive")
	GenerateCmd.Flags().StringVar(&exportFormat, "export-format", "", "archive format: json or yaml (default follows --format, markdown runs export json)")
}

// archiveFormat picks the data archive format: the explicit flag if set,
// otherwise the document format, except markdown archives do not round-trip
// so those runs export json.
func archiveFormat(docFormat render.Format) string {
	if exportFormat != "" {
		return exportFormat
	}
	if docFormat == render.FormatYAML {
		return string(render.FormatYAML)
	}
	return string(render.FormatJSON)
}

// logTenants records the tenants visible to the credential. Purely
// informational; a failure here never stops the run.
func logTenants(ctx context.Context, api azure.API) {
	pager := api.Tenants()
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			slog.Warn("tenant listing failed", slog.String("error", err.Error()))
			return
		}
		for _, t := range page {
			slog.Info("visible tenant", slog.String("id", t.ID), slog.String("displayName", t.DisplayName))
		}
	}
}

// loadRegistry resolves the extraction config. Local paths are read
// directly; anything else is fetched with go-getter first.
func loadRegistry(ctx context.Context) (*normalize.Registry, error) {
	if extractConfig == "" {
		return nil, nil
	}
	if _, err := os.Stat(extractConfig); err == nil {
		return normalize.LoadRegistry(extractConfig)
	}
	destDir := filepath.Join(environment.FetchBaseDir(), "extract")
	return normalize.FetchRegistry(ctx, extractConfig, destDir)
}

func writeDocs(dir string, docs []render.Doc) error {
	for _, d := range docs {
		path := filepath.Join(dir, filepath.FromSlash(d.Path))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("generate: creating %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, d.Content, 0o644); err != nil {
			return fmt.Errorf("generate: writing %s: %w", path, err)
		}
	}
	return nil
}
