// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package command

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Azure/azresourcedocs/cmd/azresourcedocs/command/check"
	"github.com/Azure/azresourcedocs/cmd/azresourcedocs/command/generate"
	"github.com/Azure/azresourcedocs/internal/logging"
	"github.com/spf13/cobra"
)

var version = "dev"

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "azresourcedocs",
	Version: version,
	Short:   "Generate documentation for Azure resources",
	Long: `Discovers Azure resources across your subscriptions and renders them as a
browsable documentation set.

This tool can:

- Generate per-subscription and per-resource-group documentation in markdown, JSON or YAML.
- Export the raw collected data as a timestamped archive.
- Validate a custom property extraction config before using it.
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	logging.SetDefault("azresourcedocs", version)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		os.Exit(2)
	}
}

func init() {
	rootCmd.AddCommand(&generate.GenerateCmd)
	rootCmd.AddCommand(&check.CheckCmd)
}
