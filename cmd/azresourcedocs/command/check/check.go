// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package check

import (
	"github.com/spf13/cobra"
)

// CheckCmd represents the check command.
var CheckCmd = cobra.Command{
	Use:   "check",
	Short: "Perform validations.",
	Long:  `Validates inputs to a documentation run, such as extraction configs.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.PrintErrf("%s check command: missing required child command\n", cmd.ErrPrefix())
		cmd.Usage() // nolint: errcheck
	},
}

func init() {
	CheckCmd.AddCommand(&configCmd)
}
