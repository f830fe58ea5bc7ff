// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package check

import (
	"os"

	"github.com/Azure/azresourcedocs/internal/tools/checker"
	"github.com/Azure/azresourcedocs/internal/tools/checks"
	"github.com/spf13/cobra"
)

// configCmd validates a property extraction config file.
var configCmd = cobra.Command{
	Use:   "config [flags] path",
	Short: "Validate a property extraction config.",
	Long:  `Checks that an extraction config parses, that its resource types are well-formed and distinct, and that no field is listed twice.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]
		chk := checker.NewValidator(
			checks.CheckConfigLoads(path),
			checks.CheckTypesAreValid(path),
			checks.CheckTypesAreDistinct(path),
			checks.CheckFieldsAreUnique(path),
		)
		if err := chk.Validate(); err != nil {
			cmd.PrintErrf("%s config check error: %v\n", cmd.ErrPrefix(), err)
			os.Exit(1)
		}
	},
}
