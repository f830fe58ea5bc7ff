// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package checks_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Azure/azresourcedocs/internal/tools/checker"
	"github.com/Azure/azresourcedocs/internal/tools/checks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "extract.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestValidConfigPasses(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `types:
  Microsoft.Compute/virtualMachines:
    fields:
      - vmSize
      - osType
  Microsoft.Sql/servers:
    fields:
      - version
`)
	v := checker.NewValidatorQuiet(
		checks.CheckConfigLoads(path),
		checks.CheckTypesAreValid(path),
		checks.CheckTypesAreDistinct(path),
		checks.CheckFieldsAreUnique(path),
	)
	assert.NoError(t, v.Validate())
}

func TestMalformedTypeFails(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "types:\n  notatype:\n    fields:\n      - a\n")
	err := checker.NewValidatorQuiet(checks.CheckTypesAreValid(path)).Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "notatype")
}

func TestCaseFoldedDuplicateFails(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `types:
  Microsoft.Sql/servers:
    fields:
      - version
  microsoft.sql/servers:
    fields:
      - version
`)
	err := checker.NewValidatorQuiet(checks.CheckTypesAreDistinct(path)).Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "duplicate resource types")
}

func TestDuplicateFieldFails(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "types:\n  Microsoft.Sql/servers:\n    fields:\n      - version\n      - version\n")
	err := checker.NewValidatorQuiet(checks.CheckFieldsAreUnique(path)).Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "Microsoft.Sql/servers.version")
}

func TestEmptyFieldListFailsLoad(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "types:\n  Microsoft.Sql/servers:\n    fields: []\n")
	err := checker.NewValidatorQuiet(checks.CheckConfigLoads(path)).Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "no fields")
}

func TestMissingTypesSectionFails(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "other: 1\n")
	err := checker.NewValidatorQuiet(checks.CheckTypesAreValid(path)).Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "no types section")
}
