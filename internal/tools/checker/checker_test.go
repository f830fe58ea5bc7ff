// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package checker_test

import (
	"errors"
	"testing"

	"github.com/Azure/azresourcedocs/internal/tools/checker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatorAggregatesFailures(t *testing.T) {
	passed := false
	v := checker.NewValidatorQuiet(
		checker.NewValidatorCheck("fails first", func() error { return errors.New("first") }),
		checker.NewValidatorCheck("passes", func() error { passed = true; return nil }),
		checker.NewValidatorCheck("fails second", func() error { return errors.New("second") }),
	)

	err := v.Validate()
	require.Error(t, err)
	// later checks still run after a failure
	assert.True(t, passed)
	assert.ErrorContains(t, err, "first")
	assert.ErrorContains(t, err, "second")
}

func TestValidatorAllPass(t *testing.T) {
	v := checker.NewValidatorQuiet(
		checker.NewValidatorCheck("ok", func() error { return nil }),
	)
	assert.NoError(t, v.Validate())
}

func TestValidatorAddChecks(t *testing.T) {
	v := checker.NewValidatorQuiet()
	v = v.AddChecks(checker.NewValidatorCheck("fails", func() error { return errors.New("boom") }))
	assert.Error(t, v.Validate())
}
