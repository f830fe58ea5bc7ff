// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package checker is a small validation framework: named checks are
// collected into a Validator, run in order, and their failures aggregated.
package checker

import (
	"log/slog"

	"github.com/hashicorp/go-multierror"
)

// ValidateFunc performs one check. Use closures to capture the subject of
// the check, such as a config file path.
type ValidateFunc func() error

// ValidatorCheck pairs a check with the name reported while it runs.
type ValidatorCheck struct {
	name string
	f    ValidateFunc
}

// NewValidatorCheck creates a named check.
func NewValidatorCheck(name string, f ValidateFunc) ValidatorCheck {
	return ValidatorCheck{
		name: name,
		f:    f,
	}
}

// Validator holds a list of checks to be performed.
type Validator struct {
	checks []ValidatorCheck
	quiet  bool // whether to suppress check start/finish messages
}

// NewValidator creates a new Validator with the given checks.
func NewValidator(c ...ValidatorCheck) Validator {
	return Validator{
		checks: c,
	}
}

// NewValidatorQuiet creates a Validator that suppresses progress messages.
func NewValidatorQuiet(c ...ValidatorCheck) Validator {
	return Validator{
		checks: c,
		quiet:  true,
	}
}

// AddChecks returns a Validator with additional checks appended.
func (v Validator) AddChecks(c ...ValidatorCheck) Validator {
	v.checks = append(v.checks, c...)
	return v
}

// Validate runs every check. All checks run even when earlier ones fail;
// the returned error aggregates every failure.
func (v Validator) Validate() error {
	var errs error

	for _, c := range v.checks {
		if !v.quiet {
			slog.Info("starting check", slog.String("name", c.name))
		}

		if err := c.f(); err != nil {
			errs = multierror.Append(errs, err)
		}

		if !v.quiet {
			slog.Info("finished check", slog.String("name", c.name))
		}
	}

	return errs
}
