// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package checks contains the individual validations run against an
// extraction config file before it is used for a documentation run.
package checks

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/Azure/azresourcedocs/internal/tools/checker"
	"github.com/Azure/azresourcedocs/pkg/normalize"
	mapset "github.com/deckarep/golang-set/v2"
	"gopkg.in/yaml.v3"
)

// armTypePattern matches ARM resource type strings such as
// Microsoft.Compute/virtualMachines.
var armTypePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*(\.[A-Za-z][A-Za-z0-9]*)+(/[A-Za-z][A-Za-z0-9]*)+$`)

// CheckConfigLoads verifies that the config parses into a usable registry.
func CheckConfigLoads(path string) checker.ValidatorCheck {
	return checker.NewValidatorCheck("config loads", func() error {
		_, err := normalize.LoadRegistry(path)
		return err
	})
}

// CheckTypesAreValid verifies that every type key is a well-formed ARM
// resource type.
func CheckTypesAreValid(path string) checker.ValidatorCheck {
	return checker.NewValidatorCheck("types are valid ARM types", func() error {
		types, _, err := configEntries(path)
		if err != nil {
			return err
		}
		var bad []string
		for _, t := range types {
			if !armTypePattern.MatchString(t) {
				bad = append(bad, t)
			}
		}
		if len(bad) > 0 {
			return fmt.Errorf("checks.CheckTypesAreValid: malformed resource types: %v", bad)
		}
		return nil
	})
}

// CheckTypesAreDistinct verifies that no two type keys collide after case
// folding, since registry lookup is case-insensitive.
func CheckTypesAreDistinct(path string) checker.ValidatorCheck {
	return checker.NewValidatorCheck("types are distinct", func() error {
		types, _, err := configEntries(path)
		if err != nil {
			return err
		}
		seen := mapset.NewThreadUnsafeSet[string]()
		var dups []string
		for _, t := range types {
			if !seen.Add(strings.ToLower(t)) {
				dups = append(dups, t)
			}
		}
		if len(dups) > 0 {
			return fmt.Errorf("checks.CheckTypesAreDistinct: duplicate resource types: %v", dups)
		}
		return nil
	})
}

// CheckFieldsAreUnique verifies that no type lists the same field twice.
func CheckFieldsAreUnique(path string) checker.ValidatorCheck {
	return checker.NewValidatorCheck("fields are unique", func() error {
		types, fields, err := configEntries(path)
		if err != nil {
			return err
		}
		var dups []string
		for _, t := range types {
			seen := mapset.NewThreadUnsafeSet[string]()
			for _, f := range fields[t] {
				if !seen.Add(f) {
					dups = append(dups, t+"."+f)
				}
			}
		}
		if len(dups) > 0 {
			return fmt.Errorf("checks.CheckFieldsAreUnique: duplicate fields: %v", dups)
		}
		return nil
	})
}

// configEntries parses the config file preserving the original type key
// casing and order, which the registry itself discards.
func configEntries(path string) ([]string, map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("checks: reading %s: %w", path, err)
	}
	var doc struct {
		Types yaml.Node `yaml:"types"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("checks: parsing %s: %w", path, err)
	}
	if doc.Types.Kind == 0 {
		return nil, nil, fmt.Errorf("checks: %s has no types section", path)
	}
	if doc.Types.Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("checks: %s: types is not a mapping", path)
	}
	var types []string
	fields := make(map[string][]string)
	for i := 0; i+1 < len(doc.Types.Content); i += 2 {
		var key string
		if err := doc.Types.Content[i].Decode(&key); err != nil {
			return nil, nil, fmt.Errorf("checks: %s: decoding type key: %w", path, err)
		}
		var rule struct {
			Fields []string `yaml:"fields"`
		}
		if err := doc.Types.Content[i+1].Decode(&rule); err != nil {
			return nil, nil, fmt.Errorf("checks: %s: decoding rule for %s: %w", path, key, err)
		}
		types = append(types, key)
		fields[key] = rule.Fields
	}
	return types, fields, nil
}
