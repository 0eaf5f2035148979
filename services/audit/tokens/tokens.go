// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package tokens defines the design-token contract the audit engine
// checks pages against: the sanctioned class names, component and hook
// naming conventions, sanctioned font identifiers, and the suggested
// replacements for common utility literals.
//
// The default contract is baked into the binary via the embed directive,
// so the rules are immutable at runtime and travel with the executable.
// Deployments can load an override contract from disk with LoadFile.
package tokens

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultContractYAML holds the raw bytes of the embedded
// design_tokens.yaml contract.
//
//go:embed design_tokens.yaml
var DefaultContractYAML []byte

// Contract is the parsed design-token contract.
type Contract struct {
	// TokenNamespace is the prefix sanctioned token classes live under
	// (e.g. "ds-").
	TokenNamespace string `yaml:"token_namespace"`

	// AllowedClasses are always sanctioned, checked before any
	// structural rule.
	AllowedClasses []string `yaml:"allowed_classes"`

	// ComponentPrefixes mark component-specific class identifiers.
	ComponentPrefixes []string `yaml:"component_prefixes"`

	// HookPrefixes are testing/JS hook naming conventions.
	HookPrefixes []string `yaml:"hook_prefixes"`

	// HookClasses are accessibility helper classes.
	HookClasses []string `yaml:"hook_classes"`

	// SanctionedFonts are the font identifiers the computed-font check
	// accepts. A resolved font-family passes if it contains any of them.
	SanctionedFonts []string `yaml:"sanctioned_fonts"`

	// Suggestions maps utility literals to suggested token replacements.
	Suggestions map[string]string `yaml:"suggestions"`
}

// Load parses and validates the embedded default contract.
func Load() (*Contract, error) {
	return parse(DefaultContractYAML)
}

// LoadFile parses and validates a contract override from disk.
func LoadFile(path string) (*Contract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading contract %s: %w", path, err)
	}
	return parse(data)
}

func parse(data []byte) (*Contract, error) {
	var c Contract
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshaling token contract: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid token contract: %w", err)
	}
	return &c, nil
}

// validate enforces the structural invariants the engine depends on.
func (c *Contract) validate() error {
	if c.TokenNamespace == "" {
		return fmt.Errorf("token_namespace must be set")
	}
	if len(c.SanctionedFonts) == 0 {
		return fmt.Errorf("sanctioned_fonts must not be empty")
	}
	for _, p := range c.ComponentPrefixes {
		if !strings.HasSuffix(p, "-") {
			return fmt.Errorf("component prefix %q must end with '-'", p)
		}
	}
	for _, p := range c.HookPrefixes {
		if !strings.HasSuffix(p, "-") {
			return fmt.Errorf("hook prefix %q must end with '-'", p)
		}
	}
	return nil
}

// SuggestionFor returns the suggested replacement for a utility class,
// falling back to a generic token-system pointer.
func (c *Contract) SuggestionFor(class string) string {
	if s, ok := c.Suggestions[class]; ok {
		return s
	}
	return fmt.Sprintf("replace %q with its %s* token equivalent", class, c.TokenNamespace)
}

// FontSanctioned reports whether a resolved font-family contains any
// sanctioned identifier. Matching is case-insensitive and substring
// based, so "Aurora Sans, sans-serif" passes on either identifier.
func (c *Contract) FontSanctioned(fontFamily string) bool {
	lower := strings.ToLower(fontFamily)
	for _, f := range c.SanctionedFonts {
		if strings.Contains(lower, strings.ToLower(f)) {
			return true
		}
	}
	return false
}
