// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package engine

import (
	"testing"

	"github.com/AleutianAI/uiaudit/services/audit/tokens"
)

func loadContract(t *testing.T) *tokens.Contract {
	t.Helper()
	c, err := tokens.Load()
	if err != nil {
		t.Fatalf("loading embedded contract: %v", err)
	}
	return c
}

func TestAllowListExactSet(t *testing.T) {
	allow := NewAllowList(loadContract(t), false)

	for _, class := range []string{"btn", "card", "ds-spacing-4", "legacy-grid"} {
		if !allow.Allowed(class) {
			t.Errorf("exact allow-list entry %q should be sanctioned", class)
		}
	}
}

func TestAllowListStructuralPredicates(t *testing.T) {
	allow := NewAllowList(loadContract(t), false)

	tests := []struct {
		name  string
		class string
		want  bool
	}{
		{"component prefix", "btn-cta-large", true},
		{"modal prefix", "modal-scrim", true},
		{"token namespace", "ds-anything-new", true},
		{"js hook", "js-toggle", true},
		{"qa hook", "qa-submit-button", true},
		{"a11y helper", "sr-only", true},
		{"kebab heuristic", "hero-banner", true},
		{"three segments", "hero-banner-wide", false},
		{"digit segment", "p-4", false},
		{"single word", "widget", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := allow.Allowed(tc.class); got != tc.want {
				t.Errorf("Allowed(%q) = %v, want %v", tc.class, got, tc.want)
			}
		})
	}
}

func TestAllowListStrictTwoSegment(t *testing.T) {
	allow := NewAllowList(loadContract(t), true)

	// Without the kebab heuristic, generic two-word names stand.
	if allow.Allowed("hero-banner") {
		t.Error("strict mode should not sanction hero-banner")
	}
	// Exact entries and prefixes still win.
	if !allow.Allowed("btn") {
		t.Error("strict mode should keep exact allow-list entries")
	}
	if !allow.Allowed("modal-scrim") {
		t.Error("strict mode should keep component prefixes")
	}
}

// The broad kebab heuristic knowingly suppresses two-word utility
// shapes like mx-auto; strict mode is the tightened variant.
func TestKebabHeuristicSuppressesTwoWordUtilities(t *testing.T) {
	relaxed := NewAllowList(loadContract(t), false)
	strict := NewAllowList(loadContract(t), true)

	if !relaxed.Allowed("mx-auto") {
		t.Error("relaxed policy should suppress mx-auto via the kebab heuristic")
	}
	if strict.Allowed("mx-auto") {
		t.Error("strict policy should flag mx-auto")
	}
}
