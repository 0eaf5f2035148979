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
	"regexp"
	"strings"

	"github.com/AleutianAI/uiaudit/services/audit/tokens"
)

// kebabPattern is the generic two-segment kebab-case shape. It is an
// intentionally broad heuristic that keeps component-specific
// identifiers outside the token system from being flagged; it also
// suppresses any genuine two-word utility name (e.g. a hypothetical
// dark-mode toggle), which is why StrictTwoSegment exists.
var kebabPattern = regexp.MustCompile(`^[a-z]+-[a-z]+$`)

// AllowList suppresses false-positive class matches. Exact names are
// checked first and always win; structural predicates run second.
type AllowList struct {
	exact            map[string]struct{}
	prefixes         []string
	hookPrefixes     []string
	hooks            map[string]struct{}
	namespace        string
	strictTwoSegment bool
}

// NewAllowList builds the policy from a token contract. When
// strictTwoSegment is true the kebab-case heuristic is disabled and
// only exact names, prefixes, and hook conventions suppress a match.
func NewAllowList(contract *tokens.Contract, strictTwoSegment bool) *AllowList {
	a := &AllowList{
		exact:            make(map[string]struct{}, len(contract.AllowedClasses)),
		prefixes:         contract.ComponentPrefixes,
		hookPrefixes:     contract.HookPrefixes,
		hooks:            make(map[string]struct{}, len(contract.HookClasses)),
		namespace:        contract.TokenNamespace,
		strictTwoSegment: strictTwoSegment,
	}
	for _, c := range contract.AllowedClasses {
		a.exact[c] = struct{}{}
	}
	for _, c := range contract.HookClasses {
		a.hooks[c] = struct{}{}
	}
	return a
}

// Allowed reports whether a class token is sanctioned. Policy
// precedence: exact allow-list first, then structural exception
// predicates; if neither fires the match stands as a violation.
func (a *AllowList) Allowed(class string) bool {
	if _, ok := a.exact[class]; ok {
		return true
	}
	return a.structuralException(class)
}

// structuralException is the prefix/shape second line of the policy.
func (a *AllowList) structuralException(class string) bool {
	if strings.HasPrefix(class, a.namespace) {
		return true
	}
	for _, p := range a.prefixes {
		if strings.HasPrefix(class, p) {
			return true
		}
	}
	for _, p := range a.hookPrefixes {
		if strings.HasPrefix(class, p) {
			return true
		}
	}
	if _, ok := a.hooks[class]; ok {
		return true
	}
	if a.strictTwoSegment {
		return false
	}
	return kebabPattern.MatchString(class)
}
