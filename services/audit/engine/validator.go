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
	"fmt"

	"github.com/AleutianAI/uiaudit/services/audit/dom"
)

// ValidateElement checks one element against every rule and appends its
// violations to the session log. When returnViolations is false it
// returns nil and the caller relies on the log append alone.
//
// All checks are independent; an earlier hit never short-circuits a
// later rule. Absence of a signal (no class attribute, no inline style,
// unresolvable font) is "nothing to check", never a violation.
func (a *Auditor) ValidateElement(el *dom.Element, returnViolations bool) []Violation {
	if el == nil {
		return nil
	}

	var found []Violation

	// Class tokens. Skipped entirely when the attribute is absent.
	if _, ok := el.Attr("class"); ok {
		for _, token := range el.ClassList() {
			if !IsUtilityClass(token) || a.allow.Allowed(token) {
				continue
			}
			found = append(found, Violation{
				Kind:         KindNonDesignSystemClass,
				Element:      el,
				ElementDesc:  describeElement(el),
				MatchedText:  token,
				Message:      fmt.Sprintf("class %q is a raw utility outside the token system", token),
				Severity:     SeverityHigh,
				SuggestedFix: a.contract.SuggestionFor(token),
			})
		}
	}

	// Inline style text. Each style rule fires independently.
	if style, ok := el.InlineStyle(); ok {
		if HasHardcodedColor(style) {
			found = append(found, Violation{
				Kind:         KindHardcodedColor,
				Element:      el,
				ElementDesc:  describeElement(el),
				MatchedText:  MatchedColor(style),
				Message:      "inline style hardcodes a literal color",
				Severity:     SeverityHigh,
				SuggestedFix: fmt.Sprintf("use a var(--%scolor-*) token", a.contract.TokenNamespace),
			})
		}
		if HasHardcodedSpacing(style) {
			found = append(found, Violation{
				Kind:         KindHardcodedSpacing,
				Element:      el,
				ElementDesc:  describeElement(el),
				MatchedText:  MatchedSpacing(style),
				Message:      "inline style hardcodes a pixel magnitude",
				Severity:     SeverityMedium,
				SuggestedFix: fmt.Sprintf("use a var(--%sspacing-*) token", a.contract.TokenNamespace),
			})
		}
		if decl := NonTokenFontDecl(style); decl != "" {
			found = append(found, Violation{
				Kind:         KindNonDesignSystemFont,
				Element:      el,
				ElementDesc:  describeElement(el),
				MatchedText:  decl,
				Message:      "inline font-family bypasses the token indirection",
				Severity:     SeverityHigh,
				SuggestedFix: fmt.Sprintf("use var(--%sfont-body) or var(--%sfont-heading)", a.contract.TokenNamespace, a.contract.TokenNamespace),
			})
		}
	}

	// Computed font. Skipped when no resolver is available or the font
	// cannot be resolved (environment gap, not a violation).
	if a.resolver != nil {
		if family := a.resolver.ComputedFontFamily(el); family != "" && !a.contract.FontSanctioned(family) {
			found = append(found, Violation{
				Kind:         KindComputedFontViolation,
				Element:      el,
				ElementDesc:  describeElement(el),
				MatchedText:  family,
				Message:      fmt.Sprintf("computed font %q contains no sanctioned family", family),
				Severity:     SeverityHigh,
				SuggestedFix: "inherit the brand font stack instead of overriding font-family",
			})
		}
	}

	if len(found) > 0 {
		a.violations = append(a.violations, found...)
		for _, v := range found {
			recordViolation(string(v.Kind))
		}
	}

	if !returnViolations {
		return nil
	}
	return found
}

// describeElement renders a short printable reference for reports:
// tag plus id or first class when present.
func describeElement(el *dom.Element) string {
	if id, ok := el.Attr("id"); ok && id != "" {
		return fmt.Sprintf("<%s#%s>", el.Tag, id)
	}
	if classes := el.ClassList(); len(classes) > 0 {
		return fmt.Sprintf("<%s.%s>", el.Tag, classes[0])
	}
	return fmt.Sprintf("<%s>", el.Tag)
}
