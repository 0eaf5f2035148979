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
)

// Compiled patterns behind the classifier predicates. All matchers are
// pure and stateless, safe to share between one-shot and live passes.
var (
	// Directional spacing shorthands: p-4, px-2, mt-auto, m-0.
	spacingClassPattern = regexp.MustCompile(`^(?:p|px|py|pt|pr|pb|pl|m|mx|my|mt|mr|mb|ml)-(?:\d+|auto)$`)

	// Bare layout keywords used as classes.
	layoutClassPattern = regexp.MustCompile(`^(?:flex|grid|block|inline|inline-block|inline-flex)$`)

	// Colored background/text/border shapes: bg-red-500, text-gray-100.
	colorClassPattern = regexp.MustCompile(`^(?:bg|text|border)-[a-z]+-\d{2,3}$`)

	// Raw typography utilities: text-sm, font-bold, leading-6.
	typographyClassPattern = regexp.MustCompile(`^(?:text-(?:xs|sm|base|lg|xl|\dxl)|font-(?:thin|light|normal|medium|semibold|bold|black)|leading-\d+|tracking-(?:tight|wide))$`)

	// Literal color encodings: hex triplet/sextet and functional notations.
	hexColorPattern  = regexp.MustCompile(`#(?:[0-9a-fA-F]{6}|[0-9a-fA-F]{3})\b`)
	funcColorPattern = regexp.MustCompile(`\b(?:rgb|rgba|hsl|hsla)\s*\(`)

	// Literal pixel magnitudes: 10px, 1px.
	pixelPattern = regexp.MustCompile(`\b\d+px\b`)
)

// Classifier is a named match/no-match predicate over a candidate
// string. New rule kinds plug in here without touching the validator.
type Classifier struct {
	// Name identifies the rule in diagnostics.
	Name string

	// Kind is the violation kind a positive match maps to.
	Kind ViolationKind

	// Matches reports whether the candidate triggers the rule.
	Matches func(candidate string) bool
}

// IsUtilityClass reports whether a class token has the shape of a
// layout/spacing/color/typography utility.
func IsUtilityClass(token string) bool {
	return spacingClassPattern.MatchString(token) ||
		layoutClassPattern.MatchString(token) ||
		colorClassPattern.MatchString(token) ||
		typographyClassPattern.MatchString(token)
}

// HasHardcodedColor reports whether raw style text contains a literal
// color encoding.
func HasHardcodedColor(style string) bool {
	return hexColorPattern.MatchString(style) || funcColorPattern.MatchString(style)
}

// MatchedColor returns the first literal color in the style text, or "".
func MatchedColor(style string) string {
	if m := hexColorPattern.FindString(style); m != "" {
		return m
	}
	if loc := funcColorPattern.FindStringIndex(style); loc != nil {
		// Include the functional call up to its closing paren when present.
		rest := style[loc[0]:]
		if end := strings.IndexByte(rest, ')'); end >= 0 {
			return rest[:end+1]
		}
		return strings.TrimSpace(rest)
	}
	return ""
}

// HasHardcodedSpacing reports whether raw style text contains a literal
// pixel magnitude.
func HasHardcodedSpacing(style string) bool {
	return pixelPattern.MatchString(style)
}

// MatchedSpacing returns the first pixel literal in the style text, or "".
func MatchedSpacing(style string) string {
	return pixelPattern.FindString(style)
}

// NonTokenFontDecl returns the font-family value of a style block when
// that declaration bypasses the token indirection (no var(--…) usage),
// and "" otherwise. An absent declaration is not a match.
func NonTokenFontDecl(style string) string {
	value := inlineStyleValue(style, "font-family")
	if value == "" || strings.Contains(value, "var(--") {
		return ""
	}
	return value
}

// inlineStyleValue extracts one property value from an inline style
// declaration block. Purely textual; the engine does not interpret CSS.
func inlineStyleValue(style, property string) string {
	for _, decl := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), property) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// StyleClassifiers is the pluggable rule table over inline style text.
var StyleClassifiers = []Classifier{
	{
		Name:    "hardcoded-color",
		Kind:    KindHardcodedColor,
		Matches: HasHardcodedColor,
	},
	{
		Name:    "hardcoded-spacing",
		Kind:    KindHardcodedSpacing,
		Matches: HasHardcodedSpacing,
	},
	{
		Name: "non-token-font",
		Kind: KindNonDesignSystemFont,
		Matches: func(style string) bool {
			return NonTokenFontDecl(style) != ""
		},
	},
}
