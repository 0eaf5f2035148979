// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package engine detects deviations from the design-token contract in a
// live UI element tree.
//
// # Description
//
// The engine classifies class names and inline styles with compiled
// pattern predicates, suppresses sanctioned names through an allow-list
// policy, validates single elements or whole documents, re-validates
// incrementally on tree mutations (dev mode), and aggregates results
// into a scored compliance report. It is a lint: it never alters the
// tree beyond reversible diagnostic markers and never fixes violations.
//
// # Thread Safety
//
// An Auditor belongs to a single logical thread of control, matching
// the cooperative, event-driven model of the element tree it inspects.
// Use one Auditor per session; independent auditors do not share state.
package engine

import (
	"strings"
	"time"

	"github.com/AleutianAI/uiaudit/services/audit/dom"
)

// ViolationKind identifies the deviation category. The set is closed;
// reporting iterates kindOrder for exhaustiveness.
type ViolationKind string

const (
	// KindNonDesignSystemClass is a utility-shaped class name outside
	// the token system.
	KindNonDesignSystemClass ViolationKind = "non-design-system-class"

	// KindHardcodedColor is a literal color in an inline style.
	KindHardcodedColor ViolationKind = "hardcoded-color"

	// KindHardcodedSpacing is a literal pixel magnitude in an inline style.
	KindHardcodedSpacing ViolationKind = "hardcoded-spacing"

	// KindNonDesignSystemFont is an inline font-family that bypasses
	// the token indirection.
	KindNonDesignSystemFont ViolationKind = "non-design-system-font"

	// KindComputedFontViolation is a resolved font family containing no
	// sanctioned identifier.
	KindComputedFontViolation ViolationKind = "computed-font-violation"
)

// kindOrder fixes the iteration order used for recommendations and
// exhaustiveness.
var kindOrder = []ViolationKind{
	KindNonDesignSystemClass,
	KindHardcodedColor,
	KindHardcodedSpacing,
	KindNonDesignSystemFont,
	KindComputedFontViolation,
}

// Severity indicates remediation priority. It orders report output and
// never gates pass/fail.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// severityOrder maps severity to numeric order (higher = more urgent).
var severityOrder = map[Severity]int{
	SeverityLow:    1,
	SeverityMedium: 2,
	SeverityHigh:   3,
}

// AtLeast reports whether this severity is at or above the threshold.
func (s Severity) AtLeast(threshold Severity) bool {
	return severityOrder[s] >= severityOrder[threshold]
}

// ParseSeverity converts a string to a Severity, defaulting to low.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return SeverityHigh
	case "medium":
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Violation is one detected deviation from the token contract. It is a
// data result, never an error; records are immutable once appended to
// the auditor's log. Element is a non-owning reference into the
// caller-owned tree.
type Violation struct {
	// Kind categorizes the deviation.
	Kind ViolationKind `json:"kind"`

	// Element is the offending element. Never owned by the engine.
	Element *dom.Element `json:"-"`

	// ElementDesc is a short printable description of Element.
	ElementDesc string `json:"element"`

	// MatchedText is the class token or style fragment that triggered
	// the match.
	MatchedText string `json:"matched_text"`

	// Message explains the deviation.
	Message string `json:"message"`

	// Severity indicates remediation priority.
	Severity Severity `json:"severity"`

	// SuggestedFix points at the token-system replacement.
	SuggestedFix string `json:"suggested_fix"`
}

// Status is the report's pass/fail verdict.
type Status string

const (
	StatusPassing Status = "PASSING"
	StatusFailing Status = "FAILING"
)

// Grade is the letter grade on the fixed score ladder.
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeBPlus Grade = "B+"
	GradeB     Grade = "B"
	GradeCPlus Grade = "C+"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
	GradeF     Grade = "F"
)

// Recommendation is a prioritized remediation hint, derived
// deterministically from which violation kinds are present.
type Recommendation struct {
	Priority Severity `json:"priority"`
	Action   string   `json:"action"`
	Impact   string   `json:"impact"`
}

// Report aggregates a violation log into counts, a compliance score, a
// grade, and recommendations. It is derived state: safe to discard and
// regenerate at any time.
type Report struct {
	// SessionID identifies the auditor that produced the report.
	SessionID string `json:"session_id"`

	// Timestamp is when the report was generated.
	Timestamp time.Time `json:"timestamp"`

	// ComplianceScore is the rounded percentage of clean elements
	// (0-100; 100 for an empty tree).
	ComplianceScore int `json:"compliance_score"`

	// Grade is the letter on the fixed score ladder.
	Grade Grade `json:"grade"`

	// Status is PASSING iff ComplianceScore >= 90.
	Status Status `json:"status"`

	// TotalElements is the element count at generation time.
	TotalElements int `json:"total_elements"`

	// ViolationCount is the length of the violation log.
	ViolationCount int `json:"violation_count"`

	// ViolationsByType counts violations per kind.
	ViolationsByType map[ViolationKind]int `json:"violations_by_type"`

	// ViolationsBySeverity counts violations per severity.
	ViolationsBySeverity map[Severity]int `json:"violations_by_severity"`

	// Violations is the log in detection order.
	Violations []Violation `json:"violations"`

	// Recommendations lists at most one remediation hint per kind, in
	// fixed kind order.
	Recommendations []Recommendation `json:"recommendations"`
}
