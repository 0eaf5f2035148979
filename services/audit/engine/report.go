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
	"math"
	"time"
)

// recommendationTable holds the fixed remediation text per kind. At
// most one recommendation per kind ever enters a report, in kindOrder.
var recommendationTable = map[ViolationKind]Recommendation{
	KindNonDesignSystemClass: {
		Priority: SeverityHigh,
		Action:   "Replace raw utility classes with their token-namespace equivalents",
		Impact:   "Restores spacing/layout consistency across the design system",
	},
	KindHardcodedColor: {
		Priority: SeverityHigh,
		Action:   "Move literal colors into color tokens and reference them with var()",
		Impact:   "Keeps the palette themeable and accessible from one place",
	},
	KindHardcodedSpacing: {
		Priority: SeverityMedium,
		Action:   "Replace pixel literals with spacing tokens",
		Impact:   "Preserves the vertical rhythm defined by the spacing scale",
	},
	KindNonDesignSystemFont: {
		Priority: SeverityHigh,
		Action:   "Declare fonts through the font tokens instead of inline families",
		Impact:   "Prevents off-brand typography from shipping",
	},
	KindComputedFontViolation: {
		Priority: SeverityHigh,
		Action:   "Remove overrides so elements inherit the brand font stack",
		Impact:   "Guarantees every rendered glyph uses a sanctioned family",
	},
}

// GenerateReport derives a report from the current violation log and
// element count without re-scanning the tree. It holds no independent
// state; discard and regenerate freely.
func (a *Auditor) GenerateReport() *Report {
	total := a.doc.Len()
	count := len(a.violations)

	score := 100
	if total > 0 {
		score = int(math.Round(math.Max(0, float64(total-count)) / float64(total) * 100))
	}

	byType := make(map[ViolationKind]int)
	bySeverity := make(map[Severity]int)
	for _, v := range a.violations {
		byType[v.Kind]++
		bySeverity[v.Severity]++
	}

	var recs []Recommendation
	for _, kind := range kindOrder {
		if byType[kind] > 0 {
			recs = append(recs, recommendationTable[kind])
		}
	}

	status := StatusFailing
	if score >= 90 {
		status = StatusPassing
	}

	return &Report{
		SessionID:            a.SessionID,
		Timestamp:            time.Now(),
		ComplianceScore:      score,
		Grade:                gradeFor(score),
		Status:               status,
		TotalElements:        total,
		ViolationCount:       count,
		ViolationsByType:     byType,
		ViolationsBySeverity: bySeverity,
		Violations:           a.Violations(),
		Recommendations:      recs,
	}
}

// gradeFor maps a score onto the fixed letter ladder.
func gradeFor(score int) Grade {
	switch {
	case score >= 95:
		return GradeAPlus
	case score >= 90:
		return GradeA
	case score >= 85:
		return GradeBPlus
	case score >= 80:
		return GradeB
	case score >= 75:
		return GradeCPlus
	case score >= 70:
		return GradeC
	case score >= 65:
		return GradeD
	default:
		return GradeF
	}
}
