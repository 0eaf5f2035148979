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
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/uiaudit/pkg/logging"
	"github.com/AleutianAI/uiaudit/services/audit/dom"
)

// newTestAuditor builds an auditor over an empty document with quiet
// logging and the embedded contract. The document default font is
// sanctioned so computed-font checks stay silent unless a test opts in.
func newTestAuditor(t *testing.T) (*Auditor, *dom.Document) {
	t.Helper()

	doc := dom.NewDocument()
	doc.DefaultFontFamily = "Aurora Sans, sans-serif"

	a, err := New(doc, Options{
		Logger: logging.New(logging.Config{Quiet: true}),
		Output: &bytes.Buffer{},
	})
	require.NoError(t, err)
	return a, doc
}

func mustAppend(t *testing.T, doc *dom.Document, parent, child *dom.Element) {
	t.Helper()
	require.NoError(t, doc.AppendChild(parent, child))
}

func TestNewRequiresDocument(t *testing.T) {
	_, err := New(nil, Options{})
	assert.ErrorIs(t, err, ErrNilDocument)
}

func TestValidateElementUtilityClass(t *testing.T) {
	a, doc := newTestAuditor(t)

	el := dom.NewElement("div", "class", "p-4 btn hero-banner")
	mustAppend(t, doc, doc.Root(), el)

	violations := a.ValidateElement(el, true)
	require.Len(t, violations, 1)

	v := violations[0]
	assert.Equal(t, KindNonDesignSystemClass, v.Kind)
	assert.Equal(t, SeverityHigh, v.Severity)
	assert.Equal(t, "p-4", v.MatchedText)
	assert.Equal(t, "use ds-spacing-4", v.SuggestedFix)
	assert.Same(t, el, v.Element)
}

func TestValidateElementAllowListedOnly(t *testing.T) {
	a, doc := newTestAuditor(t)

	el := dom.NewElement("button", "class", "btn btn-primary")
	mustAppend(t, doc, doc.Root(), el)

	assert.Empty(t, a.ValidateElement(el, true))
	assert.Empty(t, a.Violations())
}

func TestValidateElementNoClassAttribute(t *testing.T) {
	a, doc := newTestAuditor(t)

	el := dom.NewElement("div")
	mustAppend(t, doc, doc.Root(), el)

	assert.Empty(t, a.ValidateElement(el, true))
}

func TestValidateElementInlineStyle(t *testing.T) {
	a, doc := newTestAuditor(t)

	el := dom.NewElement("div", "style", "color: #ff0000; margin: 10px;")
	mustAppend(t, doc, doc.Root(), el)

	violations := a.ValidateElement(el, true)
	require.Len(t, violations, 2)

	assert.Equal(t, KindHardcodedColor, violations[0].Kind)
	assert.Equal(t, SeverityHigh, violations[0].Severity)
	assert.Equal(t, "#ff0000", violations[0].MatchedText)

	assert.Equal(t, KindHardcodedSpacing, violations[1].Kind)
	assert.Equal(t, SeverityMedium, violations[1].Severity)
	assert.Equal(t, "10px", violations[1].MatchedText)
}

func TestValidateElementComputedFont(t *testing.T) {
	a, doc := newTestAuditor(t)
	doc.DefaultFontFamily = "Arial"

	// Class list is irrelevant to the computed-font rule.
	el := dom.NewElement("p", "class", "btn")
	mustAppend(t, doc, doc.Root(), el)

	violations := a.ValidateElement(el, true)
	require.Len(t, violations, 1)
	assert.Equal(t, KindComputedFontViolation, violations[0].Kind)
	assert.Equal(t, SeverityHigh, violations[0].Severity)
	assert.Equal(t, "Arial", violations[0].MatchedText)
}

func TestValidateElementNoResolver(t *testing.T) {
	doc := dom.NewDocument()
	a, err := New(doc, Options{
		SkipComputedStyles: true,
		Logger:             logging.New(logging.Config{Quiet: true}),
		Output:             &bytes.Buffer{},
	})
	require.NoError(t, err)

	el := dom.NewElement("p", "style", "font-family: Comic Sans MS")
	mustAppend(t, doc, doc.Root(), el)

	// The inline font rule still fires; only the computed check is skipped.
	violations := a.ValidateElement(el, true)
	require.Len(t, violations, 1)
	assert.Equal(t, KindNonDesignSystemFont, violations[0].Kind)
}

func TestValidateElementSideEffectOnly(t *testing.T) {
	a, doc := newTestAuditor(t)

	el := dom.NewElement("div", "class", "p-4")
	mustAppend(t, doc, doc.Root(), el)

	// returnViolations=false returns nil but still appends to the log.
	assert.Nil(t, a.ValidateElement(el, false))
	assert.Len(t, a.Violations(), 1)
}

func TestValidatePageResetsLog(t *testing.T) {
	a, doc := newTestAuditor(t)

	mustAppend(t, doc, doc.Root(), dom.NewElement("div", "class", "p-4"))
	mustAppend(t, doc, doc.Root(), dom.NewElement("div", "class", "btn"))

	first := a.ValidatePage(context.Background())
	assert.Equal(t, 1, first.ViolationCount)

	// A second pass over the unchanged tree is identical, not doubled.
	second := a.ValidatePage(context.Background())
	assert.Equal(t, first.ViolationCount, second.ViolationCount)
	assert.Equal(t, first.ViolationsByType, second.ViolationsByType)
	require.Equal(t, len(first.Violations), len(second.Violations))
	for i := range first.Violations {
		assert.Equal(t, first.Violations[i].MatchedText, second.Violations[i].MatchedText)
	}
}

func TestValidatePageDocumentOrder(t *testing.T) {
	a, doc := newTestAuditor(t)

	outer := dom.NewElement("section", "class", "p-2")
	mustAppend(t, doc, doc.Root(), outer)
	mustAppend(t, doc, outer, dom.NewElement("div", "class", "p-4"))
	mustAppend(t, doc, doc.Root(), dom.NewElement("div", "class", "p-8"))

	report := a.ValidatePage(context.Background())
	require.Equal(t, 3, report.ViolationCount)
	assert.Equal(t, "p-2", report.Violations[0].MatchedText)
	assert.Equal(t, "p-4", report.Violations[1].MatchedText)
	assert.Equal(t, "p-8", report.Violations[2].MatchedText)
}

func TestReportCleanTree(t *testing.T) {
	a, doc := newTestAuditor(t)

	for i := 0; i < 4; i++ {
		mustAppend(t, doc, doc.Root(), dom.NewElement("div", "class", "card"))
	}

	report := a.ValidatePage(context.Background())
	assert.Equal(t, 100, report.ComplianceScore)
	assert.Equal(t, GradeAPlus, report.Grade)
	assert.Equal(t, StatusPassing, report.Status)
	assert.Equal(t, 4, report.TotalElements)
	assert.Empty(t, report.Recommendations)
}

func TestReportEmptyTree(t *testing.T) {
	a, _ := newTestAuditor(t)

	report := a.ValidatePage(context.Background())
	assert.Equal(t, 100, report.ComplianceScore)
	assert.Equal(t, GradeAPlus, report.Grade)
	assert.Equal(t, 0, report.TotalElements)
}

func TestReportScoreAndStatus(t *testing.T) {
	a, doc := newTestAuditor(t)

	// 10 elements, 2 violating: score 80, grade B, failing.
	for i := 0; i < 8; i++ {
		mustAppend(t, doc, doc.Root(), dom.NewElement("div", "class", "card"))
	}
	mustAppend(t, doc, doc.Root(), dom.NewElement("div", "class", "p-4"))
	mustAppend(t, doc, doc.Root(), dom.NewElement("div", "class", "m-2"))

	report := a.ValidatePage(context.Background())
	assert.Equal(t, 80, report.ComplianceScore)
	assert.Equal(t, GradeB, report.Grade)
	assert.Equal(t, StatusFailing, report.Status)
	assert.Equal(t, 2, report.ViolationsByType[KindNonDesignSystemClass])
	assert.Equal(t, 2, report.ViolationsBySeverity[SeverityHigh])
}

func TestReportScoreClampsAtZero(t *testing.T) {
	a, doc := newTestAuditor(t)

	// One element with more violations than elements.
	el := dom.NewElement("div",
		"class", "p-4 m-2 flex",
		"style", "color: #f00; margin: 3px;",
	)
	mustAppend(t, doc, doc.Root(), el)

	report := a.ValidatePage(context.Background())
	assert.Equal(t, 0, report.ComplianceScore)
	assert.Equal(t, GradeF, report.Grade)
}

func TestRecommendationsFixedOrderAndDeduped(t *testing.T) {
	a, doc := newTestAuditor(t)

	mustAppend(t, doc, doc.Root(), dom.NewElement("div", "class", "p-4 m-2"))
	mustAppend(t, doc, doc.Root(), dom.NewElement("div", "style", "margin: 3px"))
	mustAppend(t, doc, doc.Root(), dom.NewElement("div", "style", "color: #f00"))

	report := a.ValidatePage(context.Background())

	require.Len(t, report.Recommendations, 3)
	// Fixed kind order regardless of detection order: class, color, spacing.
	assert.Equal(t, recommendationTable[KindNonDesignSystemClass], report.Recommendations[0])
	assert.Equal(t, recommendationTable[KindHardcodedColor], report.Recommendations[1])
	assert.Equal(t, recommendationTable[KindHardcodedSpacing], report.Recommendations[2])
}

func TestGradeLadder(t *testing.T) {
	tests := []struct {
		score int
		want  Grade
	}{
		{100, GradeAPlus}, {95, GradeAPlus},
		{94, GradeA}, {90, GradeA},
		{89, GradeBPlus}, {85, GradeBPlus},
		{84, GradeB}, {80, GradeB},
		{79, GradeCPlus}, {75, GradeCPlus},
		{74, GradeC}, {70, GradeC},
		{69, GradeD}, {65, GradeD},
		{64, GradeF}, {0, GradeF},
	}

	for _, tc := range tests {
		if got := gradeFor(tc.score); got != tc.want {
			t.Errorf("gradeFor(%d) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestExportViolationsCSV(t *testing.T) {
	a, doc := newTestAuditor(t)

	mustAppend(t, doc, doc.Root(), dom.NewElement("div", "class", "p-4"))
	mustAppend(t, doc, doc.Root(), dom.NewElement("div", "style", "color: #f00"))
	a.ValidatePage(context.Background())

	csv := a.ExportViolationsCSV()
	lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")

	require.Len(t, lines, 3, "header plus one row per violation")
	assert.Equal(t, `"Type","Severity","Element","Violation","Message","Fix"`, lines[0])
	assert.Contains(t, lines[1], `"non-design-system-class"`)
	assert.Contains(t, lines[1], `"p-4"`)
	assert.Contains(t, lines[2], `"hardcoded-color"`)

	// Every field is quoted.
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, `"`) && strings.HasSuffix(line, `"`), line)
	}
}

func TestExportCSVEmptyLog(t *testing.T) {
	a, _ := newTestAuditor(t)
	csv := a.ExportViolationsCSV()
	assert.Equal(t, `"Type","Severity","Element","Violation","Message","Fix"`+"\n", csv)
}

func TestCSVQuoteEscaping(t *testing.T) {
	var b strings.Builder
	writeCSVRow(&b, []string{`say "hi"`, "plain"})
	assert.Equal(t, `"say ""hi""","plain"`+"\n", b.String())
}

func TestIndependentAuditors(t *testing.T) {
	a1, doc1 := newTestAuditor(t)
	a2, _ := newTestAuditor(t)

	mustAppend(t, doc1, doc1.Root(), dom.NewElement("div", "class", "p-4"))
	a1.ValidatePage(context.Background())

	assert.Len(t, a1.Violations(), 1)
	assert.Empty(t, a2.Violations(), "sessions must not share state")
	assert.NotEqual(t, a1.SessionID, a2.SessionID)
}

func TestLogReportOutput(t *testing.T) {
	doc := dom.NewDocument()
	require.NoError(t, doc.AppendChild(doc.Root(), dom.NewElement("div", "class", "p-4")))

	var out bytes.Buffer
	a, err := New(doc, Options{
		Logger: logging.New(logging.Config{Quiet: true}),
		Output: &out,
	})
	require.NoError(t, err)

	a.ValidatePage(context.Background())
	report := a.LogReport()

	text := out.String()
	assert.Contains(t, text, "Design Token Compliance Report")
	assert.Contains(t, text, "FAILING")
	assert.Contains(t, text, "non-design-system-class")
	assert.Equal(t, report.ViolationCount, 1)
	// No ANSI escapes on a plain buffer.
	assert.NotContains(t, text, "\x1b[")
}
