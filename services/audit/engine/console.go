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
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Console palette, following the uiaudit CLI theme.
var (
	colorPass  = lipgloss.Color("#2CD7C7")
	colorWarn  = lipgloss.Color("#F4D03F")
	colorFail  = lipgloss.Color("#E74C3C")
	colorMuted = lipgloss.Color("#2C4A54")

	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorPass)
	stylePass  = lipgloss.NewStyle().Foreground(colorPass)
	styleWarn  = lipgloss.NewStyle().Foreground(colorWarn)
	styleFail  = lipgloss.NewStyle().Foreground(colorFail)
	styleMuted = lipgloss.NewStyle().Foreground(colorMuted)
)

// LogReport formats and prints a human-readable summary of
// GenerateReport's output to the auditor's output writer, and returns
// the same report. Styling is dropped when the writer is not a TTY.
func (a *Auditor) LogReport() *Report {
	report := a.GenerateReport()
	paint := consolePainter(a.out)

	var b strings.Builder
	fmt.Fprintln(&b, paint(styleTitle, "Design Token Compliance Report"))
	fmt.Fprintln(&b, paint(styleMuted, "session "+report.SessionID+" at "+report.Timestamp.Format("2006-01-02 15:04:05")))

	statusStyle := stylePass
	if report.Status == StatusFailing {
		statusStyle = styleFail
	}
	fmt.Fprintf(&b, "Score:  %s (grade %s, %s)\n",
		paint(statusStyle, fmt.Sprintf("%d/100", report.ComplianceScore)),
		report.Grade,
		paint(statusStyle, string(report.Status)),
	)
	fmt.Fprintf(&b, "Checked %d elements, found %d violation(s)\n",
		report.TotalElements, report.ViolationCount)

	if report.ViolationCount > 0 {
		fmt.Fprintln(&b, paint(styleTitle, "\nViolations by type"))
		for _, kind := range kindOrder {
			if n := report.ViolationsByType[kind]; n > 0 {
				fmt.Fprintf(&b, "  %-26s %d\n", kind, n)
			}
		}

		fmt.Fprintln(&b, paint(styleTitle, "\nTop findings"))
		for i, v := range report.Violations {
			if i == 10 {
				fmt.Fprintln(&b, paint(styleMuted, fmt.Sprintf("  … %d more", len(report.Violations)-i)))
				break
			}
			sevStyle := styleWarn
			if v.Severity == SeverityHigh {
				sevStyle = styleFail
			}
			fmt.Fprintf(&b, "  %s %-8s %s %s\n",
				paint(sevStyle, "["+string(v.Severity)+"]"),
				v.Kind, v.ElementDesc, v.MatchedText)
		}
	}

	if len(report.Recommendations) > 0 {
		fmt.Fprintln(&b, paint(styleTitle, "\nRecommendations"))
		for _, r := range report.Recommendations {
			fmt.Fprintf(&b, "  [%s] %s\n", r.Priority, r.Action)
			fmt.Fprintln(&b, paint(styleMuted, "         "+r.Impact))
		}
	}

	fmt.Fprint(a.out, b.String())
	return report
}

// consolePainter returns a style applicator that is a no-op when the
// writer is not an interactive terminal.
func consolePainter(w io.Writer) func(lipgloss.Style, string) string {
	if f, ok := w.(*os.File); ok {
		if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
			return func(s lipgloss.Style, text string) string { return s.Render(text) }
		}
	}
	return func(_ lipgloss.Style, text string) string { return text }
}
