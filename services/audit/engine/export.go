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

import "strings"

// csvHeader is the fixed column order of the export.
var csvHeader = []string{"Type", "Severity", "Element", "Violation", "Message", "Fix"}

// ExportViolationsCSV serializes the current violation log: one header
// row, then one row per violation in log order, every field quoted.
// Callable after a one-shot ValidatePage or mid live session; the
// output always reflects the log as it stands.
func (a *Auditor) ExportViolationsCSV() string {
	var b strings.Builder
	writeCSVRow(&b, csvHeader)
	for _, v := range a.violations {
		writeCSVRow(&b, []string{
			string(v.Kind),
			string(v.Severity),
			v.ElementDesc,
			v.MatchedText,
			v.Message,
			v.SuggestedFix,
		})
	}
	return b.String()
}

// writeCSVRow writes one row with every field quoted, doubling embedded
// quotes. Quoting is unconditional so the format is stable regardless
// of field content.
func writeCSVRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}
