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
	"strings"

	"github.com/AleutianAI/uiaudit/services/audit/dom"
)

// Reserved marker namespace. Every write the monitor performs on the
// tree uses these names, and incoming mutations confined to them are
// filtered out before classification so the monitor never re-triggers
// itself.
const (
	// MarkerClass highlights a violating element.
	MarkerClass = "uiaudit-flag"

	// NoteAttr carries the tooltip-style explanation.
	NoteAttr = "data-uiaudit-note"

	// StylesheetAttr tags the injected diagnostic stylesheet element.
	StylesheetAttr = "data-uiaudit-stylesheet"
)

// diagnosticCSS visually flags marked elements. The selectors target
// only the marker class, so the stylesheet never matches its own
// carrier element.
const diagnosticCSS = `
.` + MarkerClass + ` { outline: 2px dashed #E74C3C; outline-offset: 1px; position: relative; }
.` + MarkerClass + `::after { content: attr(` + NoteAttr + `); position: absolute; top: 100%; left: 0;
  background: #0F1923; color: #F4D03F; font: 11px/1.4 monospace; padding: 2px 6px; z-index: 9999; }
`

// monitor is the live re-validation state owned by an Auditor.
type monitor struct {
	subID   int
	styleEl *dom.Element
	marked  map[*dom.Element]struct{}
}

// DevModeEnabled reports whether the live monitor is active.
func (a *Auditor) DevModeEnabled() bool {
	return a.monitor != nil
}

// EnableDevMode starts the live session: it injects the diagnostic
// stylesheet and subscribes to tree mutations, re-validating inserted
// elements and class/style changes incrementally. Idempotent; enabling
// an enabled auditor is a no-op.
func (a *Auditor) EnableDevMode() {
	if a.monitor != nil {
		return
	}
	m := &monitor{marked: make(map[*dom.Element]struct{})}

	// Inject before subscribing so the stylesheet insertion is never
	// delivered back to the monitor.
	m.styleEl = dom.NewElement("style", StylesheetAttr, "true")
	m.styleEl.Text = diagnosticCSS
	if err := a.doc.AppendChild(a.doc.Root(), m.styleEl); err != nil {
		a.logger.Warn("dev mode stylesheet injection failed", "error", err)
		m.styleEl = nil
	}

	m.subID = a.doc.Subscribe(func(batch []dom.Mutation) {
		a.handleMutations(m, batch)
	})
	a.monitor = m
	a.logger.Info("dev mode enabled")
}

// DisableDevMode stops the live session and restores the tree to its
// pre-enable visual state: unsubscribes, removes the stylesheet, and
// strips every marker and tooltip. Idempotent.
func (a *Auditor) DisableDevMode() {
	m := a.monitor
	if m == nil {
		return
	}
	a.doc.Unsubscribe(m.subID)

	for el := range m.marked {
		el.RemoveClass(MarkerClass)
		el.RemoveAttr(NoteAttr)
	}
	if m.styleEl != nil {
		if err := a.doc.RemoveChild(m.styleEl); err != nil {
			a.logger.Warn("dev mode stylesheet removal failed", "error", err)
		}
	}
	a.monitor = nil
	a.logger.Info("dev mode disabled", "unmarked", len(m.marked))
}

// handleMutations processes one coalesced batch: filters out the
// monitor's own writes, then re-validates affected elements and
// toggles their markers.
func (a *Auditor) handleMutations(m *monitor, batch []dom.Mutation) {
	for _, mut := range batch {
		if a.isOwnWrite(m, mut) {
			continue
		}
		switch mut.Kind {
		case dom.ChildInserted:
			a.refreshMarker(m, mut.Target)
		case dom.AttributeChanged:
			if mut.Attr == "class" || mut.Attr == "style" {
				a.refreshMarker(m, mut.Target)
			}
		case dom.ChildRemoved:
			delete(m.marked, mut.Target)
		}
	}
}

// isOwnWrite reports whether a mutation is confined to the reserved
// marker namespace: a tooltip write, a stylesheet insertion/removal, or
// a class change whose only difference is the marker class itself.
func (a *Auditor) isOwnWrite(m *monitor, mut dom.Mutation) bool {
	if mut.Target == m.styleEl {
		return true
	}
	if mut.Kind != dom.AttributeChanged {
		return false
	}
	if strings.HasPrefix(mut.Attr, "data-uiaudit-") {
		return true
	}
	if mut.Attr != "class" {
		return false
	}
	newValue, _ := mut.Target.Attr("class")
	return classDiffOnlyMarker(mut.OldValue, newValue)
}

// classDiffOnlyMarker reports whether two class attribute values differ
// at most by the marker class.
func classDiffOnlyMarker(oldRaw, newRaw string) bool {
	oldSet := classSet(oldRaw)
	newSet := classSet(newRaw)
	for c := range oldSet {
		if _, ok := newSet[c]; !ok && c != MarkerClass {
			return false
		}
	}
	for c := range newSet {
		if _, ok := oldSet[c]; !ok && c != MarkerClass {
			return false
		}
	}
	return true
}

func classSet(raw string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, c := range strings.Fields(raw) {
		set[c] = struct{}{}
	}
	return set
}

// refreshMarker re-validates one element and toggles its highlight
// marker and tooltip. Violations found here accumulate in the session
// log; live passes never reset it.
func (a *Auditor) refreshMarker(m *monitor, el *dom.Element) {
	violations := a.ValidateElement(el, true)
	if len(violations) > 0 {
		el.AddClass(MarkerClass)
		el.SetAttr(NoteAttr, markerNote(violations))
		m.marked[el] = struct{}{}
		return
	}
	el.RemoveClass(MarkerClass)
	el.RemoveAttr(NoteAttr)
	delete(m.marked, el)
}

// markerNote renders the tooltip text for an element's violations.
func markerNote(violations []Violation) string {
	if len(violations) == 1 {
		v := violations[0]
		return fmt.Sprintf("%s: %s", v.Kind, v.SuggestedFix)
	}
	parts := make([]string, 0, len(violations))
	for _, v := range violations {
		parts = append(parts, string(v.Kind))
	}
	return fmt.Sprintf("%d violations: %s", len(violations), strings.Join(parts, ", "))
}
