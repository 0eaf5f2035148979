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
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/AleutianAI/uiaudit/pkg/logging"
	"github.com/AleutianAI/uiaudit/services/audit/dom"
	"github.com/AleutianAI/uiaudit/services/audit/tokens"
)

// Options configures an Auditor. The zero value loads the embedded
// token contract, resolves computed fonts with the document's cascade
// resolver, and logs to stderr.
type Options struct {
	// Contract overrides the embedded token contract.
	Contract *tokens.Contract

	// Resolver overrides the computed-style resolver. Set to nil with
	// SkipComputedStyles to disable the computed-font check entirely.
	Resolver dom.StyleResolver

	// SkipComputedStyles disables the computed-font check; absence of
	// a resolver degrades gracefully rather than failing.
	SkipComputedStyles bool

	// StrictTwoSegment disables the broad kebab-case allow-list
	// heuristic.
	StrictTwoSegment bool

	// Logger overrides the default stderr logger.
	Logger *logging.Logger

	// Output is the destination for LogReport (default os.Stdout).
	Output io.Writer
}

// Auditor is an explicit validation session: it owns the violation log,
// the dev-mode lifecycle, and nothing else. Callers construct one per
// document (or per test case) and pass nothing through package state;
// independent auditors never observe each other.
type Auditor struct {
	// SessionID tags log lines and reports from this auditor.
	SessionID string

	doc      *dom.Document
	contract *tokens.Contract
	allow    *AllowList
	resolver dom.StyleResolver
	logger   *logging.Logger
	out      io.Writer

	// violations is the session-wide log: reset by ValidatePage,
	// accumulated by ValidateElement and live re-validation.
	violations []Violation

	monitor *monitor
}

// New creates an Auditor over a document.
//
// # Inputs
//
//   - doc: The element tree to audit. Must be non-nil.
//   - opts: Session options; the zero value is a working default.
//
// # Outputs
//
//   - *Auditor: Ready session.
//   - error: Non-nil when doc is nil or the embedded contract fails to load.
func New(doc *dom.Document, opts Options) (*Auditor, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}

	contract := opts.Contract
	if contract == nil {
		var err error
		contract, err = tokens.Load()
		if err != nil {
			return nil, fmt.Errorf("loading embedded contract: %w", err)
		}
	}

	resolver := opts.Resolver
	if resolver == nil && !opts.SkipComputedStyles {
		resolver = dom.NewCascadeResolver(doc)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	sessionID := uuid.NewString()
	return &Auditor{
		SessionID: sessionID,
		doc:       doc,
		contract:  contract,
		allow:     NewAllowList(contract, opts.StrictTwoSegment),
		resolver:  resolver,
		logger:    logger.With("session_id", sessionID),
		out:       out,
	}, nil
}

// Contract returns the token contract this session validates against.
func (a *Auditor) Contract() *tokens.Contract {
	return a.contract
}

// Document returns the audited document.
func (a *Auditor) Document() *dom.Document {
	return a.doc
}

// Violations returns a copy of the current violation log.
func (a *Auditor) Violations() []Violation {
	out := make([]Violation, len(a.violations))
	copy(out, a.violations)
	return out
}

// ValidatePage runs a full-tree pass: it resets the violation log,
// validates every element in document order, and returns a fresh
// report. Two consecutive calls on an unchanged tree produce identical
// counts and ordering. The context carries the trace span only; a pass
// is an atomic unit of work and is never interrupted mid-walk.
func (a *Auditor) ValidatePage(ctx context.Context) *Report {
	ctx, span := startValidateSpan(ctx, a.SessionID)
	defer span.End()
	start := time.Now()

	a.violations = a.violations[:0]
	a.doc.Walk(func(el *dom.Element) {
		a.ValidateElement(el, false)
	})

	report := a.GenerateReport()
	recordValidateMetrics(ctx, time.Since(start), len(a.violations))
	setValidateSpanResult(span, report.TotalElements, report.ViolationCount)

	a.logger.Info("full page validated",
		"elements", report.TotalElements,
		"violations", report.ViolationCount,
		"score", report.ComplianceScore,
	)
	return report
}
