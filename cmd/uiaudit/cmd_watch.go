// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/uiaudit/services/audit/dom"
	"github.com/AleutianAI/uiaudit/services/audit/engine"
)

var watchCmd = &cobra.Command{
	Use:   "watch [file.html]",
	Short: "Watch a markup file and re-audit on every save",
	Long: `Run a live audit session against a markup file. The file is parsed
and validated once, dev mode marks violating elements in the tree, and
every save re-validates. Small edits (class or style changes, appended
elements) are replayed into the live tree so the monitor re-checks only
what changed; structural rewrites rebuild the session.

Stop with Ctrl-C; the final report decides the exit code.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runWatch(args[0]))
	},
}

func init() {
	watchCmd.Flags().StringVar(&auditContract, "contract", "",
		"token contract YAML (default embedded, or UIAUDIT_CONTRACT)")
	watchCmd.Flags().IntVar(&auditThreshold, "threshold", 90,
		"minimum compliance score for exit code 0")
	watchCmd.Flags().BoolVar(&auditStrict, "strict", false,
		"disable the two-segment kebab-case allowance")
	watchCmd.Flags().BoolVar(&auditNoFonts, "no-computed-fonts", false,
		"skip the computed font-family check")
	rootCmd.AddCommand(watchCmd)
}

// =============================================================================
// Implementation
// =============================================================================

func runWatch(path string) int {
	auditor, err := buildAuditor(path)
	if err != nil {
		cliLogger.Error("watch setup failed", "error", err)
		fmt.Fprintf(os.Stderr, "uiaudit: %v\n", err)
		return ExitError
	}

	auditor.EnableDevMode()
	report := auditor.ValidatePage(context.Background())
	auditor.LogReport()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "uiaudit: creating watcher: %v\n", err)
		return ExitError
	}
	defer watcher.Close()

	// Watch the directory rather than the file: most editors replace
	// the file on save, which drops a direct watch.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		fmt.Fprintf(os.Stderr, "uiaudit: watching %s: %v\n", dir, err)
		return ExitError
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cliLogger.Info("watching for changes", "path", path)
	target := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			auditor.DisableDevMode()
			fmt.Fprintf(os.Stdout, "final score: %d (%s)\n",
				report.ComplianceScore, report.Grade)
			if report.ComplianceScore < auditThreshold {
				return ExitViolations
			}
			return ExitSuccess

		case ev, ok := <-watcher.Events:
			if !ok {
				return ExitError
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			// Editors emit bursts of events per save; let the file settle.
			time.Sleep(50 * time.Millisecond)

			fresh, err := parseInput(path)
			if err != nil {
				cliLogger.Warn("re-parse failed, keeping last session", "error", err)
				continue
			}

			if !replayChanges(auditor.Document(), fresh) {
				auditor.DisableDevMode()
				next, err := engine.New(fresh, engine.Options{
					Contract:           auditor.Contract(),
					SkipComputedStyles: auditNoFonts,
					StrictTwoSegment:   auditStrict,
					Logger:             cliLogger,
				})
				if err != nil {
					cliLogger.Warn("session rebuild failed", "error", err)
					continue
				}
				auditor = next
				auditor.EnableDevMode()
			}

			report = auditor.ValidatePage(ctx)
			fmt.Fprintf(os.Stdout, "%s  score %d (%s)  %d violation(s)\n",
				time.Now().Format("15:04:05"), report.ComplianceScore,
				report.Grade, report.ViolationCount)

		case err, ok := <-watcher.Errors:
			if !ok {
				return ExitError
			}
			cliLogger.Warn("watcher error", "error", err)
		}
	}
}

// replayChanges maps a freshly parsed tree onto the live one. Class and
// style edits on position-matched elements become attribute mutations,
// and trailing insertions become appends, so the dev-mode monitor sees
// them as ordinary tree activity. Returns false when the trees diverge
// structurally and the caller must rebuild the session.
func replayChanges(live *dom.Document, fresh *dom.Document) bool {
	liveEls := collectAudited(live)
	freshEls := collectAudited(fresh)

	if len(freshEls) < len(liveEls) {
		return false
	}
	for i := range liveEls {
		if liveEls[i].Tag != freshEls[i].Tag {
			return false
		}
	}

	// Insertions are replayable only when every new element hangs off a
	// matched parent or an earlier new element.
	counterpart := make(map[*dom.Element]*dom.Element, len(freshEls))
	for i := range liveEls {
		counterpart[freshEls[i]] = liveEls[i]
	}
	for _, el := range freshEls[len(liveEls):] {
		if _, ok := counterpart[el.Parent()]; !ok && el.Parent() != fresh.Root() {
			return false
		}
	}

	live.Batch(func() {
		for i, liveEl := range liveEls {
			syncAttr(liveEl, freshEls[i], "class")
			syncAttr(liveEl, freshEls[i], "style")
		}
		for _, freshEl := range freshEls[len(liveEls):] {
			parent := counterpart[freshEl.Parent()]
			if parent == nil {
				parent = live.Root()
			}
			clone := dom.NewElement(freshEl.Tag, flattenAttrs(freshEl.Attrs())...)
			clone.Text = freshEl.Text
			if err := live.AppendChild(parent, clone); err != nil {
				continue
			}
			counterpart[freshEl] = clone
		}
	})
	return true
}

// collectAudited walks a document skipping elements owned by the audit
// session itself (the injected diagnostic stylesheet).
func collectAudited(doc *dom.Document) []*dom.Element {
	var els []*dom.Element
	doc.Walk(func(el *dom.Element) {
		if _, ok := el.Attr(engine.StylesheetAttr); ok {
			return
		}
		els = append(els, el)
	})
	return els
}

// syncAttr applies the fresh value of one attribute to the live element,
// ignoring differences that are only the session's own highlight marker.
func syncAttr(liveEl, freshEl *dom.Element, name string) {
	liveVal, liveOK := liveEl.Attr(name)
	freshVal, freshOK := freshEl.Attr(name)

	if name == "class" && liveOK {
		liveVal = stripMarker(liveVal)
		liveOK = liveVal != ""
	}

	switch {
	case freshOK && (!liveOK || liveVal != freshVal):
		liveEl.SetAttr(name, freshVal)
	case !freshOK && liveOK:
		liveEl.RemoveAttr(name)
	}
}

func stripMarker(raw string) string {
	var kept []string
	for _, tok := range strings.Fields(raw) {
		if tok != engine.MarkerClass {
			kept = append(kept, tok)
		}
	}
	return strings.Join(kept, " ")
}

func flattenAttrs(attrs map[string]string) []string {
	pairs := make([]string, 0, len(attrs)*2)
	for k, v := range attrs {
		pairs = append(pairs, k, v)
	}
	return pairs
}
