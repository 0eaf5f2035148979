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
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/uiaudit/services/audit/dom"
	"github.com/AleutianAI/uiaudit/services/audit/engine"
	"github.com/AleutianAI/uiaudit/services/audit/tokens"
)

// =============================================================================
// Flags
// =============================================================================

var (
	auditJSON      bool
	auditCSVPath   string
	auditContract  string
	auditThreshold int
	auditStrict    bool
	auditNoFonts   bool
)

var auditCmd = &cobra.Command{
	Use:   "audit [file.html]",
	Short: "Audit a markup file against the design-token contract",
	Long: `Parse the given markup file (or stdin when the argument is "-"),
validate every element against the token contract, and print a scored
compliance report.

Exit codes:
  0  the page scored at or above the threshold
  1  the page scored below the threshold
  2  the audit could not run`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runAudit(args[0]))
	},
}

func init() {
	auditCmd.Flags().BoolVar(&auditJSON, "json", false,
		"emit the report as JSON instead of the console summary")
	auditCmd.Flags().StringVar(&auditCSVPath, "csv", "",
		"also write the violation log as CSV to this path")
	auditCmd.Flags().StringVar(&auditContract, "contract", "",
		"token contract YAML (default embedded, or UIAUDIT_CONTRACT)")
	auditCmd.Flags().IntVar(&auditThreshold, "threshold", 90,
		"minimum compliance score for exit code 0")
	auditCmd.Flags().BoolVar(&auditStrict, "strict", false,
		"disable the two-segment kebab-case allowance")
	auditCmd.Flags().BoolVar(&auditNoFonts, "no-computed-fonts", false,
		"skip the computed font-family check")
	rootCmd.AddCommand(auditCmd)
}

// =============================================================================
// Implementation
// =============================================================================

func runAudit(path string) int {
	auditor, err := buildAuditor(path)
	if err != nil {
		cliLogger.Error("audit setup failed", "error", err)
		fmt.Fprintf(os.Stderr, "uiaudit: %v\n", err)
		return ExitError
	}

	report := auditor.ValidatePage(context.Background())
	if auditJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintf(os.Stderr, "uiaudit: encoding report: %v\n", err)
			return ExitError
		}
	} else {
		report = auditor.LogReport()
	}

	if auditCSVPath != "" {
		csv := auditor.ExportViolationsCSV()
		if err := os.WriteFile(auditCSVPath, []byte(csv), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "uiaudit: writing csv: %v\n", err)
			return ExitError
		}
		cliLogger.Info("violation log exported", "path", auditCSVPath,
			"violations", report.ViolationCount)
	}

	if report.ComplianceScore < auditThreshold {
		return ExitViolations
	}
	return ExitSuccess
}

// buildAuditor parses the input and assembles a session from the flags.
func buildAuditor(path string) (*engine.Auditor, error) {
	doc, err := parseInput(path)
	if err != nil {
		return nil, err
	}

	contract, err := loadContract()
	if err != nil {
		return nil, err
	}

	return engine.New(doc, engine.Options{
		Contract:           contract,
		SkipComputedStyles: auditNoFonts,
		StrictTwoSegment:   auditStrict,
		Logger:             cliLogger,
	})
}

func parseInput(path string) (*dom.Document, error) {
	if path == "-" {
		return dom.Parse(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	doc, err := dom.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

// loadContract resolves the contract source in precedence order:
// --contract flag, UIAUDIT_CONTRACT, embedded default.
func loadContract() (*tokens.Contract, error) {
	path := auditContract
	if path == "" {
		path = os.Getenv("UIAUDIT_CONTRACT")
	}
	if path == "" {
		return tokens.Load()
	}
	contract, err := tokens.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading contract %s: %w", path, err)
	}
	return contract, nil
}
