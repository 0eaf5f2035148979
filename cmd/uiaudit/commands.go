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
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/uiaudit/pkg/logging"
)

// =============================================================================
// Exit codes
// =============================================================================

const (
	// ExitSuccess means the audited page met the compliance threshold.
	ExitSuccess = 0
	// ExitViolations means the audit ran but the page failed the threshold.
	ExitViolations = 1
	// ExitError means the audit could not run (bad input, bad contract, IO).
	ExitError = 2
)

// =============================================================================
// Root command
// =============================================================================

var (
	flagLogLevel string
	flagLogDir   string
	flagQuiet    bool

	cliLogger *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "uiaudit",
	Short: "Design-token compliance auditing for UI element trees",
	Long: `uiaudit checks rendered UI markup against a design-token contract.

It classifies class names and inline styles, reports violations with
suggested fixes, scores the page, and can watch a file for live feedback.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := flagLogLevel
		if level == "" {
			level = os.Getenv("UIAUDIT_LOG_LEVEL")
		}
		cliLogger = logging.New(logging.Config{
			Level:   logging.ParseLevel(level),
			LogDir:  flagLogDir,
			Service: "uiaudit",
			Quiet:   flagQuiet,
		})
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if cliLogger != nil {
			_ = cliLogger.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "",
		"log level: debug, info, warn, error (default info, or UIAUDIT_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&flagLogDir, "log-dir", "",
		"directory for JSON log files (disabled when empty)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false,
		"suppress console log output")
}
