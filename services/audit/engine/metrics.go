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
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for validation operations.
var (
	tracer = otel.Tracer("uiaudit.engine")
	meter  = otel.Meter("uiaudit.engine")
)

// Metrics for validation operations.
var (
	validateLatency metric.Float64Histogram
	validateTotal   metric.Int64Counter
	violationsFound metric.Int64Histogram
	violationsTotal metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		validateLatency, err = meter.Float64Histogram(
			"uiaudit_validate_duration_seconds",
			metric.WithDescription("Duration of full-page validation passes"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		validateTotal, err = meter.Int64Counter(
			"uiaudit_validate_total",
			metric.WithDescription("Total number of full-page validation passes"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		violationsFound, err = meter.Int64Histogram(
			"uiaudit_violations_found",
			metric.WithDescription("Violations found per validation pass"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		violationsTotal, err = meter.Int64Counter(
			"uiaudit_violations_total",
			metric.WithDescription("Total violations detected, by kind"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// startValidateSpan creates a span for a full-page validation pass.
func startValidateSpan(ctx context.Context, sessionID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Auditor.ValidatePage",
		trace.WithAttributes(
			attribute.String("uiaudit.session_id", sessionID),
		),
	)
}

// setValidateSpanResult sets the result attributes on a validation span.
func setValidateSpanResult(span trace.Span, elements, violations int) {
	span.SetAttributes(
		attribute.Int("uiaudit.elements", elements),
		attribute.Int("uiaudit.violations", violations),
	)
}

// recordValidateMetrics records metrics for a full-page validation pass.
func recordValidateMetrics(ctx context.Context, duration time.Duration, violationCount int) {
	if err := initMetrics(); err != nil {
		return
	}
	validateLatency.Record(ctx, duration.Seconds())
	validateTotal.Add(ctx, 1)
	violationsFound.Record(ctx, int64(violationCount))
}

// recordViolation counts one detected violation by kind.
func recordViolation(kind string) {
	if err := initMetrics(); err != nil {
		return
	}
	violationsTotal.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("kind", kind),
	))
}
