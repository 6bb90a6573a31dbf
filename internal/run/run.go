// Package run orchestrates one scheduled invocation: the catalog audit and
// the queue drain execute concurrently with isolated failures.
package run

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/loamlabs/wheelhouse/internal/audit"
	"github.com/loamlabs/wheelhouse/internal/builds"
	"github.com/loamlabs/wheelhouse/internal/platform/metrics"
)

// Auditor runs the catalog data-integrity audit.
type Auditor interface {
	Run(ctx context.Context) (audit.PipelineResult, error)
}

// Drainer drains the abandoned-build queue and delivers the batch report.
type Drainer interface {
	DrainAndReport(ctx context.Context) (builds.PipelineResult, error)
}

// PipelineStatus is one pipeline's structured outcome for the caller.
type PipelineStatus struct {
	OK     bool   `json:"ok"`
	Detail string `json:"detail"`
	Error  string `json:"error,omitempty"`
}

// Summary is the observable result of one full run.
type Summary struct {
	Audit  PipelineStatus `json:"audit"`
	Builds PipelineStatus `json:"builds"`
}

// Orchestrator is the only place that decides run-wide status. The two
// pipelines touch disjoint data (catalog vs. queue), so they run as
// independent tasks; the failure of one never aborts the other.
type Orchestrator struct {
	auditor Auditor
	drainer Drainer
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New constructs an orchestrator. Metrics may be nil.
func New(auditor Auditor, drainer Drainer, logger *slog.Logger, m *metrics.Metrics) *Orchestrator {
	return &Orchestrator{
		auditor: auditor,
		drainer: drainer,
		logger:  logger,
		metrics: m,
	}
}

// Run executes both pipelines and reports each outcome structurally. Errors
// are captured per branch and never propagated through the group, so one
// pipeline's failure cannot cancel or mask the other's result.
func (o *Orchestrator) Run(ctx context.Context) Summary {
	start := time.Now()
	var summary Summary

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		res, err := o.auditor.Run(ctx)
		if err != nil {
			o.logger.ErrorContext(ctx, "audit pipeline failed", "error", err)
			if o.metrics != nil {
				o.metrics.PipelineFailures.WithLabelValues("audit").Inc()
			}
			summary.Audit = PipelineStatus{Error: err.Error(), Detail: "audit aborted"}
			return nil
		}
		summary.Audit = PipelineStatus{
			OK:     true,
			Detail: fmt.Sprintf("%d issues found", res.IssuesFound),
		}
		return nil
	})

	g.Go(func() error {
		res, err := o.drainer.DrainAndReport(ctx)
		if err != nil {
			o.logger.ErrorContext(ctx, "build report pipeline failed", "error", err)
			if o.metrics != nil {
				o.metrics.PipelineFailures.WithLabelValues("builds").Inc()
			}
			summary.Builds = PipelineStatus{Error: err.Error(), Detail: "drain aborted"}
			return nil
		}
		detail := fmt.Sprintf("%d builds reported", res.BuildsReported)
		if res.BuildsReported == 0 {
			detail = "no builds to report"
		}
		summary.Builds = PipelineStatus{OK: true, Detail: detail}
		return nil
	})

	// Branches never return errors; Wait only synchronizes completion.
	_ = g.Wait()

	if o.metrics != nil {
		o.metrics.ObserveRun(time.Since(start))
	}
	o.logger.InfoContext(ctx, "scheduled run complete",
		"audit_ok", summary.Audit.OK,
		"builds_ok", summary.Builds.OK,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return summary
}
