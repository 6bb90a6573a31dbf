package audit

import (
	"context"
	"log/slog"

	"github.com/loamlabs/wheelhouse/internal/catalog"
	"github.com/loamlabs/wheelhouse/internal/mailer"
	"github.com/loamlabs/wheelhouse/internal/platform/metrics"
)

// PipelineResult summarizes one audit run.
type PipelineResult struct {
	IssuesFound int
	// Delivered is false both on failure and on a clean catalog: a run with
	// zero issues sends no email.
	Delivered bool
}

// Pipeline runs the audit end to end: fetch, classify, evaluate, render,
// deliver. Each run re-fetches the full catalog; nothing is cached between
// invocations and the audit is idempotent over current catalog state.
type Pipeline struct {
	source    catalog.Source
	mailer    mailer.Mailer
	evaluator *Evaluator
	from, to  string
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMetrics attaches run counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// NewPipeline constructs the audit pipeline.
func NewPipeline(source catalog.Source, m mailer.Mailer, from, to string, logger *slog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		source:    source,
		mailer:    m,
		evaluator: NewEvaluator(logger),
		from:      from,
		to:        to,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one audit. A fetch failure aborts with no partial report; a
// delivery failure drops this run's report on the floor, which is acceptable
// because the next scheduled run recomputes it from scratch.
func (p *Pipeline) Run(ctx context.Context) (PipelineResult, error) {
	products, err := p.source.FetchComponents(ctx)
	if err != nil {
		return PipelineResult{}, err
	}

	result := p.evaluator.Evaluate(ctx, products)

	report, err := BuildReport(result)
	if err != nil {
		return PipelineResult{}, err
	}

	if p.metrics != nil {
		p.metrics.AuditIssuesFound.Add(float64(report.Issues))
		p.metrics.UnpublishedFindings.Add(float64(len(result.Unpublished)))
	}

	if report.Issues == 0 {
		p.logger.InfoContext(ctx, "data health check complete, no issues found",
			"products", len(products),
		)
		return PipelineResult{IssuesFound: 0}, nil
	}

	err = p.mailer.Send(ctx, mailer.Message{
		From:    p.from,
		To:      p.to,
		Subject: report.Subject,
		HTML:    report.HTML,
	})
	if err != nil {
		return PipelineResult{IssuesFound: report.Issues}, err
	}

	p.logger.InfoContext(ctx, "audit report sent",
		"issues", report.Issues,
		"products", len(products),
	)
	return PipelineResult{IssuesFound: report.Issues, Delivered: true}, nil
}
