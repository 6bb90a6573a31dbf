package builds

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/loamlabs/wheelhouse/internal/mailer"
	"github.com/loamlabs/wheelhouse/internal/platform/metrics"
)

// state tracks the drain pipeline through one run.
type state string

const (
	stateIdle       state = "idle"
	stateDraining   state = "draining"
	stateRendering  state = "rendering"
	stateDelivering state = "delivering"
	stateCommitted  state = "committed"
	stateFailed     state = "failed"
)

// PipelineResult summarizes one drain run.
type PipelineResult struct {
	BuildsReported int
	// MalformedSkipped counts queued entries that failed to decode and were
	// dropped with the batch.
	MalformedSkipped int
	Delivered        bool
}

// Pipeline drains the abandoned-build queue and emails the batch report.
//
// Drain discipline: delete-after-successful-send. The queue is cleared only
// once the transport confirms acceptance, so a delivery failure leaves every
// event in place for the next scheduled run to retry (possibly merged with
// newer events). The cost is a possible duplicate report if the process dies
// between the send and the delete.
//
// Malformed events: skip-and-continue. A corrupt entry is counted, logged,
// and dropped with the batch it was drained in; it would never decode on a
// retry either, and one bad entry must not block all pending reports.
type Pipeline struct {
	queue    Queue
	mailer   mailer.Mailer
	renderer *Renderer
	from, to string
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMetrics attaches run counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// NewPipeline constructs the drain pipeline.
func NewPipeline(queue Queue, m mailer.Mailer, renderer *Renderer, from, to string, logger *slog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		queue:    queue,
		mailer:   m,
		renderer: renderer,
		from:     from,
		to:       to,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DrainAndReport executes one drain run. An empty queue commits immediately
// with no delivery call.
func (p *Pipeline) DrainAndReport(ctx context.Context) (PipelineResult, error) {
	st := stateIdle

	st = p.advance(ctx, st, stateDraining)
	entries, err := p.queue.ReadAll(ctx)
	if err != nil {
		p.advance(ctx, st, stateFailed)
		return PipelineResult{}, fmt.Errorf("drain queue: %w", err)
	}

	if len(entries) == 0 {
		p.advance(ctx, st, stateCommitted)
		p.logger.InfoContext(ctx, "no abandoned builds to report")
		return PipelineResult{}, nil
	}

	records, skipped := p.decode(ctx, entries)
	if p.metrics != nil && skipped > 0 {
		p.metrics.MalformedEvents.Add(float64(skipped))
	}

	if len(records) == 0 {
		// Every entry was corrupt. Nothing can ever be delivered from this
		// batch, so clear it rather than re-draining it forever.
		if err := p.queue.DeleteAll(ctx); err != nil {
			p.advance(ctx, st, stateFailed)
			return PipelineResult{MalformedSkipped: skipped}, err
		}
		p.advance(ctx, st, stateCommitted)
		p.logger.WarnContext(ctx, "queue contained only malformed builds, batch dropped",
			"skipped", skipped,
		)
		return PipelineResult{MalformedSkipped: skipped}, nil
	}

	st = p.advance(ctx, st, stateRendering)
	html, err := p.renderer.Render(records)
	if err != nil {
		p.advance(ctx, st, stateFailed)
		return PipelineResult{MalformedSkipped: skipped}, err
	}

	st = p.advance(ctx, st, stateDelivering)
	err = p.mailer.Send(ctx, mailer.Message{
		From:    p.from,
		To:      p.to,
		Subject: fmt.Sprintf("Abandoned Build Report: %d build(s)", len(records)),
		HTML:    html,
	})
	if err != nil {
		// Queue untouched: the next scheduled run re-attempts this batch.
		p.advance(ctx, st, stateFailed)
		return PipelineResult{MalformedSkipped: skipped}, err
	}

	if err := p.queue.DeleteAll(ctx); err != nil {
		// The report went out but the queue survived; the next run will
		// deliver a duplicate. Surface the error rather than hide it.
		p.advance(ctx, st, stateFailed)
		return PipelineResult{
			BuildsReported:   len(records),
			MalformedSkipped: skipped,
			Delivered:        true,
		}, err
	}

	p.advance(ctx, st, stateCommitted)
	if p.metrics != nil {
		p.metrics.BuildsReported.Add(float64(len(records)))
	}
	p.logger.InfoContext(ctx, "abandoned build report sent",
		"builds", len(records),
		"malformed_skipped", skipped,
	)
	return PipelineResult{
		BuildsReported:   len(records),
		MalformedSkipped: skipped,
		Delivered:        true,
	}, nil
}

func (p *Pipeline) decode(ctx context.Context, entries []string) ([]BuildRecord, int) {
	records := make([]BuildRecord, 0, len(entries))
	skipped := 0
	for _, entry := range entries {
		var rec BuildRecord
		if err := json.Unmarshal([]byte(entry), &rec); err != nil {
			skipped++
			p.logger.WarnContext(ctx, "skipping malformed queued build",
				"error", err,
			)
			continue
		}
		records = append(records, rec)
	}
	return records, skipped
}

func (p *Pipeline) advance(ctx context.Context, from, to state) state {
	p.logger.DebugContext(ctx, "drain pipeline state",
		"from", string(from),
		"to", string(to),
	)
	return to
}
