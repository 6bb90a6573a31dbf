// Package httptransport is the thin HTTP layer: it parses requests, delegates
// to the orchestrator and queue, and shapes JSON responses. No business logic
// lives here.
package httptransport

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/loamlabs/wheelhouse/internal/builds"
	"github.com/loamlabs/wheelhouse/internal/platform/middleware"
	"github.com/loamlabs/wheelhouse/internal/run"
)

// Runner executes one scheduled run.
type Runner interface {
	Run(ctx context.Context) run.Summary
}

// HealthChecker reports backing-store reachability for the liveness endpoint.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Handler wires the public endpoints to their collaborators.
type Handler struct {
	runner Runner
	queue  builds.Queue
	health HealthChecker
	logger *slog.Logger
	now    func() time.Time
}

// NewHandler constructs the HTTP handler. health may be nil when no backing
// store check is available.
func NewHandler(runner Runner, queue builds.Queue, health HealthChecker, logger *slog.Logger) *Handler {
	return &Handler{
		runner: runner,
		queue:  queue,
		health: health,
		logger: logger,
		now:    time.Now,
	}
}

// HandleRunDailyTasks executes both pipelines and returns the per-pipeline
// summary. The response is 200 even when a pipeline failed: pipeline failures
// are reported in the body, and only precondition failures (handled in
// middleware before this point) fail the request itself.
func (h *Handler) HandleRunDailyTasks(w http.ResponseWriter, r *http.Request) {
	summary := h.runner.Run(r.Context())
	writeJSON(w, http.StatusOK, summary)
}

// HandleLogAbandonedBuild accepts a build capture from the storefront. The
// endpoint always answers 202: a malformed or undeliverable capture must
// never surface an error into the storefront's checkout flow.
func (h *Handler) HandleLogAbandonedBuild(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 64<<10))
	if err != nil {
		h.captureError(ctx, w, "read capture body", err)
		return
	}

	var rec builds.BuildRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		h.captureError(ctx, w, "decode capture body", err)
		return
	}

	rec.CapturedAt = h.now().UTC()
	if rec.BuildID == "" {
		rec.BuildID = uuid.NewString()
	}
	if rec.Visitor == nil {
		rec.Visitor = &builds.Visitor{}
	}
	if !rec.Visitor.IsLoggedIn && rec.Visitor.AnonymousID == "" {
		rec.Visitor.AnonymousID = uuid.NewString()
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		h.captureError(ctx, w, "encode build record", err)
		return
	}
	if err := h.queue.Append(ctx, payload); err != nil {
		h.captureError(ctx, w, "queue build record", err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"message": "Build data accepted."})
}

// HandleHealth reports liveness, including queue-store reachability.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health.Health(r.Context()); err != nil {
			h.logger.ErrorContext(r.Context(), "health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) captureError(ctx context.Context, w http.ResponseWriter, stage string, err error) {
	h.logger.ErrorContext(ctx, "build capture error",
		"stage", stage,
		"error", err,
		"request_id", middleware.RequestID(ctx),
	)
	writeJSON(w, http.StatusAccepted, map[string]string{"message": "Error processed."})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
