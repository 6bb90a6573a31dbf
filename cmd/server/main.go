package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/loamlabs/wheelhouse/internal/audit"
	"github.com/loamlabs/wheelhouse/internal/builds"
	"github.com/loamlabs/wheelhouse/internal/catalog"
	"github.com/loamlabs/wheelhouse/internal/mailer"
	"github.com/loamlabs/wheelhouse/internal/platform/config"
	"github.com/loamlabs/wheelhouse/internal/platform/httpserver"
	"github.com/loamlabs/wheelhouse/internal/platform/logger"
	"github.com/loamlabs/wheelhouse/internal/platform/metrics"
	platformredis "github.com/loamlabs/wheelhouse/internal/platform/redis"
	"github.com/loamlabs/wheelhouse/internal/run"
	httptransport "github.com/loamlabs/wheelhouse/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Pipeline logic lives in internal packages.
func main() {
	// Optional in production; local runs keep credentials in .env.
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	redisClient, err := platformredis.New(ctx, cfg.Redis)
	cancel()
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	m := metrics.New()

	source := catalog.NewShopifySource(cfg.Shopify, nil, log)
	mail := mailer.NewResend(cfg.Mail.ResendAPIKey, log)
	queue := builds.NewRedisQueue(redisClient)

	auditPipeline := audit.NewPipeline(source, mail, cfg.Mail.AuditFrom, cfg.Mail.AuditTo, log,
		audit.WithMetrics(m))
	drainPipeline := builds.NewPipeline(queue, mail, builds.NewRenderer(cfg.Shopify.StoreDomain),
		cfg.Mail.BuildsFrom, cfg.Mail.BuildsTo, log,
		builds.WithMetrics(m))

	orchestrator := run.New(auditPipeline, drainPipeline, log, m)

	handler := httptransport.NewHandler(orchestrator, queue, queue, log)
	router := httptransport.NewRouter(handler, cfg.Server, log)

	srv := httpserver.New(cfg.Server.Addr, router)

	log.Info("starting wheelhouse", "addr", cfg.Server.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
