// The extraction agent runs one sync cycle against the legacy source and
// exits; scheduling repeat runs is the operator's cron job.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erp/syncbridge/internal/application/pipeline"
	"github.com/erp/syncbridge/internal/infrastructure/config"
	"github.com/erp/syncbridge/internal/infrastructure/legacy"
	"github.com/erp/syncbridge/internal/infrastructure/logger"
	"github.com/erp/syncbridge/internal/infrastructure/synccache"
	"github.com/erp/syncbridge/internal/infrastructure/transport"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	hostname, _ := os.Hostname()

	db, err := legacy.Open(cfg.Legacy.DSN())
	if err != nil {
		log.Fatal("open legacy source", zap.Error(err))
	}
	defer func() { _ = db.Close() }()
	reader := legacy.NewReader(db, cfg.Legacy.QueryTimeout, log)

	store, err := synccache.NewStore(&cfg.Cache, log)
	if err != nil {
		log.Fatal("create change cache", zap.Error(err))
	}
	cache := synccache.NewCache(store)

	client := transport.NewClient(cfg.Pipeline.ServerURL, cfg.Pipeline.RequestTimeout)
	shipper := transport.NewLogShipper(cfg.Pipeline.ServerURL, 5*time.Second, log)

	runner := pipeline.NewRunner(reader, cache, client, pipeline.Options{
		BatchSize:     cfg.Pipeline.BatchSize,
		MaxConcurrent: cfg.Pipeline.MaxConcurrent,
		AgentHost:     hostname,
	}, log)

	shipper.Ship(ctx, transport.LogLine{
		Timestamp: time.Now(),
		Level:     "info",
		Message:   "sync run starting",
		Context:   transport.LogContext{AgentHost: hostname},
	})

	summary, err := runner.Run(ctx)
	if err != nil {
		shipper.Ship(ctx, transport.LogLine{
			Timestamp: time.Now(),
			Level:     "error",
			Message:   fmt.Sprintf("sync run failed: %v", err),
			Context:   transport.LogContext{AgentHost: hostname},
		})
		log.Fatal("sync run failed", zap.Error(err))
	}

	shipper.Ship(ctx, transport.LogLine{
		Timestamp: time.Now(),
		Level:     "info",
		Message: fmt.Sprintf("sync run finished: %d extracted, %d filtered, %d applied, %d failed batches",
			summary.RecordsExtracted, summary.RecordsFiltered, summary.RecordsApplied, summary.BatchesFailed),
		Context: transport.LogContext{AgentHost: hostname},
	})

	if summary.BatchesFailed > 0 {
		os.Exit(2)
	}
}
