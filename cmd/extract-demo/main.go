// Command extract-demo registers a handful of handlers with different
// signatures and dispatches the configured requests to all of them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/bjaus/extract"
	"github.com/bjaus/extract/extractprom"
	"github.com/bjaus/extract/internal/config"
	"github.com/bjaus/extract/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "extract-demo:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path := config.PathFromEnv()
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	log = log.With(zap.String("env", cfg.Env))

	reg := prometheus.NewRegistry()
	metrics, err := extractprom.New(reg, cfg.Namespace)
	if err != nil {
		return err
	}

	opts := append(metrics.Options(),
		extract.WithLogger(log),
		extract.WithOnResult(func(_ context.Context, unit string, result any) {
			log.Info("result", zap.String("unit", unit), zap.Any("value", result))
		}),
	)
	app := extract.New(opts...)
	register(app, log)

	log.Info("extract-demo starting",
		zap.String("config", path),
		zap.Bool("async", cfg.Async),
		zap.Strings("units", app.Units()),
	)

	for _, r := range cfg.Requests {
		req := extract.NewRequest(r.Payload)
		for k, v := range r.Fields {
			req = req.WithField(k, v)
		}

		if !cfg.Async {
			app.Dispatch(ctx, req)
			continue
		}
		if err := app.DispatchAsync(ctx, req); err != nil {
			log.Warn("dispatch interrupted", zap.Error(err))
			break
		}
	}

	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		log.Info("metric", zap.String("name", mf.GetName()), zap.Int("series", len(mf.GetMetric())))
	}

	log.Info("extract-demo stopped")
	return nil
}
