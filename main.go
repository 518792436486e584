// Single-process bootstrap: wires config -> logger -> optional audit
// sink -> engine -> HTTP server, and shuts down cleanly on SIGINT/SIGTERM.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anomi-labs/clob/api"
	"github.com/anomi-labs/clob/audit"
	"github.com/anomi-labs/clob/config"
	"github.com/anomi-labs/clob/core/engine"
	"github.com/anomi-labs/clob/logging"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	sink, err := buildAuditSink(cfg, logger)
	if err != nil {
		logger.Warn("audit sink disabled", zap.Error(err))
		sink = nil
	}
	if sink != nil {
		defer sink.Close()
	}

	opts := []engine.Option{engine.WithLogger(logger)}
	if sink != nil {
		opts = append(opts, engine.WithPublisher(sink))
	}
	e := engine.New(opts...)

	srv := api.NewServer(e, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting RPC endpoint layer", zap.String("addr", cfg.Addr))
		if err := srv.Start(cfg.Addr); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildAuditSink wires the optional, non-authoritative audit sink. Any
// backend that fails to connect is simply omitted; auditing never gates
// process startup.
func buildAuditSink(cfg config.Config, logger *zap.Logger) (*audit.Sink, error) {
	if !cfg.AuditEnabled {
		return nil, nil
	}

	var opts []audit.SinkOption

	if mq, err := audit.DialRabbitMQ(cfg.RabbitMQURL, logger); err != nil {
		logger.Warn("audit rabbitmq unavailable", zap.Error(err))
	} else {
		opts = append(opts, audit.WithRabbitMQ(mq))
	}

	if kv, err := audit.NewKvDB(cfg.PebblePath, logger); err != nil {
		logger.Warn("audit kvdb unavailable", zap.Error(err))
	} else {
		opts = append(opts, audit.WithKvDB(kv))
	}

	if pg, err := audit.NewPgSink(cfg.PostgresDSN, logger); err != nil {
		logger.Warn("audit postgres unavailable", zap.Error(err))
	} else {
		opts = append(opts, audit.WithPgSink(pg))
	}

	return audit.NewSink(logger, opts...), nil
}
