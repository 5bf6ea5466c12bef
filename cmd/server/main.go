package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/zhengjr9/llm-stream-sim/internal/completion"
	"github.com/zhengjr9/llm-stream-sim/internal/config"
	"github.com/zhengjr9/llm-stream-sim/internal/logging"
	"github.com/zhengjr9/llm-stream-sim/internal/server"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr))

	slog.Info("starting llm-stream-sim",
		"listen", cfg.ListenAddr,
		"endpoint", "POST /v1/chat/completions",
		"chunk_interval", completion.PaceInterval.String(),
		"metrics", cfg.MetricsEnabled,
		"config_file", cfg.ConfigFile,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down...")
		shutCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
