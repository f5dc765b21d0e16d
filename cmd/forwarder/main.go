package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"sentry_telegram/internal/catalog"
	"sentry_telegram/internal/config"
	"sentry_telegram/internal/dispatch"
	"sentry_telegram/internal/links"
	"sentry_telegram/internal/notifier"
	"sentry_telegram/internal/receiver"
	"sentry_telegram/internal/render"
	"sentry_telegram/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, log)
	cancel()
	if err != nil {
		log.Error("forwarder failed", "error", err)
		os.Exit(1)
	}

	log.Info("forwarder stopped")
}

// run serves the forwarder until ctx is done. Every startup or serve
// failure is returned.
func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("load catalog %s: %w", cfg.CatalogPath, err)
	}

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create data directory %s: %w", dir, err)
		}
	}

	store, err := storage.NewSQLite(cfg.DatabasePath, cat)
	if err != nil {
		return fmt.Errorf("open database %s: %w", cfg.DatabasePath, err)
	}
	defer func() { _ = store.Close() }()

	client := &http.Client{Timeout: 30 * time.Second}
	n := notifier.New(
		store,
		render.New(store, cat.Canonical, links.New(cfg.URLPrefix)),
		dispatch.New(client, dispatch.Delay(cfg.SendDelay), log),
		log,
	)
	srv := receiver.New(n, store, cfg.CORSOrigins, log)

	log.Info("starting forwarder", "url_prefix", cfg.URLPrefix, "send_delay", cfg.SendDelay)

	if err := srv.Run(ctx, cfg.ListenAddr); err != nil {
		return fmt.Errorf("serve %s: %w", cfg.ListenAddr, err)
	}
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
