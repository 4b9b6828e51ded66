// Command server exposes the Nyrakai validator and composer as a JSON REST API.
//
// Endpoints:
//
//	GET  /api/validate?word=<word>
//	GET  /api/segment?word=<word>
//	POST /api/compose     body: {"root":"...","pos":"noun","gender":"flexible","morphemes":["gender:feminine"]}
//	GET  /api/morphemes
//	GET  /api/domain?word=<word>[&expected=<domain>]
//	GET  /metrics
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nyrakai/nyrakai/config"
)

func main() {
	configPath := flag.String("config", "", "path to a nyrakai.yaml config file")
	dataDir := flag.String("data", "", "directory of rule tables (default: embedded tables)")
	addr := flag.String("addr", "", "listen address (overrides config)")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.Rules.DataDir = *dataDir
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	logger.Info("loading rule tables", slog.String("data", cfg.Rules.DataDir))
	engine, err := cfg.Engine()
	if err != nil {
		logger.Error("failed to load rule tables", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv, err := newServer(engine, cfg, logger)
	if err != nil {
		logger.Error("failed to build server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown error", slog.String("error", err.Error()))
		}
	}()

	logger.Info("listening", slog.String("addr", cfg.Server.Addr))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
