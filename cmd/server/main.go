package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/teipress/teipress/internal/api"
	"github.com/teipress/teipress/internal/config"
	"github.com/teipress/teipress/internal/convert"
	"github.com/teipress/teipress/internal/isomorph"
	"github.com/teipress/teipress/internal/tei"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// The validator's two transformation legs both go through pandoc; tidy
	// normalizes HTML before structural comparison when installed.
	pandoc := convert.NewPandocRunner(cfg.PandocBin, cfg.TransformTimeout, log)
	if !pandoc.Available() {
		log.Warn("pandoc not found, validation requests will fail", "binary", cfg.PandocBin)
	}

	checker := isomorph.NewChecker(pandoc, pandoc, log)
	checker.WorkDir = cfg.ScratchDir
	if tidy := convert.NewTidyRunner(cfg.TidyBin, cfg.TransformTimeout); tidy.Available() {
		checker.Cleanup = tidy.Normalize
	}

	srv := api.NewServer(tei.NewSerializer(log), checker, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting teipress", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
