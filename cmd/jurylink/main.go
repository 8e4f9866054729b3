// Package main provides the entry point for the JuryLink server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jurylink/jurylink/internal/config"
	"github.com/jurylink/jurylink/internal/judge"
	"github.com/jurylink/jurylink/internal/mailer"
	"github.com/jurylink/jurylink/internal/mailqueue"
	"github.com/jurylink/jurylink/internal/metrics"
	"github.com/jurylink/jurylink/internal/middleware"
	"github.com/jurylink/jurylink/internal/notify"
	"github.com/jurylink/jurylink/internal/organizer"
	"github.com/jurylink/jurylink/internal/scoring"
	"github.com/jurylink/jurylink/internal/storage"
)

const version = "1.0.0"

// maxRequestBody bounds JSON request bodies; nothing this API accepts
// legitimately approaches it.
const maxRequestBody = 1 << 20

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	levelVar := new(slog.LevelVar)
	levelVar.Set(cfg.SlogLevel())
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: levelVar}))
	slog.SetDefault(logger)

	logger.Info("jurylink starting", "version", version, "addr", cfg.ListenAddr)

	store, err := storage.New(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}()

	if err := metrics.Init(prometheus.DefaultRegisterer); err != nil {
		return err
	}

	if err := organizer.Bootstrap(context.Background(), store, cfg.BootstrapAccessKey, logger); err != nil {
		return err
	}

	// Mail transport is optional; an unconfigured queue resolves items as
	// failed instead of blocking issuance.
	var transport mailqueue.Transport
	if cfg.MailConfigured() {
		var opts []mailer.Option
		if cfg.MailAPIURL != "" {
			opts = append(opts, mailer.WithBaseURL(cfg.MailAPIURL))
		}
		transport = mailer.NewClient(cfg.MailAPIKey, opts...)
	} else {
		logger.Warn("no mail provider configured; queued mail will fail")
	}

	queue := mailqueue.New(transport,
		mailqueue.WithInterval(cfg.QueueInterval),
		mailqueue.WithLogger(logger))

	notifier := notify.NewFeedbackNotifier(queue, cfg.MailFrom)
	scoringSvc := scoring.NewService(store, notifier, logger)

	judgeHandler := judge.NewHandler(store, scoringSvc, logger)
	organizerHandler := organizer.NewHandler(store, scoringSvc, queue, organizer.Config{
		MailFrom:        cfg.MailFrom,
		PublicBaseURL:   cfg.PublicBaseURL,
		TokenExpiryDays: cfg.TokenExpiryDays,
	}, logger)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(logger))
	r.Use(metrics.Middleware)
	r.Use(middleware.MaxBodySize(maxRequestBody))

	r.Mount("/judge", judgeHandler.Routes())
	r.Mount("/", organizerHandler.Routes())

	// Metrics are served on a separate listener, never on the public API.
	metricsServer := &http.Server{
		Addr:    cfg.MetricsListenAddr,
		Handler: metrics.Handler(),
	}
	go func() {
		logger.Info("metrics listening", "addr", cfg.MetricsListenAddr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = metricsServer.Shutdown(shutdownCtx) //nolint:errcheck
	return server.Shutdown(shutdownCtx)
}
