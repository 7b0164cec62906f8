package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/crimson-sun/leafcheck/internal/engine"
	"github.com/crimson-sun/leafcheck/internal/metrics"
	"github.com/crimson-sun/leafcheck/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Starts the HTTP API on LEAFCHECK_ADDR.

The service starts even when a model fails to load: prediction endpoints then
answer 500 "Model not loaded" until the process is restarted with a working
artifact, and /api/health reports model_not_loaded.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	gin.SetMode(cfg.Server.GinMode)

	m := metrics.New()
	eng, err := buildEngine(cfg, logger, engine.WithRecorder(m))
	if err != nil {
		return err
	}
	defer eng.Close()

	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: server.New(eng, logger,
			server.WithMetrics(m),
			server.WithVersion(version),
			server.WithMaxUploadBytes(int64(cfg.Server.MaxUploadMB)<<20),
		).Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server", zap.String("address", srv.Addr), zap.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		return err
	}
	logger.Info("server exited")
	return nil
}
