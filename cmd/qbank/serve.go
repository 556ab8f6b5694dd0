package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/qbank/internal/api"
	"github.com/dgallion1/qbank/internal/config"
	"github.com/dgallion1/qbank/internal/pipeline"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the extraction HTTP service",
	Long: `Serve accepts PDF uploads, converts them on a worker pool and serves the
resulting banks, review reports and images.

Endpoints:
  GET  /health
  POST /api/extract                 multipart: file, slug
  GET  /api/extract/{jobID}/status
  GET  /api/banks/{slug}
  GET  /api/banks/{slug}/report
  GET  /api/stats/extract
  GET  {public-prefix}/{slug}/images/{file}`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		if err := cfg.ValidateServe(); err != nil {
			return err
		}
		level, _ := config.ParseLevel(cfg.LogLevel)
		log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return err
		}

		ctx := cmd.Context()
		orch := pipeline.NewOrchestrator(cfg, nil, log)
		orch.Start(ctx)

		srv := api.NewServer(orch, log, cfg)
		httpServer := &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      srv,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info("starting qbank", "port", cfg.Port, "data_dir", cfg.DataDir, "workers", cfg.WorkerCount)
			errCh <- httpServer.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("server error", "error", err)
				orch.Stop()
				return err
			}
		case <-ctx.Done():
		}

		// Graceful shutdown: stop taking requests, then drain workers.
		log.Info("shutting down...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown error", "error", err)
		}
		orch.Stop()
		return nil
	},
}

func init() {
	f := serveCmd.Flags()
	f.String("port", "8090", "port to listen on")
	f.String("data-dir", "./data", "directory datasets are written to")
	f.Int("workers", 2, "concurrent conversions")
	f.String("public-prefix", "/qbank", "URL prefix images are served under")
}
