package cli

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/convoset/internal/api"
	"github.com/MikeSquared-Agency/convoset/internal/hermes"
	"github.com/MikeSquared-Agency/convoset/internal/pipeline"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and process exports announced over NATS",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.Default()
	logger.Info("convoset starting", "port", cfg.Port, "version", Version)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b, err := openBackends(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	runner := pipeline.NewRunner(pipeline.Config{
		DataDir:   cfg.DataDir,
		Output:    cfg.Output,
		StatePath: cfg.StatePath,
	}, b.recorder(), b.publisher(), logger)

	if b.hermes != nil {
		if err := b.hermes.Subscribe(hermes.SubjectExportStored, runner.HandleExportStored); err != nil {
			return err
		}
	} else {
		logger.Warn("NATS not configured, running API only")
	}

	srv := api.NewServer(cfg.Port, cfg.APIToken, runner, b.history(), logger)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	logger.Info("convoset ready", "port", cfg.Port)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			logger.Error("HTTP server error", "error", err)
			return err
		}
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown", "error", err)
	}
	logger.Info("convoset stopped")
	return nil
}
