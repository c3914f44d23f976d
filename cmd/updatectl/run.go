package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// EnvDisableAutoUpdate, when set to "true", makes the run subcommand return
// immediately instead of starting its periodic check loop.
const EnvDisableAutoUpdate = "UPDATEWING_DISABLE_AUTO_UPDATE"

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the periodic update check loop until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(true)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			runLoop(ctx, a)
			return nil
		},
	}
}

// runLoop performs an initial check immediately, then checks every
// cfg.CheckInterval until ctx is cancelled. It respects
// UPDATEWING_DISABLE_AUTO_UPDATE so a packaged build can ship with the
// checker compiled in but switched off at the operator's discretion.
func runLoop(ctx context.Context, a *app) {
	if os.Getenv(EnvDisableAutoUpdate) == "true" || a.cfg.DisableAutoUpdate {
		a.logger.Info("update checker disabled", zap.String("env", EnvDisableAutoUpdate))
		return
	}

	a.logger.Info("starting update checker",
		zap.String("current_version", a.cfg.CurrentVersion),
		zap.Duration("interval", a.cfg.CheckInterval))

	checkOnce(ctx, a)

	ticker := time.NewTicker(a.cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("update checker stopped")
			return
		case <-ticker.C:
			checkOnce(ctx, a)
		}
	}
}

func checkOnce(ctx context.Context, a *app) {
	start := time.Now()
	s, err := a.machine.Latest(ctx, a.state)
	duration := time.Since(start)
	if err != nil {
		a.metrics.RecordCheck("error", duration, false)
		a.logger.Warn("update check failed", zap.Error(err))
		return
	}
	a.metrics.RecordCheck("ok", duration, s.Available())
	a.state = s

	if !s.Available() {
		a.logger.Debug("up to date")
		return
	}

	a.logger.Info("update available", zap.String("version", s.New().Version.String()))

	s = a.machine.CachedLatest(s)

	downloadStart := time.Now()
	s, err = a.machine.Downloaded(ctx, s)
	downloadDuration := time.Since(downloadStart)
	if err != nil {
		a.metrics.RecordDownload("error", downloadDuration)
		a.logger.Warn("download failed", zap.Error(err))
		return
	}
	a.metrics.RecordDownload("ok", downloadDuration)

	s, err = a.machine.Validated(s)
	if err != nil {
		a.metrics.RecordValidation("error")
		a.logger.Warn("validation failed", zap.Error(err))
		return
	}
	a.state = s

	if s.Ready() {
		a.metrics.RecordValidation("match")
		a.logger.Info("release ready to launch", zap.String("path", s.LocalPath()))
	} else {
		a.metrics.RecordValidation("mismatch")
		a.logger.Warn("checksum validation did not match", zap.String("path", s.LocalPath()))
	}
}
