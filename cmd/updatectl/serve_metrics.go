package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeMetricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve-metrics",
		Short: "Serve Prometheus metrics for the update checker over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(true)
			if err != nil {
				return err
			}
			defer a.Close()

			listen := a.cfg.Metrics.Listen
			mux := http.NewServeMux()
			mux.Handle("/metrics", a.metrics.Handler())

			server := &http.Server{Addr: listen, Handler: mux}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			go runLoop(ctx, a)

			a.logger.Info("serving metrics", zap.String("listen", listen))
			go func() {
				<-ctx.Done()
				_ = server.Shutdown(context.Background())
			}()

			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}
