package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/klarity-app/captis/internal/api"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve displays and captures over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		capturer, err := newCapturer()
		if err != nil {
			return err
		}
		defer capturer.Close()

		mux := http.NewServeMux()
		mux.Handle("/api/", http.StripPrefix("/api", api.MakeHandler(capturer, logger, api.Defaults{
			Format:   cfg.Output.Format,
			Quality:  cfg.Output.Quality,
			MaxWidth: cfg.Output.MaxWidth,
		})))

		server := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logger.Info("starting capture server", zap.String("addr", cfg.Server.Addr))
			if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			logger.Info("shutting down capture server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().String("addr", "127.0.0.1:9000", "HTTP listen address")
	serveCmd.Flags().String("format", "png", "Default image format (png, jpeg)")
	serveCmd.Flags().Int("quality", 90, "Default JPEG quality (1-100)")
	serveCmd.Flags().Int("max-width", 0, "Default downscale width, 0 keeps the native size")
}
