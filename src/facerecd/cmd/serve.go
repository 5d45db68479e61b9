package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/q-controller/facerecd/src/pkg/metrics"
	"github.com/q-controller/facerecd/src/pkg/recognition"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, cfgErr := loadConfig(cmd)
		if cfgErr != nil {
			return cfgErr
		}

		if cmd.Flags().Changed("listen") {
			listen, listenErr := cmd.Flags().GetString("listen")
			if listenErr != nil {
				return fmt.Errorf("failed to get listen: %w", listenErr)
			}
			cfg.ListenAddress = listen
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		b, backendsErr := openBackends(ctx, cfg)
		if backendsErr != nil {
			return backendsErr
		}
		defer func() {
			if closeErr := b.Close(); closeErr != nil {
				slog.Error("Failed to close backends", "error", closeErr)
			}
		}()

		observer, observerErr := metrics.NewPrometheusObserver("facerecd", prometheus.DefaultRegisterer)
		if observerErr != nil {
			return observerErr
		}

		svc := recognition.NewService(b.objects, b.lookup, recognition.Settings{
			Bucket: cfg.BucketName,
			Domain: cfg.DomainName,
		}, observer)

		handler, handlerErr := recognition.CreateHandler(svc, cfg.MultipartMemory(), observer)
		if handlerErr != nil {
			return handlerErr
		}

		router, routerErr := newRouter(handler, prometheus.DefaultGatherer)
		if routerErr != nil {
			return routerErr
		}

		server := &http.Server{
			Addr:              cfg.ListenAddress,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			slog.Info("Listening", "address", cfg.ListenAddress,
				"objects", cfg.ObjectBackend, "attributes", cfg.AttributeBackend)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("failed to serve: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			slog.Info("Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "Listen address, overrides LISTEN_ADDRESS")
}
