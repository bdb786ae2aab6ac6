package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	httpadapter "github.com/scenesmith/scenesmith/internal/adapters/http"
	"github.com/scenesmith/scenesmith/internal/logging"
	"github.com/scenesmith/scenesmith/pkg/domain"
	"github.com/scenesmith/scenesmith/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the scene HTTP server",
	Long: `Starts the scenesmith editor in server mode, exposing the scene, its
generation trails and the command history as a JSON API over HTTP.
Prometheus metrics are served on /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr, _ = cmd.Flags().GetString("addr")
		}

		verbose, _ := cmd.Flags().GetBool("verbose")
		logger := logging.NewLogger(verbose)
		slog.SetDefault(logger)

		metrics := observability.NewMetrics(nil)
		hooks := []domain.LifecycleHooks{metrics.Hooks()}
		if verbose {
			hooks = append(hooks, observability.DebugHooks(logger))
		}

		store, locker, err := createStore(cfg)
		if err != nil {
			fmt.Printf("Error opening project store: %v\n", err)
			os.Exit(1)
		}

		// Saves and loads from concurrent requests serialize per project.
		editor, err := createEditor(cfg, createManager(store, locker, logger), logger, hooks...)
		if err != nil {
			fmt.Printf("Error initializing editor: %v\n", err)
			os.Exit(1)
		}

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.Handle("/", httpadapter.NewHandler(editor))

		srv := &http.Server{
			Addr:    cfg.Server.Addr,
			Handler: mux,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Scenesmith Server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			// Error when starting HTTP server.
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Scenesmith Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides the config file)")
}
