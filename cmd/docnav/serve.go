package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/dgallion1/docnav/internal/api"
	"github.com/dgallion1/docnav/internal/metrics"
	"github.com/dgallion1/docnav/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the validated sidebars over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "listen port")
	serveCmd.Flags().BoolP("watch", "w", false, "rebuild when inputs change")
	_ = viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("watch", serveCmd.Flags().Lookup("watch"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(os.Stdout)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New(version, runtime.Version())
	runner := pipeline.NewRunner(cfg, log, m)

	// The first build must succeed; later rebuilds may fail and keep the
	// previous one serving.
	b, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	if err := b.Err(); err != nil {
		return err
	}

	watchDone := make(chan struct{})
	if cfg.Watch {
		w, err := pipeline.NewWatcher(runner, cfg.Debounce)
		if err != nil {
			return err
		}
		go func() {
			defer close(watchDone)
			if err := w.Run(ctx); err != nil {
				log.Error("watcher stopped", "error", err)
			}
		}()
	} else {
		close(watchDone)
	}

	srv := api.NewServer(runner.Holder(), m, log, cfg)
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		<-ctx.Done()
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting docnav", "port", cfg.Port, "watch", cfg.Watch, "version", version)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-watchDone
	return nil
}
