package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lazypower/keepsharp/internal/config"
	"github.com/lazypower/keepsharp/internal/logger"
	"github.com/lazypower/keepsharp/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	eng, closeEngine, err := openEngine(cmd.Context(), log)
	if err != nil {
		return err
	}
	defer closeEngine()

	if cfg.Sweep.Enabled {
		if err := eng.StartAlertSweep(cfg.Sweep.At); err != nil {
			return fmt.Errorf("start alert sweep: %w", err)
		}
	}

	cfg.Watch(func(next *config.Config) {
		if err := log.SetLevel(next.Log.Level); err != nil {
			log.Warn("config reload: bad log level", "level", next.Log.Level, "error", err)
			return
		}
		log.Info("config reloaded", "level", log.Level())
	}, func(err error) {
		log.Warn("config reload failed", "error", err)
	})

	srv := server.New(eng, log, VersionString())
	addr := cfg.ListenAddr()

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() {
		log.Info("keepsharp serving", "addr", addr, "driver", cfg.Storage.Driver, "config", cfg.File)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case <-done:
	case err := <-errc:
		return fmt.Errorf("server error: %w", err)
	}
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return httpServer.Shutdown(ctx)
}
