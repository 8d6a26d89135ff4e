package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"blackbox/internal/api"
	"blackbox/internal/workers"
	"blackbox/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server and background workers",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	app, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	log := logger.Get()
	log.Infof("Starting %s in %s mode", app.cfg.App.Name, app.cfg.App.Env)

	handler := api.NewHandler(app.service, app.engine, app.db)
	server := api.NewServer(api.ServerConfig{
		Port:        app.cfg.Server.Port,
		ServiceName: app.cfg.App.Name,
		Version:     version,
	}, handler, log)

	scheduler := workers.NewScheduler()
	scheduler.RegisterWorker(workers.NewCalendarRefreshWorker(
		app.service,
		app.cfg.Workers.CalendarRefreshInterval,
		app.cfg.Workers.CalendarRefreshEnabled,
	))

	if err := scheduler.Start(ctx); err != nil {
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			log.Errorw("Server failed", "error", err)
		}
	case s := <-sig:
		log.Infow("Shutdown signal received", "signal", s.String())
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Server shutdown failed", "error", err)
	}
	if err := scheduler.Stop(); err != nil {
		log.Errorw("Scheduler shutdown failed", "error", err)
	}

	log.Info("Shutdown complete")
	return nil
}

const version = "1.0.0"
