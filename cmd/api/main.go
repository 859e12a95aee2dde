package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"internship-sniper-backend/internal/bootstrap"
	"internship-sniper-backend/internal/config"
	"internship-sniper-backend/internal/server"
	"internship-sniper-backend/internal/telemetry"
)

func main() {
	cfg := config.Load()
	app := bootstrap.NewApp(cfg)

	addr := server.Addr(cfg.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: app.Router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	telemetry.Info("server.started", map[string]any{"addr": addr, "env": cfg.Env})

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			telemetry.Error("server.failed", map[string]any{"error": err.Error()})
		}
		return
	case <-ctx.Done():
	}

	telemetry.Info("server.shutting_down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		telemetry.Error("server.shutdown_failed", map[string]any{"error": err.Error()})
	}
}
