package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/cors"

	"carrental/internal/bootstrap"
	"carrental/internal/config"
	"carrental/internal/pkg/logger"
	httptransport "carrental/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config failed", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger.New(cfg.App.Env, cfg.App.LogLevel))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}

	inserted, err := app.Catalog.SeedIfEmpty(ctx)
	if err != nil {
		slog.Error("seed catalog failed", "error", err)
	} else if inserted > 0 {
		slog.Info("catalog seeded", "cars", inserted)
	}

	router := httptransport.NewRouter(ctx, app)
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	server := &http.Server{
		Handler:           corsHandler.Handler(router),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := httptransport.Listen(cfg.App.Host, cfg.App.Port)
	if err != nil {
		slog.Error("no port available", "error", err)
		_ = app.Close()
		os.Exit(1)
	}
	port := ln.Addr().(*net.TCPAddr).Port

	go func() {
		slog.Info("server listening", "addr", ln.Addr().String(), "url", "http://localhost:"+strconv.Itoa(port))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	waitForShutdown(server, app, cfg.ShutdownTimeout(), stop)
}

// waitForShutdown drains the server and releases every client. When draining
// outlives timeout the process exits with status 1.
func waitForShutdown(server *http.Server, app *bootstrap.App, timeout time.Duration, stop context.CancelFunc) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR2)
	sig := <-quit
	slog.Info("starting graceful shutdown", "signal", sig.String())

	hardStop := time.AfterFunc(timeout, func() {
		slog.Error("could not close connections in time, forcefully shutting down")
		os.Exit(1)
	})
	defer hardStop.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
	stop()
	if err := app.Close(); err != nil {
		slog.Error("close resources failed", "error", err)
		return
	}
	slog.Info("shutdown complete")
}
