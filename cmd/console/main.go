package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/baharkarakas/authmonitor/internal/api"
	"github.com/baharkarakas/authmonitor/internal/auth"
	"github.com/baharkarakas/authmonitor/internal/config"
	"github.com/baharkarakas/authmonitor/internal/dashboard"
	"github.com/baharkarakas/authmonitor/internal/logger"
	"github.com/baharkarakas/authmonitor/internal/metrics"
	"github.com/baharkarakas/authmonitor/internal/remote"
	"github.com/baharkarakas/authmonitor/internal/session"
	"github.com/baharkarakas/authmonitor/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.Init()

	client := remote.New(cfg.APIBaseURL, remote.WithLogger(log), remote.WithTimeout(cfg.UpstreamTimeout))
	wp := worker.NewPool(cfg.Workers)

	sessions := session.NewStore(cfg.SessionTTL, func() *dashboard.Controller {
		return dashboard.NewController(client, wp, cfg.PageSize, log)
	})
	go sessions.Run(ctx, time.Minute)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.SessionTTL)
	authCtrl := auth.NewController(client, sessions, tokens, log)

	r := api.NewRouter(cfg, authCtrl)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "api", client.BaseURL(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	if err := wp.Shutdown(shutdownCtx); err != nil {
		log.Warn("worker pool not drained", "err", err)
	}
}
