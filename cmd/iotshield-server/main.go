package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rparoni/iotshield/internal/sim"
	"github.com/rparoni/iotshield/internal/sim/notifiers"
	"github.com/rparoni/iotshield/internal/telemetry"
)

func main() {
	cfg := loadServerConfig()
	logger := NewLogger(cfg.LogLevel)

	telemetry.InitMetrics()

	srv := NewServer(logger)
	srv.session.Engine().SetDelayRange(cfg.AttackDelayMin, cfg.AttackDelayMax)
	srv.session.Feed().SetDelayRange(cfg.MapDelayMin, cfg.MapDelayMax)

	if err := srv.session.Notifications().RegisterNotifier(telemetry.Recorder{}); err != nil {
		logger.Errorf("Failed to register telemetry recorder: %v", err)
	}
	srv.session.Feed().SetLineListener(func(_ sim.MapLine) { telemetry.MapLines.Inc() })

	if cfg.WebhookURL != "" {
		wh := notifiers.NewWebhookNotifier("startup-webhook", cfg.WebhookURL)
		if err := srv.session.Notifications().RegisterNotifier(wh); err != nil {
			logger.Errorf("Failed to register webhook notifier: %v", err)
		}
	}

	srv.session.Run()

	httpSrv := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Routes(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infof("iotshield-server listening on %s", cfg.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("HTTP shutdown failed: %v", err)
	}
	if err := srv.Close(); err != nil {
		logger.Errorf("Session close failed: %v", err)
	}
}
