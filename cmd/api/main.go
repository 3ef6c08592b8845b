package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hametuha/hamephone/internal/config"
	"github.com/hametuha/hamephone/internal/ivr"
	"github.com/hametuha/hamephone/internal/notify"
	"github.com/hametuha/hamephone/internal/observability/metrics"
	"github.com/hametuha/hamephone/internal/telephony"
	"github.com/hametuha/hamephone/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Best-effort env file for local runs; real deployments set env directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	menu, err := ivr.NewReceptionMenu(ivr.ReceptionParams{
		ForwardTo:            cfg.Call.ForwardTo,
		CallerID:             cfg.Twilio.PhoneNumber,
		RecordingCallbackURL: telephony.RecordingStatusPath,
		DialTimeoutSeconds:   int(cfg.Call.DialTimeout.Seconds()),
	})
	if err != nil {
		log.Error("menu build failed", "err", err)
		os.Exit(1)
	}

	twilioClient := telephony.NewTwilioClient(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.RequestTimeout)
	notifier := notify.NewService(twilioClient, notify.Config{
		SMSFrom:        cfg.Twilio.PhoneNumber,
		SMSTo:          cfg.Notify.SMSTo,
		PurgeRecording: cfg.Notify.PurgeRecording,
		CallTimeout:    cfg.Twilio.RequestTimeout,
	}, log)

	reg := prometheus.NewRegistry()
	callMetrics := metrics.NewCallMetrics(reg)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, reg, menu, notifier, callMetrics)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("ivr webhook listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
