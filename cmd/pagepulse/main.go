package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"pagepulse/internal/api/v1/handler"
	"pagepulse/internal/api/v1/middleware"
	"pagepulse/internal/api/v1/router"
	"pagepulse/internal/billing"
	"pagepulse/internal/cache"
	"pagepulse/internal/config"
	"pagepulse/internal/debug"
	"pagepulse/internal/log"
	"pagepulse/internal/service"
)

const (
	limiterCleanupInterval = time.Minute
	limiterIdleTimeout     = 10 * time.Minute
)

func init() {
	log.InitLogger()
	config.LoadEnv()

	if err := log.Configure(log.Options{
		Level:  config.AppConfig.LogLevel,
		Format: config.AppConfig.LogFormat,
		File:   config.AppConfig.LogFile,
	}); err != nil {
		log.Logger.Fatal("Failed to configure logger", zap.Error(err))
	}
}

func main() {
	defer log.Sync()

	cfg := config.AppConfig

	auditor := service.NewAuditor(service.NewHTTPFetcher(service.FetcherOptions{
		Timeout:      cfg.FetchTimeout,
		UserAgent:    cfg.UserAgent,
		MaxBodyBytes: cfg.MaxBodyBytes,
	}))

	var billingClient handler.Billing
	if cfg.BillingEnabled() {
		billingClient = billing.NewClient(billing.Config{
			SecretKey:     cfg.StripeSecretKey,
			WebhookSecret: cfg.StripeWebhookSecret,
		})
	} else {
		log.Logger.Warn("STRIPE_SECRET_KEY not set, pro audits and billing routes are disabled")
	}

	proxies := cfg.Proxies()

	h := handler.New(
		auditor,
		billingClient,
		cache.NewEntitlements(cfg.EntitlementTTL),
		cache.NewQuota(cfg.FreeAuditsPerDay),
		proxies,
	)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, proxies)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go limiter.Cleanup(ctx, limiterCleanupInterval, limiterIdleTimeout)

	server := &http.Server{
		Addr: cfg.Addr,
		Handler: router.New(h, router.Options{
			RateLimiter:   limiter,
			AllowedOrigin: cfg.CORSAllowedOrigin,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.FetchTimeout + 10*time.Second,
	}

	metricsServer := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           router.NewMetricsRouter(cfg.BasicAuthUser, cfg.BasicAuthPass),
		ReadHeaderTimeout: 5 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Logger.Info("Server started", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Pprof only enabled in dev env
	if cfg.IsDev == "true" {
		debug.StartPprof(cfg.PprofAddr)
	}

	go func() {
		log.Logger.Info("Metrics server started",
			zap.String("addr", cfg.MetricsAddr),
			zap.Bool("basic_auth", cfg.MetricsAuthEnabled()),
		)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Logger.Fatal("Metrics server failed", zap.Error(err))
		}
	}()

	<-stop
	log.Logger.Info("Shutting down server gracefully")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Logger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Logger.Error("Metrics server forced to shutdown", zap.Error(err))
	}
	log.Logger.Info("Server exited successfully")
}
