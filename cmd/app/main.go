package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"streamshop/internal/config"
	"streamshop/internal/domain/ports/adapter"
	pg "streamshop/internal/infra/db/postgres"
	"streamshop/internal/infra/logging"
	"streamshop/internal/infra/mail"
	"streamshop/internal/infra/metrics"
	red "streamshop/internal/infra/redis"
	"streamshop/internal/infra/sched"
	"streamshop/internal/infra/web"
	"streamshop/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, relaxed cookies)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	if err := pg.Migrate(cfg.Database.URL); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// ---- Redis (optional, order submission degrades to unlimited) ----
	var limiter *red.RateLimiter
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, order rate limiting disabled")
		} else {
			limiter = red.NewRateLimiter(redisClient)
		}
	}

	// ---- Repositories ----
	accountRepo := pg.NewAccountRepo(pool)
	orderRepo := pg.NewOrderRepo(pool)
	customerRepo := pg.NewCustomerRepo(pool)
	txManager := pg.NewTxManager(pool)

	// ---- Admin notifier ----
	var notifier adapter.AdminNotifier
	if cfg.SMTP.Enabled() {
		notifier = mail.NewSMTPNotifier(cfg.SMTP)
		logger.Info().Str("host", cfg.SMTP.Host).Str("to", cfg.SMTP.AdminEmail).Msg("admin mail enabled")
	} else {
		notifier = mail.NewNoopNotifier()
		logger.Info().Msg("smtp not configured, admin mail disabled")
	}

	// ---- Use cases ----
	orderUC := usecase.NewOrderUseCase(orderRepo, accountRepo, customerRepo, txManager, notifier, cfg.Store.SubscriptionDays, logger)
	inventoryUC := usecase.NewInventoryUseCase(accountRepo)
	customerUC := usecase.NewCustomerUseCase(customerRepo)
	statsUC := usecase.NewStatsUseCase(orderRepo, accountRepo, customerRepo)

	// ---- Web ----
	auth := web.NewAuthManager(cfg.Web.SessionSecret, cfg.Web.AdminPassword, cfg.Web.SecureCookie, cfg.Web.CookieDomain, cfg.Web.SessionTTL)
	srv := web.NewServer(orderUC, inventoryUC, customerUC, statsUC, auth, limiter, cfg.Store, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Web.Port),
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	// ---- Pool stats gauges ----
	go func() {
		t := time.NewTicker(30 * time.Second)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				st := pool.Stat()
				metrics.SetDBPoolStats(st.TotalConns(), st.IdleConns(), st.AcquiredConns())
			}
		}
	}()

	// ---- Expiry worker ----
	worker := sched.NewExpiryWorker(cfg.Scheduler.ExpiryCheckInterval, cfg.Scheduler.ExpiryWarnDays, orderUC, notifier, logger)
	go func() { _ = worker.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
