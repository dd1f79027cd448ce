package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"streamshop/internal/domain/ports/adapter"
	"streamshop/internal/infra/metrics"
	"streamshop/internal/usecase"
)

// ExpiryWorker periodically collects subscriptions that lapse within the
// configured warning window and mails the admin a digest, so expiring
// customers can be contacted before their accounts stop working.
type ExpiryWorker struct {
	interval time.Duration
	warnDays int
	orderUC  *usecase.OrderUseCase
	notifier adapter.AdminNotifier
	log      *zerolog.Logger
}

func NewExpiryWorker(interval time.Duration, warnDays int, orderUC *usecase.OrderUseCase, notifier adapter.AdminNotifier, logger *zerolog.Logger) *ExpiryWorker {
	compLog := logger.With().Str("component", "ExpiryWorker").Logger()
	return &ExpiryWorker{
		interval: interval,
		warnDays: warnDays,
		orderUC:  orderUC,
		notifier: notifier,
		log:      &compLog,
	}
}

func (w *ExpiryWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting expiry worker")
	// Run once on startup, then on every tick
	w.runCheck(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping expiry worker")
			return ctx.Err()
		case <-ticker.C:
			w.runCheck(ctx)
		}
	}
}

func (w *ExpiryWorker) runCheck(ctx context.Context) {
	orders, err := w.orderUC.ListExpiring(ctx, w.warnDays)
	if err != nil {
		w.log.Error().Err(err).Msg("expiry check failed")
		return
	}
	if len(orders) == 0 {
		return
	}
	if err := w.notifier.ExpiryDigest(ctx, orders); err != nil {
		metrics.IncMailFailed()
		w.log.Error().Err(err).Msg("expiry digest mail failed")
		return
	}
	metrics.IncMailSent()
	w.log.Info().Int("count", len(orders)).Msg("expiry digest sent")
}
