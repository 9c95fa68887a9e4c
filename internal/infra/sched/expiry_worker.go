package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"opsdesk/internal/domain/ports/repository"
	"opsdesk/internal/infra/metrics"
)

// ExpiryWorker periodically cancels subscriptions whose period end has
// elapsed and expires annual purchases past their expiry date. Access checks
// already deny lapsed rows; this keeps the stored status honest and the
// one-live-row invariant cheap to enforce.
type ExpiryWorker struct {
	interval  time.Duration
	subs      repository.SubscriptionRepository
	purchases repository.PurchaseRepository
	log       *zerolog.Logger
}

func NewExpiryWorker(interval time.Duration, subs repository.SubscriptionRepository, purchases repository.PurchaseRepository, logger *zerolog.Logger) *ExpiryWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	l := logger.With().Str("component", "ExpiryWorker").Logger()
	return &ExpiryWorker{interval: interval, subs: subs, purchases: purchases, log: &l}
}

func (w *ExpiryWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("starting expiry worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("stopping expiry worker")
			return ctx.Err()
		case <-ticker.C:
			now := time.Now().UTC()
			n, err := w.subs.CancelLapsed(ctx, repository.NoTX, now)
			if err != nil {
				w.log.Error().Err(err).Msg("cancel lapsed failed")
			} else if n > 0 {
				metrics.AddSubscriptionsLapsed(n)
				w.log.Info().Int64("count", n).Msg("lapsed subscriptions canceled")
			}

			p, err := w.purchases.ExpireLapsed(ctx, repository.NoTX, now)
			if err != nil {
				w.log.Error().Err(err).Msg("expire purchases failed")
			} else if p > 0 {
				w.log.Info().Int64("count", p).Msg("annual purchases expired")
			}
		}
	}
}
