package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"opsdesk/internal/usecase"
)

// PaymentReconciler periodically re-verifies stale pending payments with the
// gateway. This covers webhooks that never arrived and processes that crashed
// mid-reconcile.
type PaymentReconciler struct {
	uc         usecase.ReconcileUseCase
	interval   time.Duration // how often to scan
	staleAfter time.Duration // how old a pending payment must be to retry
	log        *zerolog.Logger
}

func NewPaymentReconciler(uc usecase.ReconcileUseCase, interval, staleAfter time.Duration, logger *zerolog.Logger) *PaymentReconciler {
	if interval <= 0 {
		interval = time.Minute
	}
	if staleAfter <= 0 {
		staleAfter = 10 * time.Minute
	}
	l := logger.With().Str("component", "PaymentReconciler").Logger()
	return &PaymentReconciler{uc: uc, interval: interval, staleAfter: staleAfter, log: &l}
}

func (w *PaymentReconciler) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("starting payment reconciler")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("stopping payment reconciler")
			return ctx.Err()
		case <-ticker.C:
			cutoff := time.Now().Add(-w.staleAfter)
			if err := w.uc.ReconcilePending(ctx, cutoff, 200); err != nil {
				w.log.Error().Err(err).Msg("reconcile pending failed")
			}
		}
	}
}
