package sched

import (
	"context"
	"time"

	"food-spot-backend/internal/domain/ports/repository"
	"food-spot-backend/internal/usecase"

	"github.com/rs/zerolog"
)

// PaymentReconciler periodically re-verifies stale pending payments and
// repairs missing entitlements. This covers the cases where a callback never
// arrived or the process crashed between the status write and the grant.
type PaymentReconciler struct {
	subUC      usecase.SubscriptionUseCase
	payments   repository.PaymentRepository
	interval   time.Duration // how often to scan
	staleAfter time.Duration // how old a pending payment must be to retry
	log        *zerolog.Logger
}

func NewPaymentReconciler(subUC usecase.SubscriptionUseCase, payments repository.PaymentRepository, interval, staleAfter time.Duration, logger *zerolog.Logger) *PaymentReconciler {
	if interval <= 0 {
		interval = time.Minute
	}
	if staleAfter <= 0 {
		staleAfter = 10 * time.Minute
	}
	recLog := logger.With().Str("component", "PaymentReconciler").Logger()
	return &PaymentReconciler{
		subUC:      subUC,
		payments:   payments,
		interval:   interval,
		staleAfter: staleAfter,
		log:        &recLog,
	}
}

func (w *PaymentReconciler) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting payment reconciler")
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping payment reconciler")
			return ctx.Err()
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *PaymentReconciler) tick(ctx context.Context) {
	cutoff := time.Now().Add(-w.staleAfter)
	pending, err := w.payments.ListPendingWithValidationToken(ctx, nil, cutoff, 200)
	if err != nil {
		w.log.Error().Err(err).Msg("list stale pending error")
		return
	}
	for _, p := range pending {
		token, _ := p.GatewayData["val_id"].(string)
		if token == "" {
			continue
		}
		if _, err := w.subUC.Verify(ctx, p.TransactionID, token); err != nil {
			w.log.Warn().Err(err).
				Str("payment_id", p.ID).
				Str("transaction_id", p.TransactionID).
				Msg("re-verify failed")
			continue
		}
		w.log.Info().Str("payment_id", p.ID).Msg("stale payment reconciled")
	}

	if n, err := w.subUC.ReconcileEntitlements(ctx); err != nil {
		w.log.Error().Err(err).Msg("entitlement reconciliation error")
	} else if n > 0 {
		w.log.Info().Int("count", n).Msg("entitlements repaired")
	}
}
