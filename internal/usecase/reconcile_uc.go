// File: internal/usecase/reconcile_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"opsdesk/internal/domain"
	"opsdesk/internal/domain/model"
	"opsdesk/internal/domain/ports/adapter"
	"opsdesk/internal/domain/ports/repository"
	"opsdesk/internal/infra/metrics"
)

// Locker serializes webhook deliveries for the same reference. Implemented by
// the redis locker; a lock failure degrades to relying on the atomic
// conditional update alone.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
}

// Compile-time check
var _ ReconcileUseCase = (*reconcileUC)(nil)

// ReconcileUseCase is the webhook-driven payment state machine. A payment
// record only ever moves pending -> success or pending -> failed; replays of
// an already-processed event are no-ops.
type ReconcileUseCase interface {
	HandleChargeSuccess(ctx context.Context, reference string) error
	// HandleSubscriptionCreated stores the gateway's subscription code on the
	// customer's live row so later disable/not_renew events can be matched.
	HandleSubscriptionCreated(ctx context.Context, gatewaySubRef, customerRef, customerEmail string) error
	HandleSubscriptionCanceled(ctx context.Context, gatewaySubRef string) error
	// ReconcilePending re-verifies stale pending payments with the gateway,
	// finalizing ones that were paid but whose webhook never landed.
	ReconcilePending(ctx context.Context, olderThan time.Time, limit int) error
}

type reconcileUC struct {
	payments  repository.PaymentRepository
	subs      repository.SubscriptionRepository
	purchases repository.PurchaseRepository
	users     repository.UserRepository
	gateway   adapter.PaymentGateway
	tm        repository.TransactionManager
	locker    Locker
	mailer    adapter.Mailer
	log       *zerolog.Logger
}

func NewReconcileUseCase(
	payments repository.PaymentRepository,
	subs repository.SubscriptionRepository,
	purchases repository.PurchaseRepository,
	users repository.UserRepository,
	gateway adapter.PaymentGateway,
	tm repository.TransactionManager,
	locker Locker,
	mailer adapter.Mailer,
	log *zerolog.Logger,
) *reconcileUC {
	return &reconcileUC{
		payments:  payments,
		subs:      subs,
		purchases: purchases,
		users:     users,
		gateway:   gateway,
		tm:        tm,
		locker:    locker,
		mailer:    mailer,
		log:       log,
	}
}

// HandleChargeSuccess finalizes one checkout attempt:
//  1. re-verify with the gateway (a correctly signed replay may still carry
//     stale data; the gateway ledger is authoritative),
//  2. look up our record by reference (absent record is a logged no-op so the
//     webhook still returns 200 and the gateway stops retrying),
//  3. atomically flip pending -> success (the idempotency guard),
//  4. provision the subscription period or purchase row in the same
//     transaction.
func (u *reconcileUC) HandleChargeSuccess(ctx context.Context, reference string) error {
	v, err := u.gateway.Verify(ctx, reference)
	if err != nil {
		return fmt.Errorf("verify transaction %s: %w", reference, err)
	}
	if v.Status != "success" {
		u.log.Warn().Str("reference", reference).Str("gateway_status", v.Status).
			Msg("charge.success event but gateway does not report success; ignoring")
		metrics.IncWebhookEvent("charge.success", "status_mismatch")
		return nil
	}

	rec, err := u.payments.FindByReference(ctx, repository.NoTX, reference)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			u.log.Warn().Str("reference", reference).Msg("no payment record for webhook reference; nothing to reconcile")
			metrics.IncWebhookEvent("charge.success", "unknown_reference")
			return nil
		}
		return err
	}

	if v.Amount != rec.Amount {
		u.log.Error().Str("reference", reference).
			Int64("expected", rec.Amount).Int64("reported", v.Amount).
			Msg("verified amount does not match payment record; refusing to provision")
		metrics.IncWebhookEvent("charge.success", "amount_mismatch")
		return nil
	}

	// Serialize concurrent deliveries for the same reference. Best effort:
	// the conditional update below stays correct without the lock.
	if u.locker != nil {
		if token, lockErr := u.locker.TryLock(ctx, "reconcile:"+reference, 30*time.Second); lockErr == nil {
			defer func() { _ = u.locker.Unlock(ctx, "reconcile:"+reference, token) }()
		}
	}

	provisioned := false
	err = u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		won, err := u.payments.UpdateStatusIfPending(ctx, tx, reference, model.PaymentStatusSuccess)
		if err != nil {
			return err
		}
		if !won {
			u.log.Info().Str("reference", reference).Msg("payment already processed; skipping")
			metrics.IncWebhookEvent("charge.success", "duplicate")
			return nil
		}

		switch rec.Type {
		case model.PaymentTypeSubscription:
			if err := u.provisionSubscription(ctx, tx, rec, v); err != nil {
				return err
			}
		case model.PaymentTypeOneTime:
			if err := u.provisionPurchase(ctx, tx, rec, v); err != nil {
				return err
			}
		default:
			return fmt.Errorf("payment %s has unknown type %q: %w", rec.ID, rec.Type, domain.ErrInvalidArgument)
		}
		provisioned = true
		return nil
	})
	if err != nil {
		return err
	}

	if provisioned {
		metrics.IncPayment(string(model.PaymentStatusSuccess))
		metrics.AddPaymentRevenue(rec.Currency, rec.Amount)
		metrics.IncWebhookEvent("charge.success", "provisioned")
		u.sendReceipt(ctx, rec, v)
	}
	return nil
}

func (u *reconcileUC) provisionSubscription(ctx context.Context, tx repository.Tx, rec *model.PaymentRecord, v *adapter.VerifyResult) error {
	plan, ok := model.PlanByID(rec.PlanID)
	if !ok {
		return fmt.Errorf("payment %s references unknown plan %q: %w", rec.ID, rec.PlanID, domain.ErrInvalidArgument)
	}
	now := time.Now().UTC()

	sub, err := u.subs.FindCurrentByUser(ctx, tx, rec.UserID)
	switch {
	case err == nil:
		// Exactly one live row per user: renew in place.
		sub.Renew(plan, rec.BillingCycle, now)
		if v.CustomerCode != "" {
			sub.GatewayCustomerRef = v.CustomerCode
		}
	case errors.Is(err, domain.ErrNotFound):
		sub, err = model.NewSubscription(uuid.NewString(), rec.UserID, plan, rec.BillingCycle, now)
		if err != nil {
			return err
		}
		sub.GatewayCustomerRef = v.CustomerCode
	default:
		return err
	}

	if err := u.subs.Save(ctx, tx, sub); err != nil {
		return err
	}
	metrics.IncSubscriptionProvision(plan.ID, string(rec.BillingCycle))
	u.log.Info().
		Str("reference", rec.Reference).
		Str("plan", plan.ID).
		Time("period_end", sub.CurrentPeriodEnd).
		Msg("subscription provisioned")
	return nil
}

func (u *reconcileUC) provisionPurchase(ctx context.Context, tx repository.Tx, rec *model.PaymentRecord, v *adapter.VerifyResult) error {
	product, ok := model.ProductByType(rec.ProductType)
	if !ok {
		return fmt.Errorf("payment %s references unknown product %q: %w", rec.ID, rec.ProductType, domain.ErrInvalidArgument)
	}
	pu, err := model.NewPurchase(uuid.NewString(), rec.UserID, product, rec.Amount, rec.Currency, rec.Reference, time.Now().UTC())
	if err != nil {
		return err
	}
	if err := u.purchases.Save(ctx, tx, pu); err != nil {
		return err
	}
	u.log.Info().
		Str("reference", rec.Reference).
		Str("product", string(product.Type)).
		Msg("purchase provisioned")
	return nil
}

// HandleSubscriptionCreated processes subscription.create events. The gateway
// assigns the subscription code after the first successful charge, so the
// provisioned row only carries the customer code until this event lands. An
// unmatched customer is a logged no-op.
func (u *reconcileUC) HandleSubscriptionCreated(ctx context.Context, gatewaySubRef, customerRef, customerEmail string) error {
	sub, err := u.findLiveSubscription(ctx, customerRef, customerEmail)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			u.log.Warn().Str("gateway_sub_ref", gatewaySubRef).Str("customer_ref", customerRef).
				Msg("subscription create event for unknown customer")
			metrics.IncWebhookEvent("subscription.create", "unknown_customer")
			return nil
		}
		return err
	}
	if sub.GatewaySubscriptionRef == gatewaySubRef {
		return nil
	}
	sub.GatewaySubscriptionRef = gatewaySubRef
	if customerRef != "" {
		sub.GatewayCustomerRef = customerRef
	}
	sub.UpdatedAt = time.Now().UTC()
	if err := u.subs.Save(ctx, repository.NoTX, sub); err != nil {
		return err
	}
	metrics.IncWebhookEvent("subscription.create", "linked")
	u.log.Info().
		Str("subscription_id", sub.ID).
		Str("gateway_sub_ref", gatewaySubRef).
		Msg("gateway subscription reference linked")
	return nil
}

func (u *reconcileUC) findLiveSubscription(ctx context.Context, customerRef, customerEmail string) (*model.Subscription, error) {
	if customerRef != "" {
		sub, err := u.subs.FindByGatewayCustomerRef(ctx, repository.NoTX, customerRef)
		if err == nil {
			return sub, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}
	if customerEmail == "" {
		return nil, domain.ErrNotFound
	}
	user, err := u.users.FindByEmail(ctx, repository.NoTX, customerEmail)
	if err != nil {
		return nil, err
	}
	return u.subs.FindCurrentByUser(ctx, repository.NoTX, user.ID)
}

// HandleSubscriptionCanceled processes subscription.disable / not_renew
// events: the row is located by the gateway subscription reference and marked
// canceled. An unknown reference is a logged no-op.
func (u *reconcileUC) HandleSubscriptionCanceled(ctx context.Context, gatewaySubRef string) error {
	sub, err := u.subs.FindByGatewayRef(ctx, repository.NoTX, gatewaySubRef)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			u.log.Warn().Str("gateway_sub_ref", gatewaySubRef).Msg("cancel event for unknown subscription reference")
			return nil
		}
		return err
	}
	if sub.Status == model.SubscriptionStatusCanceled {
		return nil
	}
	sub.Status = model.SubscriptionStatusCanceled
	sub.UpdatedAt = time.Now().UTC()
	if err := u.subs.Save(ctx, repository.NoTX, sub); err != nil {
		return err
	}
	metrics.IncSubscriptionCancellation("gateway")
	u.log.Info().Str("subscription_id", sub.ID).Msg("subscription canceled by gateway event")
	return nil
}

func (u *reconcileUC) ReconcilePending(ctx context.Context, olderThan time.Time, limit int) error {
	pending, err := u.payments.ListPendingOlderThan(ctx, repository.NoTX, olderThan, limit)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	for _, rec := range pending {
		v, err := u.gateway.Verify(ctx, rec.Reference)
		if err != nil {
			u.log.Warn().Err(err).Str("reference", rec.Reference).Msg("stale payment re-verify failed")
			continue
		}
		switch v.Status {
		case "success":
			if err := u.HandleChargeSuccess(ctx, rec.Reference); err != nil {
				u.log.Error().Err(err).Str("reference", rec.Reference).Msg("stale payment finalize failed")
			}
		case "failed", "abandoned":
			if _, err := u.payments.UpdateStatusIfPending(ctx, repository.NoTX, rec.Reference, model.PaymentStatusFailed); err != nil {
				u.log.Error().Err(err).Str("reference", rec.Reference).Msg("mark stale payment failed")
				continue
			}
			metrics.IncPayment(string(model.PaymentStatusFailed))
		}
	}
	return nil
}

// sendReceipt emails a payment receipt. Best effort; failures are logged.
func (u *reconcileUC) sendReceipt(ctx context.Context, rec *model.PaymentRecord, v *adapter.VerifyResult) {
	if u.mailer == nil {
		return
	}
	to := v.CustomerEmail
	if to == "" {
		user, err := u.users.FindByID(ctx, repository.NoTX, rec.UserID)
		if err != nil {
			return
		}
		to = user.Email
	}
	body := fmt.Sprintf(
		"<p>We received your payment of %s %.2f.</p><p>Reference: %s</p>",
		rec.Currency, float64(rec.Amount)/100, rec.Reference,
	)
	if err := u.mailer.Send(ctx, to, "Payment received", body); err != nil {
		u.log.Warn().Err(err).Str("reference", rec.Reference).Msg("receipt email failed")
	}
}
