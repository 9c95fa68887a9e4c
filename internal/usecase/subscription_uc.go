// File: internal/usecase/subscription_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"opsdesk/internal/domain"
	"opsdesk/internal/domain/model"
	"opsdesk/internal/domain/ports/repository"
	"opsdesk/internal/infra/metrics"
)

// AccessStatus is the derived entitlement view. HasAccess is recomputed on
// every call and never cached.
type AccessStatus struct {
	HasAccess    bool
	Subscription *model.Subscription
	Purchase     *model.Purchase
	// PlanID is the plan whose permission table applies, or "" when the
	// user has no entitlement.
	PlanID string
}

// Compile-time check
var _ SubscriptionUseCase = (*subscriptionUC)(nil)

type SubscriptionUseCase interface {
	Status(ctx context.Context, userID string) (*AccessStatus, error)
	// Cancel flags the user's live subscription to lapse at period end.
	// Access remains until current_period_end elapses.
	Cancel(ctx context.Context, userID string) (*model.Subscription, error)
}

type subscriptionUC struct {
	subs      repository.SubscriptionRepository
	purchases repository.PurchaseRepository
	log       *zerolog.Logger
}

func NewSubscriptionUseCase(subs repository.SubscriptionRepository, purchases repository.PurchaseRepository, log *zerolog.Logger) *subscriptionUC {
	return &subscriptionUC{subs: subs, purchases: purchases, log: log}
}

func (u *subscriptionUC) Status(ctx context.Context, userID string) (*AccessStatus, error) {
	now := time.Now().UTC()
	st := &AccessStatus{}

	sub, err := u.subs.FindCurrentByUser(ctx, repository.NoTX, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if sub != nil {
		st.Subscription = sub
		if sub.HasAccess(now) {
			st.HasAccess = true
			st.PlanID = sub.PlanID
		}
	}

	purchases, err := u.purchases.ListByUser(ctx, repository.NoTX, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	for _, p := range purchases {
		if !p.HasAccess(now) {
			continue
		}
		st.Purchase = p
		if !st.HasAccess {
			st.HasAccess = true
			if product, ok := model.ProductByType(p.ProductType); ok {
				st.PlanID = product.PlanEquivalent
			}
		}
		break
	}
	return st, nil
}

func (u *subscriptionUC) Cancel(ctx context.Context, userID string) (*model.Subscription, error) {
	sub, err := u.subs.FindCurrentByUser(ctx, repository.NoTX, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNoActiveSubscription
		}
		return nil, err
	}
	if sub.CancelAtPeriodEnd {
		return sub, nil
	}
	sub.CancelAtPeriodEnd = true
	sub.UpdatedAt = time.Now().UTC()
	if err := u.subs.Save(ctx, repository.NoTX, sub); err != nil {
		return nil, err
	}
	metrics.IncSubscriptionCancellation("user")
	u.log.Info().Str("subscription_id", sub.ID).Msg("subscription set to cancel at period end")
	return sub, nil
}
