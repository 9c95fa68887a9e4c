// File: internal/usecase/billing_uc.go
package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"opsdesk/internal/domain"
	"opsdesk/internal/domain/model"
	"opsdesk/internal/domain/ports/adapter"
	"opsdesk/internal/domain/ports/repository"
	"opsdesk/internal/infra/metrics"
)

// Compile-time check
var _ BillingUseCase = (*billingUC)(nil)

type BillingUseCase interface {
	// StartSubscriptionCheckout creates a pending payment record for a plan
	// and returns it with the hosted checkout URL to redirect the browser to.
	StartSubscriptionCheckout(ctx context.Context, userID, email, planID string, cycle model.BillingCycle) (*model.PaymentRecord, string, error)
	// StartPurchaseCheckout does the same for a one-time product.
	StartPurchaseCheckout(ctx context.Context, userID, email string, product model.ProductType) (*model.PaymentRecord, string, error)
	// PaymentStatus reads the current record for a reference (status polling).
	PaymentStatus(ctx context.Context, reference string) (*model.PaymentRecord, error)
}

type billingUC struct {
	payments repository.PaymentRepository
	gateway  adapter.PaymentGateway
	log      *zerolog.Logger
}

func NewBillingUseCase(payments repository.PaymentRepository, gateway adapter.PaymentGateway, log *zerolog.Logger) *billingUC {
	return &billingUC{payments: payments, gateway: gateway, log: log}
}

func (u *billingUC) StartSubscriptionCheckout(ctx context.Context, userID, email, planID string, cycle model.BillingCycle) (*model.PaymentRecord, string, error) {
	plan, ok := model.PlanByID(planID)
	if !ok {
		return nil, "", fmt.Errorf("unknown plan %q: %w", planID, domain.ErrInvalidArgument)
	}
	rec, err := model.NewSubscriptionPayment(uuid.NewString(), userID, plan, cycle)
	if err != nil {
		return nil, "", err
	}
	meta := map[string]string{
		"user_id":       userID,
		"payment_type":  string(model.PaymentTypeSubscription),
		"plan_id":       plan.ID,
		"billing_cycle": string(cycle),
	}
	return u.initialize(ctx, rec, email, meta)
}

func (u *billingUC) StartPurchaseCheckout(ctx context.Context, userID, email string, productType model.ProductType) (*model.PaymentRecord, string, error) {
	product, ok := model.ProductByType(productType)
	if !ok {
		return nil, "", fmt.Errorf("unknown product %q: %w", productType, domain.ErrInvalidArgument)
	}
	rec, err := model.NewPurchasePayment(uuid.NewString(), userID, product)
	if err != nil {
		return nil, "", err
	}
	meta := map[string]string{
		"user_id":      userID,
		"payment_type": string(model.PaymentTypeOneTime),
		"product_type": string(productType),
	}
	return u.initialize(ctx, rec, email, meta)
}

// initialize creates the hosted transaction first, then persists the pending
// record with the authorization URL. A gateway rejection leaves no row behind.
func (u *billingUC) initialize(ctx context.Context, rec *model.PaymentRecord, email string, meta map[string]string) (*model.PaymentRecord, string, error) {
	res, err := u.gateway.Initialize(ctx, email, rec.Amount, rec.Reference, meta)
	if err != nil {
		u.log.Error().Err(err).Str("reference", rec.Reference).Msg("gateway initialize failed")
		return nil, "", fmt.Errorf("initialize transaction: %w", err)
	}
	rec.AuthorizationURL = res.AuthorizationURL

	if err := u.payments.Save(ctx, repository.NoTX, rec); err != nil {
		return nil, "", err
	}
	metrics.IncPayment(string(model.PaymentStatusPending))
	u.log.Info().
		Str("reference", rec.Reference).
		Str("type", string(rec.Type)).
		Int64("amount", rec.Amount).
		Msg("checkout initialized")
	return rec, res.AuthorizationURL, nil
}

func (u *billingUC) PaymentStatus(ctx context.Context, reference string) (*model.PaymentRecord, error) {
	if reference == "" {
		return nil, domain.ErrInvalidArgument
	}
	return u.payments.FindByReference(ctx, repository.NoTX, reference)
}
