package repository

import (
	"context"
	"time"

	"opsdesk/internal/domain/model"
)

// SubscriptionRepository persists recurring entitlements.
type SubscriptionRepository interface {
	Save(ctx context.Context, tx Tx, s *model.Subscription) error
	// FindCurrentByUser returns the user's single active-or-trialing row,
	// or domain.ErrNotFound.
	FindCurrentByUser(ctx context.Context, tx Tx, userID string) (*model.Subscription, error)
	FindByGatewayRef(ctx context.Context, tx Tx, gatewaySubscriptionRef string) (*model.Subscription, error)
	// FindByGatewayCustomerRef returns the customer's live row, matched on the
	// gateway customer code stored at provisioning time.
	FindByGatewayCustomerRef(ctx context.Context, tx Tx, gatewayCustomerRef string) (*model.Subscription, error)
	// CancelLapsed marks active/trialing rows whose period end has elapsed
	// as canceled and returns how many rows changed.
	CancelLapsed(ctx context.Context, tx Tx, asOf time.Time) (int64, error)
}
