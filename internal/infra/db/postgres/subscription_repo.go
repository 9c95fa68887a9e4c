package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"opsdesk/internal/domain"
	"opsdesk/internal/domain/model"
	"opsdesk/internal/domain/ports/repository"
)

var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

type subscriptionRepo struct{ pool *pgxpool.Pool }

func NewSubscriptionRepo(pool *pgxpool.Pool) *subscriptionRepo {
	return &subscriptionRepo{pool: pool}
}

const subscriptionColumns = `id, user_id, plan_id, status, billing_cycle, current_period_start, current_period_end, cancel_at_period_end, gateway_customer_ref, gateway_subscription_ref, created_at, updated_at`

func scanSubscription(row pgx.Row) (*model.Subscription, error) {
	s := &model.Subscription{}
	if err := row.Scan(&s.ID, &s.UserID, &s.PlanID, &s.Status, &s.BillingCycle, &s.CurrentPeriodStart, &s.CurrentPeriodEnd, &s.CancelAtPeriodEnd, &s.GatewayCustomerRef, &s.GatewaySubscriptionRef, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return s, nil
}

func (r *subscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	const q = `
INSERT INTO subscriptions (` + subscriptionColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
ON CONFLICT (id) DO UPDATE SET
  plan_id=$3, status=$4, billing_cycle=$5, current_period_start=$6, current_period_end=$7,
  cancel_at_period_end=$8, gateway_customer_ref=$9, gateway_subscription_ref=$10, updated_at=$12;`

	_, err := execSQL(ctx, r.pool, tx, q, s.ID, s.UserID, s.PlanID, s.Status, s.BillingCycle, s.CurrentPeriodStart, s.CurrentPeriodEnd, s.CancelAtPeriodEnd, s.GatewayCustomerRef, s.GatewaySubscriptionRef, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *subscriptionRepo) FindCurrentByUser(ctx context.Context, tx repository.Tx, userID string) (*model.Subscription, error) {
	q := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE user_id=$1 AND status IN ('active','trialing') ORDER BY created_at DESC LIMIT 1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, err
	}
	return scanSubscription(row)
}

func (r *subscriptionRepo) FindByGatewayRef(ctx context.Context, tx repository.Tx, gatewaySubscriptionRef string) (*model.Subscription, error) {
	const q = `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE gateway_subscription_ref=$1 LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, gatewaySubscriptionRef)
	if err != nil {
		return nil, err
	}
	return scanSubscription(row)
}

func (r *subscriptionRepo) FindByGatewayCustomerRef(ctx context.Context, tx repository.Tx, gatewayCustomerRef string) (*model.Subscription, error) {
	const q = `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE gateway_customer_ref=$1 AND status IN ('active','trialing') ORDER BY created_at DESC LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, gatewayCustomerRef)
	if err != nil {
		return nil, err
	}
	return scanSubscription(row)
}

func (r *subscriptionRepo) CancelLapsed(ctx context.Context, tx repository.Tx, asOf time.Time) (int64, error) {
	const q = `
UPDATE subscriptions
   SET status = 'canceled',
       updated_at = NOW()
 WHERE status IN ('active','trialing')
   AND current_period_end < $1;`

	cmd, err := execSQL(ctx, r.pool, tx, q, asOf)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return 0, err
		}
		return 0, domain.ErrOperationFailed
	}
	return cmd.RowsAffected(), nil
}
