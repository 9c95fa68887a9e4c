package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"opsdesk/internal/domain"
	"opsdesk/internal/domain/model"
	"opsdesk/internal/domain/ports/repository"
)

var _ repository.PurchaseRepository = (*purchaseRepo)(nil)

type purchaseRepo struct{ pool *pgxpool.Pool }

func NewPurchaseRepo(pool *pgxpool.Pool) *purchaseRepo {
	return &purchaseRepo{pool: pool}
}

func (r *purchaseRepo) Save(ctx context.Context, tx repository.Tx, p *model.Purchase) error {
	const q = `
INSERT INTO purchases (id, user_id, product_type, status, amount, currency, expires_at, gateway_reference, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (id) DO UPDATE SET status=$4;`

	_, err := execSQL(ctx, r.pool, tx, q, p.ID, p.UserID, p.ProductType, p.Status, p.Amount, p.Currency, p.ExpiresAt, p.GatewayReference, p.CreatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *purchaseRepo) ExpireLapsed(ctx context.Context, tx repository.Tx, now time.Time) (int64, error) {
	const q = `UPDATE purchases SET status='expired' WHERE status='active' AND expires_at IS NOT NULL AND expires_at <= $1;`

	ct, err := execSQL(ctx, r.pool, tx, q, now)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return 0, err
		default:
			return 0, domain.ErrOperationFailed
		}
	}
	return ct.RowsAffected(), nil
}

func (r *purchaseRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Purchase, error) {
	const q = `SELECT id, user_id, product_type, status, amount, currency, expires_at, gateway_reference, created_at FROM purchases WHERE user_id=$1 ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q, userID)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []*model.Purchase
	for rows.Next() {
		p := new(model.Purchase)
		if err := rows.Scan(&p.ID, &p.UserID, &p.ProductType, &p.Status, &p.Amount, &p.Currency, &p.ExpiresAt, &p.GatewayReference, &p.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, p)
	}
	return out, nil
}
