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

var _ repository.PaymentRepository = (*paymentRepo)(nil)

type paymentRepo struct{ pool *pgxpool.Pool }

func NewPaymentRepo(pool *pgxpool.Pool) *paymentRepo {
	return &paymentRepo{pool: pool}
}

const paymentColumns = `id, user_id, reference, amount, currency, status, type, plan_id, billing_cycle, product_type, authorization_url, created_at, updated_at`

func scanPayment(row pgx.Row) (*model.PaymentRecord, error) {
	p := &model.PaymentRecord{}
	if err := row.Scan(&p.ID, &p.UserID, &p.Reference, &p.Amount, &p.Currency, &p.Status, &p.Type, &p.PlanID, &p.BillingCycle, &p.ProductType, &p.AuthorizationURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return p, nil
}

func (r *paymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.PaymentRecord) error {
	const q = `
INSERT INTO payments (` + paymentColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
ON CONFLICT (id) DO UPDATE SET
  status=$6, authorization_url=$11, updated_at=$13;`

	_, err := execSQL(ctx, r.pool, tx, q, p.ID, p.UserID, p.Reference, p.Amount, p.Currency, p.Status, p.Type, p.PlanID, p.BillingCycle, p.ProductType, p.AuthorizationURL, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *paymentRepo) FindByReference(ctx context.Context, tx repository.Tx, reference string) (*model.PaymentRecord, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments WHERE reference=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, reference)
	if err != nil {
		return nil, err
	}
	return scanPayment(row)
}

// UpdateStatusIfPending flips status atomically; only one concurrent caller
// can observe a row change for the same reference.
func (r *paymentRepo) UpdateStatusIfPending(ctx context.Context, tx repository.Tx, reference string, status model.PaymentStatus) (bool, error) {
	const q = `
UPDATE payments
   SET status = $2,
       updated_at = NOW()
 WHERE reference = $1
   AND status = 'pending';`

	cmd, err := execSQL(ctx, r.pool, tx, q, reference, string(status))
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() >= 1, nil
}

func (r *paymentRepo) ListPendingOlderThan(ctx context.Context, tx repository.Tx, olderThan time.Time, limit int) ([]*model.PaymentRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE status='pending' AND created_at < $1 ORDER BY created_at ASC LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, olderThan, limit)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []*model.PaymentRecord
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
