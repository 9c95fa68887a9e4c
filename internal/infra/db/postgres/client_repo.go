package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"opsdesk/internal/domain"
	"opsdesk/internal/domain/model"
	"opsdesk/internal/domain/ports/repository"
)

var _ repository.ClientRepository = (*clientRepo)(nil)

type clientRepo struct{ pool *pgxpool.Pool }

func NewClientRepo(pool *pgxpool.Pool) *clientRepo {
	return &clientRepo{pool: pool}
}

const clientColumns = `id, user_id, name, email, phone, notes, created_at, updated_at`

func scanClient(row pgx.Row) (*model.Client, error) {
	c := &model.Client{}
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Phone, &c.Notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return c, nil
}

func (r *clientRepo) Save(ctx context.Context, tx repository.Tx, c *model.Client) error {
	const q = `
INSERT INTO clients (` + clientColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO UPDATE SET name=$3, email=$4, phone=$5, notes=$6, updated_at=$8;`

	_, err := execSQL(ctx, r.pool, tx, q, c.ID, c.UserID, c.Name, c.Email, c.Phone, c.Notes, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *clientRepo) FindByID(ctx context.Context, tx repository.Tx, userID, id string) (*model.Client, error) {
	const q = `SELECT ` + clientColumns + ` FROM clients WHERE id=$1 AND user_id=$2;`
	row, err := pickRow(ctx, r.pool, tx, q, id, userID)
	if err != nil {
		return nil, err
	}
	return scanClient(row)
}

func (r *clientRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Client, error) {
	const q = `SELECT ` + clientColumns + ` FROM clients WHERE user_id=$1 ORDER BY name ASC;`
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

	var out []*model.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *clientRepo) CountByUser(ctx context.Context, tx repository.Tx, userID string) (int, error) {
	const q = `SELECT COUNT(*) FROM clients WHERE user_id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, userID)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}

func (r *clientRepo) Delete(ctx context.Context, tx repository.Tx, userID, id string) error {
	const q = `DELETE FROM clients WHERE id=$1 AND user_id=$2;`
	cmd, err := execSQL(ctx, r.pool, tx, q, id, userID)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
