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

var _ repository.JobRepository = (*jobRepo)(nil)

type jobRepo struct{ pool *pgxpool.Pool }

func NewJobRepo(pool *pgxpool.Pool) *jobRepo {
	return &jobRepo{pool: pool}
}

const jobColumns = `id, user_id, client_id, title, description, status, scheduled_for, amount, created_at, updated_at`

func scanJob(row pgx.Row) (*model.Job, error) {
	j := &model.Job{}
	if err := row.Scan(&j.ID, &j.UserID, &j.ClientID, &j.Title, &j.Description, &j.Status, &j.ScheduledFor, &j.AmountKobo, &j.CreatedAt, &j.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return j, nil
}

func (r *jobRepo) Save(ctx context.Context, tx repository.Tx, j *model.Job) error {
	const q = `
INSERT INTO jobs (` + jobColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (id) DO UPDATE SET
  title=$4, description=$5, status=$6, scheduled_for=$7, amount=$8, updated_at=$10;`

	_, err := execSQL(ctx, r.pool, tx, q, j.ID, j.UserID, j.ClientID, j.Title, j.Description, j.Status, j.ScheduledFor, j.AmountKobo, j.CreatedAt, j.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *jobRepo) FindByID(ctx context.Context, tx repository.Tx, userID, id string) (*model.Job, error) {
	const q = `SELECT ` + jobColumns + ` FROM jobs WHERE id=$1 AND user_id=$2;`
	row, err := pickRow(ctx, r.pool, tx, q, id, userID)
	if err != nil {
		return nil, err
	}
	return scanJob(row)
}

func (r *jobRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Job, error) {
	const q = `SELECT ` + jobColumns + ` FROM jobs WHERE user_id=$1 ORDER BY created_at DESC;`
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

	var out []*model.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, nil
}

func (r *jobRepo) Delete(ctx context.Context, tx repository.Tx, userID, id string) error {
	const q = `DELETE FROM jobs WHERE id=$1 AND user_id=$2;`
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
