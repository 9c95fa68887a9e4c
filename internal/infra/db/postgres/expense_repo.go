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

var _ repository.ExpenseRepository = (*expenseRepo)(nil)

type expenseRepo struct{ pool *pgxpool.Pool }

func NewExpenseRepo(pool *pgxpool.Pool) *expenseRepo {
	return &expenseRepo{pool: pool}
}

const expenseColumns = `id, user_id, category, amount, incurred_on, notes, created_at, updated_at`

func scanExpense(row pgx.Row) (*model.Expense, error) {
	e := &model.Expense{}
	if err := row.Scan(&e.ID, &e.UserID, &e.Category, &e.AmountKobo, &e.IncurredOn, &e.Notes, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return e, nil
}

func (r *expenseRepo) Save(ctx context.Context, tx repository.Tx, e *model.Expense) error {
	const q = `
INSERT INTO expenses (` + expenseColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO UPDATE SET category=$3, amount=$4, incurred_on=$5, notes=$6, updated_at=$8;`

	_, err := execSQL(ctx, r.pool, tx, q, e.ID, e.UserID, e.Category, e.AmountKobo, e.IncurredOn, e.Notes, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *expenseRepo) FindByID(ctx context.Context, tx repository.Tx, userID, id string) (*model.Expense, error) {
	const q = `SELECT ` + expenseColumns + ` FROM expenses WHERE id=$1 AND user_id=$2;`
	row, err := pickRow(ctx, r.pool, tx, q, id, userID)
	if err != nil {
		return nil, err
	}
	return scanExpense(row)
}

func (r *expenseRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Expense, error) {
	const q = `SELECT ` + expenseColumns + ` FROM expenses WHERE user_id=$1 ORDER BY incurred_on DESC;`
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

	var out []*model.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *expenseRepo) Delete(ctx context.Context, tx repository.Tx, userID, id string) error {
	const q = `DELETE FROM expenses WHERE id=$1 AND user_id=$2;`
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

func (r *expenseRepo) SumBetween(ctx context.Context, tx repository.Tx, userID string, from, to time.Time) (int64, error) {
	const q = `SELECT COALESCE(SUM(amount),0) FROM expenses WHERE user_id=$1 AND incurred_on >= $2 AND incurred_on < $3;`
	row, err := pickRow(ctx, r.pool, tx, q, userID, from, to)
	if err != nil {
		return 0, err
	}
	var sum int64
	if err := row.Scan(&sum); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return sum, nil
}
