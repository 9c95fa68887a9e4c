package repository

import (
	"context"
	"time"

	"opsdesk/internal/domain/model"
)

type ExpenseRepository interface {
	Save(ctx context.Context, tx Tx, e *model.Expense) error
	FindByID(ctx context.Context, tx Tx, userID, id string) (*model.Expense, error)
	ListByUser(ctx context.Context, tx Tx, userID string) ([]*model.Expense, error)
	Delete(ctx context.Context, tx Tx, userID, id string) error
	SumBetween(ctx context.Context, tx Tx, userID string, from, to time.Time) (int64, error)
}
