package repository

import (
	"context"

	"opsdesk/internal/domain/model"
)

type JobRepository interface {
	Save(ctx context.Context, tx Tx, j *model.Job) error
	FindByID(ctx context.Context, tx Tx, userID, id string) (*model.Job, error)
	ListByUser(ctx context.Context, tx Tx, userID string) ([]*model.Job, error)
	Delete(ctx context.Context, tx Tx, userID, id string) error
}
