package repository

import (
	"context"

	"opsdesk/internal/domain/model"
)

// ClientRepository persists the account's customers. All lookups are scoped
// by the owning user.
type ClientRepository interface {
	Save(ctx context.Context, tx Tx, c *model.Client) error
	FindByID(ctx context.Context, tx Tx, userID, id string) (*model.Client, error)
	ListByUser(ctx context.Context, tx Tx, userID string) ([]*model.Client, error)
	CountByUser(ctx context.Context, tx Tx, userID string) (int, error)
	Delete(ctx context.Context, tx Tx, userID, id string) error
}
