// File: internal/usecase/client_uc.go
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"opsdesk/internal/domain"
	"opsdesk/internal/domain/model"
	"opsdesk/internal/domain/ports/repository"
)

// Compile-time check
var _ ClientUseCase = (*clientUC)(nil)

type ClientUseCase interface {
	Create(ctx context.Context, userID, name, email, phone, notes string) (*model.Client, error)
	Get(ctx context.Context, userID, id string) (*model.Client, error)
	List(ctx context.Context, userID string) ([]*model.Client, error)
	Update(ctx context.Context, userID, id, name, email, phone, notes string) (*model.Client, error)
	Delete(ctx context.Context, userID, id string) error
}

type clientUC struct {
	clients repository.ClientRepository
	access  SubscriptionUseCase
	log     *zerolog.Logger
}

func NewClientUseCase(clients repository.ClientRepository, access SubscriptionUseCase, log *zerolog.Logger) *clientUC {
	return &clientUC{clients: clients, access: access, log: log}
}

// Create enforces the plan's client limit server-side rather than only
// disabling buttons in the UI.
func (u *clientUC) Create(ctx context.Context, userID, name, email, phone, notes string) (*model.Client, error) {
	status, err := u.access.Status(ctx, userID)
	if err != nil {
		return nil, err
	}
	perms := model.PermissionsFor(status.PlanID)
	if perms.MaxClients != nil {
		count, err := u.clients.CountByUser(ctx, repository.NoTX, userID)
		if err != nil {
			return nil, err
		}
		if count >= *perms.MaxClients {
			return nil, domain.ErrPlanLimitReached
		}
	}

	c, err := model.NewClient(uuid.NewString(), userID, name, email, phone, notes)
	if err != nil {
		return nil, err
	}
	if err := u.clients.Save(ctx, repository.NoTX, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (u *clientUC) Get(ctx context.Context, userID, id string) (*model.Client, error) {
	return u.clients.FindByID(ctx, repository.NoTX, userID, id)
}

func (u *clientUC) List(ctx context.Context, userID string) ([]*model.Client, error) {
	return u.clients.ListByUser(ctx, repository.NoTX, userID)
}

func (u *clientUC) Update(ctx context.Context, userID, id, name, email, phone, notes string) (*model.Client, error) {
	c, err := u.clients.FindByID(ctx, repository.NoTX, userID, id)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, domain.ErrInvalidArgument
	}
	c.Name = name
	c.Email = email
	c.Phone = phone
	c.Notes = notes
	c.UpdatedAt = time.Now().UTC()
	if err := u.clients.Save(ctx, repository.NoTX, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (u *clientUC) Delete(ctx context.Context, userID, id string) error {
	return u.clients.Delete(ctx, repository.NoTX, userID, id)
}
