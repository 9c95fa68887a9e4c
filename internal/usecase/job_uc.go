// File: internal/usecase/job_uc.go
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
var _ JobUseCase = (*jobUC)(nil)

type JobUseCase interface {
	Create(ctx context.Context, userID, clientID, title, description string, amountKobo int64, scheduledFor *time.Time) (*model.Job, error)
	Get(ctx context.Context, userID, id string) (*model.Job, error)
	List(ctx context.Context, userID string) ([]*model.Job, error)
	SetStatus(ctx context.Context, userID, id string, status model.JobStatus) (*model.Job, error)
	Delete(ctx context.Context, userID, id string) error
}

type jobUC struct {
	jobs    repository.JobRepository
	clients repository.ClientRepository
	log     *zerolog.Logger
}

func NewJobUseCase(jobs repository.JobRepository, clients repository.ClientRepository, log *zerolog.Logger) *jobUC {
	return &jobUC{jobs: jobs, clients: clients, log: log}
}

func (u *jobUC) Create(ctx context.Context, userID, clientID, title, description string, amountKobo int64, scheduledFor *time.Time) (*model.Job, error) {
	// the client must belong to the same account
	if _, err := u.clients.FindByID(ctx, repository.NoTX, userID, clientID); err != nil {
		return nil, err
	}
	j, err := model.NewJob(uuid.NewString(), userID, clientID, title, description, amountKobo, scheduledFor)
	if err != nil {
		return nil, err
	}
	if j.ScheduledFor != nil {
		j.Status = model.JobStatusScheduled
	}
	if err := u.jobs.Save(ctx, repository.NoTX, j); err != nil {
		return nil, err
	}
	return j, nil
}

func (u *jobUC) Get(ctx context.Context, userID, id string) (*model.Job, error) {
	return u.jobs.FindByID(ctx, repository.NoTX, userID, id)
}

func (u *jobUC) List(ctx context.Context, userID string) ([]*model.Job, error) {
	return u.jobs.ListByUser(ctx, repository.NoTX, userID)
}

func (u *jobUC) SetStatus(ctx context.Context, userID, id string, status model.JobStatus) (*model.Job, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidArgument
	}
	j, err := u.jobs.FindByID(ctx, repository.NoTX, userID, id)
	if err != nil {
		return nil, err
	}
	j.Status = status
	j.UpdatedAt = time.Now().UTC()
	if err := u.jobs.Save(ctx, repository.NoTX, j); err != nil {
		return nil, err
	}
	return j, nil
}

func (u *jobUC) Delete(ctx context.Context, userID, id string) error {
	return u.jobs.Delete(ctx, repository.NoTX, userID, id)
}
