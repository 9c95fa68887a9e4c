// File: internal/usecase/user_uc.go
package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"opsdesk/internal/domain"
	"opsdesk/internal/domain/model"
	"opsdesk/internal/domain/ports/repository"
)

// Compile-time check
var _ UserUseCase = (*userUC)(nil)

type UserUseCase interface {
	Register(ctx context.Context, email, name, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
}

type userUC struct {
	users repository.UserRepository
	log   *zerolog.Logger
}

func NewUserUseCase(users repository.UserRepository, log *zerolog.Logger) *userUC {
	return &userUC{users: users, log: log}
}

func (u *userUC) Register(ctx context.Context, email, name, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(password) < 8 {
		return nil, domain.ErrInvalidArgument
	}
	if existing, err := u.users.FindByEmail(ctx, repository.NoTX, email); err == nil && existing != nil {
		return nil, domain.ErrAlreadyExists
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user, err := model.NewUser(uuid.NewString(), email, name, string(hash))
	if err != nil {
		return nil, err
	}
	if err := u.users.Save(ctx, repository.NoTX, user); err != nil {
		return nil, err
	}
	u.log.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

func (u *userUC) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := u.users.FindByEmail(ctx, repository.NoTX, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (u *userUC) FindByID(ctx context.Context, id string) (*model.User, error) {
	return u.users.FindByID(ctx, repository.NoTX, id)
}
