// File: internal/usecase/expense_uc.go
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
var _ ExpenseUseCase = (*expenseUC)(nil)

type ExpenseUseCase interface {
	Create(ctx context.Context, userID, category string, amountKobo int64, incurredOn time.Time, notes string) (*model.Expense, error)
	Get(ctx context.Context, userID, id string) (*model.Expense, error)
	List(ctx context.Context, userID string) ([]*model.Expense, error)
	Update(ctx context.Context, userID, id, category string, amountKobo int64, incurredOn time.Time, notes string) (*model.Expense, error)
	Delete(ctx context.Context, userID, id string) error
}

type expenseUC struct {
	expenses repository.ExpenseRepository
	log      *zerolog.Logger
}

func NewExpenseUseCase(expenses repository.ExpenseRepository, log *zerolog.Logger) *expenseUC {
	return &expenseUC{expenses: expenses, log: log}
}

func (u *expenseUC) Create(ctx context.Context, userID, category string, amountKobo int64, incurredOn time.Time, notes string) (*model.Expense, error) {
	e, err := model.NewExpense(uuid.NewString(), userID, category, amountKobo, incurredOn, notes)
	if err != nil {
		return nil, err
	}
	if err := u.expenses.Save(ctx, repository.NoTX, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (u *expenseUC) Get(ctx context.Context, userID, id string) (*model.Expense, error) {
	return u.expenses.FindByID(ctx, repository.NoTX, userID, id)
}

func (u *expenseUC) List(ctx context.Context, userID string) ([]*model.Expense, error) {
	return u.expenses.ListByUser(ctx, repository.NoTX, userID)
}

func (u *expenseUC) Update(ctx context.Context, userID, id, category string, amountKobo int64, incurredOn time.Time, notes string) (*model.Expense, error) {
	e, err := u.expenses.FindByID(ctx, repository.NoTX, userID, id)
	if err != nil {
		return nil, err
	}
	if category == "" || amountKobo <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	e.Category = category
	e.AmountKobo = amountKobo
	e.IncurredOn = incurredOn
	e.Notes = notes
	e.UpdatedAt = time.Now().UTC()
	if err := u.expenses.Save(ctx, repository.NoTX, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (u *expenseUC) Delete(ctx context.Context, userID, id string) error {
	return u.expenses.Delete(ctx, repository.NoTX, userID, id)
}
