package model

import (
	"time"

	"opsdesk/internal/domain"
)

// Expense is a business cost recorded against the account.
type Expense struct {
	ID         string // UUID
	UserID     string
	Category   string
	AmountKobo int64
	IncurredOn time.Time
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NewExpense(id, userID, category string, amountKobo int64, incurredOn time.Time, notes string) (*Expense, error) {
	if id == "" || userID == "" || category == "" || amountKobo <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now().UTC()
	return &Expense{
		ID:         id,
		UserID:     userID,
		Category:   category,
		AmountKobo: amountKobo,
		IncurredOn: incurredOn,
		Notes:      notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}
