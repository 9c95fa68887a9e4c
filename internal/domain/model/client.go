package model

import (
	"time"

	"opsdesk/internal/domain"
)

// Client is a customer of the account holder's business.
type Client struct {
	ID        string // UUID
	UserID    string // owning account
	Name      string
	Email     string
	Phone     string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewClient(id, userID, name, email, phone, notes string) (*Client, error) {
	if id == "" || userID == "" || name == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now().UTC()
	return &Client{
		ID:        id,
		UserID:    userID,
		Name:      name,
		Email:     email,
		Phone:     phone,
		Notes:     notes,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
