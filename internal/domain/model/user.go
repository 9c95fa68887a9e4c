package model

import (
	"strings"
	"time"

	"opsdesk/internal/domain"
)

// User is an account holder. Passwords are stored as bcrypt hashes only.
type User struct {
	ID           string // UUID
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewUser(id, email, name, passwordHash string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if id == "" || email == "" || passwordHash == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now().UTC()
	return &User{
		ID:           id,
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
