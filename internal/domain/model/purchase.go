package model

import (
	"time"

	"opsdesk/internal/domain"
)

// Purchase is a one-time entitlement created on a successful one-time charge.
// Lifetime purchases never expire (ExpiresAt nil); annual prepaid expires one
// year after creation. Immutable after creation except Status.
type Purchase struct {
	ID               string // UUID
	UserID           string // UUID
	ProductType      ProductType
	Status           string // "active"
	Amount           int64  // kobo
	Currency         string
	ExpiresAt        *time.Time
	GatewayReference string
	CreatedAt        time.Time
}

// NewPurchase creates the entitlement row for a verified one-time charge.
func NewPurchase(id, userID string, product Product, amount int64, currency, gatewayRef string, now time.Time) (*Purchase, error) {
	if id == "" || userID == "" || product.IsZero() || gatewayRef == "" {
		return nil, domain.ErrInvalidArgument
	}
	p := &Purchase{
		ID:               id,
		UserID:           userID,
		ProductType:      product.Type,
		Status:           "active",
		Amount:           amount,
		Currency:         currency,
		GatewayReference: gatewayRef,
		CreatedAt:        now,
	}
	if product.Type == ProductAnnualPrepaid {
		exp := now.AddDate(1, 0, 0)
		p.ExpiresAt = &exp
	}
	return p, nil
}

// HasAccess reports whether the purchase grants access at the given time.
func (p *Purchase) HasAccess(now time.Time) bool {
	return p.ExpiresAt == nil || now.Before(*p.ExpiresAt)
}
