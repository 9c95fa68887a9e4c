package model

import (
	"time"

	"opsdesk/internal/domain"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusTrialing SubscriptionStatus = "trialing"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
)

// Subscription is a user's recurring entitlement. At most one row per user may
// be active or trialing at a time; that rule is enforced by the reconcile flow
// updating an existing current row in place rather than inserting a second.
type Subscription struct {
	ID                     string // UUID
	UserID                 string // UUID
	PlanID                 string
	Status                 SubscriptionStatus
	BillingCycle           BillingCycle
	CurrentPeriodStart     time.Time
	CurrentPeriodEnd       time.Time
	CancelAtPeriodEnd      bool
	GatewayCustomerRef     string
	GatewaySubscriptionRef string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// NewSubscription creates an active subscription with its first period
// starting at now.
func NewSubscription(id, userID string, plan Plan, cycle BillingCycle, now time.Time) (*Subscription, error) {
	if id == "" || userID == "" || plan.IsZero() || !cycle.Valid() {
		return nil, domain.ErrInvalidArgument
	}
	return &Subscription{
		ID:                 id,
		UserID:             userID,
		PlanID:             plan.ID,
		Status:             SubscriptionStatusActive,
		BillingCycle:       cycle,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   NextPeriodEnd(now, cycle),
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// Renew rolls the subscription onto a fresh period for the given plan and
// cycle. A pending cancellation is cleared: a new successful charge always
// re-establishes intent to continue.
func (s *Subscription) Renew(plan Plan, cycle BillingCycle, now time.Time) {
	s.PlanID = plan.ID
	s.BillingCycle = cycle
	s.Status = SubscriptionStatusActive
	s.CurrentPeriodStart = now
	s.CurrentPeriodEnd = NextPeriodEnd(now, cycle)
	s.CancelAtPeriodEnd = false
	s.UpdatedAt = now
}

// IsCurrent reports whether the row counts as the user's one live subscription.
func (s *Subscription) IsCurrent() bool {
	return s.Status == SubscriptionStatusActive || s.Status == SubscriptionStatusTrialing
}

// HasAccess reports whether the subscription grants access at the given time.
// Recomputed on every check, never cached.
func (s *Subscription) HasAccess(now time.Time) bool {
	return s.IsCurrent() && now.Before(s.CurrentPeriodEnd)
}
