package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"opsdesk/internal/domain"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending" // checkout initialized; awaiting gateway confirmation
	PaymentStatusSuccess PaymentStatus = "success" // verified paid at the gateway
	PaymentStatusFailed  PaymentStatus = "failed"  // gateway reported failure or the attempt went stale
)

type PaymentType string

const (
	PaymentTypeSubscription PaymentType = "subscription"
	PaymentTypeOneTime      PaymentType = "one_time"
)

// PaymentRecord is one row per checkout attempt, keyed by Reference.
// The reference doubles as the idempotency key for webhook reconciliation.
// Status only moves pending -> success or pending -> failed, never back.
type PaymentRecord struct {
	ID               string // UUID
	UserID           string // UUID
	Reference        string // unique, immutable after creation
	Amount           int64  // kobo
	Currency         string
	Status           PaymentStatus
	Type             PaymentType
	PlanID           string       // subscription payments only
	BillingCycle     BillingCycle // subscription payments only
	ProductType      ProductType  // one-time payments only
	AuthorizationURL string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewPaymentReference builds the opaque per-attempt reference:
// kind prefix, truncated user id, millisecond timestamp, random ULID suffix.
// Uniqueness holds with overwhelming probability even for concurrent
// checkouts by the same user.
func NewPaymentReference(kind PaymentType, userID string) string {
	prefix := "sub"
	if kind == PaymentTypeOneTime {
		prefix = "buy"
	}
	short := strings.ReplaceAll(userID, "-", "")
	if len(short) > 8 {
		short = short[:8]
	}
	suffix := ulid.Make().String()
	if len(suffix) > 10 {
		suffix = suffix[:10]
	}
	return fmt.Sprintf("%s_%s_%d_%s", prefix, short, time.Now().UnixMilli(), strings.ToLower(suffix))
}

// NewSubscriptionPayment creates a pending record for a plan checkout.
func NewSubscriptionPayment(id, userID string, plan Plan, cycle BillingCycle) (*PaymentRecord, error) {
	if id == "" || userID == "" || plan.IsZero() || !cycle.Valid() {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now().UTC()
	return &PaymentRecord{
		ID:           id,
		UserID:       userID,
		Reference:    NewPaymentReference(PaymentTypeSubscription, userID),
		Amount:       plan.PriceFor(cycle),
		Currency:     "NGN",
		Status:       PaymentStatusPending,
		Type:         PaymentTypeSubscription,
		PlanID:       plan.ID,
		BillingCycle: cycle,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// NewPurchasePayment creates a pending record for a one-time product checkout.
func NewPurchasePayment(id, userID string, product Product) (*PaymentRecord, error) {
	if id == "" || userID == "" || product.IsZero() {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now().UTC()
	return &PaymentRecord{
		ID:          id,
		UserID:      userID,
		Reference:   NewPaymentReference(PaymentTypeOneTime, userID),
		Amount:      product.PriceKobo,
		Currency:    "NGN",
		Status:      PaymentStatusPending,
		Type:        PaymentTypeOneTime,
		ProductType: product.Type,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
