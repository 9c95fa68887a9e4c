package adapter

import (
	"context"
	"time"
)

// InitializeResult is the provider response to creating a checkout session.
type InitializeResult struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

// VerifyResult is the provider's authoritative view of a transaction.
type VerifyResult struct {
	Reference     string
	Status        string // provider status, e.g. "success", "failed", "abandoned"
	Amount        int64  // kobo
	Currency      string
	CustomerEmail string
	CustomerCode  string
	PaidAt        time.Time
	Metadata      map[string]string
}

// PaymentGateway is the hex port for the hosted payment provider.
// Implementations read their secrets at call time; a missing secret surfaces
// as a descriptive error from the call, not a startup failure.
type PaymentGateway interface {
	Name() string
	// Initialize creates a hosted checkout session for the given reference.
	Initialize(ctx context.Context, email string, amountKobo int64, reference string, meta map[string]string) (*InitializeResult, error)
	// Verify queries the authoritative status of a transaction by reference.
	Verify(ctx context.Context, reference string) (*VerifyResult, error)
}
