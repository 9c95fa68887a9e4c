// File: internal/usecase/poller.go
package usecase

import (
	"context"
	"time"

	"opsdesk/internal/domain/model"
)

type PollState string

const (
	PollStateChecking  PollState = "checking"
	PollStateConfirmed PollState = "confirmed"
	PollStateFailed    PollState = "failed"
	PollStateTimedOut  PollState = "timed_out"
)

// StatusPoller waits for a checkout attempt to leave the pending state. It is
// the server-side equivalent of the payment callback page: a bounded number
// of checks, then give up and tell the user to contact support.
type StatusPoller struct {
	Billing     BillingUseCase
	Interval    time.Duration
	MaxAttempts int
}

func NewStatusPoller(billing BillingUseCase) *StatusPoller {
	return &StatusPoller{
		Billing:     billing,
		Interval:    2 * time.Second,
		MaxAttempts: 15,
	}
}

// Poll checks the payment record until it is confirmed, failed, or the
// attempt budget is exhausted. Context cancellation ends the poll early with
// the last observed state.
func (p *StatusPoller) Poll(ctx context.Context, reference string) (PollState, error) {
	state := PollStateChecking
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		rec, err := p.Billing.PaymentStatus(ctx, reference)
		if err != nil {
			return state, err
		}
		switch rec.Status {
		case model.PaymentStatusSuccess:
			return PollStateConfirmed, nil
		case model.PaymentStatusFailed:
			return PollStateFailed, nil
		}

		select {
		case <-ctx.Done():
			return state, ctx.Err()
		case <-time.After(p.Interval):
		}
	}
	return PollStateTimedOut, nil
}
