// File: internal/usecase/poller_test.go
package usecase_test

import (
	"context"
	"testing"
	"time"

	"opsdesk/internal/domain/model"
	"opsdesk/internal/usecase"
)

func newPollerFixture(t *testing.T) (*usecase.StatusPoller, *MockPaymentRepo, *model.PaymentRecord) {
	t.Helper()
	payments := NewMockPaymentRepo()
	plan, _ := model.PlanByID("starter")
	rec, err := model.NewSubscriptionPayment("pay-1", "user-1", plan, model.BillingCycleMonthly)
	if err != nil {
		t.Fatal(err)
	}
	if err := payments.Save(context.Background(), nil, rec); err != nil {
		t.Fatal(err)
	}
	p := usecase.NewStatusPoller(usecase.NewBillingUseCase(payments, &MockPaymentGateway{}, newTestLogger()))
	p.Interval = time.Millisecond
	p.MaxAttempts = 5
	return p, payments, rec
}

func TestPollerConfirmsOnceSuccessful(t *testing.T) {
	p, payments, rec := newPollerFixture(t)
	ctx := context.Background()

	go func() {
		time.Sleep(2 * time.Millisecond)
		_, _ = payments.UpdateStatusIfPending(ctx, nil, rec.Reference, model.PaymentStatusSuccess)
	}()

	state, err := p.Poll(ctx, rec.Reference)
	if err != nil {
		t.Fatal(err)
	}
	if state != usecase.PollStateConfirmed {
		t.Errorf("state = %q, want confirmed", state)
	}
}

func TestPollerReportsFailure(t *testing.T) {
	p, payments, rec := newPollerFixture(t)
	ctx := context.Background()
	if _, err := payments.UpdateStatusIfPending(ctx, nil, rec.Reference, model.PaymentStatusFailed); err != nil {
		t.Fatal(err)
	}

	state, err := p.Poll(ctx, rec.Reference)
	if err != nil {
		t.Fatal(err)
	}
	if state != usecase.PollStateFailed {
		t.Errorf("state = %q, want failed", state)
	}
}

func TestPollerTimesOut(t *testing.T) {
	p, _, rec := newPollerFixture(t)

	state, err := p.Poll(context.Background(), rec.Reference)
	if err != nil {
		t.Fatal(err)
	}
	if state != usecase.PollStateTimedOut {
		t.Errorf("state = %q, want timed_out", state)
	}
}

func TestPollerStopsOnContextCancel(t *testing.T) {
	p, _, rec := newPollerFixture(t)
	p.Interval = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	state, err := p.Poll(ctx, rec.Reference)
	if err == nil {
		t.Fatal("expected context error")
	}
	if state != usecase.PollStateChecking {
		t.Errorf("state = %q, want checking at cancellation", state)
	}
}
