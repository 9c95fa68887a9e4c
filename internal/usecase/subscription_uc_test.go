// File: internal/usecase/subscription_uc_test.go
package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"opsdesk/internal/domain"
	"opsdesk/internal/domain/model"
	"opsdesk/internal/usecase"
)

func TestSubscriptionStatus(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("no entitlement", func(t *testing.T) {
		uc := usecase.NewSubscriptionUseCase(NewMockSubscriptionRepo(), NewMockPurchaseRepo(), newTestLogger())
		st, err := uc.Status(ctx, "user-1")
		if err != nil {
			t.Fatal(err)
		}
		if st.HasAccess || st.PlanID != "" {
			t.Errorf("got access=%v plan=%q, want no access", st.HasAccess, st.PlanID)
		}
	})

	t.Run("live subscription", func(t *testing.T) {
		subs := NewMockSubscriptionRepo()
		plan, _ := model.PlanByID("pro")
		sub, _ := model.NewSubscription("sub-1", "user-1", plan, model.BillingCycleMonthly, now)
		if err := subs.Save(ctx, nil, sub); err != nil {
			t.Fatal(err)
		}
		uc := usecase.NewSubscriptionUseCase(subs, NewMockPurchaseRepo(), newTestLogger())

		st, err := uc.Status(ctx, "user-1")
		if err != nil {
			t.Fatal(err)
		}
		if !st.HasAccess || st.PlanID != "pro" {
			t.Errorf("got access=%v plan=%q, want access on pro", st.HasAccess, st.PlanID)
		}
		if st.Subscription == nil {
			t.Error("status should carry the subscription row")
		}
	})

	t.Run("elapsed period denies access", func(t *testing.T) {
		subs := NewMockSubscriptionRepo()
		plan, _ := model.PlanByID("starter")
		sub, _ := model.NewSubscription("sub-1", "user-1", plan, model.BillingCycleMonthly, now.AddDate(0, -2, 0))
		if err := subs.Save(ctx, nil, sub); err != nil {
			t.Fatal(err)
		}
		uc := usecase.NewSubscriptionUseCase(subs, NewMockPurchaseRepo(), newTestLogger())

		st, err := uc.Status(ctx, "user-1")
		if err != nil {
			t.Fatal(err)
		}
		if st.HasAccess {
			t.Error("an active row past its period end must not grant access")
		}
	})

	t.Run("lifetime purchase maps to plan equivalent", func(t *testing.T) {
		purchases := NewMockPurchaseRepo()
		product, _ := model.ProductByType(model.ProductLifetime)
		p, _ := model.NewPurchase("pu-1", "user-1", product, product.PriceKobo, "NGN", "buy_ref", now)
		if err := purchases.Save(ctx, nil, p); err != nil {
			t.Fatal(err)
		}
		uc := usecase.NewSubscriptionUseCase(NewMockSubscriptionRepo(), purchases, newTestLogger())

		st, err := uc.Status(ctx, "user-1")
		if err != nil {
			t.Fatal(err)
		}
		if !st.HasAccess || st.PlanID != "enterprise" {
			t.Errorf("got access=%v plan=%q, want enterprise via lifetime purchase", st.HasAccess, st.PlanID)
		}
	})

	t.Run("expired annual prepaid denies access", func(t *testing.T) {
		purchases := NewMockPurchaseRepo()
		product, _ := model.ProductByType(model.ProductAnnualPrepaid)
		p, _ := model.NewPurchase("pu-1", "user-1", product, product.PriceKobo, "NGN", "buy_ref", now.AddDate(-2, 0, 0))
		if err := purchases.Save(ctx, nil, p); err != nil {
			t.Fatal(err)
		}
		uc := usecase.NewSubscriptionUseCase(NewMockSubscriptionRepo(), purchases, newTestLogger())

		st, err := uc.Status(ctx, "user-1")
		if err != nil {
			t.Fatal(err)
		}
		if st.HasAccess {
			t.Error("an expired annual prepaid purchase must not grant access")
		}
	})

	t.Run("subscription plan wins over purchase", func(t *testing.T) {
		subs := NewMockSubscriptionRepo()
		plan, _ := model.PlanByID("starter")
		sub, _ := model.NewSubscription("sub-1", "user-1", plan, model.BillingCycleMonthly, now)
		if err := subs.Save(ctx, nil, sub); err != nil {
			t.Fatal(err)
		}
		purchases := NewMockPurchaseRepo()
		product, _ := model.ProductByType(model.ProductLifetime)
		p, _ := model.NewPurchase("pu-1", "user-1", product, product.PriceKobo, "NGN", "buy_ref", now)
		if err := purchases.Save(ctx, nil, p); err != nil {
			t.Fatal(err)
		}
		uc := usecase.NewSubscriptionUseCase(subs, purchases, newTestLogger())

		st, err := uc.Status(ctx, "user-1")
		if err != nil {
			t.Fatal(err)
		}
		if st.PlanID != "starter" {
			t.Errorf("plan = %q, want the subscription's plan", st.PlanID)
		}
	})
}

func TestSubscriptionCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("no live subscription", func(t *testing.T) {
		uc := usecase.NewSubscriptionUseCase(NewMockSubscriptionRepo(), NewMockPurchaseRepo(), newTestLogger())
		_, err := uc.Cancel(ctx, "user-1")
		if !errors.Is(err, domain.ErrNoActiveSubscription) {
			t.Fatalf("err = %v, want ErrNoActiveSubscription", err)
		}
	})

	t.Run("flags cancellation without revoking access", func(t *testing.T) {
		subs := NewMockSubscriptionRepo()
		plan, _ := model.PlanByID("pro")
		sub, _ := model.NewSubscription("sub-1", "user-1", plan, model.BillingCycleMonthly, time.Now().UTC())
		if err := subs.Save(ctx, nil, sub); err != nil {
			t.Fatal(err)
		}
		uc := usecase.NewSubscriptionUseCase(subs, NewMockPurchaseRepo(), newTestLogger())

		got, err := uc.Cancel(ctx, "user-1")
		if err != nil {
			t.Fatal(err)
		}
		if !got.CancelAtPeriodEnd {
			t.Error("cancel_at_period_end not set")
		}
		if got.Status != model.SubscriptionStatusActive {
			t.Errorf("status = %q, cancel must not change status before period end", got.Status)
		}

		st, err := uc.Status(ctx, "user-1")
		if err != nil {
			t.Fatal(err)
		}
		if !st.HasAccess {
			t.Error("access must persist until the period elapses")
		}

		// Idempotent: a second cancel succeeds and changes nothing.
		again, err := uc.Cancel(ctx, "user-1")
		if err != nil {
			t.Fatal(err)
		}
		if !again.CancelAtPeriodEnd {
			t.Error("second cancel lost the flag")
		}
	})
}
