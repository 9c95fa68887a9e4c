// File: internal/infra/web/billing_handlers.go
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"opsdesk/internal/domain"
	"opsdesk/internal/domain/model"
)

type checkoutSubscriptionRequest struct {
	PlanID string `json:"plan_id" validate:"required"`
	Cycle  string `json:"billing_cycle" validate:"required,oneof=monthly yearly"`
}

func (s *Server) handleCheckoutSubscription(w http.ResponseWriter, r *http.Request) {
	var req checkoutSubscriptionRequest
	if err := s.decodeValid(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	user, err := s.users.FindByID(r.Context(), userIDFrom(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rec, url, err := s.billing.StartSubscriptionCheckout(r.Context(), user.ID, user.Email, req.PlanID, model.BillingCycle(req.Cycle))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reference":         rec.Reference,
		"amount":            rec.Amount,
		"currency":          rec.Currency,
		"authorization_url": url,
	})
}

type checkoutPurchaseRequest struct {
	ProductType string `json:"product_type" validate:"required,oneof=annual_prepaid lifetime"`
}

func (s *Server) handleCheckoutPurchase(w http.ResponseWriter, r *http.Request) {
	var req checkoutPurchaseRequest
	if err := s.decodeValid(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	user, err := s.users.FindByID(r.Context(), userIDFrom(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rec, url, err := s.billing.StartPurchaseCheckout(r.Context(), user.ID, user.Email, model.ProductType(req.ProductType))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reference":         rec.Reference,
		"amount":            rec.Amount,
		"currency":          rec.Currency,
		"authorization_url": url,
	})
}

// handlePaymentVerify is the post-checkout landing call: it reports the
// record's current status without touching the gateway. The webhook and the
// reconcile worker are the only writers.
func (s *Server) handlePaymentVerify(w http.ResponseWriter, r *http.Request) {
	reference := r.URL.Query().Get("reference")
	rec, err := s.billing.PaymentStatus(r.Context(), reference)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if rec.UserID != userIDFrom(r) {
		s.writeError(w, r, domain.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reference":    rec.Reference,
		"status":       rec.Status,
		"payment_type": rec.Type,
		"amount":       rec.Amount,
		"currency":     rec.Currency,
		"message":      paymentStatusMessage(rec.Status),
	})
}

func paymentStatusMessage(status model.PaymentStatus) string {
	switch status {
	case model.PaymentStatusSuccess:
		return "Payment confirmed."
	case model.PaymentStatusFailed:
		return "Payment failed. You have not been charged."
	default:
		return "Payment is still being processed."
	}
}

// handlePaymentWait blocks until the referenced payment leaves the pending
// state or the poll budget runs out. Callback pages use it instead of
// hammering /payment/verify.
func (s *Server) handlePaymentWait(w http.ResponseWriter, r *http.Request) {
	reference := r.URL.Query().Get("reference")
	rec, err := s.billing.PaymentStatus(r.Context(), reference)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if rec.UserID != userIDFrom(r) {
		s.writeError(w, r, domain.ErrNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()
	state, err := s.poller.Poll(ctx, reference)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reference": reference,
		"state":     state,
	})
}

func (s *Server) handleSubscriptionStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.subs.Status(r.Context(), userIDFrom(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := map[string]interface{}{
		"has_access": st.HasAccess,
		"plan_id":    st.PlanID,
	}
	if st.Subscription != nil {
		resp["subscription"] = map[string]interface{}{
			"plan_id":              st.Subscription.PlanID,
			"status":               st.Subscription.Status,
			"billing_cycle":        st.Subscription.BillingCycle,
			"current_period_end":   st.Subscription.CurrentPeriodEnd,
			"cancel_at_period_end": st.Subscription.CancelAtPeriodEnd,
		}
	}
	if st.Purchase != nil {
		resp["purchase"] = map[string]interface{}{
			"product_type": st.Purchase.ProductType,
			"expires_at":   st.Purchase.ExpiresAt,
		}
	}
	if st.PlanID != "" {
		perms := model.PermissionsFor(st.PlanID)
		resp["permissions"] = map[string]interface{}{
			"max_clients":        perms.MaxClients,
			"can_send_invoices":  perms.CanSendInvoices,
			"can_export_reports": perms.CanExportReports,
			"can_use_recurring":  perms.CanUseRecurring,
			"priority_support":   perms.PrioritySupport,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubscriptionCancel(w http.ResponseWriter, r *http.Request) {
	sub, err := s.subs.Cancel(r.Context(), userIDFrom(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":               sub.Status,
		"cancel_at_period_end": sub.CancelAtPeriodEnd,
		"current_period_end":   sub.CurrentPeriodEnd,
	})
}
