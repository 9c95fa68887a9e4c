// File: internal/infra/web/webhook.go
package web

import (
	"io"
	"net/http"

	"opsdesk/internal/infra/metrics"
	"opsdesk/internal/infra/payment"
)

const maxWebhookBody = 1 << 20 // 1 MiB

// handlePaystackWebhook verifies the HMAC signature over the raw body before
// trusting a single byte of JSON, then dispatches by event type. Events we do
// not act on are acknowledged with 200 so the gateway stops retrying;
// processing failures return 500 so it retries later.
func (s *Server) handlePaystackWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}

	signature := r.Header.Get("x-paystack-signature")
	if !payment.VerifyWebhookSignature(s.cfg.Paystack.WebhookSecret, body, signature) {
		s.log.Warn().Str("remote", r.RemoteAddr).Msg("webhook signature verification failed")
		metrics.IncWebhookEvent("unknown", "bad_signature")
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	env, err := payment.ParseEvent(body)
	if err != nil {
		s.log.Warn().Err(err).Msg("webhook payload rejected")
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}

	switch env.Event {
	case payment.EventChargeSuccess:
		charge, err := env.Charge()
		if err != nil {
			s.log.Warn().Err(err).Msg("charge event rejected")
			http.Error(w, "bad payload", http.StatusBadRequest)
			return
		}
		if err := s.reconcile.HandleChargeSuccess(r.Context(), charge.Reference); err != nil {
			s.log.Error().Err(err).Str("reference", charge.Reference).Msg("charge reconciliation failed")
			http.Error(w, "reconcile failed", http.StatusInternalServerError)
			return
		}

	case payment.EventSubscriptionCreate:
		sub, err := env.Subscription()
		if err != nil {
			s.log.Warn().Err(err).Msg("subscription event rejected")
			http.Error(w, "bad payload", http.StatusBadRequest)
			return
		}
		if err := s.reconcile.HandleSubscriptionCreated(r.Context(), sub.SubscriptionCode, sub.Customer.CustomerCode, sub.Customer.Email); err != nil {
			s.log.Error().Err(err).Str("subscription_code", sub.SubscriptionCode).Msg("subscription link failed")
			http.Error(w, "reconcile failed", http.StatusInternalServerError)
			return
		}

	case payment.EventSubscriptionDisable, payment.EventSubscriptionNotRenew:
		sub, err := env.Subscription()
		if err != nil {
			s.log.Warn().Err(err).Msg("subscription event rejected")
			http.Error(w, "bad payload", http.StatusBadRequest)
			return
		}
		if err := s.reconcile.HandleSubscriptionCanceled(r.Context(), sub.SubscriptionCode); err != nil {
			s.log.Error().Err(err).Str("subscription_code", sub.SubscriptionCode).Msg("subscription cancel failed")
			http.Error(w, "reconcile failed", http.StatusInternalServerError)
			return
		}

	default:
		s.log.Debug().Str("event", env.Event).Msg("webhook event ignored")
		metrics.IncWebhookEvent(env.Event, "ignored")
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}
